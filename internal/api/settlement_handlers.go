package api

import (
	"net/http"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/service"
)

type balancePayload struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type transferPayload struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type settlementSummaryPayload struct {
	TotalSpent     float64           `json:"totalSpent"`
	PerPersonShare float64           `json:"perPersonShare"`
	Balances       []balancePayload  `json:"balances"`
	Settlements    []transferPayload `json:"settlements"`
}

type settlementPayload struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"groupId"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"createdAt"`
	Note      string  `json:"note,omitempty"`
}

func toSettlementPayload(s *models.Settlement) settlementPayload {
	return settlementPayload{
		ID:        s.ID,
		GroupID:   s.GroupID,
		From:      string(s.FromID),
		To:        string(s.ToID),
		Amount:    s.Amount.Float(),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		Note:      s.Note,
	}
}

func toTransferPayloads(transfers []models.Transfer) []transferPayload {
	payload := make([]transferPayload, len(transfers))
	for i, tr := range transfers {
		payload[i] = transferPayload{From: string(tr.From), To: string(tr.To), Amount: tr.Amount.Float()}
	}
	return payload
}

func (s *Server) handleGroupSettlement(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	// Membership gate before any computation.
	if _, err := s.groups.Get(r.Context(), r.PathValue("id"), actor); err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.ledger.GroupSettlement(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	balances := make([]balancePayload, len(summary.Balances))
	for i, b := range summary.Balances {
		balances[i] = balancePayload{ID: string(b.MemberID), Name: b.Name, Balance: b.Balance.Float()}
	}

	writeJSON(w, http.StatusOK, settlementSummaryPayload{
		TotalSpent:     summary.TotalSpent.Float(),
		PerPersonShare: summary.PerPersonShare.Float(),
		Balances:       balances,
		Settlements:    toTransferPayloads(summary.Transfers),
	})
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	var req struct {
		To     string  `json:"to"`
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}

	settlement, err := s.ledger.Pay(r.Context(), r.PathValue("id"), actor, models.MemberID(req.To), money.FromFloat(req.Amount), req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"settlement": toSettlementPayload(settlement)})
}

func (s *Server) handlePendingSettlements(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	pending, err := s.ledger.PendingForMember(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"pending": toTransferPayloads(pending)})
}

func (s *Server) handleSettlementHistory(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	history, err := s.ledger.HistoryForMember(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]settlementPayload, len(history))
	for i, settlement := range history {
		payload[i] = toSettlementPayload(settlement)
	}
	writeJSON(w, http.StatusOK, map[string]any{"settlements": payload})
}
