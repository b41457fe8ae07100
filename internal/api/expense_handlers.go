package api

import (
	"net/http"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/service"
)

type splitEntryPayload struct {
	MemberID string  `json:"memberId"`
	Amount   float64 `json:"amount"`
}

type expensePayload struct {
	ID          string              `json:"id"`
	GroupID     string              `json:"groupId"`
	Description string              `json:"description"`
	Amount      float64             `json:"amount"`
	PayerID     string              `json:"payerId"`
	Split       []splitEntryPayload `json:"split"`
	CreatedAt   int64               `json:"createdAt"`
}

func toExpensePayload(e *models.Expense) expensePayload {
	split := make([]splitEntryPayload, len(e.Split))
	for i, entry := range e.Split {
		split[i] = splitEntryPayload{MemberID: string(entry.MemberID), Amount: entry.Amount.Float()}
	}
	return expensePayload{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount.Float(),
		PayerID:     string(e.PayerID),
		Split:       split,
		CreatedAt:   e.CreatedAt,
	}
}

type expenseRequest struct {
	Description string              `json:"description"`
	Amount      float64             `json:"amount"`
	PayerID     string              `json:"payerId"`
	Split       []splitEntryPayload `json:"split"`
}

func (req *expenseRequest) toInput(fallbackPayer models.MemberID) service.ExpenseInput {
	payer := models.MemberID(req.PayerID)
	if payer == "" {
		payer = fallbackPayer
	}
	split := make([]models.SplitEntry, len(req.Split))
	for i, entry := range req.Split {
		split[i] = models.SplitEntry{
			MemberID: models.MemberID(entry.MemberID),
			Amount:   money.FromFloat(entry.Amount),
		}
	}
	return service.ExpenseInput{
		Description: req.Description,
		Amount:      money.FromFloat(req.Amount),
		PayerID:     payer,
		Split:       split,
	}
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}

	expense, err := s.expenses.Add(r.Context(), r.PathValue("id"), actor, req.toInput(actor))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpensePayload(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	expenses, err := s.expenses.ListForGroup(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]expensePayload, len(expenses))
	for i, e := range expenses {
		payload[i] = toExpensePayload(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": payload})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}

	expense, err := s.expenses.Update(r.Context(), r.PathValue("id"), actor, req.toInput(actor))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpensePayload(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	actor, err := service.ActingMember(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
		return
	}

	if err := s.expenses.Delete(r.Context(), r.PathValue("id"), actor); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
