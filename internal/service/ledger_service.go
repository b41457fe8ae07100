package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/divvyhq/divvy/internal/ledger"
	"github.com/divvyhq/divvy/internal/middleware"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/storage"
)

// payRetries is how many times a payment re-reads history and re-validates
// after losing the settlement-log version race before giving up.
const payRetries = 3

// pendingConcurrency caps how many groups are recomputed in parallel when
// collecting a member's pending transfers.
const pendingConcurrency = 4

// LedgerService orchestrates the ledger core against the stores: it reads
// history, recomputes balances, and records validated settlements.
type LedgerService struct {
	store storage.Store
	now   func() time.Time
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store, now: time.Now}
}

// GroupSummary is the full settlement view of a group: spending totals,
// per-member balances in member-list order, and the suggested transfers
// that zero them.
type GroupSummary struct {
	TotalSpent     money.Cents
	PerPersonShare money.Cents
	Balances       []models.MemberBalance
	Transfers      []models.Transfer
}

// snapshot is one consistent read of a group's history plus the settlement
// log version it was taken at.
type snapshot struct {
	group       *models.Group
	expenses    []*models.Expense
	settlements []*models.Settlement
	version     int64
}

func (s *LedgerService) readSnapshot(ctx context.Context, groupID string) (*snapshot, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	// Version first: if a settlement lands between these reads the append
	// fails the version check and the caller retries, never double-counts.
	version, err := s.store.SettlementLogVersion(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListCompletedSettlements(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &snapshot{group: group, expenses: expenses, settlements: settlements, version: version}, nil
}

// balances runs the aggregator over a snapshot, logging (but not failing on)
// integrity faults: history referencing unknown members still contributes.
func (s *LedgerService) balances(snap *snapshot) map[models.MemberID]money.Cents {
	balances, integrity := ledger.Balances(snap.group.Members, snap.expenses, snap.settlements)
	if integrity != nil {
		slog.Error("Ledger history references unknown members",
			"group_id", snap.group.ID,
			"unknown_members", integrity.UnknownMembers,
		)
	}
	return balances
}

// GroupSettlement recomputes a group's balances from its full expense and
// completed-settlement history and suggests transfers that settle it.
func (s *LedgerService) GroupSettlement(ctx context.Context, groupID string) (*GroupSummary, error) {
	snap, err := s.readSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	balances := s.balances(snap)

	var totalSpent money.Cents
	for _, e := range snap.expenses {
		totalSpent += e.Amount
	}
	var perPerson money.Cents
	if n := money.Cents(len(snap.group.Members)); n > 0 {
		perPerson = (totalSpent + n/2) / n
	}

	summary := &GroupSummary{
		TotalSpent:     totalSpent,
		PerPersonShare: perPerson,
		Balances:       s.memberBalances(ctx, snap.group.Members, balances),
		Transfers:      ledger.Simplify(snap.group.Members, balances),
	}

	slog.Debug("Group settlement computed",
		"group_id", groupID,
		"expenses", len(snap.expenses),
		"settlements", len(snap.settlements),
		"transfers", len(summary.Transfers),
	)
	return summary, nil
}

// memberBalances orders the balance map by member list and resolves display
// names. Unknown ids from integrity faults are appended after the members,
// sorted, with the raw id as the name.
func (s *LedgerService) memberBalances(ctx context.Context, members []models.MemberID, balances map[models.MemberID]money.Cents) []models.MemberBalance {
	result := make([]models.MemberBalance, 0, len(balances))
	listed := make(map[models.MemberID]bool, len(members))
	for _, id := range members {
		listed[id] = true
		result = append(result, models.MemberBalance{
			MemberID: id,
			Name:     s.displayName(ctx, id),
			Balance:  balances[id],
		})
	}

	var extras []models.MemberID
	for id := range balances {
		if !listed[id] {
			extras = append(extras, id)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	for _, id := range extras {
		result = append(result, models.MemberBalance{MemberID: id, Name: string(id), Balance: balances[id]})
	}

	return result
}

func (s *LedgerService) displayName(ctx context.Context, id models.MemberID) string {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return string(id)
	}
	return user.DisplayName
}

// Pay validates and records a settlement from the acting member to another
// group member. The read-validate-append cycle is guarded by an optimistic
// version check on the group's settlement log; a lost race re-reads and
// re-validates against the fresh balances rather than double-counting the
// repayment.
func (s *LedgerService) Pay(ctx context.Context, groupID string, from, to models.MemberID, amount money.Cents, note string) (*models.Settlement, error) {
	// Amount first: it is the most specific failure and needs no I/O.
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if from == to {
		return nil, ErrSelfPayment
	}

	for attempt := 0; attempt <= payRetries; attempt++ {
		snap, err := s.readSnapshot(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if !snap.group.Active {
			return nil, ErrGroupClosed
		}
		if !snap.group.IsMember(from) || !snap.group.IsMember(to) {
			return nil, ErrNotGroupMember
		}

		if err := ledger.ValidatePayment(s.balances(snap), from, to, amount); err != nil {
			return nil, err
		}

		settlement := &models.Settlement{
			GroupID:   groupID,
			FromID:    from,
			ToID:      to,
			Amount:    amount,
			Status:    models.SettlementCompleted,
			CreatedAt: s.now().Unix(),
			CreatedBy: from,
			Note:      note,
		}

		err = s.store.AppendSettlement(ctx, settlement, snap.version)
		if errors.Is(err, storage.ErrVersionConflict) {
			slog.Warn("Settlement log advanced during payment, retrying",
				"group_id", groupID,
				"from", from,
				"attempt", attempt+1,
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to record settlement: %w", err)
		}

		slog.Info("Settlement recorded",
			"group_id", groupID,
			"settlement_id", settlement.ID,
			"from", from,
			"to", to,
			"amount", amount,
		)
		return settlement, nil
	}

	return nil, ErrConcurrentConflict
}

// PendingForMember computes outstanding transfer suggestions involving the
// member across all their groups. Groups are recomputed concurrently; the
// result is ordered by group creation time so repeated calls agree.
func (s *LedgerService) PendingForMember(ctx context.Context, memberID models.MemberID) ([]models.Transfer, error) {
	groups, err := s.store.ListGroupsByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt < groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})

	perGroup := make([][]models.Transfer, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pendingConcurrency)
	for i, group := range groups {
		g.Go(func() error {
			snap, err := s.readSnapshot(gctx, group.ID)
			if err != nil {
				return err
			}
			for _, tr := range ledger.Simplify(snap.group.Members, s.balances(snap)) {
				if tr.From == memberID || tr.To == memberID {
					perGroup[i] = append(perGroup[i], tr)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pending []models.Transfer
	for _, transfers := range perGroup {
		pending = append(pending, transfers...)
	}
	return pending, nil
}

// HistoryForMember returns all completed settlements where the member is
// payer or receiver, newest first.
func (s *LedgerService) HistoryForMember(ctx context.Context, memberID models.MemberID) ([]*models.Settlement, error) {
	return s.store.ListSettlementsByMember(ctx, memberID)
}

// ActingMember reads the authenticated member id from the request context.
func ActingMember(ctx context.Context) (models.MemberID, error) {
	id := middleware.GetUserID(ctx)
	if id == "" {
		return "", fmt.Errorf("authentication required")
	}
	return id, nil
}
