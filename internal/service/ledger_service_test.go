package service

import (
	"context"
	"errors"
	"testing"

	"github.com/divvyhq/divvy/internal/ledger"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/storage"
)

// threeWaySplit seeds the canonical trip: alice fronts 300.00 split equally,
// leaving bob and charlie each owing 100.00.
func threeWaySplit(t *testing.T, store storage.Store) *models.Group {
	t.Helper()
	group := seedGroup(t, store, "alice", "bob", "charlie")
	seedExpense(t, store, group.ID, "alice", []models.SplitEntry{
		{MemberID: "alice", Amount: 10000},
		{MemberID: "bob", Amount: 10000},
		{MemberID: "charlie", Amount: 10000},
	})
	return group
}

func TestGroupSettlement(t *testing.T) {
	store := newTestStore(t)
	group := threeWaySplit(t, store)
	svc := NewLedgerService(store)

	summary, err := svc.GroupSettlement(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("GroupSettlement failed: %v", err)
	}

	if summary.TotalSpent != 30000 {
		t.Errorf("TotalSpent = %d, want 30000", summary.TotalSpent)
	}
	if summary.PerPersonShare != 10000 {
		t.Errorf("PerPersonShare = %d, want 10000", summary.PerPersonShare)
	}

	wantBalances := []struct {
		id      models.MemberID
		balance money.Cents
	}{
		{"alice", 20000},
		{"bob", -10000},
		{"charlie", -10000},
	}
	if len(summary.Balances) != len(wantBalances) {
		t.Fatalf("Balances count = %d, want %d", len(summary.Balances), len(wantBalances))
	}
	for i, want := range wantBalances {
		got := summary.Balances[i]
		if got.MemberID != want.id || got.Balance != want.balance {
			t.Errorf("Balances[%d] = %s/%d, want %s/%d", i, got.MemberID, got.Balance, want.id, want.balance)
		}
	}

	wantTransfers := []models.Transfer{
		{From: "bob", To: "alice", Amount: 10000},
		{From: "charlie", To: "alice", Amount: 10000},
	}
	if len(summary.Transfers) != len(wantTransfers) {
		t.Fatalf("Transfers count = %d, want %d", len(summary.Transfers), len(wantTransfers))
	}
	for i, want := range wantTransfers {
		if summary.Transfers[i] != want {
			t.Errorf("Transfers[%d] = %+v, want %+v", i, summary.Transfers[i], want)
		}
	}
}

func TestPayValidation(t *testing.T) {
	store := newTestStore(t)
	group := threeWaySplit(t, store)
	svc := NewLedgerService(store)
	ctx := context.Background()

	tests := []struct {
		name    string
		from    models.MemberID
		to      models.MemberID
		amount  money.Cents
		wantErr error
	}{
		{
			name:    "non-positive amount",
			from:    "bob",
			to:      "alice",
			amount:  0,
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name:    "self payment",
			from:    "bob",
			to:      "bob",
			amount:  1000,
			wantErr: ErrSelfPayment,
		},
		{
			name:    "payer not in group",
			from:    "mallory",
			to:      "alice",
			amount:  1000,
			wantErr: ErrNotGroupMember,
		},
		{
			name:    "receiver not in group",
			from:    "bob",
			to:      "mallory",
			amount:  1000,
			wantErr: ErrNotGroupMember,
		},
		{
			name:    "payer owes nothing",
			from:    "alice",
			to:      "bob",
			amount:  1000,
			wantErr: ledger.ErrNothingToPay,
		},
		{
			name:    "receiver is not owed",
			from:    "bob",
			to:      "charlie",
			amount:  1000,
			wantErr: ledger.ErrReceiverNotOwed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Pay(ctx, group.ID, tt.from, tt.to, tt.amount, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Pay error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("overpayment reports the cap", func(t *testing.T) {
		_, err := svc.Pay(ctx, group.ID, "bob", "alice", 15000, "")
		var exceeds *ledger.ExceedsMaxPayableError
		if !errors.As(err, &exceeds) {
			t.Fatalf("Pay error = %v, want ExceedsMaxPayableError", err)
		}
		if exceeds.Max != 10000 {
			t.Errorf("Max = %d, want 10000", exceeds.Max)
		}
	})

	t.Run("one cent over the cap is tolerated", func(t *testing.T) {
		if _, err := svc.Pay(ctx, group.ID, "bob", "alice", 10001, ""); err != nil {
			t.Errorf("Pay failed: %v", err)
		}
	})
}

func TestPayRecordsSettlement(t *testing.T) {
	store := newTestStore(t)
	group := threeWaySplit(t, store)
	svc := NewLedgerService(store)
	ctx := context.Background()

	settlement, err := svc.Pay(ctx, group.ID, "bob", "alice", 10000, "venmo")
	if err != nil {
		t.Fatalf("Pay failed: %v", err)
	}
	if settlement.ID == "" {
		t.Error("Expected settlement ID to be generated")
	}
	if settlement.Status != models.SettlementCompleted {
		t.Errorf("Status = %s, want %s", settlement.Status, models.SettlementCompleted)
	}

	// Bob is square now; the same repayment again must be rejected.
	if _, err := svc.Pay(ctx, group.ID, "bob", "alice", 10000, ""); !errors.Is(err, ledger.ErrNothingToPay) {
		t.Errorf("repeat Pay error = %v, want ErrNothingToPay", err)
	}

	summary, err := svc.GroupSettlement(ctx, group.ID)
	if err != nil {
		t.Fatalf("GroupSettlement failed: %v", err)
	}
	want := []models.Transfer{{From: "charlie", To: "alice", Amount: 10000}}
	if len(summary.Transfers) != 1 || summary.Transfers[0] != want[0] {
		t.Errorf("Transfers = %+v, want %+v", summary.Transfers, want)
	}
}

func TestPayClosedGroup(t *testing.T) {
	store := newTestStore(t)
	group := threeWaySplit(t, store)
	svc := NewLedgerService(store)
	ctx := context.Background()

	group.Active = false
	if err := store.UpdateGroup(ctx, group); err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}

	if _, err := svc.Pay(ctx, group.ID, "bob", "alice", 10000, ""); !errors.Is(err, ErrGroupClosed) {
		t.Errorf("Pay error = %v, want ErrGroupClosed", err)
	}
}

// conflictStore fails AppendSettlement with a version conflict a fixed number
// of times before delegating to the real store.
type conflictStore struct {
	storage.Store
	conflicts int
}

func (c *conflictStore) AppendSettlement(ctx context.Context, settlement *models.Settlement, expectedVersion int64) error {
	if c.conflicts > 0 {
		c.conflicts--
		return storage.ErrVersionConflict
	}
	return c.Store.AppendSettlement(ctx, settlement, expectedVersion)
}

func TestPayRetriesOnVersionConflict(t *testing.T) {
	store := newTestStore(t)
	group := threeWaySplit(t, store)
	ctx := context.Background()

	t.Run("recovers when the log settles down", func(t *testing.T) {
		svc := NewLedgerService(&conflictStore{Store: store, conflicts: 2})
		settlement, err := svc.Pay(ctx, group.ID, "bob", "alice", 10000, "")
		if err != nil {
			t.Fatalf("Pay failed: %v", err)
		}
		if settlement.Status != models.SettlementCompleted {
			t.Errorf("Status = %s, want %s", settlement.Status, models.SettlementCompleted)
		}
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		svc := NewLedgerService(&conflictStore{Store: store, conflicts: 100})
		_, err := svc.Pay(ctx, group.ID, "charlie", "alice", 10000, "")
		if !errors.Is(err, ErrConcurrentConflict) {
			t.Errorf("Pay error = %v, want ErrConcurrentConflict", err)
		}
		// The failed payment must not appear in history.
		settlements, listErr := store.ListCompletedSettlements(ctx, group.ID)
		if listErr != nil {
			t.Fatalf("ListCompletedSettlements failed: %v", listErr)
		}
		if len(settlements) != 1 {
			t.Errorf("settlement count = %d, want 1", len(settlements))
		}
	})
}

func TestPendingForMember(t *testing.T) {
	store := newTestStore(t)
	svc := NewLedgerService(store)
	ctx := context.Background()

	trip := seedGroup(t, store, "alice", "bob", "charlie")
	seedExpense(t, store, trip.ID, "alice", []models.SplitEntry{
		{MemberID: "alice", Amount: 10000},
		{MemberID: "bob", Amount: 10000},
		{MemberID: "charlie", Amount: 10000},
	})

	dinner := seedGroup(t, store, "bob", "dave")
	seedExpense(t, store, dinner.ID, "dave", []models.SplitEntry{
		{MemberID: "bob", Amount: 2500},
		{MemberID: "dave", Amount: 2500},
	})

	pending, err := svc.PendingForMember(ctx, "bob")
	if err != nil {
		t.Fatalf("PendingForMember failed: %v", err)
	}

	// Both groups were created within the same second, so cross-group order
	// falls back to the id tie-break; assert membership, not position.
	want := map[models.Transfer]bool{
		{From: "bob", To: "alice", Amount: 10000}: true,
		{From: "bob", To: "dave", Amount: 2500}:   true,
	}
	if len(pending) != len(want) {
		t.Fatalf("pending count = %d, want %d: %+v", len(pending), len(want), pending)
	}
	for _, tr := range pending {
		if !want[tr] {
			t.Errorf("unexpected pending transfer %+v", tr)
		}
	}

	// charlie's transfer in the trip group must not leak into bob's view,
	// and dave only sees the dinner debt.
	forDave, err := svc.PendingForMember(ctx, "dave")
	if err != nil {
		t.Fatalf("PendingForMember failed: %v", err)
	}
	if len(forDave) != 1 || forDave[0].To != "dave" {
		t.Errorf("dave's pending = %+v, want one transfer to dave", forDave)
	}
}

func TestHistoryForMember(t *testing.T) {
	store := newTestStore(t)
	group := threeWaySplit(t, store)
	svc := NewLedgerService(store)
	ctx := context.Background()

	if _, err := svc.Pay(ctx, group.ID, "bob", "alice", 10000, ""); err != nil {
		t.Fatalf("Pay failed: %v", err)
	}

	history, err := svc.HistoryForMember(ctx, "bob")
	if err != nil {
		t.Fatalf("HistoryForMember failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history count = %d, want 1", len(history))
	}
	if history[0].FromID != "bob" || history[0].ToID != "alice" {
		t.Errorf("history[0] = %s->%s, want bob->alice", history[0].FromID, history[0].ToID)
	}

	none, err := svc.HistoryForMember(ctx, "charlie")
	if err != nil {
		t.Fatalf("HistoryForMember failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("charlie's history count = %d, want 0", len(none))
	}
}
