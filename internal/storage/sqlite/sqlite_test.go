package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:      "Ski Trip",
		Members:   []models.MemberID{"alice", "bob", "charlie"},
		Active:    true,
		CreatedBy: "alice",
	}

	t.Run("CreateGroup generates ID and preserves member order", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []models.MemberID{"alice", "bob", "charlie"}
		if len(got.Members) != len(want) {
			t.Fatalf("Members count mismatch: got %d, want %d", len(got.Members), len(want))
		}
		for i, m := range want {
			if got.Members[i] != m {
				t.Errorf("Members[%d] = %s, want %s", i, got.Members[i], m)
			}
		}
		if !got.Active {
			t.Error("Expected group to be active")
		}
	})

	t.Run("GetGroup returns ErrGroupNotFound for unknown id", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrGroupNotFound) {
			t.Errorf("GetGroup error = %v, want ErrGroupNotFound", err)
		}
	})

	t.Run("Expense round trip with split", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			Description: "Groceries",
			Amount:      30000,
			PayerID:     "alice",
			Split: []models.SplitEntry{
				{MemberID: "alice", Amount: 10000},
				{MemberID: "bob", Amount: 10000},
				{MemberID: "charlie", Amount: 10000},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Amount != 30000 {
			t.Errorf("Amount = %d, want 30000", got.Amount)
		}
		if len(got.Split) != 3 {
			t.Errorf("Split entries = %d, want 3", len(got.Split))
		}
		if got.SplitTotal() != got.Amount {
			t.Errorf("SplitTotal = %d, want %d", got.SplitTotal(), got.Amount)
		}

		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Errorf("ListExpenses returned %d expenses, want 1", len(expenses))
		}
	})

	t.Run("DeleteExpense removes expense and split", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			Description: "Taxi",
			Amount:      2000,
			PayerID:     "bob",
			Split:       []models.SplitEntry{{MemberID: "alice", Amount: 2000}},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrExpenseNotFound) {
			t.Errorf("GetExpense after delete = %v, want ErrExpenseNotFound", err)
		}
	})

	t.Run("User round trip", func(t *testing.T) {
		user := &models.User{
			Email:        "alice@example.com",
			DisplayName:  "Alice",
			PasswordHash: "$2a$10$fake",
		}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, user.ID)
		}

		if _, err := store.GetUserByID(ctx, "no-such-user"); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("GetUserByID = %v, want ErrUserNotFound", err)
		}
	})
}

func TestAppendSettlementVersioning(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:      "Dinner Club",
		Members:   []models.MemberID{"alice", "bob"},
		Active:    true,
		CreatedBy: "alice",
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	version, err := store.SettlementLogVersion(ctx, group.ID)
	if err != nil {
		t.Fatalf("SettlementLogVersion failed: %v", err)
	}
	if version != 0 {
		t.Fatalf("initial version = %d, want 0", version)
	}

	settlement := func() *models.Settlement {
		return &models.Settlement{
			GroupID:   group.ID,
			FromID:    "bob",
			ToID:      "alice",
			Amount:    5000,
			Status:    models.SettlementCompleted,
			CreatedBy: "bob",
		}
	}

	t.Run("append at current version succeeds", func(t *testing.T) {
		if err := store.AppendSettlement(ctx, settlement(), 0); err != nil {
			t.Fatalf("AppendSettlement failed: %v", err)
		}
		version, err := store.SettlementLogVersion(ctx, group.ID)
		if err != nil {
			t.Fatalf("SettlementLogVersion failed: %v", err)
		}
		if version != 1 {
			t.Errorf("version after append = %d, want 1", version)
		}
	})

	t.Run("append at stale version fails", func(t *testing.T) {
		err := store.AppendSettlement(ctx, settlement(), 0)
		if !errors.Is(err, storage.ErrVersionConflict) {
			t.Errorf("AppendSettlement = %v, want ErrVersionConflict", err)
		}
		// The conflicting settlement must not be recorded.
		settlements, err := store.ListCompletedSettlements(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListCompletedSettlements failed: %v", err)
		}
		if len(settlements) != 1 {
			t.Errorf("settlement count = %d, want 1", len(settlements))
		}
	})

	t.Run("member history filters by participant", func(t *testing.T) {
		byBob, err := store.ListSettlementsByMember(ctx, "bob")
		if err != nil {
			t.Fatalf("ListSettlementsByMember failed: %v", err)
		}
		if len(byBob) != 1 {
			t.Errorf("bob's history = %d settlements, want 1", len(byBob))
		}
		byGhost, err := store.ListSettlementsByMember(ctx, "ghost")
		if err != nil {
			t.Fatalf("ListSettlementsByMember failed: %v", err)
		}
		if len(byGhost) != 0 {
			t.Errorf("ghost's history = %d settlements, want 0", len(byGhost))
		}
	})
}
