package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
	"github.com/divvyhq/divvy/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedGroup(t *testing.T, store storage.Store, members ...models.MemberID) *models.Group {
	t.Helper()
	group := &models.Group{
		Name:      "Test Group",
		Members:   members,
		Active:    true,
		CreatedBy: members[0],
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func seedExpense(t *testing.T, store storage.Store, groupID string, payer models.MemberID, split []models.SplitEntry) *models.Expense {
	t.Helper()
	expense := &models.Expense{
		GroupID:     groupID,
		Description: "seed",
		PayerID:     payer,
		Split:       split,
	}
	for _, entry := range split {
		expense.Amount += entry.Amount
	}
	if err := store.CreateExpense(context.Background(), expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return expense
}
