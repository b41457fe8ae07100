package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/divvyhq/divvy/internal/ledger"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/storage"
)

// ExpenseService manages the expense history the ledger is computed from.
// It is the upstream validation the aggregator relies on: splits that reach
// the store always sum to the expense amount and reference group members.
type ExpenseService struct {
	store storage.Store
	now   func() time.Time
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store, now: time.Now}
}

// ExpenseInput is the caller-provided shape of a new or updated expense.
// An empty Split means "split equally among all group members".
type ExpenseInput struct {
	Description string
	Amount      money.Cents
	PayerID     models.MemberID
	Split       []models.SplitEntry
}

func (s *ExpenseService) validateInput(group *models.Group, in *ExpenseInput) error {
	if in.Amount <= 0 {
		return ledger.ErrInvalidAmount
	}
	if !group.IsMember(in.PayerID) {
		return ErrMemberNotInGroup
	}
	if len(in.Split) == 0 {
		in.Split = models.EqualSplit(in.Amount, group.Members)
		return nil
	}
	var total money.Cents
	for _, entry := range in.Split {
		if entry.Amount < 0 {
			return ledger.ErrInvalidAmount
		}
		if !group.IsMember(entry.MemberID) {
			return ErrMemberNotInGroup
		}
		total += entry.Amount
	}
	if total != in.Amount {
		return ErrSplitMismatch
	}
	return nil
}

// Add records a new expense for the group on behalf of the acting member.
func (s *ExpenseService) Add(ctx context.Context, groupID string, actor models.MemberID, in ExpenseInput) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.Active {
		return nil, ErrGroupClosed
	}
	if !group.IsMember(actor) {
		return nil, ErrNotGroupMember
	}
	if err := s.validateInput(group, &in); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     groupID,
		Description: in.Description,
		Amount:      in.Amount,
		PayerID:     in.PayerID,
		Split:       in.Split,
		CreatedAt:   s.now().Unix(),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.Info("Expense recorded",
		"group_id", groupID,
		"expense_id", expense.ID,
		"payer", expense.PayerID,
		"amount", expense.Amount,
	)
	return expense, nil
}

// checkMutable loads the expense and enforces the two mutation rules: only
// the original payer may touch it, and only within the modification window.
func (s *ExpenseService) checkMutable(ctx context.Context, expenseID string, actor models.MemberID) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.PayerID != actor {
		return nil, ErrNotExpensePayer
	}
	if err := ledger.CheckMutable(expense.CreatedAt, s.now()); err != nil {
		return nil, err
	}
	return expense, nil
}

// Update replaces an expense's description, amount, payer and split. Only
// the original payer may update, and only within the mutation window.
func (s *ExpenseService) Update(ctx context.Context, expenseID string, actor models.MemberID, in ExpenseInput) (*models.Expense, error) {
	expense, err := s.checkMutable(ctx, expenseID, actor)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(group, &in); err != nil {
		return nil, err
	}

	expense.Description = in.Description
	expense.Amount = in.Amount
	expense.PayerID = in.PayerID
	expense.Split = in.Split
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.Info("Expense updated", "group_id", expense.GroupID, "expense_id", expense.ID)
	return expense, nil
}

// Delete removes an expense under the same rules as Update.
func (s *ExpenseService) Delete(ctx context.Context, expenseID string, actor models.MemberID) error {
	expense, err := s.checkMutable(ctx, expenseID, actor)
	if err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	slog.Info("Expense deleted", "group_id", expense.GroupID, "expense_id", expenseID)
	return nil
}

// ListForGroup returns a group's expenses, oldest first, to members only.
func (s *ExpenseService) ListForGroup(ctx context.Context, groupID string, actor models.MemberID) ([]*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(actor) {
		return nil, ErrNotGroupMember
	}
	return s.store.ListExpenses(ctx, groupID)
}
