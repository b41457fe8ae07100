package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// CreateExpense persists a new expense and its split.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, group_id, description, amount_cents, payer_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.Description, int64(expense.Amount), string(expense.PayerID), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplit(ctx, tx, expense.ID, expense.Split); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its split.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, description, amount_cents, payer_id, created_at FROM expenses WHERE id = ?",
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount, &expense.PayerID, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadSplit(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpenses retrieves all expenses for a group, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, group_id, description, amount_cents, payer_id, created_at FROM expenses WHERE group_id = ? ORDER BY created_at, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount, &expense.PayerID, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, e := range expenses {
		if err := s.loadSplit(ctx, e); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// UpdateExpense replaces an expense and its split.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET description = ?, amount_cents = ?, payer_id = ? WHERE id = ?",
		expense.Description, int64(expense.Amount), string(expense.PayerID), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrExpenseNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense split: %w", err)
	}
	if err := insertSplit(ctx, tx, expense.ID, expense.Split); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense; the split rows cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrExpenseNotFound
	}
	return nil
}

func insertSplit(ctx context.Context, tx *sql.Tx, expenseID string, split []models.SplitEntry) error {
	for _, entry := range split {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, member_id, amount_cents) VALUES (?, ?, ?)",
			expenseID, string(entry.MemberID), int64(entry.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split entry: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) loadSplit(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount_cents FROM expense_splits WHERE expense_id = ? ORDER BY member_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense split: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.SplitEntry
		if err := rows.Scan(&entry.MemberID, &entry.Amount); err != nil {
			return fmt.Errorf("failed to scan split entry: %w", err)
		}
		expense.Split = append(expense.Split, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate split entries: %w", err)
	}

	return nil
}
