// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/divvyhq/divvy/internal/models"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrGroupNotFound is returned when the group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrExpenseNotFound is returned when the expense does not exist.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrVersionConflict is returned by AppendSettlement when the group's
	// settlement log advanced past the expected version. Callers re-read
	// the history and retry the whole decide-then-write cycle.
	ErrVersionConflict = errors.New("settlement log version conflict")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateUser persists a new user. The user.ID field is populated by
	// the store if empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, id models.MemberID) (*models.User, error)

	// CreateGroup persists a new group with its member list.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group, including its ordered member list.
	// Returns ErrGroupNotFound if it does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember retrieves all groups the member belongs to.
	ListGroupsByMember(ctx context.Context, memberID models.MemberID) ([]*models.Group, error)

	// UpdateGroup replaces the group's name, member list and active flag.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// CreateExpense persists a new expense with its split.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by id, including its split.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses retrieves all expenses for a group, oldest first.
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// UpdateExpense replaces an expense and its split.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its split.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListCompletedSettlements retrieves the group's completed
	// settlements, oldest first.
	ListCompletedSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ListSettlementsByMember retrieves all completed settlements where
	// the member is payer or receiver, newest first.
	ListSettlementsByMember(ctx context.Context, memberID models.MemberID) ([]*models.Settlement, error)

	// SettlementLogVersion returns the current version of the group's
	// settlement log. The version advances on every append, so a caller
	// that read balances at version v can detect interleaved writes.
	SettlementLogVersion(ctx context.Context, groupID string) (int64, error)

	// AppendSettlement atomically appends a settlement if the group's log
	// is still at expectedVersion, otherwise returns ErrVersionConflict.
	// This is the serialization point for the read-validate-write cycle.
	AppendSettlement(ctx context.Context, settlement *models.Settlement, expectedVersion int64) error

	// Close releases any resources held by the store.
	Close() error
}
