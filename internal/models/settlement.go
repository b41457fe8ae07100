package models

import "github.com/divvyhq/divvy/internal/money"

// SettlementStatus is the lifecycle state of a settlement.
// Only completed settlements affect balances. The ledger records settlements
// as completed directly; the intermediate states exist for imports from
// payment providers that confirm asynchronously.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "PENDING"
	SettlementInitiated SettlementStatus = "INITIATED"
	SettlementCompleted SettlementStatus = "COMPLETED"
	SettlementCancelled SettlementStatus = "CANCELLED"
)

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromID is the member who paid (debtor settling up).
	FromID MemberID

	// ToID is the member who received payment (creditor being paid).
	ToID MemberID

	// Amount is the payment amount in cents, always positive.
	Amount money.Cents

	// Status is the lifecycle state; only COMPLETED counts toward balances.
	Status SettlementStatus

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CreatedBy is the member who recorded this settlement.
	CreatedBy MemberID

	// Note is an optional description for the settlement.
	Note string
}

// Transfer is a suggested payment produced by the debt simplifier:
// From should pay To the given amount.
type Transfer struct {
	From   MemberID
	To     MemberID
	Amount money.Cents
}

// MemberBalance pairs a member with their derived net position.
// Positive means the member is owed money, negative means they owe.
type MemberBalance struct {
	MemberID MemberID
	Name     string
	Balance  money.Cents
}
