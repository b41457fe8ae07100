package models

import "github.com/divvyhq/divvy/internal/money"

// Expense represents an amount paid by one member on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a short human-readable label (e.g., "Groceries").
	Description string

	// Amount is the full expense amount in cents.
	Amount money.Cents

	// PayerID is the member who paid the full amount.
	PayerID MemberID

	// Split is the per-member allocation of Amount. Share amounts are
	// non-negative and sum exactly to Amount. The payer need not appear
	// in the split.
	Split []SplitEntry

	// CreatedAt is the Unix timestamp when the expense was recorded.
	// Edits and deletes are only allowed within a fixed window of this.
	CreatedAt int64
}

// SplitEntry is one member's owed share of an expense.
type SplitEntry struct {
	MemberID MemberID
	Amount   money.Cents
}

// SplitTotal returns the sum of all split shares.
func (e *Expense) SplitTotal() money.Cents {
	var total money.Cents
	for _, s := range e.Split {
		total += s.Amount
	}
	return total
}

// EqualSplit allocates amount across members, distributing any remainder
// cent-by-cent to the earliest members so the shares always sum to amount.
func EqualSplit(amount money.Cents, members []MemberID) []SplitEntry {
	if len(members) == 0 {
		return nil
	}
	n := money.Cents(len(members))
	share := amount / n
	remainder := amount - share*n

	split := make([]SplitEntry, len(members))
	for i, m := range members {
		s := share
		if money.Cents(i) < remainder {
			s++
		}
		split[i] = SplitEntry{MemberID: m, Amount: s}
	}
	return split
}
