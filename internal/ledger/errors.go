package ledger

import (
	"errors"
	"fmt"

	"github.com/divvyhq/divvy/internal/money"
)

var (
	// ErrInvalidAmount is returned when a payment amount is not positive.
	ErrInvalidAmount = errors.New("payment amount must be positive")

	// ErrNothingToPay is returned when the paying member does not owe money.
	ErrNothingToPay = errors.New("payer has no outstanding debt")

	// ErrReceiverNotOwed is returned when the receiving member is not owed money.
	ErrReceiverNotOwed = errors.New("receiver is not owed money")

	// ErrModifyWindowExpired is returned when an expense is edited or deleted
	// after the mutation window has closed.
	ErrModifyWindowExpired = errors.New("expense can no longer be modified")
)

// ExceedsMaxPayableError is returned when a payment is larger than what the
// debtor/creditor pair can settle. It carries the maximum payable amount so
// callers can report it.
type ExceedsMaxPayableError struct {
	Max money.Cents
}

func (e *ExceedsMaxPayableError) Error() string {
	return fmt.Sprintf("amount exceeds maximum payable %s", e.Max)
}

// IntegrityError reports expense or settlement history referencing members
// that are not in the group's member list. The balances still include the
// unknown ids; this error travels alongside them so callers can surface the
// inconsistency instead of silently dropping it.
type IntegrityError struct {
	UnknownMembers []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("history references %d unknown member(s): %v", len(e.UnknownMembers), e.UnknownMembers)
}
