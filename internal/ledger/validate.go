package ledger

import (
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
)

// ValidatePayment checks a proposed settlement against a freshly computed
// balance snapshot. Checks run in a fixed order so callers always see the
// most specific failure:
//
//  1. amount must be positive (ErrInvalidAmount)
//  2. from must actually owe money: balance ≤ -1 cent (ErrNothingToPay)
//  3. to must actually be owed money: balance ≥ 1 cent (ErrReceiverNotOwed)
//  4. amount may not exceed min(|from balance|, to balance) by more than
//     1 cent (ExceedsMaxPayableError carrying the maximum)
//
// The caller is responsible for group existence and for making the
// recompute-validate-append cycle atomic; this function is a pure check and
// reserves nothing.
func ValidatePayment(balances map[models.MemberID]money.Cents, from, to models.MemberID, amount money.Cents) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	fromBal := balances[from]
	if fromBal > -SettledTolerance {
		return ErrNothingToPay
	}

	toBal := balances[to]
	if toBal < SettledTolerance {
		return ErrReceiverNotOwed
	}

	maxPayable := money.Min(fromBal.Abs(), toBal)
	if amount > maxPayable+SettledTolerance {
		return &ExceedsMaxPayableError{Max: maxPayable}
	}

	return nil
}
