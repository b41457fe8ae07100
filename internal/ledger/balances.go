// Package ledger implements the balance aggregation, debt simplification,
// payment validation and mutation-window rules for group expense sharing.
//
// Everything here is a pure function of the expense and settlement history
// passed in: the ledger owns no state and recomputes from scratch on every
// call. All arithmetic is in integer cents (money.Cents), so the zero-sum
// invariant (balances of a group always sum to 0) holds exactly, not just
// within float tolerance.
package ledger

import (
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
)

// Balances folds a group's expense and settlement history into per-member
// net positions. Positive = owed money, negative = owes money.
//
// Every group member gets an entry, including members with no activity.
// For each expense the payer is credited the full amount and each split
// member is debited their stored share; the stored split is authoritative,
// shares are never recomputed here. For each completed settlement the payer
// is credited and the receiver debited. Settlements in any other status are
// ignored.
//
// History referencing ids outside the member list is a data-integrity fault
// upstream, but it must not crash or skew the ledger: the contribution is
// recorded under the unknown id and reported via IntegrityError. The
// returned map is valid either way.
func Balances(members []models.MemberID, expenses []*models.Expense, settlements []*models.Settlement) (map[models.MemberID]money.Cents, *IntegrityError) {
	balances := make(map[models.MemberID]money.Cents, len(members))
	for _, m := range members {
		balances[m] = 0
	}

	known := make(map[models.MemberID]bool, len(members))
	for _, m := range members {
		known[m] = true
	}
	var unknown []string
	seen := make(map[models.MemberID]bool)
	note := func(id models.MemberID) {
		if !known[id] && !seen[id] {
			seen[id] = true
			unknown = append(unknown, string(id))
		}
	}

	for _, e := range expenses {
		note(e.PayerID)
		balances[e.PayerID] += e.Amount
		for _, s := range e.Split {
			note(s.MemberID)
			balances[s.MemberID] -= s.Amount
		}
	}

	for _, s := range settlements {
		if s.Status != models.SettlementCompleted {
			continue
		}
		note(s.FromID)
		note(s.ToID)
		// The payer reduced their debt, the receiver's receivable shrank.
		balances[s.FromID] += s.Amount
		balances[s.ToID] -= s.Amount
	}

	if len(unknown) > 0 {
		return balances, &IntegrityError{UnknownMembers: unknown}
	}
	return balances, nil
}
