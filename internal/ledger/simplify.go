package ledger

import (
	"slices"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
)

// SettledTolerance is the classification boundary: members whose balance is
// within ±1 cent are treated as settled everywhere balances are classified.
const SettledTolerance money.Cents = 1

// Simplify converts a balance map into an ordered list of transfers that
// zero all balances. Creditors (balance > 1 cent) and debtors
// (balance < -1 cent) are processed in group member-list order so the same
// balance snapshot always yields the same transfer list; members at or
// inside the tolerance boundary are excluded as settled.
//
// The sweep is the standard greedy two-pointer heuristic: match the current
// debtor against the current creditor, transfer the smaller of the two
// remainders, advance whichever side is exhausted. It does not guarantee the
// theoretically minimal number of transfers, only a valid zeroing sequence
// that clients can display and act on in order.
func Simplify(order []models.MemberID, balances map[models.MemberID]money.Cents) []models.Transfer {
	type position struct {
		id        models.MemberID
		remaining money.Cents // always positive
	}

	var creditors, debtors []position
	classify := func(id models.MemberID) {
		switch bal := balances[id]; {
		case bal > SettledTolerance:
			creditors = append(creditors, position{id: id, remaining: bal})
		case bal < -SettledTolerance:
			debtors = append(debtors, position{id: id, remaining: -bal})
		}
	}

	inOrder := make(map[models.MemberID]bool, len(order))
	for _, id := range order {
		inOrder[id] = true
		classify(id)
	}
	// Balances may carry ids outside the member list (integrity faults).
	// Sort them so the output stays deterministic.
	var extras []models.MemberID
	for id := range balances {
		if !inOrder[id] {
			extras = append(extras, id)
		}
	}
	slices.Sort(extras)
	for _, id := range extras {
		classify(id)
	}

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := money.Min(debtors[i].remaining, creditors[j].remaining)
		if amount > 0 {
			transfers = append(transfers, models.Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: amount,
			})
		}

		debtors[i].remaining -= amount
		creditors[j].remaining -= amount

		if debtors[i].remaining <= SettledTolerance {
			i++
		}
		if creditors[j].remaining <= SettledTolerance {
			j++
		}
	}

	return transfers
}
