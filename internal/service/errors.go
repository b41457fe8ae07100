package service

import "errors"

var (
	// ErrConcurrentConflict is returned when a payment keeps losing the
	// settlement-log version race and retries are exhausted.
	ErrConcurrentConflict = errors.New("concurrent settlement conflict, please retry")

	// ErrGroupClosed is returned when writing to a closed group.
	ErrGroupClosed = errors.New("group is closed")

	// ErrNotGroupMember is returned when the acting member does not belong
	// to the group.
	ErrNotGroupMember = errors.New("you must be a member of this group")

	// ErrNotGroupAdmin is returned when a group management action requires
	// the group's creator.
	ErrNotGroupAdmin = errors.New("only the group admin can do this")

	// ErrNotExpensePayer is returned when someone other than the original
	// payer tries to edit or delete an expense.
	ErrNotExpensePayer = errors.New("only the payer can modify this expense")

	// ErrMemberNotInGroup is returned when an expense references a payer or
	// split member outside the group.
	ErrMemberNotInGroup = errors.New("member is not part of this group")

	// ErrSplitMismatch is returned when split shares do not sum to the
	// expense amount.
	ErrSplitMismatch = errors.New("split shares must sum to the expense amount")

	// ErrSelfPayment is returned when a member tries to pay themselves.
	ErrSelfPayment = errors.New("cannot settle with yourself")
)
