package ledger

import "time"

// ModifyWindow is how long after creation an expense may still be edited or
// deleted by its payer.
const ModifyWindow = 5 * time.Hour

// CanModify reports whether an expense created at the given Unix timestamp
// is still inside the mutation window at now. The rule is stateless: within
// window or expired, nothing else.
func CanModify(createdAt int64, now time.Time) bool {
	return now.Sub(time.Unix(createdAt, 0)) <= ModifyWindow
}

// CheckMutable returns ErrModifyWindowExpired if the window has closed.
// Whether the caller is the expense's payer is a separate authorization
// concern handled above this package.
func CheckMutable(createdAt int64, now time.Time) error {
	if !CanModify(createdAt, now) {
		return ErrModifyWindowExpired
	}
	return nil
}
