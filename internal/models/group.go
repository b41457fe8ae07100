package models

// Group represents a set of members that share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Members is the ordered list of member ids. The order is load-bearing:
	// the debt simplifier processes creditors and debtors in member-list
	// order so the suggested transfers are deterministic.
	Members []MemberID

	// Active reports whether the group still accepts expenses and payments.
	// Closed groups stay readable for history.
	Active bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// CreatedBy is the member who created the group (admin).
	CreatedBy MemberID
}

// IsMember reports whether id belongs to the group.
func (g *Group) IsMember(id MemberID) bool {
	for _, m := range g.Members {
		if m == id {
			return true
		}
	}
	return false
}

// IsAdmin reports whether id may manage the group (rename, close, add members).
func (g *Group) IsAdmin(id MemberID) bool {
	return id == g.CreatedBy
}
