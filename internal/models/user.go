package models

// MemberID identifies a member across groups, expenses and settlements.
// It is an opaque id (UUID format); the ledger never parses it.
type MemberID string

// User represents a registered user account, owned by the auth layer.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID MemberID

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown to other group members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
