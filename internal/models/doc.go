// Package models defines the core domain models for Divvy.
//
// The ledger works on four shapes:
//   - Group: a named set of members that share expenses
//   - Expense: an amount paid by one member, split across members
//   - Settlement: a recorded transfer between two members
//   - Balance: derived per-member net position (never stored)
//
// Members are referenced everywhere by MemberID. The user directory (User)
// owns identity; the ledger only ever compares ids and looks up display
// names at the response boundary.
//
// All monetary fields are money.Cents. Timestamps are Unix seconds, matching
// what the SQLite stores persist.
package models
