package models

import "time"

// Account is a registrable identity. Username and email are each globally
// unique (enforced by the store). Enabled stays false until the first
// successful verification. At most one one-time code is pending at a time:
// issuing a new code overwrites the previous one, and a code whose expiry
// is unset is never valid.
type Account struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	Enabled       bool
	PendingCode   *string
	CodeExpiresAt *time.Time
	Version       int64
	CreatedAt     time.Time
}

// CodePending reports whether the account has an unconsumed one-time code.
func (a *Account) CodePending() bool {
	return a.PendingCode != nil
}

// SetPendingCode replaces the pending code and its expiry.
func (a *Account) SetPendingCode(code string, expiresAt time.Time) {
	a.PendingCode = &code
	a.CodeExpiresAt = &expiresAt
}

// ClearPendingCode removes the pending code and its expiry.
func (a *Account) ClearPendingCode() {
	a.PendingCode = nil
	a.CodeExpiresAt = nil
}
