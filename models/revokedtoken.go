package models

import "time"

// RevokedToken marks a session token as unusable before its natural expiry.
// Tokens are keyed by a stable hash of the raw token string, never the raw
// value itself. Rows past ExpiresAt may be evicted: an expired token is
// rejected regardless of revocation state.
type RevokedToken struct {
	TokenHash string
	ExpiresAt time.Time
	RevokedAt time.Time
}
