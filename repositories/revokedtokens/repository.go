// Package revokedtokens provides a PostgreSQL-backed store for session
// tokens that were invalidated before their natural expiry.
package revokedtokens

import (
	"context"
	"time"
)

type Repository interface {
	// Create records a token hash as revoked until expiresAt.
	// Recording the same hash twice is a no-op.
	Create(ctx context.Context, tokenHash string, expiresAt time.Time) error

	// Exists reports whether the token hash is recorded as revoked.
	Exists(ctx context.Context, tokenHash string) (bool, error)

	// DeleteExpired removes records whose expiry has passed and returns the
	// number of rows deleted. An expired token is already unusable, so its
	// revocation record carries no information.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
