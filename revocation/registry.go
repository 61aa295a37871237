// Package revocation tracks session tokens that must be rejected even though
// they are still cryptographically valid and unexpired. It layers on top of
// the stateless token issuer: logout records a token here, and the
// request-authentication path consults the registry before trusting a
// token's claims.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Registry records revoked tokens. Revoke is idempotent; revoking the same
// token twice is a no-op, not an error. IsRevoked must be cheap: it sits on
// every authenticated request.
type Registry interface {
	Revoke(ctx context.Context, tokenString string) error
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

// HashToken returns the stable key a token is recorded under. The raw token
// value never reaches the store.
func HashToken(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
