package revocation

import (
	"context"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
)

// MemoryRegistry keeps revocations in an in-process expiring cache. Entries
// carry a TTL of one full token lifetime, which is an upper bound on the
// revoked token's own remaining validity: once the entry expires, the token
// it guarded has expired too, so nothing is lost by evicting it.
type MemoryRegistry struct {
	cache cache.Cache[string, time.Time]
}

// NewMemoryRegistry builds a registry for tokens with the given lifetime.
func NewMemoryRegistry(tokenValidity time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		cache: cache.NewCache[string, time.Time]().WithTTL(tokenValidity),
	}
}

func (m *MemoryRegistry) Revoke(_ context.Context, tokenString string) error {
	m.cache.Set(HashToken(tokenString), time.Now(), 0)
	return nil
}

func (m *MemoryRegistry) IsRevoked(_ context.Context, tokenString string) (bool, error) {
	_, ok := m.cache.Get(HashToken(tokenString))
	return ok, nil
}
