package revocation

import (
	"context"
	"time"

	"github.com/avolkov/authcore/logging"
	"github.com/avolkov/authcore/repositories/revokedtokens"
)

// StoreRegistry persists revocations so they survive restarts and are shared
// across instances. Rows are written with a conservative expiry of one token
// lifetime from revocation; Run purges stale rows on an interval so the
// table cannot grow without bound.
type StoreRegistry struct {
	repo          revokedtokens.Repository
	tokenValidity time.Duration
	log           logging.Logger

	// Now is a seam for tests that need to move the clock.
	Now func() time.Time
}

func NewStoreRegistry(repo revokedtokens.Repository, tokenValidity time.Duration, log logging.Logger) *StoreRegistry {
	return &StoreRegistry{
		repo:          repo,
		tokenValidity: tokenValidity,
		log:           log,
		Now:           time.Now,
	}
}

func (s *StoreRegistry) Revoke(ctx context.Context, tokenString string) error {
	return s.repo.Create(ctx, HashToken(tokenString), s.Now().Add(s.tokenValidity))
}

func (s *StoreRegistry) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	return s.repo.Exists(ctx, HashToken(tokenString))
}

// Sweep removes revocation rows whose underlying tokens have expired.
func (s *StoreRegistry) Sweep(ctx context.Context) error {
	n, err := s.repo.DeleteExpired(ctx, s.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info(ctx, "purged expired revocations", "count", n)
	}
	return nil
}

// Run sweeps on the given interval until ctx is cancelled. Intended to be
// started by the hosting service as a background goroutine.
func (s *StoreRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error(ctx, "revocation sweep failed", "error", err)
			}
		}
	}
}
