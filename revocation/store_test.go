package revocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolkov/authcore/logging"
)

type fakeRevokedRepo struct {
	created   map[string]time.Time
	createErr error

	existsOut bool
	existsErr error

	deleted   int64
	deleteErr error
}

func (f *fakeRevokedRepo) Create(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.created == nil {
		f.created = map[string]time.Time{}
	}
	if _, ok := f.created[tokenHash]; ok {
		return nil // conflict ignored
	}
	f.created[tokenHash] = expiresAt
	return nil
}

func (f *fakeRevokedRepo) Exists(ctx context.Context, tokenHash string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.created != nil {
		if _, ok := f.created[tokenHash]; ok {
			return true, nil
		}
	}
	return f.existsOut, nil
}

func (f *fakeRevokedRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return f.deleted, f.deleteErr
}

func TestStoreRegistry_RevokeRecordsHashWithExpiry(t *testing.T) {
	repo := &fakeRevokedRepo{}
	r := NewStoreRegistry(repo, time.Hour, logging.NewDefault())
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.Now = func() time.Time { return fixed }

	if err := r.Revoke(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	expires, ok := repo.created[HashToken("tok-1")]
	if !ok {
		t.Fatal("revocation not recorded under the token hash")
	}
	if !expires.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("expiry %v, want %v", expires, fixed.Add(time.Hour))
	}

	revoked, err := r.IsRevoked(context.Background(), "tok-1")
	if err != nil || !revoked {
		t.Fatalf("read-after-write failed: %v %v", revoked, err)
	}
}

func TestStoreRegistry_RevokeTwiceIsNoop(t *testing.T) {
	repo := &fakeRevokedRepo{}
	r := NewStoreRegistry(repo, time.Hour, logging.NewDefault())

	if err := r.Revoke(context.Background(), "tok-1"); err != nil {
		t.Fatalf("first Revoke error: %v", err)
	}
	if err := r.Revoke(context.Background(), "tok-1"); err != nil {
		t.Fatalf("second Revoke must be a no-op, got %v", err)
	}
}

func TestStoreRegistry_Sweep(t *testing.T) {
	repo := &fakeRevokedRepo{deleted: 2}
	r := NewStoreRegistry(repo, time.Hour, logging.NewDefault())

	if err := r.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep error: %v", err)
	}

	repo.deleteErr = errors.New("db down")
	if err := r.Sweep(context.Background()); err == nil {
		t.Fatal("expected Sweep to surface the repo error")
	}
}

func TestStoreRegistry_RunStopsOnCancel(t *testing.T) {
	repo := &fakeRevokedRepo{}
	r := NewStoreRegistry(repo, time.Hour, logging.NewDefault())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
