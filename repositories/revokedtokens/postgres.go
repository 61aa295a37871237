package revokedtokens

import (
	"context"
	"fmt"
	"time"

	"github.com/avolkov/authcore/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a revocation record. The token hash is the primary key and
// conflicts are ignored, which makes revocation idempotent.
func (r *PostgresRepository) Create(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (token_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_hash) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// Exists reports whether the token hash has a revocation record.
func (r *PostgresRepository) Exists(ctx context.Context, tokenHash string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM revoked_tokens WHERE token_hash = $1
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// DeleteExpired purges records whose expiry has passed.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM revoked_tokens
		WHERE expires_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
