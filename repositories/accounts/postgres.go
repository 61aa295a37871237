package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avolkov/authcore/common"
	"github.com/avolkov/authcore/dbx"
	"github.com/avolkov/authcore/models"
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

// Create inserts a new account. Unique violations on email or username map
// to common.ErrEmailTaken / common.ErrUsernameTaken so a signup that loses a
// race still fails with the right kind.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, enabled, pending_code, code_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING version, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash,
		account.Enabled, account.PendingCode, account.CodeExpiresAt,
	).Scan(&account.Version, &account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case "accounts_email_key":
				return nil, common.ErrEmailTaken
			case "accounts_username_key":
				return nil, common.ErrUsernameTaken
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// FindByEmail returns the account with the given email.
// If not found, it returns common.ErrNotFound.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findBy(ctx, "email", email)
}

// FindByUsername returns the account with the given username.
// If not found, it returns common.ErrNotFound.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.findBy(ctx, "username", username)
}

func (r *PostgresRepository) findBy(ctx context.Context, column, value string) (*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password_hash, enabled, pending_code, code_expires_at, version, created_at
		FROM accounts
		WHERE %s = $1
	`, column)

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.Enabled, &account.PendingCode, &account.CodeExpiresAt,
		&account.Version, &account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// Update writes the mutable account fields back with a compare-and-swap on
// the version column. A concurrent writer that got there first leaves the
// stored version ahead of ours, and the update reports common.ErrVersionConflict.
func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, enabled = $3, pending_code = $4, code_expires_at = $5,
		    version = version + 1
		WHERE id = $1 AND version = $6
		RETURNING version
	`
	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.PasswordHash, account.Enabled,
		account.PendingCode, account.CodeExpiresAt, account.Version,
	).Scan(&account.Version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrVersionConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
