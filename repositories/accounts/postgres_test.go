package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avolkov/authcore/common"
	"github.com/avolkov/authcore/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+accounts\b.*RETURNING\s+version,\s*created_at\s*$`

	created := time.Now()
	mock.ExpectQuery(q).
		WithArgs("id-1", "alice", "alice@x.com", "hash", false, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at"}).AddRow(int64(1), created))

	acc := &models.Account{ID: "id-1", Username: "alice", Email: "alice@x.com", PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), acc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != 1 || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email taken", "accounts_email_key", common.ErrEmailTaken},
		{"username taken", "accounts_username_key", common.ErrUsernameTaken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tc.constraint}
			mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+accounts\b`).
				WillReturnError(pgErr)

			_, err := repo.Create(context.Background(), &models.Account{ID: "id-1"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s*$`

	code := "123456"
	expires := time.Now().Add(time.Hour)
	created := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "enabled", "pending_code", "code_expires_at", "version", "created_at"}).
		AddRow("id-1", "alice", "alice@x.com", "hash", false, &code, &expires, int64(2), created)

	mock.ExpectQuery(q).WithArgs("alice@x.com").WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username != "alice" || got.PendingCode == nil || *got.PendingCode != code || got.Version != 2 {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestFindByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+accounts\s+WHERE\s+username\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestUpdate_BumpsVersion(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+accounts\s+SET\b.*WHERE\s+id\s*=\s*\$1\s+AND\s+version\s*=\s*\$6\s+RETURNING\s+version\s*$`
	mock.ExpectQuery(q).
		WithArgs("id-1", "hash", true, nil, nil, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(3)))

	acc := &models.Account{ID: "id-1", PasswordHash: "hash", Enabled: true, Version: 2}
	if err := repo.Update(context.Background(), acc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.Version != 3 {
		t.Fatalf("version not bumped: %d", acc.Version)
	}
}

func TestUpdate_StaleVersion(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*UPDATE\s+accounts\b`).
		WillReturnError(sql.ErrNoRows)

	acc := &models.Account{ID: "id-1", Version: 1}
	err := repo.Update(context.Background(), acc)
	if !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("want common.ErrVersionConflict, got %v", err)
	}
}
