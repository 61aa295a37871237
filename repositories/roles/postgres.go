package roles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkov/authcore/common"
	"github.com/avolkov/authcore/dbx"
	"github.com/avolkov/authcore/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	query := `
		SELECT id, name
		FROM roles
		WHERE name = $1
	`
	role := &models.Role{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return role, nil
}

func (r *PostgresRepository) Assign(ctx context.Context, accountID string, roleID int64, active bool) error {
	query := `
		INSERT INTO role_assignments (account_id, role_id, active)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, role_id) DO UPDATE SET active = EXCLUDED.active
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, roleID, active); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListForAccount(ctx context.Context, accountID string) ([]models.RoleAssignment, error) {
	query := `
		SELECT ra.account_id, ra.role_id, r.name, ra.active
		FROM role_assignments ra
		JOIN roles r ON r.id = ra.role_id
		WHERE ra.account_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var assignments []models.RoleAssignment
	for rows.Next() {
		var a models.RoleAssignment
		if err := rows.Scan(&a.AccountID, &a.RoleID, &a.RoleName, &a.Active); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return assignments, nil
}
