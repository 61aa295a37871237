// Package roles provides persistence for roles and role assignments.
package roles

import (
	"context"

	"github.com/avolkov/authcore/models"
)

type Repository interface {
	// FindByName returns the role with the given name, or common.ErrNotFound.
	FindByName(ctx context.Context, name string) (*models.Role, error)

	// Assign links an account to a role. Re-assigning updates the status flag.
	Assign(ctx context.Context, accountID string, roleID int64, active bool) error

	// ListForAccount returns all role assignments of an account.
	ListForAccount(ctx context.Context, accountID string) ([]models.RoleAssignment, error)
}
