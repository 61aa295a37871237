// Package accounts provides persistence for account records.
package accounts

import (
	"context"

	"github.com/avolkov/authcore/models"
)

// Repository describes the storage operations the authentication core needs
// for accounts. Update performs an optimistic, version-checked write so that
// concurrent mutations of the same account (e.g. resend racing verify) cannot
// silently overwrite each other.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)

	// Update writes the account back only if the stored version still matches
	// account.Version; on success the version is bumped in place. A stale
	// version yields common.ErrVersionConflict.
	Update(ctx context.Context, account *models.Account) error
}
