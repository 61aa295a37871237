// Package repomanager wires repository constructors to a database handle and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkov/authcore/dbx"
	"github.com/avolkov/authcore/repositories/accounts"
	"github.com/avolkov/authcore/repositories/revokedtokens"
	"github.com/avolkov/authcore/repositories/roles"
)

// RepositoryManager vends repositories bound to the given DBTX, which lets
// services run several repositories inside one transaction by passing the
// same *sql.Tx to each.
type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	Roles(db dbx.DBTX) roles.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
