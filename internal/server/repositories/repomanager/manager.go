package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/homedrive/internal/dbx"
	"github.com/dmitrijs2005/homedrive/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/homedrive/internal/server/repositories/claimcodes"
	"github.com/dmitrijs2005/homedrive/internal/server/repositories/fsentries"
)

// RepositoryManager hands out repositories bound to a concrete handle, which
// can be the shared *sql.DB or a transaction. Services pick the handle per
// logical operation, so every multi-step mutation commits or fails as one
// unit.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	ClaimCodes(db dbx.DBTX) claimcodes.Repository
	Entries(db dbx.DBTX) fsentries.Repository
}
