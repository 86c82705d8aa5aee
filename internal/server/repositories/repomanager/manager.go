package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/kodex/internal/dbx"
	"github.com/dmitrijs2005/kodex/internal/server/repositories/history"
)

// RepositoryManager vends repositories bound to a *sql.DB or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	History(db dbx.DBTX) history.Repository
}
