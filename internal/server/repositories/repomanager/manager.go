package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taxdesk/internal/dbx"
	"github.com/dmitrijs2005/taxdesk/internal/server/repositories/countries"
	"github.com/dmitrijs2005/taxdesk/internal/server/repositories/records"
)

// RepositoryManager vends repositories bound to a connection or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	Countries(db dbx.DBTX) countries.Repository
}
