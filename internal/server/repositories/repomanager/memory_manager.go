package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taxdesk/internal/dbx"
	"github.com/dmitrijs2005/taxdesk/internal/server/repositories/countries"
	"github.com/dmitrijs2005/taxdesk/internal/server/repositories/records"
)

// InMemoryRepositoryManager hands out the same process-wide repositories
// regardless of the DBTX passed in. There are no migrations.
type InMemoryRepositoryManager struct {
	records   *records.MemoryRepository
	countries *countries.MemoryRepository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Records(dbx.DBTX) records.Repository {
	return m.records
}

func (m *InMemoryRepositoryManager) Countries(dbx.DBTX) countries.Repository {
	return m.countries
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		records:   records.NewMemoryRepository(),
		countries: countries.NewMemoryRepository(),
	}
}
