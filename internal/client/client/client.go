package client

import (
	"context"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Client is the Remote Gateway: the record store and country directory store
// as seen by the core.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	ListRecords(ctx context.Context) ([]models.Record, error)
	ListCountries(ctx context.Context) ([]models.Country, error)
	UpdateRecord(ctx context.Context, rec models.Record) (models.Record, error)
	UpdateCountry(ctx context.Context, id, name string) (models.Country, error)
}
