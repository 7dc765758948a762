package records

import (
	"context"

	"github.com/dmitrijs2005/taxdesk/internal/server/models"
)

// Repository stores records in load order.
type Repository interface {
	List(ctx context.Context) ([]models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	Create(ctx context.Context, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, rec *models.Record) error
	RenameCountry(ctx context.Context, countryID, name string) (int64, error)
	Count(ctx context.Context) (int, error)
}
