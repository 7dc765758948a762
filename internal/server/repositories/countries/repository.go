package countries

import (
	"context"

	"github.com/dmitrijs2005/taxdesk/internal/server/models"
)

// Repository stores the country directory in load order.
type Repository interface {
	List(ctx context.Context) ([]models.Country, error)
	Get(ctx context.Context, id string) (*models.Country, error)
	Create(ctx context.Context, c *models.Country) (*models.Country, error)
	Rename(ctx context.Context, id, name string) (*models.Country, error)
	Count(ctx context.Context) (int, error)
}
