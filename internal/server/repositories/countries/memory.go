package countries

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
)

// MemoryRepository keeps the directory in process memory, in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	names map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{names: make(map[string]string)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Country, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, models.Country{ID: id, Name: r.names[id]})
	}
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.names[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Country{ID: id, Name: name}, nil
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Country) (*models.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[c.ID]; exists {
		return nil, fmt.Errorf("country %s already exists", c.ID)
	}
	r.order = append(r.order, c.ID)
	r.names[c.ID] = c.Name
	return c, nil
}

func (r *MemoryRepository) Rename(ctx context.Context, id, name string) (*models.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[id]; !ok {
		return nil, common.ErrorNotFound
	}
	r.names[id] = name
	return &models.Country{ID: id, Name: name}, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}
