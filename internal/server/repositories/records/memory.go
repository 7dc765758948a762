package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
)

// MemoryRepository keeps records in process memory, in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	rows  map[string]models.Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]models.Record)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Record, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.rows[id].Clone())
	}
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := rec.Clone()
	return &c, nil
}

func (r *MemoryRepository) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rows[rec.ID]; exists {
		return nil, fmt.Errorf("record %s already exists", rec.ID)
	}
	r.order = append(r.order, rec.ID)
	r.rows[rec.ID] = rec.Clone()
	return rec, nil
}

func (r *MemoryRepository) Update(ctx context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[rec.ID]; !ok {
		return common.ErrorNotFound
	}
	r.rows[rec.ID] = rec.Clone()
	return nil
}

func (r *MemoryRepository) RenameCountry(ctx context.Context, countryID, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	if countryID == "" {
		return 0, nil
	}
	for id, rec := range r.rows {
		if rec.CountryID == countryID {
			rec.Country = name
			r.rows[id] = rec
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows), nil
}
