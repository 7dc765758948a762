package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/dbx"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
	"github.com/google/uuid"
)

var demoCountries = []string{"Latvia", "Estonia", "Lithuania", "Germany", "France", "Poland"}

var demoEntities = []struct {
	name   string
	gender string
}{
	{"Anna Berzina", "Female"},
	{"Janis Ozols", "Male"},
	{"Kadri Tamm", "female"},
	{"Mart Kask", "MALE"},
	{"Ruta Petraitiene", "Female"},
	{"Jonas Kazlauskas", ""},
	{"Baltic Amber SIA", ""},
	{"Lena Fischer", "Female"},
	{"Lukas Weber", "Male"},
	{"Camille Martin", "Female"},
	{"Hugo Bernard", "Male"},
	{"Zofia Nowak", "Female"},
}

// SeedDemoData fills an empty store with demo countries and records. It
// reports whether anything was written; a non-empty store is left alone.
func (s *RecordService) SeedDemoData(ctx context.Context) (bool, error) {
	seeded := false

	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		recRepo := s.repomanager.Records(tx)
		n, err := recRepo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		ctryRepo := s.repomanager.Countries(tx)
		ids := make([]string, len(demoCountries))
		for i, name := range demoCountries {
			ids[i] = uuid.NewString()
			if _, err := ctryRepo.Create(ctx, &models.Country{ID: ids[i], Name: name}); err != nil {
				return err
			}
		}

		base := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
		for i, e := range demoEntities {
			ci := i % len(ids)
			rec := &models.Record{
				ID:        uuid.NewString(),
				Name:      e.name,
				Gender:    e.gender,
				Country:   demoCountries[ci],
				CountryID: ids[ci],
			}
			// every fifth record has no request date yet
			if i%5 != 4 {
				rec.RequestDate = base.AddDate(0, 0, 9*i).Format("2006-01-02")
			}
			if e.gender == "" {
				rec.Attrs = map[string]json.RawMessage{"kind": json.RawMessage(`"company"`)}
			}
			if _, err := recRepo.Create(ctx, rec); err != nil {
				return err
			}
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error seeding demo data: %w", err)
	}

	if seeded {
		s.log.Info(ctx, "demo data seeded", "countries", len(demoCountries), "records", len(demoEntities))
	}
	return seeded, nil
}
