// Package directory mirrors the remote country list in memory.
//
// Records never carry an authoritative country name: Project derives it from
// the directory by countryId on every read, so a successful Rename is visible
// on every matching record at once and a failed one is visible nowhere.
package directory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

// Gateway persists country renames.
type Gateway interface {
	UpdateCountry(ctx context.Context, id, name string) (models.Country, error)
}

type Directory struct {
	mu        sync.RWMutex
	countries []models.Country
	gw        Gateway
	log       logging.Logger
}

func New(gw Gateway, log logging.Logger) *Directory {
	return &Directory{gw: gw, log: log.With("module", "directory")}
}

// Replace swaps the whole list, keeping the given order.
func (d *Directory) Replace(countries []models.Country) {
	c := slices.Clone(countries)
	d.mu.Lock()
	d.countries = c
	d.mu.Unlock()
}

// All returns a copy of the list in load order.
func (d *Directory) All() []models.Country {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.countries)
}

// Names returns the country names in load order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.countries))
	for _, c := range d.countries {
		names = append(names, c.Name)
	}
	return names
}

func (d *Directory) LookupByID(id string) (models.Country, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := d.indexOf(id)
	if i < 0 {
		return models.Country{}, false
	}
	return d.countries[i], true
}

// LookupByName returns the first country whose name equals name exactly.
func (d *Directory) LookupByName(name string) (models.Country, bool) {
	m := d.MatchName(name)
	if len(m) == 0 {
		return models.Country{}, false
	}
	return m[0], true
}

// MatchName returns every country named name, in load order.
func (d *Directory) MatchName(name string) []models.Country {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []models.Country
	for _, c := range d.countries {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Rename persists newName for id and, once the store confirms, replaces the
// local entry with the store's canonical country. Any failure leaves the
// directory untouched.
func (d *Directory) Rename(ctx context.Context, id, newName string) (models.Country, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return models.Country{}, models.Validation("name", "name required")
	}
	if _, ok := d.LookupByID(id); !ok {
		return models.Country{}, &models.NotFoundError{Kind: "country", ID: id}
	}

	saved, err := d.gw.UpdateCountry(ctx, id, newName)
	if err != nil {
		d.log.Warn(ctx, "country rename failed", "id", id, "error", err)
		return models.Country{}, fmt.Errorf("rename country %s: %w", id, err)
	}
	if saved.ID == "" {
		saved.ID = id
	}
	if saved.Name == "" {
		saved.Name = newName
	}

	d.mu.Lock()
	if i := d.indexOf(id); i >= 0 {
		d.countries[i] = saved
	}
	d.mu.Unlock()

	d.log.Info(ctx, "country renamed", "id", id, "name", saved.Name)
	return saved, nil
}

// Project returns rec with Country derived from the directory. The stored
// value is kept when CountryID is empty or unknown.
func (d *Directory) Project(rec models.Record) models.Record {
	if rec.CountryID == "" {
		return rec
	}
	if c, ok := d.LookupByID(rec.CountryID); ok {
		rec.Country = c.Name
	}
	return rec
}

// ProjectAll applies Project to every record under a single read lock.
func (d *Directory) ProjectAll(recs []models.Record) []models.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Record, len(recs))
	for i, r := range recs {
		if r.CountryID != "" {
			if j := d.indexOf(r.CountryID); j >= 0 {
				r.Country = d.countries[j].Name
			}
		}
		out[i] = r
	}
	return out
}

func (d *Directory) indexOf(id string) int {
	return slices.IndexFunc(d.countries, func(c models.Country) bool { return c.ID == id })
}
