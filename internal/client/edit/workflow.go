// Package edit implements the record edit form: seeding from a record,
// local validation, a single confirmed write, and the nested country rename.
//
// States move Closed -> Open -> Saving -> Closed on success, or back to Open
// with the error kept on failure. Cancel closes an Open form. Nothing in the
// record set changes until the store confirms a write, and the store's
// response replaces the local record as is.
package edit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

type State int

const (
	Closed State = iota
	Open
	Saving
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Gateway persists record updates.
type Gateway interface {
	UpdateRecord(ctx context.Context, rec models.Record) (models.Record, error)
}

// RecordSet receives confirmed records.
type RecordSet interface {
	Replace(rec models.Record)
}

// Countries is the part of the country directory the form needs.
type Countries interface {
	LookupByID(id string) (models.Country, bool)
	MatchName(name string) []models.Country
	Rename(ctx context.Context, id, newName string) (models.Country, error)
}

// Form holds the editable fields. Country is the display name of CountryID.
type Form struct {
	Name      string
	CountryID string
	Country   string
}

type Workflow struct {
	mu     sync.Mutex
	state  State
	record models.Record
	form   Form
	err    error

	gw        Gateway
	records   RecordSet
	countries Countries
	log       logging.Logger
}

func New(gw Gateway, records RecordSet, countries Countries, log logging.Logger) *Workflow {
	return &Workflow{
		gw:        gw,
		records:   records,
		countries: countries,
		log:       log.With("module", "edit"),
	}
}

// Open seeds the form from rec. The name comes from rec.Name only, never the
// entity fallback. The country is resolved by name against the directory;
// the first exact match wins and the form has no country when nothing
// matches. Opening replaces any form that is not saving.
func (w *Workflow) Open(ctx context.Context, rec models.Record) error {
	matches := w.countries.MatchName(rec.Country)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Saving {
		return ErrBusy
	}

	w.record = rec.Clone()
	w.form = Form{Name: rec.Name}
	if len(matches) > 0 {
		w.form.CountryID = matches[0].ID
		w.form.Country = matches[0].Name
	}
	if len(matches) > 1 {
		w.log.Warn(ctx, "ambiguous country name, using first match",
			"record", rec.ID, "country", rec.Country, "matches", len(matches), "chosen", matches[0].ID)
	}
	w.err = nil
	w.state = Open
	return nil
}

func (w *Workflow) SetName(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.form.Name = name
	return nil
}

// SelectCountry points the form at id and refreshes its display name.
func (w *Workflow) SelectCountry(id string) error {
	c, ok := w.countries.LookupByID(id)
	if !ok {
		return &models.NotFoundError{Kind: "country", ID: id}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.form.CountryID = c.ID
	w.form.Country = c.Name
	return nil
}

// Cancel discards the form. It is a no-op when already closed.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Saving {
		return ErrBusy
	}
	w.reset()
	return nil
}

// Submit validates the form and, if it passes, writes the updated record.
// Validation failures never reach the gateway. On success the store's record
// replaces the local one and the form closes; on failure the form stays open
// and the error is kept.
func (w *Workflow) Submit(ctx context.Context) (models.Record, error) {
	w.mu.Lock()
	if err := w.editable(); err != nil {
		w.mu.Unlock()
		return models.Record{}, err
	}

	name := strings.TrimSpace(w.form.Name)
	var verr error
	switch {
	case name == "":
		verr = models.Validation("name", "name required")
	case w.form.CountryID == "":
		verr = models.Validation("country", "country required")
	}
	if verr != nil {
		w.err = verr
		w.mu.Unlock()
		return models.Record{}, verr
	}

	updated := w.record.Clone()
	updated.Name = name
	updated.CountryID = w.form.CountryID
	updated.Country = w.form.Country

	w.state = Saving
	w.err = nil
	w.mu.Unlock()

	saved, err := w.gw.UpdateRecord(ctx, updated)

	w.mu.Lock()
	if err != nil {
		w.state = Open
		w.err = err
		w.mu.Unlock()
		w.log.Warn(ctx, "record update failed", "id", updated.ID, "error", err)
		return models.Record{}, fmt.Errorf("update record %s: %w", updated.ID, err)
	}
	w.reset()
	w.mu.Unlock()

	if saved.ID == "" {
		saved.ID = updated.ID
	}
	w.records.Replace(saved)
	w.log.Info(ctx, "record updated", "id", saved.ID)
	return saved, nil
}

// RenameCountry renames country id through the directory. When id is the
// form's selected country the form's display name follows.
func (w *Workflow) RenameCountry(ctx context.Context, id, newName string) (models.Country, error) {
	w.mu.Lock()
	if err := w.editable(); err != nil {
		w.mu.Unlock()
		return models.Country{}, err
	}
	if id == "" {
		id = w.form.CountryID
	}
	w.mu.Unlock()

	if id == "" {
		return models.Country{}, models.Validation("country", "country required")
	}

	c, err := w.countries.Rename(ctx, id, newName)
	if err != nil {
		return models.Country{}, err
	}

	w.mu.Lock()
	if w.state == Open && w.form.CountryID == c.ID {
		w.form.Country = c.Name
	}
	w.mu.Unlock()
	return c, nil
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Record returns the record the form was opened with.
func (w *Workflow) Record() models.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record.Clone()
}

// Err returns the last validation or save error of the open form.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Workflow) editable() error {
	switch w.state {
	case Closed:
		return ErrNotOpen
	case Saving:
		return ErrBusy
	}
	return nil
}

func (w *Workflow) reset() {
	w.state = Closed
	w.record = models.Record{}
	w.form = Form{}
	w.err = nil
}
