package services

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/directory"
	"github.com/dmitrijs2005/taxdesk/internal/client/filter"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/view"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

// TableService owns one grid session: the loaded records, the country
// directory, and the filter, sort and menu state applied to them.
type TableService interface {
	Load(ctx context.Context) error
	Loaded() bool

	Records() []models.Record
	Record(id string) (models.Record, bool)
	Visible() []models.Record
	Replace(rec models.Record)

	Filter() models.FilterState
	SetFilter(st models.FilterState)
	ToggleCountry(name string)
	ToggleGender(gender string) error
	ClearCountries()
	ClearGenders()
	SetDateRange(from, to string)
	ClearDateRange()
	SetSearch(text string)

	Sort() models.SortState
	SetSort(st models.SortState)
	ToggleSort(column string) error

	Overlay() view.Overlay
	OpenMenu(o view.Overlay) view.Overlay
	DismissMenu()

	Countries() []models.Country
	Directory() *directory.Directory
}

type tableService struct {
	client client.Client
	dir    *directory.Directory
	log    logging.Logger

	mu      sync.RWMutex
	loaded  bool
	records []models.Record
	filter  models.FilterState
	sort    models.SortState
	overlay view.Overlay
}

func NewTableService(c client.Client, log logging.Logger) TableService {
	return &tableService{
		client: c,
		dir:    directory.New(c, log),
		log:    log.With("module", "table"),
	}
}

// Load fetches records and countries in parallel. If either fetch fails the
// previously loaded data is kept and a *models.FetchError is returned.
func (s *tableService) Load(ctx context.Context) error {
	var (
		records   []models.Record
		countries []models.Country
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.client.ListRecords(gctx)
		if err != nil {
			return &models.FetchError{Resource: "records", Err: err}
		}
		records = r
		return nil
	})
	g.Go(func() error {
		c, err := s.client.ListCountries(gctx)
		if err != nil {
			return &models.FetchError{Resource: "countries", Err: err}
		}
		countries = c
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "load failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.records = records
	s.loaded = true
	s.dir.Replace(countries)
	s.mu.Unlock()

	s.log.Info(ctx, "table loaded", "records", len(records), "countries", len(countries))
	return nil
}

func (s *tableService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Records returns every loaded record in load order with its country
// projected from the directory.
func (s *tableService) Records() []models.Record {
	s.mu.RLock()
	recs := slices.Clone(s.records)
	s.mu.RUnlock()
	return s.dir.ProjectAll(recs)
}

func (s *tableService) Record(id string) (models.Record, bool) {
	s.mu.RLock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.RUnlock()
		return models.Record{}, false
	}
	rec := s.records[i].Clone()
	s.mu.RUnlock()
	return s.dir.Project(rec), true
}

// Visible returns the rows to display: facets, then search, then sort.
func (s *tableService) Visible() []models.Record {
	s.mu.RLock()
	recs := slices.Clone(s.records)
	fs := s.filter.Clone()
	st := s.sort
	s.mu.RUnlock()

	rows := filter.Facets(s.dir.ProjectAll(recs), fs)
	rows = filter.Search(rows, fs.SearchText)
	return view.Sort(rows, st)
}

// Replace swaps in a record confirmed by the store. The latest call wins.
// A record that is no longer loaded is appended.
func (s *tableService) Replace(rec models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(rec.ID); i >= 0 {
		s.records[i] = rec
		return
	}
	s.records = append(s.records, rec)
}

func (s *tableService) Filter() models.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Clone()
}

func (s *tableService) SetFilter(st models.FilterState) {
	s.mu.Lock()
	s.filter = st.Clone()
	s.mu.Unlock()
}

// ToggleCountry adds name to the country facet, or removes it if present.
func (s *tableService) ToggleCountry(name string) {
	s.mu.Lock()
	s.filter.Countries = toggle(s.filter.Countries, name)
	s.mu.Unlock()
}

// ToggleGender adds or removes a gender. Only the known genders are
// accepted; the value is normalized first.
func (s *tableService) ToggleGender(gender string) error {
	g := models.NormalizeGender(gender)
	if !slices.Contains(models.Genders, g) {
		return models.Validation("gender", "unknown gender "+gender)
	}
	s.mu.Lock()
	s.filter.Genders = toggle(s.filter.Genders, g)
	s.mu.Unlock()
	return nil
}

func (s *tableService) ClearCountries() {
	s.mu.Lock()
	s.filter.Countries = nil
	s.mu.Unlock()
}

func (s *tableService) ClearGenders() {
	s.mu.Lock()
	s.filter.Genders = nil
	s.mu.Unlock()
}

// SetDateRange stores both bounds as given. A bound that does not parse
// restricts nothing.
func (s *tableService) SetDateRange(from, to string) {
	s.mu.Lock()
	s.filter.DateFrom, s.filter.DateTo = from, to
	s.mu.Unlock()
}

func (s *tableService) ClearDateRange() {
	s.SetDateRange("", "")
}

func (s *tableService) SetSearch(text string) {
	s.mu.Lock()
	s.filter.SearchText = text
	s.mu.Unlock()
}

func (s *tableService) Sort() models.SortState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

func (s *tableService) SetSort(st models.SortState) {
	s.mu.Lock()
	s.sort = st
	s.mu.Unlock()
}

func (s *tableService) ToggleSort(column string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := view.Toggle(s.sort, column)
	if err != nil {
		return err
	}
	s.sort = st
	return nil
}

func (s *tableService) Overlay() view.Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay
}

func (s *tableService) OpenMenu(o view.Overlay) view.Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = s.overlay.Open(o)
	return s.overlay
}

func (s *tableService) DismissMenu() {
	s.mu.Lock()
	s.overlay = s.overlay.Dismiss()
	s.mu.Unlock()
}

func (s *tableService) Countries() []models.Country {
	return s.dir.All()
}

func (s *tableService) Directory() *directory.Directory {
	return s.dir
}

func (s *tableService) indexOf(id string) int {
	return slices.IndexFunc(s.records, func(r models.Record) bool { return r.ID == id })
}

func toggle(set []string, v string) []string {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}
