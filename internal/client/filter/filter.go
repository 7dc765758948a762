// Package filter reduces a record set to the rows that satisfy a
// models.FilterState.
//
// Facets combine with AND; values inside one facet combine with OR; an empty
// facet restricts nothing. Global search runs after the facets and can only
// narrow. Nothing here returns an error: a contradictory state such as
// DateFrom after DateTo simply matches no rows.
package filter

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"golang.org/x/text/cases"
)

// Apply returns the records that pass every facet and the search text, in
// input order. The input slice is not modified.
func Apply(records []models.Record, st models.FilterState) []models.Record {
	p := newPredicate(st)
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if p.facets(r) && p.search(r) {
			out = append(out, r)
		}
	}
	return out
}

// Facets applies only the structured facets.
func Facets(records []models.Record, st models.FilterState) []models.Record {
	st.SearchText = ""
	return Apply(records, st)
}

// Search applies only the global search text.
func Search(records []models.Record, text string) []models.Record {
	return Apply(records, models.FilterState{SearchText: text})
}

type predicate struct {
	countries map[string]struct{}
	genders   map[string]struct{}
	from, to  time.Time
	hasFrom   bool
	hasTo     bool
	needle    string
	fold      cases.Caser
}

func newPredicate(st models.FilterState) *predicate {
	p := &predicate{fold: cases.Fold()}

	if len(st.Countries) > 0 {
		p.countries = make(map[string]struct{}, len(st.Countries))
		for _, c := range st.Countries {
			p.countries[c] = struct{}{}
		}
	}
	if len(st.Genders) > 0 {
		p.genders = make(map[string]struct{}, len(st.Genders))
		for _, g := range st.Genders {
			p.genders[models.NormalizeGender(g)] = struct{}{}
		}
	}
	if t, ok := models.ParseDate(st.DateFrom); ok {
		p.from, p.hasFrom = day(t), true
	}
	if t, ok := models.ParseDate(st.DateTo); ok {
		p.to, p.hasTo = day(t), true
	}
	if st.SearchText != "" {
		p.needle = p.fold.String(st.SearchText)
	}
	return p
}

func (p *predicate) facets(r models.Record) bool {
	if p.countries != nil {
		if _, ok := p.countries[r.Country]; !ok {
			return false
		}
	}
	if p.genders != nil {
		g := r.GenderText()
		if g == "" {
			return false
		}
		if _, ok := p.genders[g]; !ok {
			return false
		}
	}
	if p.hasFrom || p.hasTo {
		t, ok := r.RequestTime()
		if !ok {
			return false
		}
		d := day(t)
		if p.hasFrom && d.Before(p.from) {
			return false
		}
		if p.hasTo && d.After(p.to) {
			return false
		}
	}
	return true
}

func (p *predicate) search(r models.Record) bool {
	if p.needle == "" {
		return true
	}
	return strings.Contains(p.fold.String(strings.Join(SearchableValues(r), " ")), p.needle)
}

// SearchableValues lists the display text that global search looks at.
func SearchableValues(r models.Record) []string {
	return []string{r.DisplayName(), r.GenderText(), r.RequestDateText(), r.Country}
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
