package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns records ordered by st. The sort is stable. An inactive state,
// or one naming an unknown or unsortable column, keeps input order.
func Sort(records []models.Record, st models.SortState) []models.Record {
	out := slices.Clone(records)
	if !st.Active() {
		return out
	}
	col, ok := Lookup(st.Column)
	if !ok || !col.Sortable {
		return out
	}

	cmp := comparator(col)
	if st.Direction == models.Desc {
		asc := cmp
		cmp = func(a, b models.Record) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(col Column) func(a, b models.Record) int {
	switch col.Kind {
	case KindDate:
		return func(a, b models.Record) int {
			ta, oka := a.RequestTime()
			tb, okb := b.RequestTime()
			switch {
			case !oka && !okb:
				return 0
			case !oka:
				return 1
			case !okb:
				return -1
			}
			return ta.Compare(tb)
		}
	case KindEnum:
		return func(a, b models.Record) int {
			return enumRank(col.Value(a)) - enumRank(col.Value(b))
		}
	default:
		c := collate.New(language.Und, collate.IgnoreCase)
		return func(a, b models.Record) int {
			return c.CompareString(col.Value(a), col.Value(b))
		}
	}
}

func enumRank(g string) int {
	if i := slices.Index(models.Genders, g); i >= 0 {
		return i
	}
	return len(models.Genders)
}

// Toggle advances the sort for column: a new column starts ascending, then
// descending, then no sort. Unsortable columns are rejected and st is
// returned unchanged.
func Toggle(st models.SortState, column string) (models.SortState, error) {
	col, ok := Lookup(column)
	if !ok {
		return st, models.Validation("sort", fmt.Sprintf("unknown column %q", column))
	}
	if !col.Sortable {
		return st, models.Validation("sort", fmt.Sprintf("column %q is not sortable", column))
	}

	if st.Column != col.Key {
		return models.SortState{Column: col.Key, Direction: models.Asc}, nil
	}
	if st.Direction == models.Asc {
		return models.SortState{Column: col.Key, Direction: models.Desc}, nil
	}
	return models.SortState{}, nil
}

// ParseSort reads "column" or "column:asc|desc". An empty string means no
// sort.
func ParseSort(s string) (models.SortState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.SortState{}, nil
	}
	key, dir, _ := strings.Cut(s, ":")
	col, ok := Lookup(key)
	if !ok || !col.Sortable {
		return models.SortState{}, models.Validation("sort", fmt.Sprintf("column %q is not sortable", key))
	}
	switch models.Direction(strings.ToLower(dir)) {
	case "", models.Asc:
		return models.SortState{Column: col.Key, Direction: models.Asc}, nil
	case models.Desc:
		return models.SortState{Column: col.Key, Direction: models.Desc}, nil
	}
	return models.SortState{}, models.Validation("sort", fmt.Sprintf("unknown direction %q", dir))
}
