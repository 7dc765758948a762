package models

import "slices"

// FilterState is the set of active facet constraints. An empty facet does
// not restrict anything.
type FilterState struct {
	Countries  []string `json:"countries,omitempty"`
	Genders    []string `json:"genders,omitempty"`
	DateFrom   string   `json:"dateFrom,omitempty"`
	DateTo     string   `json:"dateTo,omitempty"`
	SearchText string   `json:"search,omitempty"`
}

// HasCountry reports whether name is selected in the country facet.
func (f FilterState) HasCountry(name string) bool {
	return slices.Contains(f.Countries, name)
}

// HasGender reports whether g is selected in the gender facet.
func (f FilterState) HasGender(g string) bool {
	return slices.Contains(f.Genders, g)
}

// HasDateRange reports whether either date bound is set.
func (f FilterState) HasDateRange() bool {
	return f.DateFrom != "" || f.DateTo != ""
}

// IsEmpty reports whether no facet and no search text is active.
func (f FilterState) IsEmpty() bool {
	return len(f.Countries) == 0 && len(f.Genders) == 0 && !f.HasDateRange() && f.SearchText == ""
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	f.Countries = slices.Clone(f.Countries)
	f.Genders = slices.Clone(f.Genders)
	return f
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState names at most one sorted column. An empty Column keeps load order.
type SortState struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether a column is sorted.
func (s SortState) Active() bool {
	return s.Column != ""
}
