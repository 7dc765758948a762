// Package view orders filtered records for display and tracks which filter
// menu, if any, is open.
package view

import (
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Column keys.
const (
	ColumnName        = "name"
	ColumnGender      = "gender"
	ColumnRequestDate = "requestDate"
	ColumnCountry     = "country"
)

// Kind is a column's value type. It selects the comparator.
type Kind int

const (
	KindString Kind = iota
	KindEnum
	KindDate
)

// Column describes one grid column.
type Column struct {
	Key      string
	Title    string
	Kind     Kind
	Sortable bool
	Value    func(models.Record) string
}

// Columns is the grid layout in display order. Gender and date are filtered
// through their menus and are not sortable.
var Columns = []Column{
	{Key: ColumnName, Title: "Entity", Kind: KindString, Sortable: true, Value: models.Record.DisplayName},
	{Key: ColumnGender, Title: "Gender", Kind: KindEnum, Value: models.Record.GenderText},
	{Key: ColumnRequestDate, Title: "Request date", Kind: KindDate, Value: models.Record.RequestDateText},
	{Key: ColumnCountry, Title: "Country", Kind: KindString, Sortable: true, Value: func(r models.Record) string { return r.Country }},
}

// Lookup returns the column registered under key.
func Lookup(key string) (Column, bool) {
	for _, c := range Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Row renders r as display cells in column order.
func Row(r models.Record) []string {
	cells := make([]string, len(Columns))
	for i, c := range Columns {
		cells[i] = c.Value(r)
	}
	return cells
}

// Titles returns the column headers.
func Titles() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Title
	}
	return out
}
