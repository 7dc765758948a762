// Package models defines server-side data models persisted by the record store.
package models

import (
	"encoding/json"
	"maps"
)

// Record is one stored row. Gender and RequestDate are empty when unset and
// travel as JSON null. Attrs holds any additional top-level JSON members
// so they survive a read-modify-write round trip.
type Record struct {
	ID          string
	Name        string
	Gender      string
	RequestDate string
	Country     string
	CountryID   string
	Attrs       map[string]json.RawMessage
}

type recordWire struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Gender      *string `json:"gender"`
	RequestDate *string `json:"requestDate"`
	Country     string  `json:"country"`
	CountryID   string  `json:"countryId"`
}

var recordKeys = []string{"id", "name", "gender", "requestDate", "country", "countryId"}

func (r *Record) UnmarshalJSON(b []byte) error {
	var w recordWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, k := range recordKeys {
		delete(raw, k)
	}

	*r = Record{ID: w.ID, Name: w.Name, Country: w.Country, CountryID: w.CountryID}
	if w.Gender != nil {
		r.Gender = *w.Gender
	}
	if w.RequestDate != nil {
		r.RequestDate = *w.RequestDate
	}
	if len(raw) > 0 {
		r.Attrs = raw
	}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attrs)+len(recordKeys))
	for k, v := range r.Attrs {
		out[k] = v
	}
	out["id"] = r.ID
	out["name"] = r.Name
	out["gender"] = nullable(r.Gender)
	out["requestDate"] = nullable(r.RequestDate)
	out["country"] = r.Country
	out["countryId"] = r.CountryID
	return json.Marshal(out)
}

// AttrsJSON encodes Attrs for storage; nil Attrs encode as "{}".
func (r Record) AttrsJSON() ([]byte, error) {
	if len(r.Attrs) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Attrs)
}

// SetAttrsJSON is the inverse of AttrsJSON.
func (r *Record) SetAttrsJSON(b []byte) error {
	r.Attrs = nil
	if len(b) == 0 {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if len(m) > 0 {
		r.Attrs = m
	}
	return nil
}

// Clone returns a deep enough copy for the in-memory store.
func (r Record) Clone() Record {
	c := r
	if r.Attrs != nil {
		c.Attrs = maps.Clone(r.Attrs)
	}
	return c
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
