package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Gender values offered by the gender facet.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Genders lists the gender facet options in display order.
var Genders = []string{GenderMale, GenderFemale}

// InvalidDate is the display text for a missing or unparseable request date.
const InvalidDate = "Invalid Date"

// DisplayDateLayout renders request dates as e.g. "Jan 05, 2024".
const DisplayDateLayout = "Jan 02, 2006"

var requestDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Record is one row of the record store.
//
// CountryID is authoritative; Country is the display value as last seen on
// the wire. Fields the client does not know about are kept in Extra and
// written back unchanged.
type Record struct {
	ID          string
	Name        string
	Gender      string
	RequestDate string
	Country     string
	CountryID   string

	Extra map[string]json.RawMessage
}

var knownRecordFields = []string{"id", "name", "gender", "requestDate", "country", "countryId"}

func (r *Record) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	targets := []*string{&r.ID, &r.Name, &r.Gender, &r.RequestDate, &r.Country, &r.CountryID}
	for i, key := range knownRecordFields {
		v, err := decodeLooseString(raw[key])
		if err != nil {
			return fmt.Errorf("record field %q: %w", key, err)
		}
		*targets[i] = v
		delete(raw, key)
	}

	r.Extra = nil
	if len(raw) > 0 {
		r.Extra = raw
	}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+len(knownRecordFields))
	for k, v := range r.Extra {
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

// Clone returns a copy that shares no mutable state with r.
func (r Record) Clone() Record {
	c := r
	if r.Extra != nil {
		c.Extra = maps.Clone(r.Extra)
	}
	return c
}

// DisplayName is the entity label shown in the grid: Name, or the legacy
// "entity" field when Name is empty.
func (r Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if raw, ok := r.Extra["entity"]; ok {
		if v, err := decodeLooseString(raw); err == nil {
			return v
		}
	}
	return ""
}

// GenderText is the normalized gender ("Male", "Female"), or "" when unset.
func (r Record) GenderText() string {
	return NormalizeGender(r.Gender)
}

// RequestTime parses RequestDate. ok is false when it is empty or malformed.
func (r Record) RequestTime() (t time.Time, ok bool) {
	return ParseDate(r.RequestDate)
}

// RequestDateText formats RequestDate for display.
func (r Record) RequestDateText() string {
	t, ok := r.RequestTime()
	if !ok {
		return InvalidDate
	}
	return t.Format(DisplayDateLayout)
}

// NormalizeGender upper-cases the first letter and lower-cases the rest.
func NormalizeGender(g string) string {
	g = strings.TrimSpace(g)
	if g == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(g)
	return cases.Upper(language.Und).String(g[:size]) + cases.Lower(language.Und).String(g[size:])
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range requestDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// decodeLooseString reads a JSON string, number or null as a string. The
// record store is not strict about ids being strings.
func decodeLooseString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}
