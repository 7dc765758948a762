package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/view"
	"golang.org/x/term"
)

const defaultWidth = 120

// terminalWidth is a test seam for the output width.
var terminalWidth = func(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// printRecords renders rows as an aligned table that fits the terminal, or
// as JSON.
func printRecords(w io.Writer, rows []models.Record, output string) error {
	if output == "json" {
		return printJSON(w, rows)
	}

	header := append([]string{"ID"}, view.Titles()...)
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)
	for _, r := range rows {
		cells = append(cells, append([]string{r.ID}, view.Row(r)...))
	}
	return printTable(w, cells)
}

func printCountries(w io.Writer, countries []models.Country, output string) error {
	if output == "json" {
		return printJSON(w, countries)
	}
	cells := [][]string{{"ID", "Name"}}
	for _, c := range countries {
		cells = append(cells, []string{c.ID, c.Name})
	}
	return printTable(w, cells)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, cells [][]string) error {
	fitColumns(cells, terminalWidth(w))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range cells {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// fitColumns shortens the widest column, one rune at a time, until the row
// fits in width. Columns never shrink below a few runes.
func fitColumns(cells [][]string, width int) {
	if len(cells) == 0 {
		return
	}
	const gap, minCol = 2, 6

	widths := make([]int, len(cells[0]))
	for _, row := range cells {
		for i, c := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(c))
		}
	}

	total := func() int {
		n := gap * (len(widths) - 1)
		for _, w := range widths {
			n += w
		}
		return n
	}
	for total() > width {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minCol {
			break
		}
		widths[widest]--
	}

	for _, row := range cells {
		for i, c := range row {
			row[i] = truncate(c, widths[i])
		}
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func describeFilter(f models.FilterState, s models.SortState) string {
	var parts []string
	if len(f.Countries) > 0 {
		parts = append(parts, "country="+strings.Join(f.Countries, "|"))
	}
	if len(f.Genders) > 0 {
		parts = append(parts, "gender="+strings.Join(f.Genders, "|"))
	}
	if f.HasDateRange() {
		parts = append(parts, fmt.Sprintf("date=%s..%s", f.DateFrom, f.DateTo))
	}
	if f.SearchText != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.SearchText))
	}
	if s.Active() {
		parts = append(parts, fmt.Sprintf("sort=%s:%s", s.Column, s.Direction))
	}
	return strings.Join(parts, " ")
}
