package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/config"
	"github.com/dmitrijs2005/taxdesk/internal/client/edit"
	"github.com/dmitrijs2005/taxdesk/internal/client/export"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/services"
	"github.com/dmitrijs2005/taxdesk/internal/client/view"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

// App wires the table session, the edit form and terminal I/O.
type App struct {
	config *config.Config
	log    logging.Logger
	client client.Client
	table  services.TableService
	editor *edit.Workflow
	reader *bufio.Reader
	out    io.Writer

	newS3Sink func(ctx context.Context, cfg export.S3Config, key string) (export.Sink, error)
}

func NewApp(cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	c, err := client.NewHTTPClient(cfg.Endpoint, cfg.Token, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newAppWithClient(cfg, log, c, in, out), nil
}

func newAppWithClient(cfg *config.Config, log logging.Logger, c client.Client, in io.Reader, out io.Writer) *App {
	table := services.NewTableService(c, log)
	return &App{
		config: cfg,
		log:    log.With("module", "cli"),
		client: c,
		table:  table,
		editor: edit.New(c, table, table.Directory(), log),
		reader: bufio.NewReader(in),
		out:    out,
		newS3Sink: func(ctx context.Context, cfg export.S3Config, key string) (export.Sink, error) {
			return export.NewS3Sink(ctx, cfg, key)
		},
	}
}

func (a *App) Close() error {
	return a.client.Close()
}

// ensureLoaded performs the initial load once per session.
func (a *App) ensureLoaded(ctx context.Context) error {
	if a.table.Loaded() {
		return nil
	}
	return a.table.Load(ctx)
}

func (a *App) status() string {
	if !a.table.Loaded() {
		return "(not loaded)"
	}
	s := fmt.Sprintf("%d/%d", len(a.table.Visible()), len(a.table.Records()))
	if d := describeFilter(a.table.Filter(), a.table.Sort()); d != "" {
		s += " " + d
	}
	return "(" + s + ")"
}

func (a *App) List(ctx context.Context) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	rows := a.table.Visible()
	if err := printRecords(a.out, rows, a.config.Output); err != nil {
		return err
	}
	if a.config.Output != config.OutputJSON {
		fmt.Fprintf(a.out, "%d of %d records\n", len(rows), len(a.table.Records()))
	}
	return nil
}

func (a *App) Reload(ctx context.Context) error {
	if err := a.table.Load(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Loaded %d records, %d countries\n", len(a.table.Records()), len(a.table.Countries()))
	return nil
}

// Filter handles "filter country|gender <value>", "filter date <from> <to>"
// and "filter clear [facet]".
func (a *App) Filter(ctx context.Context, args []string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: filter country|gender <value> | filter date <from|-> <to|-> | filter clear [facet]")
	}

	switch args[0] {
	case "country":
		names := args[1:]
		if len(names) == 0 {
			var err error
			names, err = GetLines(a.reader, "Country names to toggle, one per line", a.out)
			if err != nil {
				return err
			}
		} else {
			names = []string{strings.Join(names, " ")}
		}
		for _, n := range names {
			a.table.ToggleCountry(n)
		}
	case "gender":
		if len(args) < 2 {
			return errors.New("usage: filter gender <Male|Female>")
		}
		for _, g := range args[1:] {
			if err := a.table.ToggleGender(g); err != nil {
				return err
			}
		}
	case "date":
		if len(args) != 3 {
			return errors.New("usage: filter date <from|-> <to|->")
		}
		a.table.SetDateRange(dash(args[1]), dash(args[2]))
	case "clear":
		facet := ""
		if len(args) > 1 {
			facet = args[1]
		}
		switch facet {
		case "":
			a.table.SetFilter(models.FilterState{SearchText: a.table.Filter().SearchText})
		case "country":
			a.table.ClearCountries()
		case "gender":
			a.table.ClearGenders()
		case "date":
			a.table.ClearDateRange()
		default:
			return fmt.Errorf("unknown facet %q", facet)
		}
	default:
		return fmt.Errorf("unknown facet %q", args[0])
	}
	return a.List(ctx)
}

func (a *App) Search(ctx context.Context, text string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	a.table.SetSearch(text)
	return a.List(ctx)
}

func (a *App) Sort(ctx context.Context, column string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	if err := a.table.ToggleSort(column); err != nil {
		return err
	}
	return a.List(ctx)
}

// Menu opens a filter menu and prints its options with the selected ones
// marked. With no argument it closes the open menu.
func (a *App) Menu(ctx context.Context, args []string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		a.table.DismissMenu()
		return nil
	}
	o, ok := view.ParseOverlay(args[0])
	if !ok || o == view.OverlayNone {
		return fmt.Errorf("unknown menu %q: use country, gender or date", args[0])
	}

	f := a.table.Filter()
	switch a.table.OpenMenu(o) {
	case view.OverlayCountry:
		for _, name := range a.table.Directory().Names() {
			fmt.Fprintf(a.out, "%s %s\n", mark(f.HasCountry(name)), name)
		}
	case view.OverlayGender:
		for _, g := range models.Genders {
			fmt.Fprintf(a.out, "%s %s\n", mark(f.HasGender(g)), g)
		}
	case view.OverlayDate:
		fmt.Fprintf(a.out, "from: %s\nto:   %s\n", orNone(f.DateFrom), orNone(f.DateTo))
	}
	return nil
}

// Edit runs the edit form for id interactively. After the country is chosen
// the form offers to rename it in place. A failed submit keeps the form open
// and offers another attempt.
func (a *App) Edit(ctx context.Context, id string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	rec, ok := a.table.Record(id)
	if !ok {
		return &models.NotFoundError{Kind: "record", ID: id}
	}
	if err := a.editor.Open(ctx, rec); err != nil {
		return err
	}

	for {
		form := a.editor.Form()
		name, err := GetWithDefault(a.reader, "Name", form.Name, a.out)
		if err != nil {
			_ = a.editor.Cancel()
			return err
		}
		if err := a.editor.SetName(name); err != nil {
			return err
		}

		_ = printCountries(a.out, a.table.Countries(), config.OutputTable)
		countryID, err := GetWithDefault(a.reader, "Country id", form.CountryID, a.out)
		if err != nil {
			_ = a.editor.Cancel()
			return err
		}
		if countryID != form.CountryID {
			if err := a.editor.SelectCountry(countryID); err != nil {
				fmt.Fprintln(a.out, "Error:", err)
			}
		}
		a.offerCountryRename(ctx)

		saved, err := a.editor.Submit(ctx)
		if err == nil {
			fmt.Fprintf(a.out, "Saved record %s\n", saved.ID)
			return nil
		}
		fmt.Fprintln(a.out, "Error:", err)
		if !GetConfirm(a.reader, "Try again?", a.out) {
			_ = a.editor.Cancel()
			return nil
		}
	}
}

// offerCountryRename lets the user rename the form's selected country
// without leaving the form.
func (a *App) offerCountryRename(ctx context.Context) {
	form := a.editor.Form()
	if form.CountryID == "" {
		return
	}
	if !GetConfirm(a.reader, fmt.Sprintf("Rename country %q?", form.Country), a.out) {
		return
	}
	name, err := GetSimpleText(a.reader, "New country name", a.out)
	if err != nil {
		return
	}
	if _, err := a.editor.RenameCountry(ctx, form.CountryID, name); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	form = a.editor.Form()
	fmt.Fprintf(a.out, "Country: %s (%s)\n", form.Country, form.CountryID)
}

// Update applies a non-interactive edit. Empty arguments keep the current
// value.
func (a *App) Update(ctx context.Context, id, name, countryID string) (models.Record, error) {
	if err := a.ensureLoaded(ctx); err != nil {
		return models.Record{}, err
	}
	rec, ok := a.table.Record(id)
	if !ok {
		return models.Record{}, &models.NotFoundError{Kind: "record", ID: id}
	}
	if err := a.editor.Open(ctx, rec); err != nil {
		return models.Record{}, err
	}
	defer a.editor.Cancel()

	if name != "" {
		if err := a.editor.SetName(name); err != nil {
			return models.Record{}, err
		}
	}
	if countryID != "" {
		if err := a.editor.SelectCountry(countryID); err != nil {
			return models.Record{}, err
		}
	}
	return a.editor.Submit(ctx)
}

func (a *App) RenameCountry(ctx context.Context, id, name string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	c, err := a.table.Directory().Rename(ctx, id, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Renamed %s to %q\n", c.ID, c.Name)
	return nil
}

// Export writes the visible rows to path ("-" for stdout). A path starting
// with s3:// goes to the configured bucket under the given key; an http(s)
// URL is treated as a presigned upload target.
func (a *App) Export(ctx context.Context, path string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}

	var sink export.Sink = export.FileSink{Path: path, Out: a.out}
	if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		sink = export.PresignedSink{URL: path}
	} else if key, ok := strings.CutPrefix(path, "s3://"); ok {
		if key == "" {
			key = fmt.Sprintf("taxdesk-%s.csv", time.Now().UTC().Format("20060102-150405"))
		}
		s, err := a.newS3Sink(ctx, a.config.S3, key)
		if err != nil {
			return err
		}
		sink = s
	}

	loc, err := export.Export(ctx, sink, a.table.Visible())
	if err != nil {
		return err
	}
	if loc != "stdout" {
		fmt.Fprintf(a.out, "Exported to %s\n", loc)
	}
	return nil
}

func dash(s string) string {
	if s == "-" {
		return ""
	}
	return s
}

func mark(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
