package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/buildinfo"
	"github.com/dmitrijs2005/taxdesk/internal/client/config"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/view"
	"github.com/dmitrijs2005/taxdesk/internal/flagx"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		output, _ := root.PersistentFlags().GetString("output")
		if output == config.OutputJSON {
			_ = printJSON(os.Stdout, map[string]any{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// NewRootCmd builds the taxdesk command tree. Commands that talk to the
// record store get their App from the root's PersistentPreRunE.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var (
		configPath string
		app        *App
	)

	root := &cobra.Command{
		Use:           "taxdesk",
		Short:         "Browse, filter and edit tax records",
		Long:          "Terminal client for a remote record store: filter, sort and search records, edit them, and maintain the country list.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["offline"] == "true" {
				return nil
			}

			path := configPath
			if path == "" {
				path = os.Getenv(flagx.ConfigEnv)
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			// flag > env > file > default
			applyFlagOverrides(cmd.Flags(), cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logging.New(errOut, cfg.LogLevel, cfg.LogFormat)
			app, err = NewApp(cfg, log, in, out)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if app != nil {
				return app.Close()
			}
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file (default $"+flagx.ConfigEnv+")")
	pf.String("endpoint", "", "Record store API base URL (default $"+config.EnvEndpoint+" or config)")
	pf.String("token", "", "Bearer token (default $"+config.EnvToken+" or config)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.StringP("output", "o", config.OutputTable, "Output format (table, json)")

	getApp := func() *App { return app }
	root.AddCommand(
		newListCmd(getApp),
		newEditCmd(getApp),
		newCountriesCmd(getApp),
		newExportCmd(getApp),
		newReplCmd(getApp),
		newVersionCmd(out),
	)
	return root
}

// applyFlagOverrides copies every persistent flag the user actually set onto
// cfg.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "endpoint":
			cfg.Endpoint = f.Value.String()
		case "token":
			cfg.Token = f.Value.String()
		case "log-level":
			cfg.LogLevel = f.Value.String()
		case "output":
			cfg.Output = f.Value.String()
		}
	})
}

func newListCmd(app func() *App) *cobra.Command {
	var (
		countries []string
		genders   []string
		from, to  string
		search    string
		sortBy    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, optionally filtered and sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			ctx := cmd.Context()
			if err := a.ensureLoaded(ctx); err != nil {
				return err
			}
			st, err := view.ParseSort(sortBy)
			if err != nil {
				return err
			}
			for _, g := range genders {
				if err := a.table.ToggleGender(g); err != nil {
					return err
				}
			}
			for _, c := range countries {
				a.table.ToggleCountry(c)
			}
			a.table.SetDateRange(from, to)
			a.table.SetSearch(search)
			a.table.SetSort(st)
			return a.List(ctx)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&countries, "country", nil, "Only these countries (repeatable)")
	f.StringSliceVar(&genders, "gender", nil, "Only these genders: Male, Female (repeatable)")
	f.StringVar(&from, "from", "", "Earliest request date, YYYY-MM-DD")
	f.StringVar(&to, "to", "", "Latest request date, YYYY-MM-DD")
	f.StringVarP(&search, "search", "s", "", "Case-insensitive text search")
	f.StringVar(&sortBy, "sort", "", "Sort column and direction, e.g. name or country:desc")
	return cmd
}

func newEditCmd(app func() *App) *cobra.Command {
	var name, countryID string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a record's name and country",
		Long:  "Update a record's name and country. With neither --name nor --country-id the form is interactive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if name == "" && countryID == "" {
				return a.Edit(cmd.Context(), args[0])
			}
			saved, err := a.Update(cmd.Context(), args[0], name, countryID)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), []models.Record{saved}, a.config.Output)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New entity name")
	cmd.Flags().StringVar(&countryID, "country-id", "", "New country id")
	return cmd
}

func newCountriesCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "Show or rename countries",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			return printCountries(cmd.OutOrStdout(), a.table.Countries(), a.config.Output)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <new name>",
		Short: "Rename a country",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().RenameCountry(cmd.Context(), args[0], strings.Join(args[1:], " "))
		},
	})
	return cmd
}

func newExportCmd(app func() *App) *cobra.Command {
	var (
		countries []string
		search    string
	)
	cmd := &cobra.Command{
		Use:   "export [path|-|s3://key|url]",
		Short: "Export records as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			for _, c := range countries {
				a.table.ToggleCountry(c)
			}
			a.table.SetSearch(search)
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return a.Export(cmd.Context(), path)
		},
	}
	cmd.Flags().StringSliceVar(&countries, "country", nil, "Only these countries (repeatable)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text search")
	return cmd
}

func newReplCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			ctx := cmd.Context()
			fmt.Fprintln(cmd.OutOrStdout(), "taxdesk (type 'help' for commands)")
			if err := a.ensureLoaded(ctx); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Error:", err, "(type 'reload' to retry)")
			}
			runREPL(ctx, a, a.status, a.reader)
			return nil
		},
	}
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"offline": "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(out)
		},
	}
}
