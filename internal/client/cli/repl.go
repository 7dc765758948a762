package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Reload(ctx context.Context) error
	Filter(ctx context.Context, args []string) error
	Search(ctx context.Context, text string) error
	Sort(ctx context.Context, column string) error
	Menu(ctx context.Context, args []string) error
	Edit(ctx context.Context, id string) error
	RenameCountry(ctx context.Context, id, name string) error
	Export(ctx context.Context, path string) error
}

const replHelp = `Available commands:
  list                                  show the visible records
  filter country [name]                 toggle a country (no name: enter several)
  filter gender <Male|Female>           toggle a gender
  filter date <from|-> <to|->           set the request date range (YYYY-MM-DD)
  filter clear [country|gender|date]    clear one facet, or all of them
  search [text]                         set the global search (no text clears)
  sort <name|country>                   cycle asc, desc, off
  menu [country|gender|date]            show a filter menu (no argument closes it)
  edit <id>                             edit a record
  rename-country <id> <new name>        rename a country
  reload                                fetch records and countries again
  export [path|-|s3://key|url]          write the visible rows as CSV
  exit | quit                           leave`

// runREPL reads commands from reader until EOF or exit and dispatches them
// to a. Command errors are printed and the loop goes on with the data it
// already has. Commands may prompt through the same reader, so input is
// consumed one line at a time.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("taxdesk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help", "?":
			printlnFn(replHelp)

		case "l", "list":
			err = a.List(ctx)

		case "reload":
			err = a.Reload(ctx)

		case "filter", "f":
			err = a.Filter(ctx, args)

		case "search", "s":
			err = a.Search(ctx, strings.Join(args, " "))

		case "sort":
			if len(args) != 1 {
				printlnFn("Usage: sort <name|country>")
				continue
			}
			err = a.Sort(ctx, args[0])

		case "menu":
			err = a.Menu(ctx, args)

		case "edit", "e":
			if len(args) != 1 {
				printlnFn("Usage: edit <id>")
				continue
			}
			err = a.Edit(ctx, args[0])

		case "rename-country":
			if len(args) < 2 {
				printlnFn("Usage: rename-country <id> <new name>")
				continue
			}
			err = a.RenameCountry(ctx, args[0], strings.Join(args[1:], " "))

		case "export":
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			err = a.Export(ctx, path)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
