package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	err   error
}

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return f.err
}

func (f *fakeExec) List(ctx context.Context) error   { return f.record("list") }
func (f *fakeExec) Reload(ctx context.Context) error { return f.record("reload") }
func (f *fakeExec) Filter(ctx context.Context, args []string) error {
	return f.record("filter " + strings.Join(args, ","))
}
func (f *fakeExec) Search(ctx context.Context, text string) error {
	return f.record("search " + text)
}
func (f *fakeExec) Sort(ctx context.Context, column string) error {
	return f.record("sort " + column)
}
func (f *fakeExec) Menu(ctx context.Context, args []string) error {
	return f.record("menu " + strings.Join(args, ","))
}
func (f *fakeExec) Edit(ctx context.Context, id string) error { return f.record("edit " + id) }
func (f *fakeExec) RenameCountry(ctx context.Context, id, name string) error {
	return f.record("rename " + id + "=" + name)
}
func (f *fakeExec) Export(ctx context.Context, path string) error {
	return f.record("export " + path)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.Join([]string{
		"help",
		"list",
		"filter country Costa Rica",
		"f gender male",
		"search acme corp",
		"search",
		"sort name",
		"menu country",
		"menu",
		"edit 7",
		"rename-country c1 Republic of Chad",
		"reload",
		"export",
		"export out.csv",
		"",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"list",
		"filter country,Costa,Rica",
		"filter gender,male",
		"search acme corp",
		"search ",
		"sort name",
		"menu country",
		"menu ",
		"edit 7",
		"rename c1=Republic of Chad",
		"reload",
		"export -",
		"export out.csv",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("sort\nedit\nrename-country c1\nfoobar\nquit\n"))

	assert.Empty(t, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Usage: sort <name|country>")
	assert.Contains(t, joined, "Usage: edit <id>")
	assert.Contains(t, joined, "Usage: rename-country <id> <new name>")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_ErrorsDoNotStopLoop(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("server unavailable")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("list\nreload")))

	assert.Equal(t, []string{"list", "reload"}, exec.calls)
	assert.Contains(t, *out, "Error: server unavailable")
}
