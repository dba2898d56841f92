package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentuity/resource-console/tui"
	"github.com/agentuity/resource-console/view"
	"github.com/cockroachdb/errors"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var shellCommands = []string{"back", "refresh", "render", "history", "stats", "clear", "help", "quit"}

// lineReader is the part of liner.State the shell uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type shell struct {
	app *view.App
	out io.Writer
}

func newShellCommand(s *streams) *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Browse interactively: type a path such as /posts, or an action of the current page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd.Context(), cmd, s, sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)
			sh := &shell{app: sess.app, out: s.out}
			line.SetCompleter(sh.complete)
			history := historyFile()
			if f, err := os.Open(history); err == nil {
				line.ReadHistory(f)
				f.Close()
			}
			defer saveHistory(line, history)
			return sh.run(cmd.Context(), line, start)
		},
	}
	cmd.Flags().StringVar(&start, "start", "/", "path to open first")
	return cmd
}

func historyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "resource-console", "history")
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	if f, err := os.Create(path); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func (sh *shell) show(page view.Page, err error) {
	if page != nil {
		page.Render(sh.out)
	}
	sh.report(err)
}

func (sh *shell) report(err error) {
	if err != nil && !errors.Is(err, view.ErrReported) && !errors.Is(err, context.Canceled) {
		tui.ShowError(sh.out, "%s", err)
	}
}

// run reads commands until quit, end of input or ctx is done.
func (sh *shell) run(ctx context.Context, in lineReader, start string) error {
	sh.show(sh.app.Open(ctx, start))
	for ctx.Err() == nil {
		_, path := sh.app.Page()
		line, err := in.Prompt(path + "> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(sh.out)
				return nil
			}
			return errors.Wrap(err, "reading input")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)
		if !sh.exec(ctx, line) {
			return nil
		}
	}
	return nil
}

// exec runs one line and reports whether the shell should keep going.
func (sh *shell) exec(ctx context.Context, line string) bool {
	if strings.HasPrefix(line, "/") {
		sh.show(sh.app.Open(ctx, line))
		return true
	}
	parts := strings.Fields(line)
	name, args := strings.ToLower(parts[0]), parts[1:]
	switch name {
	case "quit", "exit", "q":
		return false
	case "back":
		sh.show(sh.app.Back(ctx))
	case "refresh":
		sh.report(sh.app.Refresh(ctx))
		sh.app.Render(sh.out)
	case "render", "ls":
		sh.app.Render(sh.out)
	case "history":
		for i, p := range sh.app.Navigator().History() {
			fmt.Fprintf(sh.out, "%3d  %s\n", i+1, p)
		}
	case "stats":
		printStats(sh.out, sh.app)
	case "clear":
		tui.ClearScreen()
	case "help", "?":
		sh.help()
	default:
		err := sh.app.Do(ctx, name, args)
		if errors.Is(err, view.ErrUnknownAction) {
			tui.ShowWarning(sh.out, "Unknown command %q (type help)", name)
			return true
		}
		sh.report(err)
		sh.app.Render(sh.out)
	}
	return true
}

func (sh *shell) help() {
	page, _ := sh.app.Page()
	rows := [][2]string{}
	if page != nil {
		for _, a := range page.Actions() {
			rows = append(rows, [2]string{strings.TrimSpace(a.Name + " " + a.Usage), a.Help})
		}
	}
	rows = append(rows,
		[2]string{"/<path>", "open a page, e.g. /todos/3 or /posts/edit/1"},
		[2]string{"back", "previous page"},
		[2]string{"refresh", "refetch what this page shows"},
		[2]string{"render", "draw the page again"},
		[2]string{"history", "visited pages"},
		[2]string{"stats", "cache statistics"},
		[2]string{"clear", "clear the screen"},
		[2]string{"quit", "leave the shell"},
	)
	tui.KeyValues(sh.out, rows, 60)
}

func (sh *shell) complete(line string) []string {
	words := append([]string(nil), shellCommands...)
	if page, _ := sh.app.Page(); page != nil {
		for _, a := range page.Actions() {
			words = append(words, a.Name)
		}
	}
	for _, section := range sh.app.Sections() {
		words = append(words, section.ResourceKind().Route())
	}
	var out []string
	for _, w := range words {
		if strings.HasPrefix(w, line) {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}
