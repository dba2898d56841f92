package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agentuity/resource-console/query"
	"github.com/agentuity/resource-console/tui"
)

const skeletonRows = 5

// renderState writes the placeholder for an entry that has no data yet. It
// returns false when the entry holds data and the caller should render it.
func renderState(w io.Writer, e query.Entry, width int, failure string) bool {
	if e.HasData {
		if e.Status == query.StatusError {
			tui.ShowWarning(w, "%s Showing cached data.", failure)
		}
		return false
	}
	if e.Status == query.StatusError {
		tui.ShowError(w, "%s", failure)
		return true
	}
	for i := 0; i < skeletonRows; i++ {
		fmt.Fprintln(w, tui.Skeleton(width))
	}
	return true
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, tui.Title(title))
	fmt.Fprintln(w)
}

func actionHelp(w io.Writer, actions []Action) {
	if len(actions) == 0 {
		return
	}
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		name := a.Name
		if a.Usage != "" {
			name += " " + a.Usage
		}
		parts = append(parts, tui.Highlight(name))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.Muted("actions: ")+strings.Join(parts, tui.Muted(", ")))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func money(f float64) string {
	return "$" + strconv.FormatFloat(f, 'f', 2, 64)
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
