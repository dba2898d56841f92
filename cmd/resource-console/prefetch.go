package main

import (
	"fmt"
	"io"

	"github.com/agentuity/resource-console/tui"
	"github.com/agentuity/resource-console/view"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newPrefetchCommand(s *streams) *cobra.Command {
	return &cobra.Command{
		Use:   "prefetch",
		Short: "Load every list at once and print cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd.Context(), cmd, s, sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()
			err = prefetch(cmd, sess.app)
			printStats(s.out, sess.app)
			return err
		},
	}
}

// prefetch loads every section concurrently. Failures are collected rather
// than cancelling the other loads.
func prefetch(cmd *cobra.Command, app *view.App) error {
	sections := app.Sections()
	errs := make([]error, len(sections))
	var g errgroup.Group
	for i, section := range sections {
		g.Go(func() error {
			if err := section.Prefetch(cmd.Context(), app); err != nil {
				errs[i] = errors.Wrapf(err, "prefetching %s", section.SectionTitle())
			}
			return nil
		})
	}
	g.Wait()
	var combined error
	for _, err := range errs {
		combined = errors.CombineErrors(combined, err)
	}
	return combined
}

func printStats(w io.Writer, app *view.App) {
	store := app.Store()
	st := store.Stats()
	rows := [][]string{}
	for _, section := range app.Sections() {
		e, ok := store.Peek(section.SectionKey())
		status := "not loaded"
		if ok {
			status = e.Status.String()
			if e.Err != nil {
				status += ": " + e.Err.Error()
			}
		}
		rows = append(rows, []string{section.SectionTitle(), section.SectionKey().String(), status})
	}
	tui.Table(w, []string{"Section", "Key", "Status"}, rows, 60)
	tui.KeyValues(w, [][2]string{
		{"Entries", fmt.Sprint(st.Entries)},
		{"Fetches", fmt.Sprint(st.Fetches)},
		{"Hits", fmt.Sprint(st.Hits)},
		{"Misses", fmt.Sprint(st.Misses)},
		{"Deduplicated", fmt.Sprint(st.Dedups)},
		{"Invalidations", fmt.Sprint(st.Invalidations)},
		{"Rollbacks", fmt.Sprint(st.Rollbacks)},
		{"Evictions", fmt.Sprint(st.Evictions)},
	}, 40)
}
