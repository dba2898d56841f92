// Command resource-console browses and edits products, recipes, posts,
// comments and todos on a remote REST API from the terminal.
package main

import (
	"context"
	"os"

	"github.com/agentuity/resource-console/sys"
	"github.com/agentuity/resource-console/tui"
	"github.com/agentuity/resource-console/view"
	"github.com/cockroachdb/errors"
)

func main() {
	ctx, stop := sys.ShutdownContext(context.Background())
	root := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, view.ErrReported) {
			tui.ShowError(os.Stderr, "%s", err)
			if hint := errors.FlattenHints(err); hint != "" {
				tui.ShowInfo(os.Stderr, "%s", hint)
			}
		}
		os.Exit(1)
	}
}
