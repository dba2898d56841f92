package view

import (
	"context"
	"io"

	"github.com/agentuity/resource-console/query"
)

// Action is something the user can do on a page.
type Action struct {
	Name  string
	Usage string
	Help  string
	Run   func(ctx context.Context, args []string) error
}

// Page is one screen. Render only reads the store and never fetches.
type Page interface {
	Title() string
	// Load starts the page's reads and waits for them.
	Load(ctx context.Context) error
	Render(w io.Writer)
	Actions() []Action
	// Keys lists the cache keys the page reads.
	Keys() []query.Key
	// Close releases the page's subscriptions.
	Close()
}

// DataPage is implemented by pages that can hand out the records they show.
type DataPage interface {
	Data() (any, error)
}

func findAction(p Page, name string) (Action, bool) {
	for _, a := range p.Actions() {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}
