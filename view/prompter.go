package view

import (
	"context"

	"github.com/agentuity/resource-console/tui"
)

// Prompter shows dialogs. Confirm blocks until the user answers; Alert
// reports a message; Input asks for one value, offering value as the default.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	Alert(ctx context.Context, message string) error
	Input(ctx context.Context, label string, value string) (string, error)
}

// Chooser is implemented by prompters that can offer a list of choices.
type Chooser interface {
	Choose(ctx context.Context, title string, items []tui.Option) (string, error)
}

var (
	_ Prompter = (*tui.HuhPrompter)(nil)
	_ Prompter = (*tui.LinePrompter)(nil)
	_ Chooser  = (*tui.HuhPrompter)(nil)
	_ Chooser  = (*tui.LinePrompter)(nil)
)
