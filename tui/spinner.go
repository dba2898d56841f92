package tui

import (
	"context"

	"github.com/charmbracelet/huh/spinner"
)

// ShowSpinner runs action while a spinner with title is displayed. Without a
// TTY the action simply runs.
func ShowSpinner(ctx context.Context, title string, action func()) error {
	if !HasTTY {
		action()
		return nil
	}
	return spinner.New().
		Context(ctx).
		Title(title).
		Action(action).
		Run()
}
