package tui

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

var (
	HasTTY = isatty.IsTerminal(os.Stdout.Fd())
)

// DefaultWidth is used when the terminal size is unknown.
const DefaultWidth = 100

// Width returns the width of the terminal attached to stdout.
func Width() int {
	if !HasTTY {
		return DefaultWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
