package tui

import tm "github.com/buger/goterm"

// ClearScreen backs the shell's clear command: it wipes the terminal and
// homes the cursor so the next page renders at the top. Without a TTY it
// does nothing so piped output stays clean.
func ClearScreen() {
	if !HasTTY {
		return
	}
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}
