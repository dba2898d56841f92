package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	messageOKColor      = lipgloss.AdaptiveColor{Light: "#009900", Dark: "#00FF00"}
	messageOKStyle      = lipgloss.NewStyle().Foreground(messageOKColor)
	messageTextColor    = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	messageTextStyle    = lipgloss.NewStyle().Foreground(messageTextColor)
	messageWarningColor = lipgloss.AdaptiveColor{Light: "#990000", Dark: "#FF0000"}
	messageWarningStyle = lipgloss.NewStyle().Foreground(messageWarningColor)
	messageInfoColor    = lipgloss.AdaptiveColor{Light: "#DE970B", Dark: "#F6BE00"}
	messageInfoStyle    = lipgloss.NewStyle().Foreground(messageInfoColor)
)

func ShowSuccess(w io.Writer, msg string, args ...any) {
	fmt.Fprintln(w, messageOKStyle.Render(" ✓ ")+messageTextStyle.Render(fmt.Sprintf(msg, args...)))
}

func ShowInfo(w io.Writer, msg string, args ...any) {
	fmt.Fprintln(w, messageInfoStyle.Render(" ! ")+messageTextStyle.Render(fmt.Sprintf(msg, args...)))
}

func ShowWarning(w io.Writer, msg string, args ...any) {
	fmt.Fprintln(w, messageWarningStyle.Render(" ✕ ")+messageTextStyle.Render(fmt.Sprintf(msg, args...)))
}

func ShowError(w io.Writer, msg string, args ...any) {
	fmt.Fprintln(w, messageWarningStyle.Render(" ⚠ ")+messageTextStyle.Render(fmt.Sprintf(msg, args...)))
}
