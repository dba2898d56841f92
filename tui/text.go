package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	linkForegroupColor  = lipgloss.AdaptiveColor{Light: "#000099", Dark: "#9F9FFF"}
	linkStyle           = lipgloss.NewStyle().Foreground(linkForegroupColor).Underline(true)
	paragraphStyle      = lipgloss.NewStyle().AlignVertical(lipgloss.Top).AlignHorizontal(lipgloss.Left)
	textStyleColor      = lipgloss.AdaptiveColor{Light: "#36EEE0", Dark: "#00FFFF"}
	mutedStyleColor     = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
	warningStyleColor   = lipgloss.AdaptiveColor{Light: "#FFA500", Dark: "#FFA500"}
	titleStyleColor     = lipgloss.AdaptiveColor{Light: "#071330", Dark: "#F652A0"}
	secondaryStyleColor = lipgloss.AdaptiveColor{Light: "#214358", Dark: "#AEB8C4"}
	commandStyle        = lipgloss.NewStyle().Foreground(textStyleColor)
	skeletonStyle       = lipgloss.NewStyle().Foreground(mutedStyleColor).Faint(true)
)

func Title(text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(titleStyleColor).Render(text)
}

func Bold(text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(textStyleColor).Render(text)
}

func Secondary(text string) string {
	return lipgloss.NewStyle().Foreground(secondaryStyleColor).Render(text)
}

func Muted(text string) string {
	return lipgloss.NewStyle().Foreground(mutedStyleColor).Render(text)
}

func Warning(text string) string {
	return lipgloss.NewStyle().Foreground(warningStyleColor).Render(text)
}

func Strike(text string) string {
	return lipgloss.NewStyle().Strikethrough(true).Foreground(mutedStyleColor).Render(text)
}

func Link(url string, args ...any) string {
	return linkStyle.Render(fmt.Sprintf(url, args...))
}

func Paragraph(text string, lines ...string) string {
	lines = append([]string{text}, lines...)
	var out strings.Builder
	for i, line := range lines {
		out.WriteString(paragraphStyle.Render(line))
		if i < len(lines)-1 {
			out.WriteString("\n\n")
		}
	}
	return out.String()
}

// Skeleton returns a placeholder bar of width cells, shown while data loads.
func Skeleton(width int) string {
	if width < 1 {
		width = 1
	}
	return skeletonStyle.Render(strings.Repeat("░", width))
}

func Highlight(cmd string, args ...string) string {
	cmdline := strings.Join(append([]string{cmd}, args...), " ")
	return commandStyle.Render(cmdline)
}

func PadRight(str string, length int, pad string) string {
	if n := lipgloss.Width(str); n < length {
		return str + strings.Repeat(pad, length-n)
	}
	return str
}

// MaxWidth truncates text to width cells, ending with "..." when cut.
func MaxWidth(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	runes := []rune(text)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
