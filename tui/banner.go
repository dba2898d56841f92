package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	bannerForegroupColor = lipgloss.AdaptiveColor{Light: "#a60853", Dark: "#F652A0"}
	bannerBorderColor    = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#AAAAAA"}
	bannerTitleColor     = lipgloss.AdaptiveColor{Light: "#00AAAA", Dark: "#00FFFF"}
	bannerMaxWidth       = 80
	bannerPadding        = 1
	bannerMargin         = 0
	bannerBorder         = lipgloss.RoundedBorder()
	bannerStyle          = lipgloss.NewStyle().
				Padding(bannerPadding).
				Margin(bannerMargin).
				AlignVertical(lipgloss.Top).
				AlignHorizontal(lipgloss.Left).
				Border(bannerBorder).
				BorderForeground(bannerBorderColor)
	bannerBodyStyle  = lipgloss.NewStyle().Foreground(bannerForegroupColor)
	bannerTitleStyle = lipgloss.NewStyle().AlignHorizontal(lipgloss.Center).Bold(true).Foreground(bannerTitleColor)
)

// Banner renders title and body in a rounded box no wider than width.
func Banner(title string, body string, width int) string {
	if width <= 0 || width > bannerMaxWidth {
		width = bannerMaxWidth
	}
	inner := width - 2*bannerPadding - 2
	if inner < 10 {
		inner = 10
	}
	block := bannerTitleStyle.Width(inner).Render(title) + "\n\n" + bannerBodyStyle.Width(inner).Render(body)
	return bannerStyle.Render(block)
}

func TitleColor() lipgloss.AdaptiveColor {
	return bannerTitleColor
}
