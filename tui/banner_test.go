package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTitleColor(t *testing.T) {
	color := TitleColor()
	assert.IsType(t, lipgloss.AdaptiveColor{}, color)
	assert.Equal(t, bannerTitleColor, color)
}

func TestBanner(t *testing.T) {
	out := Banner("Resources", "Pick a section", 40)
	assert.Contains(t, out, "Resources")
	assert.Contains(t, out, "Pick a section")
	assert.LessOrEqual(t, lipgloss.Width(out), 40)
}
