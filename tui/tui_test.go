package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withoutTTY(t *testing.T) {
	t.Helper()
	saved := HasTTY
	HasTTY = false
	t.Cleanup(func() { HasTTY = saved })
}

func TestWidthWithoutTTY(t *testing.T) {
	withoutTTY(t)
	assert.Equal(t, DefaultWidth, Width())
}

func TestClearScreenWithoutTTY(t *testing.T) {
	withoutTTY(t)
	assert.NotPanics(t, ClearScreen)
}
