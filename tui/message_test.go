package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessagesWriteToWriter(t *testing.T) {
	var buf bytes.Buffer
	ShowSuccess(&buf, "saved %d", 3)
	ShowError(&buf, "failed: %s", "boom")
	ShowInfo(&buf, "note")
	ShowWarning(&buf, "careful")
	out := buf.String()
	assert.Contains(t, out, "saved 3")
	assert.Contains(t, out, "failed: boom")
	assert.Contains(t, out, "note")
	assert.Contains(t, out, "careful")
}
