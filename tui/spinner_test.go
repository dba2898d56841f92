package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowSpinnerWithoutTTY(t *testing.T) {
	withoutTTY(t)
	ran := false
	assert.NoError(t, ShowSpinner(context.Background(), "loading", func() { ran = true }))
	assert.True(t, ran)
}
