package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxWidth(t *testing.T) {
	assert.Equal(t, "hello", MaxWidth("hello", 10))
	assert.Equal(t, "hel...", MaxWidth("hello world", 6))
	assert.Equal(t, "he", MaxWidth("hello", 2))
	assert.Equal(t, "hello", MaxWidth("hello", 0))
	assert.Equal(t, "héll...", MaxWidth("héllo wörld", 7))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4, " "))
	assert.Equal(t, "abcd", PadRight("abcd", 2, " "))
}

func TestSkeleton(t *testing.T) {
	assert.Contains(t, Skeleton(3), "░░░")
	assert.Contains(t, Skeleton(0), "░")
}
