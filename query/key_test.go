package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyStructuralEquality(t *testing.T) {
	assert.True(t, K("todo", 42).Equal(K("todo", "42")))
	assert.True(t, K("todo", int64(42)).Equal(K("todo", uint8(42))))
	assert.True(t, K("todo", 42.0).Equal(K("todo", 42)))
	assert.Equal(t, K("todo", 42).hash(), K("todo", "42").hash())
	assert.False(t, K("todo", 42).Equal(K("todo", 43)))
	assert.False(t, K("todo", "042").Equal(K("todo", 42)))
	assert.False(t, K("todo").Equal(K("todo", 1)))
	assert.False(t, K("todos").Equal(K("todo")))
}

func TestKeyHasPrefix(t *testing.T) {
	assert.True(t, K("postDetail", 3).HasPrefix(K("postDetail")))
	assert.True(t, K("postDetail", 3).HasPrefix(K("postDetail", "3")))
	assert.True(t, K("postDetail", 3).HasPrefix(K()))
	assert.False(t, K("postDetail").HasPrefix(K("postDetail", 3)))
	assert.False(t, K("postList").HasPrefix(K("postDetail")))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "postDetail:3", K("postDetail", "3").String())
	assert.Equal(t, "comments", K("comments").String())
	assert.Equal(t, "", K().String())
}
