package view

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFields = []Field{
	{Name: "title", Label: "Title", Required: true},
	{Name: "body", Label: "Body"},
}

func TestParseAssignments(t *testing.T) {
	v, err := ParseAssignments([]string{"title=Hello", "body=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, Values{"title": "Hello", "body": "a=b", "empty": ""}, v)

	_, err = ParseAssignments([]string{"title"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = ParseAssignments([]string{"=x"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestFormSeedsOnce(t *testing.T) {
	f := NewForm(testFields)
	assert.False(t, f.Seeded())
	assert.True(t, f.Seed(Values{"title": "server", "body": "text"}))
	require.NoError(t, f.Set(Values{"body": "typed"}))
	assert.False(t, f.Seed(Values{"title": "refetched", "body": "refetched"}))
	assert.Equal(t, Values{"title": "server", "body": "typed"}, f.Values())
}

func TestFormSetBeforeSeedWins(t *testing.T) {
	f := NewForm(testFields)
	require.NoError(t, f.Set(Values{"Title": "mine"}))
	f.Seed(Values{"title": "server", "body": "text"})
	assert.Equal(t, Values{"title": "mine", "body": "text"}, f.Values())
}

func TestFormSetUnknownField(t *testing.T) {
	f := NewForm(testFields)
	err := f.Set(Values{"title": "ok", "nope": "x"})
	assert.True(t, errors.Is(err, ErrUnknownField))
	assert.Empty(t, f.Values(), "nothing assigned")
}

func TestFormValidate(t *testing.T) {
	f := NewForm(testFields)
	err := f.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "Title required", err.Error())
	require.NoError(t, f.Set(Values{"title": "x"}))
	assert.NoError(t, f.Validate())
}

func TestFormPrompt(t *testing.T) {
	f := NewForm(testFields)
	f.Seed(Values{"title": "old", "body": "keep"})
	p := &recorder{inputs: map[string]string{"Title": "new"}}
	require.NoError(t, f.Prompt(context.Background(), p))
	assert.Equal(t, Values{"title": "new", "body": "keep"}, f.Values())
}

func TestFormRender(t *testing.T) {
	f := NewForm(testFields)
	f.Seed(Values{"title": "Hello", "body": "World"})
	f.SetError("Failed to update post.")
	var buf bytes.Buffer
	f.Render(&buf, 40)
	out := buf.String()
	assert.Contains(t, out, "Title *")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "World")
	assert.Contains(t, out, "Failed to update post.")
}
