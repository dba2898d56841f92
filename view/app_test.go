package view

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agentuity/resource-console/query"
	"github.com/agentuity/resource-console/resource"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeListsSections(t *testing.T) {
	h := newHarness(t)
	h.open(t, "/")
	out := h.render()
	for _, title := range []string{"Products", "Recipes", "Posts", "Comments", "Todos"} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "/product")
	assert.Len(t, h.app.Sections(), 5)
}

func TestHomeGo(t *testing.T) {
	h := newHarness(t)
	h.open(t, "/home")
	ctx := context.Background()
	require.NoError(t, h.app.Do(ctx, "go", []string{"recipe"}))
	assert.Equal(t, "/recipes", h.app.Navigator().Current())
	_, path := h.app.Page()
	assert.Equal(t, "/recipes", path)

	_, err := h.app.Back(ctx)
	require.NoError(t, err)
	err = h.app.Do(ctx, "go", []string{"widgets"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestHomeMenu(t *testing.T) {
	h := newHarness(t)
	h.prompter.choice = "/todos"
	h.open(t, "/")
	require.NoError(t, h.app.Do(context.Background(), "menu", nil))
	assert.Equal(t, "/todos", h.app.Navigator().Current())
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)
	page := h.open(t, "/nowhere")
	assert.IsType(t, &errorPage{}, page)
	assert.Contains(t, h.render(), "Nothing lives at /nowhere.")

	require.NoError(t, h.app.Do(context.Background(), "home", nil))
	assert.Equal(t, "/", h.app.Navigator().Current())
}

func TestBadIDShowsErrorPage(t *testing.T) {
	h := newHarness(t)
	page := h.open(t, "/posts/abc")
	assert.IsType(t, &errorPage{}, page)
	assert.Contains(t, h.render(), "invalid id")
}

func TestUnknownAction(t *testing.T) {
	h := newHarness(t)
	h.open(t, "/")
	err := h.app.Do(context.Background(), "explode", nil)
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestDoShowsCurrentPageFirst(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.app.Do(context.Background(), "go", []string{"posts"}))
	assert.Equal(t, "/posts", h.app.Navigator().Current())
}

func TestLoaderAndChangeHook(t *testing.T) {
	var loads []string
	var events atomic.Int32
	h := newHarness(t,
		WithLoader(func(ctx context.Context, title string, load func(context.Context) error) error {
			loads = append(loads, title)
			return load(ctx)
		}),
		WithChangeHook(func(query.Event) { events.Add(1) }),
	)
	h.api.Seed("todos", resource.Todo{ID: 1, Todo: "a"})
	h.open(t, "/todos")
	assert.Equal(t, []string{"Todos"}, loads)
	assert.Eventually(t, func() bool { return events.Load() > 0 }, time.Second, 10*time.Millisecond)
}

func TestClosingPageStopsRefetch(t *testing.T) {
	h := newHarness(t)
	h.api.Seed("todos", resource.Todo{ID: 1, Todo: "a"})
	h.open(t, "/todos")
	h.open(t, "/")
	h.app.Store().Invalidate(query.K("todos"))
	e, ok := h.app.Store().Peek(query.K("todos"))
	require.True(t, ok)
	assert.False(t, e.Fetching, "unobserved entry is only marked stale")
	assert.True(t, e.Stale)
}
