package resource_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/agentuity/resource-console/api"
	"github.com/agentuity/resource-console/internal/fakeapi"
	"github.com/agentuity/resource-console/logger"
	"github.com/agentuity/resource-console/resource"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClients(t *testing.T) (*resource.Clients, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New()
	c, err := api.New(logger.NewTestLogger(), fake.Start(t))
	require.NoError(t, err)
	return resource.NewClients(c), fake
}

func TestListUnwrapsEnvelope(t *testing.T) {
	clients, fake := newClients(t)
	fake.Seed("todos", resource.Todo{ID: 2, Todo: "b"}, resource.Todo{ID: 1, Todo: "a", Completed: true})

	todos, err := clients.Todos.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []resource.Todo{{ID: 1, Todo: "a", Completed: true}, {ID: 2, Todo: "b"}}, todos)
}

func TestListEmptyCollection(t *testing.T) {
	clients, _ := newClients(t)
	posts, err := clients.Posts.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

type stubDoer struct {
	body string
}

func (s stubDoer) Do(ctx context.Context, method, path string, payload any, response any) error {
	return jsonUnmarshal([]byte(s.body), response)
}

func TestListMissingEnvelopeIsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"recipes":null}`, `{"recipes":{"a":1}}`, `{"other":[1,2]}`} {
		c := resource.NewClient[resource.Recipe](stubDoer{body: body}, resource.Recipes)
		recipes, err := c.List(context.Background())
		require.NoError(t, err, body)
		assert.Empty(t, recipes, body)
	}
}

func TestProductPathIsSingular(t *testing.T) {
	clients, fake := newClients(t)
	fake.Seed("product", resource.Product{ID: 7, Title: "Phone", Price: 9.5})

	p, err := clients.Products.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Phone", p.Title)
	assert.Equal(t, 1, fake.Calls(http.MethodGet, "/product/7"))
}

func TestGetNotFound(t *testing.T) {
	clients, _ := newClients(t)
	_, err := clients.Recipes.Get(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrFetch))
	assert.True(t, errors.Is(err, api.ErrNotFound))
	assert.Contains(t, err.Error(), "Recipe with id '99' not found")
}

func TestCreateAssignsID(t *testing.T) {
	clients, fake := newClients(t)
	fake.Seed("comments", resource.Comment{ID: 10, Body: "first"})

	c, err := clients.Comments.Create(context.Background(), resource.CommentInput{Body: "hi", Username: "ada", FullName: "Ada L"})
	require.NoError(t, err)
	assert.Equal(t, 11, c.ID)
	assert.Equal(t, "hi", c.Body)
	assert.NotNil(t, fake.Record("comments", 11))
}

func TestUpdateIsPartial(t *testing.T) {
	clients, fake := newClients(t)
	fake.Seed("posts", resource.Post{ID: 3, Title: "old", Body: "keep", Views: 4})

	p, err := clients.Posts.Update(context.Background(), 3, resource.PostInput{Title: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", p.Title)
	assert.Equal(t, "keep", p.Body)
	assert.Equal(t, 4, p.Views)
}

func TestUpdateTodoCompletedPointer(t *testing.T) {
	clients, fake := newClients(t)
	fake.Seed("todos", resource.Todo{ID: 1, Todo: "x", Completed: true})

	done := false
	td, err := clients.Todos.Update(context.Background(), 1, resource.TodoInput{Completed: &done})
	require.NoError(t, err)
	assert.False(t, td.Completed)
	assert.Equal(t, "x", td.Todo)
}

func TestDelete(t *testing.T) {
	clients, fake := newClients(t)
	fake.Seed("comments", resource.Comment{ID: 42, Body: "bye"})

	require.NoError(t, clients.Comments.Delete(context.Background(), 42))
	assert.Nil(t, fake.Record("comments", 42))

	err := clients.Comments.Delete(context.Background(), 42)
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestServerErrorIsNetwork(t *testing.T) {
	clients, fake := newClients(t)
	fake.Fail(http.MethodGet, "/todos", http.StatusInternalServerError, 1)

	_, err := clients.Todos.List(context.Background())
	assert.True(t, errors.Is(err, api.ErrFetch))
	assert.True(t, errors.Is(err, api.ErrNetwork))

	_, err = clients.Todos.List(context.Background())
	assert.NoError(t, err)
}
