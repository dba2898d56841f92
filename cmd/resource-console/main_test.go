package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentuity/resource-console/api"
	"github.com/agentuity/resource-console/config"
	"github.com/agentuity/resource-console/internal/fakeapi"
	"github.com/agentuity/resource-console/logger"
	"github.com/agentuity/resource-console/query"
	"github.com/agentuity/resource-console/resource"
	"github.com/agentuity/resource-console/tui"
	"github.com/agentuity/resource-console/view"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	api *fakeapi.Server
	url string
	dir string
}

func newCLI(t *testing.T) *cli {
	srv := fakeapi.New()
	srv.Seed("product",
		resource.Product{ID: 1, Title: "Cheap", Price: 5},
		resource.Product{ID: 2, Title: "Dear", Price: 50},
	)
	srv.Seed("posts", resource.Post{ID: 3, Title: "Hello", Body: "old body"})
	srv.Seed("comments", resource.Comment{ID: 42, Body: "hi", User: resource.CommentUser{Username: "bo", FullName: "Bo Park"}})
	srv.Seed("todos", resource.Todo{ID: 1, Todo: "write tests"}, resource.Todo{ID: 2, Todo: "ship"})
	return &cli{api: srv, url: srv.Start(t), dir: t.TempDir()}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := newRootCommand(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(append([]string{
		"--config", filepath.Join(c.dir, "config.jsonc"),
		"--env-file", filepath.Join(c.dir, ".env"),
		"--base-url", c.url,
		"--log-level", "off",
	}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListJSON(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "todo", "list", "-o", "json")
	require.NoError(t, err)
	var todos []resource.Todo
	require.NoError(t, json.Unmarshal([]byte(out), &todos))
	assert.Equal(t, []resource.Todo{{ID: 1, Todo: "write tests"}, {ID: 2, Todo: "ship"}}, todos)
}

func TestListWhereYAML(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "products", "list", "--where", "price > 10", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Dear")
	assert.NotContains(t, out, "Cheap")
}

func TestListTable(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "post", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "old body")
}

func TestListBadInput(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "todo", "list", "-o", "xml")
	assert.True(t, errors.Is(err, errBadOutput))

	_, err = c.run("", "todo", "list", "--where", "todo ==")
	assert.Error(t, err)
}

func TestGetNotFound(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "post", "get", "99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, view.ErrReported))
	assert.True(t, errors.Is(err, api.ErrNotFound))
	assert.Contains(t, out, "Post not found.")

	_, err = c.run("", "post", "get", "abc")
	assert.True(t, errors.Is(err, resource.ErrInvalidID))
}

func TestDeleteComment(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "comment", "delete", "42", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Comment deleted successfully!")
	assert.Contains(t, out, "No comments available.")
	assert.Nil(t, c.api.Record("comments", 42))
}

func TestDeleteDeclined(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("n\n", "comment", "delete", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this comment?")
	assert.NotNil(t, c.api.Record("comments", 42))
}

func TestCreateTodo(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "todo", "create", "--field", "todo=buy milk")
	require.NoError(t, err)
	assert.Regexp(t, `│\s*3\s*│\s*buy milk\s*│`, out, "the printed list holds the server record")
	assert.NotContains(t, out, "saving")
	rec := c.api.Record("todos", 3)
	require.NotNil(t, rec)
	assert.Equal(t, "buy milk", rec["todo"])
	assert.Equal(t, false, rec["completed"])
}

func TestCreateTodoEmpty(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "todo", "create", "--field", "todo=")
	require.Error(t, err)
	assert.True(t, errors.Is(err, view.ErrReported))
	assert.Contains(t, out, "Todo cannot be empty!")
	assert.Equal(t, 0, c.api.Calls(http.MethodPost, "/todos"))
}

func TestCreatePrompts(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("Second post\nSome text\n", "post", "create")
	require.NoError(t, err)
	rec := c.api.Record("posts", 4)
	require.NotNil(t, rec)
	assert.Equal(t, "Second post", rec["title"])
	assert.Equal(t, "Some text", rec["body"])
}

func TestUpdatePost(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "post", "update", "3", "--field", "body=new body")
	require.NoError(t, err)
	assert.Contains(t, out, "new body")
	assert.Equal(t, "new body", c.api.Record("posts", 3)["body"])
}

func TestUpdatePostFailure(t *testing.T) {
	c := newCLI(t)
	c.api.Fail(http.MethodPut, "/posts/3", http.StatusInternalServerError, 1)
	out, err := c.run("", "post", "update", "3", "--field", "body=new body")
	require.Error(t, err)
	assert.True(t, errors.Is(err, view.ErrReported))
	assert.Contains(t, out, "Failed to update post.")
	assert.Equal(t, "old body", c.api.Record("posts", 3)["body"])
}

func TestUpdateProductConfirms(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("n\n", "product", "update", "1", "--field", "price=7")
	require.NoError(t, err)
	assert.Equal(t, float64(5), c.api.Record("product", 1)["price"])

	out, err := c.run("", "product", "update", "1", "--field", "price=7", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Product updated successfully!")
	assert.Equal(t, float64(7), c.api.Record("product", 1)["price"])
}

func TestToggleTodo(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "todo", "toggle", "2")
	require.NoError(t, err)
	assert.Equal(t, true, c.api.Record("todos", 2)["completed"])
}

func TestOpen(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "open", "/nowhere")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing lives at /nowhere.")

	out, err = c.run("", "open", "/todos/1", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"todo": "write tests"`)
}

func TestPrefetch(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "prefetch")
	require.NoError(t, err)
	for _, title := range []string{"Products", "Recipes", "Posts", "Comments", "Todos"} {
		assert.Contains(t, out, title)
	}
	assert.Equal(t, 1, c.api.Calls(http.MethodGet, "/todos"))
}

func TestPrefetchCollectsFailures(t *testing.T) {
	c := newCLI(t)
	c.api.Fail(http.MethodGet, "/recipes", http.StatusInternalServerError, 1)
	out, err := c.run("", "prefetch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefetching Recipes")
	assert.Contains(t, out, "error")
	assert.Equal(t, 1, c.api.Calls(http.MethodGet, "/todos"))
}

func TestConfigInit(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "config.jsonc")

	cfg, err := config.Load(config.Options{ConfigFile: filepath.Join(c.dir, "config.jsonc"), EnvFile: filepath.Join(c.dir, ".env")})
	require.NoError(t, err)
	assert.Equal(t, c.url, cfg.BaseURL)

	_, err = c.run("", "config", "init")
	assert.True(t, errors.Is(err, config.ErrConfigExists))
	_, err = c.run("", "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigFileIsRead(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// trailing commas and comments are fine
		"base_url": "`+c.url+`",
		"retry": 2,
	}`), 0o600))
	var out, errOut bytes.Buffer
	root := newRootCommand(strings.NewReader(""), &out, &errOut)
	root.SetArgs([]string{"--config", path, "--env-file", filepath.Join(c.dir, ".env"), "--log-level", "off", "todo", "list", "-o", "json"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "write tests")
}

// lines feeds the shell a fixed script.
type lines struct {
	script  []string
	history []string
}

func (l *lines) Prompt(string) (string, error) {
	if len(l.script) == 0 {
		return "", io.EOF
	}
	line := l.script[0]
	l.script = l.script[1:]
	return line, nil
}

func (l *lines) AppendHistory(item string) {
	l.history = append(l.history, item)
}

func newShell(t *testing.T, c *cli) (*shell, *bytes.Buffer) {
	log := logger.NewTestLogger()
	client, err := api.New(log, c.url)
	require.NoError(t, err)
	store := query.New(context.Background(), query.WithLogger(log))
	t.Cleanup(func() { store.Close() })
	var out bytes.Buffer
	app := view.New(store, resource.NewClients(client), tui.NewLinePrompter(strings.NewReader(""), &out, true), log, view.WithWidth(100))
	t.Cleanup(app.Close)
	return &shell{app: app, out: &out}, &out
}

func TestShell(t *testing.T) {
	c := newCLI(t)
	sh, out := newShell(t, c)
	in := &lines{script: []string{"/todos", "open 1", "toggle", "back", "history", "bogus", "stats", "clear", "quit", "/never"}}
	require.NoError(t, sh.run(context.Background(), in, "/"))

	assert.Equal(t, []string{"/", "/todos"}, sh.app.Navigator().History())
	assert.Equal(t, true, c.api.Record("todos", 1)["completed"])
	assert.Contains(t, out.String(), `Unknown command "bogus"`)
	assert.Contains(t, out.String(), "Invalidations")
	assert.Equal(t, []string{"/never"}, in.script, "quit stops reading")
	assert.Len(t, in.history, 9)
}

func TestShellEOF(t *testing.T) {
	c := newCLI(t)
	sh, _ := newShell(t, c)
	require.NoError(t, sh.run(context.Background(), &lines{}, "/posts"))
	_, path := sh.app.Page()
	assert.Equal(t, "/posts", path)
}

func TestShellComplete(t *testing.T) {
	c := newCLI(t)
	sh, _ := newShell(t, c)
	_, err := sh.app.Open(context.Background(), "/todos")
	require.NoError(t, err)
	assert.Equal(t, []string{"/todos"}, sh.complete("/to"))
	assert.Contains(t, sh.complete("cr"), "create")
	assert.Equal(t, []string{"refresh", "render"}, sh.complete("re"))
}
