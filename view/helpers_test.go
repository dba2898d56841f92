package view

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agentuity/resource-console/api"
	"github.com/agentuity/resource-console/internal/fakeapi"
	"github.com/agentuity/resource-console/logger"
	"github.com/agentuity/resource-console/query"
	"github.com/agentuity/resource-console/resource"
	"github.com/agentuity/resource-console/tui"
	"github.com/stretchr/testify/require"
)

// recorder is a Prompter that answers from fields and remembers what it was
// asked.
type recorder struct {
	mu       sync.Mutex
	decline  bool
	inputs   map[string]string
	choice   string
	confirms []string
	alerts   []string
}

func (r *recorder) Confirm(_ context.Context, message string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirms = append(r.confirms, message)
	return !r.decline, nil
}

func (r *recorder) Alert(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
	return nil
}

func (r *recorder) Input(_ context.Context, label string, value string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.inputs[label]; ok {
		return v, nil
	}
	return value, nil
}

func (r *recorder) Choose(_ context.Context, _ string, items []tui.Option) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.choice != "" {
		return r.choice, nil
	}
	return items[0].ID, nil
}

func (r *recorder) Confirms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.confirms...)
}

func (r *recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

type harness struct {
	app      *App
	api      *fakeapi.Server
	prompter *recorder
	log      *logger.TestLogger
}

func newHarness(t *testing.T, opts ...AppOption) *harness {
	t.Helper()
	srv := fakeapi.New()
	url := srv.Start(t)
	log := logger.NewTestLogger()
	client, err := api.New(log, url)
	require.NoError(t, err)
	store := query.New(context.Background(), query.WithLogger(log))
	t.Cleanup(func() { store.Close() })
	p := &recorder{}
	a := New(store, resource.NewClients(client), p, log, append([]AppOption{WithWidth(100)}, opts...)...)
	t.Cleanup(a.Close)
	return &harness{app: a, api: srv, prompter: p, log: log}
}

func (h *harness) open(t *testing.T, path string) Page {
	t.Helper()
	page, err := h.app.Open(context.Background(), path)
	require.NoError(t, err)
	return page
}

func (h *harness) render() string {
	var buf bytes.Buffer
	h.app.Render(&buf)
	return buf.String()
}

// doAsync runs an action in the background and returns its result channel.
func (h *harness) doAsync(name string, args ...string) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- h.app.Do(context.Background(), name, args)
	}()
	return done
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func ids[T resource.Record](items []T) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.RecordID()
	}
	return out
}
