package resource

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agentuity/resource-console/api"
	"github.com/cockroachdb/errors"
)

// Doer sends one JSON request. *api.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, payload any, response any) error
}

var _ Doer = (*api.Client)(nil)

// Client is a typed CRUD client for one resource kind.
type Client[T Record] struct {
	doer Doer
	kind Kind
}

// NewClient returns a client for kind.
func NewClient[T Record](doer Doer, kind Kind) *Client[T] {
	return &Client[T]{doer: doer, kind: kind}
}

// Kind returns the resource kind this client serves.
func (c *Client[T]) Kind() Kind {
	return c.kind
}

// List fetches the collection. A response without the expected envelope
// yields an empty collection.
func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	var envelope map[string]json.RawMessage
	if err := c.doer.Do(ctx, http.MethodGet, c.kind.Path, nil, &envelope); err != nil {
		return nil, err
	}
	items := make([]T, 0)
	raw, ok := envelope[c.kind.Envelope]
	if !ok || len(raw) == 0 || raw[0] != '[' {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, api.NewError(c.kind.Path, http.MethodGet, http.StatusOK, string(raw), api.ErrNetwork, errors.Wrapf(err, "decoding %s", c.kind.Envelope))
	}
	return items, nil
}

// Get fetches one record.
func (c *Client[T]) Get(ctx context.Context, id int) (T, error) {
	var out T
	err := c.doer.Do(ctx, http.MethodGet, c.kind.ItemPath(id), nil, &out)
	return out, err
}

// Create posts payload to the collection and returns the stored record.
func (c *Client[T]) Create(ctx context.Context, payload any) (T, error) {
	var out T
	err := c.doer.Do(ctx, http.MethodPost, c.kind.Path, payload, &out)
	return out, err
}

// Update sends a partial record and returns the updated record.
func (c *Client[T]) Update(ctx context.Context, id int, partial any) (T, error) {
	var out T
	err := c.doer.Do(ctx, http.MethodPut, c.kind.ItemPath(id), partial, &out)
	return out, err
}

// Delete removes a record.
func (c *Client[T]) Delete(ctx context.Context, id int) error {
	return c.doer.Do(ctx, http.MethodDelete, c.kind.ItemPath(id), nil, nil)
}

// Clients bundles one typed client per resource.
type Clients struct {
	Products *Client[Product]
	Recipes  *Client[Recipe]
	Posts    *Client[Post]
	Comments *Client[Comment]
	Todos    *Client[Todo]
}

// NewClients builds every typed client on top of doer.
func NewClients(doer Doer) *Clients {
	return &Clients{
		Products: NewClient[Product](doer, Products),
		Recipes:  NewClient[Recipe](doer, Recipes),
		Posts:    NewClient[Post](doer, Posts),
		Comments: NewClient[Comment](doer, Comments),
		Todos:    NewClient[Todo](doer, Todos),
	}
}
