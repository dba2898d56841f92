package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agentuity/resource-console/api"
	"github.com/agentuity/resource-console/query"
	"github.com/agentuity/resource-console/resource"
	"github.com/agentuity/resource-console/sys"
	"github.com/agentuity/resource-console/tui"
	"github.com/cockroachdb/errors"
)

// Messages are the texts a resource shows. Empty confirmation or success
// texts skip that dialog; empty failure texts fall back to a generic one.
type Messages struct {
	Empty         string
	LoadFailure   string
	NotFound      string
	CreateSuccess string
	CreateFailure string
	ConfirmUpdate string
	UpdateSuccess string
	UpdateFailure string
	ConfirmDelete string
	DeleteSuccess string
	DeleteFailure string
}

// Resource wires one resource kind to its list, detail and edit pages.
type Resource[T resource.Record] struct {
	Kind resource.Kind
	// Plural is the section title.
	Plural    string
	Client    func(*resource.Clients) *resource.Client[T]
	ListKey   query.Key
	DetailKey func(id int) query.Key

	Columns []string
	Row     func(T) []string
	Heading func(T) string
	Detail  func(T) [][2]string

	CreateFields  []Field
	CreatePayload func(Values) (any, error)
	// Optimistic builds the record shown at the top of the list while a
	// create is in flight. Nil means the list waits for the server.
	Optimistic func(localID int, v Values) T

	EditFields    []Field
	FormValues    func(T) Values
	UpdatePayload func(Values) (any, error)
	// Toggle returns the record with its state flipped and the update
	// payload that does the same on the server.
	Toggle func(T) (T, any)

	ReplaceOnDelete bool
	Messages        Messages
}

// Section is a resource registered on the router.
type Section interface {
	ResourceKind() resource.Kind
	SectionTitle() string
	// SectionKey is the cache key of the section's collection.
	SectionKey() query.Key
	// Prefetch loads the collection into the store.
	Prefetch(ctx context.Context, a *App) error
	routes(r *Router)
}

func (r *Resource[T]) ResourceKind() resource.Kind { return r.Kind }
func (r *Resource[T]) SectionTitle() string        { return r.Plural }
func (r *Resource[T]) SectionKey() query.Key       { return r.ListKey }

func (r *Resource[T]) Prefetch(ctx context.Context, a *App) error {
	_, err := query.Fetch(ctx, a.store, r.ListKey, r.lister(a))
	return err
}

func (r *Resource[T]) routes(router *Router) {
	base := r.Kind.Route()
	router.Handle(base, func(a *App, _ string, _ Params) (Page, error) {
		return &listPage[T]{app: a, res: r}, nil
	})
	router.Handle(base+"/edit/:id", func(a *App, _ string, params Params) (Page, error) {
		id, err := resource.ParseID(params["id"])
		if err != nil {
			return nil, err
		}
		return &editPage[T]{app: a, res: r, id: id, form: NewForm(r.EditFields)}, nil
	})
	router.Handle(base+"/:id", func(a *App, _ string, params Params) (Page, error) {
		id, err := resource.ParseID(params["id"])
		if err != nil {
			return nil, err
		}
		return &detailPage[T]{app: a, res: r, id: id}, nil
	})
}

func (r *Resource[T]) client(a *App) *resource.Client[T] {
	return r.Client(a.clients)
}

func (r *Resource[T]) lister(a *App) func(context.Context) ([]T, error) {
	client := r.client(a)
	return client.List
}

func (r *Resource[T]) itemRoute(id int) string {
	return r.Kind.ItemPath(id)
}

func (r *Resource[T]) name() string {
	return capitalize(r.Kind.Name)
}

func (r *Resource[T]) failure(msg, verb string) string {
	if msg != "" {
		return msg
	}
	return fmt.Sprintf("Failed to %s %s.", verb, r.Kind.Name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type listPage[T resource.Record] struct {
	app         *App
	res         *Resource[T]
	unsubscribe func()
}

func (p *listPage[T]) Title() string     { return p.res.Plural }
func (p *listPage[T]) Keys() []query.Key { return []query.Key{p.res.ListKey} }

func (p *listPage[T]) Load(ctx context.Context) error {
	if p.unsubscribe == nil {
		p.unsubscribe = p.app.store.Subscribe(p.res.ListKey, p.app.changed)
	}
	_, err := query.Fetch(ctx, p.app.store, p.res.ListKey, p.res.lister(p.app))
	return err
}

func (p *listPage[T]) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *listPage[T]) items() ([]T, error) {
	items, ok := query.Get[[]T](p.app.store, p.res.ListKey)
	if !ok {
		return nil, nil
	}
	return keep(p.app, items)
}

func (p *listPage[T]) Data() (any, error) {
	items, err := p.items()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (p *listPage[T]) Render(w io.Writer) {
	heading(w, p.res.Plural)
	e, _ := p.app.store.Peek(p.res.ListKey)
	if renderState(w, e, p.app.width, p.res.failure(p.res.Messages.LoadFailure, "load")) {
		return
	}
	items, err := p.items()
	switch {
	case err != nil:
		tui.ShowError(w, "%s", err)
	case len(items) == 0:
		fmt.Fprintln(w, tui.Muted(p.res.Messages.Empty))
	default:
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			row := p.res.Row(item)
			if item.RecordID() < 0 {
				row[0] = tui.Muted("saving")
			}
			rows = append(rows, row)
		}
		tui.Table(w, p.res.Columns, rows, p.app.maxCell())
	}
	actionHelp(w, p.Actions())
}

func (p *listPage[T]) Actions() []Action {
	return []Action{
		{Name: "open", Usage: "<id>", Help: "show one " + p.res.Kind.Name, Run: p.open},
		{Name: "create", Usage: "[field=value...]", Help: "add a " + p.res.Kind.Name, Run: p.create},
	}
}

func (p *listPage[T]) open(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.Mark(errors.New("open takes one id"), ErrInvalidInput)
	}
	id, err := resource.ParseID(args[0])
	if err != nil {
		return err
	}
	p.app.nav.Push(p.res.itemRoute(id))
	return nil
}

func (p *listPage[T]) create(ctx context.Context, args []string) error {
	values, err := ParseAssignments(args)
	if err != nil {
		return err
	}
	form := NewForm(p.res.CreateFields)
	if err := form.Set(values); err != nil {
		return err
	}
	if len(args) == 0 {
		if err := form.Prompt(ctx, p.app.prompter); err != nil {
			return err
		}
	}
	h, err := p.Create(ctx, form.Values())
	if err != nil {
		return p.app.report(ctx, err.Error(), err)
	}
	res, err := h.Wait(ctx)
	if err != nil {
		return err
	}
	if res.Outcome == query.RolledBack {
		return p.app.report(ctx, p.res.failure(p.res.Messages.CreateFailure, "create"), res.Err)
	}
	// Wait for the refetch started on settle so the server record replaces
	// any local one. A failed refetch shows on the list itself.
	if _, err := p.app.store.Await(ctx, p.res.ListKey); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if msg := p.res.Messages.CreateSuccess; msg != "" {
		return p.app.prompter.Alert(ctx, msg)
	}
	return nil
}

// Create validates values and starts the create mutation. For optimistic
// resources the local record is already in the list when Create returns.
func (p *listPage[T]) Create(ctx context.Context, values Values) (*query.Handle[T], error) {
	if err := validate(p.res.CreateFields, values); err != nil {
		return nil, err
	}
	payload, err := p.res.CreatePayload(values)
	if err != nil {
		return nil, err
	}
	client := p.res.client(p.app)
	key := p.res.ListKey
	m := query.Mutation[any, T]{
		Name: "create-" + p.res.Kind.Name,
		Fn: func(ctx context.Context, payload any) (T, error) {
			return client.Create(ctx, payload)
		},
		OnSettled: func(sys.Result[T], any) {
			p.app.store.Invalidate(key)
		},
	}
	if p.res.Optimistic != nil {
		local := p.res.Optimistic(p.app.nextLocalID(), values)
		m.OnBeforeMutate = func(s *query.Store, _ any) query.Snapshot {
			s.Cancel(key)
			snap := s.Snapshot(key)
			query.Update(s, key, func(old []T, _ bool) []T {
				return append([]T{local}, old...)
			})
			snap.Optimistic = local
			return snap
		}
	}
	return query.Start(ctx, p.app.store, m, payload), nil
}

type detailPage[T resource.Record] struct {
	app         *App
	res         *Resource[T]
	id          int
	unsubscribe func()
}

func (p *detailPage[T]) key() query.Key { return p.res.DetailKey(p.id) }

func (p *detailPage[T]) Title() string {
	return fmt.Sprintf("%s #%d", p.res.name(), p.id)
}

func (p *detailPage[T]) Keys() []query.Key { return []query.Key{p.key()} }

func (p *detailPage[T]) fetch(ctx context.Context) (T, error) {
	return p.res.client(p.app).Get(ctx, p.id)
}

func (p *detailPage[T]) Load(ctx context.Context) error {
	if p.unsubscribe == nil {
		p.unsubscribe = p.app.store.Subscribe(p.key(), p.app.changed)
	}
	_, err := query.Fetch(ctx, p.app.store, p.key(), p.fetch)
	return err
}

func (p *detailPage[T]) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *detailPage[T]) Data() (any, error) {
	e, _ := p.app.store.Peek(p.key())
	if !e.HasData && e.Err != nil {
		return nil, e.Err
	}
	return query.As[T](e)
}

func (p *detailPage[T]) Render(w io.Writer) {
	e, _ := p.app.store.Peek(p.key())
	failure := p.res.failure(p.res.Messages.LoadFailure, "load")
	if errors.Is(e.Err, api.ErrNotFound) {
		failure = p.res.failure(p.res.Messages.NotFound, "find")
	}
	if !e.HasData {
		heading(w, p.Title())
		renderState(w, e, p.app.width, failure)
		return
	}
	item, err := query.As[T](e)
	if err != nil {
		tui.ShowError(w, "%s", err)
		return
	}
	heading(w, p.res.Heading(item))
	renderState(w, e, p.app.width, failure)
	tui.KeyValues(w, p.res.Detail(item), p.app.maxCell()*2)
	actionHelp(w, p.Actions())
}

func (p *detailPage[T]) Actions() []Action {
	actions := []Action{
		{Name: "edit", Help: "edit this " + p.res.Kind.Name, Run: p.edit},
		{Name: "delete", Help: "delete this " + p.res.Kind.Name, Run: p.delete},
	}
	if p.res.Toggle != nil {
		actions = append(actions, Action{Name: "toggle", Help: "flip the completed state", Run: p.toggle})
	}
	return actions
}

func (p *detailPage[T]) edit(context.Context, []string) error {
	p.app.nav.Push(p.res.Kind.Route() + "/edit/" + itoa(p.id))
	return nil
}

// delete navigates to the list only once the request has succeeded.
func (p *detailPage[T]) delete(ctx context.Context, _ []string) error {
	msgs := p.res.Messages
	if msgs.ConfirmDelete != "" {
		ok, err := p.app.prompter.Confirm(ctx, msgs.ConfirmDelete)
		if err != nil || !ok {
			return err
		}
	}
	client := p.res.client(p.app)
	store := p.app.store
	res := query.Mutate(ctx, store, query.Mutation[int, struct{}]{
		Name: "delete-" + p.res.Kind.Name,
		Fn: func(ctx context.Context, id int) (struct{}, error) {
			return struct{}{}, client.Delete(ctx, id)
		},
		OnSuccess: func(struct{}, int) {
			store.Invalidate(p.res.ListKey)
		},
	}, p.id)
	if res.Outcome == query.RolledBack {
		return p.app.report(ctx, p.res.failure(msgs.DeleteFailure, "delete"), res.Err)
	}
	p.Close()
	store.Remove(p.key())
	if msgs.DeleteSuccess != "" {
		if err := p.app.prompter.Alert(ctx, msgs.DeleteSuccess); err != nil {
			return err
		}
	}
	if p.res.ReplaceOnDelete {
		p.app.nav.Replace(p.res.Kind.Route())
	} else {
		p.app.nav.Push(p.res.Kind.Route())
	}
	return nil
}

// toggle writes the flipped record into the detail entry before the request
// and restores it when the request fails.
func (p *detailPage[T]) toggle(ctx context.Context, _ []string) error {
	item, ok := query.Get[T](p.app.store, p.key())
	if !ok {
		return errors.Wrapf(query.ErrNoData, "%s", p.key())
	}
	flipped, payload := p.res.Toggle(item)
	client := p.res.client(p.app)
	key := p.key()
	res := query.Mutate(ctx, p.app.store, query.Mutation[any, T]{
		Name: "toggle-" + p.res.Kind.Name,
		Fn: func(ctx context.Context, payload any) (T, error) {
			return client.Update(ctx, p.id, payload)
		},
		OnBeforeMutate: func(s *query.Store, _ any) query.Snapshot {
			s.Cancel(key)
			snap := s.Snapshot(key)
			s.SetData(key, func(any) any { return flipped })
			snap.Optimistic = flipped
			return snap
		},
		OnSuccess: func(updated T, _ any) {
			p.app.store.SetData(key, func(any) any { return updated })
		},
		OnSettled: func(sys.Result[T], any) {
			p.app.store.Invalidate(p.res.ListKey)
		},
	}, payload)
	if res.Outcome == query.RolledBack {
		return p.app.report(ctx, p.res.failure(p.res.Messages.UpdateFailure, "update"), res.Err)
	}
	return nil
}

type editPage[T resource.Record] struct {
	app         *App
	res         *Resource[T]
	id          int
	form        *Form
	unsubscribe func()
}

func (p *editPage[T]) key() query.Key { return p.res.DetailKey(p.id) }

func (p *editPage[T]) Title() string {
	return fmt.Sprintf("Edit %s #%d", p.res.Kind.Name, p.id)
}

func (p *editPage[T]) Keys() []query.Key { return []query.Key{p.key()} }

// Form returns the page's editable state.
func (p *editPage[T]) Form() *Form { return p.form }

func (p *editPage[T]) seed(e query.Entry) {
	if e.Status != query.StatusSuccess || !e.HasData {
		return
	}
	if item, err := query.As[T](e); err == nil {
		p.form.Seed(p.res.FormValues(item))
	}
}

func (p *editPage[T]) Load(ctx context.Context) error {
	if p.unsubscribe == nil {
		p.unsubscribe = p.app.store.Subscribe(p.key(), func(ev query.Event) {
			p.seed(ev.Entry)
			p.app.changed(ev)
		})
	}
	client := p.res.client(p.app)
	item, err := query.Fetch(ctx, p.app.store, p.key(), func(ctx context.Context) (T, error) {
		return client.Get(ctx, p.id)
	})
	if err != nil {
		return err
	}
	p.form.Seed(p.res.FormValues(item))
	return nil
}

func (p *editPage[T]) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *editPage[T]) Data() (any, error) {
	return p.form.Values(), nil
}

func (p *editPage[T]) Render(w io.Writer) {
	heading(w, p.Title())
	if !p.form.Seeded() {
		e, _ := p.app.store.Peek(p.key())
		failure := p.res.failure(p.res.Messages.LoadFailure, "load")
		if errors.Is(e.Err, api.ErrNotFound) {
			failure = p.res.failure(p.res.Messages.NotFound, "find")
		}
		renderState(w, e, p.app.width, failure)
		return
	}
	p.form.Render(w, p.app.maxCell()*2)
	actionHelp(w, p.Actions())
}

func (p *editPage[T]) Actions() []Action {
	return []Action{
		{Name: "set", Usage: "field=value...", Help: "change form values", Run: p.set},
		{Name: "edit", Help: "fill in the form interactively", Run: p.prompt},
		{Name: "save", Help: "send the changes", Run: p.save},
		{Name: "cancel", Help: "go back to the " + p.res.Kind.Name, Run: p.cancel},
	}
}

func (p *editPage[T]) set(_ context.Context, args []string) error {
	values, err := ParseAssignments(args)
	if err != nil {
		return err
	}
	return p.form.Set(values)
}

func (p *editPage[T]) prompt(ctx context.Context, _ []string) error {
	return p.form.Prompt(ctx, p.app.prompter)
}

func (p *editPage[T]) cancel(context.Context, []string) error {
	p.app.nav.Push(p.res.itemRoute(p.id))
	return nil
}

// save leaves the form untouched and stays on the page when the update
// fails.
func (p *editPage[T]) save(ctx context.Context, _ []string) error {
	msgs := p.res.Messages
	values := p.form.Values()
	payload, err := p.payload(values)
	if err != nil {
		p.form.SetError(err.Error())
		return p.app.report(ctx, err.Error(), err)
	}
	if msgs.ConfirmUpdate != "" {
		ok, err := p.app.prompter.Confirm(ctx, msgs.ConfirmUpdate)
		if err != nil || !ok {
			return err
		}
	}
	client := p.res.client(p.app)
	store := p.app.store
	key := p.key()
	res := query.Mutate(ctx, store, query.Mutation[any, T]{
		Name: "update-" + p.res.Kind.Name,
		Fn: func(ctx context.Context, payload any) (T, error) {
			return client.Update(ctx, p.id, payload)
		},
		OnSuccess: func(updated T, _ any) {
			store.SetData(key, func(any) any { return updated })
			store.Invalidate(p.res.ListKey)
		},
	}, payload)
	if res.Outcome == query.RolledBack {
		msg := p.res.failure(msgs.UpdateFailure, "update")
		p.form.SetError(msg)
		return p.app.report(ctx, msg, res.Err)
	}
	p.form.SetError("")
	if msgs.UpdateSuccess != "" {
		if err := p.app.prompter.Alert(ctx, msgs.UpdateSuccess); err != nil {
			return err
		}
	}
	p.app.nav.Push(p.res.itemRoute(p.id))
	return nil
}

func (p *editPage[T]) payload(values Values) (any, error) {
	if err := validate(p.res.EditFields, values); err != nil {
		return nil, err
	}
	return p.res.UpdatePayload(values)
}
