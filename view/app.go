package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/agentuity/resource-console/internal/filter"
	"github.com/agentuity/resource-console/logger"
	"github.com/agentuity/resource-console/query"
	"github.com/agentuity/resource-console/resource"
	"github.com/agentuity/resource-console/tui"
	"github.com/cockroachdb/errors"
)

var (
	// ErrReported marks errors the user has already been shown.
	ErrReported = errors.New("reported")
	// ErrUnknownAction is returned by Do for a name the page does not offer.
	ErrUnknownAction = errors.New("unknown action")
)

// Loader runs a page load, for example behind a spinner.
type Loader func(ctx context.Context, title string, load func(ctx context.Context) error) error

// App owns the navigator and the current page.
type App struct {
	store    *query.Store
	clients  *resource.Clients
	prompter Prompter
	logger   logger.Logger
	router   *Router
	nav      *Navigator
	sections []Section
	width    int
	filter   *filter.Filter
	loader   Loader
	onChange func(query.Event)
	localID  atomic.Int64

	mu   sync.Mutex
	page Page
	path string
}

// AppOption configures an App.
type AppOption func(*App)

// WithWidth sets the render width.
func WithWidth(width int) AppOption {
	return func(a *App) {
		if width > 0 {
			a.width = width
		}
	}
}

// WithFilter keeps only the list rows f matches.
func WithFilter(f *filter.Filter) AppOption {
	return func(a *App) {
		a.filter = f
	}
}

// WithLoader wraps every page load.
func WithLoader(l Loader) AppOption {
	return func(a *App) {
		a.loader = l
	}
}

// WithChangeHook is called for every transition of a key a page shows.
func WithChangeHook(fn func(query.Event)) AppOption {
	return func(a *App) {
		a.onChange = fn
	}
}

// New returns an app at the home page. Nothing is loaded until Open.
func New(store *query.Store, clients *resource.Clients, prompter Prompter, log logger.Logger, opts ...AppOption) *App {
	a := &App{
		store:    store,
		clients:  clients,
		prompter: prompter,
		logger:   log.WithPrefix("[view]"),
		nav:      NewNavigator("/"),
		sections: Sections(),
		width:    tui.Width(),
		loader: func(ctx context.Context, _ string, load func(context.Context) error) error {
			return load(ctx)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.router = NewRouter(func(a *App, path string, _ Params) (Page, error) {
		return &errorPage{app: a, path: path}, nil
	})
	home := func(a *App, _ string, _ Params) (Page, error) {
		return &homePage{app: a}, nil
	}
	a.router.Handle("/", home)
	a.router.Handle("/home", home)
	for _, s := range a.sections {
		s.routes(a.router)
	}
	return a
}

// Store returns the query store.
func (a *App) Store() *query.Store { return a.store }

// Navigator returns the navigation history.
func (a *App) Navigator() *Navigator { return a.nav }

// Router returns the route table.
func (a *App) Router() *Router { return a.router }

// Sections returns the resource sections.
func (a *App) Sections() []Section { return a.sections }

// Page returns the current page and its path.
func (a *App) Page() (Page, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page, a.path
}

func (a *App) changed(ev query.Event) {
	if a.onChange != nil {
		a.onChange(ev)
	}
}

func (a *App) nextLocalID() int {
	return -int(a.localID.Add(1))
}

func (a *App) maxCell() int {
	if n := a.width / 3; n > 16 {
		return n
	}
	return 16
}

func keep[T any](a *App, items []T) ([]T, error) {
	if a.filter == nil {
		return items, nil
	}
	return filter.Keep(a.filter, items)
}

// report alerts msg and marks err as shown.
func (a *App) report(ctx context.Context, msg string, err error) error {
	a.logger.Debug("%s: %v", msg, err)
	if alertErr := a.prompter.Alert(ctx, msg); alertErr != nil {
		return errors.CombineErrors(err, alertErr)
	}
	return errors.Mark(err, ErrReported)
}

func (a *App) build(path string) Page {
	handler, params, _ := a.router.Match(path)
	page, err := handler(a, path, params)
	if err != nil {
		a.logger.Debug("no page for %s: %v", path, err)
		return &errorPage{app: a, path: path, err: err}
	}
	return page
}

// show replaces the current page with the page for path and loads it. The
// page is returned even when loading fails so it can render the failure.
func (a *App) show(ctx context.Context, path string) (Page, error) {
	page := a.build(path)
	a.mu.Lock()
	prev := a.page
	a.page, a.path = page, path
	a.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	a.logger.Debug("showing %s", path)
	err := a.loader(ctx, page.Title(), page.Load)
	return page, err
}

// Open navigates to path and loads its page.
func (a *App) Open(ctx context.Context, path string) (Page, error) {
	a.nav.Push(path)
	return a.show(ctx, a.nav.Current())
}

// Back returns to the previous page.
func (a *App) Back(ctx context.Context) (Page, error) {
	path, _ := a.nav.Back()
	return a.show(ctx, path)
}

// Refresh invalidates the current page's keys and loads it again.
func (a *App) Refresh(ctx context.Context) error {
	page, _ := a.Page()
	if page == nil {
		_, err := a.show(ctx, a.nav.Current())
		return err
	}
	for _, key := range page.Keys() {
		a.store.Invalidate(key)
	}
	return a.loader(ctx, page.Title(), page.Load)
}

// Do runs the named action of the current page. When the action navigated,
// the new page is shown before Do returns.
func (a *App) Do(ctx context.Context, name string, args []string) error {
	page, path := a.Page()
	if page == nil {
		var err error
		if page, err = a.show(ctx, a.nav.Current()); err != nil {
			return err
		}
		path = a.nav.Current()
	}
	action, ok := findAction(page, name)
	if !ok {
		return errors.Wrapf(ErrUnknownAction, "%q on %s", name, path)
	}
	err := action.Run(ctx, args)
	if next := a.nav.Current(); next != path {
		if _, loadErr := a.show(ctx, next); err == nil {
			err = loadErr
		}
	}
	return err
}

// Render writes the current page.
func (a *App) Render(w io.Writer) {
	if page, _ := a.Page(); page != nil {
		page.Render(w)
	}
}

// Close releases the current page.
func (a *App) Close() {
	a.mu.Lock()
	page := a.page
	a.page = nil
	a.mu.Unlock()
	if page != nil {
		page.Close()
	}
}

type homePage struct {
	app *App
}

func (p *homePage) Title() string              { return "Resource Console" }
func (p *homePage) Load(context.Context) error { return nil }
func (p *homePage) Keys() []query.Key          { return nil }
func (p *homePage) Close()                     {}

func (p *homePage) Render(w io.Writer) {
	var body strings.Builder
	for _, s := range p.app.sections {
		fmt.Fprintf(&body, "%s  %s\n", tui.PadRight(s.SectionTitle(), 10, " "), tui.Muted(s.ResourceKind().Route()))
	}
	fmt.Fprintln(w, tui.Banner(p.Title(), strings.TrimRight(body.String(), "\n"), p.app.width))
	actionHelp(w, p.Actions())
}

func (p *homePage) Actions() []Action {
	return []Action{
		{Name: "go", Usage: "<section>", Help: "open a section", Run: p.goTo},
		{Name: "menu", Help: "choose a section", Run: p.menu},
	}
}

func (p *homePage) goTo(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.Mark(errors.New("go takes one section"), ErrInvalidInput)
	}
	kind, ok := resource.KindByName(args[0])
	if !ok {
		return errors.Mark(errors.Newf("no section %q", args[0]), ErrInvalidInput)
	}
	p.app.nav.Push(kind.Route())
	return nil
}

func (p *homePage) menu(ctx context.Context, _ []string) error {
	chooser, ok := p.app.prompter.(Chooser)
	if !ok {
		return errors.New("the prompter cannot offer choices")
	}
	options := make([]tui.Option, len(p.app.sections))
	for i, s := range p.app.sections {
		options[i] = tui.Option{ID: s.ResourceKind().Route(), Text: s.SectionTitle()}
	}
	route, err := chooser.Choose(ctx, "Go to", options)
	if err != nil {
		return err
	}
	p.app.nav.Push(route)
	return nil
}

type errorPage struct {
	app  *App
	path string
	err  error
}

func (p *errorPage) Title() string              { return "Page not found" }
func (p *errorPage) Load(context.Context) error { return nil }
func (p *errorPage) Keys() []query.Key          { return nil }
func (p *errorPage) Close()                     {}

func (p *errorPage) Render(w io.Writer) {
	heading(w, p.Title())
	tui.ShowError(w, "Nothing lives at %s.", p.path)
	if p.err != nil {
		fmt.Fprintln(w, tui.Muted(p.err.Error()))
	}
	actionHelp(w, p.Actions())
}

func (p *errorPage) Actions() []Action {
	return []Action{{Name: "home", Help: "go to the home page", Run: func(context.Context, []string) error {
		p.app.nav.Push("/")
		return nil
	}}}
}
