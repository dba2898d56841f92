package view

import (
	"strings"
	"sync"
)

// Params holds the values of ":name" segments of a matched route.
type Params map[string]string

// Handler builds the page for a matched route.
type Handler func(a *App, path string, params Params) (Page, error)

type route struct {
	pattern  string
	segments []string
	handler  Handler
}

// Router maps path patterns such as "/posts/edit/:id" to handlers. Unmatched
// paths go to the not found handler.
type Router struct {
	routes   []route
	notFound Handler
}

// NewRouter returns a router whose not found handler is notFound.
func NewRouter(notFound Handler) *Router {
	return &Router{notFound: notFound}
}

func split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i != -1 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Handle registers h for pattern. Routes are tried in registration order.
func (r *Router) Handle(pattern string, h Handler) {
	r.routes = append(r.routes, route{pattern: pattern, segments: split(pattern), handler: h})
}

// Match finds the handler for path. The boolean is false when the not found
// handler was returned.
func (r *Router) Match(path string) (Handler, Params, bool) {
	parts := split(path)
	for _, rt := range r.routes {
		if params, ok := matchSegments(rt.segments, parts); ok {
			return rt.handler, params, true
		}
	}
	return r.notFound, Params{}, false
}

// Patterns lists the registered patterns.
func (r *Router) Patterns() []string {
	out := make([]string, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.pattern
	}
	return out
}

func matchSegments(pattern, parts []string) (Params, bool) {
	if len(pattern) != len(parts) {
		return nil, false
	}
	params := Params{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if parts[i] == "" {
				return nil, false
			}
			params[seg[1:]] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// Navigator is the history of visited paths.
type Navigator struct {
	mu      sync.Mutex
	history []string
}

// NewNavigator starts at path.
func NewNavigator(path string) *Navigator {
	return &Navigator{history: []string{Clean(path)}}
}

// Clean normalises a path to a leading slash without a trailing one.
func Clean(path string) string {
	return "/" + strings.Join(split(path), "/")
}

// Push visits path.
func (n *Navigator) Push(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	path = Clean(path)
	if len(n.history) > 0 && n.history[len(n.history)-1] == path {
		return
	}
	n.history = append(n.history, path)
}

// Replace swaps the current path for path.
func (n *Navigator) Replace(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history[len(n.history)-1] = Clean(path)
}

// Back returns to the previous path. It reports false at the first entry.
func (n *Navigator) Back() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) < 2 {
		return n.history[0], false
	}
	n.history = n.history[:len(n.history)-1]
	return n.history[len(n.history)-1], true
}

// Current returns the current path.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[len(n.history)-1]
}

// History returns a copy of the visited paths, oldest first.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}
