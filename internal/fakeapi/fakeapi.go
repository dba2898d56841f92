// Package fakeapi is an in-memory stand-in for the remote resource API, used
// by tests across the module. It serves the same paths, envelopes and error
// bodies, and lets a test inject failures or hold requests in flight.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

var envelopes = map[string]string{
	"product":  "products",
	"recipes":  "recipes",
	"posts":    "posts",
	"comments": "comments",
	"todos":    "todos",
}

var names = map[string]string{
	"product":  "Product",
	"recipes":  "Recipe",
	"posts":    "Post",
	"comments": "Comment",
	"todos":    "Todo",
}

type failure struct {
	method string
	path   string
	status int
	times  int
}

type hold struct {
	method  string
	path    string
	release chan struct{}
	arrived chan struct{}
	once    sync.Once
}

// Server is a fake API. The zero value is not usable; call New.
type Server struct {
	mu       sync.Mutex
	data     map[string]map[int]map[string]any
	failures []*failure
	holds    []*hold
	calls    map[string]int
}

// New returns an empty fake with every collection present.
func New() *Server {
	s := &Server{
		data:  make(map[string]map[int]map[string]any),
		calls: make(map[string]int),
	}
	for path := range envelopes {
		s.data[path] = make(map[int]map[string]any)
	}
	return s
}

// Start serves s on a test server closed at the end of the test and returns its URL.
func (s *Server) Start(t testing.TB) string {
	srv := httptest.NewServer(s)
	t.Cleanup(func() {
		s.ReleaseAll()
		srv.Close()
	})
	return srv.URL
}

// Seed stores records (any JSON-encodable values with an "id") under collection.
func (s *Server) Seed(collection string, records ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collection(collection)
	for _, r := range records {
		m := toMap(r)
		coll[idOf(m)] = m
	}
}

// Record returns the stored record, or nil.
func (s *Server) Record(collection string, id int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection(collection)[id]
}

// Fail makes the next times requests matching method and path answer status.
func (s *Server) Fail(method, path string, status, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, &failure{method: method, path: path, status: status, times: times})
}

// Hold blocks the next request matching method and path until release is
// called. arrived is closed once that request reaches the server.
func (s *Server) Hold(method, path string) (release func(), arrived <-chan struct{}) {
	h := &hold{method: method, path: path, release: make(chan struct{}), arrived: make(chan struct{})}
	s.mu.Lock()
	s.holds = append(s.holds, h)
	s.mu.Unlock()
	return func() { h.once.Do(func() { close(h.release) }) }, h.arrived
}

// ReleaseAll releases every pending hold.
func (s *Server) ReleaseAll() {
	s.mu.Lock()
	holds := s.holds
	s.holds = nil
	s.mu.Unlock()
	for _, h := range holds {
		h.once.Do(func() { close(h.release) })
	}
}

// Calls returns how many requests matched method and path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

func (s *Server) collection(name string) map[int]map[string]any {
	coll, ok := s.data[name]
	if !ok {
		coll = make(map[int]map[string]any)
		s.data[name] = coll
	}
	return coll
}

func toMap(v any) map[string]any {
	buf, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf, &m); err != nil {
		panic(err)
	}
	return m
}

func idOf(m map[string]any) int {
	switch v := m["id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) intercept(method, path string) (*failure, *hold) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method+" "+path]++
	var f *failure
	for _, candidate := range s.failures {
		if candidate.times > 0 && candidate.method == method && candidate.path == path {
			candidate.times--
			f = candidate
			break
		}
	}
	for i, h := range s.holds {
		if h.method == method && h.path == path {
			s.holds = append(s.holds[:i], s.holds[i+1:]...)
			return f, h
		}
	}
	return f, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, h := s.intercept(r.Method, r.URL.Path)
	if h != nil {
		close(h.arrived)
		select {
		case <-h.release:
		case <-r.Context().Done():
			return
		}
	}
	if f != nil {
		writeJSON(w, f.status, map[string]any{"message": http.StatusText(f.status)})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	collection := parts[0]
	envelope, ok := envelopes[collection]
	if !ok || len(parts) > 2 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collection(collection)

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			ids := make([]int, 0, len(coll))
			for id := range coll {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			items := make([]map[string]any, 0, len(ids))
			for _, id := range ids {
				items = append(items, coll[id])
			}
			writeJSON(w, http.StatusOK, map[string]any{envelope: items, "total": len(items), "skip": 0, "limit": len(items)})
		case http.MethodPost:
			body, err := readBody(r)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
				return
			}
			next := 1
			for id := range coll {
				if id >= next {
					next = id + 1
				}
			}
			body["id"] = next
			coll[next] = body
			writeJSON(w, http.StatusCreated, body)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		}
		return
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": fmt.Sprintf("Invalid %s id '%s'", strings.ToLower(names[collection]), parts[1])})
		return
	}
	record, ok := coll[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": fmt.Sprintf("%s with id '%d' not found", names[collection], id)})
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, record)
	case http.MethodPut, http.MethodPatch:
		body, err := readBody(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
			return
		}
		for k, v := range body {
			if k != "id" {
				record[k] = v
			}
		}
		writeJSON(w, http.StatusOK, record)
	case http.MethodDelete:
		delete(coll, id)
		out := make(map[string]any, len(record)+1)
		for k, v := range record {
			out[k] = v
		}
		out["isDeleted"] = true
		writeJSON(w, http.StatusOK, out)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
	}
}

func readBody(r *http.Request) (map[string]any, error) {
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	body := make(map[string]any)
	if len(buf) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(buf, &body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return body, nil
}
