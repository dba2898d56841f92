package query

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentuity/resource-console/logger"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnknownKey is returned for keys the store has never seen.
	ErrUnknownKey = errors.New("unknown query key")
	// ErrNoFetcher is returned by Refetch when no fetch function was registered.
	ErrNoFetcher = errors.New("no fetch function registered")
	// ErrNoData is returned by Fetch when the entry settled without data.
	ErrNoData = errors.New("no data")
)

// Status is the settle state of an entry.
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// FetchFunc loads the data for one key.
type FetchFunc func(ctx context.Context) (any, error)

// Entry is a copy of one cache slot. Data is shared with the store and must
// be treated as read-only.
type Entry struct {
	Key        Key
	Status     Status
	Data       any
	HasData    bool
	Err        error
	FetchedAt  time.Time
	Stale      bool
	Fetching   bool
	FetchCount int
	Observers  int
}

// Event is delivered to observers on every transition of an entry.
// DataChanged is false when the transition kept the previous data value.
type Event struct {
	Entry       Entry
	DataChanged bool
}

// Observer receives entry transitions.
type Observer func(Event)

// Stats counts store activity since creation.
type Stats struct {
	Entries       int
	Hits          int
	Misses        int
	Fetches       int
	Dedups        int
	Invalidations int
	Rollbacks     int
	Evictions     int
}

type observer struct {
	fn     Observer
	active atomic.Bool
}

type entry struct {
	key        Key
	hash       string
	status     Status
	prevStatus Status
	data       any
	hasData    bool
	digest     uint64
	hasDigest  bool
	err        error
	fetchedAt  time.Time
	accessedAt time.Time
	stale      bool
	fetchCount int
	fn         FetchFunc
	fetching   bool
	gen        uint64
	done       chan struct{}
	observers  map[uint64]*observer
}

func (e *entry) snapshot() Entry {
	return Entry{
		Key:        e.key,
		Status:     e.status,
		Data:       e.data,
		HasData:    e.hasData,
		Err:        e.err,
		FetchedAt:  e.fetchedAt,
		Stale:      e.stale,
		Fetching:   e.fetching,
		FetchCount: e.fetchCount,
		Observers:  len(e.observers),
	}
}

// Store is the query cache. Create one per process with New and pass it to
// whatever needs it.
type Store struct {
	ctx          context.Context
	cancel       context.CancelFunc
	mutex        sync.Mutex
	entries      map[string]*entry
	group        singleflight.Group
	waitGroup    sync.WaitGroup
	once         sync.Once
	cfg          config
	logger       logger.Logger
	nextObserver uint64
	stats        Stats
}

// New returns an empty store. Fetches run under a context derived from
// parent; Close (or cancelling parent) stops them and the GC sweeper.
func New(parent context.Context, opts ...Option) *Store {
	cfg := applyOptions(opts)
	ctx, cancel := context.WithCancel(parent)
	s := &Store{
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry),
		cfg:     cfg,
		logger:  cfg.logger.WithPrefix("[query]"),
	}
	s.waitGroup.Add(1)
	go s.run()
	return s
}

// Close stops the sweeper and cancels in-flight fetches.
func (s *Store) Close() error {
	s.once.Do(func() {
		s.cancel()
		s.waitGroup.Wait()
	})
	return nil
}

func (s *Store) lookup(key Key, create bool) (*entry, bool) {
	h := key.hash()
	if e, ok := s.entries[h]; ok {
		return e, true
	}
	if !create {
		return nil, false
	}
	e := &entry{
		key:        append(Key(nil), key...),
		hash:       h,
		status:     StatusPending,
		accessedAt: s.cfg.now(),
		observers:  make(map[uint64]*observer),
	}
	s.entries[h] = e
	return e, false
}

func (s *Store) expired(e *entry) bool {
	return s.cfg.staleTime > 0 && s.cfg.now().Sub(e.fetchedAt) > s.cfg.staleTime
}

// emit collects the observers of e under the lock and returns a function
// that notifies them. Call the returned function after unlocking.
func (s *Store) emit(e *entry, changed bool) func() {
	if len(e.observers) == 0 {
		return func() {}
	}
	ev := Event{Entry: e.snapshot(), DataChanged: changed}
	obs := make([]*observer, 0, len(e.observers))
	ids := make([]uint64, 0, len(e.observers))
	for id := range e.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		obs = append(obs, e.observers[id])
	}
	return func() {
		for _, o := range obs {
			if o.active.Load() {
				o.fn(ev)
			}
		}
	}
}

// startFetch must be called with the lock held and e.fn set.
func (s *Store) startFetch(e *entry) func() {
	fn := e.fn
	e.prevStatus = e.status
	e.status = StatusPending
	e.fetching = true
	e.gen++
	gen := e.gen
	e.done = make(chan struct{})
	s.stats.Fetches++
	s.logger.Trace("fetching %s", e.key)
	ch := s.group.DoChan(e.hash, func() (any, error) {
		return fn(s.ctx)
	})
	go func() {
		res := <-ch
		s.settle(e, gen, res.Val, res.Err)
	}()
	return s.emit(e, false)
}

// supersede detaches the in-flight fetch of e so its settle is discarded.
func (s *Store) supersede(e *entry) {
	e.gen++
	e.fetching = false
	close(e.done)
	s.group.Forget(e.hash)
	e.status = e.prevStatus
}

func (s *Store) settle(e *entry, gen uint64, data any, err error) {
	s.mutex.Lock()
	if cur, ok := s.entries[e.hash]; !ok || cur != e || e.gen != gen {
		s.mutex.Unlock()
		s.logger.Trace("discarding superseded fetch of %s", e.key)
		return
	}
	e.fetching = false
	close(e.done)
	e.fetchCount++
	changed := false
	if err != nil {
		e.status = StatusError
		e.err = err
		s.logger.Debug("fetch of %s failed: %s", e.key, err)
	} else {
		changed = s.write(e, data)
	}
	notify := s.emit(e, changed)
	s.mutex.Unlock()
	notify()
}

// write stores data as the settled value of e and reports whether the data
// value changed. Data with the same digest as the cached value is dropped.
func (s *Store) write(e *entry, data any) bool {
	digest, ok := digestOf(data)
	changed := true
	if e.hasData && ok && e.hasDigest && digest == e.digest {
		changed = false
	} else {
		e.data = data
	}
	e.hasData = true
	e.digest, e.hasDigest = digest, ok
	e.status = StatusSuccess
	e.err = nil
	e.stale = false
	e.fetchedAt = s.cfg.now()
	return changed
}

// Read returns the entry for key, starting fn in the background when the
// entry is missing, stale, failed or older than the stale time. Readers that
// arrive while a fetch is in flight join it. A nil fn reuses the function
// registered by an earlier Read.
func (s *Store) Read(ctx context.Context, key Key, fn FetchFunc) Entry {
	s.mutex.Lock()
	e, existed := s.lookup(key, true)
	if fn != nil {
		e.fn = fn
	}
	e.accessedAt = s.cfg.now()
	notify := func() {}
	switch {
	case e.fetching:
		s.stats.Dedups++
	case e.fn == nil:
	case !existed || e.status != StatusSuccess || e.stale || s.expired(e):
		s.stats.Misses++
		notify = s.startFetch(e)
	default:
		s.stats.Hits++
	}
	snap := e.snapshot()
	s.mutex.Unlock()
	notify()
	return snap
}

// Peek returns the entry for key without fetching or touching it.
func (s *Store) Peek(key Key) (Entry, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	e, ok := s.lookup(key, false)
	if !ok {
		return Entry{Key: key}, false
	}
	return e.snapshot(), true
}

// Await waits for the in-flight fetch of key, if any, and returns the
// settled entry. The error is the entry's fetch error or ctx's error.
func (s *Store) Await(ctx context.Context, key Key) (Entry, error) {
	for {
		s.mutex.Lock()
		e, ok := s.lookup(key, false)
		if !ok {
			s.mutex.Unlock()
			return Entry{Key: key}, errors.Wrapf(ErrUnknownKey, "%s", key)
		}
		if !e.fetching {
			snap := e.snapshot()
			s.mutex.Unlock()
			if snap.Status == StatusError {
				return snap, snap.Err
			}
			return snap, nil
		}
		done := e.done
		s.mutex.Unlock()
		select {
		case <-ctx.Done():
			return Entry{Key: key}, ctx.Err()
		case <-done:
		}
	}
}

// Refetch marks key stale, starts its registered fetch function (or joins the
// one in flight) and waits for the result.
func (s *Store) Refetch(ctx context.Context, key Key) (Entry, error) {
	s.mutex.Lock()
	e, ok := s.lookup(key, false)
	if !ok {
		s.mutex.Unlock()
		return Entry{Key: key}, errors.Wrapf(ErrUnknownKey, "%s", key)
	}
	if e.fn == nil {
		s.mutex.Unlock()
		return e.snapshot(), errors.Wrapf(ErrNoFetcher, "%s", key)
	}
	notify := func() {}
	if e.fetching {
		s.stats.Dedups++
	} else {
		e.stale = true
		notify = s.startFetch(e)
	}
	s.mutex.Unlock()
	notify()
	return s.Await(ctx, key)
}

// Invalidate marks every entry whose key starts with prefix as stale and
// returns how many were touched. Data is kept. Entries that are already
// stale are not counted again, but an observed one with nothing in flight
// still gets a refetch. Observed entries refetch right away; an in-flight
// fetch of a matching entry is superseded by a fresh one.
func (s *Store) Invalidate(prefix Key) int {
	s.mutex.Lock()
	var notify []func()
	count := 0
	for _, e := range s.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		if e.stale && !e.fetching {
			if len(e.observers) > 0 && e.fn != nil {
				notify = append(notify, s.startFetch(e))
			}
			continue
		}
		e.stale = true
		count++
		s.stats.Invalidations++
		switch {
		case e.fetching:
			s.supersede(e)
			e.stale = true
			notify = append(notify, s.startFetch(e))
		case len(e.observers) > 0 && e.fn != nil:
			notify = append(notify, s.startFetch(e))
		default:
			notify = append(notify, s.emit(e, false))
		}
	}
	s.mutex.Unlock()
	if count > 0 {
		s.logger.Debug("invalidated %d entries under %s", count, prefix)
	}
	for _, fn := range notify {
		fn()
	}
	return count
}

// Cancel detaches the in-flight fetches of every entry under prefix. Their
// results are discarded when they arrive and the entries return to their
// previous status. It returns how many fetches were cancelled.
func (s *Store) Cancel(prefix Key) int {
	s.mutex.Lock()
	var notify []func()
	count := 0
	for _, e := range s.entries {
		if e.fetching && e.key.HasPrefix(prefix) {
			s.supersede(e)
			count++
			notify = append(notify, s.emit(e, false))
		}
	}
	s.mutex.Unlock()
	for _, fn := range notify {
		fn()
	}
	return count
}

// GetData returns the cached data for key.
func (s *Store) GetData(key Key) (any, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	e, ok := s.lookup(key, false)
	if !ok || !e.hasData {
		return nil, false
	}
	e.accessedAt = s.cfg.now()
	return e.data, true
}

// SetData replaces the data of key with updater(old). old is nil when the
// key holds no data. A missing entry is created in success state. The entry
// is marked fresh; an in-flight fetch is not cancelled.
func (s *Store) SetData(key Key, updater func(old any) any) Entry {
	s.mutex.Lock()
	e, _ := s.lookup(key, true)
	var old any
	if e.hasData {
		old = e.data
	}
	changed := s.write(e, updater(old))
	e.accessedAt = s.cfg.now()
	snap := e.snapshot()
	notify := s.emit(e, changed)
	s.mutex.Unlock()
	notify()
	return snap
}

// Subscribe registers fn for transitions of key, creating the entry if
// needed. When the entry already holds data fn is called once right away.
// After the returned function is called fn is never invoked again, even for
// a fetch that was already settling.
func (s *Store) Subscribe(key Key, fn Observer) (unsubscribe func()) {
	s.mutex.Lock()
	e, _ := s.lookup(key, true)
	s.nextObserver++
	id := s.nextObserver
	o := &observer{fn: fn}
	o.active.Store(true)
	e.observers[id] = o
	e.accessedAt = s.cfg.now()
	var initial *Event
	if e.hasData || e.status == StatusError {
		initial = &Event{Entry: e.snapshot(), DataChanged: e.hasData}
	}
	s.mutex.Unlock()
	if initial != nil {
		fn(*initial)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			o.active.Store(false)
			s.mutex.Lock()
			delete(e.observers, id)
			e.accessedAt = s.cfg.now()
			s.mutex.Unlock()
		})
	}
}

// Snapshot captures the current state of keys for a later Restore.
func (s *Store) Snapshot(keys ...Key) Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	snap := Snapshot{Entries: make([]SnapshotEntry, 0, len(keys))}
	for _, key := range keys {
		se := SnapshotEntry{Key: append(Key(nil), key...), Status: StatusPending}
		if e, ok := s.lookup(key, false); ok {
			se.HadEntry = true
			se.HadData = e.hasData
			se.Previous = e.data
			se.Status = e.status
			if e.fetching {
				se.Status = e.prevStatus
			}
		}
		snap.Entries = append(snap.Entries, se)
	}
	return snap
}

// Restore puts every entry captured in snap back to its captured data. Keys
// that held no data lose their data and are marked stale; keys that did not
// exist and have no observers are removed.
func (s *Store) Restore(snap Snapshot) {
	if len(snap.Entries) == 0 {
		return
	}
	s.mutex.Lock()
	s.stats.Rollbacks++
	var notify []func()
	for _, se := range snap.Entries {
		e, ok := s.lookup(se.Key, se.HadEntry)
		if !ok && !se.HadEntry {
			continue
		}
		if se.HadData {
			changed := s.write(e, se.Previous)
			notify = append(notify, s.emit(e, changed))
			continue
		}
		if !se.HadEntry && len(e.observers) == 0 && !e.fetching {
			delete(s.entries, e.hash)
			continue
		}
		e.data, e.hasData, e.hasDigest = nil, false, false
		e.status = se.Status
		e.stale = true
		notify = append(notify, s.emit(e, true))
	}
	s.mutex.Unlock()
	for _, fn := range notify {
		fn()
	}
}

// Remove drops key from the store, detaching any in-flight fetch.
func (s *Store) Remove(key Key) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	e, ok := s.lookup(key, false)
	if !ok {
		return false
	}
	s.drop(e)
	return true
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, e := range s.entries {
		s.drop(e)
	}
}

func (s *Store) drop(e *entry) {
	if e.fetching {
		s.supersede(e)
	}
	for _, o := range e.observers {
		o.active.Store(false)
	}
	delete(s.entries, e.hash)
}

// Keys returns every cached key ordered by its string form.
func (s *Store) Keys() []Key {
	s.mutex.Lock()
	keys := make([]Key, 0, len(s.entries))
	for _, e := range s.entries {
		keys = append(keys, e.key)
	}
	s.mutex.Unlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Stats returns a copy of the activity counters.
func (s *Store) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	st := s.stats
	st.Entries = len(s.entries)
	return st
}

func (s *Store) run() {
	defer s.waitGroup.Done()
	ticker := time.NewTicker(s.cfg.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep evicts unobserved, idle entries older than the GC time.
func (s *Store) sweep() int {
	now := s.cfg.now()
	s.mutex.Lock()
	evicted := 0
	for h, e := range s.entries {
		if len(e.observers) == 0 && !e.fetching && now.Sub(e.accessedAt) >= s.cfg.gcTime {
			delete(s.entries, h)
			evicted++
		}
	}
	s.stats.Evictions += evicted
	s.mutex.Unlock()
	if evicted > 0 {
		s.logger.Debug("evicted %d idle entries", evicted)
	}
	return evicted
}
