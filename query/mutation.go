package query

import (
	"context"

	"github.com/agentuity/resource-console/logger"
	"github.com/agentuity/resource-console/sys"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrNoMutationFn is the result of a Mutation without Fn.
var ErrNoMutationFn = errors.New("mutation has no function")

// Outcome is the state of a mutation.
type Outcome int

const (
	// Pending means the request has not settled yet.
	Pending Outcome = iota
	// Committed means the request succeeded.
	Committed
	// RolledBack means the request failed and the snapshot was restored.
	RolledBack
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	}
	return "unknown"
}

// SnapshotEntry is the captured state of one key.
type SnapshotEntry struct {
	Key      Key
	Previous any
	HadEntry bool
	HadData  bool
	Status   Status
}

// Snapshot is the state a mutation restores on failure. Optimistic holds the
// locally predicted record, if any, so callers can find it again.
type Snapshot struct {
	Entries    []SnapshotEntry
	Optimistic any
}

// Mutation describes one write. Only Fn is required.
//
// Hooks run in order: OnBeforeMutate before Fn, then OnSuccess or OnError,
// then OnSettled. On failure the snapshot is restored before OnError runs.
type Mutation[V, R any] struct {
	// Name is used in logs.
	Name           string
	Fn             func(ctx context.Context, vars V) (R, error)
	OnBeforeMutate func(s *Store, vars V) Snapshot
	OnSuccess      func(value R, vars V)
	OnError        func(err error, vars V, snap Snapshot)
	OnSettled      func(result sys.Result[R], vars V)
}

// MutationResult is the settled state of a mutation.
type MutationResult[R any] struct {
	ID       string
	Outcome  Outcome
	Value    R
	Err      error
	Snapshot Snapshot
}

// Result returns the value and error as a sys.Result.
func (r MutationResult[R]) Result() sys.Result[R] {
	return sys.From(r.Value, r.Err)
}

// Handle tracks a mutation started with Start.
type Handle[R any] struct {
	id     string
	done   chan struct{}
	result MutationResult[R]
}

// ID returns the mutation id.
func (h *Handle[R]) ID() string {
	return h.id
}

// Done is closed once every hook has run.
func (h *Handle[R]) Done() <-chan struct{} {
	return h.done
}

// Outcome returns Pending until the mutation settles.
func (h *Handle[R]) Outcome() Outcome {
	select {
	case <-h.done:
		return h.result.Outcome
	default:
		return Pending
	}
}

// Wait blocks until the mutation settles or ctx is done.
func (h *Handle[R]) Wait(ctx context.Context) (MutationResult[R], error) {
	select {
	case <-h.done:
		return h.result, nil
	case <-ctx.Done():
		return MutationResult[R]{ID: h.id, Outcome: Pending}, ctx.Err()
	}
}

// Start runs OnBeforeMutate synchronously, so any optimistic write is visible
// when Start returns, and the rest of the mutation in the background.
func Start[V, R any](ctx context.Context, s *Store, m Mutation[V, R], vars V) *Handle[R] {
	h := &Handle[R]{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
	log := s.logger.With(map[string]interface{}{"mutation": h.id})
	if m.Name != "" {
		log = log.WithPrefix("[" + m.Name + "]")
	}
	var snap Snapshot
	if m.OnBeforeMutate != nil {
		snap = m.OnBeforeMutate(s, vars)
	}
	go func() {
		defer close(h.done)
		h.result = settleMutation(ctx, s, log, m, vars, h.id, snap)
	}()
	return h
}

// Mutate runs m to completion and returns its result.
func Mutate[V, R any](ctx context.Context, s *Store, m Mutation[V, R], vars V) MutationResult[R] {
	h := Start(ctx, s, m, vars)
	<-h.done
	return h.result
}

func settleMutation[V, R any](ctx context.Context, s *Store, log logger.Logger, m Mutation[V, R], vars V, id string, snap Snapshot) MutationResult[R] {
	var (
		value R
		err   = ErrNoMutationFn
	)
	if m.Fn != nil {
		value, err = m.Fn(ctx, vars)
	}
	res := MutationResult[R]{ID: id, Value: value, Err: err, Snapshot: snap}
	if err != nil {
		s.Restore(snap)
		res.Outcome = RolledBack
		log.Debug("mutation failed, restored %d entries: %s", len(snap.Entries), err)
		if m.OnError != nil {
			m.OnError(err, vars, snap)
		}
	} else {
		res.Outcome = Committed
		log.Debug("mutation committed")
		if m.OnSuccess != nil {
			m.OnSuccess(value, vars)
		}
	}
	if m.OnSettled != nil {
		m.OnSettled(sys.From(value, err), vars)
	}
	return res
}
