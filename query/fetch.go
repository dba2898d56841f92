package query

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Fetch reads key through s and waits for the data, returning the cached
// value when it is fresh. fn is registered as the key's fetch function.
func Fetch[T any](ctx context.Context, s *Store, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var fetch FetchFunc
	if fn != nil {
		fetch = func(ctx context.Context) (any, error) {
			return fn(ctx)
		}
	}
	e := s.Read(ctx, key, fetch)
	if e.Fetching || e.Status != StatusSuccess {
		var err error
		if e, err = s.Await(ctx, key); err != nil {
			var zero T
			return zero, err
		}
	}
	return As[T](e)
}

// As returns the data of e as a T.
func As[T any](e Entry) (T, error) {
	var zero T
	if !e.HasData {
		return zero, errors.Wrapf(ErrNoData, "%s", e.Key)
	}
	if e.Data == nil {
		return zero, nil
	}
	v, ok := e.Data.(T)
	if !ok {
		return zero, errors.Newf("query: %s holds %T, not %T", e.Key, e.Data, zero)
	}
	return v, nil
}

// Get returns the cached data of key as a T. The second value is false when
// the key holds no data of that type.
func Get[T any](s *Store, key Key) (T, bool) {
	var zero T
	data, ok := s.GetData(key)
	if !ok {
		return zero, false
	}
	v, ok := data.(T)
	return v, ok
}

// Update is the typed form of Store.SetData. ok is false when the key held
// no data of type T, in which case old is the zero value.
func Update[T any](s *Store, key Key, updater func(old T, ok bool) T) Entry {
	return s.SetData(key, func(data any) any {
		old, ok := data.(T)
		return updater(old, ok)
	})
}
