// Package query is a process-local cache of remote data addressed by [Key].
//
// A [Store] keeps one entry per key. [Store.Read] returns the entry and, when
// it is missing, stale or failed, starts the registered fetch function in the
// background. Concurrent readers of the same key share one fetch. [Fetch] is
// the blocking, typed form most callers want.
//
// Writes go through [Mutate] (or [Start] for the non-blocking form). A
// mutation may write a predicted result into the cache before the request is
// sent; the [Snapshot] it returns from OnBeforeMutate is restored if the
// request fails. OnSettled runs after either outcome and usually invalidates
// the affected keys so the next read comes from the server:
//
//	query.Mutate(ctx, store, query.Mutation[resource.TodoInput, resource.Todo]{
//		Fn: func(ctx context.Context, in resource.TodoInput) (resource.Todo, error) {
//			return todos.Create(ctx, in)
//		},
//		OnBeforeMutate: func(s *query.Store, in resource.TodoInput) query.Snapshot {
//			s.Cancel(key)
//			snap := s.Snapshot(key)
//			query.Update(s, key, func(old []resource.Todo, _ bool) []resource.Todo {
//				return append([]resource.Todo{{ID: localID, Todo: in.Todo}}, old...)
//			})
//			return snap
//		},
//		OnSettled: func(sys.Result[resource.Todo], resource.TodoInput) {
//			store.Invalidate(key)
//		},
//	}, in)
//
// Refetched data that encodes to the same bytes as the cached value is
// dropped in favour of the cached value, so observers see no data change.
// Entries nobody observes are evicted once they have not been touched for
// the GC time.
package query
