package query

import "context"

// Resource is a typed fetch-with-cache-key binding for a single resource.
type Resource[T any] struct {
	cache *Cache
	key   string
	fn    func(context.Context) (T, error)
}

// NewResource binds key to fn on cache. Two resources with different keys
// never share cached data.
func NewResource[T any](cache *Cache, key string, fn func(context.Context) (T, error)) *Resource[T] {
	return &Resource[T]{cache: cache, key: key, fn: fn}
}

// Key returns the cache key the resource is bound to.
func (r *Resource[T]) Key() string { return r.key }

// Get returns the cached value while fresh, fetching otherwise.
func (r *Resource[T]) Get(ctx context.Context) (T, error) {
	return r.call(ctx, r.cache.Fetch)
}

// Refetch bypasses freshness and re-issues the fetch.
func (r *Resource[T]) Refetch(ctx context.Context) (T, error) {
	return r.call(ctx, r.cache.Refetch)
}

// Invalidate marks the resource stale without fetching.
func (r *Resource[T]) Invalidate() {
	r.cache.Invalidate(r.key)
}

func (r *Resource[T]) call(ctx context.Context, via func(string, func() (any, error)) (any, error)) (T, error) {
	data, err := via(r.key, func() (any, error) {
		return r.fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return data.(T), nil
}

// Mutation runs a write and, on success, invalidates the cache keys whose
// data it affects.
type Mutation[P, T any] struct {
	cache       *Cache
	fn          func(context.Context, P) (T, error)
	invalidates []string
}

// NewMutation binds fn to the keys it invalidates on success.
func NewMutation[P, T any](cache *Cache, fn func(context.Context, P) (T, error), invalidates ...string) *Mutation[P, T] {
	return &Mutation[P, T]{cache: cache, fn: fn, invalidates: invalidates}
}

// Run executes the mutation. Failed mutations leave the cache untouched.
func (m *Mutation[P, T]) Run(ctx context.Context, patch P) (T, error) {
	result, err := m.fn(ctx, patch)
	if err != nil {
		var zero T
		return zero, err
	}
	m.cache.Invalidate(m.invalidates...)
	return result, nil
}
