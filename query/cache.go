package query

import (
	"sync"
	"time"
)

// Cache tracks the last result and freshness window per resource key. Keys
// are strictly semantic: resource name plus parameters, never shared between
// resources. At most one request is in flight per key; concurrent fetches
// join it. Each in-flight request is tagged with the key's generation at
// start, and a completing request whose generation has been superseded by an
// Invalidate is discarded instead of overwriting newer data.
type Cache struct {
	mu        sync.Mutex
	staleTime time.Duration
	entries   map[string]*entry
	now       func() time.Time
}

type entry struct {
	data      any
	err       error
	fetchedAt time.Time
	gen       uint64
	inflight  *inflight
}

type inflight struct {
	done chan struct{}
	gen  uint64
	data any
	err  error
}

// NewCache creates a cache where successful results stay fresh for
// staleTime. Zero means every read refetches.
func NewCache(staleTime time.Duration) *Cache {
	return &Cache{
		staleTime: staleTime,
		entries:   make(map[string]*entry),
		now:       time.Now,
	}
}

// Fetch returns the cached value for key when it is still fresh, otherwise
// runs fn (joining an already running fn for the same key).
func (c *Cache) Fetch(key string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	e := c.entry(key)

	if e.err == nil && !e.fetchedAt.IsZero() && c.now().Sub(e.fetchedAt) < c.staleTime {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	return c.fetchLocked(key, e, fn)
}

// Refetch always re-runs fn for key, bypassing freshness. A Refetch issued
// while a request for the same key is pending joins it rather than issuing
// a duplicate call.
func (c *Cache) Refetch(key string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	e := c.entry(key)
	e.fetchedAt = time.Time{}
	return c.fetchLocked(key, e, fn)
}

// Invalidate marks the given keys stale and supersedes any in-flight
// request for them, forcing the next read to refetch.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		e := c.entry(key)
		e.gen++
		e.fetchedAt = time.Time{}
	}
}

// Peek returns the cached value without fetching, along with whether one
// is present. Stale values are still returned; the caller decides whether
// to show them while a refetch runs.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.fetchedAt.IsZero() || e.err != nil {
		return nil, false
	}
	return e.data, true
}

// fetchLocked joins the pending request for key or starts a new one. The
// cache mutex is held on entry and released before fn runs.
func (c *Cache) fetchLocked(key string, e *entry, fn func() (any, error)) (any, error) {
	if fl := e.inflight; fl != nil && fl.gen == e.gen {
		c.mu.Unlock()
		<-fl.done
		return fl.data, fl.err
	}

	fl := &inflight{done: make(chan struct{}), gen: e.gen}
	e.inflight = fl
	c.mu.Unlock()

	data, err := fn()

	c.mu.Lock()
	fl.data, fl.err = data, err
	close(fl.done)
	if e.inflight == fl {
		e.inflight = nil
	}
	if fl.gen == e.gen {
		e.data, e.err = data, err
		e.fetchedAt = c.now()
	}
	c.mu.Unlock()
	return data, err
}

func (c *Cache) entry(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}
