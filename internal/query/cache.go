package query

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Key names one cached server read.
type Key string

const (
	KeyCourses     Key = "courses"
	KeyEnrollments Key = "enrollments"
	KeyUsers       Key = "users"
)

func CourseKey(courseID string) Key    { return Key("course/" + courseID) }
func SectionsKey(courseID string) Key  { return Key("sections/" + courseID) }
func ContentsKey(sectionID string) Key { return Key("contents/" + sectionID) }

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

// Cache holds the last fetched value per key. Mutations mark keys stale; the
// next Fetch of a stale key goes to the server. Safe for concurrent use.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	entries   map[Key]*entry
	listeners []func(Key)
}

// New returns a cache. ttl <= 0 means entries only expire by invalidation.
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now, entries: map[Key]*entry{}}
}

// OnInvalidate registers fn to be called (outside the lock) for every key
// marked stale.
func (c *Cache) OnInvalidate(fn func(Key)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Cache) Set(key Key, v any) {
	c.mu.Lock()
	c.entries[key] = &entry{value: v, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Get returns the cached value even when stale.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Stale reports whether key needs a refetch (missing, invalidated or expired).
func (c *Cache) Stale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staleLocked(key)
}

func (c *Cache) staleLocked(key Key) bool {
	e, ok := c.entries[key]
	if !ok || e.stale {
		return true
	}
	return c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl
}

// Invalidate marks keys stale. Unknown keys are still reported to listeners.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			e.stale = true
		}
	}
	ls := append([]func(Key){}, c.listeners...)
	c.mu.Unlock()

	for _, k := range keys {
		for _, fn := range ls {
			fn(k)
		}
	}
}

// InvalidatePrefix marks every key starting with prefix stale.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	var keys []Key
	for k := range c.entries {
		if strings.HasPrefix(string(k), prefix) {
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()
	c.Invalidate(keys...)
}

// Fetch returns the cached value for key when fresh, else calls fetch and
// caches its result. Concurrent fetches of the same key are not coalesced;
// the last one to finish wins.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if !c.staleLocked(key) {
		if v, ok := c.entries[key].value.(T); ok {
			c.mu.Unlock()
			return v, nil
		}
	}
	c.mu.Unlock()

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Refetch always calls fetch and caches its result.
func Refetch[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	c.Invalidate(key)
	return Fetch(ctx, c, key, fetch)
}
