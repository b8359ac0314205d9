// Package flight memoizes pipeline runs. Concurrent requests for the same key
// share one computation, and finished values stay pinned for a TTL before
// they are only weakly held.
package flight

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"weak"
)

// ErrPanicked is returned to callers that waited on a computation that
// panicked.
var ErrPanicked = errors.New("computation panicked")

// Func computes the value for a key.
type Func[K comparable, V any] func(context.Context, K) (V, error)

type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	done    map[K]*entry[V]
	running map[K]*call[V]
	fn      Func[K, V]
	ttl     time.Duration
	now     func() time.Time
}

type entry[V any] struct {
	weak   weak.Pointer[V]
	pinned *V
	until  time.Time // zero: pinned forever
}

type call[V any] struct {
	val  V
	err  error
	done chan struct{}
}

// NewCache returns a cache backed by fn. A ttl <= 0 pins results forever.
func NewCache[K comparable, V any](fn Func[K, V], ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		done:    make(map[K]*entry[V]),
		running: make(map[K]*call[V]),
		fn:      fn,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for k, joining an in-flight computation or
// starting one. Errors are never cached.
func (c *Cache[K, V]) Get(ctx context.Context, k K) (V, error) {
	c.mu.Lock()
	if v, ok := c.lookup(k); ok {
		c.mu.Unlock()
		return v, nil
	}
	if cl, ok := c.running[k]; ok {
		c.mu.Unlock()
		return c.wait(ctx, cl)
	}
	cl := c.start(k)
	c.mu.Unlock()
	return c.run(ctx, k, cl)
}

// Refresh recomputes k even if a value is cached. It waits for any in-flight
// computation of k first.
func (c *Cache[K, V]) Refresh(ctx context.Context, k K) (V, error) {
	for {
		c.mu.Lock()
		cl, ok := c.running[k]
		if !ok {
			cl = c.start(k)
			c.mu.Unlock()
			return c.run(ctx, k, cl)
		}
		c.mu.Unlock()
		if _, err := c.wait(ctx, cl); ctx.Err() != nil {
			var zero V
			return zero, err
		}
	}
}

// Len reports how many keys have a finished entry, live or not.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.done)
}

// lookup must be called with c.mu held.
func (c *Cache[K, V]) lookup(k K) (V, bool) {
	var zero V
	e, ok := c.done[k]
	if !ok {
		return zero, false
	}
	if e.pinned != nil && !e.until.IsZero() && c.now().After(e.until) {
		e.pinned = nil
	}
	if vp := e.weak.Value(); vp != nil {
		return *vp, true
	}
	delete(c.done, k)
	return zero, false
}

// start must be called with c.mu held.
func (c *Cache[K, V]) start(k K) *call[V] {
	cl := &call[V]{done: make(chan struct{})}
	c.running[k] = cl
	return cl
}

// run computes k and publishes the outcome. A panic in fn is reported to
// waiters as an error, and the key is released before the panic continues.
func (c *Cache[K, V]) run(ctx context.Context, k K, cl *call[V]) (V, error) {
	normal := false
	defer func() {
		var r any
		if !normal {
			r = recover()
			cl.err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
		c.finish(k, cl)
		if r != nil {
			panic(r)
		}
	}()

	cl.val, cl.err = c.fn(ctx, k)
	normal = true
	return cl.val, cl.err
}

func (c *Cache[K, V]) finish(k K, cl *call[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cl.err == nil {
		v := new(V)
		*v = cl.val
		e := &entry[V]{weak: weak.Make(v), pinned: v}
		if c.ttl > 0 {
			e.until = c.now().Add(c.ttl)
		}
		c.done[k] = e
	}
	delete(c.running, k)
	close(cl.done)
}

func (c *Cache[K, V]) wait(ctx context.Context, cl *call[V]) (V, error) {
	select {
	case <-cl.done:
		return cl.val, cl.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
