// Package mainloop serializes presentation-side work onto a single logical
// thread of control.
package mainloop

import "sync"

// PostFunc schedules fn on the owning loop.
type PostFunc func(fn func())

// Synchronous runs work immediately on the calling goroutine.
func Synchronous(fn func()) { fn() }

// Coalescer merges bursts of same-key tasks into one scheduled run that
// executes the latest callback.
type Coalescer struct {
	mu        sync.Mutex
	pending   map[string]bool
	callbacks map[string]func()
	post      PostFunc
	destroyed bool
}

func NewCoalescer(post PostFunc) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}

	return &Coalescer{
		pending:   make(map[string]bool),
		callbacks: make(map[string]func()),
		post:      post,
	}
}

// Post records fn as the latest work for key and schedules a run unless one
// is already pending.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.callbacks[key] = fn
	if c.pending[key] {
		c.mu.Unlock()
		return
	}
	c.pending[key] = true
	post := c.post
	c.mu.Unlock()

	post(func() { c.run(key) })
}

// Pending reports whether work for key is scheduled but has not run yet.
func (c *Coalescer) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[key]
}

func (c *Coalescer) run(key string) {
	c.mu.Lock()
	if c.destroyed {
		delete(c.pending, key)
		delete(c.callbacks, key)
		c.mu.Unlock()
		return
	}
	fn := c.callbacks[key]
	delete(c.pending, key)
	delete(c.callbacks, key)
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Destroy drops all pending work; later posts are ignored.
func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.pending = map[string]bool{}
	c.callbacks = map[string]func(){}
	c.mu.Unlock()
}
