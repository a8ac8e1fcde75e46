package mainloop

import (
	"context"
	"sync"
)

// Loop runs posted functions one at a time, in posting order, on a single
// goroutine. Post never blocks, so it is safe to call while holding locks.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
	idle    *sync.Cond
	running bool
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop() *Loop {
	l := &Loop{wake: make(chan struct{}, 1)}
	l.idle = sync.NewCond(&l.mu)
	return l
}

// Post appends fn to the queue. Work posted after Run returned is dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes queued work until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.idle.Broadcast()
		l.mu.Unlock()
	}()

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.running = len(batch) > 0
		if !l.running {
			l.idle.Broadcast()
		}
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// Drain blocks until the queue is empty and no work is running, or the loop
// has stopped. Must not be called from loop work.
func (l *Loop) Drain() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for !l.stopped && (len(l.queue) > 0 || l.running) {
		l.idle.Wait()
	}
}
