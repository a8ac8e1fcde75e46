package mainloop

import (
	"context"
	"sync"
	"testing"
)

func TestLoopRunsWorkInPostingOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLoop()
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	var mu sync.Mutex
	got := make([]int, 0, 100)
	for i := range 100 {
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	l.Drain()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 100 {
		t.Fatalf("expected 100 runs, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("expected posting order, got %d at %d", v, i)
		}
	}

	cancel()
	<-done
}

func TestLoopWorkCanPostMoreWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLoop()
	go l.Run(ctx)

	ran := make(chan struct{})
	l.Post(func() {
		l.Post(func() { close(ran) })
	})
	<-ran
}

func TestLoopDropsWorkAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop()
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	ran := false
	l.Post(func() { ran = true })
	l.Drain()
	if ran {
		t.Fatalf("expected work posted after stop to be dropped")
	}
}
