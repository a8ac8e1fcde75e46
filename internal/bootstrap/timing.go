package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/tooldeck/internal/logging"
)

// StartupTimer tracks how long each wiring phase took.
type StartupTimer struct {
	start  time.Time
	phases map[string]time.Duration
	order  []string
	last   time.Time
	mu     sync.Mutex
}

// NewStartupTimer creates a new timer starting from now.
func NewStartupTimer() *StartupTimer {
	now := time.Now()
	return &StartupTimer{
		start:  now,
		phases: make(map[string]time.Duration),
		order:  make([]string, 0),
		last:   now,
	}
}

// Mark records the duration since the last mark (or start) for the given phase.
func (t *StartupTimer) Mark(phase string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if _, seen := t.phases[phase]; !seen {
		t.order = append(t.order, phase)
	}
	t.phases[phase] = now.Sub(t.last)
	t.last = now
}

// Phase returns the recorded duration of a phase.
func (t *StartupTimer) Phase(phase string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.phases[phase]
	return d, ok
}

// Phases lists recorded phases in the order they were first marked.
func (t *StartupTimer) Phases() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// LogDebug writes every phase duration in one debug line.
func (t *StartupTimer) LogDebug(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := logging.FromContext(ctx).Debug().Dur("total", time.Since(t.start))
	for _, phase := range t.order {
		event = event.Dur(phase, t.phases[phase])
	}
	event.Msg("startup timing")
}
