package coordinator

import (
	"context"
	"sync"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
	"github.com/bnema/tooldeck/internal/ui/mainloop"
)

// tabResources is what the session owns for one tab besides its entity.
type tabResources struct {
	doc    port.Document
	sizes  []entity.Size
	thumbs *entity.ThumbnailSet
	// inflight counts render goroutines still using doc.
	inflight sync.WaitGroup
}

// release closes the document once every render using it has settled.
func (r *tabResources) release(ctx context.Context) {
	go func() {
		r.inflight.Wait()
		if err := r.doc.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("failed to close document")
		}
	}()
}

// renderContext is the main view's active render context. Only surfaces for
// tabID at the cache's scale are ever shown.
type renderContext struct {
	tabID      entity.TabID
	generation uint64
	cache      *entity.SurfaceCache
	layout     []entity.PageRect
	pass       *RenderPass // in flight, nil once settled
}

// state is shared by the session, view and thumbnail coordinators. Every
// mutation happens under mu, which makes the coordinators behave as a single
// logical thread even though rasterization runs on worker goroutines.
type state struct {
	mu sync.Mutex

	tabs      *entity.TabList
	resources map[entity.TabID]*tabResources
	render    renderContext
	viewport  entity.ViewportGeometry
	expanded  bool

	events  port.ViewerEvents
	notify  port.Notification
	metrics port.RenderMetrics
	post    mainloop.PostFunc

	// outbox holds work queued under mu, handed to post by unlock.
	outbox     []func()
	delivering bool

	// workers tracks every render goroutine for Flush.
	workers sync.WaitGroup
}

func newState(cfg Config) *state {
	s := &state{
		tabs:      entity.NewTabList(),
		resources: make(map[entity.TabID]*tabResources),
		viewport:  cfg.Viewport,
		expanded:  cfg.ThumbnailsExpanded,
		events:    cfg.Events,
		notify:    cfg.Notification,
		metrics:   cfg.Metrics,
		post:      cfg.Post,
	}
	if s.events == nil {
		s.events = port.NopViewerEvents{}
	}
	if s.notify == nil {
		s.notify = port.NopNotification{}
	}
	if s.metrics == nil {
		s.metrics = port.NopRenderMetrics{}
	}
	if s.post == nil {
		s.post = mainloop.Synchronous
	}
	return s
}

// emit queues an event in production order. Callers hold mu.
func (s *state) emit(fn func(events port.ViewerEvents)) {
	events := s.events
	s.queue(func() { fn(events) })
}

// queue defers fn until mu is released. Callers hold mu.
func (s *state) queue(fn func()) {
	s.outbox = append(s.outbox, fn)
}

// unlock releases mu and posts queued work in production order, so sinks
// never run under the lock and may call back into the viewer. One goroutine
// delivers at a time; work queued meanwhile, including by a sink, is picked
// up by the same loop.
func (s *state) unlock() {
	if s.delivering || len(s.outbox) == 0 {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.outbox) > 0 {
		batch := s.outbox
		s.outbox = nil
		s.mu.Unlock()
		for _, fn := range batch {
			s.post(fn)
		}
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

// emitViewState publishes the tab's view state unless a render pass is still
// settling; the pass publishes once it finishes.
func (s *state) emitViewState(ctx context.Context, tab *entity.Tab) {
	if tab == nil || s.render.pass != nil || s.tabs.ActiveTabID != tab.ID {
		return
	}
	vs := tab.ViewState()
	s.emit(func(ev port.ViewerEvents) { ev.ViewStateChanged(ctx, vs) })
}

// activeLocked returns the active tab and its resources.
func (s *state) activeLocked() (*entity.Tab, *tabResources) {
	tab := s.tabs.ActiveTab()
	if tab == nil {
		return nil, nil
	}
	return tab, s.resources[tab.ID]
}

// discardRenderLocked invalidates the active render context. Results of the
// superseded pass are dropped as they arrive.
func (s *state) discardRenderLocked() {
	if s.render.pass != nil {
		s.render.pass.markSuperseded()
	}
	s.render = renderContext{generation: s.render.generation + 1}
}

func (s *state) isCurrentLocked(p *RenderPass) bool {
	return p.generation == s.render.generation && p.TabID == s.render.tabID
}

// spawn registers a render goroutine against the tab's document.
func (s *state) spawn(res *tabResources, fn func()) {
	res.inflight.Add(1)
	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		defer res.inflight.Done()
		fn()
	}()
}

// flush waits for every render goroutine started so far.
func (s *state) flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
