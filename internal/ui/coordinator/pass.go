package coordinator

import (
	"context"
	"sync"

	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
)

// scrollRestore computes the scroll offset to apply on a freshly laid out
// document once its render pass settles.
type scrollRestore func(layout []entity.PageRect) float64

func atPage(page int) scrollRestore {
	return func(layout []entity.PageRect) float64 {
		return usecase.ScrollTargetForPage(layout, page)
	}
}

func atOffset(offset float64) scrollRestore {
	return func([]entity.PageRect) float64 { return offset }
}

func atAnchor(page int, fraction float64) scrollRestore {
	if page < 1 {
		return atOffset(0)
	}
	return func(layout []entity.PageRect) float64 {
		return usecase.OffsetForAnchor(layout, page, fraction)
	}
}

// RenderPass is one full render of the active tab at one scale. A pass that
// was superseded by a newer one (tab switch, zoom, close) settles without
// touching the view.
type RenderPass struct {
	TabID entity.TabID
	Scale float64

	generation uint64
	restore    scrollRestore // guarded by the coordinator state lock
	done       chan struct{}

	mu         sync.Mutex
	superseded bool
	results    []usecase.PageResult
}

func newRenderPass(tabID entity.TabID, scale float64, generation uint64, restore scrollRestore) *RenderPass {
	return &RenderPass{
		TabID:      tabID,
		Scale:      scale,
		generation: generation,
		restore:    restore,
		done:       make(chan struct{}),
	}
}

// Done is closed once every page of the pass has settled.
func (p *RenderPass) Done() <-chan struct{} {
	if p == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

// Wait blocks until the pass settles or ctx ends. A nil pass is settled.
func (p *RenderPass) Wait(ctx context.Context) error {
	select {
	case <-p.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Superseded reports whether a newer pass replaced this one.
func (p *RenderPass) Superseded() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.superseded
}

// Results returns the per-page outcomes once the pass has settled.
func (p *RenderPass) Results() []usecase.PageResult {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// FailedPages lists the pages that could not be rendered.
func (p *RenderPass) FailedPages() []int {
	var failed []int
	for _, r := range p.Results() {
		if r.Status() == entity.RenderFailed {
			failed = append(failed, r.Page)
		}
	}
	return failed
}

func (p *RenderPass) markSuperseded() {
	p.mu.Lock()
	p.superseded = true
	p.mu.Unlock()
}

func (p *RenderPass) settle(results []usecase.PageResult) {
	p.mu.Lock()
	p.results = results
	p.mu.Unlock()
	close(p.done)
}
