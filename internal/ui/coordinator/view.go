package coordinator

import (
	"context"
	"time"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
	"github.com/bnema/tooldeck/internal/ui/mainloop"
)

const reconcileKey = "reconcile-scroll"

// ReconcileState tells whether a scroll reconciliation is queued.
type ReconcileState string

const (
	ReconcileSettled     ReconcileState = "settled"
	ReconcileReconciling ReconcileState = "reconciling"
)

// ViewCoordinator drives the main document view: render passes, zoom,
// page navigation and scroll reconciliation.
type ViewCoordinator struct {
	*state

	tabsUC   *usecase.ManageTabsUseCase
	zoomUC   *usecase.ManageZoomUseCase
	renderUC *usecase.RenderPagesUseCase
	scrollUC *usecase.ReconcileScrollUseCase

	coalescer *mainloop.Coalescer
}

func newViewCoordinator(ctx context.Context, s *state, cfg Config) *ViewCoordinator {
	logging.FromContext(ctx).Debug().Msg("creating view coordinator")

	return &ViewCoordinator{
		state:     s,
		tabsUC:    cfg.TabsUC,
		zoomUC:    cfg.ZoomUC,
		renderUC:  cfg.RenderUC,
		scrollUC:  cfg.ScrollUC,
		coalescer: mainloop.NewCoalescer(s.post),
	}
}

// startPassLocked discards the current render context and renders every page
// of tab at its persisted scale. Callers hold mu.
func (v *ViewCoordinator) startPassLocked(ctx context.Context, tab *entity.Tab, res *tabResources, restore scrollRestore) *RenderPass {
	v.discardRenderLocked()

	gen := v.render.generation
	pass := newRenderPass(tab.ID, tab.Scale, gen, restore)
	v.render = renderContext{
		tabID:      tab.ID,
		generation: gen,
		cache:      entity.NewSurfaceCache(tab.Scale),
		layout:     v.scrollUC.Layout(res.sizes, tab.Scale),
		pass:       pass,
	}

	log := logging.FromContext(ctx)
	log.Debug().
		Str("tab_id", string(tab.ID)).
		Uint64("generation", gen).
		Float64("scale", tab.Scale).
		Int("pages", tab.TotalPages).
		Msg("starting render pass")

	tabID := tab.ID
	for page := 1; page <= tab.TotalPages; page++ {
		v.emit(func(ev port.ViewerEvents) { ev.RenderProgress(ctx, tabID, page, entity.RenderPending) })
	}

	// The pass outlives the request that started it.
	passCtx := context.WithoutCancel(ctx)
	doc := res.doc
	v.spawn(res, func() {
		start := time.Now()
		results := v.renderUC.RenderAll(passCtx, doc, pass.Scale, func(r usecase.PageResult) {
			v.applyPageResult(passCtx, pass, r)
		})
		v.finishPass(passCtx, pass, results, time.Since(start))
	})

	return pass
}

func (v *ViewCoordinator) applyPageResult(ctx context.Context, pass *RenderPass, r usecase.PageResult) {
	v.mu.Lock()
	defer v.unlock()

	if !v.isCurrentLocked(pass) {
		v.metrics.PageRendered(entity.RenderDiscarded)
		logging.FromContext(ctx).Trace().
			Str("tab_id", string(pass.TabID)).
			Int("page", r.Page).
			Msg("discarding stale page surface")
		return
	}

	status := r.Status()
	if status == entity.RenderReady && !v.render.cache.Put(r.Rendered) {
		status = entity.RenderDiscarded
	}
	v.metrics.PageRendered(status)

	tabID, page := pass.TabID, r.Page
	v.emit(func(ev port.ViewerEvents) { ev.RenderProgress(ctx, tabID, page, status) })
}

// finishPass settles the pass once its events have been handed over, so a
// waiter observes the final view state.
func (v *ViewCoordinator) finishPass(ctx context.Context, pass *RenderPass, results []usecase.PageResult, elapsed time.Duration) {
	v.mu.Lock()
	v.finishPassLocked(ctx, pass, results, elapsed)
	v.unlock()
	pass.settle(results)
}

func (v *ViewCoordinator) finishPassLocked(ctx context.Context, pass *RenderPass, results []usecase.PageResult, elapsed time.Duration) {
	log := logging.FromContext(ctx)
	if !v.isCurrentLocked(pass) {
		pass.markSuperseded()
		log.Debug().
			Str("tab_id", string(pass.TabID)).
			Uint64("generation", pass.generation).
			Msg("render pass superseded")
		return
	}

	v.metrics.PassCompleted(len(results), elapsed)
	v.render.pass = nil

	tab := v.tabs.Find(pass.TabID)
	if tab == nil {
		return
	}

	offset := v.clampOffsetLocked(pass.restore(v.render.layout))
	v.viewport.ScrollTop = offset
	tab.Apply(entity.ScrollUpdate(offset))

	log.Debug().
		Str("tab_id", string(tab.ID)).
		Int("rendered", v.render.cache.Len()).
		Int("pages", len(results)).
		Float64("scroll_top", offset).
		Dur("elapsed", elapsed).
		Msg("render pass settled")

	v.emitViewState(ctx, tab)
}

func (v *ViewCoordinator) clampOffsetLocked(offset float64) float64 {
	maxOffset := max(0, usecase.ContentHeight(v.render.layout)-v.viewport.Height)
	return min(max(0, offset), maxOffset)
}

// ReRenderAll renders every page of the active tab again at its current
// scale, keeping the reading position.
func (v *ViewCoordinator) ReRenderAll(ctx context.Context) *RenderPass {
	v.mu.Lock()
	defer v.unlock()

	tab, res := v.activeLocked()
	if tab == nil || res == nil {
		return nil
	}
	return v.startPassLocked(ctx, tab, res, v.anchorLocked())
}

// anchorLocked captures the reading position as a page plus fraction so it
// survives a layout change.
func (v *ViewCoordinator) anchorLocked() scrollRestore {
	page, fraction := usecase.ScrollAnchor(v.render.layout, v.viewport.ScrollTop)
	return atAnchor(page, fraction)
}

// ZoomIn multiplies the active tab's scale by the zoom factor.
func (v *ViewCoordinator) ZoomIn(ctx context.Context) *RenderPass {
	return v.applyZoom(ctx, func(cur float64) (usecase.ZoomChange, error) {
		return v.zoomUC.ZoomIn(ctx, cur), nil
	})
}

// ZoomOut divides the active tab's scale by the zoom factor.
func (v *ViewCoordinator) ZoomOut(ctx context.Context) *RenderPass {
	return v.applyZoom(ctx, func(cur float64) (usecase.ZoomChange, error) {
		return v.zoomUC.ZoomOut(ctx, cur), nil
	})
}

// ResetZoom returns to the default scale and always re-renders.
func (v *ViewCoordinator) ResetZoom(ctx context.Context) *RenderPass {
	return v.applyZoom(ctx, func(cur float64) (usecase.ZoomChange, error) {
		return v.zoomUC.Reset(ctx, cur), nil
	})
}

// FitToWidth scales the active tab so its first page fills the viewport width.
func (v *ViewCoordinator) FitToWidth(ctx context.Context) *RenderPass {
	return v.applyZoom(ctx, func(cur float64) (usecase.ZoomChange, error) {
		_, res := v.activeLocked()
		width := entity.DefaultPageSize.Width
		if len(res.sizes) > 0 {
			width = res.sizes[0].Width
		}
		return v.zoomUC.FitToWidth(ctx, cur, v.viewport.Width, width)
	})
}

// applyZoom persists the new scale on the tab before re-rendering, so a
// concurrent tab switch can never observe the old scale.
func (v *ViewCoordinator) applyZoom(ctx context.Context, compute func(cur float64) (usecase.ZoomChange, error)) *RenderPass {
	log := logging.FromContext(ctx)

	v.mu.Lock()
	defer v.unlock()

	tab, res := v.activeLocked()
	if tab == nil || res == nil {
		log.Debug().Msg("zoom ignored: no active tab")
		return nil
	}

	change, err := compute(tab.Scale)
	if err != nil {
		log.Warn().Err(err).Msg("zoom computation failed")
		return nil
	}
	if !change.Changed {
		return nil
	}

	restore := v.anchorLocked()
	// The stored offset moves to the new layout with the scale. A tab switch
	// before the pass settles restores from it.
	next := v.scrollUC.Layout(res.sizes, change.To)
	offset := min(max(0, restore(next)), max(0, usecase.ContentHeight(next)-v.viewport.Height))
	update := entity.ViewStateUpdate{Scale: &change.To, ScrollOffset: &offset}
	if _, _, err := v.tabsUC.Update(ctx, v.tabs, tab.ID, update); err != nil {
		log.Error().Err(err).Msg("failed to persist scale")
		return nil
	}

	pct := entity.ScalePercentage(tab.Scale)
	notify := v.notify
	v.queue(func() { notify.ShowZoom(ctx, pct) })

	return v.startPassLocked(ctx, tab, res, restore)
}

// GoToPage scrolls the main view to page n (clamped). Returns false when the
// page was already current or no tab is open.
func (v *ViewCoordinator) GoToPage(ctx context.Context, n int) bool {
	v.mu.Lock()
	defer v.unlock()
	return v.goToPageLocked(ctx, n)
}

func (v *ViewCoordinator) goToPageLocked(ctx context.Context, n int) bool {
	tab, _ := v.activeLocked()
	if tab == nil {
		return false
	}
	page := tab.ClampPage(n)
	if page == tab.CurrentPage {
		return false
	}

	if v.render.pass != nil {
		v.render.pass.restore = atPage(page)
	}
	offset := v.clampOffsetLocked(usecase.ScrollTargetForPage(v.render.layout, page))
	v.viewport.ScrollTop = offset
	tab.Apply(entity.ViewStateUpdate{CurrentPage: &page, ScrollOffset: &offset})

	logging.FromContext(ctx).Debug().
		Str("tab_id", string(tab.ID)).
		Int("page", page).
		Float64("scroll_top", offset).
		Msg("navigated to page")

	v.emitViewState(ctx, tab)
	return true
}

// PreviousPage moves one page back.
func (v *ViewCoordinator) PreviousPage(ctx context.Context) bool {
	v.mu.Lock()
	defer v.unlock()
	tab, _ := v.activeLocked()
	if tab == nil {
		return false
	}
	return v.goToPageLocked(ctx, tab.CurrentPage-1)
}

// NextPage moves one page forward.
func (v *ViewCoordinator) NextPage(ctx context.Context) bool {
	v.mu.Lock()
	defer v.unlock()
	tab, _ := v.activeLocked()
	if tab == nil {
		return false
	}
	return v.goToPageLocked(ctx, tab.CurrentPage+1)
}

// NotifyScroll records a scroll of the main view and schedules a coalesced
// reconciliation of the current page.
func (v *ViewCoordinator) NotifyScroll(ctx context.Context, offset float64) {
	v.mu.Lock()
	offset = max(0, offset)
	v.viewport.ScrollTop = offset
	if tab, _ := v.activeLocked(); tab != nil {
		tab.Apply(entity.ScrollUpdate(offset))
		if v.render.pass != nil {
			v.render.pass.restore = atOffset(offset)
		}
	}
	v.unlock()

	v.coalescer.Post(reconcileKey, func() { v.reconcile(ctx) })
}

// SetViewportSize records the visible area of the main view. The current
// page is reconciled against the new size.
func (v *ViewCoordinator) SetViewportSize(ctx context.Context, width, height float64) {
	v.mu.Lock()
	v.viewport.Width = max(0, width)
	v.viewport.Height = max(0, height)
	v.unlock()

	logging.FromContext(ctx).Debug().
		Float64("width", width).
		Float64("height", height).
		Msg("viewport resized")

	v.coalescer.Post(reconcileKey, func() { v.reconcile(ctx) })
}

func (v *ViewCoordinator) reconcile(ctx context.Context) {
	v.mu.Lock()
	defer v.unlock()

	tab, _ := v.activeLocked()
	if tab == nil || v.render.tabID != tab.ID {
		return
	}

	cache := v.render.cache
	out := v.scrollUC.Reconcile(ctx, usecase.ReconcileInput{
		Rects:       v.render.layout,
		Viewport:    v.viewport,
		CurrentPage: tab.CurrentPage,
		Rendered:    cache.Has,
	})
	if !out.Changed {
		return
	}
	if _, _, err := v.tabsUC.Update(ctx, v.tabs, tab.ID, entity.PageUpdate(out.Page)); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to update current page")
		return
	}
	v.emitViewState(ctx, tab)
}

// ReconcileState reports whether a scroll reconciliation is still queued.
func (v *ViewCoordinator) ReconcileState() ReconcileState {
	if v.coalescer.Pending(reconcileKey) {
		return ReconcileReconciling
	}
	return ReconcileSettled
}

// ViewState returns the active tab's view state.
func (v *ViewCoordinator) ViewState() (entity.ViewState, bool) {
	v.mu.Lock()
	defer v.unlock()
	tab, _ := v.activeLocked()
	if tab == nil {
		return entity.ViewState{}, false
	}
	return tab.ViewState(), true
}

// Viewport returns the current main view geometry.
func (v *ViewCoordinator) Viewport() entity.ViewportGeometry {
	v.mu.Lock()
	defer v.unlock()
	return v.viewport
}

// Layout returns a copy of the page rectangles of the active render context.
func (v *ViewCoordinator) Layout() []entity.PageRect {
	v.mu.Lock()
	defer v.unlock()
	return append([]entity.PageRect(nil), v.render.layout...)
}

// Surface returns the rendered surface of a page of the active tab.
func (v *ViewCoordinator) Surface(page int) (*entity.RenderedPage, bool) {
	v.mu.Lock()
	defer v.unlock()
	if v.render.cache == nil {
		return nil, false
	}
	return v.render.cache.Get(page)
}

// RenderedPages lists pages of the active tab with a surface, ascending.
func (v *ViewCoordinator) RenderedPages() []int {
	v.mu.Lock()
	defer v.unlock()
	if v.render.cache == nil {
		return nil
	}
	return v.render.cache.Pages()
}

// CurrentPass returns the in-flight render pass, or nil once settled.
func (v *ViewCoordinator) CurrentPass() *RenderPass {
	v.mu.Lock()
	defer v.unlock()
	return v.render.pass
}
