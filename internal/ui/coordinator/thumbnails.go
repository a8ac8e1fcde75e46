package coordinator

import (
	"context"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// DefaultThumbnailScale is the raster scale of preview thumbnails.
const DefaultThumbnailScale = 0.2

// ThumbnailCoordinator owns the preview strip: lazy rendering of page
// thumbnails as they scroll into view, and the expanded/collapsed toggle.
type ThumbnailCoordinator struct {
	*state

	renderUC *usecase.RenderPagesUseCase
	view     *ViewCoordinator
	observer port.VisibilityObserver
	scale    float64
	gap      float64
}

func newThumbnailCoordinator(ctx context.Context, s *state, view *ViewCoordinator, cfg Config) *ThumbnailCoordinator {
	logging.FromContext(ctx).Debug().Msg("creating thumbnail coordinator")

	scale := cfg.ThumbnailScale
	if scale <= 0 {
		scale = DefaultThumbnailScale
	}
	observer := cfg.Observer
	if observer == nil {
		observer = eagerObserver{}
	}
	return &ThumbnailCoordinator{
		state:    s,
		renderUC: cfg.RenderUC,
		view:     view,
		observer: observer,
		scale:    scale,
		gap:      max(0, cfg.ThumbnailGap),
	}
}

// Expand shows the strip and observes every slot still lacking a thumbnail.
func (t *ThumbnailCoordinator) Expand(ctx context.Context) {
	t.mu.Lock()
	t.expanded = true
	t.unlock()

	logging.FromContext(ctx).Debug().Msg("thumbnail strip expanded")
	t.refresh(ctx, false)
}

// Collapse hides the strip. Rendered thumbnails are kept.
func (t *ThumbnailCoordinator) Collapse(ctx context.Context) {
	t.mu.Lock()
	t.expanded = false
	t.unlock()

	t.observer.Disconnect()
	logging.FromContext(ctx).Debug().Msg("thumbnail strip collapsed")
}

// Toggle flips the strip and returns the new expanded state.
func (t *ThumbnailCoordinator) Toggle(ctx context.Context) bool {
	if t.Expanded() {
		t.Collapse(ctx)
		return false
	}
	t.Expand(ctx)
	return true
}

// Expanded reports whether the strip is visible.
func (t *ThumbnailCoordinator) Expanded() bool {
	t.mu.Lock()
	defer t.unlock()
	return t.expanded
}

// Slots returns one slot per page of the active tab, marking the current page.
func (t *ThumbnailCoordinator) Slots() []entity.ThumbnailSlot {
	t.mu.Lock()
	defer t.unlock()

	tab, res := t.activeLocked()
	if tab == nil || res == nil {
		return nil
	}
	slots := make([]entity.ThumbnailSlot, tab.TotalPages)
	for i := range slots {
		page := i + 1
		img, _ := res.thumbs.Get(page)
		slots[i] = entity.ThumbnailSlot{Page: page, Surface: img, Active: page == tab.CurrentPage}
	}
	return slots
}

// Layout stacks the active tab's slots at thumbnail scale, in strip pixels.
func (t *ThumbnailCoordinator) Layout() []entity.PageRect {
	t.mu.Lock()
	defer t.unlock()

	_, res := t.activeLocked()
	if res == nil {
		return nil
	}
	return usecase.LayoutPages(res.sizes, t.scale, t.gap)
}

// Scale returns the thumbnail raster scale.
func (t *ThumbnailCoordinator) Scale() float64 {
	return t.scale
}

// ClickSlot navigates the main view to the slot's page.
func (t *ThumbnailCoordinator) ClickSlot(ctx context.Context, page int) bool {
	return t.view.GoToPage(ctx, page)
}

// refresh re-observes the active tab's unrendered slots after the strip was
// expanded or the active tab changed. A tab change also scrolls the strip
// back to its first slot.
func (t *ThumbnailCoordinator) refresh(ctx context.Context, tabChanged bool) {
	if scroller, ok := t.observer.(port.StripScroller); ok && tabChanged {
		scroller.ResetScroll()
	}

	t.mu.Lock()
	if !t.expanded {
		t.unlock()
		return
	}
	tab, res := t.activeLocked()
	var (
		tabID entity.TabID
		pages []int
	)
	if tab != nil && res != nil {
		tabID = tab.ID
		for page := 1; page <= tab.TotalPages; page++ {
			if !res.thumbs.Has(page) {
				pages = append(pages, page)
			}
		}
	}
	t.unlock()

	t.observer.Disconnect()
	if tabID == "" {
		return
	}

	logging.FromContext(ctx).Debug().
		Str("tab_id", string(tabID)).
		Int("slots", len(pages)).
		Msg("observing thumbnail slots")

	asyncCtx := context.WithoutCancel(ctx)
	for _, page := range pages {
		t.observer.Observe(page, func() { t.onVisible(asyncCtx, tabID, page) })
	}
}

// onVisible requests a thumbnail render for a slot that scrolled into view.
// Rendered and in-flight slots are never requested twice.
func (t *ThumbnailCoordinator) onVisible(ctx context.Context, tabID entity.TabID, page int) {
	t.mu.Lock()
	defer t.unlock()

	if !t.expanded || t.tabs.ActiveTabID != tabID {
		return
	}
	res := t.resources[tabID]
	if res == nil || !res.thumbs.MarkPending(page) {
		return
	}

	t.spawn(res, func() {
		rp, err := t.renderUC.RenderPage(ctx, res.doc, page, t.scale)
		t.finishThumbnail(ctx, tabID, res, page, rp, err)
	})
}

func (t *ThumbnailCoordinator) finishThumbnail(
	ctx context.Context,
	tabID entity.TabID,
	res *tabResources,
	page int,
	rp *entity.RenderedPage,
	err error,
) {
	log := logging.FromContext(ctx)

	t.mu.Lock()
	if t.resources[tabID] != res {
		t.unlock()
		t.metrics.ThumbnailRendered(entity.RenderDiscarded)
		return
	}
	if err != nil {
		res.thumbs.Fail(page)
		t.unlock()
		t.metrics.ThumbnailRendered(entity.RenderFailed)
		log.Warn().Err(err).Str("tab_id", string(tabID)).Int("page", page).Msg("thumbnail render failed")
		return
	}

	res.thumbs.Put(page, rp.Surface)
	active := t.tabs.ActiveTabID == tabID
	if active {
		t.emit(func(ev port.ViewerEvents) { ev.ThumbnailReady(ctx, tabID, page) })
	}
	t.unlock()

	t.metrics.ThumbnailRendered(entity.RenderReady)
	if active {
		t.observer.Unobserve(page)
	}
}

// eagerObserver treats every slot as visible. It serves hosts without a
// scrolling strip.
type eagerObserver struct{}

func (eagerObserver) Observe(_ int, onVisible func()) { onVisible() }
func (eagerObserver) Unobserve(int)                   {}
func (eagerObserver) Disconnect()                     {}
