package usecase

import (
	"context"
	"math"

	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// DefaultPageGap is the vertical space between page surfaces, in pixels.
const DefaultPageGap = 10.0

// ReconcileScrollUseCase maps between a continuous scroll position and the
// discrete current page.
type ReconcileScrollUseCase struct {
	pageGap float64
}

// NewReconcileScrollUseCase creates the reconciler. A negative gap selects
// DefaultPageGap.
func NewReconcileScrollUseCase(pageGap float64) *ReconcileScrollUseCase {
	if pageGap < 0 {
		pageGap = DefaultPageGap
	}
	return &ReconcileScrollUseCase{pageGap: pageGap}
}

// Layout stacks pages top to bottom at the given scale.
func (uc *ReconcileScrollUseCase) Layout(sizes []entity.Size, scale float64) []entity.PageRect {
	return LayoutPages(sizes, scale, uc.pageGap)
}

// ReconcileInput is the geometry observed at a scroll event.
type ReconcileInput struct {
	Rects       []entity.PageRect
	Viewport    entity.ViewportGeometry
	CurrentPage int
	// Rendered reports whether a page currently has a surface. Pages still
	// showing a placeholder are not candidates.
	Rendered func(page int) bool
}

// ReconcileOutput is the page nearest to the viewport midpoint.
type ReconcileOutput struct {
	Page    int
	Changed bool
}

// Reconcile selects the rendered page whose midpoint is closest to the
// viewport midpoint. With no rendered page the current page is kept.
func (uc *ReconcileScrollUseCase) Reconcile(ctx context.Context, input ReconcileInput) ReconcileOutput {
	midpoint := input.Viewport.Midpoint()
	page, ok := NearestPage(input.Rects, midpoint, input.Rendered)
	if !ok {
		return ReconcileOutput{Page: input.CurrentPage}
	}

	out := ReconcileOutput{Page: page, Changed: page != input.CurrentPage}
	if out.Changed {
		logging.FromContext(ctx).Trace().
			Float64("midpoint", midpoint).
			Int("from", input.CurrentPage).
			Int("to", page).
			Msg("current page reconciled from scroll")
	}
	return out
}

// LayoutPages stacks page rects vertically with gap pixels between them.
func LayoutPages(sizes []entity.Size, scale, gap float64) []entity.PageRect {
	rects := make([]entity.PageRect, len(sizes))
	top := 0.0
	for i, size := range sizes {
		h := size.Height * scale
		rects[i] = entity.PageRect{Page: i + 1, Top: top, Height: h}
		top += h + gap
	}
	return rects
}

// ContentHeight returns the total scrollable height of a layout.
func ContentHeight(rects []entity.PageRect) float64 {
	if len(rects) == 0 {
		return 0
	}
	return rects[len(rects)-1].Bottom()
}

// NearestPage returns the page whose midpoint is closest to midpoint among
// rects accepted by include (nil accepts all). Ties resolve to the lower page.
func NearestPage(rects []entity.PageRect, midpoint float64, include func(int) bool) (int, bool) {
	best := 0
	bestDistance := math.Inf(1)
	for _, r := range rects {
		if include != nil && !include(r.Page) {
			continue
		}
		d := math.Abs(r.Midpoint() - midpoint)
		if d < bestDistance || (d == bestDistance && r.Page < best) {
			best = r.Page
			bestDistance = d
		}
	}
	return best, best > 0
}

// ScrollTargetForPage returns the scroll offset that brings a page's top
// edge to the top of the viewport.
func ScrollTargetForPage(rects []entity.PageRect, page int) float64 {
	for _, r := range rects {
		if r.Page == page {
			return r.Top
		}
	}
	return 0
}

// ScrollAnchor locates an offset as a page and a fraction through it.
// Offsets in a gap snap to the following page's top.
func ScrollAnchor(rects []entity.PageRect, offset float64) (page int, fraction float64) {
	if len(rects) == 0 {
		return 0, 0
	}
	for _, r := range rects {
		if offset < r.Top {
			return r.Page, 0
		}
		if offset < r.Bottom() {
			if r.Height <= 0 {
				return r.Page, 0
			}
			return r.Page, (offset - r.Top) / r.Height
		}
	}
	return rects[len(rects)-1].Page, 1
}

// OffsetForAnchor is the inverse of ScrollAnchor on another layout.
func OffsetForAnchor(rects []entity.PageRect, page int, fraction float64) float64 {
	for _, r := range rects {
		if r.Page == page {
			return r.Top + fraction*r.Height
		}
	}
	return 0
}
