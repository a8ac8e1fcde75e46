package coordinator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/ui/coordinator"
)

func TestRenderPass_FailedPageDoesNotStopSiblings(t *testing.T) {
	h := newHarness(t)
	doc := newFakeDoc(20)
	doc.failOn[7] = true

	_, pass, err := h.viewer.Session.CreateTab(context.Background(), "big.pdf", doc, "")
	require.NoError(t, err)
	h.wait(t, pass)

	assert.Equal(t, []int{7}, pass.FailedPages())
	rendered := h.viewer.View.RenderedPages()
	assert.Len(t, rendered, 19)
	assert.NotContains(t, rendered, 7)

	var failed []int
	for _, e := range h.rec.of("progress") {
		if e.status == entity.RenderFailed {
			failed = append(failed, e.page)
		}
	}
	assert.Equal(t, []int{7}, failed)
}

func TestRenderPass_StaleResultsAreDiscarded(t *testing.T) {
	h := newHarness(t)
	slow := newFakeDoc(5)
	gate := make(chan struct{})
	slow.setGate(gate)

	slowID, slowPass, err := h.viewer.Session.CreateTab(context.Background(), "slow.pdf", slow, "")
	require.NoError(t, err)

	fastID := h.open(t, "fast.pdf", newFakeDoc(2))
	close(gate)
	h.wait(t, slowPass)
	h.flush(t)

	assert.True(t, slowPass.Superseded())
	assert.Equal(t, fastID, h.viewer.Session.ActiveTabID())
	assert.Equal(t, []int{1, 2}, h.viewer.View.RenderedPages())

	for _, e := range h.rec.of("progress") {
		if e.tabID == slowID {
			assert.NotEqual(t, entity.RenderReady, e.status, "page %d of a superseded pass was shown", e.page)
		}
	}
	for _, e := range h.rec.of("view") {
		assert.NotEqual(t, slowID, e.tabID)
	}
}

func TestZoomIn_PersistsScaleAndRerenders(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "a.pdf", newFakeDoc(3))

	pass := h.viewer.View.ZoomIn(ctx)
	require.NotNil(t, pass)
	h.wait(t, pass)

	vs, _ := h.viewer.View.ViewState()
	assert.InDelta(t, 1.25, vs.Scale, 1e-9)
	assert.Equal(t, 125, vs.Percentage())

	surface, ok := h.viewer.View.Surface(2)
	require.True(t, ok)
	assert.InDelta(t, 1.25, surface.Scale, 1e-9)
	assert.Equal(t, 750, surface.Surface.Bounds().Dx())
	assert.Contains(t, h.rec.notifications(), "125%")
}

func TestZoom_BoundsAreNoops(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	id := h.open(t, "a.pdf", newFakeDoc(1))

	h.viewer.Session.UpdateTabData(ctx, id, entity.ScaleUpdate(entity.ScaleMax))
	assert.Nil(t, h.viewer.View.ZoomIn(ctx))

	h.viewer.Session.UpdateTabData(ctx, id, entity.ScaleUpdate(entity.ScaleMin))
	assert.Nil(t, h.viewer.View.ZoomOut(ctx))

	vs, _ := h.viewer.View.ViewState()
	assert.InDelta(t, entity.ScaleMin, vs.Scale, 1e-9)
}

func TestResetZoom_AlwaysRerenders(t *testing.T) {
	h := newHarness(t)
	doc := newFakeDoc(2)
	h.open(t, "a.pdf", doc)

	pass := h.viewer.View.ResetZoom(context.Background())
	require.NotNil(t, pass)
	h.wait(t, pass)

	assert.Len(t, doc.rendersAt(1.0), 4)
}

func TestFitToWidth_UsesFirstPageAndPadding(t *testing.T) {
	h := newHarness(t)
	h.open(t, "a.pdf", newFakeDoc(2))

	// (1240 - 40) / 600
	h.wait(t, h.viewer.View.FitToWidth(context.Background()))

	vs, _ := h.viewer.View.ViewState()
	assert.InDelta(t, 2.0, vs.Scale, 1e-9)
	surface, ok := h.viewer.View.Surface(1)
	require.True(t, ok)
	assert.InDelta(t, 2.0, surface.Scale, 1e-9)
}

func TestZoom_NoActiveTab(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	assert.Nil(t, h.viewer.View.ZoomIn(ctx))
	assert.Nil(t, h.viewer.View.FitToWidth(ctx))
	assert.Nil(t, h.viewer.View.ReRenderAll(ctx))
	assert.False(t, h.viewer.View.GoToPage(ctx, 2))
}

func TestScale_IsPerTab(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	a := h.open(t, "a.pdf", newFakeDoc(2))
	h.wait(t, h.viewer.View.ZoomIn(ctx))
	h.open(t, "b.pdf", newFakeDoc(2))

	vs, _ := h.viewer.View.ViewState()
	assert.InDelta(t, 1.0, vs.Scale, 1e-9)

	h.wait(t, h.viewer.Session.ActivateTab(ctx, a))

	vs, _ = h.viewer.View.ViewState()
	assert.InDelta(t, 1.25, vs.Scale, 1e-9)
	for _, page := range h.viewer.View.RenderedPages() {
		surface, _ := h.viewer.View.Surface(page)
		assert.InDelta(t, 1.25, surface.Scale, 1e-9)
	}
}

func TestZoom_KeepsReadingPosition(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "a.pdf", newFakeDoc(3))

	// A quarter into page 2.
	h.viewer.View.NotifyScroll(ctx, 250)
	h.wait(t, h.viewer.View.ZoomIn(ctx))

	assert.InDelta(t, 250+0.25*250, h.viewer.View.Viewport().ScrollTop, 1e-9)
	vs, _ := h.viewer.View.ViewState()
	assert.Equal(t, 2, vs.CurrentPage)
}

func TestNotifyScroll_ReconcilesNearestPage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "a.pdf", newFakeDoc(3))

	// Page midpoints are 100, 300, 500; viewport midpoint is 310.
	h.viewer.View.NotifyScroll(ctx, 210)

	vs, _ := h.viewer.View.ViewState()
	assert.Equal(t, 2, vs.CurrentPage)
	assert.InDelta(t, 210, vs.ScrollOffset, 1e-9)
	assert.Equal(t, coordinator.ReconcileSettled, h.viewer.View.ReconcileState())

	last, ok := h.rec.lastView()
	require.True(t, ok)
	assert.Equal(t, 2, last.CurrentPage)
}

func TestNotifyScroll_IgnoresUnrenderedPages(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	doc := newFakeDoc(3)
	gate := make(chan struct{})
	doc.setGate(gate)

	_, pass, err := h.viewer.Session.CreateTab(ctx, "a.pdf", doc, "")
	require.NoError(t, err)

	h.viewer.View.NotifyScroll(ctx, 400)
	vs, _ := h.viewer.View.ViewState()
	assert.Equal(t, 1, vs.CurrentPage)

	close(gate)
	h.wait(t, pass)
}

func TestGoToPage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "a.pdf", newFakeDoc(3))

	assert.True(t, h.viewer.View.GoToPage(ctx, 99))
	vs, _ := h.viewer.View.ViewState()
	assert.Equal(t, 3, vs.CurrentPage)
	// Clamped to the last scrollable offset.
	assert.InDelta(t, 400, h.viewer.View.Viewport().ScrollTop, 1e-9)

	assert.False(t, h.viewer.View.GoToPage(ctx, 3))

	assert.True(t, h.viewer.View.PreviousPage(ctx))
	vs, _ = h.viewer.View.ViewState()
	assert.Equal(t, 2, vs.CurrentPage)
	assert.InDelta(t, 200, h.viewer.View.Viewport().ScrollTop, 1e-9)

	assert.True(t, h.viewer.View.NextPage(ctx))
	assert.False(t, h.viewer.View.NextPage(ctx))

	assert.True(t, h.viewer.View.GoToPage(ctx, -5))
	vs, _ = h.viewer.View.ViewState()
	assert.Equal(t, 1, vs.CurrentPage)
	assert.False(t, h.viewer.View.PreviousPage(ctx))
}

func TestActivateTab_RestoresScrollPosition(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	a := h.open(t, "a.pdf", newFakeDoc(3))
	h.viewer.View.NotifyScroll(ctx, 210)

	h.open(t, "b.pdf", newFakeDoc(3))
	assert.InDelta(t, 0, h.viewer.View.Viewport().ScrollTop, 1e-9)

	h.wait(t, h.viewer.Session.ActivateTab(ctx, a))

	assert.InDelta(t, 210, h.viewer.View.Viewport().ScrollTop, 1e-9)
	vs, _ := h.viewer.View.ViewState()
	assert.Equal(t, 2, vs.CurrentPage)
}

func TestSetViewportSize_Reconciles(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "a.pdf", newFakeDoc(3))
	h.viewer.View.NotifyScroll(ctx, 100)

	vs, _ := h.viewer.View.ViewState()
	require.Equal(t, 1, vs.CurrentPage)

	// Midpoint moves from 200 to 350.
	h.viewer.View.SetViewportSize(ctx, 800, 500)

	vs, _ = h.viewer.View.ViewState()
	assert.Equal(t, 2, vs.CurrentPage)
	assert.InDelta(t, 800, h.viewer.View.Viewport().Width, 1e-9)
}

func TestZoom_SwitchingAwayMidPassKeepsReadingPosition(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	doc := newFakeDoc(10)
	a := h.open(t, "a.pdf", doc)

	h.viewer.View.NotifyScroll(ctx, 1000)
	vs, _ := h.viewer.View.ViewState()
	require.Equal(t, 6, vs.CurrentPage)

	gate := make(chan struct{})
	doc.setGate(gate)
	zoom := h.viewer.View.ZoomIn(ctx)
	require.NotNil(t, zoom)

	// Page 6 starts at 5 × 250 once zoomed.
	vs, _ = h.viewer.View.ViewState()
	assert.InDelta(t, 1250, vs.ScrollOffset, 1e-9)

	h.open(t, "b.pdf", newFakeDoc(2))
	doc.setGate(nil)
	close(gate)
	h.wait(t, zoom)
	assert.True(t, zoom.Superseded())

	h.wait(t, h.viewer.Session.ActivateTab(ctx, a))

	vs, _ = h.viewer.View.ViewState()
	assert.InDelta(t, 1.25, vs.Scale, 1e-9)
	assert.Equal(t, 6, vs.CurrentPage)
	assert.InDelta(t, 1250, h.viewer.View.Viewport().ScrollTop, 1e-9)

	h.viewer.View.NotifyScroll(ctx, h.viewer.View.Viewport().ScrollTop)
	vs, _ = h.viewer.View.ViewState()
	assert.Equal(t, 6, vs.CurrentPage)
}
