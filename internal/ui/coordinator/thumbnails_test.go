package coordinator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/ui/coordinator"
	"github.com/bnema/tooldeck/internal/ui/visibility"
)

func expanded(cfg *coordinator.Config) {
	cfg.ThumbnailsExpanded = true
}

func TestThumbnails_RenderLazilyWhenVisible(t *testing.T) {
	h := newHarness(t, expanded)
	doc := newFakeDoc(3)
	id := h.open(t, "a.pdf", doc)

	assert.Equal(t, []int{1, 2, 3}, h.observer.pages())
	assert.Empty(t, doc.rendersAt(coordinator.DefaultThumbnailScale))

	h.observer.show(2)
	h.flush(t)

	assert.Equal(t, []int{2}, doc.rendersAt(coordinator.DefaultThumbnailScale))
	slots := h.viewer.Thumbnails.Slots()
	require.Len(t, slots, 3)
	assert.True(t, slots[1].Rendered())
	assert.False(t, slots[0].Rendered())

	ready := h.rec.of("thumbnail")
	require.Len(t, ready, 1)
	assert.Equal(t, id, ready[0].tabID)
	assert.Equal(t, 2, ready[0].page)
	assert.Equal(t, []int{1, 3}, h.observer.pages())
}

func TestThumbnails_InFlightRequestIsNotRepeated(t *testing.T) {
	h := newHarness(t, expanded)
	doc := newFakeDoc(3)
	h.open(t, "a.pdf", doc)

	gate := make(chan struct{})
	doc.setGate(gate)
	h.observer.show(1)
	h.observer.show(1)
	close(gate)
	h.flush(t)

	assert.Equal(t, []int{1}, doc.rendersAt(coordinator.DefaultThumbnailScale))
}

func TestThumbnails_FailedSlotCanRetry(t *testing.T) {
	h := newHarness(t, expanded)
	doc := newFakeDoc(3)
	h.open(t, "a.pdf", doc)
	doc.failOn[3] = true

	h.observer.show(3)
	h.flush(t)
	assert.False(t, h.viewer.Thumbnails.Slots()[2].Rendered())
	assert.Contains(t, h.observer.pages(), 3)

	h.observer.show(3)
	h.flush(t)
	assert.Equal(t, []int{3, 3}, doc.rendersAt(coordinator.DefaultThumbnailScale))
}

func TestThumbnails_CollapseKeepsSurfacesAndExpandObservesTheRest(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, expanded)
	h.open(t, "a.pdf", newFakeDoc(3))
	h.observer.show(2)
	h.flush(t)

	h.viewer.Thumbnails.Collapse(ctx)
	assert.False(t, h.viewer.Thumbnails.Expanded())
	assert.Empty(t, h.observer.pages())
	assert.True(t, h.viewer.Thumbnails.Slots()[1].Rendered())

	assert.True(t, h.viewer.Thumbnails.Toggle(ctx))
	assert.Equal(t, []int{1, 3}, h.observer.pages())
}

func TestThumbnails_CollapsedStripRendersNothing(t *testing.T) {
	h := newHarness(t)
	doc := newFakeDoc(3)
	h.open(t, "a.pdf", doc)
	h.flush(t)

	assert.Empty(t, h.observer.pages())
	assert.Empty(t, doc.rendersAt(coordinator.DefaultThumbnailScale))
}

func TestThumbnails_FollowActiveTab(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, expanded)
	a := h.open(t, "a.pdf", newFakeDoc(3))
	h.open(t, "b.pdf", newFakeDoc(2))

	assert.Equal(t, []int{1, 2}, h.observer.pages())
	assert.Len(t, h.viewer.Thumbnails.Slots(), 2)

	h.wait(t, h.viewer.Session.ActivateTab(ctx, a))
	assert.Equal(t, []int{1, 2, 3}, h.observer.pages())
}

func TestThumbnails_ClickSlotNavigates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, expanded)
	h.open(t, "a.pdf", newFakeDoc(3))

	assert.True(t, h.viewer.Thumbnails.Slots()[0].Active)
	assert.True(t, h.viewer.Thumbnails.ClickSlot(ctx, 3))

	slots := h.viewer.Thumbnails.Slots()
	assert.False(t, slots[0].Active)
	assert.True(t, slots[2].Active)
}

func TestThumbnails_EagerObserverWithoutStrip(t *testing.T) {
	h := newHarness(t, expanded, func(cfg *coordinator.Config) {
		cfg.Observer = nil
	})
	doc := newFakeDoc(2)
	h.open(t, "a.pdf", doc)
	h.flush(t)

	assert.ElementsMatch(t, []int{1, 2}, doc.rendersAt(coordinator.DefaultThumbnailScale))
}

func TestThumbnails_TabChangeScrollsStripToTop(t *testing.T) {
	ctx := context.Background()
	strip := visibility.NewStripObserver(visibility.DefaultThreshold)
	h := newHarness(t, expanded, func(cfg *coordinator.Config) { cfg.Observer = strip })
	strip.SetLayoutSource(h.viewer.Thumbnails.Layout)
	strip.SetWindow(0, 100)

	a := h.open(t, "a.pdf", newFakeDoc(10))
	strip.SetWindow(300, 100)

	h.open(t, "b.pdf", newFakeDoc(10))
	top, height := strip.Window()
	assert.Zero(t, top)
	assert.InDelta(t, 100, height, 1e-9)

	// Re-expanding the same tab keeps the strip where it was.
	strip.SetWindow(300, 100)
	h.viewer.Thumbnails.Collapse(ctx)
	h.viewer.Thumbnails.Expand(ctx)
	top, _ = strip.Window()
	assert.InDelta(t, 300, top, 1e-9)

	h.wait(t, h.viewer.Session.ActivateTab(ctx, a))
	top, _ = strip.Window()
	assert.Zero(t, top)
	h.flush(t)
}
