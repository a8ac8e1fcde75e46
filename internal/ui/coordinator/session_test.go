package coordinator_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/ui/coordinator"
)

func TestCreateTab_BecomesActiveAndRendersEveryPage(t *testing.T) {
	h := newHarness(t)

	id := h.open(t, "report.pdf", newFakeDoc(3))

	assert.Equal(t, entity.TabID("tab-1"), id)
	assert.Equal(t, id, h.viewer.Session.ActiveTabID())
	assert.Equal(t, []int{1, 2, 3}, h.viewer.View.RenderedPages())

	vs, ok := h.viewer.View.ViewState()
	require.True(t, ok)
	assert.Equal(t, 1, vs.CurrentPage)
	assert.Equal(t, 3, vs.TotalPages)
	assert.InDelta(t, 1.0, vs.Scale, 1e-9)

	active := h.rec.of("active")
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].tabID)

	last, ok := h.rec.lastView()
	require.True(t, ok)
	assert.Equal(t, id, last.TabID)
}

func TestCreateTab_RejectsNilDocument(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.viewer.Session.CreateTab(context.Background(), "x.pdf", nil, "")
	require.Error(t, err)
	assert.True(t, h.viewer.Session.IsEmpty())
}

func TestCreateTab_IDsAreNeverReused(t *testing.T) {
	h := newHarness(t)

	a := h.open(t, "a.pdf", newFakeDoc(1))
	h.viewer.Session.CloseTab(context.Background(), a)
	b := h.open(t, "b.pdf", newFakeDoc(1))

	assert.NotEqual(t, a, b)
	assert.Equal(t, entity.TabID("tab-2"), b)
}

func TestCloseTab_ActiveActivatesFirstRemaining(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	a := h.open(t, "a.pdf", newFakeDoc(2))
	b := h.open(t, "b.pdf", newFakeDoc(2))
	c := h.open(t, "c.pdf", newFakeDoc(2))
	require.Equal(t, c, h.viewer.Session.ActiveTabID())

	h.wait(t, h.viewer.Session.ActivateTab(ctx, b))

	pass := h.viewer.Session.CloseTab(ctx, b)
	require.NotNil(t, pass)
	h.wait(t, pass)

	assert.Equal(t, a, h.viewer.Session.ActiveTabID())
	ids := make([]entity.TabID, 0)
	for _, tab := range h.viewer.Session.Tabs() {
		ids = append(ids, tab.ID)
	}
	assert.Equal(t, []entity.TabID{a, c}, ids)
}

func TestCloseTab_InactiveKeepsActiveTab(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	a := h.open(t, "a.pdf", newFakeDoc(1))
	b := h.open(t, "b.pdf", newFakeDoc(1))
	activations := len(h.rec.of("active"))

	pass := h.viewer.Session.CloseTab(ctx, a)

	assert.Nil(t, pass)
	assert.Equal(t, b, h.viewer.Session.ActiveTabID())
	assert.Len(t, h.rec.of("active"), activations)
}

func TestCloseTab_LastTabEmptiesSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	doc := newFakeDoc(2)

	id := h.open(t, "only.pdf", doc)
	pass := h.viewer.Session.CloseTab(ctx, id)

	assert.Nil(t, pass)
	assert.True(t, h.viewer.Session.IsEmpty())
	assert.Empty(t, h.viewer.Session.ActiveTabID())
	assert.Len(t, h.rec.of("empty"), 1)
	assert.Empty(t, h.viewer.View.RenderedPages())

	_, ok := h.viewer.View.ViewState()
	assert.False(t, ok)

	h.flush(t)
	assert.Eventually(t, doc.closed.Load, timeout, tick)
}

func TestCloseTab_UnknownIDIsNoop(t *testing.T) {
	h := newHarness(t)
	id := h.open(t, "a.pdf", newFakeDoc(1))

	pass := h.viewer.Session.CloseTab(context.Background(), "tab-99")

	assert.Nil(t, pass)
	assert.Equal(t, id, h.viewer.Session.ActiveTabID())
	assert.Len(t, h.viewer.Session.Tabs(), 1)
}

func TestCloseAllTabs_EmitsSessionEmptyOnce(t *testing.T) {
	h := newHarness(t)
	docs := []*fakeDoc{newFakeDoc(1), newFakeDoc(2), newFakeDoc(3)}
	for i, doc := range docs {
		h.open(t, string(rune('a'+i))+".pdf", doc)
	}
	activations := len(h.rec.of("active"))

	h.viewer.Session.CloseAllTabs(context.Background())

	assert.True(t, h.viewer.Session.IsEmpty())
	assert.Len(t, h.rec.of("empty"), 1)
	// No successor was activated on the way down.
	assert.Len(t, h.rec.of("active"), activations)

	h.flush(t)
	for _, doc := range docs {
		assert.Eventually(t, doc.closed.Load, timeout, tick)
	}
}

func TestActivateTab_UnknownAndActiveAreNoops(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	id := h.open(t, "a.pdf", newFakeDoc(1))

	assert.Nil(t, h.viewer.Session.ActivateTab(ctx, id))
	assert.Nil(t, h.viewer.Session.ActivateTab(ctx, "tab-42"))
	assert.Equal(t, id, h.viewer.Session.ActiveTabID())
	assert.Len(t, h.rec.of("active"), 1)
}

func TestNextTab_WrapsAround(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	a := h.open(t, "a.pdf", newFakeDoc(1))
	h.open(t, "b.pdf", newFakeDoc(1))
	c := h.open(t, "c.pdf", newFakeDoc(1))

	h.wait(t, h.viewer.Session.NextTab(ctx))
	assert.Equal(t, a, h.viewer.Session.ActiveTabID())

	h.wait(t, h.viewer.Session.PreviousTab(ctx))
	assert.Equal(t, c, h.viewer.Session.ActiveTabID())
}

func TestUpdateTabData(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	a := h.open(t, "a.pdf", newFakeDoc(4))
	h.open(t, "b.pdf", newFakeDoc(1))

	t.Run("merges into an inactive tab", func(t *testing.T) {
		assert.True(t, h.viewer.Session.UpdateTabData(ctx, a, entity.PageUpdate(3)))
		tab, ok := h.viewer.Session.Tab(a)
		require.True(t, ok)
		assert.Equal(t, 3, tab.CurrentPage)
		assert.Equal(t, 4, tab.TotalPages)
	})

	t.Run("clamps the page", func(t *testing.T) {
		h.viewer.Session.UpdateTabData(ctx, a, entity.PageUpdate(99))
		tab, _ := h.viewer.Session.Tab(a)
		assert.Equal(t, 4, tab.CurrentPage)
	})

	t.Run("ignores unknown tabs", func(t *testing.T) {
		assert.False(t, h.viewer.Session.UpdateTabData(ctx, "tab-77", entity.PageUpdate(2)))
	})
}

func TestOpenDocuments_IsolatesFailures(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.decoder.docs["a.pdf"] = newFakeDoc(2)
	h.decoder.docs["c.pdf"] = newFakeDoc(3)

	result := h.viewer.Session.OpenDocuments(ctx, []usecase.DocumentSource{
		{Name: "a.pdf", Data: []byte("%PDF-a")},
		{Name: "b.pdf", Data: []byte("not a pdf")},
		{Name: "c.pdf", Data: []byte("%PDF-c")},
	})
	h.flush(t)

	require.Len(t, result.Opened, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "b.pdf", result.Failures[0].Name)
	assert.ErrorIs(t, result.Failures[0].Err, entity.ErrDecode)

	assert.Equal(t, result.Opened[1], h.viewer.Session.ActiveTabID())
	failed := h.rec.of("failed")
	require.Len(t, failed, 1)
	assert.Equal(t, "b.pdf", failed[0].name)

	notices := h.rec.notifications()
	assert.Contains(t, notices, "Failed to load: b.pdf")
	assert.Contains(t, notices, "Loaded 2 files")
}

func TestOpenDocuments_SameBytesShareFingerprint(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.decoder.docs["a.pdf"] = newFakeDoc(1)
	h.decoder.docs["copy.pdf"] = newFakeDoc(1)

	h.viewer.Session.OpenDocuments(ctx, []usecase.DocumentSource{
		{Name: "a.pdf", Data: []byte("%PDF-same")},
		{Name: "copy.pdf", Data: []byte("%PDF-same")},
	})
	h.flush(t)

	tabs := h.viewer.Session.Tabs()
	require.Len(t, tabs, 2)
	assert.NotEmpty(t, tabs[0].Fingerprint)
	assert.Equal(t, tabs[0].Fingerprint, tabs[1].Fingerprint)
}

// reentrantSink reads the viewer back, and navigates once, from inside
// event callbacks.
type reentrantSink struct {
	port.NopViewerEvents

	viewer    atomic.Pointer[coordinator.Viewer]
	navigated atomic.Bool

	mu    sync.Mutex
	seen  []entity.TabID
	pages []int
}

func (s *reentrantSink) ActiveTabChanged(ctx context.Context, _ entity.TabID) {
	v := s.viewer.Load()
	vs, _ := v.View.ViewState()
	s.mu.Lock()
	s.seen = append(s.seen, vs.TabID)
	s.mu.Unlock()
	if s.navigated.CompareAndSwap(false, true) {
		v.View.GoToPage(ctx, 2)
	}
}

func (s *reentrantSink) ViewStateChanged(_ context.Context, state entity.ViewState) {
	v := s.viewer.Load()
	_ = v.Session.Tabs()
	_ = v.Thumbnails.Slots()
	s.mu.Lock()
	s.pages = append(s.pages, state.CurrentPage)
	s.mu.Unlock()
}

func TestEvents_SinkMayCallBackIntoViewer(t *testing.T) {
	sink := &reentrantSink{}
	h := newHarness(t, func(cfg *coordinator.Config) { cfg.Events = sink })
	sink.viewer.Store(h.viewer)

	done := make(chan entity.TabID, 1)
	go func() {
		id, pass, err := h.viewer.Session.CreateTab(context.Background(), "a.pdf", newFakeDoc(3), "")
		if err == nil {
			_ = pass.Wait(context.Background())
		}
		done <- id
	}()

	var id entity.TabID
	select {
	case id = <-done:
	case <-time.After(timeout):
		t.Fatal("CreateTab did not return while a sink read the viewer")
	}
	h.flush(t)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, []entity.TabID{id}, sink.seen)
	require.NotEmpty(t, sink.pages)
	assert.Equal(t, 2, sink.pages[len(sink.pages)-1])

	vs, ok := h.viewer.View.ViewState()
	require.True(t, ok)
	assert.Equal(t, 2, vs.CurrentPage)
}
