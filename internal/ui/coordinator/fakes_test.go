package coordinator_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/ui/coordinator"
)

var errBrokenPage = errors.New("broken page")

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type renderCall struct {
	page  int
	scale float64
}

// fakeDoc is an in-memory document whose pages can fail or block.
type fakeDoc struct {
	pages  int
	size   entity.Size
	failOn map[int]bool
	gate   chan struct{} // Render blocks until closed when set

	mu      sync.Mutex
	renders []renderCall
	closed  atomic.Bool
}

func newFakeDoc(pages int) *fakeDoc {
	return &fakeDoc{
		pages:  pages,
		size:   entity.Size{Width: 600, Height: 200},
		failOn: map[int]bool{},
	}
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) Page(_ context.Context, n int) (port.Page, error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	return &fakePage{doc: d, n: n}, nil
}

func (d *fakeDoc) Close() error {
	d.closed.Store(true)
	return nil
}

func (d *fakeDoc) setGate(gate chan struct{}) {
	d.mu.Lock()
	d.gate = gate
	d.mu.Unlock()
}

func (d *fakeDoc) rendersAt(scale float64) []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	var pages []int
	for _, c := range d.renders {
		if c.scale == scale {
			pages = append(pages, c.page)
		}
	}
	return pages
}

type fakePage struct {
	doc *fakeDoc
	n   int
}

func (p *fakePage) Number() int       { return p.n }
func (p *fakePage) Size() entity.Size { return p.doc.size }

func (p *fakePage) Render(ctx context.Context, vp entity.Viewport) (image.Image, error) {
	p.doc.mu.Lock()
	p.doc.renders = append(p.doc.renders, renderCall{page: p.n, scale: vp.Scale})
	gate := p.doc.gate
	p.doc.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.doc.failOn[p.n] {
		return nil, errBrokenPage
	}
	return image.NewRGBA(image.Rect(0, 0, max(1, vp.Width), max(1, vp.Height))), nil
}

// fakeDecoder maps source names to documents; unknown names fail.
type fakeDecoder struct {
	docs map[string]*fakeDoc
}

func (d *fakeDecoder) Open(_ context.Context, name string, _ []byte) (port.Document, error) {
	doc, ok := d.docs[name]
	if !ok {
		return nil, errors.New("not a pdf")
	}
	return doc, nil
}

type event struct {
	kind   string
	tabID  entity.TabID
	page   int
	status entity.RenderStatus
	state  entity.ViewState
	name   string
}

// recorder captures viewer events and notifications.
type recorder struct {
	mu      sync.Mutex
	events  []event
	notices []string
}

func (r *recorder) add(e event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) ActiveTabChanged(_ context.Context, tabID entity.TabID) {
	r.add(event{kind: "active", tabID: tabID})
}

func (r *recorder) ViewStateChanged(_ context.Context, state entity.ViewState) {
	r.add(event{kind: "view", tabID: state.TabID, state: state})
}

func (r *recorder) RenderProgress(_ context.Context, tabID entity.TabID, page int, status entity.RenderStatus) {
	r.add(event{kind: "progress", tabID: tabID, page: page, status: status})
}

func (r *recorder) ThumbnailReady(_ context.Context, tabID entity.TabID, page int) {
	r.add(event{kind: "thumbnail", tabID: tabID, page: page})
}

func (r *recorder) SessionEmpty(context.Context) {
	r.add(event{kind: "empty"})
}

func (r *recorder) DocumentFailed(_ context.Context, name string, _ error) {
	r.add(event{kind: "failed", name: name})
}

func (r *recorder) Show(_ context.Context, message string, _ port.NotificationType) port.NotificationID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, message)
	return port.NotificationID(fmt.Sprintf("n-%d", len(r.notices)))
}

func (r *recorder) ShowZoom(_ context.Context, pct int) port.NotificationID {
	return r.Show(context.Background(), fmt.Sprintf("%d%%", pct), port.NotificationInfo)
}

func (r *recorder) Dismiss(context.Context, port.NotificationID) {}

func (r *recorder) of(kind string) []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event
	for _, e := range r.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) lastView() (entity.ViewState, bool) {
	views := r.of("view")
	if len(views) == 0 {
		return entity.ViewState{}, false
	}
	return views[len(views)-1].state, true
}

func (r *recorder) notifications() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// manualObserver fires visibility only when the test says so.
type manualObserver struct {
	mu          sync.Mutex
	observed    map[int]func()
	disconnects int
}

func newManualObserver() *manualObserver {
	return &manualObserver{observed: map[int]func(){}}
}

func (o *manualObserver) Observe(page int, onVisible func()) {
	o.mu.Lock()
	o.observed[page] = onVisible
	o.mu.Unlock()
}

func (o *manualObserver) Unobserve(page int) {
	o.mu.Lock()
	delete(o.observed, page)
	o.mu.Unlock()
}

func (o *manualObserver) Disconnect() {
	o.mu.Lock()
	o.observed = map[int]func(){}
	o.disconnects++
	o.mu.Unlock()
}

func (o *manualObserver) pages() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	var pages []int
	for p := 1; p <= 1000; p++ {
		if _, ok := o.observed[p]; ok {
			pages = append(pages, p)
		}
	}
	return pages
}

func (o *manualObserver) show(page int) {
	o.mu.Lock()
	fn := o.observed[page]
	o.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type harness struct {
	viewer   *coordinator.Viewer
	rec      *recorder
	observer *manualObserver
	decoder  *fakeDecoder
}

func newHarness(t *testing.T, mutate ...func(*coordinator.Config)) *harness {
	t.Helper()

	h := &harness{
		rec:      &recorder{},
		observer: newManualObserver(),
		decoder:  &fakeDecoder{docs: map[string]*fakeDoc{}},
	}
	cfg := coordinator.Config{
		ScrollUC:     usecase.NewReconcileScrollUseCase(0),
		OpenUC:       usecase.NewOpenDocumentsUseCase(h.decoder, nil),
		Events:       h.rec,
		Notification: h.rec,
		Observer:     h.observer,
		Viewport:     entity.ViewportGeometry{Width: 1240, Height: 200},
	}
	for _, m := range mutate {
		m(&cfg)
	}
	h.viewer = coordinator.New(context.Background(), cfg)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.viewer.Shutdown(ctx)
	})
	return h
}

// open creates a tab and waits for its first render pass.
func (h *harness) open(t *testing.T, name string, doc *fakeDoc) entity.TabID {
	t.Helper()
	id, pass, err := h.viewer.Session.CreateTab(context.Background(), name, doc, "")
	require.NoError(t, err)
	h.wait(t, pass)
	return id
}

func (h *harness) wait(t *testing.T, pass *coordinator.RenderPass) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pass.Wait(ctx))
}

func (h *harness) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.viewer.Flush(ctx))
}
