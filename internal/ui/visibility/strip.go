// Package visibility tracks which thumbnail slots intersect the visible part
// of the preview strip.
package visibility

import (
	"sort"
	"sync"

	"github.com/bnema/tooldeck/internal/domain/entity"
)

// DefaultThreshold is the visible fraction of a slot that counts as visible.
const DefaultThreshold = 0.1

// LayoutSource returns the current slot rectangles of the strip.
type LayoutSource func() []entity.PageRect

// StripObserver is a geometry-driven intersection observer. The host reports
// the strip's scroll window and the observer fires callbacks of slots that
// cross the threshold. A callback fires each time its slot enters the
// window, like an intersection observer.
type StripObserver struct {
	mu        sync.Mutex
	threshold float64
	layout    LayoutSource
	top       float64
	height    float64
	observed  map[int]*observation
}

type observation struct {
	onVisible func()
	visible   bool
}

// NewStripObserver creates an observer. A threshold outside (0, 1] selects
// DefaultThreshold.
func NewStripObserver(threshold float64) *StripObserver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &StripObserver{
		threshold: threshold,
		observed:  make(map[int]*observation),
	}
}

// SetLayoutSource sets where slot geometry comes from.
func (o *StripObserver) SetLayoutSource(src LayoutSource) {
	o.mu.Lock()
	o.layout = src
	o.mu.Unlock()
}

// Observe starts watching a slot. It fires at once if the slot is visible.
func (o *StripObserver) Observe(page int, onVisible func()) {
	if onVisible == nil {
		return
	}
	o.mu.Lock()
	o.observed[page] = &observation{onVisible: onVisible}
	o.mu.Unlock()

	o.evaluate(map[int]bool{page: true})
}

// Unobserve stops watching a slot.
func (o *StripObserver) Unobserve(page int) {
	o.mu.Lock()
	delete(o.observed, page)
	o.mu.Unlock()
}

// Disconnect drops every observation.
func (o *StripObserver) Disconnect() {
	o.mu.Lock()
	o.observed = make(map[int]*observation)
	o.mu.Unlock()
}

// Observed lists watched pages in ascending order.
func (o *StripObserver) Observed() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	pages := make([]int, 0, len(o.observed))
	for p := range o.observed {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// SetWindow records the visible part of the strip and fires callbacks for
// slots that became visible.
func (o *StripObserver) SetWindow(top, height float64) {
	o.mu.Lock()
	o.top = max(0, top)
	o.height = max(0, height)
	o.mu.Unlock()

	o.evaluate(nil)
}

// ResetScroll moves the window back to the top of the strip, keeping its
// height. Observations are evaluated by the next Observe or SetWindow.
func (o *StripObserver) ResetScroll() {
	o.mu.Lock()
	o.top = 0
	o.mu.Unlock()
}

// Window returns the visible part of the strip.
func (o *StripObserver) Window() (top, height float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.top, o.height
}

// Refresh re-evaluates every observation, e.g. after the layout changed.
func (o *StripObserver) Refresh() {
	o.evaluate(nil)
}

// evaluate fires visible observations, limited to only when non-nil.
// Callbacks run without the lock held.
func (o *StripObserver) evaluate(only map[int]bool) {
	o.mu.Lock()
	src := o.layout
	o.mu.Unlock()
	if src == nil {
		return
	}
	// The layout source may take other locks; call it unlocked.
	rects := src()

	o.mu.Lock()
	var fire []func()
	for _, r := range rects {
		if only != nil && !only[r.Page] {
			continue
		}
		obs, ok := o.observed[r.Page]
		if !ok {
			continue
		}
		visible := o.visibleLocked(r)
		if visible && !obs.visible {
			fire = append(fire, obs.onVisible)
		}
		obs.visible = visible
	}
	o.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (o *StripObserver) visibleLocked(r entity.PageRect) bool {
	return VisibleFraction(r, o.top, o.height) >= o.threshold
}

// VisibleFraction is the share of a slot inside the window [top, top+height).
func VisibleFraction(r entity.PageRect, top, height float64) float64 {
	if r.Height <= 0 || height <= 0 {
		return 0
	}
	overlap := min(r.Bottom(), top+height) - max(r.Top, top)
	if overlap <= 0 {
		return 0
	}
	return overlap / r.Height
}
