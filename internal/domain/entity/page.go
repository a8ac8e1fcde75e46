package entity

import (
	"image"
	"math"
	"sort"
)

// Size is a page extent in document units (points at scale 1.0).
type Size struct {
	Width  float64
	Height float64
}

// Scaled returns the size multiplied by scale.
func (s Size) Scaled(scale float64) Size {
	return Size{Width: s.Width * scale, Height: s.Height * scale}
}

// IsZero reports whether the size has no area.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// DefaultPageSize is used as a layout stand-in for pages whose size could
// not be read (US Letter in points).
var DefaultPageSize = Size{Width: 612, Height: 792}

// Viewport is the geometry a page is rasterized at.
type Viewport struct {
	Scale  float64
	Width  int // pixels
	Height int // pixels
}

// NewViewport derives the raster geometry of a page at the given scale.
func NewViewport(native Size, scale float64) Viewport {
	scaled := native.Scaled(scale)
	return Viewport{
		Scale:  scale,
		Width:  int(math.Ceil(scaled.Width)),
		Height: int(math.Ceil(scaled.Height)),
	}
}

// ClampPage constrains n to [1, total].
func ClampPage(n, total int) int {
	if total < 1 {
		return 1
	}
	if n < 1 {
		return 1
	}
	if n > total {
		return total
	}
	return n
}

// PageRect is the vertical placement of one page surface in the scrolling
// content of the main view.
type PageRect struct {
	Page   int
	Top    float64
	Height float64
}

// Bottom returns the bottom edge of the rect.
func (r PageRect) Bottom() float64 {
	return r.Top + r.Height
}

// Midpoint returns the vertical center of the rect.
func (r PageRect) Midpoint() float64 {
	return r.Top + r.Height/2
}

// ViewportGeometry is the visible region of the main view.
type ViewportGeometry struct {
	Width     float64
	Height    float64
	ScrollTop float64
}

// Midpoint returns the vertical center of the visible region in content coordinates.
func (g ViewportGeometry) Midpoint() float64 {
	return g.ScrollTop + g.Height/2
}

// RenderStatus describes the outcome of one page render.
type RenderStatus string

const (
	RenderPending   RenderStatus = "pending"
	RenderReady     RenderStatus = "ready"
	RenderFailed    RenderStatus = "failed"
	RenderDiscarded RenderStatus = "discarded" // result arrived after being superseded
)

// RenderedPage is a rasterized page surface at a single scale.
type RenderedPage struct {
	Page    int
	Scale   float64
	Surface image.Image
}

// SurfaceCache holds the rendered pages of one document at one scale.
// Mixed-scale entries are rejected.
type SurfaceCache struct {
	scale float64
	pages map[int]*RenderedPage
}

// NewSurfaceCache creates an empty cache for the given scale.
func NewSurfaceCache(scale float64) *SurfaceCache {
	return &SurfaceCache{
		scale: scale,
		pages: make(map[int]*RenderedPage),
	}
}

// Scale returns the scale all entries share.
func (c *SurfaceCache) Scale() float64 {
	return c.scale
}

// Put stores a rendered page. Returns false if its scale does not match.
func (c *SurfaceCache) Put(p *RenderedPage) bool {
	if p == nil || p.Scale != c.scale {
		return false
	}
	c.pages[p.Page] = p
	return true
}

// Get returns the surface for a page.
func (c *SurfaceCache) Get(page int) (*RenderedPage, bool) {
	p, ok := c.pages[page]
	return p, ok
}

// Has reports whether a page has a surface.
func (c *SurfaceCache) Has(page int) bool {
	_, ok := c.pages[page]
	return ok
}

// Len returns the number of rendered pages.
func (c *SurfaceCache) Len() int {
	return len(c.pages)
}

// Pages returns rendered page numbers in ascending order.
func (c *SurfaceCache) Pages() []int {
	out := make([]int, 0, len(c.pages))
	for n := range c.pages {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// ThumbnailSlot is one entry of the preview strip.
type ThumbnailSlot struct {
	Page    int
	Surface image.Image // nil until rendered
	Active  bool        // slot of the current page
}

// Rendered reports whether the slot holds a thumbnail.
func (s ThumbnailSlot) Rendered() bool {
	return s.Surface != nil
}

// ThumbnailSet caches low-resolution previews for one document.
// It is independent of the main view scale.
type ThumbnailSet struct {
	surfaces map[int]image.Image
	pending  map[int]bool
}

// NewThumbnailSet creates an empty set.
func NewThumbnailSet() *ThumbnailSet {
	return &ThumbnailSet{
		surfaces: make(map[int]image.Image),
		pending:  make(map[int]bool),
	}
}

// Has reports whether a page already has a thumbnail.
func (s *ThumbnailSet) Has(page int) bool {
	_, ok := s.surfaces[page]
	return ok
}

// IsPending reports whether a render is in flight for a page.
func (s *ThumbnailSet) IsPending(page int) bool {
	return s.pending[page]
}

// MarkPending records an in-flight render. Returns false when the page is
// already rendered or pending.
func (s *ThumbnailSet) MarkPending(page int) bool {
	if s.Has(page) || s.pending[page] {
		return false
	}
	s.pending[page] = true
	return true
}

// Put stores a rendered thumbnail and clears its pending mark.
func (s *ThumbnailSet) Put(page int, img image.Image) {
	delete(s.pending, page)
	s.surfaces[page] = img
}

// Fail clears the pending mark so the page can be requested again.
func (s *ThumbnailSet) Fail(page int) {
	delete(s.pending, page)
}

// Get returns the thumbnail for a page.
func (s *ThumbnailSet) Get(page int) (image.Image, bool) {
	img, ok := s.surfaces[page]
	return img, ok
}

// Len returns the number of rendered thumbnails.
func (s *ThumbnailSet) Len() int {
	return len(s.surfaces)
}
