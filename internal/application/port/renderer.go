package port

import (
	"context"
	"image"

	"github.com/bnema/tooldeck/internal/domain/entity"
)

// DocumentDecoder opens raw bytes into a page-addressable document.
// Failures wrap entity.ErrDecode.
type DocumentDecoder interface {
	Open(ctx context.Context, name string, data []byte) (Document, error)
}

// Document is a decoded document handle owned by exactly one tab.
// Implementations must allow concurrent Page and Render calls.
type Document interface {
	// PageCount returns the number of pages (>= 1).
	PageCount() int

	// Page loads a 1-indexed page. Failures wrap entity.ErrPage.
	Page(ctx context.Context, n int) (Page, error)

	// Close releases the backend resources of the document.
	Close() error
}

// Page is a single loaded page.
type Page interface {
	// Number returns the 1-indexed page number.
	Number() int

	// Size returns the native page size at scale 1.0.
	Size() entity.Size

	// Render rasterizes the page at the given viewport.
	// Failures wrap entity.ErrRender.
	Render(ctx context.Context, vp entity.Viewport) (image.Image, error)
}
