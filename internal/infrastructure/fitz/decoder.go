// Package fitz adapts MuPDF, through go-fitz, to the document decoder port.
package fitz

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// baseDPI is the resolution at which one document unit is one pixel.
const baseDPI = 72.0

var pdfMagic = []byte("%PDF-")

// SniffPDF reports whether data starts with the PDF header. Some writers
// prepend junk, so the header is accepted anywhere in the first KiB.
func SniffPDF(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, pdfMagic)
}

// PDFOnly rejects sources that are not PDF files before they are decoded.
func PDFOnly(src usecase.DocumentSource) error {
	if !SniffPDF(src.Data) {
		return fmt.Errorf("%w: not a PDF file", entity.ErrDecode)
	}
	return nil
}

// Decoder opens documents with MuPDF.
type Decoder struct{}

// NewDecoder creates a MuPDF-backed decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open decodes an in-memory document.
func (d *Decoder) Open(ctx context.Context, name string, data []byte) (port.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := gofitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrDecode, name, err)
	}

	logging.FromContext(ctx).Debug().
		Str("name", name).
		Int("pages", doc.NumPage()).
		Msg("mupdf document opened")

	return &Document{name: name, doc: doc, pages: doc.NumPage()}, nil
}

// Document is an open MuPDF document. Page loads and renders share a read
// lock; Close takes the write lock so it never races a render.
type Document struct {
	name  string
	pages int

	mu     sync.RWMutex
	doc    *gofitz.Document
	closed bool
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pages
}

// Page loads the bounds of a 1-indexed page.
func (d *Document) Page(ctx context.Context, n int) (port.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("%w: page %d out of range 1..%d", entity.ErrPage, n, d.pages)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, fmt.Errorf("%w: %s is closed", entity.ErrPage, d.name)
	}

	bounds, err := d.doc.Bound(n - 1)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", entity.ErrPage, n, err)
	}
	return &Page{
		doc:    d,
		number: n,
		size:   entity.Size{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())},
	}, nil
}

// Close releases the MuPDF context. It is safe to call more than once.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.doc.Close()
}

func (d *Document) render(ctx context.Context, n int, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, fmt.Errorf("%w: %s is closed", entity.ErrRender, d.name)
	}

	img, err := d.doc.ImageDPI(n-1, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", entity.ErrRender, n, err)
	}
	return img, nil
}

// Page is one loaded page of a Document.
type Page struct {
	doc    *Document
	number int
	size   entity.Size
}

// Number returns the 1-indexed page number.
func (p *Page) Number() int { return p.number }

// Size returns the page size in points.
func (p *Page) Size() entity.Size { return p.size }

// Render rasterizes the page at the viewport scale.
func (p *Page) Render(ctx context.Context, vp entity.Viewport) (image.Image, error) {
	return p.doc.render(ctx, p.number, vp.Scale)
}
