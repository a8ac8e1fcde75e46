package usecase_test

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("disabled", "console")
	return logging.WithContext(context.Background(), logger)
}

// fakeDocument renders solid images of the page size; pages listed in
// failRender or failLoad error out, pages in panicRender panic.
type fakeDocument struct {
	sizes       []entity.Size
	failLoad    map[int]bool
	failRender  map[int]bool
	panicRender map[int]bool

	mu       sync.Mutex
	rendered []int
	closed   bool
}

func newFakeDocument(pages int) *fakeDocument {
	sizes := make([]entity.Size, pages)
	for i := range sizes {
		sizes[i] = entity.Size{Width: 100, Height: 200}
	}
	return &fakeDocument{
		sizes:       sizes,
		failLoad:    map[int]bool{},
		failRender:  map[int]bool{},
		panicRender: map[int]bool{},
	}
}

func (d *fakeDocument) PageCount() int { return len(d.sizes) }

func (d *fakeDocument) Page(_ context.Context, n int) (port.Page, error) {
	if n < 1 || n > len(d.sizes) || d.failLoad[n] {
		return nil, entity.ErrPage
	}
	return &fakePage{doc: d, n: n}, nil
}

func (d *fakeDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDocument) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type fakePage struct {
	doc *fakeDocument
	n   int
}

func (p *fakePage) Number() int       { return p.n }
func (p *fakePage) Size() entity.Size { return p.doc.sizes[p.n-1] }

func (p *fakePage) Render(_ context.Context, vp entity.Viewport) (image.Image, error) {
	if p.doc.panicRender[p.n] {
		panic("backend exploded")
	}
	if p.doc.failRender[p.n] {
		return nil, errors.New("corrupt content stream")
	}
	p.doc.mu.Lock()
	p.doc.rendered = append(p.doc.rendered, p.n)
	p.doc.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height)), nil
}

// fakeDecoder opens any source whose data is not "bad".
type fakeDecoder struct {
	pages  int
	opened []*fakeDocument
}

func (d *fakeDecoder) Open(_ context.Context, _ string, data []byte) (port.Document, error) {
	if string(data) == "bad" {
		return nil, errors.New("not a document")
	}
	doc := newFakeDocument(d.pages)
	d.opened = append(d.opened, doc)
	return doc, nil
}
