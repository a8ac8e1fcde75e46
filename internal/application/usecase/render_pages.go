package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// PageResult is the settled outcome of rendering one page.
type PageResult struct {
	Page     int
	Rendered *entity.RenderedPage // nil on failure
	Err      error
}

// Status maps the result to a render status.
func (r PageResult) Status() entity.RenderStatus {
	if r.Err != nil || r.Rendered == nil {
		return entity.RenderFailed
	}
	return entity.RenderReady
}

// RenderPagesUseCase turns a document and a scale into page surfaces.
type RenderPagesUseCase struct {
	maxConcurrency int
}

// NewRenderPagesUseCase creates a render use case. maxConcurrency bounds the
// number of pages rasterized at once; zero or less means unbounded.
func NewRenderPagesUseCase(maxConcurrency int) *RenderPagesUseCase {
	return &RenderPagesUseCase{maxConcurrency: maxConcurrency}
}

// RenderPage loads and rasterizes a single page. Backend panics are
// converted to errors so one page can never take its siblings down.
func (uc *RenderPagesUseCase) RenderPage(ctx context.Context, doc port.Document, n int, scale float64) (rp *entity.RenderedPage, err error) {
	defer logging.RecoverError(ctx, fmt.Sprintf("render page %d", n), &err)

	page, err := doc.Page(ctx, n)
	if err != nil {
		return nil, wrapSentinel(entity.ErrPage, n, err)
	}

	vp := entity.NewViewport(page.Size(), scale)
	img, err := page.Render(ctx, vp)
	if err != nil {
		return nil, wrapSentinel(entity.ErrRender, n, err)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: page %d: backend returned no surface", entity.ErrRender, n)
	}

	return &entity.RenderedPage{Page: n, Scale: scale, Surface: img}, nil
}

// RenderAll renders every page of the document concurrently. A failed page
// is logged and reported but never aborts its siblings. onPage is called
// from worker goroutines as each page settles, in completion order; it must
// be safe for concurrent use. The returned slice is in page order and is only
// available once every page has settled.
func (uc *RenderPagesUseCase) RenderAll(
	ctx context.Context,
	doc port.Document,
	scale float64,
	onPage func(PageResult),
) []PageResult {
	log := logging.FromContext(ctx)
	total := doc.PageCount()
	results := make([]PageResult, total)

	log.Debug().Int("pages", total).Float64("scale", scale).Msg("rendering all pages")

	var g errgroup.Group
	if uc.maxConcurrency > 0 {
		g.SetLimit(uc.maxConcurrency)
	}

	for page := 1; page <= total; page++ {
		g.Go(func() error {
			rp, err := uc.RenderPage(ctx, doc, page, scale)
			res := PageResult{Page: page, Rendered: rp, Err: err}
			if err != nil {
				log.Warn().Err(err).Int("page", page).Float64("scale", scale).Msg("page render failed")
			}
			results[page-1] = res
			if onPage != nil {
				onPage(res)
			}
			// Failures stay local to the page.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// PageSizes reads the native size of every page. Pages that fail to load
// borrow the first known size so the layout stays complete.
func (uc *RenderPagesUseCase) PageSizes(ctx context.Context, doc port.Document) []entity.Size {
	log := logging.FromContext(ctx)
	total := doc.PageCount()
	sizes := make([]entity.Size, total)
	fallback := entity.DefaultPageSize
	known := false
	missing := make([]int, 0)

	for n := 1; n <= total; n++ {
		page, err := doc.Page(ctx, n)
		if err != nil || page.Size().IsZero() {
			log.Debug().Err(err).Int("page", n).Msg("page size unavailable")
			missing = append(missing, n)
			continue
		}
		sizes[n-1] = page.Size()
		if !known {
			fallback = page.Size()
			known = true
		}
	}
	for _, n := range missing {
		sizes[n-1] = fallback
	}

	return sizes
}

func wrapSentinel(sentinel error, page int, err error) error {
	if errors.Is(err, sentinel) {
		return fmt.Errorf("page %d: %w", page, err)
	}
	return fmt.Errorf("%w: page %d: %w", sentinel, page, err)
}
