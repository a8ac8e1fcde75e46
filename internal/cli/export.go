package cli

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/bootstrap"
	"github.com/bnema/tooldeck/internal/infrastructure/fitz"
	"github.com/bnema/tooldeck/internal/logging"
)

const exportDirPerm = 0o755

// ExportOptions configure a headless render of documents to PNG files.
type ExportOptions struct {
	Paths          []string
	OutDir         string
	Scale          float64
	MaxConcurrency int
	// Decoder defaults to the go-fitz backend.
	Decoder port.DocumentDecoder
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
}

// ExportResult summarizes an export.
type ExportResult struct {
	Written []string
	Failed  []usecase.DocumentFailure
}

// Export renders every page of every document to OutDir. A document that
// fails to open, or a page that fails to render, is reported and skipped.
func Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	log := logging.FromContext(ctx)
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Decoder == nil {
		opts.Decoder = fitz.NewDecoder()
	}
	if err := os.MkdirAll(opts.OutDir, exportDirPerm); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	sources, err := bootstrap.ReadSources(opts.Paths)
	if err != nil {
		return nil, err
	}

	opened := usecase.NewOpenDocumentsUseCase(opts.Decoder, fitz.PDFOnly).Execute(ctx, sources)
	result := &ExportResult{Failed: opened.Failures}
	renderUC := usecase.NewRenderPagesUseCase(opts.MaxConcurrency)

	for _, doc := range opened.Opened {
		written, failures := exportDocument(ctx, renderUC, doc, opts)
		result.Written = append(result.Written, written...)
		result.Failed = append(result.Failed, failures...)
		if err := doc.Document.Close(); err != nil {
			log.Warn().Err(err).Str("name", doc.Name).Msg("close document")
		}
	}

	log.Info().
		Int("written", len(result.Written)).
		Int("failed", len(result.Failed)).
		Str("out_dir", opts.OutDir).
		Msg("export finished")
	return result, nil
}

func exportDocument(
	ctx context.Context,
	renderUC *usecase.RenderPagesUseCase,
	doc usecase.OpenedDocument,
	opts ExportOptions,
) ([]string, []usecase.DocumentFailure) {
	total := doc.Document.PageCount()
	bar := newProgressBar(opts.Progress, total, doc.Name)
	base := strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))

	var (
		mu       sync.Mutex
		written  []string
		failures []usecase.DocumentFailure
	)
	fail := func(err error) {
		mu.Lock()
		failures = append(failures, usecase.DocumentFailure{Name: doc.Name, Err: err})
		mu.Unlock()
	}

	renderUC.RenderAll(ctx, doc.Document, opts.Scale, func(res usecase.PageResult) {
		if bar != nil {
			_ = bar.Add(1)
		}
		if res.Err != nil {
			fail(res.Err)
			return
		}
		path := filepath.Join(opts.OutDir, fmt.Sprintf("%s-p%03d.png", base, res.Page))
		if err := writePNG(path, res); err != nil {
			fail(err)
			return
		}
		mu.Lock()
		written = append(written, path)
		mu.Unlock()
	})
	if bar != nil {
		_ = bar.Finish()
	}
	slices.Sort(written)

	return written, failures
}

func writePNG(path string, res usecase.PageResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("page %d: %w", res.Page, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := png.Encode(f, res.Rendered.Surface); err != nil {
		return fmt.Errorf("page %d: encode: %w", res.Page, err)
	}
	return nil
}

func newProgressBar(w io.Writer, total int, name string) *progressbar.ProgressBar {
	if w == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
