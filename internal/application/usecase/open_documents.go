package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// DocumentSource is one named byte buffer supplied by the host shell.
type DocumentSource struct {
	Name string
	Data []byte
}

// OpenedDocument is a successfully decoded source.
type OpenedDocument struct {
	Name        string
	Document    port.Document
	Fingerprint entity.Fingerprint
}

// DocumentFailure reports a source that could not be opened.
type DocumentFailure struct {
	Name string
	Err  error
}

// OpenDocumentsOutput holds the partial result of a multi-open batch.
type OpenDocumentsOutput struct {
	Opened   []OpenedDocument
	Failures []DocumentFailure
}

// SourceFilter rejects sources before they reach the decoder.
type SourceFilter func(src DocumentSource) error

// OpenDocumentsUseCase decodes a batch of sources, isolating per-file failures.
type OpenDocumentsUseCase struct {
	decoder port.DocumentDecoder
	filter  SourceFilter
}

// NewOpenDocumentsUseCase creates the use case. filter may be nil.
func NewOpenDocumentsUseCase(decoder port.DocumentDecoder, filter SourceFilter) *OpenDocumentsUseCase {
	return &OpenDocumentsUseCase{decoder: decoder, filter: filter}
}

// Execute opens every source in order. A failing source is recorded and the
// batch continues.
func (uc *OpenDocumentsUseCase) Execute(ctx context.Context, sources []DocumentSource) *OpenDocumentsOutput {
	log := logging.FromContext(ctx)
	out := &OpenDocumentsOutput{}

	for _, src := range sources {
		doc, err := uc.open(ctx, src)
		if err != nil {
			log.Warn().Err(err).Str("name", src.Name).Msg("failed to open document")
			out.Failures = append(out.Failures, DocumentFailure{Name: src.Name, Err: err})
			continue
		}
		out.Opened = append(out.Opened, OpenedDocument{
			Name:        src.Name,
			Document:    doc,
			Fingerprint: FingerprintBytes(src.Data),
		})
		log.Debug().Str("name", src.Name).Int("pages", doc.PageCount()).Msg("document opened")
	}

	log.Info().
		Int("opened", len(out.Opened)).
		Int("failed", len(out.Failures)).
		Msg("documents batch processed")

	return out
}

func (uc *OpenDocumentsUseCase) open(ctx context.Context, src DocumentSource) (doc port.Document, err error) {
	defer logging.RecoverError(ctx, "open document", &err)

	if len(src.Data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", entity.ErrDecode, src.Name)
	}
	if uc.filter != nil {
		if err := uc.filter(src); err != nil {
			return nil, wrapDecode(src.Name, err)
		}
	}

	doc, err = uc.decoder.Open(ctx, src.Name, src.Data)
	if err != nil {
		return nil, wrapDecode(src.Name, err)
	}
	if doc.PageCount() < 1 {
		_ = doc.Close()
		return nil, fmt.Errorf("%w: %s: document has no pages", entity.ErrDecode, src.Name)
	}
	return doc, nil
}

func wrapDecode(name string, err error) error {
	if errors.Is(err, entity.ErrDecode) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return fmt.Errorf("%w: %s: %w", entity.ErrDecode, name, err)
}

// FingerprintBytes hashes document content with BLAKE2b-256.
func FingerprintBytes(data []byte) entity.Fingerprint {
	sum := blake2b.Sum256(data)
	return entity.Fingerprint(hex.EncodeToString(sum[:]))
}
