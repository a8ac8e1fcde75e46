package repository

import (
	"context"

	"github.com/bnema/tooldeck/internal/domain/entity"
)

// ViewStateRepository remembers the last view of documents across runs,
// keyed by content fingerprint.
type ViewStateRepository interface {
	// Get retrieves the remembered view for a document.
	// Returns nil if nothing is remembered.
	Get(ctx context.Context, fp entity.Fingerprint) (*entity.RememberedView, error)

	// Save stores or replaces the remembered view for a document.
	Save(ctx context.Context, view *entity.RememberedView) error

	// Delete forgets a document.
	Delete(ctx context.Context, fp entity.Fingerprint) error

	// Recent lists remembered documents, most recently updated first.
	Recent(ctx context.Context, limit int) ([]*entity.RememberedView, error)
}
