package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/domain/repository"
	"github.com/bnema/tooldeck/internal/logging"
)

// RememberViewUseCase restores the last page and scale of documents that
// were open in a previous run. A nil repository disables it.
type RememberViewUseCase struct {
	repo repository.ViewStateRepository
}

// NewRememberViewUseCase creates the use case.
func NewRememberViewUseCase(repo repository.ViewStateRepository) *RememberViewUseCase {
	return &RememberViewUseCase{repo: repo}
}

// Enabled reports whether views are persisted.
func (uc *RememberViewUseCase) Enabled() bool {
	return uc != nil && uc.repo != nil
}

// Lookup returns the remembered view of a document, or nil. Storage errors
// are logged and treated as "nothing remembered".
func (uc *RememberViewUseCase) Lookup(ctx context.Context, fp entity.Fingerprint) *entity.RememberedView {
	if !uc.Enabled() || fp == "" {
		return nil
	}
	log := logging.FromContext(ctx)

	view, err := uc.repo.Get(ctx, fp)
	if err != nil {
		log.Warn().Err(err).Str("fingerprint", fp.Short()).Msg("failed to load remembered view")
		return nil
	}
	if view != nil {
		log.Debug().
			Str("fingerprint", fp.Short()).
			Int("page", view.Page).
			Float64("scale", view.Scale).
			Msg("found remembered view")
	}
	return view
}

// Remember stores the view of a tab.
func (uc *RememberViewUseCase) Remember(ctx context.Context, view *entity.RememberedView) error {
	if !uc.Enabled() || view == nil || view.Fingerprint == "" {
		return nil
	}
	view.Scale = entity.ClampScale(view.Scale)
	if view.Page < 1 {
		view.Page = 1
	}
	if err := uc.repo.Save(ctx, view); err != nil {
		return fmt.Errorf("failed to remember view: %w", err)
	}
	logging.FromContext(ctx).Debug().
		Str("fingerprint", view.Fingerprint.Short()).
		Int("page", view.Page).
		Msg("view remembered")
	return nil
}

// Recent lists remembered documents, newest first.
func (uc *RememberViewUseCase) Recent(ctx context.Context, limit int) ([]*entity.RememberedView, error) {
	if !uc.Enabled() {
		return nil, nil
	}
	views, err := uc.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list remembered views: %w", err)
	}
	return views, nil
}

// Forget removes a document from the store.
func (uc *RememberViewUseCase) Forget(ctx context.Context, fp entity.Fingerprint) error {
	if !uc.Enabled() {
		return nil
	}
	if err := uc.repo.Delete(ctx, fp); err != nil {
		return fmt.Errorf("failed to forget view: %w", err)
	}
	return nil
}
