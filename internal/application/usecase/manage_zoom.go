// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// DefaultFitWidthPadding is subtracted from the viewport width before
// fitting a page to it (side padding plus scrollbar).
const DefaultFitWidthPadding = 40.0

// ZoomChange is the outcome of a zoom computation.
type ZoomChange struct {
	From    float64
	To      float64
	Changed bool // false when the operation is a no-op at a bound
}

// ManageZoomUseCase computes scale transitions for the main view.
type ManageZoomUseCase struct {
	fitWidthPadding float64
}

// NewManageZoomUseCase creates a new zoom use case.
// A negative padding selects DefaultFitWidthPadding.
func NewManageZoomUseCase(fitWidthPadding float64) *ManageZoomUseCase {
	if fitWidthPadding < 0 {
		fitWidthPadding = DefaultFitWidthPadding
	}
	return &ManageZoomUseCase{
		fitWidthPadding: fitWidthPadding,
	}
}

// FitWidthPadding returns the configured padding allowance.
func (uc *ManageZoomUseCase) FitWidthPadding() float64 {
	return uc.fitWidthPadding
}

// ZoomIn multiplies the scale by one step, capped at entity.ScaleMax.
func (uc *ManageZoomUseCase) ZoomIn(ctx context.Context, current float64) ZoomChange {
	next, ok := entity.ZoomInScale(current)

	logging.FromContext(ctx).Debug().
		Float64("from", current).
		Float64("to", next).
		Bool("changed", ok).
		Msg("zooming in")

	return ZoomChange{From: current, To: next, Changed: ok}
}

// ZoomOut divides the scale by one step, floored at entity.ScaleMin.
func (uc *ManageZoomUseCase) ZoomOut(ctx context.Context, current float64) ZoomChange {
	next, ok := entity.ZoomOutScale(current)

	logging.FromContext(ctx).Debug().
		Float64("from", current).
		Float64("to", next).
		Bool("changed", ok).
		Msg("zooming out")

	return ZoomChange{From: current, To: next, Changed: ok}
}

// Reset returns to the default scale. It always reports a change so the
// caller re-renders even when already at the default.
func (uc *ManageZoomUseCase) Reset(ctx context.Context, current float64) ZoomChange {
	logging.FromContext(ctx).Debug().
		Float64("from", current).
		Msg("resetting zoom")

	return ZoomChange{From: current, To: entity.ScaleDefault, Changed: true}
}

// FitToWidth computes the scale at which the first page fills the viewport
// width minus the padding allowance.
func (uc *ManageZoomUseCase) FitToWidth(ctx context.Context, current, viewportWidth, firstPageWidth float64) (ZoomChange, error) {
	if firstPageWidth <= 0 {
		return ZoomChange{From: current, To: current}, fmt.Errorf("first page has no width")
	}

	available := viewportWidth - uc.fitWidthPadding
	next := entity.FitWidthScale(available, firstPageWidth)

	logging.FromContext(ctx).Debug().
		Float64("available_width", available).
		Float64("page_width", firstPageWidth).
		Float64("from", current).
		Float64("to", next).
		Msg("fitting to width")

	return ZoomChange{From: current, To: next, Changed: true}, nil
}
