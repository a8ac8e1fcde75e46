// Package coordinator implements the viewer core: the tab session, the main
// document view and the thumbnail strip. The three coordinators share one
// state guarded by a single lock; rasterization runs on worker goroutines
// and its results are applied under that lock, tagged with a generation so
// late results from a superseded pass are dropped.
package coordinator

import (
	"context"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
	"github.com/bnema/tooldeck/internal/ui/mainloop"
)

// Config holds the dependencies of the viewer core.
type Config struct {
	TabsUC     *usecase.ManageTabsUseCase
	ZoomUC     *usecase.ManageZoomUseCase
	RenderUC   *usecase.RenderPagesUseCase
	ScrollUC   *usecase.ReconcileScrollUseCase
	OpenUC     *usecase.OpenDocumentsUseCase
	RememberUC *usecase.RememberViewUseCase

	Events       port.ViewerEvents
	Notification port.Notification
	Metrics      port.RenderMetrics
	Observer     port.VisibilityObserver
	// Post delivers events and coalesced work. Defaults to synchronous.
	Post mainloop.PostFunc

	Viewport           entity.ViewportGeometry
	ThumbnailScale     float64
	ThumbnailGap       float64
	ThumbnailsExpanded bool
}

// Viewer bundles the coordinators of one viewer session.
type Viewer struct {
	Session    *SessionCoordinator
	View       *ViewCoordinator
	Thumbnails *ThumbnailCoordinator

	state *state
}

// New wires the coordinators around a fresh, empty session. Missing use
// cases get their defaults.
func New(ctx context.Context, cfg Config) *Viewer {
	ctx = logging.WithComponent(ctx, "viewer")
	log := logging.FromContext(ctx)

	if cfg.TabsUC == nil {
		cfg.TabsUC = usecase.NewManageTabsUseCase(nil)
	}
	if cfg.ZoomUC == nil {
		cfg.ZoomUC = usecase.NewManageZoomUseCase(-1)
	}
	if cfg.RenderUC == nil {
		cfg.RenderUC = usecase.NewRenderPagesUseCase(0)
	}
	if cfg.ScrollUC == nil {
		cfg.ScrollUC = usecase.NewReconcileScrollUseCase(-1)
	}
	if cfg.RememberUC == nil {
		cfg.RememberUC = usecase.NewRememberViewUseCase(nil)
	}

	s := newState(cfg)
	view := newViewCoordinator(ctx, s, cfg)
	thumbnails := newThumbnailCoordinator(ctx, s, view, cfg)
	session := newSessionCoordinator(ctx, s, view, thumbnails, cfg)

	log.Debug().
		Float64("viewport_width", cfg.Viewport.Width).
		Float64("viewport_height", cfg.Viewport.Height).
		Bool("thumbnails_expanded", cfg.ThumbnailsExpanded).
		Msg("viewer core created")

	return &Viewer{
		Session:    session,
		View:       view,
		Thumbnails: thumbnails,
		state:      s,
	}
}

// Flush waits until every render started so far has settled.
func (v *Viewer) Flush(ctx context.Context) error {
	return v.state.flush(ctx)
}

// Shutdown closes every tab and waits for in-flight renders.
func (v *Viewer) Shutdown(ctx context.Context) error {
	v.Session.CloseAllTabs(ctx)
	v.View.coalescer.Destroy()
	v.Thumbnails.observer.Disconnect()
	return v.Flush(ctx)
}
