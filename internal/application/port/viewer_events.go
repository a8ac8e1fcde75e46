package port

import (
	"context"

	"github.com/bnema/tooldeck/internal/domain/entity"
)

// ViewerEvents is the outbound notification surface of the viewer core.
// A presentation layer implements it to mirror core state.
//
// Events are delivered through the coordinator's post function, in the order
// they were produced. With a synchronous post function, handlers run while the
// coordinator lock is held and must not call back into the coordinators.
type ViewerEvents interface {
	ActiveTabChanged(ctx context.Context, tabID entity.TabID)
	ViewStateChanged(ctx context.Context, state entity.ViewState)
	RenderProgress(ctx context.Context, tabID entity.TabID, page int, status entity.RenderStatus)
	ThumbnailReady(ctx context.Context, tabID entity.TabID, page int)
	SessionEmpty(ctx context.Context)
	DocumentFailed(ctx context.Context, name string, err error)
}

// NopViewerEvents discards every event.
type NopViewerEvents struct{}

func (NopViewerEvents) ActiveTabChanged(context.Context, entity.TabID)                         {}
func (NopViewerEvents) ViewStateChanged(context.Context, entity.ViewState)                     {}
func (NopViewerEvents) RenderProgress(context.Context, entity.TabID, int, entity.RenderStatus) {}
func (NopViewerEvents) ThumbnailReady(context.Context, entity.TabID, int)                      {}
func (NopViewerEvents) SessionEmpty(context.Context)                                           {}
func (NopViewerEvents) DocumentFailed(context.Context, string, error)                          {}

// MultiViewerEvents fans events out to several observers in order.
type MultiViewerEvents []ViewerEvents

func (m MultiViewerEvents) ActiveTabChanged(ctx context.Context, tabID entity.TabID) {
	for _, e := range m {
		e.ActiveTabChanged(ctx, tabID)
	}
}

func (m MultiViewerEvents) ViewStateChanged(ctx context.Context, state entity.ViewState) {
	for _, e := range m {
		e.ViewStateChanged(ctx, state)
	}
}

func (m MultiViewerEvents) RenderProgress(ctx context.Context, tabID entity.TabID, page int, status entity.RenderStatus) {
	for _, e := range m {
		e.RenderProgress(ctx, tabID, page, status)
	}
}

func (m MultiViewerEvents) ThumbnailReady(ctx context.Context, tabID entity.TabID, page int) {
	for _, e := range m {
		e.ThumbnailReady(ctx, tabID, page)
	}
}

func (m MultiViewerEvents) SessionEmpty(ctx context.Context) {
	for _, e := range m {
		e.SessionEmpty(ctx)
	}
}

func (m MultiViewerEvents) DocumentFailed(ctx context.Context, name string, err error) {
	for _, e := range m {
		e.DocumentFailed(ctx, name, err)
	}
}
