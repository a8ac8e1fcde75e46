package bootstrap

import (
	"context"
	"sync/atomic"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/domain/entity"
)

// EventRelay forwards viewer events to a target that can be attached after
// the viewer was built, e.g. a TUI program that needs the viewer to exist
// before it can be created. Events before Attach are dropped.
type EventRelay struct {
	target atomic.Pointer[port.ViewerEvents]
}

var _ port.ViewerEvents = (*EventRelay)(nil)

// Attach sets the receiving observer. nil detaches.
func (r *EventRelay) Attach(events port.ViewerEvents) {
	if events == nil {
		r.target.Store(nil)
		return
	}
	r.target.Store(&events)
}

func (r *EventRelay) get() port.ViewerEvents {
	if p := r.target.Load(); p != nil {
		return *p
	}
	return port.NopViewerEvents{}
}

func (r *EventRelay) ActiveTabChanged(ctx context.Context, tabID entity.TabID) {
	r.get().ActiveTabChanged(ctx, tabID)
}

func (r *EventRelay) ViewStateChanged(ctx context.Context, state entity.ViewState) {
	r.get().ViewStateChanged(ctx, state)
}

func (r *EventRelay) RenderProgress(ctx context.Context, tabID entity.TabID, page int, status entity.RenderStatus) {
	r.get().RenderProgress(ctx, tabID, page, status)
}

func (r *EventRelay) ThumbnailReady(ctx context.Context, tabID entity.TabID, page int) {
	r.get().ThumbnailReady(ctx, tabID, page)
}

func (r *EventRelay) SessionEmpty(ctx context.Context) {
	r.get().SessionEmpty(ctx)
}

func (r *EventRelay) DocumentFailed(ctx context.Context, name string, err error) {
	r.get().DocumentFailed(ctx, name, err)
}

// NotificationRelay is the port.Notification counterpart of EventRelay.
type NotificationRelay struct {
	target atomic.Pointer[port.Notification]
}

var _ port.Notification = (*NotificationRelay)(nil)

// Attach sets the receiving notifier. nil detaches.
func (r *NotificationRelay) Attach(n port.Notification) {
	if n == nil {
		r.target.Store(nil)
		return
	}
	r.target.Store(&n)
}

func (r *NotificationRelay) get() port.Notification {
	if p := r.target.Load(); p != nil {
		return *p
	}
	return port.NopNotification{}
}

func (r *NotificationRelay) Show(ctx context.Context, message string, t port.NotificationType) port.NotificationID {
	return r.get().Show(ctx, message, t)
}

func (r *NotificationRelay) ShowZoom(ctx context.Context, pct int) port.NotificationID {
	return r.get().ShowZoom(ctx, pct)
}

func (r *NotificationRelay) Dismiss(ctx context.Context, id port.NotificationID) {
	r.get().Dismiss(ctx, id)
}
