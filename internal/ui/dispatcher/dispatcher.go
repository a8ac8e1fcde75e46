// Package dispatcher routes viewer actions from any host (keyboard, control
// API) to the coordinators through one command table.
package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/tooldeck/internal/logging"
	"github.com/bnema/tooldeck/internal/ui/coordinator"
	"github.com/bnema/tooldeck/internal/ui/input"
)

var (
	// ErrUnknownAction is returned for actions without a handler.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnsupported is returned when the host lacks what an action needs.
	ErrUnsupported = errors.New("action not supported by this host")
)

// Handler executes one action.
type Handler func(ctx context.Context) error

// Dispatcher maps actions to handlers.
type Dispatcher struct {
	handlers map[input.Action]Handler
	onQuit   func()
	onOpen   func(ctx context.Context) error
}

// New creates a dispatcher bound to the viewer's coordinators.
func New(ctx context.Context, viewer *coordinator.Viewer) *Dispatcher {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating command dispatcher")

	d := &Dispatcher{}
	session, view, thumbs := viewer.Session, viewer.View, viewer.Thumbnails

	d.handlers = map[input.Action]Handler{
		input.ActionOpenDocuments: func(ctx context.Context) error {
			if d.onOpen == nil {
				return fmt.Errorf("%w: no document picker", ErrUnsupported)
			}
			return d.onOpen(ctx)
		},
		input.ActionCloseActiveTab: func(ctx context.Context) error {
			session.CloseActiveTab(ctx)
			return nil
		},
		input.ActionZoomIn: func(ctx context.Context) error {
			view.ZoomIn(ctx)
			return nil
		},
		input.ActionZoomOut: func(ctx context.Context) error {
			view.ZoomOut(ctx)
			return nil
		},
		input.ActionResetZoom: func(ctx context.Context) error {
			view.ResetZoom(ctx)
			return nil
		},
		input.ActionFitToWidth: func(ctx context.Context) error {
			view.FitToWidth(ctx)
			return nil
		},
		input.ActionPreviousPage: func(ctx context.Context) error {
			view.PreviousPage(ctx)
			return nil
		},
		input.ActionNextPage: func(ctx context.Context) error {
			view.NextPage(ctx)
			return nil
		},
		input.ActionToggleThumbnails: func(ctx context.Context) error {
			thumbs.Toggle(ctx)
			return nil
		},
		input.ActionNextTab: func(ctx context.Context) error {
			session.NextTab(ctx)
			return nil
		},
		input.ActionPreviousTab: func(ctx context.Context) error {
			session.PreviousTab(ctx)
			return nil
		},
		input.ActionQuit: func(context.Context) error {
			if d.onQuit != nil {
				d.onQuit()
			}
			return nil
		},
	}

	return d
}

// SetOnQuit sets the callback for the quit action.
func (d *Dispatcher) SetOnQuit(fn func()) {
	d.onQuit = fn
}

// SetOnOpenDocuments sets the host's document picker. Hosts without one
// leave it unset and open-documents fails.
func (d *Dispatcher) SetOnOpenDocuments(fn func(ctx context.Context) error) {
	d.onOpen = fn
}

// Handles reports whether an action has a handler.
func (d *Dispatcher) Handles(action input.Action) bool {
	_, ok := d.handlers[action]
	return ok
}

// Dispatch routes an action to its handler.
func (d *Dispatcher) Dispatch(ctx context.Context, action input.Action) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("action", string(action)).Msg("dispatching action")

	h, ok := d.handlers[action]
	if !ok {
		log.Warn().Str("action", string(action)).Msg("unhandled action")
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return h(ctx)
}

// DispatchName resolves a command name and dispatches it.
func (d *Dispatcher) DispatchName(ctx context.Context, name string) error {
	action, ok := input.ParseAction(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return d.Dispatch(ctx, action)
}
