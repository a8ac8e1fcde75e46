package dispatcher_test

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/ui/coordinator"
	"github.com/bnema/tooldeck/internal/ui/dispatcher"
	"github.com/bnema/tooldeck/internal/ui/input"
)

type stubDoc struct{ pages int }

func (d stubDoc) PageCount() int { return d.pages }
func (d stubDoc) Close() error   { return nil }
func (d stubDoc) Page(_ context.Context, n int) (port.Page, error) {
	return stubPage(n), nil
}

type stubPage int

func (p stubPage) Number() int       { return int(p) }
func (p stubPage) Size() entity.Size { return entity.Size{Width: 100, Height: 100} }
func (p stubPage) Render(_ context.Context, vp entity.Viewport) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, vp.Width, vp.Height)), nil
}

func newViewer(t *testing.T) *coordinator.Viewer {
	t.Helper()
	v := coordinator.New(context.Background(), coordinator.Config{
		Viewport: entity.ViewportGeometry{Width: 500, Height: 100},
	})
	t.Cleanup(func() { _ = v.Shutdown(context.Background()) })
	return v
}

func TestDispatcher_HandlesEveryAction(t *testing.T) {
	d := dispatcher.New(context.Background(), newViewer(t))
	for _, action := range input.Actions() {
		assert.True(t, d.Handles(action), "missing handler for %s", action)
	}
}

func TestDispatcher_RoutesToCoordinators(t *testing.T) {
	ctx := context.Background()
	v := newViewer(t)
	d := dispatcher.New(ctx, v)

	_, pass, err := v.Session.CreateTab(ctx, "a.pdf", stubDoc{pages: 3}, "")
	require.NoError(t, err)
	require.NoError(t, pass.Wait(ctx))

	require.NoError(t, d.Dispatch(ctx, input.ActionNextPage))
	vs, _ := v.View.ViewState()
	assert.Equal(t, 2, vs.CurrentPage)

	require.NoError(t, d.DispatchName(ctx, "zoom-in"))
	require.NoError(t, v.Flush(ctx))
	vs, _ = v.View.ViewState()
	assert.InDelta(t, 1.25, vs.Scale, 1e-9)

	require.NoError(t, d.Dispatch(ctx, input.ActionCloseActiveTab))
	assert.True(t, v.Session.IsEmpty())
}

func TestDispatcher_Errors(t *testing.T) {
	ctx := context.Background()
	d := dispatcher.New(ctx, newViewer(t))

	err := d.DispatchName(ctx, "split-right")
	assert.ErrorIs(t, err, dispatcher.ErrUnknownAction)

	err = d.Dispatch(ctx, input.ActionOpenDocuments)
	assert.ErrorIs(t, err, dispatcher.ErrUnsupported)
}

func TestDispatcher_HostCallbacks(t *testing.T) {
	ctx := context.Background()
	d := dispatcher.New(ctx, newViewer(t))

	quit, opened := false, false
	d.SetOnQuit(func() { quit = true })
	d.SetOnOpenDocuments(func(context.Context) error {
		opened = true
		return nil
	})

	require.NoError(t, d.Dispatch(ctx, input.ActionQuit))
	require.NoError(t, d.Dispatch(ctx, input.ActionOpenDocuments))
	assert.True(t, quit)
	assert.True(t, opened)
}

func TestDispatcher_NoTabIsNoop(t *testing.T) {
	ctx := context.Background()
	d := dispatcher.New(ctx, newViewer(t))

	for _, action := range []input.Action{
		input.ActionZoomIn, input.ActionZoomOut, input.ActionResetZoom, input.ActionFitToWidth,
		input.ActionPreviousPage, input.ActionNextPage, input.ActionCloseActiveTab,
		input.ActionNextTab, input.ActionPreviousTab, input.ActionToggleThumbnails,
	} {
		assert.NoError(t, d.Dispatch(ctx, action), string(action))
	}
}
