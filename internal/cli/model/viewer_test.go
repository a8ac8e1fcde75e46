package model

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/bootstrap"
	"github.com/bnema/tooldeck/internal/cli/styles"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/infrastructure/config"
	"github.com/bnema/tooldeck/internal/logging"
)

type stubDecoder struct{}

func (stubDecoder) Open(_ context.Context, _ string, data []byte) (port.Document, error) {
	if string(data) == "%PDF-broken" {
		return nil, errors.New("not a document")
	}
	return stubDoc{}, nil
}

type stubDoc struct{}

func (stubDoc) PageCount() int                                   { return 4 }
func (stubDoc) Close() error                                     { return nil }
func (stubDoc) Page(_ context.Context, n int) (port.Page, error) { return stubPage(n), nil }

type stubPage int

func (p stubPage) Number() int       { return int(p) }
func (p stubPage) Size() entity.Size { return entity.Size{Width: 100, Height: 100} }

func (p stubPage) Render(_ context.Context, vp entity.Viewport) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height)), nil
}

func newRuntime(t *testing.T) *bootstrap.Runtime {
	t.Helper()
	ctx := logging.WithContext(context.Background(), logging.NewFromConfigValues("disabled", "console"))
	cfg := config.DefaultConfig()
	rt, err := bootstrap.New(ctx, cfg, bootstrap.Options{Decoder: stubDecoder{}, Synchronous: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

func newModel(rt *bootstrap.Runtime) ViewerModel {
	return NewViewerModel(rt.Ctx, styles.NewTheme(), ViewerDeps{
		Viewer:     rt.Viewer,
		Dispatcher: rt.Dispatcher,
		Shortcuts:  rt.Shortcuts,
		Open:       rt.OpenFiles,
	})
}

func writePDF(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m ViewerModel, msg tea.Msg) (ViewerModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	vm, ok := next.(ViewerModel)
	require.True(t, ok)
	return vm, cmd
}

func TestViewerModel_EmptySession(t *testing.T) {
	rt := newRuntime(t)
	m := newModel(rt)

	assert.Contains(t, m.View(), "No document open.")
}

func TestViewerModel_ZoomKeyDispatches(t *testing.T) {
	rt := newRuntime(t)
	_, err := rt.OpenFiles(rt.Ctx, []string{writePDF(t, "report.pdf", "%PDF-1.7 report")})
	require.NoError(t, err)
	require.NoError(t, rt.Viewer.Flush(rt.Ctx))

	m := newModel(rt)
	m, _ = update(t, m, keyRunes("+"))

	vs, ok := rt.Viewer.View.ViewState()
	require.True(t, ok)
	assert.InDelta(t, 1.25, vs.Scale, 1e-9)

	m, _ = update(t, m, viewStateMsg{state: vs})
	out := m.View()
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "125%")
	assert.Contains(t, out, "1 / 4")
}

func TestViewerModel_NextPageAndStrip(t *testing.T) {
	rt := newRuntime(t)
	_, err := rt.OpenFiles(rt.Ctx, []string{writePDF(t, "a.pdf", "%PDF-1.7 a")})
	require.NoError(t, err)
	require.NoError(t, rt.Viewer.Flush(rt.Ctx))

	m := newModel(rt)
	assert.True(t, m.expanded)
	require.Len(t, m.slots, 4)

	m, _ = update(t, m, keyRunes("j"))
	vs, _ := rt.Viewer.View.ViewState()
	assert.Equal(t, 2, vs.CurrentPage)

	m, _ = update(t, m, keyRunes("t"))
	assert.False(t, m.expanded)
	assert.False(t, rt.Viewer.Thumbnails.Expanded())
}

func TestViewerModel_QuitKey(t *testing.T) {
	rt := newRuntime(t)
	m := newModel(rt)

	_, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewerModel_OpenPrompt(t *testing.T) {
	rt := newRuntime(t)
	m := newModel(rt)
	path := writePDF(t, "b.pdf", "%PDF-1.7 b")

	m, _ = update(t, m, keyRunes("o"))
	require.True(t, m.promptMode)

	m.prompt.SetValue(path)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.promptMode)
	require.NotNil(t, cmd)

	msg := cmd()
	opened, ok := msg.(openedMsg)
	require.True(t, ok)
	require.NoError(t, opened.err)
	assert.Len(t, opened.result.Opened, 1)

	m, _ = update(t, m, msg)
	assert.Len(t, m.tabList, 1)
	assert.Contains(t, m.View(), "b.pdf")
}

func TestViewerModel_OpenPromptEscape(t *testing.T) {
	rt := newRuntime(t)
	m := newModel(rt)

	m, _ = update(t, m, keyRunes("o"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.promptMode)
	assert.Nil(t, cmd)
}

func TestViewerModel_Notices(t *testing.T) {
	rt := newRuntime(t)
	m := newModel(rt)

	m, _ = update(t, m, noticeMsg{id: "n1", text: "Zoom 125%", zoom: true})
	m, _ = update(t, m, noticeMsg{id: "n2", text: "Zoom 150%", zoom: true})
	m, _ = update(t, m, noticeMsg{id: "n3", text: "Failed to load: x.pdf", kind: port.NotificationError})

	require.Len(t, m.notices, 2, "a zoom notice replaces the previous one")
	assert.Equal(t, "Zoom 150%", m.notices[0].text)

	m, _ = update(t, m, dismissMsg{id: "n3"})
	require.Len(t, m.notices, 1)
	assert.NotContains(t, m.View(), "Failed to load")
}

func TestProgramEvents_SendsMessages(t *testing.T) {
	var got []tea.Msg
	ev := NewProgramEvents(func(msg tea.Msg) { got = append(got, msg) })
	ctx := context.Background()

	ev.ActiveTabChanged(ctx, "tab-1")
	ev.RenderProgress(ctx, "tab-1", 3, entity.RenderReady)
	id := ev.ShowZoom(ctx, 125)
	ev.Dismiss(ctx, id)
	other := ev.Show(ctx, "Loaded 2 files", port.NotificationSuccess)

	require.Len(t, got, 5)
	assert.Equal(t, activeTabMsg{tabID: "tab-1"}, got[0])
	assert.Equal(t, renderProgressMsg{tabID: "tab-1", page: 3, status: entity.RenderReady}, got[1])
	assert.Equal(t, noticeMsg{id: id, text: "Zoom 125%", kind: port.NotificationInfo, zoom: true}, got[2])
	assert.Equal(t, dismissMsg{id: id}, got[3])
	assert.NotEqual(t, id, other)
}
