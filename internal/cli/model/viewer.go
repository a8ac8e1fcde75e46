// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/cli/styles"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
	"github.com/bnema/tooldeck/internal/ui/coordinator"
	"github.com/bnema/tooldeck/internal/ui/dispatcher"
	"github.com/bnema/tooldeck/internal/ui/input"
)

// maxNotices bounds the notice lines kept on screen.
const maxNotices = 3

// OpenFunc opens files from disk as tabs.
type OpenFunc func(ctx context.Context, paths []string) (*coordinator.OpenResult, error)

// ViewerDeps are what the viewer model drives.
type ViewerDeps struct {
	Viewer     *coordinator.Viewer
	Dispatcher *dispatcher.Dispatcher
	// Shortcuts returns the current key table; it can change on config reload.
	Shortcuts func() input.ShortcutTable
	Open      OpenFunc
}

type notice struct {
	id   port.NotificationID
	text string
	kind port.NotificationType
	zoom bool
}

// openedMsg reports the result of the open prompt.
type openedMsg struct {
	result *coordinator.OpenResult
	err    error
}

// ViewerModel is the terminal front end of the viewer: a tab bar, the
// active document's page and zoom, render progress and the thumbnail strip.
type ViewerModel struct {
	// UI components
	tabs   styles.TabsModel
	prompt textinput.Model
	help   help.Model
	keys   styles.ViewerKeyMap

	// Mirrored core state
	tabList  []entity.Tab
	activeID entity.TabID
	view     entity.ViewState
	hasView  bool
	rendered int
	failed   int
	slots    []entity.ThumbnailSlot
	expanded bool
	notices  []notice

	promptMode bool
	showHelp   bool
	width      int
	height     int
	err        error

	// Dependencies
	ctx   context.Context
	deps  ViewerDeps
	theme *styles.Theme
}

// NewViewerModel creates the viewer model.
func NewViewerModel(ctx context.Context, theme *styles.Theme, deps ViewerDeps) ViewerModel {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating viewer model")

	prompt := textinput.New()
	prompt.Placeholder = "file.pdf other.pdf"
	prompt.Prompt = "open: "
	prompt.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	prompt.TextStyle = lipgloss.NewStyle().Foreground(theme.Text)

	m := ViewerModel{
		tabs:   styles.NewTabs(theme),
		prompt: prompt,
		help:   styles.NewStyledHelp(theme),
		keys:   styles.NewViewerKeyMap(deps.Shortcuts()),
		ctx:    ctx,
		deps:   deps,
		theme:  theme,
		width:  80,
		height: 24,
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m ViewerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.tabs.Width = msg.Width
		m.prompt.Width = max(10, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		if m.promptMode {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case activeTabMsg:
		m.activeID = msg.tabID
		m.rendered, m.failed = 0, 0
		m.sync()
	case viewStateMsg:
		if msg.state.TabID != m.view.TabID || msg.state.Scale != m.view.Scale {
			m.rendered, m.failed = 0, 0
		}
		m.sync()
		m.view, m.hasView = msg.state, true
	case renderProgressMsg:
		m.handleRenderProgress(msg)
	case thumbnailReadyMsg:
		if msg.tabID == m.activeID {
			m.slots = m.deps.Viewer.Thumbnails.Slots()
		}
	case sessionEmptyMsg:
		m.sync()
	case documentFailedMsg:
		logging.FromContext(m.ctx).Debug().Str("name", msg.name).Err(msg.err).Msg("document failed")
	case noticeMsg:
		m.addNotice(notice{id: msg.id, text: msg.text, kind: msg.kind, zoom: msg.zoom})
	case dismissMsg:
		m.dismissNotice(msg.id)
	case openedMsg:
		m.err = msg.err
		m.sync()
	}

	return m, nil
}

func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	table := m.deps.Shortcuts()
	m.keys = styles.NewViewerKeyMap(table)

	binding, ok := input.ParseKeyString(msg.String())
	if !ok {
		return m, nil
	}
	action, ok := table.Lookup(binding)
	if !ok {
		return m, nil
	}

	switch action {
	case input.ActionQuit:
		return m, tea.Quit
	case input.ActionOpenDocuments:
		m.promptMode = true
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, textinput.Blink
	}

	m.err = m.deps.Dispatcher.Dispatch(m.ctx, action)
	if action == input.ActionToggleThumbnails {
		m.expanded = m.deps.Viewer.Thumbnails.Expanded()
		m.slots = m.deps.Viewer.Thumbnails.Slots()
	}
	return m, nil
}

func (m ViewerModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.promptMode = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		m.promptMode = false
		m.prompt.Blur()
		paths := strings.Fields(m.prompt.Value())
		if len(paths) == 0 || m.deps.Open == nil {
			return m, nil
		}
		return m, m.openFiles(paths)
	default:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
}

func (m ViewerModel) openFiles(paths []string) tea.Cmd {
	ctx, open := m.ctx, m.deps.Open
	return func() tea.Msg {
		res, err := open(ctx, paths)
		return openedMsg{result: res, err: err}
	}
}

func (m *ViewerModel) handleRenderProgress(msg renderProgressMsg) {
	if msg.tabID != m.activeID {
		return
	}
	switch msg.status {
	case entity.RenderReady:
		m.rendered = len(m.deps.Viewer.View.RenderedPages())
	case entity.RenderFailed:
		m.failed++
	}
}

// sync re-reads tabs, view and strip state from the core.
func (m *ViewerModel) sync() {
	session := m.deps.Viewer.Session
	m.tabList = session.Tabs()
	m.activeID = session.ActiveTabID()

	labels := make([]string, 0, len(m.tabList))
	active := 0
	for i := range m.tabList {
		labels = append(labels, m.tabList[i].Title())
		if m.tabList[i].ID == m.activeID {
			active = i
		}
	}
	m.tabs.Tabs = labels
	m.tabs.Active = 0
	m.tabs.SetActive(active)

	m.view, m.hasView = m.deps.Viewer.View.ViewState()
	if m.hasView && m.rendered == 0 {
		m.rendered = len(m.deps.Viewer.View.RenderedPages())
	}
	m.expanded = m.deps.Viewer.Thumbnails.Expanded()
	m.slots = m.deps.Viewer.Thumbnails.Slots()
}

func (m *ViewerModel) addNotice(n notice) {
	if n.zoom {
		kept := m.notices[:0]
		for _, old := range m.notices {
			if !old.zoom {
				kept = append(kept, old)
			}
		}
		m.notices = kept
	}
	m.notices = append(m.notices, n)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func (m *ViewerModel) dismissNotice(id port.NotificationID) {
	for i, n := range m.notices {
		if n.id == id {
			m.notices = append(m.notices[:i], m.notices[i+1:]...)
			return
		}
	}
}

// View implements tea.Model.
func (m ViewerModel) View() string {
	var b strings.Builder

	if len(m.tabList) == 0 {
		b.WriteString(m.theme.Title.Render("tooldeck"))
		b.WriteString("\n\n")
		b.WriteString(m.theme.Subtle.Render("No document open."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.tabs.View())
		b.WriteString("\n")
		b.WriteString(m.statusLine())
		b.WriteString("\n")
		if m.expanded {
			b.WriteString(m.stripLine())
			b.WriteString("\n")
		}
	}

	for _, n := range m.notices {
		b.WriteString(m.noticeStyle(n.kind).Render(n.text))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(m.theme.ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	if m.promptMode {
		b.WriteString("\n")
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return b.String()
}

func (m ViewerModel) statusLine() string {
	if !m.hasView {
		return ""
	}
	parts := []string{
		m.theme.PageBadge(m.view.CurrentPage, m.view.TotalPages),
		m.theme.ZoomBadge(m.view.Percentage()),
	}

	progress := fmt.Sprintf("rendered %d/%d", m.rendered, m.view.TotalPages)
	if m.rendered >= m.view.TotalPages {
		parts = append(parts, m.theme.SuccessStyle.Render(progress))
	} else {
		parts = append(parts, m.theme.Subtle.Render(progress))
	}
	if m.failed > 0 {
		parts = append(parts, m.theme.ErrorStyle.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, join(parts, " ")...)
}

// stripLine draws one cell per thumbnail slot.
func (m ViewerModel) stripLine() string {
	var b strings.Builder
	for _, slot := range m.slots {
		switch {
		case slot.Active:
			b.WriteString(m.theme.SlotActive.Render("▮"))
		case slot.Rendered():
			b.WriteString(m.theme.SlotRendered.Render("▮"))
		default:
			b.WriteString(m.theme.SlotPending.Render("▯"))
		}
	}
	return b.String()
}

func (m ViewerModel) noticeStyle(kind port.NotificationType) lipgloss.Style {
	switch kind {
	case port.NotificationError:
		return m.theme.ErrorStyle
	case port.NotificationWarning:
		return m.theme.WarningStyle
	case port.NotificationSuccess:
		return m.theme.SuccessStyle
	default:
		return m.theme.Subtle
	}
}

func join(items []string, sep string) []string {
	if len(items) == 0 {
		return items
	}
	out := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}
