package model

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/tooldeck/internal/cli/styles"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// ViewHistory is the part of the remembered view store the browser needs.
type ViewHistory interface {
	Recent(ctx context.Context, limit int) ([]*entity.RememberedView, error)
	Forget(ctx context.Context, fp entity.Fingerprint) error
}

// HistoryModel is the Bubble Tea model for browsing remembered views.
type HistoryModel struct {
	// UI components
	table table.Model
	help  help.Model
	keys  styles.HistoryKeyMap

	// State
	views    []*entity.RememberedView
	showHelp bool
	width    int
	height   int
	err      error

	// Dependencies
	ctx     context.Context
	history ViewHistory
	limit   int
	theme   *styles.Theme
}

// NewHistoryModel creates a new history browser model.
func NewHistoryModel(ctx context.Context, theme *styles.Theme, history ViewHistory, limit int) HistoryModel {
	log := logging.FromContext(ctx)
	log.Debug().Int("limit", limit).Msg("creating history model")

	const (
		defaultWidth  = 80
		defaultHeight = 24
	)
	return HistoryModel{
		table:   styles.NewStyledTable(theme, styles.HistoryTableColumns(), nil, defaultWidth, defaultHeight-6),
		help:    styles.NewStyledHelp(theme),
		keys:    styles.DefaultHistoryKeyMap(),
		ctx:     ctx,
		history: history,
		limit:   limit,
		theme:   theme,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// historyLoadedMsg is sent when remembered views are loaded.
type historyLoadedMsg struct {
	views []*entity.RememberedView
	err   error
}

// historyForgottenMsg is sent when a view was forgotten.
type historyForgottenMsg struct {
	err error
}

// Init implements tea.Model.
func (m HistoryModel) Init() tea.Cmd {
	return m.loadHistory
}

func (m HistoryModel) loadHistory() tea.Msg {
	views, err := m.history.Recent(m.ctx, m.limit)
	if err != nil {
		logging.FromContext(m.ctx).Error().Err(err).Msg("failed to load remembered views")
		return historyLoadedMsg{err: err}
	}
	return historyLoadedMsg{views: views}
}

// Update implements tea.Model.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(3, msg.Height-6))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case historyLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.views = msg.views
			m.refreshRows()
		}
		return m, nil

	case historyForgottenMsg:
		m.err = msg.err
		return m, m.loadHistory
	}

	return m, nil
}

func (m HistoryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Forget):
		return m, m.forgetSelected()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m HistoryModel) forgetSelected() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.views) {
		return nil
	}
	ctx, history, fp := m.ctx, m.history, m.views[idx].Fingerprint
	return func() tea.Msg {
		logging.FromContext(ctx).Debug().Str("fingerprint", fp.Short()).Msg("forgetting view")
		return historyForgottenMsg{err: history.Forget(ctx, fp)}
	}
}

func (m *HistoryModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.views))
	for _, v := range m.views {
		rows = append(rows, styles.HistoryRow(v))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// View implements tea.Model.
func (m HistoryModel) View() string {
	header := m.theme.BoxHeader.Render(fmt.Sprintf("Remembered views (%d)", len(m.views)))

	body := m.table.View()
	if len(m.views) == 0 {
		body = m.theme.Subtle.Render("Nothing remembered yet.")
	}

	footer := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		footer = m.help.FullHelpView(m.keys.FullHelp())
	}

	out := header + "\n" + body + "\n"
	if m.err != nil {
		out += m.theme.ErrorStyle.Render(m.err.Error()) + "\n"
	}
	return out + footer
}
