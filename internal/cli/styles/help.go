package styles

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tooldeck/internal/ui/input"
)

// KeyMap defines keybindings that can be rendered as help.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// ViewerKeyMap describes the viewer shortcuts. Keys come from the configured
// shortcut table so the help always matches what is bound.
type ViewerKeyMap struct {
	ZoomIn           key.Binding
	ZoomOut          key.Binding
	ResetZoom        key.Binding
	FitToWidth       key.Binding
	PreviousPage     key.Binding
	NextPage         key.Binding
	ToggleThumbnails key.Binding
	NextTab          key.Binding
	PreviousTab      key.Binding
	CloseTab         key.Binding
	Open             key.Binding
	Help             key.Binding
	Quit             key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k ViewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PreviousPage, k.NextPage, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k ViewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PreviousPage, k.NextPage, k.ToggleThumbnails},
		{k.ZoomIn, k.ZoomOut, k.ResetZoom, k.FitToWidth},
		{k.NextTab, k.PreviousTab, k.CloseTab, k.Open},
		{k.Help, k.Quit},
	}
}

// NewViewerKeyMap builds the help bindings from a shortcut table.
func NewViewerKeyMap(table input.ShortcutTable) ViewerKeyMap {
	bind := func(action input.Action, desc string) key.Binding {
		keys := table.KeysFor(action)
		b := key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
		if len(keys) == 0 {
			b.SetEnabled(false)
		}
		return b
	}

	return ViewerKeyMap{
		ZoomIn:           bind(input.ActionZoomIn, "zoom in"),
		ZoomOut:          bind(input.ActionZoomOut, "zoom out"),
		ResetZoom:        bind(input.ActionResetZoom, "reset zoom"),
		FitToWidth:       bind(input.ActionFitToWidth, "fit width"),
		PreviousPage:     bind(input.ActionPreviousPage, "prev page"),
		NextPage:         bind(input.ActionNextPage, "next page"),
		ToggleThumbnails: bind(input.ActionToggleThumbnails, "thumbnails"),
		NextTab:          bind(input.ActionNextTab, "next tab"),
		PreviousTab:      bind(input.ActionPreviousTab, "prev tab"),
		CloseTab:         bind(input.ActionCloseActiveTab, "close tab"),
		Open:             bind(input.ActionOpenDocuments, "open"),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: bind(input.ActionQuit, "quit"),
	}
}

// HistoryKeyMap defines keybindings for the remembered views browser.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Forget key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Forget, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Forget},
		{k.Help, k.Quit},
	}
}

// DefaultHistoryKeyMap returns the default history keybindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Forget: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "forget"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
