package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// TabsModel represents a horizontal tab bar.
type TabsModel struct {
	Tabs   []string
	Active int
	Width  int
	theme  *Theme
}

// NewTabs creates a new tab bar with the given labels.
func NewTabs(theme *Theme, tabs ...string) TabsModel {
	return TabsModel{
		Tabs:   tabs,
		Active: 0,
		theme:  theme,
	}
}

// SetActive sets the active tab index. Out of range indexes are ignored.
func (m *TabsModel) SetActive(index int) {
	if index >= 0 && index < len(m.Tabs) {
		m.Active = index
	}
}

// View renders the tab bar.
func (m TabsModel) View() string {
	tabs := make([]string, 0, len(m.Tabs))
	for i, tab := range m.Tabs {
		style := m.theme.InactiveTab
		if i == m.Active {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(tab))
	}

	gap := lipgloss.NewStyle().
		Foreground(m.theme.Border).
		Render(" │ ")

	row := lipgloss.JoinHorizontal(lipgloss.Top, join(tabs, gap)...)
	if m.Width > 0 {
		return m.theme.TabBar.Width(m.Width).Render(row)
	}
	return m.theme.TabBar.Render(row)
}

// join inserts a separator between items.
func join(items []string, sep string) []string {
	if len(items) == 0 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}
