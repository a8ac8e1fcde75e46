package styles

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tooldeck/internal/domain/entity"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.Text).
		Background(theme.SurfaceVariant).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// HistoryTableColumns returns columns for the remembered views table.
func HistoryTableColumns() []table.Column {
	return []table.Column{
		{Title: "Document", Width: 36},
		{Title: "Page", Width: 6},
		{Title: "Zoom", Width: 6},
		{Title: "Last Seen", Width: 10},
		{Title: "Fingerprint", Width: 14},
	}
}

// HistoryRow converts a remembered view to a table row.
func HistoryRow(v *entity.RememberedView) table.Row {
	return table.Row{
		v.Name,
		fmt.Sprintf("%d", v.Page),
		fmt.Sprintf("%d%%", entity.ScalePercentage(v.Scale)),
		RelativeTime(v.UpdatedAt),
		v.Fingerprint.Short(),
	}
}
