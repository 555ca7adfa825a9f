package table

import (
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

// Terminal renders the grid with lipgloss for the interactive viewer and CLI output.
type Terminal struct {
	*Grid
	HeaderStyle lipgloss.Style
	LabelStyle  lipgloss.Style
	CellStyle   lipgloss.Style
}

// NewTerminal returns an empty terminal table with default styling.
func NewTerminal() *Terminal {
	return &Terminal{
		Grid:        NewGrid(),
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		LabelStyle:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		CellStyle:   lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right),
	}
}

// String renders the table.
func (t *Terminal) String() string {
	tbl := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(t.Grid.Header...).
		Rows(t.Grid.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return t.HeaderStyle
			case col == 0:
				return t.LabelStyle
			default:
				return t.CellStyle
			}
		})
	return tbl.String()
}
