package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/metricview/internal/chart"
	"github.com/mwiater/metricview/internal/dataset"
	"github.com/mwiater/metricview/internal/util"
)

const maxIDRunes = 28

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

var markerGlyphs = map[chart.Marker]string{
	chart.MarkerCircle:   "●",
	chart.MarkerSquare:   "■",
	chart.MarkerTriangle: "▲",
	chart.MarkerDiamond:  "◆",
	chart.MarkerCross:    "✚",
}

// Legend is a chart widget for the terminal: one line per dataset with its marker, id and
// a sparkline. Gaps are blank cells.
type Legend struct {
	categories []string
	datasets   []chart.Dataset
	rendered   string
}

// Bind implements chart.Widget.
func (l *Legend) Bind(categories []string) error {
	l.categories = append([]string(nil), categories...)
	return nil
}

// SetDatasets implements chart.Widget.
func (l *Legend) SetDatasets(ds []chart.Dataset) error {
	l.datasets = append([]chart.Dataset(nil), ds...)
	return nil
}

// Redraw implements chart.Widget.
func (l *Legend) Redraw() error {
	if len(l.datasets) == 0 {
		l.rendered = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("No metrics selected.")
		return nil
	}
	width := 0
	for _, ds := range l.datasets {
		width = max(width, lipgloss.Width(util.TruncateHead(ds.ID, maxIDRunes)))
	}
	var b strings.Builder
	for i, ds := range l.datasets {
		if i > 0 {
			b.WriteByte('\n')
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ds.Color))
		b.WriteString(style.Render(markerGlyphs[ds.Marker]))
		b.WriteByte(' ')
		b.WriteString(lipgloss.NewStyle().Width(width).Render(util.TruncateHead(ds.ID, maxIDRunes)))
		b.WriteByte(' ')
		b.WriteString(style.Render(Sparkline(ds.Data)))
	}
	l.rendered = b.String()
	return nil
}

// View returns the last drawn legend.
func (l *Legend) View() string { return l.rendered }

// Sparkline scales the present values of s onto block characters. Absent values are spaces.
func Sparkline(s dataset.Series) string {
	present := s.Present()
	if len(present) == 0 {
		return strings.Repeat(" ", len(s))
	}
	lo, hi := present[0], present[0]
	for _, f := range present {
		lo = min(lo, f)
		hi = max(hi, f)
	}
	out := make([]rune, len(s))
	for i, v := range s {
		f, ok := v.Float()
		if !ok {
			out[i] = ' '
			continue
		}
		idx := len(sparkBlocks) - 1
		if hi > lo {
			idx = int((f - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}
