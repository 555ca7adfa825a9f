package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/mwiater/metricview/internal/dataset"
	"github.com/mwiater/metricview/internal/report"
)

const exampleJSON = `{
  "title": "net",
  "tree": [{"id": "net", "text": "Network", "children": [
    {"id": "lat", "text": "Latency"},
    {"id": "thr", "text": "Throughput"}
  ]}],
  "timestamps": ["t0", "t1", "t2"],
  "metrics": {"lat": [1, null, 3], "thr": [10, 20, 30]}
}`

func newModel(t *testing.T, opts Options) *model {
	t.Helper()
	in, err := report.DecodeJSON([]byte(exampleJSON))
	if err != nil {
		t.Fatalf("decode input: %v", err)
	}
	m, err := initialModel(opts, in)
	if err != nil {
		t.Fatalf("initialModel error: %v", err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestUpdate(t *testing.T) {
	m := newModel(t, Options{})

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}

	_, cmd = m.Update(key("ctrl+c"))
	if cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = newModel.(*model)
	if m.width != 100 || m.height != 40 {
		t.Errorf("Expected width 100 and height 40, got %d and %d", m.width, m.height)
	}
}

func TestToggleFromCursor(t *testing.T) {
	m := newModel(t, Options{})

	m.Update(key("space"))
	if diff := cmp.Diff([]string{"lat", "thr"}, m.ctrl.Selection()); diff != "" {
		t.Fatalf("unexpected selection after toggling the category (-want +got):\n%s", diff)
	}

	m.Update(key("down"))
	m.Update(key("space"))
	if diff := cmp.Diff([]string{"thr"}, m.ctrl.Selection()); diff != "" {
		t.Fatalf("unexpected selection after unchecking lat (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.terminal.String(), "thr") || strings.Contains(m.terminal.String(), "lat") {
		t.Fatalf("expected table to show only thr:\n%s", m.terminal.String())
	}

	m.Update(key("c"))
	if len(m.ctrl.Selection()) != 0 || m.ctrl.Tree().IsChecked("thr") {
		t.Fatalf("expected clear to empty the selection")
	}
	if diff := cmp.Diff([]string{"Timestamps", "t0", "t1", "t2"}, m.terminal.Header); diff != "" {
		t.Fatalf("expected clear to keep the header row (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.terminal.String(), "Timestamps") {
		t.Fatalf("expected the table to still show the header row:\n%s", m.terminal.String())
	}

	m.Update(key("a"))
	if len(m.ctrl.Selection()) != 2 {
		t.Fatalf("expected select all to pick both leaves, got %v", m.ctrl.Selection())
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m := newModel(t, Options{})
	for i := 0; i < 10; i++ {
		m.Update(key("down"))
	}
	if m.cursor != len(m.nodes)-1 {
		t.Fatalf("expected cursor on the last node, got %d", m.cursor)
	}
	for i := 0; i < 10; i++ {
		m.Update(key("k"))
	}
	if m.cursor != 0 {
		t.Fatalf("expected cursor on the first node, got %d", m.cursor)
	}
}

func TestViewShowsTreeAndLegend(t *testing.T) {
	m := newModel(t, Options{Select: []string{"lat"}})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	for _, want := range []string{"[x] Latency", "[ ] Throughput", "lat", "populated"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestSparklineGaps(t *testing.T) {
	got := Sparkline(dataset.Series{dataset.Num(0), dataset.Absent(), dataset.Num(7)})
	if got != "▁ █" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline(dataset.AbsentSeries(2)); got != "  " {
		t.Fatalf("expected blanks for an all-absent series, got %q", got)
	}
	if got := Sparkline(dataset.FromFloats(5, 5)); got != "██" {
		t.Fatalf("expected flat series at full height, got %q", got)
	}
}
