package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/metricview/internal/dataset"
)

func examplePayload() (dataset.Payload, dataset.Timestamps) {
	raw := dataset.Payload{
		"lat": dataset.Series{dataset.Num(1), dataset.Absent(), dataset.Num(3)},
		"thr": dataset.FromFloats(10, 20, 30),
	}
	return raw, dataset.Timestamps{"t0", "t1", "t2"}
}

func TestRenderExampleScenario(t *testing.T) {
	raw, ts := examplePayload()
	g := NewGrid()
	if err := Render(g, raw, ts, []string{"lat", "thr"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if g.RowCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", g.RowCount())
	}
	if diff := cmp.Diff([]string{"Timestamps", "t0", "t1", "t2"}, g.Header); diff != "" {
		t.Fatalf("unexpected header (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"lat", "1", "", "3"}, g.Rows[0]); diff != "" {
		t.Fatalf("unexpected lat row (-want +got):\n%s", diff)
	}

	if err := Render(g, raw, ts, []string{"lat"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if g.RowCount() != 2 {
		t.Fatalf("expected header + 1 row after shrinking selection, got %d", g.RowCount())
	}
}

func TestRenderEmptySelectionKeepsHeader(t *testing.T) {
	raw, ts := examplePayload()
	g := NewGrid()
	if err := Render(g, raw, ts, nil); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if g.Header == nil || len(g.Rows) != 0 {
		t.Fatalf("expected header only, got header=%v rows=%v", g.Header, g.Rows)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	raw, ts := examplePayload()
	g := NewGrid()
	_ = Render(g, raw, ts, []string{"thr", "lat"})
	first := *g
	first.Rows = append([][]string(nil), g.Rows...)
	_ = Render(g, raw, ts, []string{"thr", "lat"})
	if diff := cmp.Diff(first.Rows, g.Rows); diff != "" {
		t.Fatalf("re-render changed rows (-first +second):\n%s", diff)
	}
}

func TestRenderUnknownIDIsEmptyRow(t *testing.T) {
	raw, ts := examplePayload()
	g := NewGrid()
	if err := Render(g, raw, ts, []string{"ghost"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	row := g.Rows[0]
	if row[0] != "ghost" || len(row)-1 != len(ts) {
		t.Fatalf("unexpected row shape: %v", row)
	}
	for _, c := range row[1:] {
		if c != "" {
			t.Fatalf("expected empty cells, got %v", row)
		}
	}
}

func TestRoundTripSelectionLeavesNoState(t *testing.T) {
	raw, ts := examplePayload()
	g := NewGrid()
	_ = Render(g, raw, ts, []string{"lat", "thr"})
	first := append([][]string(nil), g.Rows...)
	_ = Render(g, raw, ts, []string{"lat"})
	_ = Render(g, raw, ts, []string{"lat", "thr"})
	if diff := cmp.Diff(first, g.Rows); diff != "" {
		t.Fatalf("round trip differs (-first +last):\n%s", diff)
	}
}

func TestHTMLFragmentEscapesAndHasGaps(t *testing.T) {
	raw, ts := examplePayload()
	raw["<b>"] = dataset.FromFloats(1, 2, 3)
	h := NewHTML("data-table")
	if err := Render(h, raw, ts, []string{"lat", "<b>"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	var buf bytes.Buffer
	if _, err := h.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `id="data-table"`) {
		t.Fatalf("missing table id: %s", out)
	}
	if !strings.Contains(out, "<td></td>") {
		t.Fatalf("expected empty cell for gap: %s", out)
	}
	if strings.Contains(out, "<b>") || strings.Contains(out, "null") || strings.Contains(out, "undefined") {
		t.Fatalf("unexpected raw text in output: %s", out)
	}
}

func TestTerminalRendersCells(t *testing.T) {
	raw, ts := examplePayload()
	term := NewTerminal()
	if err := Render(term, raw, ts, []string{"thr"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	out := term.String()
	for _, want := range []string{"Timestamps", "thr", "20", "t2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestWorkbookRerenderReplacesRows(t *testing.T) {
	raw, ts := examplePayload()
	wb, err := NewWorkbook("Report")
	if err != nil {
		t.Fatalf("NewWorkbook error: %v", err)
	}
	t.Cleanup(func() { _ = wb.Close() })

	if err := Render(wb, raw, ts, []string{"lat", "thr"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if err := Render(wb, raw, ts, []string{"thr"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	rows, err := wb.Rows()
	if err != nil {
		t.Fatalf("Rows error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %v", rows)
	}
	if rows[1][0] != "thr" || rows[1][2] != "20" {
		t.Fatalf("unexpected data row: %v", rows[1])
	}
}
