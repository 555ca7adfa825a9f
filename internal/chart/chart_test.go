package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/metricview/internal/dataset"
)

type recordingWidget struct {
	categories []string
	datasets   []Dataset
	redraws    int
}

func (r *recordingWidget) Bind(c []string) error         { r.categories = c; return nil }
func (r *recordingWidget) SetDatasets(ds []Dataset) error { r.datasets = ds; return nil }
func (r *recordingWidget) Redraw() error                  { r.redraws++; return nil }

func exampleSeries() []Series {
	return []Series{
		{ID: "lat", Data: dataset.Series{dataset.Num(1), dataset.Absent(), dataset.Num(3)}},
		{ID: "thr", Data: dataset.FromFloats(10, 20, 30)},
	}
}

var exampleTimestamps = dataset.Timestamps{"t0", "t1", "t2"}

func TestStyleCyclesByPosition(t *testing.T) {
	for i := 0; i < 30; i++ {
		color, marker := Style(i)
		if color != Palette[i%11] {
			t.Fatalf("series %d: expected color %s, got %s", i, Palette[i%11], color)
		}
		if marker != Markers[i%5] {
			t.Fatalf("series %d: expected marker %s, got %s", i, Markers[i%5], marker)
		}
	}
	if c0, _ := Style(0); c0 == Palette[1] {
		t.Fatalf("adjacent series must not share a color")
	}
}

func TestCreateBindsEmptyChart(t *testing.T) {
	w := &recordingWidget{}
	c, err := Create(w, exampleTimestamps)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if diff := cmp.Diff([]string{"t0", "t1", "t2"}, w.categories); diff != "" {
		t.Fatalf("unexpected categories (-want +got):\n%s", diff)
	}
	if len(c.Datasets()) != 0 || len(w.datasets) != 0 {
		t.Fatalf("expected a new chart to have no datasets")
	}
}

func TestCreateWithoutWidget(t *testing.T) {
	if _, err := Create(nil, exampleTimestamps); err == nil {
		t.Fatalf("expected an error without a widget")
	}
}

func TestUpdateReplacesDatasets(t *testing.T) {
	w := &recordingWidget{}
	c, err := Create(w, exampleTimestamps)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := c.Update(exampleSeries()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(w.datasets) != 2 || w.redraws != 1 {
		t.Fatalf("expected 2 datasets and 1 redraw, got %d and %d", len(w.datasets), w.redraws)
	}
	if w.datasets[1].Color != Palette[1] || w.datasets[1].Marker != MarkerSquare {
		t.Fatalf("unexpected styling for second dataset: %+v", w.datasets[1])
	}

	if err := c.Update(exampleSeries()[1:]); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(w.datasets) != 1 || w.datasets[0].ID != "thr" {
		t.Fatalf("expected only thr after update, got %+v", w.datasets)
	}
	if w.datasets[0].Color != Palette[0] || w.datasets[0].Marker != MarkerCircle {
		t.Fatalf("styling must follow position, got %+v", w.datasets[0])
	}

	if err := c.Update(nil); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(w.datasets) != 0 || w.redraws != 3 {
		t.Fatalf("expected empty datasets after 3 redraws, got %d datasets and %d redraws", len(w.datasets), w.redraws)
	}
}

func TestUpdateKeepsGapsAndPadsUnknown(t *testing.T) {
	w := &recordingWidget{}
	c, _ := Create(w, exampleTimestamps)
	if err := c.Update([]Series{exampleSeries()[0], {ID: "ghost"}}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	lat := w.datasets[0]
	if lat.SpanGaps {
		t.Fatalf("datasets must not span gaps")
	}
	if !lat.Data[1].IsAbsent() {
		t.Fatalf("expected the gap to stay absent, got %v", lat.Data[1])
	}
	ghost := w.datasets[1]
	if len(ghost.Data) != 3 || len(ghost.Data.Present()) != 0 {
		t.Fatalf("expected 3 absent values for an unknown id, got %v", ghost.Data)
	}
}

func TestRuns(t *testing.T) {
	s := dataset.Series{dataset.Absent(), dataset.Num(1), dataset.Num(2), dataset.Absent(), dataset.Num(4)}
	want := []Run{{Start: 1, End: 3}, {Start: 4, End: 5}}
	if diff := cmp.Diff(want, Runs(s)); diff != "" {
		t.Fatalf("unexpected runs (-want +got):\n%s", diff)
	}
	if got := Runs(dataset.AbsentSeries(3)); len(got) != 0 {
		t.Fatalf("expected no runs for an all-absent series, got %v", got)
	}
}

func TestSVGSplitsLinesAtGaps(t *testing.T) {
	w := NewSVG("latency", 640, 320)
	c, err := Create(w, exampleTimestamps)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := c.Update(exampleSeries()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	doc := string(w.Bytes())
	if !strings.Contains(doc, "<svg") {
		t.Fatalf("expected an svg document, got %q", doc)
	}
	// lat is two isolated points; only thr has a connected run.
	if got := strings.Count(doc, "<polyline"); got != 1 {
		t.Fatalf("expected 1 polyline, got %d", got)
	}
	// 5 present points plus 2 legend swatches.
	if got := strings.Count(doc, `class="marker `); got != 7 {
		t.Fatalf("expected 7 markers, got %d", got)
	}
	if !strings.Contains(doc, `class="marker square"`) {
		t.Fatalf("expected the second series to use square markers")
	}
}

func TestSVGEmptySelectionStillDraws(t *testing.T) {
	w := NewSVG("", 0, 0)
	c, _ := Create(w, exampleTimestamps)
	if err := c.Update(nil); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	doc := string(w.Bytes())
	if !strings.Contains(doc, "</svg>") || strings.Contains(doc, "<polyline") {
		t.Fatalf("expected empty axes only, got %q", doc)
	}
}

func TestPNGRendersImage(t *testing.T) {
	w := NewPNG("latency", 480, 240)
	c, _ := Create(w, exampleTimestamps)
	if err := c.Update(exampleSeries()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	img := w.Bytes()
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Fatalf("expected PNG bytes, got %d bytes", len(img))
	}
}

func TestPNGSeriesCarryMarkers(t *testing.T) {
	w := NewPNG("latency", 480, 240)
	c, _ := Create(w, exampleTimestamps)
	if err := c.Update(exampleSeries()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	series, named := w.series()
	var got []Marker
	for _, s := range series {
		ms, ok := s.(markerSeries)
		if !ok {
			t.Fatalf("expected markerSeries, got %T", s)
		}
		got = append(got, ms.Marker)
	}
	if diff := cmp.Diff([]Marker{MarkerCircle, MarkerCircle, MarkerSquare}, got); diff != "" {
		t.Fatalf("unexpected markers per run (-want +got):\n%s", diff)
	}
	if len(named) != 2 {
		t.Fatalf("expected one legend entry per metric, got %d", len(named))
	}
}

type pathRecorder struct {
	vertices int
	circles  int
	closed   int
	fills    int
}

func (p *pathRecorder) MoveTo(x, y int)                 { p.vertices++ }
func (p *pathRecorder) LineTo(x, y int)                 { p.vertices++ }
func (p *pathRecorder) Close()                          { p.closed++ }
func (p *pathRecorder) Circle(radius float64, x, y int) { p.circles++ }
func (p *pathRecorder) FillStroke()                     { p.fills++ }

func TestMarkerPathShapes(t *testing.T) {
	want := map[Marker]int{MarkerSquare: 4, MarkerTriangle: 3, MarkerDiamond: 4, MarkerCross: 12}
	for m, vertices := range want {
		var r pathRecorder
		drawMarkerPath(&r, m, 10, 10, 4)
		if r.vertices != vertices || r.closed != 1 || r.fills != 1 || r.circles != 0 {
			t.Fatalf("%s: unexpected path %+v", m, r)
		}
	}
	var r pathRecorder
	drawMarkerPath(&r, MarkerCircle, 10, 10, 4)
	if r.circles != 1 || r.fills != 1 || r.vertices != 0 {
		t.Fatalf("circle: unexpected path %+v", r)
	}
}

func TestPNGEmptyState(t *testing.T) {
	w := NewPNG("latency", 480, 240)
	c, _ := Create(w, exampleTimestamps)
	if err := c.Update([]Series{{ID: "ghost"}}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(w.Bytes()) != 0 {
		t.Fatalf("expected no image when nothing is present")
	}
}

func TestEChartsPage(t *testing.T) {
	w := NewECharts("latency", "", "")
	c, _ := Create(w, exampleTimestamps)
	if err := c.Update(exampleSeries()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	page := string(w.Page())
	for _, want := range []string{"echarts", "lat", "thr", "connectNulls"} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
}
