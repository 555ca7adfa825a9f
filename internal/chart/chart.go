// Package chart renders the report's multi-series line chart. Every selected leaf metric
// becomes one dataset sharing the timestamp category axis. Absent values are gaps.
package chart

import (
	"errors"
	"fmt"

	"github.com/mwiater/metricview/internal/dataset"
)

// ErrNotBound is returned when Update runs on a chart that was never created.
var ErrNotBound = errors.New("chart is not bound to a widget")

// Palette is the fixed color cycle. Colors follow a series' position, not its id.
var Palette = [...]string{
	"#3366cc", "#dc3912", "#ff9900", "#109618", "#990099", "#0099c6",
	"#dd4477", "#66aa00", "#b82e2e", "#316395", "#994499",
}

// Marker is a point shape.
type Marker int

const (
	MarkerCircle Marker = iota
	MarkerSquare
	MarkerTriangle
	MarkerDiamond
	MarkerCross
)

// Markers is the fixed marker cycle.
var Markers = [...]Marker{MarkerCircle, MarkerSquare, MarkerTriangle, MarkerDiamond, MarkerCross}

func (m Marker) String() string {
	switch m {
	case MarkerCircle:
		return "circle"
	case MarkerSquare:
		return "square"
	case MarkerTriangle:
		return "triangle"
	case MarkerDiamond:
		return "diamond"
	case MarkerCross:
		return "cross"
	default:
		return fmt.Sprintf("marker(%d)", int(m))
	}
}

// MarshalText lets markers appear by name in JSON.
func (m Marker) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Style returns the color and marker for the series at position i.
func Style(i int) (string, Marker) {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)], Markers[i%len(Markers)]
}

// Dataset is one drawn series. SpanGaps is always false: lines break at absent values.
type Dataset struct {
	ID       string         `json:"id"`
	Data     dataset.Series `json:"data"`
	Color    string         `json:"color"`
	Marker   Marker         `json:"marker"`
	SpanGaps bool           `json:"spanGaps"`
}

// Series is an update input: a metric id and its values.
type Series struct {
	ID   string
	Data dataset.Series
}

// Widget is a drawing surface for the chart.
type Widget interface {
	// Bind sets the x-axis categories.
	Bind(categories []string) error
	// SetDatasets replaces the whole dataset list.
	SetDatasets(ds []Dataset) error
	Redraw() error
}

// Chart is a live chart handle.
type Chart struct {
	widget     Widget
	categories []string
	datasets   []Dataset
}

// Create binds an empty chart to timestamps on w.
func Create(w Widget, timestamps dataset.Timestamps) (*Chart, error) {
	if w == nil {
		return nil, ErrNotBound
	}
	cats := append([]string(nil), timestamps...)
	if err := w.Bind(cats); err != nil {
		return nil, fmt.Errorf("bind chart categories: %w", err)
	}
	c := &Chart{widget: w, categories: cats, datasets: []Dataset{}}
	if err := w.SetDatasets(c.datasets); err != nil {
		return nil, fmt.Errorf("reset chart datasets: %w", err)
	}
	return c, nil
}

// Update replaces every dataset with one per entry of series, styled by position, and
// redraws. Data is normalized to the category count, padding with absent values.
func (c *Chart) Update(series []Series) error {
	if c == nil || c.widget == nil {
		return ErrNotBound
	}
	n := len(c.categories)
	ds := make([]Dataset, 0, len(series))
	for i, s := range series {
		color, marker := Style(i)
		ds = append(ds, Dataset{
			ID:     s.ID,
			Data:   s.Data.Normalize(n),
			Color:  color,
			Marker: marker,
		})
	}
	c.datasets = ds
	if err := c.widget.SetDatasets(c.Datasets()); err != nil {
		return fmt.Errorf("set chart datasets: %w", err)
	}
	if err := c.widget.Redraw(); err != nil {
		return fmt.Errorf("redraw chart: %w", err)
	}
	return nil
}

// Datasets returns a copy of the current dataset list.
func (c *Chart) Datasets() []Dataset {
	return append([]Dataset(nil), c.datasets...)
}

// Categories returns the bound x-axis categories.
func (c *Chart) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Widget returns the surface the chart draws on.
func (c *Chart) Widget() Widget { return c.widget }

// Run is a half-open index range [Start, End) of consecutive present values.
type Run struct {
	Start, End int
}

// Runs splits s at absent values. Line segments are drawn per run so a gap is never bridged.
func Runs(s dataset.Series) []Run {
	var out []Run
	start := -1
	for i, v := range s {
		switch {
		case !v.IsAbsent() && start < 0:
			start = i
		case v.IsAbsent() && start >= 0:
			out = append(out, Run{Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, Run{Start: start, End: len(s)})
	}
	return out
}

// valueRange returns a non-degenerate y range over every present value in ds.
func valueRange(ds []Dataset) (float64, float64) {
	lo, hi := 0.0, 0.0
	found := false
	for _, d := range ds {
		for _, v := range d.Data {
			f, ok := v.Float()
			if !ok {
				continue
			}
			if !found {
				lo, hi, found = f, f, true
				continue
			}
			lo = min(lo, f)
			hi = max(hi, f)
		}
	}
	if !found {
		return 0, 1
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	return lo, hi
}
