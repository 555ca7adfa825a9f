package chart

import (
	"bytes"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	pngMaxTicks   = 10
	pngMarkerSize = 4
)

// PNG draws a raster line chart with go-chart.
type PNG struct {
	Title  string
	Width  int
	Height int

	categories []string
	datasets   []Dataset
	buf        bytes.Buffer
}

// NewPNG returns a PNG widget of the given pixel size.
func NewPNG(title string, width, height int) *PNG {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 420
	}
	return &PNG{Title: title, Width: width, Height: height}
}

// Bind implements Widget.
func (p *PNG) Bind(categories []string) error {
	p.categories = append([]string(nil), categories...)
	return nil
}

// SetDatasets implements Widget.
func (p *PNG) SetDatasets(ds []Dataset) error {
	p.datasets = append([]Dataset(nil), ds...)
	return nil
}

// Bytes returns the last encoded image. It is empty when there was nothing to draw.
func (p *PNG) Bytes() []byte {
	return append([]byte(nil), p.buf.Bytes()...)
}

// WriteTo writes the last encoded image to w.
func (p *PNG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.buf.Bytes())
	return int64(n), err
}

// Redraw implements Widget. go-chart refuses to render without series, so an empty
// selection or an all-absent selection leaves the buffer empty.
func (p *PNG) Redraw() error {
	p.buf.Reset()

	series, named := p.series()
	if len(series) == 0 {
		return nil
	}

	lo, hi := valueRange(p.datasets)
	xMax := float64(len(p.categories) - 1)
	if xMax < 1 {
		xMax = 1
	}
	ch := chart.Chart{
		Title:      p.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      p.Width,
		Height:     p.Height,
		XAxis: chart.XAxis{
			Name:  "Timestamp",
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: p.ticks(),
		},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series: series,
	}
	// One legend entry per metric, not per gap-separated run.
	legend := ch
	legend.Series = named
	ch.Elements = []chart.Renderable{chart.Legend(&legend)}
	return ch.Render(chart.PNG, &p.buf)
}

// series splits every dataset into one markerSeries per run of present values. Only the
// first run of a dataset is named, so the legend lists each metric once.
func (p *PNG) series() (series, named []chart.Series) {
	for _, ds := range p.datasets {
		col := hexColor(ds.Color)
		style := chart.Style{StrokeColor: col, StrokeWidth: 2}
		for j, run := range Runs(ds.Data) {
			xs := make([]float64, 0, run.End-run.Start)
			ys := make([]float64, 0, run.End-run.Start)
			for i := run.Start; i < run.End; i++ {
				f, _ := ds.Data[i].Float()
				xs = append(xs, float64(i))
				ys = append(ys, f)
			}
			s := markerSeries{
				ContinuousSeries: chart.ContinuousSeries{XValues: xs, YValues: ys, Style: style},
				Marker:           ds.Marker,
			}
			if j == 0 {
				s.Name = ds.ID
				named = append(named, s)
			}
			series = append(series, s)
		}
	}
	return series, named
}

// markerSeries is a line whose points are drawn with a marker shape instead of go-chart's dots.
type markerSeries struct {
	chart.ContinuousSeries
	Marker Marker
}

// Render draws the line, then one filled marker per point.
func (s markerSeries) Render(r chart.Renderer, canvas chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	s.ContinuousSeries.Render(r, canvas, xrange, yrange, defaults)
	style := s.Style.InheritFrom(defaults)
	r.SetStrokeColor(style.StrokeColor)
	r.SetFillColor(style.StrokeColor)
	r.SetStrokeWidth(1)
	for i := range s.XValues {
		x := canvas.Left + xrange.Translate(s.XValues[i])
		y := canvas.Bottom - yrange.Translate(s.YValues[i])
		drawMarkerPath(r, s.Marker, x, y, pngMarkerSize)
	}
}

// pathDrawer is the part of chart.Renderer the markers need.
type pathDrawer interface {
	MoveTo(x, y int)
	LineTo(x, y int)
	Close()
	Circle(radius float64, x, y int)
	FillStroke()
}

type point struct{ x, y int }

func drawMarkerPath(r pathDrawer, m Marker, x, y, size int) {
	arm := max(size/3, 1)
	var poly []point
	switch m {
	case MarkerSquare:
		poly = []point{{x - size, y - size}, {x + size, y - size}, {x + size, y + size}, {x - size, y + size}}
	case MarkerTriangle:
		poly = []point{{x, y - size}, {x + size, y + size}, {x - size, y + size}}
	case MarkerDiamond:
		poly = []point{{x, y - size}, {x + size, y}, {x, y + size}, {x - size, y}}
	case MarkerCross:
		poly = []point{
			{x - arm, y - size}, {x + arm, y - size}, {x + arm, y - arm}, {x + size, y - arm},
			{x + size, y + arm}, {x + arm, y + arm}, {x + arm, y + size}, {x - arm, y + size},
			{x - arm, y + arm}, {x - size, y + arm}, {x - size, y - arm}, {x - arm, y - arm},
		}
	default:
		r.Circle(float64(size), x, y)
		r.FillStroke()
		return
	}
	r.MoveTo(poly[0].x, poly[0].y)
	for _, pt := range poly[1:] {
		r.LineTo(pt.x, pt.y)
	}
	r.Close()
	r.FillStroke()
}

func (p *PNG) ticks() []chart.Tick {
	n := len(p.categories)
	step := 1
	if n > pngMaxTicks {
		step = (n + pngMaxTicks - 1) / pngMaxTicks
	}
	ticks := make([]chart.Tick, 0, pngMaxTicks+1)
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.categories[i]})
	}
	return ticks
}

func hexColor(s string) drawing.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(s)
}
