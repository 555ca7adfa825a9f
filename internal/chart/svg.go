package chart

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/mwiater/metricview/internal/util"
)

const (
	svgMargin     = 56
	svgLegendRow  = 18
	svgMarkerSize = 4
	svgMaxXLabels = 8
)

// SVG draws a static line chart with svgo.
type SVG struct {
	Title  string
	Width  int
	Height int

	categories []string
	datasets   []Dataset
	buf        bytes.Buffer
}

// NewSVG returns an SVG widget of the given pixel size.
func NewSVG(title string, width, height int) *SVG {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 420
	}
	return &SVG{Title: title, Width: width, Height: height}
}

// Bind implements Widget.
func (s *SVG) Bind(categories []string) error {
	s.categories = append([]string(nil), categories...)
	return nil
}

// SetDatasets implements Widget.
func (s *SVG) SetDatasets(ds []Dataset) error {
	s.datasets = append([]Dataset(nil), ds...)
	return nil
}

// Bytes returns the last drawn document.
func (s *SVG) Bytes() []byte {
	return append([]byte(nil), s.buf.Bytes()...)
}

// WriteTo writes the last drawn document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.buf.Bytes())
	return int64(n), err
}

// Redraw implements Widget.
func (s *SVG) Redraw() error {
	s.buf.Reset()
	canvas := svg.New(&s.buf)
	canvas.Start(s.Width, s.Height)
	canvas.Title(s.Title)
	canvas.Rect(0, 0, s.Width, s.Height, "fill:#ffffff")

	left, top := svgMargin, svgMargin/2
	right := s.Width - svgMargin/2
	bottom := s.Height - svgMargin - svgLegendRow*((len(s.datasets)+3)/4)
	if bottom <= top {
		bottom = top + 1
	}
	if s.Title != "" {
		canvas.Text(s.Width/2, top-8, s.Title, "text-anchor:middle;font-size:14px;font-family:sans-serif")
	}

	lo, hi := valueRange(s.datasets)
	xAt := func(i int) int {
		n := len(s.categories)
		if n <= 1 {
			return (left + right) / 2
		}
		return left + i*(right-left)/(n-1)
	}
	yAt := func(f float64) int {
		return bottom - int((f-lo)/(hi-lo)*float64(bottom-top))
	}

	canvas.Group(`class="axes"`)
	canvas.Line(left, bottom, right, bottom, "stroke:#444444")
	canvas.Line(left, top, left, bottom, "stroke:#444444")
	for k := 0; k <= 4; k++ {
		f := lo + (hi-lo)*float64(k)/4
		y := yAt(f)
		canvas.Line(left, y, right, y, "stroke:#e6e6e6")
		canvas.Text(left-6, y+4, strconv.FormatFloat(f, 'g', 4, 64), "text-anchor:end;font-size:10px;font-family:sans-serif")
	}
	step := 1
	if len(s.categories) > svgMaxXLabels {
		step = (len(s.categories) + svgMaxXLabels - 1) / svgMaxXLabels
	}
	for i := 0; i < len(s.categories); i += step {
		canvas.Text(xAt(i), bottom+14, util.TruncateRunes(s.categories[i], 16), "text-anchor:middle;font-size:10px;font-family:sans-serif")
	}
	canvas.Gend()

	for _, ds := range s.datasets {
		canvas.Group(`class="series"`)
		for _, run := range Runs(ds.Data) {
			if run.End-run.Start < 2 {
				continue
			}
			xs := make([]int, 0, run.End-run.Start)
			ys := make([]int, 0, run.End-run.Start)
			for i := run.Start; i < run.End; i++ {
				f, _ := ds.Data[i].Float()
				xs = append(xs, xAt(i))
				ys = append(ys, yAt(f))
			}
			canvas.Polyline(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", ds.Color))
		}
		for i, v := range ds.Data {
			f, ok := v.Float()
			if !ok {
				continue
			}
			drawMarker(canvas, ds.Marker, ds.Color, xAt(i), yAt(f))
		}
		canvas.Gend()
	}

	for i, ds := range s.datasets {
		x := left + (i%4)*((right-left)/4)
		y := s.Height - svgMargin/2 - svgLegendRow*((len(s.datasets)+3)/4-1-i/4)
		drawMarker(canvas, ds.Marker, ds.Color, x, y-4)
		canvas.Text(x+10, y, util.TruncateHead(ds.ID, 24), "font-size:11px;font-family:sans-serif")
	}

	canvas.End()
	return nil
}

func drawMarker(canvas *svg.SVG, m Marker, color string, x, y int) {
	r := svgMarkerSize
	attrs := fmt.Sprintf(`class="marker %s" fill="%s" stroke="%s"`, m, color, color)
	switch m {
	case MarkerSquare:
		canvas.Rect(x-r, y-r, 2*r, 2*r, attrs)
	case MarkerTriangle:
		canvas.Polygon([]int{x, x + r, x - r}, []int{y - r, y + r, y + r}, attrs)
	case MarkerDiamond:
		canvas.Polygon([]int{x, x + r, x, x - r}, []int{y - r, y, y + r, y}, attrs)
	case MarkerCross:
		canvas.Path(fmt.Sprintf("M%d,%d L%d,%d M%d,%d L%d,%d", x-r, y-r, x+r, y+r, x-r, y+r, x+r, y-r),
			fmt.Sprintf(`class="marker %s" stroke="%s" stroke-width="2"`, m, color))
	default:
		canvas.Circle(x, y, r, attrs)
	}
}
