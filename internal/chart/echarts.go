package chart

import (
	"bytes"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// echartsSymbols maps markers onto ECharts symbols. ECharts has no cross, so it is a path.
var echartsSymbols = map[Marker]string{
	MarkerCircle:   "circle",
	MarkerSquare:   "rect",
	MarkerTriangle: "triangle",
	MarkerDiamond:  "diamond",
	MarkerCross:    "path://M3,0H5V3H8V5H5V8H3V5H0V3H3Z",
}

// absentPoint is how ECharts spells a missing value.
const absentPoint = "-"

// ECharts draws an interactive HTML line chart with go-echarts.
type ECharts struct {
	Title  string
	Width  string
	Height string

	categories []string
	datasets   []Dataset
	page       bytes.Buffer
}

// NewECharts returns an ECharts widget. Width and height are CSS sizes.
func NewECharts(title, width, height string) *ECharts {
	if width == "" {
		width = "100%"
	}
	if height == "" {
		height = "420px"
	}
	return &ECharts{Title: title, Width: width, Height: height}
}

// Bind implements Widget.
func (e *ECharts) Bind(categories []string) error {
	e.categories = append([]string(nil), categories...)
	return nil
}

// SetDatasets implements Widget.
func (e *ECharts) SetDatasets(ds []Dataset) error {
	e.datasets = append([]Dataset(nil), ds...)
	return nil
}

// Redraw rebuilds the chart page from the current datasets.
func (e *ECharts) Redraw() error {
	line := e.build()
	e.page.Reset()
	return line.Render(&e.page)
}

// Page returns the last rendered standalone HTML page.
func (e *ECharts) Page() []byte {
	return append([]byte(nil), e.page.Bytes()...)
}

// WriteTo writes the last rendered page to w.
func (e *ECharts) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(e.page.Bytes())
	return int64(n), err
}

func (e *ECharts) build() *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: e.Title,
			Width:     e.Width,
			Height:    e.Height,
		}),
		charts.WithTitleOpts(opts.Title{Title: e.Title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Timestamp",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)
	line.SetXAxis(e.categories)

	for _, ds := range e.datasets {
		points := make([]opts.LineData, len(ds.Data))
		for i, v := range ds.Data {
			if f, ok := v.Float(); ok {
				points[i] = opts.LineData{Value: f}
			} else {
				points[i] = opts.LineData{Value: absentPoint}
			}
		}
		line.AddSeries(ds.ID, points,
			charts.WithLineChartOpts(opts.LineChart{
				ConnectNulls: opts.Bool(ds.SpanGaps),
				ShowSymbol:   opts.Bool(true),
				Symbol:       echartsSymbols[ds.Marker],
				SymbolSize:   8,
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: ds.Color}),
		)
	}
	return line
}
