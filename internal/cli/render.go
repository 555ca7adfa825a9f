package metricview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/metricview/internal/appconfig"
	"github.com/mwiater/metricview/internal/chart"
	"github.com/mwiater/metricview/internal/logging"
	"github.com/mwiater/metricview/internal/report"
	"github.com/mwiater/metricview/internal/table"
	"github.com/mwiater/metricview/internal/util"
)

var (
	renderInput  string
	renderSelect []string
	renderXLSX   string
)

// renderCmd implements 'render', which writes a standalone HTML report.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a report input to a standalone HTML page",
	Long:  `The 'render' command loads a JSON or YAML report input, applies the selection, and writes an HTML page with the metric tree, the data table and the chart. It can also write the chart as SVG or PNG and the table as an XLSX workbook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := report.LoadInput(renderInput)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), getConfig(), in, reportOptions{
			Select: renderSelect,
			XLSX:   renderXLSX,
		})
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "report input (.json, .yaml)")
	renderCmd.Flags().StringSliceVarP(&renderSelect, "select", "s", nil, "node ids to check (categories select their leaves)")
	renderCmd.Flags().StringVar(&renderXLSX, "xlsx", "", "also write the table to this workbook")
	_ = renderCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(renderCmd)
}

type reportOptions struct {
	Select []string
	XLSX   string
}

type reportResult struct {
	Output    string   `json:"output"`
	Chart     string   `json:"chart,omitempty"`
	Workbook  string   `json:"workbook,omitempty"`
	State     string   `json:"state"`
	Selection []string `json:"selection"`
}

// writeReport renders in to the configured output and the optional chart and workbook.
func writeReport(out io.Writer, cfg appconfig.Config, in *report.Input, opts reportOptions) error {
	if in.Title == "" || cfg.Title != "" {
		in.Title = cfg.ReportTitle()
	}
	echart := chart.NewECharts(in.Title, "100%", fmt.Sprintf("%dpx", cfg.Height()))
	ctrl, err := report.New(report.Options{Trace: cfg.Debug}, in, table.NewGrid(), echart)
	if err != nil {
		return err
	}
	if cfg.SelectAll {
		if err := ctrl.SelectAll(); err != nil {
			return err
		}
	}
	if err := ctrl.Select(opts.Select...); err != nil {
		return err
	}

	res := reportResult{Output: cfg.OutputPath(), State: ctrl.State().String(), Selection: ctrl.Selection()}
	if err := writeFile(res.Output, func(w io.Writer) error {
		return report.WritePage(w, ctrl, report.PageOptions{ChartHTML: echart.Page()})
	}); err != nil {
		return err
	}

	chartPath, err := writeChartImage(cfg, ctrl)
	if err != nil {
		return err
	}
	res.Chart = chartPath

	if opts.XLSX != "" {
		if err := writeWorkbook(opts.XLSX, ctrl); err != nil {
			return err
		}
		res.Workbook = opts.XLSX
	}

	logging.LogEvent("report written to %s (%s, %d metrics)", res.Output, res.State, len(res.Selection))
	if cfg.JSONMode {
		return printJSON(out, res)
	}
	printOK(out, "report written to %s", res.Output)
	if res.Chart != "" {
		printOK(out, "chart written to %s", res.Chart)
	}
	if res.Workbook != "" {
		printOK(out, "workbook written to %s", res.Workbook)
	}
	if ctrl.State() == report.StateEmpty {
		printWarn(out, "no metrics selected; use --select or --selectAll")
	}
	return nil
}

// writeChartImage draws the current selection as svg or png beside the HTML output.
func writeChartImage(cfg appconfig.Config, ctrl *report.Controller) (string, error) {
	var (
		widget interface {
			chart.Widget
			Bytes() []byte
		}
		ext string
	)
	switch cfg.Format() {
	case appconfig.ChartSVG:
		widget, ext = chart.NewSVG(ctrl.Title(), cfg.Width(), cfg.Height()), ".svg"
	case appconfig.ChartPNG:
		widget, ext = chart.NewPNG(ctrl.Title(), cfg.Width(), cfg.Height()), ".png"
	default:
		return "", nil
	}
	ch, err := chart.Create(widget, ctrl.Timestamps())
	if err != nil {
		return "", err
	}
	if err := ch.Update(ctrl.Series(ctrl.Selection())); err != nil {
		return "", err
	}
	data := widget.Bytes()
	if len(data) == 0 {
		return "", nil
	}
	path := strings.TrimSuffix(cfg.OutputPath(), filepath.Ext(cfg.OutputPath())) + ext
	if err := util.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

func writeWorkbook(path string, ctrl *report.Controller) error {
	wb, err := table.NewWorkbook("metrics")
	if err != nil {
		return err
	}
	defer wb.Close()
	if err := table.Render(wb, ctrl.Raw(), ctrl.Timestamps(), ctrl.Selection()); err != nil {
		return err
	}
	return wb.SaveAs(path)
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
