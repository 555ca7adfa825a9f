package metricview

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mwiater/metricview/internal/logging"
	"github.com/mwiater/metricview/internal/report"
	"github.com/mwiater/metricview/internal/tui"
)

var (
	viewInput  string
	viewSelect []string
)

var startViewer = tui.Run

// viewCmd implements 'view', the interactive terminal report.
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse a report input in the terminal",
	Long:  `The 'view' command opens an interactive terminal view: move through the metric tree, toggle nodes with space, and watch the table and legend follow the selection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		// The alternate screen owns the terminal; logs go to the file only.
		if err := logging.InitTo(nil, cfg.LogFilePath()); err != nil {
			return err
		}
		in, err := report.LoadInput(viewInput)
		if err != nil {
			return err
		}
		if cfg.Title != "" {
			in.Title = cfg.Title
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return startViewer(ctx, tui.Options{
			Trace:     cfg.Debug,
			SelectAll: cfg.SelectAll,
			Select:    viewSelect,
		}, in)
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewInput, "input", "i", "", "report input (.json, .yaml)")
	viewCmd.Flags().StringSliceVarP(&viewSelect, "select", "s", nil, "node ids to check on start")
	_ = viewCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(viewCmd)
}
