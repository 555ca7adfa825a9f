package metricview

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/metricview/internal/appconfig"
	"github.com/mwiater/metricview/internal/report"
	"github.com/mwiater/metricview/internal/store"
)

var (
	generateSelect []string
	generateXLSX   string
)

// generateCmd implements 'generate', the report for one stored task.
var generateCmd = &cobra.Command{
	Use:   "generate <testcase> <task-id>",
	Short: "Generate a report from stored measurements",
	Long:  `The 'generate' command queries the measurement store for one test case and task id and renders the HTML report. Every field key becomes a metric; dotted keys are grouped into categories. Without --select every metric is shown.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), cmd.OutOrStdout(), getConfig(), args[0], args[1], reportOptions{
			Select: generateSelect,
			XLSX:   generateXLSX,
		})
	},
}

func init() {
	generateCmd.Flags().StringSliceVarP(&generateSelect, "select", "s", nil, "node ids to check instead of all")
	generateCmd.Flags().StringVar(&generateXLSX, "xlsx", "", "also write the table to this workbook")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, out io.Writer, cfg appconfig.Config, testcase, task string, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := store.ValidateTestcase(testcase); err != nil {
		return err
	}
	if _, err := store.ValidateTaskID(task); err != nil {
		return err
	}
	s, err := store.Open(cfg.StorePath())
	if err != nil {
		return err
	}
	defer s.Close()

	frame, err := s.Load(ctx, testcase, task)
	if err != nil {
		return err
	}
	title := cfg.Title
	if title == "" {
		title = fmt.Sprintf("%s %s", testcase, task)
	}
	in, err := report.FromFrame(title, frame)
	if err != nil {
		return err
	}
	if len(opts.Select) == 0 {
		cfg.SelectAll = true
	}
	cfg.Title = title
	return writeReport(out, cfg, in, opts)
}
