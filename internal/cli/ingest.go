package metricview

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/metricview/internal/appconfig"
	"github.com/mwiater/metricview/internal/store"
)

var (
	ingestInput    string
	ingestTestcase string
	ingestTask     string
)

// ingestCmd implements 'ingest', which loads measurement rows into the store.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load JSON-lines measurement rows into the store",
	Long:  `The 'ingest' command reads newline-delimited JSON rows of the form {"time": ..., "fields": {...}} and records them under a test case and task id. Use --input - to read stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), getConfig(), ingestTestcase, ingestTask, ingestInput)
	},
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestInput, "input", "i", "-", "rows file, or - for stdin")
	ingestCmd.Flags().StringVar(&ingestTestcase, "testcase", "", "test case name ([a-z0-9_-]+)")
	ingestCmd.Flags().StringVar(&ingestTask, "task", "", "task id (uuid)")
	_ = ingestCmd.MarkFlagRequired("testcase")
	_ = ingestCmd.MarkFlagRequired("task")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(ctx context.Context, out io.Writer, stdin io.Reader, cfg appconfig.Config, testcase, task, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	rows, err := store.DecodeRows(r)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.StorePath())
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Record(ctx, testcase, task, rows); err != nil {
		return fmt.Errorf("record %s/%s: %w", testcase, task, err)
	}

	if cfg.JSONMode {
		return printJSON(out, map[string]any{"store": cfg.StorePath(), "testcase": testcase, "task": task, "rows": len(rows)})
	}
	printOK(out, "recorded %d rows for %s/%s in %s", len(rows), testcase, task, cfg.StorePath())
	return nil
}
