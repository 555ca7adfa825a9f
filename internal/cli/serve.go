package metricview

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mwiater/metricview/internal/report"
	"github.com/mwiater/metricview/internal/server"
)

var (
	serveInput  string
	serveSelect []string
)

// serveCmd implements 'serve', the HTTP report view.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a report over HTTP",
	Long:  `The 'serve' command serves one report: the page at /, a JSON API under /api/v1, and chart images at /chart.svg and /chart.png. With --watch the input is reloaded whenever it changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		in, err := report.LoadInput(serveInput)
		if err != nil {
			return err
		}
		if cfg.Title != "" {
			in.Title = cfg.Title
		}
		s, err := server.New(server.Config{
			Addr:        cfg.ListenAddr(),
			Title:       cfg.ReportTitle(),
			ChartWidth:  cfg.Width(),
			ChartHeight: cfg.Height(),
			Trace:       cfg.Debug,
			SelectAll:   cfg.SelectAll,
			Select:      serveSelect,
		}, in)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if cfg.Watch {
			if err := s.Watch(ctx, serveInput); err != nil {
				return err
			}
		}
		printOK(cmd.OutOrStdout(), "serving %s on %s", serveInput, cfg.ListenAddr())
		return s.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveInput, "input", "i", "", "report input (.json, .yaml)")
	serveCmd.Flags().StringSliceVarP(&serveSelect, "select", "s", nil, "node ids to check on start")
	_ = serveCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(serveCmd)
}
