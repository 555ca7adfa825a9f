// Package server serves one report over HTTP. Tree toggles arrive as form posts or API
// calls; every change re-renders the table and chart from the raw data.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mwiater/metricview/internal/chart"
	"github.com/mwiater/metricview/internal/logging"
	"github.com/mwiater/metricview/internal/report"
	"github.com/mwiater/metricview/internal/table"
)

// Config is the server's construction-time snapshot.
type Config struct {
	Addr        string
	Title       string
	ChartWidth  int
	ChartHeight int
	Trace       bool
	SelectAll   bool
	Select      []string
}

// Server owns one report controller. All access goes through mu.
type Server struct {
	cfg Config

	mu     sync.Mutex
	ctrl   *report.Controller
	grid   *table.Grid
	echart *chart.ECharts
	loaded time.Time
}

// New builds the report view for in and applies the initial selection.
func New(cfg Config, in *report.Input) (*Server, error) {
	s := &Server{cfg: cfg}
	if err := s.Reload(in); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload swaps in a new input. Leaves selected before the reload stay selected when they
// still exist.
func (s *Server) Reload(in *report.Input) error {
	if in.Title == "" {
		in.Title = s.cfg.Title
	}
	grid := table.NewGrid()
	echart := chart.NewECharts(in.Title, "100%", fmt.Sprintf("%dpx", s.chartHeight()))
	ctrl, err := report.New(report.Options{Trace: s.cfg.Trace}, in, grid, echart)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var keep []string
	if s.ctrl != nil {
		keep = s.ctrl.Selection()
	} else {
		keep = s.cfg.Select
		if s.cfg.SelectAll {
			if err := ctrl.SelectAll(); err != nil {
				return err
			}
		}
	}
	for _, id := range keep {
		if _, ok := ctrl.Tree().Tree().Node(id); !ok {
			continue
		}
		if err := ctrl.Check(id); err != nil {
			return err
		}
	}
	s.ctrl, s.grid, s.echart = ctrl, grid, echart
	s.loaded = time.Now()
	return nil
}

func (s *Server) chartHeight() int {
	if s.cfg.ChartHeight > 0 {
		return s.cfg.ChartHeight
	}
	return 420
}

func (s *Server) chartWidth() int {
	if s.cfg.ChartWidth > 0 {
		return s.cfg.ChartWidth
	}
	return 960
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("serving report on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
