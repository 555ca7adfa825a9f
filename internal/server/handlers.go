package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/mwiater/metricview/internal/chart"
	"github.com/mwiater/metricview/internal/logging"
	"github.com/mwiater/metricview/internal/metrictree"
	"github.com/mwiater/metricview/internal/report"
	"github.com/mwiater/metricview/internal/table"
)

type nodeView struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Depth   int    `json:"depth"`
	Leaf    bool   `json:"leaf"`
	Checked bool   `json:"checked"`
}

type selectionView struct {
	State     report.State    `json:"state"`
	Selection []string        `json:"selection"`
	Table     *table.Grid     `json:"table"`
	Datasets  []chart.Dataset `json:"datasets"`
	Loaded    time.Time       `json:"loaded"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogEvent("encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) pageHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	var buf bytes.Buffer
	err := report.WritePage(&buf, s.ctrl, report.PageOptions{
		ChartSrc:     "/chart",
		ToggleAction: "/toggle",
		ResetAction:  "/reset",
	})
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) toggleFormHandler(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	s.mu.Lock()
	err := s.ctrl.Toggle(id)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) resetFormHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.ctrl.Clear()
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) chartPageHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	page := s.echart.Page()
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) chartSVGHandler(w http.ResponseWriter, _ *http.Request) {
	svg := chart.NewSVG(s.title(), s.chartWidth(), s.chartHeight())
	if err := s.drawOn(svg); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg.Bytes())
}

func (s *Server) chartPNGHandler(w http.ResponseWriter, _ *http.Request) {
	png := chart.NewPNG(s.title(), s.chartWidth(), s.chartHeight())
	if err := s.drawOn(png); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	img := png.Bytes()
	if len(img) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(img)
}

func (s *Server) title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Title()
}

// drawOn renders the current selection onto a fresh chart widget.
func (s *Server) drawOn(wd chart.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, err := chart.Create(wd, s.ctrl.Timestamps())
	if err != nil {
		return err
	}
	return ch.Update(s.ctrl.Series(s.ctrl.Selection()))
}

func (s *Server) treeHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes := s.ctrl.Tree().Tree().Nodes()
	out := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeView{
			ID:      n.ID,
			Label:   n.Label,
			Depth:   n.Depth,
			Leaf:    n.IsLeaf(),
			Checked: s.ctrl.Tree().IsChecked(n.ID),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) selectionHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.selectionView())
}

func (s *Server) summaryHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.ctrl.Summaries())
}

func (s *Server) nodeActionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var op func(string) error
	s.mu.Lock()
	defer s.mu.Unlock()
	switch chi.URLParam(r, "action") {
	case "check":
		op = s.ctrl.Check
	case "uncheck":
		op = s.ctrl.Uncheck
	case "toggle":
		op = s.ctrl.Toggle
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown node action"))
		return
	}
	if err := op(id); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.selectionView())
}

func (s *Server) resetHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.selectionView())
}

// selectionView must be called with mu held.
func (s *Server) selectionView() selectionView {
	return selectionView{
		State:     s.ctrl.State(),
		Selection: s.ctrl.Selection(),
		Table:     s.grid,
		Datasets:  s.ctrl.Chart().Datasets(),
		Loaded:    s.loaded,
	}
}

func statusFor(err error) int {
	if errors.Is(err, metrictree.ErrUnknownNode) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
