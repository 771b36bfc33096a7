package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/statboard/internal/display"
	"github.com/ziadkadry99/statboard/internal/refresh"
)

// statsResponse is the body of GET /api/stats and POST /api/stats/refresh.
type statsResponse struct {
	Sources     []display.SourceView `json:"sources"`
	LastRefresh *refreshInfo         `json:"last_refresh,omitempty"`
}

type refreshInfo struct {
	Started  time.Time `json:"started"`
	Duration string    `json:"duration"`
	Sources  int       `json:"sources"`
	Failed   int       `json:"failed"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := s.cfg.Page
	if page.Year == 0 {
		page.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := display.RenderHTML(&buf, page, s.svc.Board().Snapshot()); err != nil {
		slog.ErrorContext(r.Context(), "rendering page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.statsResponse())
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "source")
	view, ok := s.svc.Board().Source(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown source: "+name)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.svc.Refresh(r.Context())
	writeJSON(w, http.StatusOK, s.statsResponse())
}

func (s *Server) statsResponse() statsResponse {
	resp := statsResponse{Sources: s.svc.Board().Snapshot().Sources}
	if _, sum := s.svc.Last(); !sum.Started.IsZero() {
		resp.LastRefresh = summaryInfo(sum)
	}
	return resp
}

func summaryInfo(sum refresh.Summary) *refreshInfo {
	return &refreshInfo{
		Started:  sum.Started,
		Duration: sum.Duration.String(),
		Sources:  sum.Sources,
		Failed:   sum.Failed,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
