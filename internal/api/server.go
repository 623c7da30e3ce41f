// Package api exposes completed scenario runs over HTTP for reporting
// consumers. All endpoints are GET, read-only.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/talgya/ets-sim/internal/engine"
)

// Server serves scenario results over HTTP.
type Server struct {
	Port int

	mu      sync.RWMutex
	results map[string][]engine.Record // scenario name → series
}

// NewServer creates an empty results server.
func NewServer(port int) *Server {
	return &Server{Port: port, results: make(map[string][]engine.Record)}
}

// Publish registers a finished run's series under its scenario name.
func (s *Server) Publish(name string, series []engine.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[name] = series
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/scenarios", s.handleScenarios)
	mux.HandleFunc("/api/v1/series", s.handleSeries)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, map[string]any{
		"scenarios": len(s.results),
		"columns":   engine.Columns(),
	})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.results))
	for name := range s.results {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, names)
}

// handleSeries returns the full series for ?scenario=<name>.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("scenario")
	s.mu.RLock()
	series, ok := s.results[name]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "unknown scenario", http.StatusNotFound)
		return
	}
	writeJSON(w, series)
}
