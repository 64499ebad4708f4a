// Package httpapi exposes liveness and enrollment counters over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sovetnikUSSR/bot-smotry/internal/store"
)

// Server serves /healthz and /stats.
type Server struct {
	reg     *store.Registry
	router  chi.Router
	started time.Time
}

// New creates a Server reading counts from reg.
func New(reg *store.Registry) *Server {
	s := &Server{reg: reg, started: time.Now()}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/stats", s.handleStats)

	s.router = r
}

type stats struct {
	Enrolled       int     `json:"enrolled"`
	Active         int     `json:"active"`
	AwaitingWindow int     `json:"awaiting_window"`
	Uptime         float64 `json:"uptime_seconds"`
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	total, active := s.reg.Counts()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats{
		Enrolled:       total,
		Active:         active,
		AwaitingWindow: total - active,
		Uptime:         time.Since(s.started).Seconds(),
	})
}
