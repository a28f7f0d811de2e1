// Package server exposes the HTTP API: sample ingest, refresh, metrics,
// workouts, calibration, advisories, and profile CRUD.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/vitalfuse/internal/engine"
	"github.com/claude/vitalfuse/internal/ingest"
	"github.com/claude/vitalfuse/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	ingest *ingest.Provider
	engine *engine.Engine
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, provider *ingest.Provider, eng *engine.Engine, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		ingest: provider,
		engine: eng,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/{device}", s.handleIngest)
	})

	// Dashboard API endpoints (no auth — tsnet handles access)
	s.router.Post("/api/v1/refresh", s.handleRefresh)
	s.router.Get("/api/v1/metrics/today", s.handleToday)
	s.router.Get("/api/v1/history", s.handleHistory)
	s.router.Get("/api/v1/samples", s.handleSamples)
	s.router.Get("/api/v1/workouts", s.handleWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/advisories", s.handleAdvisories)
	s.router.Get("/api/v1/records", s.handleRecords)
	s.router.Get("/api/v1/calibration", s.handleGetCalibration)
	s.router.Post("/api/v1/calibration", s.handleCalibrate)
	s.router.Delete("/api/v1/calibration", s.handleDeleteCalibration)
	s.router.Get("/api/v1/profile", s.handleGetProfile)
	s.router.Put("/api/v1/profile", s.handlePutProfile)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/ingest-logs", s.handleIngestLogs)
}
