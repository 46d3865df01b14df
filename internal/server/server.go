// Package server provides the HTTP server for the WoundGuard monitoring
// application.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/woundguard/internal/analysis"
	"github.com/ayusman/woundguard/internal/sensor"
	"github.com/ayusman/woundguard/internal/server/api"
	"github.com/ayusman/woundguard/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Analyzer  *analysis.Analyzer
	Sensors   sensor.Source
}

// Server represents the HTTP server for the WoundGuard application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	sensors *SensorsHandler
	start   time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register history API handlers if Store is configured
	if s.config.Store != nil {
		measurementHandler := api.NewMeasurementHandler(s.config.Store)
		s.mux.Handle("/api/measurements", measurementHandler)
		s.mux.Handle("/api/measurements/", measurementHandler)

		logHandler := api.NewLogEntryHandler(s.config.Store)
		s.mux.Handle("/api/log", logHandler)
		s.mux.Handle("/api/log/", logHandler)

		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store))

		exportHandler := api.NewExportHandler(s.config.Store)
		s.mux.Handle("/api/export", exportHandler)
		s.mux.Handle("/api/import", exportHandler)
	}

	// Register analysis endpoints if Analyzer is configured
	if s.config.Analyzer != nil {
		s.mux.Handle("/api/analyze", api.NewAnalyzeHandler(s.config.Analyzer))

		modelHandler := api.NewModelHandler(s.config.Analyzer)
		s.mux.Handle("/api/model", modelHandler)
		s.mux.Handle("/api/model/reset", modelHandler)
	}

	// Register sensor WebSocket endpoint if a source is configured
	if s.config.Sensors != nil {
		s.sensors = NewSensorsHandler(s.config.Sensors)
		s.mux.Handle("/api/sensors/live", s.sensors)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Sensors returns the live sensor broadcast handler, or nil when no sensor
// source is configured.
func (s *Server) Sensors() *SensorsHandler {
	return s.sensors
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
