// Package api provides HTTP API handlers for the WoundGuard monitoring
// application.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/woundguard/internal/store"
)

// MeasurementHandler handles HTTP requests for measurement resources.
type MeasurementHandler struct {
	store *store.Store
}

// NewMeasurementHandler creates a new MeasurementHandler with the given store.
func NewMeasurementHandler(s *store.Store) *MeasurementHandler {
	return &MeasurementHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *MeasurementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/measurements or /api/measurements/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/measurements")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/measurements
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if path == "latest" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.latest(w, r)
		return
	}

	// Item endpoint: /api/measurements/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type measurementRequest struct {
	Day         *int     `json:"day"`
	AreaMM2     *int     `json:"areaMm2"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	PH          *float64 `json:"ph"`
	ImageURL    *string  `json:"imageUrl"`
	Notes       *string  `json:"notes"`
}

type measurementResponse struct {
	ID          string  `json:"id"`
	Day         int     `json:"day"`
	AreaMM2     int     `json:"areaMm2"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type listMeasurementsResponse struct {
	Measurements []measurementResponse `json:"measurements"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Measurement to a measurementResponse.
func toResponse(m *store.Measurement) measurementResponse {
	return measurementResponse{
		ID:          m.ID,
		Day:         m.Day,
		AreaMM2:     m.AreaMM2,
		Temperature: m.Temperature,
		Humidity:    m.Humidity,
		PH:          m.PH,
		ImageURL:    m.ImageURL,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/measurements and returns all measurements.
func (h *MeasurementHandler) list(w http.ResponseWriter, r *http.Request) {
	measurements, err := h.store.Measurements().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list measurements")
		return
	}

	response := listMeasurementsResponse{
		Measurements: make([]measurementResponse, 0, len(measurements)),
	}

	for _, m := range measurements {
		response.Measurements = append(response.Measurements, toResponse(m))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/measurements/{id} and returns a single measurement.
func (h *MeasurementHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	measurement, err := h.store.Measurements().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Measurement not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get measurement")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(measurement))
}

// latest handles GET /api/measurements/latest.
func (h *MeasurementHandler) latest(w http.ResponseWriter, r *http.Request) {
	measurement, err := h.store.Measurements().Latest()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No measurements recorded")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get measurement")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(measurement))
}

// create handles POST /api/measurements and records a new measurement.
func (h *MeasurementHandler) create(w http.ResponseWriter, r *http.Request) {
	var req measurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate required fields
	if req.Day == nil || *req.Day < 0 {
		writeError(w, http.StatusBadRequest, "Day is required")
		return
	}
	if req.AreaMM2 == nil || *req.AreaMM2 < 1 {
		writeError(w, http.StatusBadRequest, "Area must be at least 1 mm²")
		return
	}

	measurement := &store.Measurement{
		Day:     *req.Day,
		AreaMM2: *req.AreaMM2,
	}
	if req.Temperature != nil {
		measurement.Temperature = *req.Temperature
	}
	if req.Humidity != nil {
		measurement.Humidity = *req.Humidity
	}
	if req.PH != nil {
		measurement.PH = *req.PH
	}
	if req.ImageURL != nil {
		measurement.ImageURL = *req.ImageURL
	}
	if req.Notes != nil {
		measurement.Notes = *req.Notes
	}

	if err := h.store.Measurements().Create(measurement); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create measurement")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(measurement))
}

// update handles PUT /api/measurements/{id} and updates an existing measurement.
func (h *MeasurementHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	// First, get the existing measurement
	measurement, err := h.store.Measurements().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Measurement not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get measurement")
		return
	}

	var req measurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided
	if req.Day != nil {
		if *req.Day < 0 {
			writeError(w, http.StatusBadRequest, "Day must not be negative")
			return
		}
		measurement.Day = *req.Day
	}
	if req.AreaMM2 != nil {
		if *req.AreaMM2 < 1 {
			writeError(w, http.StatusBadRequest, "Area must be at least 1 mm²")
			return
		}
		measurement.AreaMM2 = *req.AreaMM2
	}
	if req.Temperature != nil {
		measurement.Temperature = *req.Temperature
	}
	if req.Humidity != nil {
		measurement.Humidity = *req.Humidity
	}
	if req.PH != nil {
		measurement.PH = *req.PH
	}
	if req.ImageURL != nil {
		measurement.ImageURL = *req.ImageURL
	}
	if req.Notes != nil {
		measurement.Notes = *req.Notes
	}

	if err := h.store.Measurements().Update(measurement); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update measurement")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(measurement))
}

// delete handles DELETE /api/measurements/{id} and removes a measurement.
func (h *MeasurementHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Measurements().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Measurement not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete measurement")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
