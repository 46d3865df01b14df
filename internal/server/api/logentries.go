package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/woundguard/internal/store"
)

// LogEntryHandler handles HTTP requests for wound care log entries.
type LogEntryHandler struct {
	store *store.Store
}

// NewLogEntryHandler creates a new LogEntryHandler with the given store.
func NewLogEntryHandler(s *store.Store) *LogEntryHandler {
	return &LogEntryHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *LogEntryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/log or /api/log/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/log")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
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

	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.delete(w, r, path)
}

type createLogEntryRequest struct {
	Day  *int   `json:"day"`
	Text string `json:"text"`
}

type logEntryResponse struct {
	ID        string `json:"id"`
	Day       int    `json:"day"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type listLogEntriesResponse struct {
	Entries []logEntryResponse `json:"entries"`
}

func toLogEntryResponse(e *store.LogEntry) logEntryResponse {
	return logEntryResponse{
		ID:        e.ID,
		Day:       e.Day,
		Text:      e.Text,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/log and returns all log entries.
func (h *LogEntryHandler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.LogEntries().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list log entries")
		return
	}

	response := listLogEntriesResponse{
		Entries: make([]logEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		response.Entries = append(response.Entries, toLogEntryResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/log and records a new log entry.
func (h *LogEntryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createLogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Day == nil || *req.Day < 0 {
		writeError(w, http.StatusBadRequest, "Day is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	entry := &store.LogEntry{
		Day:  *req.Day,
		Text: req.Text,
	}
	if err := h.store.LogEntries().Create(entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create log entry")
		return
	}

	writeJSON(w, http.StatusCreated, toLogEntryResponse(entry))
}

// delete handles DELETE /api/log/{id} and removes a log entry.
func (h *LogEntryHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.LogEntries().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Log entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete log entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
