package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/woundguard/internal/export"
	"github.com/ayusman/woundguard/internal/store"
)

// ExportHandler serves history backups and restores them.
type ExportHandler struct {
	store *store.Store
}

// NewExportHandler creates a new ExportHandler with the given store.
func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{store: s}
}

// ServeHTTP handles GET /api/export and POST /api/import.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/export":
		h.export(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/import":
		h.restore(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// export handles GET /api/export and streams the backup document.
func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request) {
	doc, err := export.Snapshot(h.store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export history")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="woundguard-export.json"`)
	if err := export.Write(w, doc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write export")
	}
}

// restore handles POST /api/import with a backup document body.
func (h *ExportHandler) restore(w http.ResponseWriter, r *http.Request) {
	doc, err := export.Read(r.Body)
	if err != nil {
		if errors.Is(err, export.ErrVersion) {
			writeError(w, http.StatusBadRequest, "Unsupported export version")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid export document")
		return
	}

	stats, err := export.Restore(h.store, doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to import history")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
