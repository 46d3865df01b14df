package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/ayusman/woundguard/internal/analysis"
	"github.com/ayusman/woundguard/internal/imaging"
)

// maxUploadBytes bounds the accepted photo size.
const maxUploadBytes = 20 << 20

// AnalyzeHandler handles POST /api/analyze requests carrying a wound photo.
type AnalyzeHandler struct {
	analyzer *analysis.Analyzer
}

// NewAnalyzeHandler creates a new AnalyzeHandler with the given analyzer.
func NewAnalyzeHandler(a *analysis.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: a}
}

// ServeHTTP accepts a multipart form with an "image" file part and an
// optional "options" JSON part, and responds with the analysis result.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	var req analysis.Request
	if opts := r.FormValue("options"); opts != "" {
		if err := json.Unmarshal([]byte(opts), &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid options JSON")
			return
		}
	}

	result, err := h.analyzer.AnalyzeImage(r.Context(), data, req)
	if err != nil {
		if errors.Is(err, imaging.ErrDecode) {
			writeError(w, http.StatusUnsupportedMediaType, "Unsupported image format")
			return
		}
		log.Printf("analysis failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ModelHandler reports and resets the segmentation model state.
type ModelHandler struct {
	analyzer *analysis.Analyzer
}

// NewModelHandler creates a new ModelHandler with the given analyzer.
func NewModelHandler(a *analysis.Analyzer) *ModelHandler {
	return &ModelHandler{analyzer: a}
}

type modelStatusResponse struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// ServeHTTP handles GET /api/model and POST /api/model/reset.
func (h *ModelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/model":
		status := h.analyzer.ModelStatus()
		resp := modelStatusResponse{
			Loaded:  status.Loaded,
			Loading: status.Loading,
		}
		if status.Err != nil {
			resp.Error = status.Err.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	case r.Method == http.MethodPost && r.URL.Path == "/api/model/reset":
		h.analyzer.ResetModel()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
