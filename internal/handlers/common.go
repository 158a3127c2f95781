package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/recommender/internal/engine"
	"github.com/lehigh-university-libraries/recommender/internal/shelf"
)

type Handler struct {
	holder *engine.Holder
	shelf  *shelf.Store
}

// New creates the HTTP handlers. store may be nil, in which case the
// shelf endpoints answer 503.
func New(holder *engine.Holder, store *shelf.Store) *Handler {
	return &Handler{
		holder: holder,
		shelf:  store,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Debug(message, "status", code)
	}
	h.writeJSON(w, code, errorResponse{Error: message})
}

// Snapshot helpers
func (h *Handler) snapshotOrError(w http.ResponseWriter) (*engine.Snapshot, bool) {
	s, err := h.holder.Current()
	if errors.Is(err, engine.ErrNotReady) {
		h.writeError(w, "Catalog is still loading", http.StatusServiceUnavailable)
		return nil, false
	}
	if err != nil {
		h.writeError(w, "Unable to read catalog: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

func (h *Handler) shelfOrError(w http.ResponseWriter) (*shelf.Store, bool) {
	if h.shelf == nil {
		h.writeError(w, "Shelf database is not configured", http.StatusServiceUnavailable)
		return nil, false
	}
	return h.shelf, true
}

// Parameter helpers
func intParam(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
