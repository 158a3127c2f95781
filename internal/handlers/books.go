package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lehigh-university-libraries/recommender/internal/recommend"
)

// reloadTimeout bounds a reload triggered over HTTP
const reloadTimeout = 2 * time.Minute

func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	s, ok := h.snapshotOrError(w)
	if !ok {
		return
	}

	minRating, err := floatParam(r, "min_rating", 0)
	if err != nil {
		h.writeError(w, "Invalid min_rating: "+err.Error(), http.StatusBadRequest)
		return
	}
	maxResults, err := intParam(r, "max_results", recommend.DefaultMaxResults)
	if err != nil {
		h.writeError(w, "Invalid max_results: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := r.URL.Query()
	q := recommend.Query{
		Text:       params.Get("q"),
		Category:   params.Get("category"),
		Language:   params.Get("language"),
		Difficulty: params.Get("difficulty"),
		MinRating:  minRating,
		MaxResults: maxResults,
	}
	h.writeJSON(w, http.StatusOK, s.Recommend(q))
}

func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	s, ok := h.snapshotOrError(w)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "Invalid book id", http.StatusBadRequest)
		return
	}
	rec, found := s.Record(id)
	if !found {
		h.writeError(w, "Book not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	s, ok := h.snapshotOrError(w)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "Invalid book id", http.StatusBadRequest)
		return
	}
	if _, found := s.Record(id); !found {
		h.writeError(w, "Book not found", http.StatusNotFound)
		return
	}
	n, err := intParam(r, "n", recommend.DefaultMaxResults)
	if err != nil {
		h.writeError(w, "Invalid n: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, s.Similar(id, n))
}

func (h *Handler) HandleTopRated(w http.ResponseWriter, r *http.Request) {
	s, ok := h.snapshotOrError(w)
	if !ok {
		return
	}
	n, err := intParam(r, "n", recommend.DefaultMaxResults)
	if err != nil {
		h.writeError(w, "Invalid n: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, s.TopRated(n))
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	s, ok := h.snapshotOrError(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, s.Stats())
}

func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	s, ok := h.snapshotOrError(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, s.Categories())
}

func (h *Handler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	s, ok := h.snapshotOrError(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, s.Languages())
}

type reloadResponse struct {
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
}

// HandleReload rebuilds the snapshot from the catalog source. On failure the
// previous snapshot keeps serving.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), reloadTimeout)
	defer cancel()

	s, err := h.holder.Reload(ctx)
	if err != nil {
		h.writeError(w, "Reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, reloadResponse{
		Source:   s.Source,
		Records:  len(s.Corpus),
		LoadedAt: s.LoadedAt,
	})
}
