package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lehigh-university-libraries/recommender/internal/shelf"
)

func (h *Handler) HandleShelfList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.shelfOrError(w)
	if !ok {
		return
	}

	var (
		entries []shelf.Entry
		err     error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		entries, err = store.Search(q)
	} else {
		entries, err = store.List()
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) HandleShelfCreate(w http.ResponseWriter, r *http.Request) {
	store, ok := h.shelfOrError(w)
	if !ok {
		return
	}

	var entry shelf.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	entry.ID = 0

	created, err := store.Add(entry)
	if err != nil {
		h.writeShelfError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleShelfDetail(w http.ResponseWriter, r *http.Request) {
	store, ok := h.shelfOrError(w)
	if !ok {
		return
	}
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := store.Get(id)
		if err != nil {
			h.writeShelfError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, entry)
	case http.MethodPut, http.MethodPatch:
		var patch shelf.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		entry, err := store.Update(id, patch)
		if err != nil {
			h.writeShelfError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, entry)
	case http.MethodDelete:
		if err := store.Delete(id); err != nil {
			h.writeShelfError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleShelfStats(w http.ResponseWriter, r *http.Request) {
	store, ok := h.shelfOrError(w)
	if !ok {
		return
	}
	st, err := store.Stats()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func (h *Handler) entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, "Invalid shelf entry id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeShelfError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shelf.ErrNotFound):
		h.writeError(w, "Shelf entry not found", http.StatusNotFound)
	case errors.Is(err, shelf.ErrInvalidEntry):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}
