package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router mounts every endpoint on a chi router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/recommendations", h.HandleRecommendations)
		r.Get("/top-rated", h.HandleTopRated)
		r.Get("/stats", h.HandleStats)
		r.Get("/categories", h.HandleCategories)
		r.Get("/languages", h.HandleLanguages)
		r.Post("/reload", h.HandleReload)

		r.Route("/books/{id}", func(r chi.Router) {
			r.Get("/", h.HandleBook)
			r.Get("/similar", h.HandleSimilar)
		})

		r.Route("/shelf", func(r chi.Router) {
			r.Get("/", h.HandleShelfList)
			r.Post("/", h.HandleShelfCreate)
			r.Get("/stats", h.HandleShelfStats)
			r.HandleFunc("/{id}", h.HandleShelfDetail)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
