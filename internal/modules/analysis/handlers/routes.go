package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analysis", h.HandleAnalyze)
}
