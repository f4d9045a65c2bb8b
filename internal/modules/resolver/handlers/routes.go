package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all ticker resolution routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/tickers/resolve", h.HandleResolve)
}
