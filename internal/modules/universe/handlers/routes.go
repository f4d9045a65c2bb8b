package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all instrument directory routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/instruments", h.HandleListInstruments)
}
