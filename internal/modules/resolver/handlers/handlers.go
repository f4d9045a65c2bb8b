// Package handlers provides HTTP handlers for ticker resolution.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/folio/internal/modules/resolver"
	"github.com/rs/zerolog"
)

// Handler handles ticker resolution HTTP requests
type Handler struct {
	resolver *resolver.Resolver
	log      zerolog.Logger
}

// NewHandler creates a new resolver handler
func NewHandler(res *resolver.Resolver, log zerolog.Logger) *Handler {
	return &Handler{
		resolver: res,
		log:      log.With().Str("handler", "resolver").Logger(),
	}
}

type resolveRequest struct {
	Input string `json:"input"`
}

// HandleResolve validates raw ticker input and returns the resolution result
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	result := h.resolver.Resolve(req.Input)

	h.log.Debug().
		Str("input", req.Input).
		Bool("valid", result.Valid).
		Int("suggestions", len(result.Suggestions)).
		Msg("Resolved ticker input")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode resolution result")
	}
}
