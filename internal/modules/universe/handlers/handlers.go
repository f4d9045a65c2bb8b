// Package handlers provides HTTP handlers for the instrument directory.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/folio/internal/modules/universe"
	"github.com/rs/zerolog"
)

// Handler handles instrument directory HTTP requests
type Handler struct {
	directory *universe.Directory
	log       zerolog.Logger
}

// NewHandler creates a new universe handler
func NewHandler(directory *universe.Directory, log zerolog.Logger) *Handler {
	return &Handler{
		directory: directory,
		log:       log.With().Str("handler", "universe").Logger(),
	}
}

// HandleListInstruments returns the current directory snapshot
func (h *Handler) HandleListInstruments(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"instruments": h.directory.All(),
		"count":       h.directory.Len(),
		"loadedAt":    h.directory.LoadedAt().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode instruments response")
	}
}
