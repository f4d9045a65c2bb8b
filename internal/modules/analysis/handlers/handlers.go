// Package handlers provides the HTTP surface of the analysis pipeline.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/analysis"
	"github.com/rs/zerolog"
)

// Handler handles portfolio analysis HTTP requests
type Handler struct {
	analysis *analysis.Service
	log      zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(service *analysis.Service, log zerolog.Logger) *Handler {
	return &Handler{
		analysis: service,
		log:      log.With().Str("handler", "analysis").Logger(),
	}
}

type analyzeRequest struct {
	Holdings []domain.HoldingInput `json:"holdings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleAnalyze runs the full analysis pipeline for the posted holdings
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.analysis.Analyze(r.Context(), req.Holdings)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode analysis report")
	}
}

// writeAnalysisError maps pipeline failures onto HTTP statuses: request
// problems are 400, upstream data problems are 502, the rest is 500.
func (h *Handler) writeAnalysisError(w http.ResponseWriter, err error) {
	var unavailable *domain.AnalysisUnavailableError
	var timeout *domain.UpstreamTimeoutError

	switch {
	case analysis.IsClientError(err):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unavailable), errors.As(err, &timeout):
		h.log.Error().Err(err).Msg("Analysis unavailable")
		h.writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.log.Error().Err(err).Msg("Analysis failed")
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode error response")
	}
}
