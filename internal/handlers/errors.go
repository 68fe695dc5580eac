package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"enterprise-rag/internal/contextutil"
	"enterprise-rag/internal/rag"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeJSON writes a JSON response with status 200.
func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleEngineError maps answer engine errors to HTTP status codes.
// Validation failures are the caller's fault; retrieval failures mean the
// vector store is unavailable; generation failures mean the upstream LLM
// misbehaved.
func handleEngineError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "engine error", "error", err)

	var validationErr *rag.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, rag.ErrRetrieval) {
		writeError(w, http.StatusServiceUnavailable, "Retrieval service unavailable")
		return
	}

	if errors.Is(err, rag.ErrGeneration) {
		writeError(w, http.StatusBadGateway, "Language model error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}
