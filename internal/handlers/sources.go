package handlers

import (
	"net/http"

	"enterprise-rag/internal/contextutil"
)

// SourcesHandler handles HTTP requests listing ingested documents.
type SourcesHandler struct {
	pipeline Ingester
}

// NewSourcesHandler creates a new SourcesHandler.
func NewSourcesHandler(pipeline Ingester) *SourcesHandler {
	return &SourcesHandler{pipeline: pipeline}
}

// SourcesResponse represents the list of ingested documents.
type SourcesResponse struct {
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
}

// ServeHTTP handles GET requests for the source list.
func (h *SourcesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sources, err := h.pipeline.ListSources(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list sources", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list sources")
		return
	}
	if sources == nil {
		sources = []string{}
	}

	writeJSON(ctx, w, SourcesResponse{Sources: sources, Count: len(sources)})
}
