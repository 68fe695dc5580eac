package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"enterprise-rag/internal/contextutil"
	"enterprise-rag/internal/ingest"
)

// maxUploadSize bounds multipart form parsing memory.
const maxUploadSize = 32 << 20 // 32 MB

// Ingester is an interface for the ingestion pipeline.
// This interface is defined from the handler's perspective (consumer-first);
// *ingest.Pipeline satisfies it.
type Ingester interface {
	// Ingest processes an uploaded file into the retrieval stores.
	Ingest(ctx context.Context, filename string, content []byte) (*ingest.Result, error)
	// ListSources returns the filenames of all ingested documents.
	ListSources(ctx context.Context) ([]string, error)
}

// UploadHandler handles HTTP requests for document ingestion.
type UploadHandler struct {
	pipeline Ingester
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(pipeline Ingester) *UploadHandler {
	return &UploadHandler{pipeline: pipeline}
}

// ServeHTTP handles multipart document uploads.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file field", "error", err)
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	result, err := h.pipeline.Ingest(ctx, header.Filename, content)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedType) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file type: %s. Use TXT or Markdown.", header.Filename))
			return
		}
		logger.ErrorContext(ctx, "ingestion failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to ingest document")
		return
	}

	writeJSON(ctx, w, result)
}
