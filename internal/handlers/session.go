package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"enterprise-rag/internal/contextutil"
	"enterprise-rag/internal/rag"
)

// SessionHandler handles HTTP requests for clearing conversation sessions.
type SessionHandler struct {
	engine rag.Engine
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(engine rag.Engine) *SessionHandler {
	return &SessionHandler{engine: engine}
}

// SessionClearedResponse represents the response to a session delete.
type SessionClearedResponse struct {
	Message string `json:"message"`
}

// ServeHTTP handles DELETE requests for a session's memory.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Missing session ID")
		return
	}

	h.engine.ClearSession(sessionID)
	logger.InfoContext(ctx, "session cleared", "session_id", sessionID)

	writeJSON(ctx, w, SessionClearedResponse{
		Message: fmt.Sprintf("Session %s cleared.", sessionID),
	})
}
