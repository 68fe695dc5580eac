package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"enterprise-rag/internal/contextutil"
	"enterprise-rag/internal/rag"
)

// ChatHandler handles HTTP requests for conversational question answering.
type ChatHandler struct {
	engine rag.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine rag.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Callers without a session get a fresh one; the generated ID comes back
	// in the response so follow-up questions can continue the conversation.
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	resp, err := h.engine.Query(ctx, rag.QueryRequest{
		Question:  req.Question,
		SessionID: sessionID,
	})
	if err != nil {
		handleEngineError(ctx, w, err, "Failed to answer question")
		return
	}

	writeJSON(ctx, w, resp)
}
