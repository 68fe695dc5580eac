package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"enterprise-rag/internal/contextutil"
	"enterprise-rag/internal/rag"
)

// Evaluator runs a batch of test cases through the query pipeline and
// returns aggregate quality metrics. *rag.Evaluator satisfies it.
type Evaluator interface {
	Evaluate(ctx context.Context, cases []rag.TestCase) (rag.EvaluationResult, error)
}

// EvaluateHandler handles HTTP requests for pipeline evaluation.
type EvaluateHandler struct {
	evaluator Evaluator
}

// NewEvaluateHandler creates a new EvaluateHandler.
func NewEvaluateHandler(evaluator Evaluator) *EvaluateHandler {
	return &EvaluateHandler{evaluator: evaluator}
}

// EvaluateRequest represents the HTTP request payload for evaluation.
type EvaluateRequest struct {
	TestCases []rag.TestCase `json:"test_cases"`
}

// ServeHTTP handles HTTP requests for evaluation.
func (h *EvaluateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.TestCases) == 0 {
		writeError(w, http.StatusBadRequest, "Provide at least one test case.")
		return
	}

	result, err := h.evaluator.Evaluate(ctx, req.TestCases)
	if err != nil {
		handleEngineError(ctx, w, err, "Evaluation failed")
		return
	}

	writeJSON(ctx, w, result)
}
