package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"enterprise-rag/internal/handlers"
	"enterprise-rag/internal/rag"
)

type fakeEvaluator struct {
	result rag.EvaluationResult
	err    error
	cases  []rag.TestCase
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, cases []rag.TestCase) (rag.EvaluationResult, error) {
	f.cases = cases
	if f.err != nil {
		return rag.EvaluationResult{}, f.err
	}
	return f.result, nil
}

func TestEvaluateHandler(t *testing.T) {
	evaluator := &fakeEvaluator{result: rag.EvaluationResult{
		Faithfulness:    0.9,
		AnswerRelevancy: 0.8,
		ContextRecall:   0.7,
		NumSamples:      2,
	}}
	handler := handlers.NewEvaluateHandler(evaluator)

	body := `{"test_cases": [
		{"question": "what is the vacation policy?", "ground_truth": "twenty days"},
		{"question": "who approves expenses?", "ground_truth": "the line manager"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(evaluator.cases) != 2 || evaluator.cases[0].GroundTruth != "twenty days" {
		t.Errorf("cases = %+v", evaluator.cases)
	}

	var resp rag.EvaluationResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Faithfulness != 0.9 || resp.NumSamples != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestEvaluateHandlerEmptyCases(t *testing.T) {
	evaluator := &fakeEvaluator{}
	handler := handlers.NewEvaluateHandler(evaluator)

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(`{"test_cases": []}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if evaluator.cases != nil {
		t.Error("evaluator called with empty cases")
	}

	var resp handlers.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "Provide at least one test case." {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestEvaluateHandlerInvalidBody(t *testing.T) {
	handler := handlers.NewEvaluateHandler(&fakeEvaluator{})

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEvaluateHandlerEngineFailure(t *testing.T) {
	handler := handlers.NewEvaluateHandler(&fakeEvaluator{err: rag.ErrRetrieval})

	body := `{"test_cases": [{"question": "q", "ground_truth": "g"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
