// Package rag implements the answer engine: hybrid retrieval feeding a
// context-grounded chat completion, with per-session conversation memory.
package rag

// QueryRequest represents a question in the domain layer.
type QueryRequest struct {
	Question  string `validate:"required"`
	SessionID string `validate:"required"`
}

// SourceRef identifies a cited document location.
type SourceRef struct {
	Filename string `json:"filename"`
	Page     int    `json:"page"`
}

// QueryResponse carries the generated answer and its citations.
type QueryResponse struct {
	Answer    string      `json:"answer"`
	Sources   []SourceRef `json:"sources"`
	SessionID string      `json:"session_id"`
}
