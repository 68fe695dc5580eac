package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks enterprise-rag/internal/rag LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retriever.go -package=mocks enterprise-rag/internal/rag Retriever
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks -mock_names=Engine=MockEngine enterprise-rag/internal/rag Engine

import (
	"context"
	"fmt"
	"strings"

	"enterprise-rag/internal/contextutil"
	"enterprise-rag/internal/llm"
	"enterprise-rag/internal/retrieval"
)

// systemPromptTemplate grounds the model in the retrieved context. The
// context block is substituted at query time.
const systemPromptTemplate = `You are EnterpriseRAG, an expert assistant for internal company documents.

Answer the user's question using ONLY the context provided below.
Rules:
1. Be concise and factual.
2. Always cite your source at the end in this format:
   Source: <filename> | Page <page> | Confidence: <High/Medium/Low>
3. If the answer is not in the context, say "I couldn't find this in the provided documents."
4. Never make up information.

CONTEXT:
%s
`

// noContextAnswer is returned without an LLM call when retrieval finds
// nothing to ground an answer on.
const noContextAnswer = "I couldn't find this in the provided documents."

// answerTemperature keeps generation close to the provided context.
const answerTemperature = 0.1

// Retriever produces an ordered short-list of passages for a query.
// This interface is defined from the engine's perspective (consumer-first);
// *retrieval.HybridRetriever satisfies it.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]retrieval.Passage, error)
}

// LLMClient is an interface for multi-turn chat completion.
// *llm.Client satisfies it.
type LLMClient interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Engine answers questions over the ingested corpus.
type Engine interface {
	// Query retrieves context for the question and generates a cited answer.
	Query(ctx context.Context, req QueryRequest) (QueryResponse, error)
	// ClearSession drops a session's conversation memory.
	ClearSession(sessionID string)
}

// engine implements Engine.
type engine struct {
	retriever Retriever
	llmClient LLMClient
	memory    *SessionMemory
}

// NewEngine creates an answer engine over the given collaborators.
func NewEngine(retriever Retriever, llmClient LLMClient, memory *SessionMemory) Engine {
	return &engine{
		retriever: retriever,
		llmClient: llmClient,
		memory:    memory,
	}
}

// Query runs one conversational turn: retrieve, prompt, generate, remember.
func (e *engine) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Question) == "" {
		return QueryResponse{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	if req.SessionID == "" {
		return QueryResponse{}, &ValidationError{Field: "session_id", Message: "cannot be empty"}
	}

	passages, err := e.retriever.Retrieve(ctx, req.Question)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return QueryResponse{}, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	if len(passages) == 0 {
		// Nothing to ground an answer on. The canned reply is not stored in
		// memory so it cannot pollute later turns.
		logger.InfoContext(ctx, "no passages retrieved", "session_id", req.SessionID)
		return QueryResponse{
			Answer:    noContextAnswer,
			Sources:   []SourceRef{},
			SessionID: req.SessionID,
		}, nil
	}

	messages := e.buildMessages(req, passages)

	answer, err := e.llmClient.ChatWithMessages(ctx, messages, llm.ChatParams{
		Temperature: answerTemperature,
	})
	if err != nil {
		logger.ErrorContext(ctx, "generation failed", "error", err)
		return QueryResponse{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	e.memory.Append(req.SessionID, req.Question, answer)

	logger.InfoContext(ctx, "query answered",
		"session_id", req.SessionID,
		"passages", len(passages),
		"answer_length", len(answer),
	)
	return QueryResponse{
		Answer:    answer,
		Sources:   collectSources(passages),
		SessionID: req.SessionID,
	}, nil
}

// ClearSession drops a session's conversation memory.
func (e *engine) ClearSession(sessionID string) {
	e.memory.Clear(sessionID)
}

// buildMessages assembles the chat transcript: grounded system prompt,
// windowed history, then the current question.
func (e *engine) buildMessages(req QueryRequest, passages []retrieval.Passage) []llm.Message {
	history := e.memory.History(req.SessionID)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptTemplate, formatContext(passages)),
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: req.Question})
	return messages
}

// formatContext renders passages as labeled blocks separated by rulers.
func formatContext(passages []retrieval.Passage) string {
	blocks := make([]string, len(passages))
	for i, p := range passages {
		blocks[i] = fmt.Sprintf("[Source: %s | Page: %d]\n%s", p.Source(), p.Page(), p.Text)
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

// collectSources deduplicates citations by source and page, preserving
// retrieval order.
func collectSources(passages []retrieval.Passage) []SourceRef {
	seen := make(map[string]bool)
	sources := make([]SourceRef, 0, len(passages))
	for _, p := range passages {
		key := fmt.Sprintf("%s:%d", p.Source(), p.Page())
		if seen[key] {
			continue
		}
		seen[key] = true
		sources = append(sources, SourceRef{Filename: p.Source(), Page: p.Page()})
	}
	return sources
}
