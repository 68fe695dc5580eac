package rag

import (
	"sync"

	"enterprise-rag/internal/llm"
)

// defaultMemoryWindow is the number of question/answer exchanges kept per
// session. Older exchanges are evicted oldest-first.
const defaultMemoryWindow = 6

// SessionMemory holds per-session conversation history with a sliding window.
// Safe for concurrent use.
type SessionMemory struct {
	mu       sync.Mutex
	window   int
	sessions map[string][]llm.Message
}

// NewSessionMemory creates a memory store keeping the last `window` exchanges
// per session. A window of 0 or less falls back to the default.
func NewSessionMemory(window int) *SessionMemory {
	if window <= 0 {
		window = defaultMemoryWindow
	}
	return &SessionMemory{
		window:   window,
		sessions: make(map[string][]llm.Message),
	}
}

// History returns a copy of the session's messages, oldest first. Unknown
// sessions yield an empty history.
func (m *SessionMemory) History(sessionID string) []llm.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := m.sessions[sessionID]
	out := make([]llm.Message, len(messages))
	copy(out, messages)
	return out
}

// Append records one completed exchange, evicting the oldest exchange when
// the window is full.
func (m *SessionMemory) Append(sessionID, question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := append(m.sessions[sessionID],
		llm.Message{Role: "user", Content: question},
		llm.Message{Role: "assistant", Content: answer},
	)
	if max := m.window * 2; len(messages) > max {
		messages = messages[len(messages)-max:]
	}
	m.sessions[sessionID] = messages
}

// Clear drops all history for a session. Clearing an unknown session is a
// no-op.
func (m *SessionMemory) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
