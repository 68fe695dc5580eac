package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DocumentRecord represents an uploaded document in the database.
type DocumentRecord struct {
	ID          string // UUID
	Filename    string // Original upload filename, unique
	TotalChunks int
	UploadedAt  time.Time
}

// ChunkRecord represents a chunk of text from a document, indexed for retrieval.
// The ID is a UUID shared with the Qdrant point for the same chunk.
type ChunkRecord struct {
	ID         string // UUID (chunk_id, same as Qdrant point ID)
	DocumentID string // UUID (foreign key to documents.id)
	ChunkIndex int    // Ordinal within document (starts at 0)
	Source     string // Originating document filename (denormalized for snapshots)
	Page       int    // Page number when known, 0 otherwise
	Text       string // Chunk text content
}
