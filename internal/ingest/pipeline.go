package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"enterprise-rag/internal/contextutil"
	"enterprise-rag/internal/storage"
	"enterprise-rag/internal/vectorstore"
)

// Embedder generates embedding vectors for chunk texts.
// *llm.EmbeddingsClient satisfies it.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Result summarizes a completed ingestion.
type Result struct {
	Filename    string `json:"filename"`
	TotalChunks int    `json:"total_chunks"`
	Status      string `json:"status"`
}

// Pipeline orchestrates ingestion of uploaded documents: extract text, split
// into overlapping chunks, embed, and store chunk rows in SQLite alongside
// vector points in Qdrant. Re-uploading a filename replaces its previous
// chunks entirely.
type Pipeline struct {
	documentRepo storage.DocumentStore
	chunkRepo    storage.ChunkStore
	embedder     Embedder
	vectorStore  vectorstore.VectorStore
	collection   string
	extractor    *Extractor
	splitter     *RecursiveSplitter
}

// NewPipeline creates an ingestion pipeline over the given collaborators.
func NewPipeline(
	documentRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkSize, chunkOverlap int,
) *Pipeline {
	return &Pipeline{
		documentRepo: documentRepo,
		chunkRepo:    chunkRepo,
		embedder:     embedder,
		vectorStore:  vectorStore,
		collection:   collection,
		extractor:    NewExtractor(),
		splitter:     NewRecursiveSplitter(chunkSize, chunkOverlap),
	}
}

// Ingest runs the full pipeline for one uploaded file.
// ErrUnsupportedType surfaces for extensions without an extractor; all other
// errors come from collaborators, wrapped.
func (p *Pipeline) Ingest(ctx context.Context, filename string, content []byte) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	plainText, err := p.extractor.Extract(filename, content)
	if err != nil {
		return nil, err
	}

	if err := p.removeExisting(ctx, filename); err != nil {
		return nil, err
	}

	texts := p.splitter.Split(plainText)

	// The document row starts with a zero chunk count; the real count is
	// recorded only once the vectors are stored, so a partial ingestion never
	// reports chunks that are not searchable.
	documentID := uuid.New().String()
	if err := p.documentRepo.Insert(ctx, &storage.DocumentRecord{
		ID:       documentID,
		Filename: filename,
	}); err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	if len(texts) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "filename", filename)
		return &Result{Filename: filename, TotalChunks: 0, Status: "success"}, nil
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
	}

	points := make([]vectorstore.Point, len(texts))
	for i, chunkText := range texts {
		chunkID := uuid.New().String()

		if err := p.chunkRepo.Insert(ctx, &storage.ChunkRecord{
			ID:         chunkID,
			DocumentID: documentID,
			ChunkIndex: i,
			Source:     filename,
			Page:       0,
			Text:       chunkText,
		}); err != nil {
			return nil, fmt.Errorf("failed to insert chunk: %w", err)
		}

		points[i] = vectorstore.Point{
			ID:  chunkID,
			Vec: embeddings[i],
			Meta: map[string]any{
				"source":      filename,
				"page":        0,
				"chunk_id":    chunkID,
				"chunk_index": i,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return nil, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	if err := p.documentRepo.UpdateTotalChunks(ctx, documentID, len(texts)); err != nil {
		return nil, fmt.Errorf("failed to update chunk count: %w", err)
	}

	logger.InfoContext(ctx, "ingested document", "filename", filename, "chunks", len(texts))
	return &Result{Filename: filename, TotalChunks: len(texts), Status: "success"}, nil
}

// removeExisting deletes a previously ingested version of the filename, if
// any, from both stores. The SQLite delete cascades to chunk rows.
func (p *Pipeline) removeExisting(ctx context.Context, filename string) error {
	logger := contextutil.LoggerFromContext(ctx)

	existing, err := p.documentRepo.GetByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	oldIDs, err := p.chunkRepo.ListIDsByDocument(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("failed to list old chunk IDs: %w", err)
	}
	if len(oldIDs) > 0 {
		if err := p.vectorStore.Delete(ctx, p.collection, oldIDs); err != nil {
			// The new upsert overwrites points with fresh IDs; stale points
			// only linger until the next successful delete.
			logger.WarnContext(ctx, "failed to delete old vectors", "error", err, "count", len(oldIDs))
		}
	}

	if err := p.documentRepo.Delete(ctx, existing.ID); err != nil {
		return fmt.Errorf("failed to delete old document: %w", err)
	}
	return nil
}

// ListSources returns the distinct filenames of all ingested documents,
// sorted alphabetically.
func (p *Pipeline) ListSources(ctx context.Context) ([]string, error) {
	filenames, err := p.documentRepo.ListFilenames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	return filenames, nil
}
