package retrieval

import (
	"context"
	"errors"
	"fmt"

	"enterprise-rag/internal/contextutil"
	"enterprise-rag/internal/storage"
	"enterprise-rag/internal/vectorstore"
)

// Embedder generates embedding vectors for texts.
// This interface is defined from the retriever's perspective (consumer-first);
// *llm.EmbeddingsClient satisfies it.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorSearchRetriever implements DenseRetriever against a persisted
// embedding index: the query is embedded, the vector store is searched, and
// passage texts are fetched from the chunk repository by point ID.
type VectorSearchRetriever struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	chunkRepo   storage.ChunkStore
	collection  string
}

// NewVectorSearchRetriever creates a dense retriever over the given collaborators.
func NewVectorSearchRetriever(
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	chunkRepo storage.ChunkStore,
	collection string,
) *VectorSearchRetriever {
	return &VectorSearchRetriever{
		embedder:    embedder,
		vectorStore: vectorStore,
		chunkRepo:   chunkRepo,
		collection:  collection,
	}
}

// SimilaritySearch returns up to k passages most similar to the query,
// best-first. Points whose chunk row has gone missing are skipped with a
// warning rather than failing the whole search.
func (r *VectorSearchRetriever) SimilaritySearch(ctx context.Context, query string, k int) ([]Passage, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := r.vectorStore.Search(ctx, r.collection, embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	passages := make([]Passage, 0, len(results))
	for _, result := range results {
		chunk, err := r.chunkRepo.GetByID(ctx, result.PointID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				logger.WarnContext(ctx, "chunk missing for vector point", "point_id", result.PointID)
				continue
			}
			return nil, fmt.Errorf("failed to fetch chunk %s: %w", result.PointID, err)
		}
		passages = append(passages, passageFromRecord(*chunk))
	}

	return passages, nil
}
