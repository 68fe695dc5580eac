package retrieval

import (
	"context"
	"fmt"

	"enterprise-rag/internal/storage"
)

// ChunkCorpus implements CorpusProvider over the chunk repository: the SQLite
// chunk table is the corpus snapshot, materialized in insertion order at query
// time and never written by this package.
type ChunkCorpus struct {
	chunkRepo storage.ChunkStore
}

// NewChunkCorpus creates a corpus provider backed by the given chunk store.
func NewChunkCorpus(chunkRepo storage.ChunkStore) *ChunkCorpus {
	return &ChunkCorpus{chunkRepo: chunkRepo}
}

// AllPassages returns every stored chunk as a passage, in insertion order.
func (c *ChunkCorpus) AllPassages(ctx context.Context) ([]Passage, error) {
	records, err := c.chunkRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	passages := make([]Passage, 0, len(records))
	for _, record := range records {
		passages = append(passages, passageFromRecord(record))
	}
	return passages, nil
}

// passageFromRecord converts a stored chunk row into a retrieval passage.
func passageFromRecord(record storage.ChunkRecord) Passage {
	return Passage{
		Text: record.Text,
		Metadata: map[string]any{
			MetaSource:     record.Source,
			MetaPage:       record.Page,
			MetaChunkID:    record.ID,
			MetaChunkIndex: record.ChunkIndex,
		},
	}
}
