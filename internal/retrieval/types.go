// Package retrieval implements hybrid document retrieval: dense vector
// similarity and sparse BM25 scoring merged with Reciprocal Rank Fusion.
package retrieval

import "context"

// Metadata keys recognized on a Passage.
const (
	MetaSource     = "source"
	MetaPage       = "page"
	MetaChunkID    = "chunk_id"
	MetaChunkIndex = "chunk_index"
)

// identityPrefixLen is the number of leading characters of passage text used
// as the deduplication key when chunk_id is absent. Two distinct passages
// sharing this prefix collapse into one; that imprecision is accepted for
// compatibility with sources that supply no stable id.
const identityPrefixLen = 80

// Passage is an immutable unit of retrievable text with associated metadata.
// Metadata carries at minimum a "source" identifier and, for passages produced
// by the ingestion pipeline, a stable "chunk_id".
type Passage struct {
	Text     string
	Metadata map[string]any
}

// Identity returns the passage's deduplication key: the chunk_id when present,
// otherwise the first 80 characters of the text.
func (p Passage) Identity() string {
	if id, ok := p.Metadata[MetaChunkID].(string); ok && id != "" {
		return id
	}
	runes := []rune(p.Text)
	if len(runes) > identityPrefixLen {
		runes = runes[:identityPrefixLen]
	}
	return string(runes)
}

// Source returns the originating document name, or "unknown" when absent.
func (p Passage) Source() string {
	if src, ok := p.Metadata[MetaSource].(string); ok && src != "" {
		return src
	}
	return "unknown"
}

// Page returns the page number, or 0 when unknown.
// Metadata that crossed a JSON or Qdrant payload boundary may hold numbers as
// float64 or int64, so all three widths are accepted.
func (p Passage) Page() int {
	switch v := p.Metadata[MetaPage].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// FusedEntry pairs a passage with its accumulated fusion score.
// Entries are constructed fresh on every query and discarded after the
// orchestrator extracts the final passage list.
type FusedEntry struct {
	Passage Passage
	Score   float64
}

// DenseRetriever produces a ranked list of passages by vector similarity.
// Implementations are treated as opaque ranked-list producers; this package
// performs no similarity math itself.
type DenseRetriever interface {
	// SimilaritySearch returns up to k passages ordered best-first.
	SimilaritySearch(ctx context.Context, query string, k int) ([]Passage, error)
}

// CorpusProvider materializes the full corpus snapshot used to build the
// lexical index. The snapshot is read-only for this package.
type CorpusProvider interface {
	AllPassages(ctx context.Context) ([]Passage, error)
}
