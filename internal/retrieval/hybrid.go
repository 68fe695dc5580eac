package retrieval

import (
	"context"
	"fmt"
	"sync"

	"enterprise-rag/internal/contextutil"
)

// Options holds the retrieval tunables. These four knobs are the entire
// configuration surface of the hybrid retriever.
type Options struct {
	// TopKDense is the number of passages requested from the dense retriever.
	TopKDense int
	// TopKSparse is the number of passages taken from the lexical ranking.
	TopKSparse int
	// TopKFinal is the length the fused ranking is truncated to.
	TopKFinal int
	// RRFConstant is the k constant in the reciprocal rank formula.
	RRFConstant int
}

// DefaultOptions returns the standard tunable values.
func DefaultOptions() Options {
	return Options{
		TopKDense:   5,
		TopKSparse:  5,
		TopKFinal:   4,
		RRFConstant: DefaultRRFConstant,
	}
}

// HybridRetriever sequences dense retrieval, lexical retrieval, and rank
// fusion into a single ordered short-list. Each call builds its own lexical
// index and score arrays from a private corpus snapshot, so concurrent queries
// share no mutable state and no internal locking is needed.
type HybridRetriever struct {
	dense  DenseRetriever
	corpus CorpusProvider
	opts   Options
}

// NewHybridRetriever creates a hybrid retriever over the given collaborators.
func NewHybridRetriever(dense DenseRetriever, corpus CorpusProvider, opts Options) *HybridRetriever {
	return &HybridRetriever{
		dense:  dense,
		corpus: corpus,
		opts:   opts,
	}
}

// Retrieve returns the fused top passages for a query, best-first, at most
// TopKFinal long. Zero passages found is a normal outcome, not an error; only
// collaborator failures (dense retriever, corpus snapshot) surface as errors,
// unmodified apart from wrapping. There is no internal retry: whether a retry
// is safe belongs to the caller or the collaborators themselves.
func (r *HybridRetriever) Retrieve(ctx context.Context, query string) ([]Passage, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Dense and sparse retrieval are independent; run both and join before
	// fusion.
	var (
		wg        sync.WaitGroup
		denseList []Passage
		denseErr  error
		sparse    []Passage
		sparseErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		denseList, denseErr = r.dense.SimilaritySearch(ctx, query, r.opts.TopKDense)
	}()
	go func() {
		defer wg.Done()
		sparse, sparseErr = r.sparseSearch(ctx, query)
	}()
	wg.Wait()

	if denseErr != nil {
		return nil, fmt.Errorf("dense retrieval failed: %w", denseErr)
	}
	if sparseErr != nil {
		return nil, fmt.Errorf("sparse retrieval failed: %w", sparseErr)
	}

	fused := Fuse([][]Passage{denseList, sparse}, r.opts.RRFConstant)

	n := r.opts.TopKFinal
	if n > len(fused) {
		n = len(fused)
	}
	result := make([]Passage, 0, n)
	for _, entry := range fused[:n] {
		result = append(result, entry.Passage)
	}

	logger.DebugContext(ctx, "hybrid retrieval completed",
		"dense_results", len(denseList),
		"sparse_results", len(sparse),
		"fused_distinct", len(fused),
		"returned", len(result),
	)
	return result, nil
}

// sparseSearch builds a BM25 index over the current corpus snapshot and
// returns the top TopKSparse passages for the query. The index is rebuilt
// from scratch every call; its staleness window is exactly one query.
func (r *HybridRetriever) sparseSearch(ctx context.Context, query string) ([]Passage, error) {
	corpus, err := r.corpus.AllPassages(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus snapshot failed: %w", err)
	}
	if len(corpus) == 0 {
		// Empty corpus degenerates to dense-only ranking downstream.
		return nil, nil
	}

	texts := make([]string, len(corpus))
	for i, passage := range corpus {
		texts[i] = passage.Text
	}

	index := NewBM25Index(texts)
	scores := index.Scores(Tokenize(query))

	indices := TopK(scores, r.opts.TopKSparse)
	results := make([]Passage, 0, len(indices))
	for _, i := range indices {
		results = append(results, corpus[i])
	}
	return results, nil
}
