package retrieval

import (
	"math"
	"sort"
	"strings"
)

// BM25Okapi parameters. Document length normalization uses the corpus average
// length; terms whose idf would go negative are floored to epsilon times the
// average idf, per the Okapi variant.
const (
	bm25K1      = 1.5
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// Tokenize lower-cases and whitespace-splits text. Indexing and querying must
// use this exact normalization or scores are meaningless; there is no stemming
// and no stop-word removal.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// BM25Index is an in-memory term-frequency index over a corpus snapshot.
// It is built once per query cycle from the current snapshot and discarded;
// it is not incrementally maintained.
type BM25Index struct {
	termFreqs []map[string]int
	docLens   []float64
	avgDocLen float64
	idf       map[string]float64
}

// NewBM25Index builds an index over the given document texts, in order.
// An empty corpus yields a valid index whose Scores result is empty.
func NewBM25Index(texts []string) *BM25Index {
	idx := &BM25Index{
		termFreqs: make([]map[string]int, len(texts)),
		docLens:   make([]float64, len(texts)),
		idf:       make(map[string]float64),
	}

	docFreq := make(map[string]int)
	totalLen := 0.0
	for i, text := range texts {
		tokens := Tokenize(text)
		freq := make(map[string]int, len(tokens))
		for _, token := range tokens {
			freq[token]++
		}
		for term := range freq {
			docFreq[term]++
		}
		idx.termFreqs[i] = freq
		idx.docLens[i] = float64(len(tokens))
		totalLen += float64(len(tokens))
	}

	if len(texts) > 0 {
		idx.avgDocLen = totalLen / float64(len(texts))
	}

	// Okapi idf with negative-value flooring: terms appearing in more than
	// half the corpus would otherwise score below zero.
	n := float64(len(texts))
	idfSum := 0.0
	var negative []string
	for term, df := range docFreq {
		idf := math.Log((n - float64(df) + 0.5) / (float64(df) + 0.5))
		idx.idf[term] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, term)
		}
	}
	if len(docFreq) > 0 {
		eps := bm25Epsilon * idfSum / float64(len(docFreq))
		for _, term := range negative {
			idx.idf[term] = eps
		}
	}

	return idx
}

// Scores returns one BM25 relevance score per corpus document, in snapshot
// order. Query tokens absent from the corpus contribute nothing.
func (idx *BM25Index) Scores(queryTokens []string) []float64 {
	scores := make([]float64, len(idx.termFreqs))
	if idx.avgDocLen == 0 {
		return scores
	}

	for i, freq := range idx.termFreqs {
		dl := idx.docLens[i]
		norm := bm25K1 * (1 - bm25B + bm25B*dl/idx.avgDocLen)
		for _, term := range queryTokens {
			tf := float64(freq[term])
			if tf == 0 {
				continue
			}
			scores[i] += idx.idf[term] * (tf * (bm25K1 + 1)) / (tf + norm)
		}
	}

	return scores
}

// TopK selects the k highest-scoring document indices, descending by score.
// Ties keep original corpus order (stable sort) so results are deterministic
// across runs with identical input. k larger than the corpus returns all
// indices; k <= 0 returns none.
func TopK(scores []float64, k int) []int {
	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})

	if k < 0 {
		k = 0
	}
	if k > len(indices) {
		k = len(indices)
	}
	return indices[:k]
}
