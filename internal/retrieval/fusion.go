package retrieval

import "sort"

// DefaultRRFConstant dampens the influence of low ranks in fusion scoring.
// 60 is the standard value from the RRF literature; it is a tunable, not a
// fixed property of the algorithm.
const DefaultRRFConstant = 60

// Fuse merges ranked passage lists into one ordering using Reciprocal Rank
// Fusion. A passage at 0-based rank r in a list contributes 1/(kConstant+r+1)
// to its accumulated score; a passage appearing in several lists sums its
// contributions, rewarding agreement between retrieval methods. Fusion is
// rank-based on purpose: dense similarity and BM25 scores share no common
// scale, so only positions matter.
//
// The result is sorted descending by score. Equal scores keep first-seen order
// across the input lists, which makes the output deterministic for identical
// input. Passages are identical when their Identity() keys match.
func Fuse(lists [][]Passage, kConstant int) []FusedEntry {
	scores := make(map[string]float64)
	passages := make(map[string]Passage)
	var order []string

	for _, list := range lists {
		for rank, passage := range list {
			id := passage.Identity()
			if _, seen := scores[id]; !seen {
				order = append(order, id)
				passages[id] = passage
			}
			scores[id] += 1.0 / float64(kConstant+rank+1)
		}
	}

	fused := make([]FusedEntry, 0, len(order))
	for _, id := range order {
		fused = append(fused, FusedEntry{Passage: passages[id], Score: scores[id]})
	}
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	return fused
}
