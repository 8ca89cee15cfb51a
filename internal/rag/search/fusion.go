// Package search implements the Hybrid Retriever: concurrent vector/BM25
// fan-out, Reciprocal Rank Fusion, and chunk-text resolution.
package search

import (
	"sort"

	"github.com/aman-cerp/ragterm/internal/rag/store"
)

// Weights configures the relative contribution of the vector and lexical
// ranked lists to a fused score. Defaults are 1.0/1.0 per spec.md §4.8 —
// deliberately unlike the teacher's 0.35/0.65 defaults, which assume a
// specific query-classifier tuning this spec does not have.
type Weights struct {
	Vector float64
	Text   float64
}

// DefaultWeights returns the spec-mandated w_v=1.0, w_t=1.0.
func DefaultWeights() Weights {
	return Weights{Vector: 1.0, Text: 1.0}
}

// Fuse combines two already-filtered, already-ranked VectorID lists via
// Reciprocal Rank Fusion: rrf_k = 2*topK, each id accumulates
// weight/(rrf_k+rank+1) from every list it appears in (zero-based rank),
// ids are sorted by descending accumulated score, and ties break by
// first-appearance order across vector then text. At most topK ids are
// returned.
//
// Unlike the teacher's own RRFFusion, there is no missing-rank contribution
// for ids absent from one list, and no score normalization pass — spec.md's
// formula only ever sums over the lists an id actually appears in.
func Fuse(vector, text []store.VectorID, weights Weights, topK int) []store.VectorID {
	if topK <= 0 {
		return nil
	}

	rrfK := 2 * topK
	scores := make(map[store.VectorID]float64, len(vector)+len(text))
	seen := make(map[store.VectorID]bool, len(vector)+len(text))
	order := make([]store.VectorID, 0, len(vector)+len(text))

	accumulate := func(ids []store.VectorID, weight float64) {
		for i, id := range ids {
			scores[id] += weight / float64(rrfK+i+1)
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}
	}
	accumulate(vector, weights.Vector)
	accumulate(text, weights.Text)

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if len(order) > topK {
		order = order[:topK]
	}
	return order
}
