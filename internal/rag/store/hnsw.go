package store

import (
	"math"
	"sync"

	"github.com/coder/hnsw"
)

// HNSWConfig configures an HNSWIndex. EfConstruction is accepted for
// interface parity with the abstracted HNSW contract in the component
// design, but coder/hnsw has no build-time search-width knob distinct from
// EfSearch; it is a no-op here (see DESIGN.md).
type HNSWConfig struct {
	M              int
	EfConstruction int
	EfSearch       int
	Ml             float64 // stands in for the abstracted max_layer parameter
}

// DefaultHNSWConfig mirrors the spec's abstracted HNSW contract:
// max_nb_connection=32, ef_search=30.
func DefaultHNSWConfig() HNSWConfig {
	return HNSWConfig{M: 32, EfConstruction: 200, EfSearch: 30, Ml: 0.25}
}

// HNSWIndex wraps coder/hnsw, a pure-Go HNSW implementation with no CGO
// dependency. Deletion uses lazy orphaning (drop the ID mapping, leave the
// node in the graph) rather than graph.Delete(), which has a known bug when
// the last node in the graph is removed.
type HNSWIndex struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[uint64]
	cfg   HNSWConfig
	live  map[uint64]struct{}
}

// NewHNSWIndex creates an empty HNSW vector index.
func NewHNSWIndex(cfg HNSWConfig) *HNSWIndex {
	graph := hnsw.NewGraph[uint64]()
	graph.M = cfg.M
	graph.EfSearch = cfg.EfSearch
	graph.Ml = cfg.Ml
	graph.Distance = hnsw.CosineDistance

	return &HNSWIndex{graph: graph, cfg: cfg, live: make(map[uint64]struct{})}
}

// Add inserts or replaces vectors keyed by VectorID.
func (idx *HNSWIndex) Add(ids []VectorID, vectors [][]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, id := range ids {
		key := uint64(id)
		vec := normalized(vectors[i])
		idx.graph.Add(hnsw.MakeNode(key, vec))
		idx.live[key] = struct{}{}
	}
	return nil
}

// Remove orphans ids: they stop appearing in Search results but their nodes
// remain in the graph, avoiding the last-node-deletion bug in coder/hnsw.
func (idx *HNSWIndex) Remove(ids []VectorID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, id := range ids {
		delete(idx.live, uint64(id))
	}
}

// Search returns the k nearest neighbors to query, most similar first, using
// cosine similarity (1 - distance/2).
func (idx *HNSWIndex) Search(query []float32, k int) ([]VectorResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph.Len() == 0 {
		return []VectorResult{}, nil
	}

	q := normalized(query)
	// Over-fetch to compensate for orphaned nodes the graph may still return.
	nodes := idx.graph.Search(q, k+len(idx.orphanCountLocked()))

	results := make([]VectorResult, 0, k)
	for _, node := range nodes {
		if _, ok := idx.live[node.Key]; !ok {
			continue
		}
		distance := idx.graph.Distance(q, node.Value)
		results = append(results, VectorResult{
			ID:         VectorID(node.Key),
			Similarity: 1 - distance/2,
		})
		if len(results) == k {
			break
		}
	}
	return results, nil
}

// orphanCountLocked is a crude slack factor for over-fetching; callers hold mu.
func (idx *HNSWIndex) orphanCountLocked() []struct{} {
	orphans := idx.graph.Len() - len(idx.live)
	if orphans < 0 {
		orphans = 0
	}
	return make([]struct{}, orphans)
}

// Len returns the number of live (non-orphaned) vectors.
func (idx *HNSWIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.live)
}

// normalized returns a unit-length copy of v for cosine similarity.
func normalized(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	var sumSquares float64
	for _, x := range out {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return out
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range out {
		out[i] *= inv
	}
	return out
}

var _ VectorIndex = (*HNSWIndex)(nil)
