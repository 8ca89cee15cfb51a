package store

import (
	"context"
	"fmt"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
)

// VectorBackend names which VectorIndex implementation an orchestrator.Store
// should build its derived index with. The zero value selects HNSW.
type VectorBackend string

const (
	VectorBackendHNSW    VectorBackend = "hnsw"
	VectorBackendChromem VectorBackend = "chromem"
)

// ChromemIndex is the optional second VectorIndex backend, wrapping
// chromem-go instead of coder/hnsw. It satisfies the same interface as
// HNSWIndex so the orchestrator can pick a backend at construction time;
// neither choice is recorded in the persistent snapshot, since derived
// indexes are always rebuilt from RagData.Vectors.
type ChromemIndex struct {
	collection *chromem.Collection
}

// NewChromemIndex creates an in-memory chromem-go collection used as a
// VectorIndex. Embeddings are supplied explicitly by the caller, so no
// embedding function is registered with the collection.
func NewChromemIndex(collectionName string) (*ChromemIndex, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create chromem collection: %w", err)
	}
	return &ChromemIndex{collection: collection}, nil
}

// Add inserts or replaces vectors keyed by VectorID, encoded as their decimal
// string form since chromem-go document IDs are strings.
func (c *ChromemIndex) Add(ids []VectorID, vectors [][]float32) error {
	docs := make([]chromem.Document, len(ids))
	for i, id := range ids {
		docs[i] = chromem.Document{
			ID:        vectorIDKey(id),
			Embedding: vectors[i],
		}
	}
	return c.collection.AddDocuments(context.Background(), docs, 1)
}

// Search returns the k nearest neighbors, most similar first.
func (c *ChromemIndex) Search(query []float32, k int) ([]VectorResult, error) {
	if c.collection.Count() == 0 {
		return []VectorResult{}, nil
	}
	if k > c.collection.Count() {
		k = c.collection.Count()
	}
	res, err := c.collection.QueryEmbedding(context.Background(), query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	out := make([]VectorResult, 0, len(res))
	for _, r := range res {
		id, err := parseVectorIDKey(r.ID)
		if err != nil {
			continue
		}
		out = append(out, VectorResult{ID: id, Similarity: r.Similarity})
	}
	return out, nil
}

// Len returns the number of vectors in the collection.
func (c *ChromemIndex) Len() int {
	return c.collection.Count()
}

func vectorIDKey(id VectorID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseVectorIDKey(s string) (VectorID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return VectorID(v), nil
}

var _ VectorIndex = (*ChromemIndex)(nil)
