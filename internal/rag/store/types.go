// Package store holds the persistent data model for a RAG index — documents,
// files, the packed VectorID scheme, the on-disk snapshot codec, and the two
// derived search indexes (BM25 and HNSW) that are rebuilt from it.
package store

import "context"

// Document is an immutable unit produced by the splitter: a chunk of page
// content plus whatever metadata the splitter or loader attached to it
// (source path, page number, chunk index). Metadata preserves insertion
// order so export and logging are deterministic.
type Document struct {
	PageContent string
	Metadata    []MetadataEntry
}

// MetadataEntry is one key/value pair in a Document's ordered metadata map.
type MetadataEntry struct {
	Key   string
	Value string
}

// Meta looks up a metadata value by key, returning "" if absent.
func (d Document) Meta(key string) string {
	for _, e := range d.Metadata {
		if e.Key == key {
			return e.Value
		}
	}
	return ""
}

// WithMeta returns a copy of d with (key, value) appended to its metadata.
// Existing Documents are never mutated in place.
func (d Document) WithMeta(key, value string) Document {
	out := d
	out.Metadata = append(append([]MetadataEntry{}, d.Metadata...), MetadataEntry{Key: key, Value: value})
	return out
}

// RagFile is one ingested path and the ordered Documents it was split into.
// Two RagFiles in a single store never share Path.
type RagFile struct {
	Path      string
	Documents []Document
}

// RagData is the full persistent snapshot of a store: everything needed to
// rebuild the BM25 and HNSW indexes without re-reading source files or
// re-calling the embedding backend. files and vectors are kept minimal and
// derived indexes are always rebuildable, by design — no opaque library
// structure is ever serialized.
type RagData struct {
	ModelID      string
	ChunkSize    uint
	ChunkOverlap uint
	Files        []RagFile
	// Vectors is insertion-ordered: iteration order matches the order vectors
	// were added, not VectorID order, so re-deriving BM25 document order from
	// an old snapshot is stable.
	Vectors []VectorEntry
}

// VectorEntry pairs a VectorID with its embedding, preserving insertion order
// within RagData.Vectors.
type VectorEntry struct {
	ID     VectorID
	Vector []float32
}

// Dimension returns the shared embedding dimension, or 0 if there are no vectors.
func (d *RagData) Dimension() int {
	if len(d.Vectors) == 0 {
		return 0
	}
	return len(d.Vectors[0].Vector)
}

// HasPath reports whether path is already tracked by a RagFile in this store.
// add_paths treats re-adding a known path as a no-op.
func (d *RagData) HasPath(path string) bool {
	for _, f := range d.Files {
		if f.Path == path {
			return true
		}
	}
	return false
}

// BM25Result is a single lexical-search hit.
type BM25Result struct {
	ID    VectorID
	Score float64
}

// BM25Index provides Okapi BM25 keyword search over the chunk corpus.
type BM25Index interface {
	// Search returns up to limit results in non-increasing score order,
	// filtered by minScore if non-nil.
	Search(ctx context.Context, query string, limit int, minScore *float64) ([]BM25Result, error)
	// DocCount returns the number of indexed documents.
	DocCount() int
}

// VectorResult is a single approximate-nearest-neighbor hit. Similarity is
// higher-is-better, per the HNSW contract in the component design.
type VectorResult struct {
	ID         VectorID
	Similarity float32
}

// VectorIndex provides approximate-nearest-neighbor search over chunk
// embeddings. Two backends satisfy it: the default coder/hnsw-based HNSWIndex
// and the optional chromem-go-based ChromemIndex. Backend choice is a
// construction-time decision only; it is never persisted in RagData.
type VectorIndex interface {
	// Add inserts or replaces vectors keyed by VectorID.
	Add(ids []VectorID, vectors [][]float32) error
	// Search returns the k nearest neighbors to query, most similar first.
	Search(query []float32, k int) ([]VectorResult, error)
	// Len returns the number of vectors currently indexed.
	Len() int
}
