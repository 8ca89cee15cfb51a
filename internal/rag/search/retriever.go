package search

import (
	"context"
	"strings"

	"github.com/aman-cerp/ragterm/internal/rag/chunk"
	"github.com/aman-cerp/ragterm/internal/rag/embed"
	"github.com/aman-cerp/ragterm/internal/rag/store"
	"golang.org/x/sync/errgroup"
)

// Retriever is the Hybrid Retriever of spec.md §4.7: it fans vector and
// BM25 search out concurrently (grounded on the teacher's own
// parallelSearch / golang.org/x/sync/errgroup use in
// internal/search/engine.go), fuses them via RRF, and resolves the fused
// ids back to chunk text.
type Retriever struct {
	vector   store.VectorIndex
	bm25     store.BM25Index
	pipeline *embed.Pipeline
	splitter *chunk.Splitter

	chunkSize    int
	chunkOverlap int
	weights      Weights
}

// NewRetriever constructs a Retriever. chunkSize/chunkOverlap are the
// store's own parameters, reused to split the query the same way documents
// were split (spec.md §4.7.2).
func NewRetriever(vector store.VectorIndex, bm25 store.BM25Index, embedder embed.Embedder, chunkSize, chunkOverlap int, weights Weights) *Retriever {
	return &Retriever{
		vector:       vector,
		bm25:         bm25,
		pipeline:     embed.NewPipeline(embedder),
		splitter:     chunk.New(chunk.DefaultConfig()),
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		weights:      weights,
	}
}

// Search runs the full hybrid-retrieval pipeline and returns the fused
// chunk texts joined by a blank line, per spec.md §4.7.5.
func (r *Retriever) Search(ctx context.Context, files []store.RagFile, query string, topK int, minScoreVector, minScoreText *float64) (string, error) {
	var vectorIDs []store.VectorID
	var bm25Results []store.BM25Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := r.vectorSearch(gctx, query, topK, minScoreVector)
		vectorIDs = ids
		return err
	})
	g.Go(func() error {
		results, err := r.bm25.Search(gctx, query, topK, minScoreText)
		bm25Results = results
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	textIDs := make([]store.VectorID, len(bm25Results))
	for i, res := range bm25Results {
		textIDs[i] = res.ID
	}

	fused := Fuse(vectorIDs, textIDs, r.weights, topK)

	chunks := make([]string, 0, len(fused))
	for _, id := range fused {
		if text, ok := resolveChunkText(files, id); ok {
			chunks = append(chunks, text)
		}
	}

	return strings.Join(chunks, "\n\n"), nil
}

// vectorSearch splits query with the default separator ladder at the
// store's chunk_size/chunk_overlap, embeds each sub-query in query mode,
// runs an HNSW query per sub-query, and concatenates the filtered results
// in sub-query order, preserving each sub-query's own result order.
func (r *Retriever) vectorSearch(ctx context.Context, query string, topK int, minScore *float64) ([]store.VectorID, error) {
	subQueries := r.splitter.Split(query, r.chunkSize, r.chunkOverlap)
	if len(subQueries) == 0 {
		subQueries = []string{query}
	}

	vectors, err := r.pipeline.Run(ctx, nil, embed.EmbeddingsData{Texts: subQueries, Query: true}, nil)
	if err != nil {
		return nil, err
	}

	var ids []store.VectorID
	for _, vec := range vectors {
		results, err := r.vector.Search(vec, topK)
		if err != nil {
			return nil, err
		}
		for _, res := range results {
			if minScore != nil && float64(res.Similarity) < *minScore {
				continue
			}
			ids = append(ids, res.ID)
		}
	}
	return ids, nil
}

// resolveChunkText maps a VectorID back to its chunk text by splitting it
// into (file_index, chunk_index) and indexing into files; out-of-range ids
// (a stale id from a since-shrunk store) are skipped defensively, per
// spec.md §4.7.4.
func resolveChunkText(files []store.RagFile, id store.VectorID) (string, bool) {
	fileIndex, chunkIndex := store.SplitID(id)
	if fileIndex >= uint64(len(files)) {
		return "", false
	}
	docs := files[fileIndex].Documents
	if chunkIndex >= uint64(len(docs)) {
		return "", false
	}
	return docs[chunkIndex].PageContent, true
}
