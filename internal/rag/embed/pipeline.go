package embed

import (
	"context"
	"fmt"

	"github.com/aman-cerp/ragterm/internal/async"
	ragerrors "github.com/aman-cerp/ragterm/internal/errors"
)

// Pipeline drives an Embedder over a batch of texts, partitioning the input
// into contiguous batches of the embedder's MaxConcurrentChunks, submitting
// them sequentially (never concurrently, to respect provider rate limits),
// and reporting progress after each batch.
type Pipeline struct {
	embedder Embedder
}

// NewPipeline wraps embedder in a batching driver.
func NewPipeline(embedder Embedder) *Pipeline {
	return &Pipeline{embedder: embedder}
}

// Run embeds data.Texts in order, emitting "Creating embeddings [i/N]" to
// sink after each batch (sink may be nil). If signal fires mid-pipeline, Run
// returns an Aborted error immediately and no partial vectors are returned.
func (p *Pipeline) Run(ctx context.Context, signal *async.AbortSignal, data EmbeddingsData, sink *async.ProgressSink) ([][]float32, error) {
	if len(data.Texts) == 0 {
		return [][]float32{}, nil
	}

	batchSize := p.embedder.MaxConcurrentChunks()
	if batchSize <= 0 {
		batchSize = 1
	}

	batches := batchify(data.Texts, batchSize)
	results := make([][]float32, 0, len(data.Texts))

	for i, batch := range batches {
		if signal != nil && signal.Aborted() {
			return nil, ragerrors.Abort()
		}

		var vectors [][]float32
		err := func() error {
			if signal == nil {
				v, err := p.embedder.EmbedBatch(ctx, batch)
				vectors = v
				return err
			}
			return async.Race(signal, func() error {
				v, err := p.embedder.EmbedBatch(ctx, batch)
				vectors = v
				return err
			})
		}()
		if err != nil {
			if ragerrors.IsAborted(err) {
				return nil, err
			}
			return nil, fmt.Errorf("embed batch %d/%d: %w", i+1, len(batches), err)
		}
		if len(vectors) != len(batch) {
			return nil, ragerrors.New(ragerrors.ErrCodeEmbeddingShape,
				fmt.Sprintf("embedder returned %d vectors for a batch of %d", len(vectors), len(batch)), nil)
		}

		results = append(results, vectors...)

		if sink != nil {
			sink.Sendf("Creating embeddings [%d/%d]", len(results), len(data.Texts))
		}
	}

	return results, nil
}

// batchify splits texts into contiguous batches of at most size.
func batchify(texts []string, size int) [][]string {
	var batches [][]string
	for i := 0; i < len(texts); i += size {
		end := i + size
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, texts[i:end])
	}
	return batches
}
