package embed

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/aman-cerp/ragterm/internal/async"
	ragerrors "github.com/aman-cerp/ragterm/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchCountingEmbedder tracks how many times EmbedBatch was called and the
// largest batch size seen, to assert the pipeline's partitioning.
type batchCountingEmbedder struct {
	*Static
	calls     int32
	maxBatch  int
	batchSize int
}

func (b *batchCountingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	atomic.AddInt32(&b.calls, 1)
	if len(texts) > b.maxBatch {
		b.maxBatch = len(texts)
	}
	return b.Static.EmbedBatch(ctx, texts)
}

func (b *batchCountingEmbedder) MaxConcurrentChunks() int { return b.batchSize }

func TestPipeline_PartitionsIntoSequentialBatches(t *testing.T) {
	embedder := &batchCountingEmbedder{Static: NewStatic(), batchSize: 2}
	pipeline := NewPipeline(embedder)

	texts := []string{"a", "b", "c", "d", "e"}
	results, err := pipeline.Run(context.Background(), nil, EmbeddingsData{Texts: texts}, nil)
	require.NoError(t, err)

	assert.Len(t, results, len(texts))
	assert.Equal(t, int32(3), embedder.calls) // batches of 2,2,1
	assert.Equal(t, 2, embedder.maxBatch)
}

func TestPipeline_EmitsProgressPerBatch(t *testing.T) {
	embedder := &batchCountingEmbedder{Static: NewStatic(), batchSize: 2}
	pipeline := NewPipeline(embedder)
	sink := async.NewProgressSink()

	go func() {
		_, _ = pipeline.Run(context.Background(), nil, EmbeddingsData{Texts: []string{"a", "b", "c"}}, sink)
		sink.Close()
	}()

	var messages []string
	for p := range sink.Messages() {
		messages = append(messages, p.Message)
	}

	assert.Equal(t, []string{"Creating embeddings [2/3]", "Creating embeddings [3/3]"}, messages)
}

func TestPipeline_EmptyInputReturnsNoVectorsNoBatches(t *testing.T) {
	embedder := &batchCountingEmbedder{Static: NewStatic(), batchSize: 4}
	pipeline := NewPipeline(embedder)

	results, err := pipeline.Run(context.Background(), nil, EmbeddingsData{}, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, int32(0), embedder.calls)
}

func TestPipeline_AbortedSignalStopsBeforeNextBatch(t *testing.T) {
	embedder := &batchCountingEmbedder{Static: NewStatic(), batchSize: 1}
	pipeline := NewPipeline(embedder)

	signal := async.NewAbortSignal(context.Background())
	signal.Abort()

	_, err := pipeline.Run(context.Background(), signal, EmbeddingsData{Texts: []string{"a", "b"}}, nil)
	require.Error(t, err)
	assert.True(t, ragerrors.IsAborted(err))
}
