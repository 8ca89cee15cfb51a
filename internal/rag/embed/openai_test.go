package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAI_RejectsMissingAPIKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{})
	assert.Error(t, err)
}

func TestNewOpenAI_DefaultsModelAndKnownDimensions(t *testing.T) {
	e, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test"})
	require.NoError(t, err)

	assert.Equal(t, OpenAIDefaultModel, e.ModelName())
	assert.Equal(t, 1536, e.Dimensions())
}

func TestNewOpenAI_ExplicitDimensionsOverrideModelDefault(t *testing.T) {
	e, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", Model: "text-embedding-3-large", Dimensions: 256})
	require.NoError(t, err)

	assert.Equal(t, 256, e.Dimensions())
}

func TestOpenAI_EmbedBatchRetriesOnRateLimit(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "rate limited", "type": "rate_limit_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "embedding": []float32{0.1, 0.2}, "index": 0},
			},
			"model": "text-embedding-3-small",
			"usage": map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	defer server.Close()

	e, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	vecs, err := e.EmbedBatch(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Len(t, vecs, 1)
	assert.GreaterOrEqual(t, attempts.Load(), int32(2))
}

func TestWrapOpenAIErr_ClassifiesByStatus(t *testing.T) {
	err := wrapOpenAIErr(assert.AnError)
	assert.Equal(t, "ERR_401_EMBEDDING_FAILED", err.Code)
}
