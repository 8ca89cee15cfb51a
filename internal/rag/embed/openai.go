package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ragerrors "github.com/aman-cerp/ragterm/internal/errors"
	openai "github.com/sashabaranov/go-openai"
)

// openaiRetryConfig governs backoff for rate-limit/server-error responses.
// OpenAI's own rate-limit recovery is on the order of a second, not the
// teacher's default 16s ceiling, so the max delay is trimmed accordingly.
var openaiRetryConfig = ragerrors.RetryConfig{
	MaxRetries:   3,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
	Jitter:       true,
}

// OpenAIDefaultModel is used when OpenAIConfig.Model is empty.
const OpenAIDefaultModel = "text-embedding-3-small"

// openaiModelDimensions holds the known output dimensionality for OpenAI's
// published embedding models; for an unrecognized model with
// OpenAIConfig.Dimensions unset, dims start at 0 and are taken from the
// first embedding response.
var openaiModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// openaiMaxConcurrentChunks is the batch size submitted per request; OpenAI
// accepts up to 2048 inputs per call but smaller batches keep a single
// failure from discarding a large amount of embedding work.
const openaiMaxConcurrentChunks = 96

// OpenAIConfig configures the OpenAI embedding backend.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	Dimensions int
	BaseURL    string
}

// OpenAI embeds text via OpenAI's embeddings endpoint through
// github.com/sashabaranov/go-openai. Requests go through a circuit breaker
// plus exponential-backoff retry on rate-limit/server-side failures, the
// same backend-availability handling Ollama gets, since both are the two
// network embedding backends spec §7's retryable EmbeddingError covers.
type OpenAI struct {
	client  *openai.Client
	model   string
	dims    int
	breaker *ragerrors.CircuitBreaker
}

var _ Embedder = (*OpenAI)(nil)

// NewOpenAI constructs an OpenAI embedder. If cfg.Dimensions is zero and the
// model is not one of the known published models, Dimensions() returns 0
// until a real embedding call reveals the true size.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ragerrors.ConfigErr("OpenAI API key is required", nil)
	}
	model := cfg.Model
	if model == "" {
		model = OpenAIDefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	dims := cfg.Dimensions
	if dims == 0 {
		dims = openaiModelDimensions[model]
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		dims:    dims,
		breaker: ragerrors.NewCircuitBreaker("openai:" + model),
	}, nil
}

func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var resp openai.EmbeddingResponse
	roundTripErr := e.breaker.Execute(func() error {
		var permanent error
		err := ragerrors.Retry(ctx, openaiRetryConfig, func() error {
			r, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
				Input: texts,
				Model: openai.EmbeddingModel(e.model),
			})
			if err != nil {
				wrapped := wrapOpenAIErr(err)
				if !wrapped.Retryable {
					permanent = wrapped
					return nil
				}
				return wrapped
			}
			resp = r
			return nil
		})
		if permanent != nil {
			return permanent
		}
		return err
	})
	if roundTripErr != nil {
		if roundTripErr == ragerrors.ErrCircuitOpen {
			return nil, ragerrors.New(ragerrors.ErrCodeEmbeddingBackend, "openai circuit breaker open", roundTripErr)
		}
		return nil, roundTripErr
	}
	if len(resp.Data) != len(texts) {
		return nil, ragerrors.New(ragerrors.ErrCodeEmbeddingShape,
			fmt.Sprintf("openai returned %d embeddings for %d inputs", len(resp.Data), len(texts)), nil)
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if e.dims == 0 {
			e.dims = len(d.Embedding)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// wrapOpenAIErr classifies an error from the go-openai client by HTTP status
// so rate limits and server-side failures retry (per spec §7's retryable
// EmbeddingError codes) while client errors (bad request, auth) don't.
func wrapOpenAIErr(err error) *ragerrors.RagError {
	msg := fmt.Sprintf("openai embeddings request failed: %s", strings.TrimSpace(err.Error()))

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return ragerrors.New(ragerrors.ErrCodeEmbeddingRateLimit, msg, err)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return ragerrors.New(ragerrors.ErrCodeEmbeddingBackend, msg, err)
		}
	}
	return ragerrors.EmbeddingErr(msg, err)
}

func (e *OpenAI) Dimensions() int { return e.dims }

func (e *OpenAI) ModelName() string { return e.model }

func (e *OpenAI) MaxConcurrentChunks() int { return openaiMaxConcurrentChunks }

func (e *OpenAI) Available(ctx context.Context) bool {
	_, err := e.Embed(ctx, "ping")
	return err == nil
}

func (e *OpenAI) Close() error { return nil }
