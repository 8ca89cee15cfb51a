package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	ragerrors "github.com/aman-cerp/ragterm/internal/errors"
)

// Ollama defaults.
const (
	OllamaDefaultHost  = "http://localhost:11434"
	OllamaDefaultModel = "nomic-embed-text"

	ollamaDefaultTimeout       = 60 * time.Second
	ollamaMaxConcurrentChunks  = 32
	ollamaConnectCheckTimeout  = 5 * time.Second
)

// ollamaRetryConfig backs off faster than ragerrors.DefaultRetryConfig: a
// local Ollama server that's still loading a model recovers in milliseconds,
// not the seconds a remote API warrants.
var ollamaRetryConfig = ragerrors.RetryConfig{
	MaxRetries:   2,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     400 * time.Millisecond,
	Multiplier:   2.0,
}

// OllamaConfig configures the Ollama embedding backend.
type OllamaConfig struct {
	Host       string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input any    `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Ollama embeds text via a local Ollama server's /api/embed endpoint.
// Unlike the teacher's OllamaEmbedder, there is no thermal/timeout
// progression: spec.md's concurrency model has no notion of hardware
// cooling, just sequential batches sized by MaxConcurrentChunks.
//
// Request round trips go through a circuit breaker plus exponential-backoff
// retry: a local Ollama server is the most likely backend to be transiently
// unavailable (not yet started, model still loading), and ErrCodeEmbeddingBackend/
// ErrCodeEmbeddingRateLimit are exactly the retryable codes per spec §7.
type Ollama struct {
	client  *http.Client
	host    string
	model   string
	breaker *ragerrors.CircuitBreaker

	mu   sync.RWMutex
	dims int
}

var _ Embedder = (*Ollama)(nil)

// NewOllama constructs an Ollama embedder. If cfg.Dimensions is zero, the
// dimension is discovered from the first embedding call.
func NewOllama(cfg OllamaConfig) *Ollama {
	host := cfg.Host
	if host == "" {
		host = OllamaDefaultHost
	}
	model := cfg.Model
	if model == "" {
		model = OllamaDefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = ollamaDefaultTimeout
	}

	return &Ollama{
		client:  &http.Client{Timeout: timeout},
		host:    host,
		model:   model,
		breaker: ragerrors.NewCircuitBreaker("ollama:" + model),
		dims:    cfg.Dimensions,
	}
}

func (e *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *Ollama) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var input any = texts
	if len(texts) == 1 {
		input = texts[0]
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: input})
	if err != nil {
		return nil, ragerrors.EmbeddingErr("marshal ollama request", err)
	}

	// The round trip itself (connection refused, non-200 status) is the
	// transient, retryable half of this call; decoding and shape validation
	// below run once against a confirmed 200 response and are not retried.
	var respBody []byte
	roundTripErr := e.breaker.Execute(func() error {
		return ragerrors.Retry(ctx, ollamaRetryConfig, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.host+"/api/embed", bytes.NewReader(body))
			if err != nil {
				return ragerrors.EmbeddingErr("build ollama request", err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := e.client.Do(req)
			if err != nil {
				return ragerrors.New(ragerrors.ErrCodeEmbeddingBackend, fmt.Sprintf("ollama request failed: %v", err), err)
			}
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return ragerrors.New(ragerrors.ErrCodeEmbeddingBackend, fmt.Sprintf("ollama response read failed: %v", err), err)
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				return ragerrors.New(ragerrors.ErrCodeEmbeddingRateLimit, fmt.Sprintf("ollama rate limited: %s", string(raw)), nil)
			}
			if resp.StatusCode != http.StatusOK {
				return ragerrors.New(ragerrors.ErrCodeEmbeddingBackend,
					fmt.Sprintf("ollama responded %d: %s", resp.StatusCode, string(raw)), nil)
			}

			respBody = raw
			return nil
		})
	})
	if roundTripErr != nil {
		if roundTripErr == ragerrors.ErrCircuitOpen {
			return nil, ragerrors.New(ragerrors.ErrCodeEmbeddingBackend, "ollama circuit breaker open", roundTripErr)
		}
		return nil, roundTripErr
	}

	var result ollamaEmbedResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, ragerrors.EmbeddingErr("decode ollama response", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, ragerrors.New(ragerrors.ErrCodeEmbeddingShape,
			fmt.Sprintf("ollama returned %d embeddings for %d inputs", len(result.Embeddings), len(texts)), nil)
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, raw := range result.Embeddings {
		vec := make([]float32, len(raw))
		for j, v := range raw {
			vec[j] = float32(v)
		}
		vectors[i] = normalizeVector(vec)
	}

	e.mu.Lock()
	if e.dims == 0 && len(vectors) > 0 {
		e.dims = len(vectors[0])
	}
	e.mu.Unlock()

	return vectors, nil
}

func (e *Ollama) Dimensions() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dims
}

func (e *Ollama) ModelName() string { return e.model }

func (e *Ollama) MaxConcurrentChunks() int { return ollamaMaxConcurrentChunks }

func (e *Ollama) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, ollamaConnectCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.host+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (e *Ollama) Close() error { return nil }
