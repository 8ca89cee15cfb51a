package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of embeddings an LRU cache holds.
const DefaultCacheSize = 1000

// Cached wraps an Embedder with an LRU cache keyed on (model, text), so a
// repeated query or re-embedded chunk skips the backend entirely.
type Cached struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

var _ Embedder = (*Cached)(nil)

// NewCached wraps inner with an LRU cache of the given size; a non-positive
// size falls back to DefaultCacheSize.
func NewCached(inner Embedder, cacheSize int) *Cached {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](cacheSize)
	return &Cached{inner: inner, cache: cache}
}

func (c *Cached) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text + "\x00" + c.inner.ModelName()))
	return hex.EncodeToString(h[:])
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, len(texts))
	var uncachedIdx []int
	var uncachedTexts []string

	for i, text := range texts {
		if vec, ok := c.cache.Get(c.cacheKey(text)); ok {
			results[i] = vec
		} else {
			uncachedIdx = append(uncachedIdx, i)
			uncachedTexts = append(uncachedTexts, text)
		}
	}
	if len(uncachedTexts) == 0 {
		return results, nil
	}

	embeddings, err := c.inner.EmbedBatch(ctx, uncachedTexts)
	if err != nil {
		return nil, err
	}
	for j, idx := range uncachedIdx {
		results[idx] = embeddings[j]
		c.cache.Add(c.cacheKey(texts[idx]), embeddings[j])
	}
	return results, nil
}

func (c *Cached) Dimensions() int { return c.inner.Dimensions() }

func (c *Cached) ModelName() string { return c.inner.ModelName() }

func (c *Cached) MaxConcurrentChunks() int { return c.inner.MaxConcurrentChunks() }

func (c *Cached) Available(ctx context.Context) bool { return c.inner.Available(ctx) }

func (c *Cached) Close() error { return c.inner.Close() }

// Inner returns the wrapped embedder.
func (c *Cached) Inner() Embedder { return c.inner }
