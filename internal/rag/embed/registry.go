package embed

import (
	"context"
	"os"
	"strings"

	ragerrors "github.com/aman-cerp/ragterm/internal/errors"
)

// Provider identifies an embedding backend by its config string.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderStatic Provider = "static"
)

// ValidProviders lists every provider ID the registry accepts.
func ValidProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderOllama, ProviderStatic}
}

// IsValidProvider reports whether p names a known provider.
func IsValidProvider(p Provider) bool {
	for _, v := range ValidProviders() {
		if v == p {
			return true
		}
	}
	return false
}

// ParseProvider normalizes a user-supplied provider string.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidProvider(p) {
		return "", ragerrors.ConfigErr("unknown embedding provider: "+s, nil)
	}
	return p, nil
}

// Settings carries the config knobs needed to construct any registered
// provider; fields irrelevant to the chosen provider are ignored.
type Settings struct {
	Provider Provider
	Model    string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	OllamaHost string

	// NoCache disables the LRU-wrapping normally applied to network backends.
	NoCache bool
}

// ragEmbedderEnvOverride lets a caller force a provider without touching
// config.
const ragEmbedderEnvOverride = "RAGTERM_EMBEDDER"

// New constructs the Embedder named by cfg.Provider (or the
// RAGTERM_EMBEDDER environment override, if set), wrapping network backends
// in an LRU cache unless NoCache is set.
func New(ctx context.Context, cfg Settings) (Embedder, error) {
	provider := cfg.Provider
	if env := os.Getenv(ragEmbedderEnvOverride); env != "" {
		if p, err := ParseProvider(env); err == nil {
			provider = p
		}
	}

	var (
		embedder Embedder
		err      error
	)

	switch provider {
	case ProviderOpenAI:
		embedder, err = NewOpenAI(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.Model,
			BaseURL: cfg.OpenAIBaseURL,
		})
	case ProviderOllama:
		embedder = NewOllama(OllamaConfig{
			Host:  cfg.OllamaHost,
			Model: cfg.Model,
		})
	case ProviderStatic, "":
		embedder = NewStatic()
	default:
		return nil, ragerrors.ConfigErr("unknown embedding provider: "+string(provider), nil)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.NoCache && provider != ProviderStatic && provider != "" {
		embedder = NewCached(embedder, DefaultCacheSize)
	}

	return embedder, nil
}
