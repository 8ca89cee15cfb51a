// Package config loads ragterm's configuration: chunking parameters, the
// embedding provider/model, and the hybrid retriever's RRF weights and
// score floors. It mirrors the teacher's own layering (hardcoded defaults,
// then a user-global file, then a project-local file) trimmed to the
// handful of knobs this engine actually has.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is ragterm's complete configuration.
type Config struct {
	Version int `yaml:"version"`

	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	Embeddings  EmbeddingsConfig  `yaml:"embeddings"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	VectorIndex VectorIndexConfig `yaml:"vector_index"`
}

// EmbeddingsConfig selects and configures the embedding backend.
type EmbeddingsConfig struct {
	// Provider is one of "openai", "ollama", "static". Empty selects
	// Static.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	OpenAIAPIKey string `yaml:"openai_api_key"`
	OllamaHost   string `yaml:"ollama_host"`
}

// RetrievalConfig configures RRF weights and per-leg score floors.
type RetrievalConfig struct {
	// WeightVector and WeightText are w_v/w_t in spec.md §4.8.
	WeightVector float64 `yaml:"weight_vector"`
	WeightText   float64 `yaml:"weight_text"`

	// MinScoreVector and MinScoreText are optional floors; nil means no
	// filtering on that leg. A pointer distinguishes "unset" from "0.0".
	MinScoreVector *float64 `yaml:"min_score_vector"`
	MinScoreText   *float64 `yaml:"min_score_text"`

	TopK int `yaml:"top_k"`
}

// VectorIndexConfig selects the derived vector index implementation.
type VectorIndexConfig struct {
	// Backend is one of "hnsw" (default) or "chromem".
	Backend string `yaml:"backend"`
}

const (
	// DefaultChunkSize and DefaultChunkOverlap seed a new config and a new
	// orchestrator.Store when no config file is present.
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 200

	defaultTopK = 20

	configDirName      = "ragterm"
	userConfigFileName = "config.yaml"
	projectConfigYAML  = ".ragterm.yaml"
	projectConfigYML   = ".ragterm.yml"
)

// New returns a Config populated with hardcoded defaults.
func New() *Config {
	return &Config{
		Version:      1,
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		Embeddings:   EmbeddingsConfig{},
		Retrieval: RetrievalConfig{
			WeightVector: 1.0,
			WeightText:   1.0,
			TopK:         defaultTopK,
		},
	}
}

// UserConfigPath returns ~/.config/ragterm/config.yaml, honoring
// $XDG_CONFIG_HOME per the teacher's own convention.
func UserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, configDirName, userConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", configDirName, userConfigFileName)
	}
	return filepath.Join(home, ".config", configDirName, userConfigFileName)
}

// Load resolves configuration in order of increasing precedence: hardcoded
// defaults, the user-global file (if present), then a project-local
// .ragterm.yaml/.yml in dir (if present).
func Load(dir string) (*Config, error) {
	cfg := New()

	if path := UserConfigPath(); fileExists(path) {
		if err := cfg.mergeFile(path); err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
	}

	for _, name := range []string{projectConfigYAML, projectConfigYML} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			if err := cfg.mergeFile(path); err != nil {
				return nil, fmt.Errorf("load project config %s: %w", path, err)
			}
			break
		}
	}

	return cfg, nil
}

// mergeFile parses path as YAML into a fresh Config and overlays its
// non-zero fields onto c. Only fields actually set in the file override
// the running config, so a partial project override doesn't erase the
// user-global file's other settings.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	c.mergeWith(&overlay)
	return nil
}

func (c *Config) mergeWith(o *Config) {
	if o.ChunkSize != 0 {
		c.ChunkSize = o.ChunkSize
	}
	if o.ChunkOverlap != 0 {
		c.ChunkOverlap = o.ChunkOverlap
	}
	if o.Embeddings.Provider != "" {
		c.Embeddings.Provider = o.Embeddings.Provider
	}
	if o.Embeddings.Model != "" {
		c.Embeddings.Model = o.Embeddings.Model
	}
	if o.Embeddings.OpenAIAPIKey != "" {
		c.Embeddings.OpenAIAPIKey = o.Embeddings.OpenAIAPIKey
	}
	if o.Embeddings.OllamaHost != "" {
		c.Embeddings.OllamaHost = o.Embeddings.OllamaHost
	}
	if o.Retrieval.WeightVector != 0 {
		c.Retrieval.WeightVector = o.Retrieval.WeightVector
	}
	if o.Retrieval.WeightText != 0 {
		c.Retrieval.WeightText = o.Retrieval.WeightText
	}
	if o.Retrieval.MinScoreVector != nil {
		c.Retrieval.MinScoreVector = o.Retrieval.MinScoreVector
	}
	if o.Retrieval.MinScoreText != nil {
		c.Retrieval.MinScoreText = o.Retrieval.MinScoreText
	}
	if o.Retrieval.TopK != 0 {
		c.Retrieval.TopK = o.Retrieval.TopK
	}
	if o.VectorIndex.Backend != "" {
		c.VectorIndex.Backend = o.VectorIndex.Backend
	}
}

// WriteYAML serializes c to path, creating the parent directory if needed.
func (c *Config) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
