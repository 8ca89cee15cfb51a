package tokenest

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Common encoding names, matching OpenAI's published model-to-encoding map.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo, text-embedding-ada-002
	EncodingO200kBase  = "o200k_base"  // GPT-4o models
)

// modelEncodings maps embedding model IDs this module resolves against
// OpenAI-compatible backends to their tiktoken encoding name.
var modelEncodings = map[string]string{
	"gpt-4o":                 EncodingO200kBase,
	"gpt-4o-mini":            EncodingO200kBase,
	"gpt-4":                  EncodingCL100kBase,
	"gpt-4-turbo":            EncodingCL100kBase,
	"gpt-3.5-turbo":          EncodingCL100kBase,
	"text-embedding-ada-002": EncodingCL100kBase,
	"text-embedding-3-small": EncodingCL100kBase,
	"text-embedding-3-large": EncodingCL100kBase,
}

// EncodingForModel returns the tiktoken encoding name for model, defaulting
// to cl100k_base for unrecognized models.
func EncodingForModel(model string) string {
	if enc, ok := modelEncodings[model]; ok {
		return enc
	}
	return EncodingCL100kBase
}

// tikTokenEstimator is an exact-token-count Estimator backed by
// github.com/pkoukk/tiktoken-go, used when the resolved embedding model
// declares a tiktoken encoding (OpenAI-compatible backends).
type tikTokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

// NewTikTokenEstimator creates an Estimator using the tiktoken encoding
// associated with model. Falls back to cl100k_base for an unrecognized
// model, same as EncodingForModel.
func NewTikTokenEstimator(model string) (Estimator, error) {
	enc, err := tiktoken.GetEncoding(EncodingForModel(model))
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding for model %q: %w", model, err)
	}
	return &tikTokenEstimator{encoding: enc}, nil
}

func (t *tikTokenEstimator) Estimate(s string) int {
	return len(t.encoding.Encode(s, nil, nil))
}

var _ Estimator = (*tikTokenEstimator)(nil)
