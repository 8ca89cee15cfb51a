package store

import "github.com/aman-cerp/ragterm/internal/tokenest"

// tokenize splits text into lowercased Unicode word tokens for BM25 indexing
// and querying, delegating to the tokenest segmenter. The recursive
// splitter does not use it; it sizes chunks with a tokenest.Estimator.
func tokenize(text string) []string {
	return tokenest.Words(text)
}
