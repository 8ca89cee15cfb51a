package store

import (
	"context"
	"math"
	"sort"
	"sync"
)

// BM25Config configures an OkapiBM25 index.
type BM25Config struct {
	K1 float64
	B  float64
}

// DefaultBM25Config returns the spec's default BM25 parameters.
func DefaultBM25Config() BM25Config {
	return BM25Config{K1: 1.2, B: 0.75}
}

// okapiDoc is one indexed document: its tokenized term frequencies and length.
type okapiDoc struct {
	id     VectorID
	length int
	tf     map[string]int
}

// OkapiBM25 is a hand-rolled Okapi BM25 inverted index. A library scorer
// (e.g. bleve) is deliberately not used here: the testable properties require
// exact, per-call configurable k1/b and a deterministic ascending-insertion
// tie-break that bleve's relevance scoring does not expose.
type OkapiBM25 struct {
	mu      sync.RWMutex
	cfg     BM25Config
	docs    []okapiDoc      // insertion order, for the ascending tie-break
	docFreq map[string]int  // term -> number of documents containing it
	avgDL   float64
}

// NewOkapiBM25 creates an empty index with the given parameters.
func NewOkapiBM25(cfg BM25Config) *OkapiBM25 {
	return &OkapiBM25{cfg: cfg, docFreq: make(map[string]int)}
}

// Index adds documents to the corpus, recomputing avgdl and document
// frequencies. Index is not incremental by design: the component design
// treats BM25 as a derived cache, always rebuilt from files on ingest/load.
func (b *OkapiBM25) Index(docs []Document, ids []VectorID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.docs = make([]okapiDoc, 0, len(docs))
	b.docFreq = make(map[string]int)

	var totalLen int
	for i, doc := range docs {
		tokens := tokenize(doc.PageContent)
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for t := range tf {
			b.docFreq[t]++
		}
		totalLen += len(tokens)
		b.docs = append(b.docs, okapiDoc{id: ids[i], length: len(tokens), tf: tf})
	}

	if len(b.docs) > 0 {
		b.avgDL = float64(totalLen) / float64(len(b.docs))
	} else {
		b.avgDL = 0
	}
}

// idf computes ln((N - df + 0.5) / (df + 0.5) + 1) for the current corpus size N.
func (b *OkapiBM25) idf(term string) float64 {
	n := float64(len(b.docs))
	df := float64(b.docFreq[term])
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// Search scores the query against every indexed document and returns up to
// limit results in non-increasing score order. Ties break by ascending
// insertion order, matching the literal BM25 scenario in the test suite.
func (b *OkapiBM25) Search(ctx context.Context, query string, limit int, minScore *float64) ([]BM25Result, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || len(b.docs) == 0 {
		return []BM25Result{}, nil
	}

	idfs := make(map[string]float64, len(queryTerms))
	for _, t := range queryTerms {
		if _, seen := idfs[t]; !seen {
			idfs[t] = b.idf(t)
		}
	}

	type scored struct {
		BM25Result
		order int
	}
	results := make([]scored, 0, len(b.docs))

	for order, doc := range b.docs {
		var score float64
		for _, t := range queryTerms {
			tf := float64(doc.tf[t])
			if tf == 0 {
				continue
			}
			denom := tf + b.cfg.K1*(1-b.cfg.B+b.cfg.B*float64(doc.length)/b.avgDL)
			score += idfs[t] * (tf * (b.cfg.K1 + 1) / denom)
		}
		if score <= 0 {
			continue
		}
		if minScore != nil && score < *minScore {
			continue
		}
		results = append(results, scored{BM25Result{ID: doc.id, Score: score}, order})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].order < results[j].order
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	out := make([]BM25Result, len(results))
	for i, r := range results {
		out[i] = r.BM25Result
	}
	return out, nil
}

// DocCount returns the number of indexed documents.
func (b *OkapiBM25) DocCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.docs)
}

var _ BM25Index = (*OkapiBM25)(nil)
