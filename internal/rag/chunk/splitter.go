// Package chunk implements the recursive text splitter: a separator-ladder
// based chunker that tries progressively finer boundaries (blank lines,
// newlines, sentences, clauses, words, codepoints) until every piece fits
// the requested chunk size, then reassembles pieces into overlapping
// chunks.
package chunk

import (
	"strings"

	"github.com/aman-cerp/ragterm/internal/tokenest"
)

// Config configures a Splitter.
type Config struct {
	// Separators is the ordered ladder tried from coarsest to finest. The
	// empty string "" is the terminal rung: split by codepoint.
	Separators []string
	// Estimator sizes a piece of text in "token-ish" units. Defaults to
	// tokenest.Default.
	Estimator tokenest.Estimator
	// Sentences, if set, refines the ". " rung using sentence-boundary
	// detection instead of a naive split.
	Sentences *SentenceDetector
}

// DefaultConfig returns a Config for prose using tokenest.Default.
func DefaultConfig() Config {
	return Config{Separators: DefaultSeparators, Estimator: tokenest.Default}
}

// Splitter recursively splits text into chunks of at most ChunkSize
// estimator units, each overlapping the previous by ChunkOverlap units.
type Splitter struct {
	cfg Config
}

// New creates a Splitter. A zero-value Estimator or empty Separators fall
// back to DefaultConfig's values.
func New(cfg Config) *Splitter {
	if cfg.Estimator == nil {
		cfg.Estimator = tokenest.Default
	}
	if len(cfg.Separators) == 0 {
		cfg.Separators = DefaultSeparators
	}
	return &Splitter{cfg: cfg}
}

// Split divides text into chunks of size at most chunkSize (in estimator
// units), with overlap estimator units of context carried from the tail of
// each chunk into the next. Requires 0 <= overlap < chunkSize.
func (s *Splitter) Split(text string, chunkSize, overlap int) []string {
	if text == "" {
		return nil
	}
	chunks := s.splitAt(text, chunkSize, overlap, 0)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitAt handles one level of the separator ladder: it splits text by the
// first separator (starting at sepIdx) that actually divides it into more
// than one piece, recursively shrinking any piece still too large, then
// merges the resulting atoms back into chunkSize-bounded, overlap-joined
// chunks.
func (s *Splitter) splitAt(text string, chunkSize, overlap, sepIdx int) []string {
	if s.cfg.Estimator.Estimate(text) <= chunkSize {
		return []string{text}
	}
	if sepIdx >= len(s.cfg.Separators) {
		return mergeAtoms(splitRunes(text), "", chunkSize, overlap, s.cfg.Estimator)
	}

	sep := s.cfg.Separators[sepIdx]
	pieces := s.atomizeBySeparator(text, sep)
	if len(pieces) <= 1 {
		return s.splitAt(text, chunkSize, overlap, sepIdx+1)
	}

	atoms := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if s.cfg.Estimator.Estimate(p) > chunkSize {
			atoms = append(atoms, s.splitAt(p, chunkSize, overlap, sepIdx+1)...)
		} else {
			atoms = append(atoms, p)
		}
	}
	return mergeAtoms(atoms, sep, chunkSize, overlap, s.cfg.Estimator)
}

// atomizeBySeparator splits text at the given separator rung. The "" rung
// splits by codepoint; the ". " rung prefers sentence-boundary detection
// when a SentenceDetector is configured.
func (s *Splitter) atomizeBySeparator(text, sep string) []string {
	if sep == "" {
		return splitRunes(text)
	}
	if sep == sentenceBoundarySeparator && s.cfg.Sentences != nil {
		if detected := s.cfg.Sentences.split(text); len(detected) > 1 {
			return detected
		}
	}
	return strings.Split(text, sep)
}

// splitRunes splits text into single-codepoint strings, never splitting a
// multi-byte rune across a chunk boundary.
func splitRunes(text string) []string {
	runes := []rune(text)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// mergeAtoms reassembles atoms, joined by sep, into chunks of at most
// chunkSize estimator units, carrying up to overlap units from the tail of
// each closed chunk into the next.
func mergeAtoms(atoms []string, sep string, chunkSize, overlap int, est tokenest.Estimator) []string {
	type item struct {
		text string
		size int
	}

	var buf []item
	bufLen := 0
	var chunks []string

	joinBuf := func(b []item) string {
		parts := make([]string, len(b))
		for i, it := range b {
			parts[i] = it.text
		}
		return strings.Join(parts, sep)
	}

	closeChunk := func() {
		chunks = append(chunks, joinBuf(buf))

		var newBuf []item
		newLen := 0
		for i := len(buf) - 1; i >= 0; i-- {
			it := buf[i]
			if newLen+it.size > overlap {
				break
			}
			newBuf = append([]item{it}, newBuf...)
			newLen += it.size
		}
		buf = newBuf
		bufLen = newLen
	}

	for _, a := range atoms {
		if a == "" {
			continue
		}
		size := est.Estimate(a)
		if len(buf) > 0 && bufLen+size > chunkSize {
			closeChunk()
		}
		buf = append(buf, item{text: a, size: size})
		bufLen += size
	}
	if len(buf) > 0 {
		chunks = append(chunks, joinBuf(buf))
	}
	return chunks
}
