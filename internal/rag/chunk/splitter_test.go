package chunk

import (
	"strings"
	"testing"

	"github.com/aman-cerp/ragterm/internal/tokenest"
	"github.com/stretchr/testify/assert"
)

func TestSplitter_LiteralChunkingScenario(t *testing.T) {
	s := New(Config{
		Separators: []string{" ", ""},
		Estimator:  tokenest.RuneEstimator,
	})

	got := s.Split("a b c d e f g h", 3, 1)
	assert.Equal(t, []string{"a b c", "c d e", "e f g", "g h"}, got)
}

func TestSplitter_TextSmallerThanChunkSizeReturnsSingleChunk(t *testing.T) {
	s := New(DefaultConfig())
	got := s.Split("hello world", 100, 10)
	assert.Equal(t, []string{"hello world"}, got)
}

func TestSplitter_EmptyTextReturnsNoChunks(t *testing.T) {
	s := New(DefaultConfig())
	assert.Empty(t, s.Split("", 100, 10))
}

func TestSplitter_RecursesIntoFinerSeparatorForOversizedAtom(t *testing.T) {
	s := New(Config{
		Separators: []string{"\n\n", " ", ""},
		Estimator:  tokenest.RuneEstimator,
	})

	text := "short\n\nthisisoneveryverylongwordwithnospaces"
	got := s.Split(text, 10, 2)
	for _, c := range got {
		assert.LessOrEqual(t, len([]rune(c)), 10)
	}
}

func TestSplitter_NeverSplitsMultiByteRuneAcrossBoundary(t *testing.T) {
	s := New(Config{Separators: []string{""}, Estimator: tokenest.RuneEstimator})
	got := s.Split("héllo wörld", 3, 0)
	for _, c := range got {
		assert.True(t, len([]byte(c)) >= len([]rune(c)))
	}
	assert.Equal(t, "héllo wörld", strings.Join(got, ""))
}

func TestSeparatorsForExtension_MarkdownGetsHeadingLadder(t *testing.T) {
	seps := SeparatorsForExtension("md")
	assert.Contains(t, seps, "\n## ")
}

func TestSeparatorsForExtension_UnknownExtensionGetsDefault(t *testing.T) {
	assert.Equal(t, DefaultSeparators, SeparatorsForExtension("xyz"))
}

func TestSeparatorsForExtension_GoGetsFuncKeywordLadder(t *testing.T) {
	seps := SeparatorsForExtension("go")
	assert.Equal(t, "\nfunc ", seps[0])
}
