package chunk

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
)

// sentenceBoundarySeparator is the rung of the prose ladder that gets
// refined by the sentence detector, rather than a naive strings.Split.
const sentenceBoundarySeparator = ". "

// SentenceDetector refines the ". " rung of the separator ladder using a
// trained sentence-boundary model instead of a naive split, so it doesn't
// break on abbreviations like "Dr. Smith".
type SentenceDetector struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceDetector builds a SentenceDetector from Punkt-style training
// data (see github.com/neurosnap/sentences for the format). Callers without
// training data on hand should leave the detector nil; the splitter falls
// back to a naive ". " split in that case.
func NewSentenceDetector(trainingData []byte) (*SentenceDetector, error) {
	storage, err := sentences.LoadTraining(trainingData)
	if err != nil {
		return nil, fmt.Errorf("load sentence training data: %w", err)
	}
	return &SentenceDetector{tokenizer: sentences.NewSentenceTokenizer(storage)}, nil
}

// split returns the detected sentences in text, each including its
// trailing punctuation. Returns nil if detection is not possible (no
// detector configured).
func (d *SentenceDetector) split(text string) []string {
	if d == nil || d.tokenizer == nil {
		return nil
	}
	detected := d.tokenizer.Tokenize(text)
	out := make([]string, 0, len(detected))
	for _, s := range detected {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
