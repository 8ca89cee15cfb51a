package chunk

// DefaultSeparators is the prose separator ladder: split on blank lines
// first, then single newlines, then sentence boundaries, clauses, words,
// and finally give up and split by codepoint.
var DefaultSeparators = []string{"\n\n", "\n", ". ", ", ", " ", ""}

// markdownSeparators prefers heading boundaries before falling back to the
// prose ladder.
var markdownSeparators = []string{"\n## ", "\n### ", "\n\n", "\n", " ", ""}

// codeKeywordLadders maps a file extension to the language keyword whose
// occurrences make good split boundaries (top-level declarations), before
// falling back to blank lines and newlines.
var codeKeywordLadders = map[string]string{
	"rs":   "fn ",
	"go":   "func ",
	"py":   "def ",
	"js":   "function ",
	"ts":   "function ",
	"c":    "\n",
	"cpp":  "\n",
	"java": "class ",
}

// SeparatorsForExtension returns the separator ladder used for files with
// the given extension (without the leading dot, lowercase). Unrecognized
// extensions get DefaultSeparators.
func SeparatorsForExtension(ext string) []string {
	switch ext {
	case "md", "markdown":
		return markdownSeparators
	}
	if keyword, ok := codeKeywordLadders[ext]; ok {
		return []string{"\n" + keyword, "\n\n", "\n", " ", ""}
	}
	return DefaultSeparators
}
