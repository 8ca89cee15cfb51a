package loaders

import (
	"fmt"
	"os"

	"github.com/aman-cerp/ragterm/internal/rag/store"
)

// PlainText is a UTF-8 passthrough loader for .txt files and any
// unrecognized extension.
type PlainText struct{}

func (PlainText) Load(path, _ string) ([]store.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return []store.Document{newDocument(path, string(content))}, nil
}

// Markdown is also a UTF-8 passthrough: the difference between prose and
// Markdown is handled entirely by the recursive splitter's per-extension
// separator ladder, not by the loader.
type Markdown struct{}

func (Markdown) Load(path, _ string) ([]store.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return []store.Document{newDocument(path, string(content))}, nil
}

var (
	_ Loader = PlainText{}
	_ Loader = Markdown{}
)
