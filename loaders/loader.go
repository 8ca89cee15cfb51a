// Package loaders provides reference implementations of the Loader
// interface the core indexing engine consumes. The core never decodes file
// formats itself — it only calls Load(path, extension) and expects back
// UTF-8 page content. Binary and structured formats are each loader's own
// concern.
package loaders

import (
	"fmt"

	"github.com/aman-cerp/ragterm/internal/rag/store"
)

// Loader maps a file path and its lowercased, dot-free extension to a
// sequence of Documents.
type Loader interface {
	Load(path, extension string) ([]store.Document, error)
}

// LoadError wraps a loader failure with the file path that caused it.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// newDocument builds a single Document with a source metadata entry, the
// shape every loader in this package produces.
func newDocument(path, content string, extra ...store.MetadataEntry) store.Document {
	meta := make([]store.MetadataEntry, 0, len(extra)+1)
	meta = append(meta, store.MetadataEntry{Key: "source", Value: path})
	meta = append(meta, extra...)
	return store.Document{PageContent: content, Metadata: meta}
}
