package loaders

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aman-cerp/ragterm/internal/rag/store"
	readability "github.com/go-shiori/go-readability"
)

// HTML strips boilerplate (navigation, ads, chrome) from an HTML document
// via github.com/go-shiori/go-readability, returning a single Document of
// the extracted article text.
type HTML struct{}

func (HTML) Load(path, _ string) ([]store.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	article, err := readability.FromReader(f, &url.URL{})
	if err != nil {
		return nil, fmt.Errorf("extract readable content from %s: %w", path, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("no readable content found in %s", path)
	}

	extra := []store.MetadataEntry{}
	if article.Title != "" {
		extra = append(extra, store.MetadataEntry{Key: "title", Value: article.Title})
	}
	return []store.Document{newDocument(path, text, extra...)}, nil
}

var _ Loader = HTML{}
