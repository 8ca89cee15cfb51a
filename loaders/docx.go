package loaders

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/aman-cerp/ragterm/internal/rag/store"
	"github.com/nguyenthenguyen/docx"
)

// DOCX extracts text from Word documents via
// github.com/nguyenthenguyen/docx. That library's GetContent returns the
// document's raw document.xml, so this loader strips XML tags and decodes
// entities itself.
type DOCX struct{}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func (DOCX) Load(path, _ string) ([]store.Document, error) {
	reader, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer reader.Close()

	raw := reader.Editable().GetContent()
	text := strings.TrimSpace(html.UnescapeString(xmlTagPattern.ReplaceAllString(raw, " ")))
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil, fmt.Errorf("no text content found in %s", path)
	}
	return []store.Document{newDocument(path, text)}, nil
}

var _ Loader = DOCX{}
