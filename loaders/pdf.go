package loaders

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aman-cerp/ragterm/internal/rag/store"
	"github.com/ledongthuc/pdf"
)

// PDF extracts text from PDF files via github.com/ledongthuc/pdf, producing
// one Document per page with a "page" metadata entry.
type PDF struct{}

func (PDF) Load(path, _ string) ([]store.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	docs := make([]store.Document, 0, numPages)
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, newDocument(path, text, store.MetadataEntry{
			Key:   "page",
			Value: strconv.Itoa(pageNum),
		}))
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no text content found in %s", path)
	}
	return docs, nil
}

var _ Loader = PDF{}
