package loaders

import (
	"fmt"
	"strings"

	"github.com/aman-cerp/ragterm/internal/rag/store"
	"github.com/xuri/excelize/v2"
)

// XLSX reads spreadsheet files via github.com/xuri/excelize/v2, producing
// one Document per sheet with each row's cells joined by " | ".
type XLSX struct{}

func (XLSX) Load(path, _ string) ([]store.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	defer f.Close()

	var docs []store.Document
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s in %s: %w", sheetName, path, err)
		}
		var lines []string
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				cell = strings.TrimSpace(cell)
				if cell != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " | "))
			}
		}
		if len(lines) == 0 {
			continue
		}
		docs = append(docs, newDocument(path, strings.Join(lines, "\n"), store.MetadataEntry{
			Key:   "sheet",
			Value: sheetName,
		}))
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no content found in %s", path)
	}
	return docs, nil
}

var _ Loader = XLSX{}
