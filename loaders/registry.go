package loaders

import "strings"

// registry maps a lowercase file extension (without the leading dot) to the
// Loader that handles it. Extensions absent from this table fall back to
// PlainText.
var registry = map[string]Loader{
	"txt":      PlainText{},
	"md":       Markdown{},
	"markdown": Markdown{},
	"pdf":      PDF{},
	"html":     HTML{},
	"htm":      HTML{},
	"docx":     DOCX{},
	"xlsx":     XLSX{},
}

// For finds the Loader registered for ext, falling back to PlainText for
// unrecognized extensions. ext is matched case-insensitively and may be
// given with or without a leading dot.
func For(ext string) Loader {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if l, ok := registry[ext]; ok {
		return l
	}
	return PlainText{}
}

// Default returns the fallback loader used for extensions with no
// dedicated entry in the registry.
func Default() Loader {
	return PlainText{}
}
