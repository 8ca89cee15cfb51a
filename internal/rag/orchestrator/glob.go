package orchestrator

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// globSuffix is a parsed `**/*.ext1,ext2` suffix: base is the directory to
// walk recursively, exts is the set of lowercase extensions (without the
// leading dot) to keep. An empty exts means all files match.
type globSuffix struct {
	base string
	exts map[string]bool
}

// parseGlob splits a path glob of the shape `base/**/*.ext1,ext2` into its
// base directory and extension set. A path with no `/**` in it is not a
// glob at all — ok is false and the caller should treat path as a literal
// file or directory.
func parseGlob(path string) (g globSuffix, ok bool) {
	idx := strings.Index(path, "/**")
	if idx < 0 {
		return globSuffix{}, false
	}

	base := path[:idx]
	rest := path[idx+len("/**"):]
	rest = strings.TrimPrefix(rest, "/")

	exts := map[string]bool{}
	if star := strings.LastIndex(rest, "*."); star >= 0 {
		extList := rest[star+len("*."):]
		for _, e := range strings.Split(extList, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				exts[e] = true
			}
		}
	}

	if base == "" {
		base = "."
	}
	return globSuffix{base: base, exts: exts}, true
}

// expandGlob walks g.base recursively and returns every regular file whose
// extension is in g.exts (or every file, if g.exts is empty), in
// lexicographic order within the walk — filepath.WalkDir's own traversal
// order. filepath.Match has no "**" support, so recursion is done by
// WalkDir and the extension check is a per-file string comparison rather
// than a per-segment filepath.Match call.
func expandGlob(g globSuffix) ([]string, error) {
	var out []string
	err := filepath.WalkDir(g.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if len(g.exts) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
			if !g.exts[ext] {
				return nil
			}
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
