// Package orchestrator exposes the four entry points a caller drives a RAG
// store through: init, load, add_paths, search. It owns the store's single
// mutation path (add_paths) and wires the chunker, embedding pipeline, and
// hybrid retriever together over internal/rag/store's persistent model.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/aman-cerp/ragterm/internal/async"
	ragerrors "github.com/aman-cerp/ragterm/internal/errors"
	"github.com/aman-cerp/ragterm/internal/rag/chunk"
	"github.com/aman-cerp/ragterm/internal/rag/embed"
	"github.com/aman-cerp/ragterm/internal/rag/search"
	"github.com/aman-cerp/ragterm/internal/rag/store"
	"github.com/aman-cerp/ragterm/loaders"
)

// TempName is the sentinel store name that must never be snapshotted.
const TempName = "temp"

// Settings configures a new or loaded Store.
type Settings struct {
	ChunkSize    int
	ChunkOverlap int
	Embed        embed.Settings
	Weights      search.Weights

	// VectorBackend selects the derived vector index implementation. Empty
	// selects store.VectorBackendHNSW, the default for every existing store.
	VectorBackend store.VectorBackend
}

// Store is a single RAG index: its data, derived search indexes, and the
// embedder used to ingest new content. Mutation happens only through
// AddPaths, which holds mu for the duration of the call and, for a named
// (non-temp) store, a cross-process flock alongside the snapshot path so
// two processes never add_paths the same store concurrently.
type Store struct {
	mu sync.Mutex

	name     string
	savePath string

	chunkSize    int
	chunkOverlap int

	embedder      embed.Embedder
	data          *store.RagData
	vector        store.VectorIndex
	bm25          store.BM25Index
	retriever     *search.Retriever
	weights       search.Weights
	vectorBackend store.VectorBackend

	fileLock *flock.Flock
}

// New creates an empty store named name, ingests docPaths via AddPaths, and
// — unless name is TempName — writes the snapshot to savePath. Mirrors
// spec.md §4.9's init: resolve embedding model and chunk parameters, create
// an empty store, add_paths, then save.
func New(ctx context.Context, name, savePath string, docPaths []string, cfg Settings, signal *async.AbortSignal, progress *async.ProgressSink) (*Store, error) {
	embedder, err := embed.New(ctx, cfg.Embed)
	if err != nil {
		return nil, err
	}

	chunkSize, chunkOverlap := cfg.ChunkSize, cfg.ChunkOverlap
	if chunkSize <= 0 || chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, ragerrors.New(ragerrors.ErrCodeConfigInvalidChunk,
			fmt.Sprintf("invalid chunk parameters: size=%d overlap=%d", chunkSize, chunkOverlap), nil)
	}

	s := &Store{
		name:         name,
		savePath:     savePath,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		embedder:     embedder,
		data: &store.RagData{
			ModelID:      embedder.ModelName(),
			ChunkSize:    uint(chunkSize),
			ChunkOverlap: uint(chunkOverlap),
		},
		weights:       weightsOrDefault(cfg.Weights),
		vectorBackend: cfg.VectorBackend,
	}
	if err := s.rebuildDerivedIndexes(); err != nil {
		return nil, err
	}

	if err := s.AddPaths(ctx, docPaths, signal, progress); err != nil {
		return nil, err
	}

	if !s.IsTemp() {
		if err := s.Save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load deserializes the snapshot at path, builds the embedding client from
// cfg.Embed, and rebuilds the derived HNSW and BM25 indexes. Mirrors
// spec.md §4.9's load. The snapshot's model_id is kept as the store's model
// but is not used to pick the embedding client.
func Load(ctx context.Context, name, path string, cfg Settings) (*Store, error) {
	data, err := store.LoadFile(path)
	if err != nil {
		return nil, ragerrors.New(ragerrors.ErrCodeSnapshotRead, "load snapshot", err)
	}

	embedder, err := embed.New(ctx, cfg.Embed)
	if err != nil {
		return nil, err
	}

	s := &Store{
		name:          name,
		savePath:      path,
		chunkSize:     int(data.ChunkSize),
		chunkOverlap:  int(data.ChunkOverlap),
		embedder:      embedder,
		data:          data,
		weights:       weightsOrDefault(cfg.Weights),
		vectorBackend: cfg.VectorBackend,
	}
	if err := s.rebuildDerivedIndexes(); err != nil {
		return nil, err
	}
	return s, nil
}

// weightsOrDefault substitutes spec.md §4.8's default RRF weights (1.0/1.0)
// when the caller leaves Settings.Weights at its zero value.
func weightsOrDefault(w search.Weights) search.Weights {
	if w.Vector == 0 && w.Text == 0 {
		return search.DefaultWeights()
	}
	return w
}

// Name returns the store's logical name.
func (s *Store) Name() string { return s.name }

// IsTemp reports whether this store is the ephemeral sentinel that must
// never be snapshotted.
func (s *Store) IsTemp() bool { return s.name == TempName }

// Save writes the current snapshot to savePath. A no-op for a temp store.
func (s *Store) Save() error {
	if s.IsTemp() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.savePath), 0755); err != nil {
		return ragerrors.New(ragerrors.ErrCodeSnapshotWrite, "create snapshot directory", err)
	}
	if err := store.SaveFile(s.savePath, s.data); err != nil {
		return ragerrors.New(ragerrors.ErrCodeSnapshotWrite, "write snapshot", err)
	}
	return nil
}

// exportSummary is the YAML shape spec.md §6 names for Export.
type exportSummary struct {
	Path         string   `yaml:"path"`
	Model        string   `yaml:"model"`
	ChunkSize    uint     `yaml:"chunk_size"`
	ChunkOverlap uint     `yaml:"chunk_overlap"`
	Files        []string `yaml:"files"`
}

// Export produces the YAML summary {path, model, chunk_size, chunk_overlap,
// files} spec.md §6 names.
func (s *Store) Export() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := make([]string, len(s.data.Files))
	for i, f := range s.data.Files {
		files[i] = f.Path
	}

	summary := exportSummary{
		Path:         s.savePath,
		Model:        s.data.ModelID,
		ChunkSize:    s.data.ChunkSize,
		ChunkOverlap: s.data.ChunkOverlap,
		Files:        files,
	}
	out, err := yaml.Marshal(summary)
	if err != nil {
		return "", ragerrors.New(ragerrors.ErrCodeInternal, "marshal export summary", err)
	}
	return string(out), nil
}

// Search runs the Hybrid Retriever over the current store, racing the work
// against signal if non-nil.
func (s *Store) Search(ctx context.Context, text string, topK int, minScoreVector, minScoreText *float64, signal *async.AbortSignal) (string, error) {
	s.mu.Lock()
	retriever := s.retriever
	files := s.data.Files
	s.mu.Unlock()

	var result string
	work := func() error {
		var err error
		result, err = retriever.Search(ctx, files, text, topK, minScoreVector, minScoreText)
		return err
	}
	if signal == nil {
		if err := work(); err != nil {
			return "", err
		}
		return result, nil
	}
	if err := async.Race(signal, work); err != nil {
		return "", err
	}
	return result, nil
}

// AddPaths is the store's only mutation path: listing, loading, splitting,
// embedding, and appending are computed against a local copy and only
// committed once every step succeeds, so a failure or abort midway leaves
// the store in its pre-call state (spec.md §5's atomic mutation unit).
func (s *Store) AddPaths(ctx context.Context, paths []string, signal *async.AbortSignal, progress *async.ProgressSink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.IsTemp() && s.savePath != "" {
		s.fileLock = flock.New(s.savePath + ".lock")
		locked, err := s.fileLock.TryLock()
		if err != nil {
			return ragerrors.New(ragerrors.ErrCodeLockHeld, "acquire store lock", err)
		}
		if !locked {
			return ragerrors.New(ragerrors.ErrCodeLockHeld, "store is locked by another process", nil)
		}
		defer func() { _ = s.fileLock.Unlock() }()
	}

	send := func(message string) {
		if progress != nil {
			progress.Send(async.Progress{Message: message})
		}
	}
	sendf := func(format string, cur, total int) {
		if progress != nil {
			progress.Sendf(format, cur, total)
		}
	}

	send("Listing paths")
	files, err := s.listNewFiles(paths)
	if err != nil {
		return ragerrors.New(ragerrors.ErrCodePathNotFound, "list paths", err)
	}
	if len(files) == 0 {
		return nil
	}

	newRagFiles := make([]store.RagFile, 0, len(files))
	var allTexts []string
	var chunkCounts []int

	for i, path := range files {
		if signal != nil && signal.Aborted() {
			return ragerrors.Abort()
		}

		ext := extensionOf(path)
		docs, err := loaders.For(ext).Load(path, ext)
		if err != nil {
			return ragerrors.LoadErr(path, err)
		}

		splitter := chunk.New(chunk.Config{Separators: chunk.SeparatorsForExtension(ext)})
		var chunked []store.Document
		for _, doc := range docs {
			pieces := splitter.Split(doc.PageContent, s.chunkSize, s.chunkOverlap)
			for _, p := range pieces {
				chunked = append(chunked, store.Document{PageContent: p, Metadata: doc.Metadata})
			}
		}

		newRagFiles = append(newRagFiles, store.RagFile{Path: path, Documents: chunked})
		for _, d := range chunked {
			allTexts = append(allTexts, d.PageContent)
		}
		chunkCounts = append(chunkCounts, len(chunked))

		sendf("Loading files [%d/%d]", i+1, len(files))
	}

	var vectors [][]float32
	if len(allTexts) > 0 {
		pipeline := embed.NewPipeline(s.embedder)
		vectors, err = pipeline.Run(ctx, signal, embed.EmbeddingsData{Texts: allTexts, Query: false}, progress)
		if err != nil {
			return err
		}
	}

	send("Building vector store")

	baseFileIndex := uint64(len(s.data.Files))
	newVectorEntries := make([]store.VectorEntry, 0, len(allTexts))
	textIdx := 0
	for fi, count := range chunkCounts {
		for ci := 0; ci < count; ci++ {
			id := store.CombineID(baseFileIndex+uint64(fi), uint64(ci))
			newVectorEntries = append(newVectorEntries, store.VectorEntry{ID: id, Vector: vectors[textIdx]})
			textIdx++
		}
	}

	newData := &store.RagData{
		ModelID:      s.data.ModelID,
		ChunkSize:    s.data.ChunkSize,
		ChunkOverlap: s.data.ChunkOverlap,
		Files:        append(append([]store.RagFile{}, s.data.Files...), newRagFiles...),
		Vectors:      append(append([]store.VectorEntry{}, s.data.Vectors...), newVectorEntries...),
	}

	s.data = newData
	return s.rebuildDerivedIndexes()
}

// listNewFiles resolves each input path (literal file, directory, or
// `base/**/*.ext1,ext2` glob) to its enumerated files, skipping any file
// already present in the store (idempotent ingest per spec.md §8).
func (s *Store) listNewFiles(paths []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}

		var matched []string
		if g, ok := parseGlob(abs); ok {
			matched, err = expandGlob(g)
		} else if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
			matched, err = expandGlob(globSuffix{base: abs})
		} else {
			matched = []string{abs}
		}
		if err != nil {
			return nil, err
		}

		// Sort within this path's own walk only: spec.md §5 orders files by
		// input path argument order, then lexicographically within each
		// path's directory walk, not lexicographically across all paths.
		sort.Strings(matched)

		for _, m := range matched {
			if s.data.HasPath(m) || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}

	return out, nil
}

// rebuildDerivedIndexes rebuilds the vector and BM25 indexes from s.data, the
// only two derived (non-persistent) structures per spec.md §3. The vector
// backend is chosen at construction time by s.vectorBackend; neither choice
// is recorded in the snapshot, since both are always rebuilt from
// RagData.Vectors.
func (s *Store) rebuildDerivedIndexes() error {
	vectorIndex, err := s.newVectorIndex()
	if err != nil {
		return err
	}
	ids := make([]store.VectorID, len(s.data.Vectors))
	vecs := make([][]float32, len(s.data.Vectors))
	for i, v := range s.data.Vectors {
		ids[i] = v.ID
		vecs[i] = v.Vector
	}
	if err := vectorIndex.Add(ids, vecs); err != nil {
		return ragerrors.New(ragerrors.ErrCodeInternal, "build vector index", err)
	}

	bm25 := store.NewOkapiBM25(store.DefaultBM25Config())
	var docs []store.Document
	var docIDs []store.VectorID
	for fi, f := range s.data.Files {
		for ci, d := range f.Documents {
			docs = append(docs, d)
			docIDs = append(docIDs, store.CombineID(uint64(fi), uint64(ci)))
		}
	}
	bm25.Index(docs, docIDs)

	s.vector = vectorIndex
	s.bm25 = bm25
	s.retriever = search.NewRetriever(vectorIndex, bm25, s.embedder, s.chunkSize, s.chunkOverlap, s.weights)
	return nil
}

// newVectorIndex constructs the VectorIndex named by s.vectorBackend,
// defaulting to HNSW when unset.
func (s *Store) newVectorIndex() (store.VectorIndex, error) {
	switch s.vectorBackend {
	case store.VectorBackendChromem:
		idx, err := store.NewChromemIndex(s.name)
		if err != nil {
			return nil, ragerrors.New(ragerrors.ErrCodeInternal, "create chromem index", err)
		}
		return idx, nil
	case store.VectorBackendHNSW, "":
		return store.NewHNSWIndex(store.DefaultHNSWConfig()), nil
	default:
		return nil, ragerrors.New(ragerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown vector backend %q", s.vectorBackend), nil)
	}
}

func extensionOf(path string) string {
	ext := filepath.Ext(path)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	return ext
}
