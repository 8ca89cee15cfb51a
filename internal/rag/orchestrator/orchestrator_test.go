package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/ragterm/internal/async"
	ragerrors "github.com/aman-cerp/ragterm/internal/errors"
	"github.com/aman-cerp/ragterm/internal/rag/embed"
	"github.com/aman-cerp/ragterm/internal/rag/store"
)

func staticSettings() Settings {
	return Settings{
		ChunkSize:    100,
		ChunkOverlap: 20,
		Embed:        embed.Settings{Provider: embed.ProviderStatic},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_IndexesDocPathsAndIsSearchable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "the quick brown fox jumps over the lazy dog")
	writeFile(t, dir, "b.txt", "a completely unrelated sentence about gardening")

	savePath := filepath.Join(dir, "store.bin")
	s, err := New(context.Background(), "myindex", savePath,
		[]string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")},
		staticSettings(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "myindex", s.Name())
	assert.False(t, s.IsTemp())
	_, err = os.Stat(savePath)
	assert.NoError(t, err, "non-temp store should be snapshotted")

	text, err := s.Search(context.Background(), "quick fox", 3, nil, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "quick brown fox")
}

func TestNew_TempStoreIsNeverSnapshotted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello world")

	savePath := filepath.Join(dir, "store.bin")
	s, err := New(context.Background(), TempName, savePath,
		[]string{filepath.Join(dir, "a.txt")}, staticSettings(), nil, nil)
	require.NoError(t, err)
	assert.True(t, s.IsTemp())

	_, statErr := os.Stat(savePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAddPaths_SkipsAlreadyIndexedPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one two three four five")

	s, err := New(context.Background(), TempName, "", []string{path}, staticSettings(), nil, nil)
	require.NoError(t, err)

	before := len(s.data.Files)
	require.NoError(t, s.AddPaths(context.Background(), []string{path}, nil, nil))
	assert.Equal(t, before, len(s.data.Files), "re-adding a known path is a no-op")
}

func TestAddPaths_EmitsProgressMessages(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one two three four five six seven")

	s, err := New(context.Background(), TempName, "", nil, staticSettings(), nil, nil)
	require.NoError(t, err)

	sink := async.NewProgressSink()
	require.NoError(t, s.AddPaths(context.Background(), []string{path}, nil, sink))
	sink.Close()

	var messages []string
	for p := range sink.Messages() {
		messages = append(messages, p.Message)
	}
	assert.Contains(t, messages, "Listing paths")
	assert.Contains(t, messages, "Building vector store")
	found := false
	for _, m := range messages {
		if m == "Loading files [1/1]" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSaveAndLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "round trip content for the store")
	savePath := filepath.Join(dir, "store.bin")

	s1, err := New(context.Background(), "roundtrip", savePath, []string{path}, staticSettings(), nil, nil)
	require.NoError(t, err)

	s2, err := Load(context.Background(), "roundtrip", savePath, staticSettings())
	require.NoError(t, err)

	assert.Equal(t, s1.data.Files[0].Path, s2.data.Files[0].Path)
	assert.Equal(t, len(s1.data.Vectors), len(s2.data.Vectors))

	text, err := s2.Search(context.Background(), "round trip", 3, nil, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "round trip")
}

func TestExport_ProducesYAMLSummary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "export me please")

	s, err := New(context.Background(), TempName, "", []string{path}, staticSettings(), nil, nil)
	require.NoError(t, err)

	yaml, err := s.Export()
	require.NoError(t, err)
	assert.Contains(t, yaml, "model:")
	assert.Contains(t, yaml, "chunk_size:")
	assert.Contains(t, yaml, "a.txt")
}

func TestAddPaths_AbortedSignalFailsFast(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "some content")

	s, err := New(context.Background(), TempName, "", nil, staticSettings(), nil, nil)
	require.NoError(t, err)

	signal := async.NewAbortSignal(context.Background())
	signal.Abort()

	err = s.AddPaths(context.Background(), []string{path}, signal, nil)
	require.Error(t, err)
	assert.True(t, ragerrors.IsAborted(err))
}

func TestNew_InvalidChunkParamsRejected(t *testing.T) {
	cfg := staticSettings()
	cfg.ChunkOverlap = cfg.ChunkSize

	_, err := New(context.Background(), TempName, "", nil, cfg, nil, nil)
	require.Error(t, err)
}

func TestNew_ChromemBackendIsSearchable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "the quick brown fox jumps over the lazy dog")

	cfg := staticSettings()
	cfg.VectorBackend = store.VectorBackendChromem

	s, err := New(context.Background(), "chromemstore", "",
		[]string{filepath.Join(dir, "a.txt")}, cfg, nil, nil)
	require.NoError(t, err)

	text, err := s.Search(context.Background(), "quick fox", 3, nil, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "quick brown fox")
}

func TestNew_UnknownVectorBackendRejected(t *testing.T) {
	cfg := staticSettings()
	cfg.VectorBackend = "not-a-real-backend"

	_, err := New(context.Background(), TempName, "", nil, cfg, nil, nil)
	require.Error(t, err)
}

func TestListNewFiles_OrdersWithinEachInputPathNotAcrossThem(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirA, "z.txt", "a")
	writeFile(t, dirA, "m.txt", "a")
	writeFile(t, dirB, "b.txt", "a")
	writeFile(t, dirB, "a.txt", "a")

	s, err := New(context.Background(), TempName, "", nil, staticSettings(), nil, nil)
	require.NoError(t, err)

	files, err := s.listNewFiles([]string{dirB, dirA})
	require.NoError(t, err)
	require.Len(t, files, 4)

	// dirB's files come first (input order) and are lexicographic within
	// dirB; dirA's files follow, lexicographic within dirA. A global sort
	// would instead interleave dirA's and dirB's files by basename.
	assert.Equal(t, filepath.Join(dirB, "a.txt"), files[0])
	assert.Equal(t, filepath.Join(dirB, "b.txt"), files[1])
	assert.Equal(t, filepath.Join(dirA, "m.txt"), files[2])
	assert.Equal(t, filepath.Join(dirA, "z.txt"), files[3])
}
