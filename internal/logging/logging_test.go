package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogDir(t *testing.T) {
	dir := DefaultLogDir()
	assert.Contains(t, dir, ".ragterm")
	assert.Contains(t, dir, "logs")
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	assert.Equal(t, "ragterm.log", filepath.Base(path))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.WriteToStderr)
	assert.Equal(t, 10, cfg.MaxSizeMB)
	assert.Equal(t, 5, cfg.MaxFiles)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, "debug", cfg.Level)
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Level:         "info",
		FilePath:      filepath.Join(dir, "ragterm.log"),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer cleanup()

	logger.Info("hello")
	cleanup()

	data, err := os.ReadFile(cfg.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestLevelFromString(t *testing.T) {
	assert.Less(t, LevelFromString("debug"), LevelFromString("info"))
	assert.Less(t, LevelFromString("info"), LevelFromString("warn"))
	assert.Less(t, LevelFromString("warn"), LevelFromString("error"))
	assert.Equal(t, LevelFromString("unknown"), LevelFromString("info"))
}

func TestFindLogFile_NotFound(t *testing.T) {
	_, err := FindLogFile(filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
}

func TestFindLogFile_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.log")
	require.NoError(t, os.WriteFile(path, []byte("line\n"), 0644))

	found, err := FindLogFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestEnsureLogDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	require.NoError(t, EnsureLogDir())

	info, err := os.Stat(DefaultLogDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRotatingWriter_ImmediateSync(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	w, err := NewRotatingWriter(path, 10, 5)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("line one\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "line one")
}

func TestRotatingWriter_DisableImmediateSync(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	w, err := NewRotatingWriter(path, 10, 5)
	require.NoError(t, err)
	defer w.Close()

	w.SetImmediateSync(false)
	_, err = w.Write([]byte("line one\n"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
}

func TestRotatingWriter_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	w, err := NewRotatingWriter(path, 0, 3) // maxSizeMB=0 forces rotation on every write
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		_, err := w.Write([]byte("some log line that exceeds zero bytes\n"))
		require.NoError(t, err)
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	w, err := NewRotatingWriter(path, 0, 2)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 10; i++ {
		_, err := w.Write([]byte("line\n"))
		require.NoError(t, err)
	}

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(matches), 2)
}

func TestRotatingWriter_CloseSuccess(t *testing.T) {
	dir := t.TempDir()
	w, err := NewRotatingWriter(filepath.Join(dir, "test.log"), 10, 5)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}

func TestRotatingWriter_SyncSuccess(t *testing.T) {
	dir := t.TempDir()
	w, err := NewRotatingWriter(filepath.Join(dir, "test.log"), 10, 5)
	require.NoError(t, err)
	defer w.Close()
	assert.NoError(t, w.Sync())
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewRotatingWriter(filepath.Join(dir, "test.log"), 10, 5)
	require.NoError(t, err)
	defer w.Close()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			_, _ = w.Write([]byte("concurrent line\n"))
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestViewer_ParseLine_ValidJSON(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})
	entry := v.parseLine(`{"time":"2024-01-01T00:00:00Z","level":"INFO","msg":"hello"}`)
	assert.True(t, entry.IsValid)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "hello", entry.Msg)
}

func TestViewer_ParseLine_InvalidJSON(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})
	entry := v.parseLine("not json")
	assert.False(t, entry.IsValid)
	assert.Equal(t, "not json", entry.Raw)
}

func TestViewer_MatchesFilter_LevelFilter(t *testing.T) {
	v := NewViewer(ViewerConfig{Level: "warn"}, &bytes.Buffer{})

	assert.False(t, v.matchesFilter(LogEntry{IsValid: true, Level: "info"}))
	assert.True(t, v.matchesFilter(LogEntry{IsValid: true, Level: "error"}))
}

func TestViewer_MatchesFilter_PatternFilter(t *testing.T) {
	v := NewViewer(ViewerConfig{Pattern: regexp.MustCompile("needle")}, &bytes.Buffer{})

	assert.True(t, v.matchesFilter(LogEntry{Raw: "a needle in a haystack"}))
	assert.False(t, v.matchesFilter(LogEntry{Raw: "nothing here"}))
}

func TestViewer_FormatEntry_ValidEntry(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})
	out := v.FormatEntry(LogEntry{IsValid: true, Level: "info", Msg: "hello"})
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "hello")
}

func TestViewer_FormatEntry_InvalidEntry(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})
	out := v.FormatEntry(LogEntry{IsValid: false, Raw: "raw line"})
	assert.Equal(t, "raw line", out)
}

func TestViewer_FormatLevel_AllLevels(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		out := v.formatLevel(level)
		assert.NotEmpty(t, out)
	}
}

func TestViewer_Tail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	content := `{"time":"2024-01-01T00:00:00Z","level":"INFO","msg":"one"}
{"time":"2024-01-01T00:00:01Z","level":"INFO","msg":"two"}
{"time":"2024-01-01T00:00:02Z","level":"INFO","msg":"three"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})
	entries, err := v.Tail(path, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Msg)
	assert.Equal(t, "three", entries[1].Msg)
}

func TestViewer_Tail_WithLevelFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	content := `{"time":"2024-01-01T00:00:00Z","level":"DEBUG","msg":"debug line"}
{"time":"2024-01-01T00:00:01Z","level":"ERROR","msg":"error line"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := NewViewer(ViewerConfig{Level: "error"}, &bytes.Buffer{})
	entries, err := v.Tail(path, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "error line", entries[0].Msg)
}

func TestViewer_Tail_NonexistentFile(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})
	_, err := v.Tail(filepath.Join(t.TempDir(), "missing.log"), 10)
	assert.Error(t, err)
}

func TestViewer_Print(t *testing.T) {
	var buf bytes.Buffer
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)
	v.Print([]LogEntry{{IsValid: true, Level: "info", Msg: "printed"}})
	assert.Contains(t, buf.String(), "printed")
}
