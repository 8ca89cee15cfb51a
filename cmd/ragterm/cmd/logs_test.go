package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogsCmd_TailsLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ragterm.log")
	content := `{"time":"2026-07-31T10:00:00Z","level":"INFO","msg":"hello"}
{"time":"2026-07-31T10:00:01Z","level":"ERROR","msg":"boom"}
`
	require.NoError(t, os.WriteFile(logPath, []byte(content), 0644))

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"logs", "--file", logPath, "--lines", "10"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "boom")
}

func TestLogsCmd_FiltersByLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ragterm.log")
	content := `{"time":"2026-07-31T10:00:00Z","level":"DEBUG","msg":"verbose"}
{"time":"2026-07-31T10:00:01Z","level":"ERROR","msg":"boom"}
`
	require.NoError(t, os.WriteFile(logPath, []byte(content), 0644))

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"logs", "--file", logPath, "--level", "error"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.NotContains(t, out, "verbose")
	assert.Contains(t, out, "boom")
}

func TestLogsCmd_RejectsInvalidGrepPattern(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ragterm.log")
	require.NoError(t, os.WriteFile(logPath, []byte(""), 0644))

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"logs", "--file", logPath, "--grep", "("})

	assert.Error(t, cmd.Execute())
}
