package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staticProviderYAML = "embeddings:\n  provider: static\n"

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestInitCmd_CreatesStoreAndIngestsPaths(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ragterm.yaml"), []byte(staticProviderYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("hello ragterm world"), 0644))

	storePath := filepath.Join(dir, "store.bin")
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--store", storePath, "init", "mystore", filepath.Join(dir, "doc.txt")})

	err := cmd.Execute()
	require.NoError(t, err)

	_, statErr := os.Stat(storePath)
	assert.NoError(t, statErr)
	assert.Contains(t, buf.String(), "mystore")
}

func TestInitCmd_RequiresAtLeastOneArg(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"init"})

	err := cmd.Execute()
	assert.Error(t, err)
}
