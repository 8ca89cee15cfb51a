package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCmd_PrintsYAMLSummaryOfStore(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ragterm.yaml"), []byte(staticProviderYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("some indexed content"), 0644))

	storePath := filepath.Join(dir, "mystore.bin")

	initCmd := NewRootCmd()
	initCmd.SetOut(new(bytes.Buffer))
	initCmd.SetArgs([]string{"--store", storePath, "init", "mystore", filepath.Join(dir, "doc.txt")})
	require.NoError(t, initCmd.Execute())

	exportCmd := NewRootCmd()
	buf := new(bytes.Buffer)
	exportCmd.SetOut(buf)
	exportCmd.SetArgs([]string{"--store", storePath, "export"})
	err := exportCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "mystore")
}

func TestExportCmd_RejectsPositionalArgs(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"export", "unexpected"})

	err := cmd.Execute()
	assert.Error(t, err)
}
