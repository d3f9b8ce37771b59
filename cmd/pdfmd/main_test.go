package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pdfmd dev\n", out)
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("PDFMD_WORKERS", "3")

	out, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "workers: 3\n")
	assert.Contains(t, out, "footer_zone: 0.9\n")
	assert.Contains(t, out, "log_level: info\n")
}

func TestConvertReportsFailedFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.pdf")

	out, stderr, err := execute(t, "convert", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
	assert.Contains(t, out, "Processing: missing.pdf\n")
	assert.Contains(t, stderr, "Conversion failed")
}

func TestConvertRequiresFile(t *testing.T) {
	_, _, err := execute(t, "convert")
	require.Error(t, err)
}
