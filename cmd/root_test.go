package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	root.SetArgs(args)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return stdout.String(), err
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"bundle", "why", "watch"})
}

func TestRootCommand_Version(t *testing.T) {
	output, err := executeRoot(t, "--version")
	require.NoError(t, err)

	assert.Equal(t, "bundlegraph version dev\nBuild date: unknown\nCommit: unknown\n", output)
}

func TestRootCommand_ConfigFileSetsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundlegraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: table\n"), 0o644))

	output, err := executeRoot(t, "--config", path, "bundle", "-m", "bundle/testdata/page.yaml")
	require.NoError(t, err)

	assert.Contains(t, output, "BUNDLE")
	assert.Contains(t, output, "index.html")
	assert.NotContains(t, output, "digraph")
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, err := executeRoot(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "bundle", "-m", "bundle/testdata/page.yaml")

	assert.ErrorContains(t, err, "error reading config file")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, err := executeRoot(t, "--log-level", "loud", "bundle", "-m", "bundle/testdata/page.yaml")

	assert.ErrorContains(t, err, "unknown log level: loud")
}
