package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brokenConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a mapping"), 0644))
	return path
}

func TestVersionRunsWithBrokenConfig(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"-c", brokenConfig(t), "version"})

	assert.NoError(t, cmd.Execute())
}

func TestDemoRunsWithBrokenConfig(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"-c", brokenConfig(t), "demo", "-n", "3"})

	assert.NoError(t, cmd.Execute())
}

func TestBrokenConfigStillFailsAPICommands(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"-c", brokenConfig(t), "whoami"})

	assert.Error(t, cmd.Execute())
}
