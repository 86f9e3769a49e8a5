//go:build linux

package encoder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyWellKnownDirs empties the well-known install tier for the duration of
// a test, so results depend only on the configured path and PATH.
func emptyWellKnownDirs(t *testing.T) {
	t.Helper()
	orig := wellKnownDirs
	wellKnownDirs = func() []string { return nil }
	t.Cleanup(func() { wellKnownDirs = orig })
}

func TestLocateConfiguredPathWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	assert.Equal(t, path, Locate(path))
}

func TestLocateIgnoresNonExecutable(t *testing.T) {
	emptyWellKnownDirs(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("not executable"), 0o644))
	t.Setenv("PATH", dir)

	assert.Equal(t, "", Locate(path))
}

func TestLocateAllTiersMiss(t *testing.T) {
	emptyWellKnownDirs(t)
	t.Setenv("PATH", t.TempDir())

	assert.Equal(t, "", Locate(""))
	assert.Equal(t, "", Locate(filepath.Join(t.TempDir(), "missing")))
}

func TestLocateFallsBackToPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	t.Setenv("PATH", dir)

	assert.Equal(t, path, Locate(""))
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()

	exe := filepath.Join(dir, "exe")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	assert.True(t, isExecutable(exe))

	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, []byte("data"), 0o644))
	assert.False(t, isExecutable(plain))

	assert.False(t, isExecutable(filepath.Join(dir, "missing")))
	assert.False(t, isExecutable(dir))
}
