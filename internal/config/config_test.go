package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 30, cfg.Framerate)
	assert.Equal(t, "medium", cfg.Preset)
	assert.Equal(t, 18, cfg.CRF)
	assert.Equal(t, "yuv420p", cfg.PixelFormat)
	assert.Equal(t, "libx264", cfg.VideoCodec)
	assert.Equal(t, "aac", cfg.AudioCodec)
	assert.Equal(t, "192k", cfg.AudioBitrate)
	assert.True(t, cfg.RecordMic)
	assert.True(t, cfg.RecordLoopback)
	assert.Equal(t, 8091, cfg.Port)
	assert.NotEmpty(t, cfg.OutputDir)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Framerate = 60
	cfg.MicDevice = "USB Microphone"
	cfg.RecordLoopback = false
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestLoadMissingKeysKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"framerate": 24}`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Framerate)
	assert.Equal(t, "medium", cfg.Preset)
	assert.Equal(t, 18, cfg.CRF)
	assert.True(t, cfg.RecordMic)
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"framerate": 24, "future_option": true}`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Framerate)
}

func TestLoadResetsNonPositiveFramerate(t *testing.T) {
	for _, body := range []string{`{"framerate": 0}`, `{"framerate": -5}`} {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		cfg, err := LoadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, Default().Framerate, cfg.Framerate, body)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{framerate`), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "config.json")
	cfg := Default()
	require.NoError(t, cfg.SaveTo(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
