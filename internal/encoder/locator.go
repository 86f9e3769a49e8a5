// Package encoder locates the external ffmpeg executable.
package encoder

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/screenrec/screenrec/internal/config"
)

// wellKnownDirs lists platform-conventional install locations checked after
// the configured path and PATH search both miss. A variable so tests can
// substitute the tier.
var wellKnownDirs = func() []string {
	if runtime.GOOS == "windows" {
		return []string{
			`C:\ffmpeg\bin`,
			`C:\Program Files\ffmpeg\bin`,
			`C:\ProgramData\chocolatey\bin`,
		}
	}
	return []string{
		"/usr/bin",
		"/usr/local/bin",
		"/opt/ffmpeg/bin",
	}
}

// Locate finds the encoder executable. Resolution order, first hit wins:
// the configured path, each directory on PATH, then the well-known install
// directories. Returns "" when nothing is found; locating is a pure probe
// and never fails.
func Locate(configuredPath string) string {
	if configuredPath != "" && isExecutable(configuredPath) {
		return configuredPath
	}

	if path, err := exec.LookPath(config.EncoderName()); err == nil {
		return path
	}

	for _, dir := range wellKnownDirs() {
		candidate := filepath.Join(dir, config.EncoderName())
		if isExecutable(candidate) {
			return candidate
		}
	}

	return ""
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		// Windows has no executable bit; an existing regular file is enough.
		return info.Mode().IsRegular()
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
