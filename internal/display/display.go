// Package display probes the primary display geometry needed by the X11
// capture backend. The probe runs once at startup; there is no hot-plug
// handling.
package display

import (
	"os"
	"os/exec"
	"strings"

	"github.com/screenrec/screenrec/internal/logging"
)

const fallbackSize = "1920x1080"

// Name returns the X display to capture, from the environment or ":0.0".
func Name() string {
	if d := os.Getenv("DISPLAY"); d != "" {
		return d
	}
	return ":0.0"
}

// PrimarySize returns the primary display's pixel dimensions as "WxH",
// probing xrandr then xdpyinfo and falling back to 1920x1080.
func PrimarySize(log *logging.Logger) string {
	if out, err := exec.Command("xrandr", "--current").Output(); err == nil {
		if size := parseXrandr(string(out)); size != "" {
			log.Trace("display size from xrandr: %s", size)
			return size
		}
	}

	if out, err := exec.Command("xdpyinfo").Output(); err == nil {
		if size := parseXdpyinfo(string(out)); size != "" {
			log.Trace("display size from xdpyinfo: %s", size)
			return size
		}
	}

	log.Warning.Printf("Could not detect display size, assuming %s", fallbackSize)
	return fallbackSize
}

// parseXrandr extracts the active mode ("WxH") from `xrandr --current`
// output; the line carrying '*' marks the mode in use.
func parseXrandr(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "*") {
			continue
		}
		for _, field := range strings.Fields(line) {
			if isResolution(field) {
				return field
			}
		}
	}
	return ""
}

// parseXdpyinfo extracts the screen dimensions from xdpyinfo output
// ("  dimensions:    1920x1080 pixels (...)").
func parseXdpyinfo(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "dimensions:") {
			continue
		}
		rest := strings.TrimSpace(strings.SplitN(line, "dimensions:", 2)[1])
		fields := strings.Fields(rest)
		if len(fields) > 0 && isResolution(fields[0]) {
			return fields[0]
		}
	}
	return ""
}

func isResolution(s string) bool {
	w, h, ok := strings.Cut(s, "x")
	if !ok || w == "" || h == "" {
		return false
	}
	return allDigits(w) && allDigits(h)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
