// Package device normalizes OS audio device queries into a single tagged
// structure. All platform-specific shapes are flattened at this boundary.
package device

import "strings"

// Kind tags what a resolved device is used for.
type Kind int

const (
	Mic Kind = iota
	Loopback
)

func (k Kind) String() string {
	if k == Loopback {
		return "loopback"
	}
	return "mic"
}

// Device identifies one audio capture source. ID is the token the encoder's
// input driver expects (a dshow device name on Windows, a pulse source name
// on Linux); Name is the human-readable label shown in the UI.
type Device struct {
	ID   string
	Name string
	Kind Kind
}

// loopbackKeywords is the fixed keyword set of the loopback detection
// heuristic. Matching is case-insensitive substring search over candidate
// device names. Best-effort: drivers and locales name these devices
// inconsistently, and no OS exposes a reliable flag.
var loopbackKeywords = []string{
	"stereo mix",
	"what u hear",
	"wave out",
	"mix",
	"loopback",
	"monitor",
}

// matchLoopback returns the index of the first candidate name matching the
// keyword set, or -1.
func matchLoopback(names []string) int {
	for i, name := range names {
		lower := strings.ToLower(name)
		for _, keyword := range loopbackKeywords {
			if strings.Contains(lower, keyword) {
				return i
			}
		}
	}
	return -1
}
