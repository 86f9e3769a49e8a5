package recording

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/device"
)

// ErrUnsupportedPlatform is returned before any spawn attempt when no capture
// backend exists for the running OS.
var ErrUnsupportedPlatform = errors.New("no capture backend for this platform")

// CommandPlan is the full description of one encoder invocation: the ordered
// argument vector (executable path excluded), how many audio inputs it
// carries, and any advisories about sources that were requested but silently
// omitted. Building a plan is deterministic: the same inputs always produce
// the same token sequence.
type CommandPlan struct {
	Args        []string
	AudioInputs int
	Advisories  []string
}

// BuildCommand synthesizes the encoder arguments for one recording session,
// dispatching to the capture backend of the running platform.
func BuildCommand(cfg *config.Config, mic, loopback *device.Device, outputPath string) (*CommandPlan, error) {
	switch runtime.GOOS {
	case "linux":
		return buildX11Command(cfg, mic, loopback, outputPath), nil
	case "windows":
		return buildGDICommand(cfg, mic, loopback, outputPath), nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

// buildX11Command grabs the full primary display with x11grab and records
// audio through the pulse input driver.
func buildX11Command(cfg *config.Config, mic, loopback *device.Device, outputPath string) *CommandPlan {
	plan := &CommandPlan{}

	// Video input, always index 0. x11grab needs explicit pixel dimensions.
	plan.Args = append(plan.Args, "-f", "x11grab", "-framerate", strconv.Itoa(cfg.Framerate))
	if cfg.VideoSize != "" {
		plan.Args = append(plan.Args, "-video_size", cfg.VideoSize)
	}
	plan.Args = append(plan.Args, "-i", displayOf(cfg))

	// Audio inputs: mic first, then loopback. The resulting input indices
	// (1, 2, ...) are what the mapping clauses below refer to.
	appendAudioInput(plan, cfg.RecordMic, mic, func(d *device.Device) []string {
		return []string{"-f", "pulse", "-i", d.ID}
	})
	appendAudioInput(plan, cfg.RecordLoopback, loopback, func(d *device.Device) []string {
		return []string{"-f", "pulse", "-i", d.ID}
	})

	appendEncodeAndMap(plan, cfg, outputPath)
	return plan
}

// buildGDICommand grabs the full desktop with gdigrab and records audio
// through DirectShow. dshow device names must match the OS names exactly.
func buildGDICommand(cfg *config.Config, mic, loopback *device.Device, outputPath string) *CommandPlan {
	plan := &CommandPlan{}

	plan.Args = append(plan.Args,
		"-f", "gdigrab",
		"-framerate", strconv.Itoa(cfg.Framerate),
		"-i", "desktop",
	)

	appendAudioInput(plan, cfg.RecordMic, mic, func(d *device.Device) []string {
		return []string{"-f", "dshow", "-i", "audio=" + d.ID}
	})
	appendAudioInput(plan, cfg.RecordLoopback, loopback, func(d *device.Device) []string {
		return []string{"-f", "dshow", "-i", "audio=" + d.ID}
	})

	appendEncodeAndMap(plan, cfg, outputPath)
	return plan
}

// appendAudioInput appends one audio input clause when the source is both
// requested and resolved. A requested source with no device is omitted and
// recorded as an advisory: the session proceeds audio-degraded, it does not
// fail.
func appendAudioInput(plan *CommandPlan, requested bool, dev *device.Device, clause func(*device.Device) []string) {
	if !requested {
		return
	}
	if dev == nil {
		plan.Advisories = append(plan.Advisories, "requested audio source unavailable, recording without it")
		return
	}
	plan.Args = append(plan.Args, clause(dev)...)
	plan.AudioInputs++
}

// appendEncodeAndMap appends the encode clauses, the stream mapping for the
// session's audio-input count, and the output clause.
func appendEncodeAndMap(plan *CommandPlan, cfg *config.Config, outputPath string) {
	plan.Args = append(plan.Args,
		"-c:v", cfg.VideoCodec,
		"-preset", cfg.Preset,
		"-crf", strconv.Itoa(cfg.CRF),
		"-pix_fmt", cfg.PixelFormat,
	)
	plan.Args = append(plan.Args, "-map", "0:v")

	switch plan.AudioInputs {
	case 0:
		plan.Args = append(plan.Args, "-an")
	case 1:
		plan.Args = append(plan.Args, "-map", "1:a")
		plan.Args = append(plan.Args, "-c:a", cfg.AudioCodec, "-b:a", cfg.AudioBitrate)
	case 2:
		// Mic is input 1 and loopback input 2 by construction; amix merges
		// them into one track lasting as long as the longer source.
		filter := fmt.Sprintf("[%d:a][%d:a]amix=inputs=2:duration=longest[aout]", 1, 2)
		plan.Args = append(plan.Args, "-filter_complex", filter)
		plan.Args = append(plan.Args, "-map", "[aout]")
		plan.Args = append(plan.Args, "-c:a", cfg.AudioCodec, "-b:a", cfg.AudioBitrate)
	}

	plan.Args = append(plan.Args, "-y", outputPath)
}

func displayOf(cfg *config.Config) string {
	if cfg.Display != "" {
		return cfg.Display
	}
	return ":0.0"
}
