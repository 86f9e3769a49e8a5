package recording

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/device"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Display = ":0.0"
	cfg.VideoSize = "1920x1080"
	return &cfg
}

func mic(name string) *device.Device {
	return &device.Device{ID: name, Name: name, Kind: device.Mic}
}

func loopback(name string) *device.Device {
	return &device.Device{ID: name, Name: name, Kind: device.Loopback}
}

// indexOf returns the position of the first occurrence of the given
// subsequence in args, or -1.
func indexOf(args []string, sub ...string) int {
	for i := 0; i+len(sub) <= len(args); i++ {
		match := true
		for j := range sub {
			if args[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func TestX11CommandBothSources(t *testing.T) {
	plan := buildX11Command(testConfig(), mic("Mic1"), loopback("Mon1"), "/tmp/out.mp4")

	require.Equal(t, 2, plan.AudioInputs)
	assert.Empty(t, plan.Advisories)

	args := plan.Args
	video := indexOf(args, "-f", "x11grab")
	micIn := indexOf(args, "-f", "pulse", "-i", "Mic1")
	monIn := indexOf(args, "-f", "pulse", "-i", "Mon1")
	codec := indexOf(args, "-c:v", "libx264")
	mapV := indexOf(args, "-map", "0:v")
	filter := indexOf(args, "-filter_complex", "[1:a][2:a]amix=inputs=2:duration=longest[aout]")
	mapA := indexOf(args, "-map", "[aout]")
	codecA := indexOf(args, "-c:a", "aac", "-b:a", "192k")
	output := indexOf(args, "-y", "/tmp/out.mp4")

	for name, idx := range map[string]int{
		"video input": video, "mic input": micIn, "loopback input": monIn,
		"video codec": codec, "video map": mapV, "amix filter": filter,
		"audio map": mapA, "audio codec": codecA, "output": output,
	} {
		require.GreaterOrEqual(t, idx, 0, "missing %s clause", name)
	}

	// Clause order: inputs (video, mic, loopback), encode, maps, output last.
	assert.Less(t, video, micIn)
	assert.Less(t, micIn, monIn)
	assert.Less(t, monIn, codec)
	assert.Less(t, codec, mapV)
	assert.Less(t, mapV, filter)
	assert.Less(t, filter, mapA)
	assert.Less(t, mapA, codecA)
	assert.Less(t, codecA, output)
	assert.Equal(t, "/tmp/out.mp4", args[len(args)-1])
}

func TestX11CommandMicOnly(t *testing.T) {
	cfg := testConfig()
	cfg.RecordLoopback = false

	plan := buildX11Command(cfg, mic("Mic1"), nil, "/tmp/out.mp4")

	require.Equal(t, 1, plan.AudioInputs)
	assert.Empty(t, plan.Advisories)
	assert.GreaterOrEqual(t, indexOf(plan.Args, "-map", "1:a"), 0)
	assert.Equal(t, -1, indexOf(plan.Args, "-filter_complex"))
	assert.Equal(t, -1, indexOf(plan.Args, "-an"))
}

func TestX11CommandNoAudio(t *testing.T) {
	cfg := testConfig()
	cfg.RecordMic = false
	cfg.RecordLoopback = false

	plan := buildX11Command(cfg, nil, nil, "/tmp/out.mp4")

	require.Equal(t, 0, plan.AudioInputs)
	assert.GreaterOrEqual(t, indexOf(plan.Args, "-an"), 0)
	assert.Equal(t, -1, indexOf(plan.Args, "-map", "1:a"))
	assert.Equal(t, -1, indexOf(plan.Args, "-c:a"))
}

func TestX11CommandUnresolvedSourceIsAdvisory(t *testing.T) {
	plan := buildX11Command(testConfig(), mic("Mic1"), nil, "/tmp/out.mp4")

	require.Equal(t, 1, plan.AudioInputs)
	require.Len(t, plan.Advisories, 1)
	assert.Contains(t, plan.Advisories[0], "unavailable")
	// The single remaining input keeps index 1.
	assert.GreaterOrEqual(t, indexOf(plan.Args, "-map", "1:a"), 0)
}

func TestX11CommandDeterministic(t *testing.T) {
	a := buildX11Command(testConfig(), mic("Mic1"), loopback("Mon1"), "/tmp/out.mp4")
	b := buildX11Command(testConfig(), mic("Mic1"), loopback("Mon1"), "/tmp/out.mp4")
	assert.Equal(t, a.Args, b.Args)
	assert.Equal(t, strings.Join(a.Args, "\x00"), strings.Join(b.Args, "\x00"))
}

func TestGDICommandBothSources(t *testing.T) {
	plan := buildGDICommand(testConfig(), mic("Microphone (USB)"), loopback("Stereo Mix (Realtek)"), `C:\out.mp4`)

	require.Equal(t, 2, plan.AudioInputs)
	args := plan.Args

	assert.GreaterOrEqual(t, indexOf(args, "-f", "gdigrab"), 0)
	assert.GreaterOrEqual(t, indexOf(args, "-i", "desktop"), 0)
	micIn := indexOf(args, "-f", "dshow", "-i", "audio=Microphone (USB)")
	monIn := indexOf(args, "-f", "dshow", "-i", "audio=Stereo Mix (Realtek)")
	require.GreaterOrEqual(t, micIn, 0)
	require.GreaterOrEqual(t, monIn, 0)
	assert.Less(t, micIn, monIn, "mic must come before loopback")
	assert.Equal(t, `C:\out.mp4`, args[len(args)-1])
}

func TestGDICommandOmitsVideoSize(t *testing.T) {
	plan := buildGDICommand(testConfig(), nil, nil, `C:\out.mp4`)
	assert.Equal(t, -1, indexOf(plan.Args, "-video_size"))
}

func TestX11CommandQualitySettings(t *testing.T) {
	cfg := testConfig()
	cfg.Framerate = 60
	cfg.CRF = 23
	cfg.Preset = "fast"

	plan := buildX11Command(cfg, nil, nil, "/tmp/out.mp4")
	args := plan.Args

	assert.GreaterOrEqual(t, indexOf(args, "-framerate", "60"), 0)
	assert.GreaterOrEqual(t, indexOf(args, "-crf", "23"), 0)
	assert.GreaterOrEqual(t, indexOf(args, "-preset", "fast"), 0)
	assert.GreaterOrEqual(t, indexOf(args, "-pix_fmt", "yuv420p"), 0)
	assert.GreaterOrEqual(t, indexOf(args, "-video_size", "1920x1080"), 0)
}
