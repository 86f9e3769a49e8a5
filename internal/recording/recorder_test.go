//go:build linux

package recording

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/logging"
	"github.com/screenrec/screenrec/internal/status"
)

// testRecorder builds a controller around a fake encoder, with audio sources
// disabled so no OS audio layer is touched.
func testRecorder(t *testing.T, script string) *Recorder {
	t.Helper()
	cfg := config.Default()
	cfg.RecordMic = false
	cfg.RecordLoopback = false
	cfg.OutputDir = t.TempDir()
	cfg.FfmpegPath = fakeEncoder(t, script)
	cfg.Display = ":0.0"
	cfg.VideoSize = "1280x720"

	r := NewRecorder(&cfg, logging.NewConsole(false), status.NewNotifier())
	r.sup = testSupervisor()
	return r
}

func TestRecorderStartStop(t *testing.T) {
	// The output path is the last argument of any synthesized command.
	r := testRecorder(t, `for out; do :; done
read line
echo "video data" > "$out"
`)
	require.True(t, r.IsReady())
	require.Equal(t, Idle, r.State())

	require.NoError(t, r.Start(""))
	assert.Equal(t, Recording, r.State())

	info, err := r.Stop()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, Idle, r.State())
	assert.False(t, info.NoOutput)
	assert.True(t, strings.HasPrefix(filepath.Base(info.OutputPath), "recording_"))
}

func TestRecorderRejectsDoubleStart(t *testing.T) {
	r := testRecorder(t, "sleep 10\n")
	require.NoError(t, r.Start(""))
	defer r.Shutdown()

	assert.ErrorIs(t, r.Start(""), ErrAlreadyRunning)
	assert.Equal(t, Recording, r.State())
}

func TestRecorderStopWhileIdle(t *testing.T) {
	r := testRecorder(t, "sleep 10\n")
	info, err := r.Stop()
	assert.NoError(t, err)
	assert.Nil(t, info)
}

func TestRecorderWithoutEncoder(t *testing.T) {
	cfg := config.Default()
	cfg.RecordMic = false
	cfg.RecordLoopback = false
	cfg.OutputDir = t.TempDir()

	r := &Recorder{
		cfg:      &cfg,
		log:      logging.NewConsole(false),
		notifier: status.NewNotifier(),
		sup:      testSupervisor(),
	}
	assert.False(t, r.IsReady())
	assert.ErrorIs(t, r.Start(""), ErrNoEncoder)
	_, err := r.TakeScreenshot("", false)
	assert.ErrorIs(t, err, ErrNoEncoder)
}

func TestRecorderPauseIsNoOp(t *testing.T) {
	r := testRecorder(t, "sleep 10\n")
	require.NoError(t, r.Start(""))
	defer r.Shutdown()

	r.Pause()
	assert.Equal(t, Recording, r.State())
}

func TestRecorderScreenshot(t *testing.T) {
	r := testRecorder(t, `for out; do :; done
echo "image data" > "$out"
`)

	path, err := r.TakeScreenshot("", false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "screenshot_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRecorderScreenshotExtensionGate(t *testing.T) {
	r := testRecorder(t, "exit 0\n")
	_, err := r.TakeScreenshot(filepath.Join(t.TempDir(), "shot.bmp"), false)
	assert.ErrorIs(t, err, ErrBadImageExtension)
}

func TestRecorderScreenshotSelectionCancelled(t *testing.T) {
	r := testRecorder(t, "exit 0\n")
	r.SelectArea = func() (Region, bool) { return Region{}, false }

	path, err := r.TakeScreenshot("", true)
	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestRecorderPublishesStatus(t *testing.T) {
	r := testRecorder(t, `for out; do :; done
read line
echo "video data" > "$out"
`)

	require.NoError(t, r.Start(""))
	waitForStatus(t, r.notifier, status.Recording)

	_, err := r.Stop()
	require.NoError(t, err)
	waitForStatus(t, r.notifier, status.Stopped)
}

func waitForStatus(t *testing.T, n *status.Notifier, code string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-n.C:
			if msg.Code == code {
				return
			}
		case <-deadline:
			t.Fatalf("status %s never published", code)
		}
	}
}
