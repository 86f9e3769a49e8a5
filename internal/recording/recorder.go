package recording

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/device"
	"github.com/screenrec/screenrec/internal/encoder"
	"github.com/screenrec/screenrec/internal/logging"
	"github.com/screenrec/screenrec/internal/status"
)

// State is the controller's coarse lifecycle. Paused exists for the state
// machine's sake; no transition produces it yet.
type State int

const (
	Idle State = iota
	Recording
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// ErrNoEncoder means start was attempted without a usable encoder binary.
var ErrNoEncoder = errors.New("ffmpeg not found; install it or set its path in the configuration")

// AreaSelector asks the user for a desktop region. Returning ok=false means
// the selection was cancelled.
type AreaSelector func() (Region, bool)

// Recorder is the session controller: it resolves devices and the encoder
// once, synthesizes commands, and drives the supervisor. All methods are safe
// for concurrent use.
type Recorder struct {
	cfg      *config.Config
	log      *logging.Logger
	notifier *status.Notifier
	sup      *Supervisor

	// SelectArea, when set, is invoked for region screenshots. The GUI wires
	// its overlay in here.
	SelectArea AreaSelector

	encoderPath string
	mic         *device.Device
	loopback    *device.Device

	mu    sync.Mutex
	state State
}

// NewRecorder resolves the encoder and the configured audio devices up front
// so every later start is a pure command build plus a spawn.
func NewRecorder(cfg *config.Config, log *logging.Logger, notifier *status.Notifier) *Recorder {
	r := &Recorder{
		cfg:      cfg,
		log:      log,
		notifier: notifier,
		sup:      NewSupervisor(log),
	}

	r.encoderPath = encoder.Locate(cfg.FfmpegPath)
	if r.encoderPath == "" {
		log.Error.Printf("ffmpeg not found in configured path, PATH, or well-known locations")
	} else {
		log.Info.Printf("using encoder at %s", r.encoderPath)
	}

	resolver := device.NewResolver(log)
	if cfg.RecordMic {
		r.mic = resolver.Resolve(device.Mic, cfg.MicDevice)
		if r.mic == nil {
			log.Warning.Printf("no microphone resolved, sessions will omit mic audio")
		}
	}
	if cfg.RecordLoopback {
		r.loopback = resolver.Resolve(device.Loopback, cfg.LoopbackDevice)
		if r.loopback == nil {
			log.Warning.Printf("no loopback device resolved, sessions will omit system audio")
		}
	}
	return r
}

// IsReady reports whether an encoder binary was located.
func (r *Recorder) IsReady() bool { return r.encoderPath != "" }

// State returns the controller's current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// MicDeviceLabel names the mic the next session will use, for display.
func (r *Recorder) MicDeviceLabel() string {
	if r.mic == nil {
		return "none"
	}
	return r.mic.Name
}

// LoopbackDeviceLabel names the loopback source the next session will use.
func (r *Recorder) LoopbackDeviceLabel() string {
	if r.loopback == nil {
		return "none"
	}
	return r.loopback.Name
}

// DefaultOutputPath builds a timestamped file name under the configured
// output directory.
func (r *Recorder) DefaultOutputPath() string {
	name := fmt.Sprintf("recording_%s.mp4", time.Now().Format("2006-01-02_15-04-05"))
	return filepath.Join(r.cfg.OutputDir, name)
}

// Start begins a recording session writing to outputPath. An empty path gets
// the timestamped default.
func (r *Recorder) Start(outputPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Recording {
		return ErrAlreadyRunning
	}
	if r.encoderPath == "" {
		r.notifier.Publish(status.Error, "ffmpeg not found")
		return ErrNoEncoder
	}
	if outputPath == "" {
		outputPath = r.DefaultOutputPath()
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	plan, err := BuildCommand(r.cfg, r.mic, r.loopback, outputPath)
	if err != nil {
		r.notifier.Publish(status.Error, err.Error())
		return err
	}
	for _, adv := range plan.Advisories {
		r.log.Warning.Printf("%s", adv)
		r.notifier.Publish(status.Warning, adv)
	}

	if err := r.sup.Start(r.encoderPath, plan.Args, outputPath); err != nil {
		r.notifier.Publish(status.Error, "recording failed to start")
		return err
	}
	r.state = Recording
	r.notifier.Publish(status.Recording, filepath.Base(outputPath))
	return nil
}

// Stop ends the live session and reports what it left on disk. Stopping while
// idle is a no-op.
func (r *Recorder) Stop() (*StopInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Recording {
		return nil, nil
	}
	info, err := r.sup.Stop()
	r.state = Idle
	if err != nil {
		r.notifier.Publish(status.Error, err.Error())
		return info, err
	}
	if info != nil && info.NoOutput {
		r.notifier.Publish(status.Warning, "stopped, but no video was written")
	} else if info != nil {
		r.notifier.Publish(status.Stopped, filepath.Base(info.OutputPath))
	}
	return info, nil
}

// Pause is accepted but does nothing: the encoder offers no safe way to pause
// a single-file session.
func (r *Recorder) Pause() {
	r.log.Info.Printf("pause requested; not supported for single-file sessions")
}

// TakeScreenshot grabs a still of the desktop, or of a user-selected region
// when selectArea is true and an AreaSelector is wired. An empty outputPath
// gets a timestamped default next to the recordings.
func (r *Recorder) TakeScreenshot(outputPath string, selectArea bool) (string, error) {
	if r.encoderPath == "" {
		return "", ErrNoEncoder
	}
	if outputPath == "" {
		name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("2006-01-02_15-04-05"))
		outputPath = filepath.Join(r.cfg.OutputDir, name)
	}

	var region *Region
	if selectArea && r.SelectArea != nil {
		sel, ok := r.SelectArea()
		if !ok {
			return "", nil
		}
		region = &sel
	}

	args, err := BuildScreenshotArgs(r.cfg, region, outputPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	cmd := exec.Command(r.encoderPath, args...)
	setProcAttributes(cmd)
	if out, err := cmd.CombinedOutput(); err != nil {
		r.log.Error.Printf("screenshot failed: %v: %s", err, out)
		r.notifier.Publish(status.Error, "screenshot failed")
		return "", fmt.Errorf("taking screenshot: %w", err)
	}
	r.log.Info.Printf("screenshot saved: %s", outputPath)
	r.notifier.Publish(status.Ready, "screenshot "+filepath.Base(outputPath))
	return outputPath, nil
}

// Shutdown force-stops any live session for program exit.
func (r *Recorder) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sup.Shutdown()
	r.state = Idle
}
