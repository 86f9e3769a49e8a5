package recording

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/screenrec/screenrec/internal/logging"
)

var (
	// ErrAlreadyRunning rejects a start while a session is live. One encoder
	// process at a time.
	ErrAlreadyRunning = errors.New("a recording is already in progress")

	// ErrImmediateExit reports an encoder that died within the grace window
	// after spawning, before the session was ever considered live.
	ErrImmediateExit = errors.New("encoder exited immediately after start")
)

// StopStage records how far down the escalation ladder a stop had to go.
type StopStage int

const (
	StageGraceful StopStage = iota // accepted "q" on stdin
	StageTerminated                // needed a cooperative terminate
	StageKilled                    // needed a force kill
)

func (s StopStage) String() string {
	switch s {
	case StageGraceful:
		return "graceful"
	case StageTerminated:
		return "terminated"
	case StageKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// StopInfo describes the outcome of a stop: the escalation stage reached and
// what (if anything) the session left on disk.
type StopInfo struct {
	Stage      StopStage
	OutputPath string
	OutputSize int64
	NoOutput   bool
}

type handle struct {
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     *bytes.Buffer
	outputPath string
	done       chan error
}

// Supervisor owns the lifetime of at most one encoder process: spawn, the
// post-spawn grace check, and the graceful-stop escalation ladder.
type Supervisor struct {
	log *logging.Logger

	mu   sync.Mutex
	live *handle

	graceWindow time.Duration
	quitWait    time.Duration
	termWait    time.Duration
	killWait    time.Duration
}

func NewSupervisor(log *logging.Logger) *Supervisor {
	return &Supervisor{
		log:         log,
		graceWindow: 500 * time.Millisecond,
		quitWait:    5 * time.Second,
		termWait:    2 * time.Second,
		killWait:    1 * time.Second,
	}
}

// Start spawns the encoder and holds it through the grace window. An encoder
// that exits inside the window never becomes a live session; its stderr tail
// is folded into the returned error.
func (s *Supervisor) Start(encoderPath string, args []string, outputPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live != nil {
		return ErrAlreadyRunning
	}

	cmd := exec.Command(encoderPath, args...)
	setProcAttributes(cmd)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}

	if s.log.Verbose() {
		s.log.Trace("spawning %s %v", encoderPath, args)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("starting encoder: %w", err)
	}
	assignToJob(cmd, s.log)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		stdin.Close()
		tail := stderrTail(stderr)
		s.log.Error.Printf("encoder exited during startup: %v%s", err, tail)
		return fmt.Errorf("%w%s", ErrImmediateExit, tail)
	case <-time.After(s.graceWindow):
	}

	s.live = &handle{
		cmd:        cmd,
		stdin:      stdin,
		stderr:     stderr,
		outputPath: outputPath,
		done:       done,
	}
	s.log.Info.Printf("recording started, pid %d, output %s", cmd.Process.Pid, outputPath)
	return nil
}

// Running reports whether a session is live.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live != nil
}

// Stop ends the live session. It asks the encoder to finish by writing "q" to
// its stdin, then escalates: cooperative terminate after quitWait, force kill
// after termWait. With no live session it returns (nil, nil). The handle is
// cleared whatever happens, so a wedged encoder never blocks the next start.
func (s *Supervisor) Stop() (*StopInfo, error) {
	s.mu.Lock()
	h := s.live
	s.live = nil
	s.mu.Unlock()
	if h == nil {
		return nil, nil
	}

	info := &StopInfo{OutputPath: h.outputPath}

	if _, err := io.WriteString(h.stdin, "q\n"); err != nil {
		s.log.Warning.Printf("quit request not delivered: %v", err)
	}
	h.stdin.Close()

	if !s.waitExit(h, s.quitWait) {
		info.Stage = StageTerminated
		s.log.Warning.Printf("encoder ignored quit request, terminating pid %d", h.cmd.Process.Pid)
		terminateProcess(h.cmd, s.log)
		if !s.waitExit(h, s.termWait) {
			info.Stage = StageKilled
			s.log.Warning.Printf("encoder ignored terminate, killing pid %d", h.cmd.Process.Pid)
			killProcess(h.cmd, s.log)
			s.waitExit(h, s.killWait)
		}
	}

	s.verifyOutput(info)
	return info, nil
}

// Shutdown force-stops any live session, for program exit paths where the
// escalation ladder is too slow.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	h := s.live
	s.live = nil
	s.mu.Unlock()
	if h == nil {
		return
	}
	killProcess(h.cmd, s.log)
	s.waitExit(h, s.killWait)
}

func (s *Supervisor) waitExit(h *handle, timeout time.Duration) bool {
	select {
	case err := <-h.done:
		if err != nil && s.log.Verbose() {
			// Nonzero exit is normal after terminate/kill.
			s.log.Trace("encoder exit status: %v", err)
		}
		return true
	case <-time.After(timeout):
		return false
	}
}

// verifyOutput checks what the session left behind. A missing or empty file
// is a warning for the caller to surface, not an error: the stop itself
// succeeded.
func (s *Supervisor) verifyOutput(info *StopInfo) {
	fi, err := os.Stat(info.OutputPath)
	if err != nil || fi.Size() == 0 {
		info.NoOutput = true
		s.log.Warning.Printf("recording stopped but no usable output at %s", info.OutputPath)
		return
	}
	info.OutputSize = fi.Size()
	s.log.Info.Printf("recording saved: %s (%d bytes)", info.OutputPath, fi.Size())
}

func stderrTail(buf *bytes.Buffer) string {
	out := buf.String()
	if out == "" {
		return ""
	}
	const max = 400
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return ": " + out
}
