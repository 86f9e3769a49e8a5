//go:build !linux && !windows

package recording

import (
	"os"
	"os/exec"

	"github.com/screenrec/screenrec/internal/logging"
)

func setProcAttributes(cmd *exec.Cmd) {}

func assignToJob(cmd *exec.Cmd, log *logging.Logger) {}

func terminateProcess(cmd *exec.Cmd, log *logging.Logger) {
	if cmd.Process == nil {
		return
	}
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		log.Warning.Printf("interrupt failed: %v", err)
	}
}

func killProcess(cmd *exec.Cmd, log *logging.Logger) {
	if cmd.Process == nil {
		return
	}
	if err := cmd.Process.Kill(); err != nil {
		log.Warning.Printf("kill failed: %v", err)
	}
}
