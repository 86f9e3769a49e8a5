//go:build linux

package recording

import (
	"os/exec"
	"syscall"

	"github.com/screenrec/screenrec/internal/logging"
)

// setProcAttributes puts the encoder in its own process group so signals can
// reach the whole tree, not just the shell wrapper some distros install.
func setProcAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func assignToJob(cmd *exec.Cmd, log *logging.Logger) {}

func terminateProcess(cmd *exec.Cmd, log *logging.Logger) {
	if cmd.Process == nil {
		return
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		cmd.Process.Signal(syscall.SIGTERM)
		return
	}
	if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil {
		log.Warning.Printf("SIGTERM to group %d failed: %v", pgid, err)
	}
}

func killProcess(cmd *exec.Cmd, log *logging.Logger) {
	if cmd.Process == nil {
		return
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		cmd.Process.Kill()
		return
	}
	if err := syscall.Kill(-pgid, syscall.SIGKILL); err != nil {
		log.Warning.Printf("SIGKILL to group %d failed: %v", pgid, err)
	}
}
