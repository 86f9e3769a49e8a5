//go:build windows

package recording

import (
	"os/exec"
	"strconv"
	"syscall"

	"github.com/screenrec/screenrec/internal/jobutil"
	"github.com/screenrec/screenrec/internal/logging"
)

const createNoWindow = 0x08000000

// setProcAttributes hides the console window the encoder would otherwise pop
// up on every start.
func setProcAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNoWindow}
}

// assignToJob ties the encoder to our job object so it dies with us even if
// we crash before the stop ladder runs.
func assignToJob(cmd *exec.Cmd, log *logging.Logger) {
	if cmd.Process == nil {
		return
	}
	if err := jobutil.Assign(cmd); err != nil {
		log.Warning.Printf("could not assign pid %d to job object: %v", cmd.Process.Pid, err)
	}
}

func terminateProcess(cmd *exec.Cmd, log *logging.Logger) {
	if cmd.Process == nil {
		return
	}
	tk := exec.Command("taskkill", "/PID", strconv.Itoa(cmd.Process.Pid))
	tk.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNoWindow}
	if err := tk.Run(); err != nil {
		log.Warning.Printf("taskkill pid %d failed: %v", cmd.Process.Pid, err)
	}
}

func killProcess(cmd *exec.Cmd, log *logging.Logger) {
	if cmd.Process == nil {
		return
	}
	tk := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(cmd.Process.Pid))
	tk.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNoWindow}
	if err := tk.Run(); err != nil {
		log.Warning.Printf("taskkill /F pid %d failed: %v", cmd.Process.Pid, err)
		cmd.Process.Kill()
	}
}
