//go:build windows

package engine

import (
	"fmt"
	"os/exec"
	"syscall"
)

// setProcessGroup hides the console window. Windows has no POSIX
// process groups; killTree cleans up descendants instead.
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}

// killTree terminates the child and any descendants via taskkill /T.
func killTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}

	kill := exec.Command("taskkill", "/F", "/T", "/PID", fmt.Sprintf("%d", cmd.Process.Pid))
	kill.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := kill.Run(); err != nil {
		_ = cmd.Process.Kill()
	}
}
