//go:build !windows

package engine

import (
	"os/exec"
	"syscall"
	"time"
)

// setProcessGroup puts the child in its own process group so the whole
// tree can be signalled at once.
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// killTree terminates the child and its process group, SIGTERM first
// with a short grace period, then SIGKILL.
func killTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}

	pid := cmd.Process.Pid
	if pgid, err := syscall.Getpgid(pid); err == nil && pgid > 0 {
		_ = syscall.Kill(-pgid, syscall.SIGTERM)
		time.Sleep(250 * time.Millisecond)
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
	}

	// Fallback in case the group signal missed the leader.
	_ = cmd.Process.Kill()
}
