//go:build !windows

package attack

import (
	"os/exec"
	"strings"
	"syscall"
)

// setupProcessGroup places the target in its own process group so
// killProcessGroup can reach every descendant it spawns, not just the
// immediate child.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// killProcessGroup guarantees the target and any stressor-spawned
// descendants are gone before Run returns (§4.7). SIGKILL to the group is
// tried first; SIGTERM and a direct Process.Kill are fallbacks for a
// process that has already partially exited.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	pid := cmd.Process.Pid
	if pgid, err := syscall.Getpgid(pid); err == nil && pgid > 0 {
		if err := syscall.Kill(-pgid, syscall.SIGKILL); err != nil {
			syscall.Kill(-pgid, syscall.SIGTERM)
		}
	}

	if err := cmd.Process.Kill(); err != nil {
		if !strings.Contains(err.Error(), "process already finished") {
			return err
		}
	}
	return nil
}

// getProcessResourceUsage reads the peak RSS the kernel recorded for the
// finished process via its rusage struct.
func getProcessResourceUsage(cmd *exec.Cmd) *resourceUsage {
	if cmd.ProcessState == nil {
		return nil
	}
	rusage, ok := cmd.ProcessState.SysUsage().(*syscall.Rusage)
	if !ok || rusage == nil {
		return nil
	}
	return &resourceUsage{MaxRSSBytes: maxRSSBytes(rusage)}
}
