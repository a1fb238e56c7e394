//go:build windows

package exec

import (
	"os/exec"
	"syscall"
)

// defaultSysProcAttr returns process attributes for Windows systems.
func defaultSysProcAttr() *syscall.SysProcAttr {
	return nil
}

// terminateTree kills the direct child; Windows has no process groups in
// the Unix sense.
func terminateTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// extractSignal is a no-op on Windows.
func extractSignal(interface{}) (syscall.Signal, bool) {
	return 0, false
}
