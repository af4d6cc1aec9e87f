//go:build linux

package attack

import "syscall"

// On Linux, Rusage.Maxrss is reported in kibibytes.
func maxRSSBytes(rusage *syscall.Rusage) int64 {
	return rusage.Maxrss * 1024
}
