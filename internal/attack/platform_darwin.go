//go:build darwin

package attack

import "syscall"

// On Darwin, Rusage.Maxrss is already reported in bytes.
func maxRSSBytes(rusage *syscall.Rusage) int64 {
	return rusage.Maxrss
}
