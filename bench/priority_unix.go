//go:build linux || darwin

package bench

import "golang.org/x/sys/unix"

// Renice asks the scheduler for the given nice value for this process
// (negative raises priority, which usually needs privileges). Failure
// is advisory: callers report it and continue measuring.
func Renice(niceValue int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, niceValue)
}
