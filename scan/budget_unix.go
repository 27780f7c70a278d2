//go:build unix

package scan

import "golang.org/x/sys/unix"

// softFileLimit reads the process's current soft RLIMIT_NOFILE. If the
// call fails for any reason, it falls back to fdFallback rather than
// surfacing an engine error — an unreadable limit is not a scan-fatal
// condition.
func softFileLimit() uint64 {
	var rlimit unix.Rlimit

	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return fdFallback
	}

	return rlimit.Cur
}
