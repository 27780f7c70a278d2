//go:build !unix

package scan

// softFileLimit: the host OS exposes no POSIX-style open-file limit, so
// the FD Budgeter falls back to a fixed value, per spec §4.2.
func softFileLimit() uint64 {
	return fdFallback
}
