package scan

import "errors"

var (
	// ErrCancelled surfaces when the caller's context is done before the
	// scan of some host begins. The HostResults of hosts already scanned
	// are returned alongside it rather than carried on the error itself.
	ErrCancelled = errors.New("scan: cancelled")

	// ErrNoAddresses marks the degenerate, non-fatal input of an empty
	// address list (spec §8 boundary case).
	ErrNoAddresses = errors.New("scan: no addresses")

	errAddressUnsupported = errors.New("scan: address family unsupported")
)
