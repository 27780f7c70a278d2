package scan

// Batch width tiers, per spec §4.2. These are the only tunables in the
// FD Budgeter; everything else falls out of the algorithm below.
const (
	MinBatch uint64 = 100
	AvgBatch uint64 = 3000
	MaxBatch uint64 = 15000

	// fdFallback is used when the host OS exposes no open-file limit.
	fdFallback uint64 = 5000

	// highULimitThreshold and lowULimitHeadroom implement the
	// tiered branches of the algorithm below.
	highULimitThreshold uint64 = 8000
	lowULimitHeadroom    uint64 = 100
)

// computeBatchWidth implements spec §4.2's six-step algorithm for
// deriving B from an optional override and the process's soft
// open-file limit U.
func computeBatchWidth(override int, softLimit uint64) int {
	desired := AvgBatch
	if override > 0 {
		desired = uint64(override)
	}

	var b uint64

	switch {
	case softLimit >= desired:
		b = desired
	case softLimit < AvgBatch:
		b = softLimit / 2
	case softLimit > highULimitThreshold:
		b = AvgBatch
	default:
		b = softLimit - lowULimitHeadroom
	}

	return int(clampBatch(b))
}

// clampBatch enforces only the MaxBatch ceiling (and raises 0 to 1).
// MinBatch is not applied anywhere in the algorithm: neither an override
// below it nor a branch-3 result below it is raised, so an override of 1
// yields sequential probing. Flooring a branch-3 result up to MinBatch
// would ask for more concurrent sockets than the process has descriptors
// for, which is exactly what this budgeter exists to prevent.
func clampBatch(b uint64) uint64 {
	if b > MaxBatch {
		return MaxBatch
	}

	if b == 0 {
		return 1
	}

	return b
}

// BatchWidth computes the effective concurrency ceiling B for a scan,
// consulting the caller's override (if any) and the process's current
// soft file-descriptor limit.
func BatchWidth(override int) int {
	return computeBatchWidth(override, softFileLimit())
}
