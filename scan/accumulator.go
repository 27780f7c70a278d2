package scan

import (
	"net"
	"sync"
)

// resultMemoryThreshold is the port-count boundary above which the
// accumulator stops retaining individual Closed/Filtered entries and
// only counts them, per spec §4.6. A scan of the full port space
// (65535 ports) or any full-range sweep comfortably exceeds this.
const resultMemoryThreshold = 1024

// accumulator collects probeOutcomes for a single host into a
// HostResult, applying the memory-bounded retention policy of spec
// §4.6. It is written to concurrently by pipeline workers, so add and
// finish take a lock around the mutation of OpenPorts/AllResults; stats
// is a live ScanStats whose counters are atomic and need no lock
// (progress reads them without one). It lives on the accumulator itself, never on the
// HostResult finish returns, so that a ScanStats (which embeds
// sync/atomic.Int64 fields) is never copied by value — only its
// StatsSnapshot is.
type accumulator struct {
	mu       sync.Mutex
	result   HostResult
	stats    ScanStats
	storeAll bool
}

func newAccumulator(address net.IP, totalPorts int) *accumulator {
	return &accumulator{
		result: HostResult{
			Address: address,
		},
		storeAll: totalPorts <= resultMemoryThreshold,
	}
}

// add records one terminal probe outcome. Invariant 1 of spec §8 (no
// probe produces more than one PortResult) is the caller's
// responsibility — the pipeline calls add exactly once per probe.
func (a *accumulator) add(o probeOutcome) {
	a.stats.record(o.state)

	pr := PortResult{Port: o.port, State: o.state, RTT: o.rtt}

	a.mu.Lock()
	if o.state == PortOpen {
		a.result.OpenPorts = append(a.result.OpenPorts, pr)
	}

	if a.storeAll {
		a.result.AllResults = append(a.result.AllResults, pr)
	}
	a.mu.Unlock()
}

// progress returns the probes-completed/open-found counts so far, read
// off the same atomic counters add writes — safe to call concurrently
// from a pipeline worker right after add, e.g. to emit a heartbeat.
func (a *accumulator) progress() (completed, open int64) {
	snap := a.stats.Snapshot()
	return snap.ProbesSent, snap.OpenCount
}

// finish sorts OpenPorts/AllResults, snapshots stats and returns the
// completed HostResult. Sort is the only post-processing step, per spec
// §4.6.
func (a *accumulator) finish(partial bool, notAttempted int) HostResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.result.sortOpenPorts()
	a.result.Partial = partial
	a.result.NotAttempted = notAttempted
	a.result.Stats = a.stats.Snapshot()

	return a.result
}
