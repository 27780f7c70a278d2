package scan

import (
	"net"
	"sort"
	"sync/atomic"
	"time"
)

// PortState is the terminal classification of a single probe. Once a
// PortState has been assigned to a probe it never changes.
type PortState uint8

const (
	// PortUnknown is never returned by a Scanner; it exists only as the
	// zero value so a forgotten switch case is obviously wrong.
	PortUnknown PortState = iota
	PortOpen
	PortClosed
	PortFiltered
)

func (s PortState) String() string {
	switch s {
	case PortOpen:
		return "open"
	case PortClosed:
		return "closed"
	case PortFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// Probe is the immutable unit of work the pipeline drives: "check this
// port, on this address". AttemptIndex never appears in a PortResult;
// the retry layer counts attempts itself, so nothing in this package
// sets or reads it.
type Probe struct {
	Address      net.IP
	Port         int
	AttemptIndex int
}

// PortResult is the terminal outcome of one (address, port) pair.
type PortResult struct {
	Port    int
	State   PortState
	RTT     time.Duration
	Service string
}

// HostResult aggregates every probe outcome for a single address.
// OpenPorts holds exactly the probes whose terminal state was Open;
// closed/filtered counts live in Stats instead of being duplicated here.
type HostResult struct {
	Address net.IP
	// OpenPorts contains exactly the probes whose terminal state was
	// Open, sorted by Port ascending once the scan of this host
	// completes. This holds regardless of scan size — see spec §3's
	// invariant 3.
	OpenPorts []PortResult
	// AllResults additionally holds Closed/Filtered entries when the
	// accumulator's memory-bounded policy (spec §4.6) decided to retain
	// them — i.e. for scans at or under the retention threshold. For
	// scans above the threshold this is nil; only OpenPorts (plus
	// Stats' counters) describe the scan.
	AllResults []PortResult
	// Stats is a point-in-time snapshot, not the live atomic counters —
	// HostResult is a value handed back to callers once a host's scan
	// is done, and a ScanStats (which embeds sync/atomic.Int64 fields)
	// must never be copied once in use.
	Stats StatsSnapshot
	// Partial is true when the host's scan was cut short by
	// cancellation. NotAttempted is the number of probes that never ran.
	Partial      bool
	NotAttempted int
}

// sortOpenPorts is the only post-processing step C6 performs on a
// HostResult, per the ordering invariant in spec §4.6/§8.
func (h *HostResult) sortOpenPorts() {
	sort.Slice(h.OpenPorts, func(i, j int) bool {
		return h.OpenPorts[i].Port < h.OpenPorts[j].Port
	})

	sort.Slice(h.AllResults, func(i, j int) bool {
		return h.AllResults[i].Port < h.AllResults[j].Port
	})
}

// ScanStats carries the per-host counters. All fields are updated with
// atomic operations since multiple pipeline workers write to the same
// ScanStats concurrently; the struct must not be copied while a scan
// using it is in flight (copy the snapshot returned by Snapshot instead).
type ScanStats struct {
	ProbesSent    atomic.Int64
	OpenCount     atomic.Int64
	ClosedCount   atomic.Int64
	FilteredCount atomic.Int64
	RetriedCount  atomic.Int64
	startedAt     time.Time
	Elapsed       time.Duration
}

// StatsSnapshot is a point-in-time, non-atomic copy of ScanStats safe to
// hand to output renderers or store in a completed HostResult.
type StatsSnapshot struct {
	ProbesSent    int64
	OpenCount     int64
	ClosedCount   int64
	FilteredCount int64
	RetriedCount  int64
	Elapsed       time.Duration
}

func (s *ScanStats) start() {
	s.startedAt = time.Now()
}

func (s *ScanStats) finish() {
	s.Elapsed = time.Since(s.startedAt)
}

// record tallies one terminal probe outcome.
func (s *ScanStats) record(state PortState) {
	s.ProbesSent.Add(1)

	switch state {
	case PortOpen:
		s.OpenCount.Add(1)
	case PortClosed:
		s.ClosedCount.Add(1)
	case PortFiltered:
		s.FilteredCount.Add(1)
	}
}

// Snapshot copies out the current counter values.
func (s *ScanStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		ProbesSent:    s.ProbesSent.Load(),
		OpenCount:     s.OpenCount.Load(),
		ClosedCount:   s.ClosedCount.Load(),
		FilteredCount: s.FilteredCount.Load(),
		RetriedCount:  s.RetriedCount.Load(),
		Elapsed:       s.Elapsed,
	}
}

// ScanOrder selects how the Probe Iterator walks the address x port
// cross product.
type ScanOrder uint8

const (
	// OrderSerial is address-major then port-major: every port of the
	// first address, then every port of the second, and so on.
	OrderSerial ScanOrder = iota
	// OrderRandom visits the same cross product in a shuffled order.
	OrderRandom
)

// Technique selects the Port Scanner variant the engine drives.
type Technique uint8

const (
	TechniqueConnect Technique = iota
	TechniqueSYN
)

// ScanConfig is the immutable set of inputs the core observes. The
// caller constructs one and hands it to Engine.Scan; nothing in the
// core mutates it.
type ScanConfig struct {
	Addresses []net.IP
	Ports     []int

	Timeout    time.Duration
	MaxRetries int

	// BatchSize overrides the FD Budgeter's choice of B when non-zero.
	BatchSize int

	ScanOrder ScanOrder
	Technique Technique

	SourcePort      int
	SourceInterface string

	ExcludePorts     []int
	ExcludeAddresses []net.IP

	// Heartbeat, if non-nil, receives best-effort progress events.
	// Sends never block; a full or absent channel just drops the event.
	Heartbeat chan<- Heartbeat
}

const (
	defaultTimeout    = time.Second
	defaultMaxRetries = 2
	minMaxRetries     = 1
	maxMaxRetries     = 3
	// fullRangeMaxRetries is the default used when the caller leaves
	// MaxRetries unset and is scanning the entire port range, per
	// spec §4.4's bursty-packet-loss tolerance rule.
	fullRangeMaxRetries = 3
	fullRangePortCount  = 60000
)

// normalize fills in defaults and clamps MaxRetries into [1, 3], per
// spec §3's ScanConfig invariants. It returns a copy; the caller's
// ScanConfig is never mutated.
func (c ScanConfig) normalize() ScanConfig {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.MaxRetries == 0 {
		if len(c.Ports) >= fullRangePortCount {
			c.MaxRetries = fullRangeMaxRetries
		} else {
			c.MaxRetries = defaultMaxRetries
		}
	}

	if c.MaxRetries < minMaxRetries {
		c.MaxRetries = minMaxRetries
	} else if c.MaxRetries > maxMaxRetries {
		c.MaxRetries = maxMaxRetries
	}

	return c
}
