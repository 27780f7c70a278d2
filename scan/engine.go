package scan

import (
	"context"
	"net"

	"github.com/sirupsen/logrus"
)

// Engine composes the Probe Iterator, FD Budgeter, Port Scanner, Retry
// Policy, Continuous Pipeline and Result Accumulator into the single
// scan façade described in spec §4.7. One Engine can run Scan multiple
// times; each call is independent.
type Engine struct {
	log logrus.FieldLogger
}

func NewEngine(log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Engine{log: log}
}

// Scan runs cfg against every configured address and returns one
// HostResult per address plus the aggregate stats (the per-host Stats
// summed). Addresses are processed sequentially, per spec §4.7's
// predictable-progress rationale; within a host the pipeline runs at
// full B.
//
// Scan returns a scan-wide error in two cases: ErrNoAddresses when
// cfg.Addresses is empty, and ErrCancelled when ctx is done before the
// scan of some host begins, together with the HostResults of the hosts
// already scanned. A cancellation that arrives while the last host is
// being scanned shows only in that HostResult's Partial flag, and Scan
// then returns no error. A syn request without privilege falls back to
// connect and is not an error. Individual probe and per-host failures
// are absorbed into the returned HostResults.
func (e *Engine) Scan(ctx context.Context, cfg ScanConfig) ([]HostResult, StatsSnapshot, error) {
	cfg = cfg.normalize()

	if len(cfg.Addresses) == 0 {
		return nil, StatsSnapshot{}, ErrNoAddresses
	}

	addresses := excludeAddresses(cfg.Addresses, cfg.ExcludeAddresses)

	if len(addresses) == 0 {
		return nil, StatsSnapshot{}, nil
	}

	// An empty (or fully excluded) port list is not an error: spec §8's
	// boundary case still expects one valid, empty HostResult per host
	// rather than no results at all. scanHost/the pipeline handle zero
	// probes correctly, so scanning proceeds normally.

	scanner, err := e.selectScanner(cfg)
	if err != nil {
		return nil, StatsSnapshot{}, err
	}
	defer scanner.Close()

	width := e.batchWidth(cfg, scanner)

	results := make([]HostResult, 0, len(addresses))

	var total ScanStats

	for _, addr := range addresses {
		if ctx.Err() != nil {
			return results, total.Snapshot(), ErrCancelled
		}

		hr := e.scanHost(ctx, cfg, addr, scanner, width)
		accumulateTotals(&total, hr.Stats)
		results = append(results, hr)
	}

	return results, total.Snapshot(), nil
}

// scanHost runs the Init -> Running -> {Completed, Partial} state
// machine of spec §4.7 for a single address.
func (e *Engine) scanHost(ctx context.Context, cfg ScanConfig, addr net.IP, scanner Scanner, width int) HostResult {
	hostPorts := excludePorts(cfg.Ports, cfg.ExcludePorts)

	if !addressFamilySupported(addr, scanner) {
		e.log.Debugf("scan: %s: %s", addr, errAddressUnsupported)
		return unsupportedHostResult(addr, len(hostPorts))
	}

	hostCfg := cfg
	hostCfg.Addresses = []net.IP{addr}
	hostCfg.ExcludeAddresses = nil

	it := newProbeIterator(hostCfg)
	acc := newAccumulator(addr, len(hostPorts))
	acc.stats.start()

	retried := withRetry(scanner, cfg.MaxRetries, &acc.stats)
	pl := newPipeline(width, retried, e.log)

	_, notAttempted := pl.run(ctx, it, cfg.Timeout, func(o probeOutcome) {
		acc.add(o)

		completed, openFound := acc.progress()

		sendHeartbeat(cfg.Heartbeat, Heartbeat{
			Address:         addr.String(),
			ProbesCompleted: int(completed),
			OpenFound:       int(openFound),
		})
	})

	acc.stats.finish()

	return acc.finish(notAttempted > 0, notAttempted)
}

// selectScanner picks the C3 variant per spec §4.3: syn requires
// elevated privileges; if unavailable, the engine falls back to
// connect rather than failing. There is no option to forbid that
// fallback, so selectScanner never returns an error.
func (e *Engine) selectScanner(cfg ScanConfig) (Scanner, error) {
	switch cfg.Technique {
	case TechniqueSYN:
		if HasRawSocketPrivilege() {
			return NewSynScanner(e.log), nil
		}

		e.log.Debugf("syn scan requested without privilege; falling back to connect")

		return NewConnectScanner(e.log), nil
	default:
		return NewConnectScanner(e.log), nil
	}
}

func (e *Engine) batchWidth(cfg ScanConfig, scanner Scanner) int {
	override := cfg.BatchSize
	if override == 0 {
		override = scanner.Capabilities().PreferredBatchWidth
	}

	return BatchWidth(override)
}

func addressFamilySupported(addr net.IP, scanner Scanner) bool {
	if addr.To4() != nil {
		return true
	}

	return scanner.Capabilities().SupportsIPv6
}

// unsupportedHostResult implements spec §4.7's per-host fatal-error
// path: zero open ports, filtered_count == |ports|, scan continues.
func unsupportedHostResult(addr net.IP, portCount int) HostResult {
	var stats ScanStats
	stats.start()

	for i := 0; i < portCount; i++ {
		stats.record(PortFiltered)
	}

	stats.finish()

	return HostResult{Address: addr, Stats: stats.Snapshot()}
}

func accumulateTotals(total *ScanStats, s StatsSnapshot) {
	total.ProbesSent.Add(s.ProbesSent)
	total.OpenCount.Add(s.OpenCount)
	total.ClosedCount.Add(s.ClosedCount)
	total.FilteredCount.Add(s.FilteredCount)
	total.RetriedCount.Add(s.RetriedCount)
	total.Elapsed += s.Elapsed
}
