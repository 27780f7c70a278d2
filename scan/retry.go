package scan

import (
	"context"
	"net"
	"time"
)

// retryingScanner wraps a Scanner to add the deterministic retry
// discipline of spec §4.4: up to maxRetries attempts, no inter-attempt
// sleep, Open-dominance, last-verdict-wins otherwise.
type retryingScanner struct {
	inner      Scanner
	maxRetries int
	stats      *ScanStats
}

var _ Scanner = (*retryingScanner)(nil)

func withRetry(inner Scanner, maxRetries int, stats *ScanStats) Scanner {
	return &retryingScanner{inner: inner, maxRetries: maxRetries, stats: stats}
}

func (r *retryingScanner) Capabilities() Capabilities { return r.inner.Capabilities() }

func (r *retryingScanner) Close() error { return r.inner.Close() }

// Probe calls the wrapped Scanner up to maxRetries times. An Open
// verdict on any attempt wins immediately and short-circuits further
// attempts. Otherwise the last attempt's verdict is terminal, whatever
// earlier attempts returned — the later verdict is taken as the more
// definitive read of the target's state.
func (r *retryingScanner) Probe(ctx context.Context, address net.IP, port int, deadline time.Duration) (PortState, time.Duration) {
	var (
		state PortState
		rtt   time.Duration
	)

	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if attempt > 1 && r.stats != nil {
			r.stats.RetriedCount.Add(1)
		}

		state, rtt = r.inner.Probe(ctx, address, port, deadline)

		if state == PortOpen {
			return state, rtt
		}

		if ctx.Err() != nil {
			return state, rtt
		}
	}

	return state, rtt
}
