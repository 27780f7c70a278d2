package scan

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// probeOutcome is one completed probe, handed from a pipeline worker to
// the result accumulator.
type probeOutcome struct {
	port  int
	state PortState
	rtt   time.Duration
}

// pipeline drives a Scanner over a probeIterator at a constant in-flight
// width B, replenishing one new probe per completion per spec §4.5. A
// weighted semaphore holds exactly B tokens; each probe runs in its own
// goroutine and releases its token on completion, so the very next
// Acquire — for the next probe the iterator yields — succeeds the
// instant a slot frees up. This is the direct translation of the
// "continuous replenishment" pattern: no probe ever waits for a sibling
// it doesn't depend on.
type pipeline struct {
	width   int
	scanner Scanner
	log     logrus.FieldLogger
}

func newPipeline(width int, scanner Scanner, log logrus.FieldLogger) *pipeline {
	if width < 1 {
		width = 1
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	return &pipeline{width: width, scanner: scanner, log: log}
}

// run drains it completely (or until ctx is cancelled), calling emit for
// every completed probe. emit may be called concurrently from up to
// width goroutines and must be safe for that.
//
// Cancellation is cooperative: once ctx is done, run stops handing out
// new probes and waits for every in-flight goroutine to return. In-flight
// probes are handed the same ctx, so they do not run on to their own
// deadline: ConnectScanner's dial and SynScanner's wait end as soon as
// ctx is done and report Filtered, and the retry wrapper makes no further
// attempts. Those outcomes are still passed to emit.
func (p *pipeline) run(ctx context.Context, it *probeIterator, deadline time.Duration, emit func(probeOutcome)) (attempted, notAttempted int) {
	sem := semaphore.NewWeighted(int64(p.width))
	var wg sync.WaitGroup

	for {
		if ctx.Err() != nil {
			break
		}

		probe, ok := it.next()
		if !ok {
			break
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			notAttempted++
			break
		}

		wg.Add(1)
		attempted++

		go func(probe Probe) {
			defer wg.Done()
			defer sem.Release(1)

			state, rtt := p.runProbe(ctx, probe, deadline)
			emit(probeOutcome{port: probe.Port, state: state, rtt: rtt})
		}(probe)
	}

	notAttempted += it.remaining()

	wg.Wait()

	return attempted, notAttempted
}

// runProbe calls the wrapped scanner and recovers from any panic inside
// it, per spec §7: a probe-task fault is absorbed as Filtered and must
// never take down the pipeline.
func (p *pipeline) runProbe(ctx context.Context, probe Probe, deadline time.Duration) (state PortState, rtt time.Duration) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.log.Debugf("pipeline: probe panic for %s:%d: %v", probe.Address, probe.Port, r)
			state = PortFiltered
			rtt = time.Since(start)
		}
	}()

	return p.scanner.Probe(ctx, probe.Address, probe.Port, deadline)
}
