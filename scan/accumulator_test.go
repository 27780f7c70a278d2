package scan

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorOpenPortsContainsOnlyOpen(t *testing.T) {
	acc := newAccumulator(net.ParseIP("10.0.0.1"), 3)

	acc.add(probeOutcome{port: 80, state: PortOpen, rtt: time.Millisecond})
	acc.add(probeOutcome{port: 22, state: PortClosed, rtt: time.Millisecond})
	acc.add(probeOutcome{port: 443, state: PortFiltered, rtt: time.Millisecond})

	hr := acc.finish(false, 0)

	require.Len(t, hr.OpenPorts, 1)
	assert.Equal(t, 80, hr.OpenPorts[0].Port)
	assert.Equal(t, PortOpen, hr.OpenPorts[0].State)
}

func TestAccumulatorRetainsAllEntriesUnderThreshold(t *testing.T) {
	acc := newAccumulator(net.ParseIP("10.0.0.1"), 3)

	acc.add(probeOutcome{port: 443, state: PortFiltered, rtt: time.Millisecond})
	acc.add(probeOutcome{port: 80, state: PortOpen, rtt: time.Millisecond})
	acc.add(probeOutcome{port: 22, state: PortClosed, rtt: time.Millisecond})

	hr := acc.finish(false, 0)

	require.Len(t, hr.AllResults, 3)
	// sorted by port ascending.
	assert.Equal(t, []int{22, 80, 443}, []int{hr.AllResults[0].Port, hr.AllResults[1].Port, hr.AllResults[2].Port})
}

func TestAccumulatorDropsAllResultsAboveThreshold(t *testing.T) {
	acc := newAccumulator(net.ParseIP("10.0.0.1"), resultMemoryThreshold+1)

	acc.add(probeOutcome{port: 80, state: PortOpen, rtt: time.Millisecond})
	acc.add(probeOutcome{port: 22, state: PortClosed, rtt: time.Millisecond})

	hr := acc.finish(false, 0)

	assert.Nil(t, hr.AllResults)
	require.Len(t, hr.OpenPorts, 1)
	assert.Equal(t, 80, hr.OpenPorts[0].Port)
}

func TestAccumulatorSortsOpenPortsAscending(t *testing.T) {
	acc := newAccumulator(net.ParseIP("10.0.0.1"), 3)

	acc.add(probeOutcome{port: 443, state: PortOpen})
	acc.add(probeOutcome{port: 22, state: PortOpen})
	acc.add(probeOutcome{port: 80, state: PortOpen})

	hr := acc.finish(false, 0)

	require.Len(t, hr.OpenPorts, 3)
	assert.Equal(t, []int{22, 80, 443}, []int{hr.OpenPorts[0].Port, hr.OpenPorts[1].Port, hr.OpenPorts[2].Port})
}

func TestAccumulatorStatsCountEveryOutcome(t *testing.T) {
	acc := newAccumulator(net.ParseIP("10.0.0.1"), 3)

	acc.add(probeOutcome{port: 80, state: PortOpen})
	acc.add(probeOutcome{port: 22, state: PortClosed})
	acc.add(probeOutcome{port: 443, state: PortFiltered})

	hr := acc.finish(false, 0)
	snap := hr.Stats

	assert.Equal(t, int64(3), snap.ProbesSent)
	assert.Equal(t, int64(1), snap.OpenCount)
	assert.Equal(t, int64(1), snap.ClosedCount)
	assert.Equal(t, int64(1), snap.FilteredCount)
}

func TestAccumulatorPartialCarriesNotAttempted(t *testing.T) {
	acc := newAccumulator(net.ParseIP("10.0.0.1"), 3)
	acc.add(probeOutcome{port: 80, state: PortOpen})

	hr := acc.finish(true, 2)

	assert.True(t, hr.Partial)
	assert.Equal(t, 2, hr.NotAttempted)
}
