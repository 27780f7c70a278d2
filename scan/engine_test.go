package scan

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineScanWithNoAddressesReturnsErrNoAddresses(t *testing.T) {
	e := NewEngine(nil)

	results, stats, err := e.Scan(context.Background(), ScanConfig{Ports: []int{80}})

	assert.ErrorIs(t, err, ErrNoAddresses)
	assert.Nil(t, results)
	assert.Equal(t, int64(0), stats.ProbesSent)
}

func TestEngineScanReturnsCancelledBeforeFirstHost(t *testing.T) {
	e := NewEngine(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, _, err := e.Scan(ctx, ScanConfig{Addresses: ips("127.0.0.1", "127.0.0.2"), Ports: []int{80}})

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, results)
}

func TestEngineScanWithNoPortsReturnsEmptyHostResult(t *testing.T) {
	e := NewEngine(nil)

	results, stats, err := e.Scan(context.Background(), ScanConfig{Addresses: ips("127.0.0.1")})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "127.0.0.1", results[0].Address.String())
	assert.Empty(t, results[0].OpenPorts)
	assert.Equal(t, int64(0), stats.ProbesSent)
}

func TestEngineScanAgainstLoopback(t *testing.T) {
	e := NewEngine(nil)

	cfg := ScanConfig{
		Addresses:  ips("127.0.0.1"),
		Ports:      []int{1, 2, 3},
		Technique:  TechniqueConnect,
		Timeout:    200 * time.Millisecond,
		MaxRetries: 1,
	}

	results, stats, err := e.Scan(context.Background(), cfg)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "127.0.0.1", results[0].Address.String())
	assert.Equal(t, int64(3), stats.ProbesSent)
	assert.False(t, results[0].Partial)
}

func TestEngineScanExcludesAddressEntirely(t *testing.T) {
	e := NewEngine(nil)

	cfg := ScanConfig{
		Addresses:        ips("127.0.0.1", "127.0.0.2"),
		ExcludeAddresses: ips("127.0.0.2"),
		Ports:            []int{1},
		Timeout:          100 * time.Millisecond,
	}

	results, _, err := e.Scan(context.Background(), cfg)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "127.0.0.1", results[0].Address.String())
}

func TestAddressFamilySupported(t *testing.T) {
	v4only := Capabilities{SupportsIPv6: false}
	v6ok := Capabilities{SupportsIPv6: true}

	assert.True(t, addressFamilySupported(net.ParseIP("127.0.0.1"), &capScanner{v4only}))
	assert.True(t, addressFamilySupported(net.ParseIP("::1"), &capScanner{v6ok}))
	assert.False(t, addressFamilySupported(net.ParseIP("::1"), &capScanner{v4only}))
}

type capScanner struct{ caps Capabilities }

func (c *capScanner) Probe(context.Context, net.IP, int, time.Duration) (PortState, time.Duration) {
	return PortClosed, 0
}
func (c *capScanner) Capabilities() Capabilities { return c.caps }
func (c *capScanner) Close() error               { return nil }

func TestUnsupportedHostResultMarksEveryPortFiltered(t *testing.T) {
	hr := unsupportedHostResult(net.ParseIP("::1"), 5)

	snap := hr.Stats
	assert.Equal(t, int64(5), snap.FilteredCount)
	assert.Equal(t, int64(0), snap.OpenCount)
	assert.Empty(t, hr.OpenPorts)
}

func TestAccumulateTotalsSums(t *testing.T) {
	var total ScanStats

	accumulateTotals(&total, StatsSnapshot{ProbesSent: 3, OpenCount: 1, ClosedCount: 1, FilteredCount: 1, RetriedCount: 2, Elapsed: time.Second})
	accumulateTotals(&total, StatsSnapshot{ProbesSent: 2, OpenCount: 0, ClosedCount: 2, FilteredCount: 0, RetriedCount: 0, Elapsed: time.Second})

	snap := total.Snapshot()
	assert.Equal(t, int64(5), snap.ProbesSent)
	assert.Equal(t, int64(1), snap.OpenCount)
	assert.Equal(t, int64(3), snap.ClosedCount)
	assert.Equal(t, int64(1), snap.FilteredCount)
	assert.Equal(t, int64(2), snap.RetriedCount)
	assert.Equal(t, 2*time.Second, total.Elapsed)
}
