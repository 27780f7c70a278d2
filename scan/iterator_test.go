package scan

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ips(ss ...string) []net.IP {
	out := make([]net.IP, len(ss))
	for i, s := range ss {
		out[i] = net.ParseIP(s)
	}
	return out
}

func TestProbeIteratorSerialCoversCrossProduct(t *testing.T) {
	cfg := ScanConfig{
		Addresses: ips("10.0.0.1", "10.0.0.2"),
		Ports:     []int{22, 80, 443},
		ScanOrder: OrderSerial,
	}

	it := newProbeIterator(cfg)
	require.Equal(t, 6, it.remaining())

	var got []Probe
	for {
		p, ok := it.next()
		if !ok {
			break
		}
		got = append(got, p)
	}

	require.Len(t, got, 6)
	assert.Equal(t, 0, it.remaining())

	// address-major: every port of the first address before the second.
	assert.Equal(t, "10.0.0.1", got[0].Address.String())
	assert.Equal(t, 22, got[0].Port)
	assert.Equal(t, "10.0.0.1", got[2].Address.String())
	assert.Equal(t, 443, got[2].Port)
	assert.Equal(t, "10.0.0.2", got[3].Address.String())
	assert.Equal(t, 22, got[3].Port)
}

func TestProbeIteratorRandomCoversCrossProductExactlyOnce(t *testing.T) {
	cfg := ScanConfig{
		Addresses: ips("10.0.0.1", "10.0.0.2", "10.0.0.3"),
		Ports:     []int{1, 2, 3, 4},
		ScanOrder: OrderRandom,
	}

	it := newProbeIterator(cfg)

	seen := make(map[string]struct{})
	for {
		p, ok := it.next()
		if !ok {
			break
		}
		seen[fmt.Sprintf("%s:%d", p.Address.String(), p.Port)] = struct{}{}
	}

	assert.Len(t, seen, 12)
	assert.Equal(t, 0, it.remaining())
}

func TestProbeIteratorExclusions(t *testing.T) {
	cfg := ScanConfig{
		Addresses:        ips("10.0.0.1", "10.0.0.2"),
		Ports:            []int{22, 80},
		ExcludeAddresses: ips("10.0.0.2"),
		ExcludePorts:     []int{80},
	}

	it := newProbeIterator(cfg)
	require.Equal(t, 1, it.remaining())

	p, ok := it.next()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", p.Address.String())
	assert.Equal(t, 22, p.Port)

	_, ok = it.next()
	assert.False(t, ok)
}

func TestProbeIteratorEmptyAddressesOrPorts(t *testing.T) {
	it := newProbeIterator(ScanConfig{Addresses: nil, Ports: []int{80}})
	_, ok := it.next()
	assert.False(t, ok)

	it = newProbeIterator(ScanConfig{Addresses: ips("10.0.0.1"), Ports: nil})
	_, ok = it.next()
	assert.False(t, ok)
}

func TestFisherYatesPermIsAPermutation(t *testing.T) {
	perm := fisherYatesPerm(50)
	require.Len(t, perm, 50)

	seen := make(map[int]bool)
	for _, v := range perm {
		assert.False(t, seen[v], "duplicate index %d in permutation", v)
		seen[v] = true
	}
}
