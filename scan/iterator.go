package scan

import (
	"math/rand"
	"net"
)

// probeIterator lazily walks the addresses x ports cross product, minus
// excluded pairs, in either address-major or shuffled order. It is
// single-pass, not restartable, and owned exclusively by the pipeline
// driver that calls next() — never shared across goroutines.
type probeIterator struct {
	addresses []net.IP
	ports     []int

	order ScanOrder

	// serial cursors
	addrIdx int
	portIdx int

	// random order walks a precomputed permutation of flat indices
	// into addresses x ports instead of materialising Probe values.
	perm    []int
	permIdx int
}

func newProbeIterator(cfg ScanConfig) *probeIterator {
	addrs := excludeAddresses(cfg.Addresses, cfg.ExcludeAddresses)
	ports := excludePorts(cfg.Ports, cfg.ExcludePorts)

	it := &probeIterator{
		addresses: addrs,
		ports:     ports,
		order:     cfg.ScanOrder,
	}

	if it.order == OrderRandom {
		it.perm = fisherYatesPerm(len(addrs) * len(ports))
	}

	return it
}

// remaining reports how many probes are left to emit, in O(1).
func (it *probeIterator) remaining() int {
	total := len(it.addresses) * len(it.ports)

	if it.order == OrderRandom {
		return total - it.permIdx
	}

	return total - (it.addrIdx*len(it.ports) + it.portIdx)
}

// next emits the next Probe, or ok=false once the cross product is
// exhausted. O(1), no heap allocation beyond the returned value.
func (it *probeIterator) next() (Probe, bool) {
	if len(it.addresses) == 0 || len(it.ports) == 0 {
		return Probe{}, false
	}

	if it.order == OrderRandom {
		if it.permIdx >= len(it.perm) {
			return Probe{}, false
		}

		flat := it.perm[it.permIdx]
		it.permIdx++

		addrIdx := flat / len(it.ports)
		portIdx := flat % len(it.ports)

		return Probe{Address: it.addresses[addrIdx], Port: it.ports[portIdx]}, true
	}

	if it.addrIdx >= len(it.addresses) {
		return Probe{}, false
	}

	p := Probe{Address: it.addresses[it.addrIdx], Port: it.ports[it.portIdx]}

	it.portIdx++
	if it.portIdx >= len(it.ports) {
		it.portIdx = 0
		it.addrIdx++
	}

	return p, true
}

// fisherYatesPerm returns a fresh random permutation of [0, n). Shuffling
// happens once, up front, per spec §4.1's "shuffle the full ordered set
// once" rationale.
func fisherYatesPerm(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for i := n - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	return perm
}

func excludeAddresses(addrs, exclude []net.IP) []net.IP {
	if len(exclude) == 0 {
		return addrs
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, a := range exclude {
		excluded[a.String()] = struct{}{}
	}

	kept := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if _, skip := excluded[a.String()]; !skip {
			kept = append(kept, a)
		}
	}

	return kept
}

func excludePorts(ports, exclude []int) []int {
	if len(exclude) == 0 {
		return ports
	}

	excluded := make(map[int]struct{}, len(exclude))
	for _, p := range exclude {
		excluded[p] = struct{}{}
	}

	kept := make([]int, 0, len(ports))
	for _, p := range ports {
		if _, skip := excluded[p]; !skip {
			kept = append(kept, p)
		}
	}

	return kept
}
