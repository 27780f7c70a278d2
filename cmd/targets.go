package cmd

import (
	"fmt"
	"net"
	"strings"
)

// expandTarget is the Target expander collaborator of spec §6: it turns
// one user-supplied target string (a literal IP, a hostname, or a CIDR
// block) into already-resolved IP literals. The core never does this
// itself — it only ever sees the resulting []net.IP.
func expandTarget(target string) ([]net.IP, error) {
	if ip, ipnet, err := net.ParseCIDR(target); err == nil {
		return expandCIDR(ip, ipnet), nil
	}

	if ip := net.ParseIP(target); ip != nil {
		return []net.IP{ip}, nil
	}

	ips, err := net.LookupIP(target)
	if err != nil {
		return nil, fmt.Errorf("could not resolve target '%s': %w", target, err)
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("lookup for '%s' returned no addresses", target)
	}

	return ips[:1], nil
}

// expandCIDR walks every address in the block, including network and
// broadcast addresses — the core treats them as ordinary probe targets,
// consistent with the teacher's own CIDR stepping in
// scan/target-iterator.go.
func expandCIDR(ip net.IP, ipnet *net.IPNet) []net.IP {
	var ips []net.IP

	cur := ip.Mask(ipnet.Mask)
	for ipnet.Contains(cur) {
		next := make(net.IP, len(cur))
		copy(next, cur)
		ips = append(ips, next)

		incrementIP(cur)
	}

	return ips
}

func incrementIP(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}

// expandTargets expands a comma-separated list of targets, in order,
// de-duplicating repeated addresses (spec §3 invariant: HostResult
// addresses must be distinct within a scan).
func expandTargets(args []string) ([]net.IP, error) {
	seen := make(map[string]struct{})

	var all []net.IP

	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			ips, err := expandTarget(part)
			if err != nil {
				return nil, err
			}

			for _, ip := range ips {
				key := ip.String()
				if _, dup := seen[key]; dup {
					continue
				}

				seen[key] = struct{}{}
				all = append(all, ip)
			}
		}
	}

	return all, nil
}
