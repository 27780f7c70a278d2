package cmd

import (
	"fmt"
	"strings"

	"github.com/ibrahmsql/phobos/scan"
)

// pad right-pads s to width w, matching the teacher's table renderer in
// the old scan/result.go.
func pad(s string, w int) string {
	if len(s) >= w {
		return s + " "
	}

	return s + strings.Repeat(" ", w-len(s))
}

// printHostResult renders one HostResult in the teacher's PORT/STATE/
// SERVICE table style. When the scan stayed at or under the memory
// retention threshold, AllResults is populated and every probed port is
// shown; above the threshold only OpenPorts is available, so only open
// ports are printed and the summary line carries the rest.
func printHostResult(r scan.HostResult) {
	fmt.Printf("\nHost: %s\n", r.Address.String())

	rows := r.AllResults
	if rows == nil {
		rows = r.OpenPorts
	}

	if len(rows) == 0 {
		fmt.Println("  (no results)")
	} else {
		fmt.Printf("  %s%s%s\n", pad("PORT", 8), pad("STATE", 10), "SERVICE")
		for _, pr := range rows {
			fmt.Printf("  %s%s%s\n", pad(fmt.Sprintf("%d", pr.Port), 8), pad(pr.State.String(), 10), scan.DescribePort(pr.Port))
		}
	}

	snap := r.Stats
	fmt.Printf("  %d open, %d closed, %d filtered, %d probes, %d retried, %s elapsed\n",
		snap.OpenCount, snap.ClosedCount, snap.FilteredCount, snap.ProbesSent, snap.RetriedCount, snap.Elapsed)

	if r.Partial {
		fmt.Printf("  partial: %d probes not attempted\n", r.NotAttempted)
	}
}

func printSummary(stats scan.StatsSnapshot) {
	fmt.Printf("\n%d probes sent, %d open, %d closed, %d filtered, %d retried in %s\n",
		stats.ProbesSent, stats.OpenCount, stats.ClosedCount, stats.FilteredCount, stats.RetriedCount, stats.Elapsed)
}
