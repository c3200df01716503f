package main

import (
	"fmt"

	"github.com/katalvlaran/cnc-tsn/engine"
)

// printSummary renders one configure pass per spec §7's user-visible
// behavior: TSN routes, AVB routes with WCD/deadline ratio and reroute
// flag, and the scalar cost.
func printSummary(s engine.Summary) {
	fmt.Printf("=== pass %d ===\n", s.Pass)

	fmt.Println("TSN streams:")
	for _, r := range s.TSN {
		status := "schedulable"
		if !r.Schedulable {
			status = "UNSCHEDULABLE"
		}
		fmt.Printf("  stream %d: route=%v queue=%d %s reroute=%t\n", r.StreamID, r.Route, r.Queue, status, r.Rerouted)
	}

	fmt.Println("AVB streams:")
	for _, r := range s.AVB {
		fmt.Printf("  stream %d: route=%v wcd=%d deadline=%d ratio=%.3f reroute=%t\n",
			r.StreamID, r.Route, r.WCD, r.Deadline, r.Ratio, r.Rerouted)
	}

	fmt.Printf("cost: %.6f (tsn_schedule_fail=%t avb_deadline_miss=%d avb_wcd_total=%d)\n\n",
		s.Cost.Scalar, s.Cost.TSNScheduleFail, s.Cost.AVBDeadlineMiss, s.Cost.AVBWCDTotal)
}
