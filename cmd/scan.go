// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 umas2022

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/umas2022/MultiAxisController-go8010/pkg/motorbus"
	"github.com/umas2022/MultiAxisController-go8010/pkg/ris"
)

var (
	scanFirstID int
	scanLastID  int
	scanDelayMs int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover motors on the bus",
	Long: `Probe each id in the scan window with an inert closed-loop command
(zero position, velocity and torque, kp=0, kd=0.01) and report the ids that
answered with a checksum-valid frame.

Each id is probed exactly once; a silent or corrupt reply marks the id as
absent. A fixed delay between probes keeps the bus quiet.

Examples:
  # Full sweep of ids 0-14
  go8010 scan --port /dev/ttyUSB0

  # Narrow window, faster sweep
  go8010 scan --port /dev/ttyUSB0 --first 0 --last 3 --delay-ms 20

Exit codes:
  0 - At least one motor found
  1 - No motors responded
  2 - Connection error`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntVar(&scanFirstID, "first", -1, "First id to probe (default from profile)")
	scanCmd.Flags().IntVar(&scanLastID, "last", -1, "Last id to probe (default from profile)")
	scanCmd.Flags().IntVar(&scanDelayMs, "delay-ms", -1, "Inter-probe delay in milliseconds (default from profile)")
}

func runScan(cmd *cobra.Command, args []string) error {
	session, cfg, connInfo, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer session.Close()

	opts := motorbus.ScanOptions{
		MotorType: ris.GoM80106,
		FirstID:   cfg.Scan.FirstID,
		LastID:    cfg.Scan.LastID,
		Delay:     time.Duration(cfg.Scan.DelayMs) * time.Millisecond,
	}
	if scanFirstID >= 0 {
		opts.FirstID = uint8(scanFirstID)
	}
	if scanLastID >= 0 {
		opts.LastID = uint8(scanLastID)
	}
	if scanDelayMs >= 0 {
		opts.Delay = time.Duration(scanDelayMs) * time.Millisecond
	}

	fmt.Printf("go8010 - Bus Scan\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Window: ids %d-%d, %s between probes\n\n", opts.FirstID, opts.LastID, opts.Delay)

	found, err := motorbus.Scan(session, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("--- Scan summary ---\n")
	fmt.Printf("Motors found: %d\n", len(found))
	for _, id := range found {
		fmt.Printf("  id %d\n", id)
	}

	if len(found) == 0 {
		fmt.Printf("No motors responded. Check wiring, power and baud rate.\n")
		os.Exit(1)
	}
	return nil
}
