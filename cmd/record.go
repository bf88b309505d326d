// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 umas2022

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/umas2022/MultiAxisController-go8010/pkg/motorbus"
	"github.com/umas2022/MultiAxisController-go8010/pkg/ris"
)

var (
	recordMotorID    int
	recordOut        string
	recordCycles     int
	recordIntervalMs int
	recordDq         float64
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Run a fixed-cadence loop and write a CBOR trace",
	Long: `Drive one motor at a constant velocity setpoint on a fixed cadence and
append every exchange (command bytes, response bytes, validity, timestamp)
to a CBOR trace file. The trace is a stream of self-delimiting records and
can be replayed or inspected offline.

With --dq 0 the loop is a pure feedback recorder. The motor is braked when
the loop finishes or is interrupted.

Examples:
  # Record 1000 passive cycles at 100 Hz
  go8010 record --port /dev/ttyUSB0 --id 0 --out trace.cbor --cycles 1000 --interval-ms 10

  # Spin at 6.28 rad/s (rotor side) while recording
  go8010 record --port /dev/ttyUSB0 --id 0 --out spin.cbor --dq 6.28

Exit codes:
  0 - Loop completed
  1 - Loop aborted by a transport failure
  2 - Connection or argument error`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().IntVar(&recordMotorID, "id", 0, "Motor id (0-14)")
	recordCmd.Flags().StringVar(&recordOut, "out", "trace.cbor", "Trace output file")
	recordCmd.Flags().IntVar(&recordCycles, "cycles", 500, "Number of exchanges to record")
	recordCmd.Flags().IntVar(&recordIntervalMs, "interval-ms", 10, "Loop period in milliseconds")
	recordCmd.Flags().Float64Var(&recordDq, "dq", 0, "Velocity setpoint, rotor side (rad/s)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	if recordMotorID < 0 || recordMotorID > int(ris.MaxMotorID) {
		fmt.Fprintf(os.Stderr, "Argument error: id %d out of range 0-%d\n", recordMotorID, ris.MaxMotorID)
		os.Exit(2)
	}
	if recordCycles <= 0 || recordIntervalMs <= 0 {
		fmt.Fprintf(os.Stderr, "Argument error: cycles and interval must be positive\n")
		os.Exit(2)
	}

	out, err := os.Create(recordOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create trace file: %v\n", err)
		os.Exit(2)
	}
	defer out.Close()

	session, cfg, connInfo, err := openSession(motorbus.WithRecorder(motorbus.NewRecorder(out)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer session.Close()

	kd := cfg.Control.Kd
	if recordDq == 0 {
		kd = 0
	}
	command, err := ris.NewVelocityCommand(ris.GoM80106, uint8(recordMotorID), recordDq, kd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Argument error: %v\n", err)
		os.Exit(2)
	}

	interval := time.Duration(recordIntervalMs) * time.Millisecond
	fmt.Printf("go8010 - Trace Recorder\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Motor %d, %d cycles at %s, trace -> %s\n", recordMotorID, recordCycles, interval, recordOut)
	fmt.Printf("Press Ctrl+C to stop early\n\n")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var valid, timeouts, corrupt int
	completed := 0
	abort := false

loop:
	for completed < recordCycles {
		select {
		case <-sigCh:
			fmt.Printf("\nInterrupted after %d cycles\n", completed)
			break loop
		case <-ticker.C:
		}

		feedback, err := session.Transact(command)
		completed++
		switch {
		case err != nil && errors.Is(err, motorbus.ErrTimeout):
			timeouts++
		case err != nil:
			fmt.Fprintf(os.Stderr, "Transport failure on cycle %d: %v\n", completed, err)
			abort = true
			break loop
		case !feedback.Valid():
			corrupt++
		default:
			valid++
			if feedback.Temperature() >= ris.TempProtectLimit {
				fmt.Fprintf(os.Stderr, "Warning: motor at %d C on cycle %d, stopping\n",
					feedback.Temperature(), completed)
				break loop
			}
		}
	}

	// Release the motor before reporting
	if brake, err := ris.NewBrakeCommand(ris.GoM80106, uint8(recordMotorID)); err == nil {
		session.Transact(brake)
	}

	fmt.Printf("--- Recording summary ---\n")
	fmt.Printf("Cycles:   %d\n", completed)
	fmt.Printf("Valid:    %d\n", valid)
	fmt.Printf("Timeouts: %d\n", timeouts)
	fmt.Printf("Corrupt:  %d\n", corrupt)
	fmt.Printf("Trace:    %s\n", recordOut)

	if abort {
		os.Exit(1)
	}
	return nil
}
