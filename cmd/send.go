// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 umas2022

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umas2022/MultiAxisController-go8010/pkg/motorbus"
	"github.com/umas2022/MultiAxisController-go8010/pkg/ris"
)

var (
	sendMotorID int
	sendMode    string
	sendQ       float64
	sendDq      float64
	sendTau     float64
	sendKp      float64
	sendKd      float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single command and print the reply",
	Long: `Build one command frame from the flags, transmit it and print the decoded
feedback. Gains default to the profile's control section when the flags are
left at their sentinel value.

A command to the broadcast id (15) is transmitted without waiting for a
reply, since every motor acts on it and none answers.

Examples:
  # Hold position 1.57 rad (rotor side) on motor 3
  go8010 send --port /dev/ttyUSB0 --id 3 --mode foc --q 1.57 --kp 0.05 --kd 0.01

  # Pure damping
  go8010 send --port /dev/ttyUSB0 --id 3 --mode foc --kd 0.02

  # Release motor 3
  go8010 send --port /dev/ttyUSB0 --id 3 --mode brake

Exit codes:
  0 - Reply received and checksum-valid (or broadcast sent)
  1 - No reply, or the reply failed validation
  2 - Connection or argument error`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().IntVar(&sendMotorID, "id", 0, "Motor id (0-14, 15 broadcasts)")
	sendCmd.Flags().StringVar(&sendMode, "mode", "foc", "Control mode: brake, foc or calibrate")
	sendCmd.Flags().Float64Var(&sendQ, "q", 0, "Target position, rotor side (rad)")
	sendCmd.Flags().Float64Var(&sendDq, "dq", 0, "Target velocity, rotor side (rad/s)")
	sendCmd.Flags().Float64Var(&sendTau, "tau", 0, "Feedforward torque, rotor side (N.m)")
	sendCmd.Flags().Float64Var(&sendKp, "kp", -1, "Position gain in [0,1] (default from profile)")
	sendCmd.Flags().Float64Var(&sendKd, "kd", -1, "Velocity gain in [0,1] (default from profile)")
}

func parseMode(name string) (ris.ControlMode, error) {
	switch strings.ToLower(name) {
	case "brake":
		return ris.ModeBrake, nil
	case "foc":
		return ris.ModeFOC, nil
	case "calibrate":
		return ris.ModeCalibrate, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want brake, foc or calibrate)", name)
}

func runSend(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(sendMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Argument error: %v\n", err)
		os.Exit(2)
	}
	if sendMotorID < 0 || sendMotorID > int(ris.BroadcastID) {
		fmt.Fprintf(os.Stderr, "Argument error: id %d out of range 0-%d\n", sendMotorID, ris.BroadcastID)
		os.Exit(2)
	}

	session, cfg, connInfo, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer session.Close()

	kp := cfg.Control.Kp
	kd := cfg.Control.Kd
	if sendKp >= 0 {
		kp = sendKp
	}
	if sendKd >= 0 {
		kd = sendKd
	}

	command, err := ris.NewCommand(ris.GoM80106, uint8(sendMotorID), mode, sendQ, sendDq, sendTau, kp, kd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Argument error: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("go8010 - Single Command\n")
	fmt.Printf("Connection: %s\n\n", connInfo)
	fmt.Println(ris.FormatCommand(command))

	feedback, err := session.Transact(command)
	if err != nil {
		if errors.Is(err, motorbus.ErrTimeout) {
			fmt.Fprintf(os.Stderr, "No reply from motor %d: %v\n", sendMotorID, err)
		} else {
			fmt.Fprintf(os.Stderr, "Transaction failed: %v\n", err)
		}
		os.Exit(1)
	}

	if command.IsBroadcast() {
		fmt.Println("Broadcast sent, no reply expected.")
		return nil
	}

	fmt.Println(ris.FormatFeedback(feedback))
	if !feedback.Valid() {
		os.Exit(1)
	}
	if feedback.Temperature() >= ris.TempProtectLimit {
		fmt.Fprintf(os.Stderr, "Warning: motor %d at %d C, at or above the %d C protection limit\n",
			feedback.ID(), feedback.Temperature(), ris.TempProtectLimit)
	}
	return nil
}
