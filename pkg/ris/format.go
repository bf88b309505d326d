// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package ris

import (
	"fmt"
	"strings"
)

// FormatCommand renders a Command in human-readable form for log output.
func FormatCommand(cmd Command) string {
	var s strings.Builder
	fmt.Fprintf(&s, "[%s] id=%d mode=%s", cmd.Type(), cmd.ID(), cmd.Mode())
	if cmd.IsBroadcast() {
		s.WriteString(" (broadcast)")
	}
	fmt.Fprintf(&s, "\n  q=%.4f rad  dq=%.4f rad/s  tau=%.4f N.m", cmd.Position(), cmd.Velocity(), cmd.Torque())
	fmt.Fprintf(&s, "\n  kp=%.4f  kd=%.4f\n", cmd.PositionGain(), cmd.VelocityGain())
	return s.String()
}

// FormatFeedback renders a Feedback in human-readable form for log output.
func FormatFeedback(fb Feedback) string {
	if !fb.Valid() {
		return "INVALID FRAME (header or CRC check failed)\n"
	}

	var s strings.Builder
	fmt.Fprintf(&s, "id=%d status=%d fault=%s", fb.ID(), fb.ModeCode(), fb.Fault())
	fmt.Fprintf(&s, "\n  q=%.4f rad  dq=%.4f rad/s  tau=%.4f N.m", fb.Position(), fb.Velocity(), fb.Torque())
	fmt.Fprintf(&s, "\n  temp=%d C  foot_force=%d", fb.Temperature(), fb.FootForce())
	if fb.Temperature() >= TempProtectLimit {
		s.WriteString("  [OVER TEMPERATURE LIMIT]")
	}
	s.WriteString("\n")
	return s.String()
}
