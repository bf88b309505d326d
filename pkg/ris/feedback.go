// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package ris

import "time"

// Feedback is one motor's decoded reply to a command frame. It is only
// trustworthy when Valid reports true: a Feedback built from a short,
// misaddressed or checksum-invalid frame carries zeroed fields that must
// not be read as real measurements.
type Feedback struct {
	id        uint8
	modeCode  uint8
	q         float64 // measured position (rad)
	dq        float64 // measured velocity (rad/s)
	tau       float64 // measured torque (N.m)
	temp      int     // winding temperature (degrees C)
	fault     FaultCode
	footForce uint16 // foot-end pressure sample, 0-4095
	valid     bool
	timestamp time.Time
}

// Valid reports whether the source frame passed header and CRC checks.
// Every other accessor is meaningless when this is false.
func (f Feedback) Valid() bool {
	return f.valid
}

// ID returns the reporting motor address.
func (f Feedback) ID() uint8 {
	return f.id
}

// ModeCode returns the raw wire status code the motor reported.
func (f Feedback) ModeCode() uint8 {
	return f.modeCode
}

// Position returns the measured position in rad.
func (f Feedback) Position() float64 {
	return f.q
}

// Velocity returns the measured velocity in rad/s.
func (f Feedback) Velocity() float64 {
	return f.dq
}

// Torque returns the measured torque in N.m.
func (f Feedback) Torque() float64 {
	return f.tau
}

// Temperature returns the winding temperature in degrees Celsius.
func (f Feedback) Temperature() int {
	return f.temp
}

// Fault returns the motor's self-reported error condition.
func (f Feedback) Fault() FaultCode {
	return f.fault
}

// FootForce returns the raw foot-end pressure sample (0-4095).
func (f Feedback) FootForce() uint16 {
	return f.footForce
}

// Timestamp returns the decode time of the frame.
func (f Feedback) Timestamp() time.Time {
	return f.timestamp
}
