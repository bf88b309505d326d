// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

// Package ris implements the Unitree RIS serial protocol for GO-M8010-6
// series actuators.
//
// The protocol is a fixed-size binary command/feedback exchange: the host
// sends a 17-byte command frame and the addressed motor answers with a
// 16-byte feedback frame. All multi-byte fields are little-endian and the
// last two bytes of each frame carry a CRC-16-CCITT checksum over the
// preceding bytes. Physical quantities travel as fixed-point integers
// (q8 torque, q7 velocity, q15 position and gains).
package ris

// Frame header bytes, shared by command and feedback frames.
const (
	HeadByte0 = 0xAA
	HeadByte1 = 0x55
)

// Frame sizes. The CRC covers everything before the trailing two bytes.
const (
	CommandFrameSize  = 17 // head(2) + mode(1) + payload(12) + crc(2)
	FeedbackFrameSize = 16 // head(2) + mode(1) + payload(11) + crc(2)
)

// CRC-16-CCITT configuration
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// Motor address space. IDs 0-14 address individual motors. BroadcastID is
// accepted by every motor on the bus; none of them replies to it.
const (
	MaxMotorID  = 14
	BroadcastID = 15
)

// TempProtectLimit is the advisory winding temperature limit in degrees
// Celsius. The codec does not enforce it; control loops are expected to
// back off or stop when feedback reports this temperature or above.
const TempProtectLimit = 90

// MotorType identifies an actuator family. The family selects the wire
// mode codes and the mechanical gear ratio.
type MotorType int

// Supported actuator families
const (
	GoM80106 MotorType = iota
)

func (t MotorType) String() string {
	switch t {
	case GoM80106:
		return "GO-M8010-6"
	}
	return "UNKNOWN"
}

// ControlMode is the logical operating mode requested from a motor. The
// numeric wire code for a (MotorType, ControlMode) pair comes from
// QueryMotorMode.
type ControlMode int

// Control mode values
const (
	ModeBrake     ControlMode = iota // rotor locked
	ModeFOC                          // closed-loop field-oriented control
	ModeCalibrate                    // encoder calibration
)

func (m ControlMode) String() string {
	switch m {
	case ModeBrake:
		return "BRAKE"
	case ModeFOC:
		return "FOC"
	case ModeCalibrate:
		return "CALIBRATE"
	}
	return "UNKNOWN"
}

// FaultCode is the motor's self-reported error condition.
type FaultCode uint8

// Fault code values
const (
	FaultNone        FaultCode = 0
	FaultOverheat    FaultCode = 1
	FaultOvercurrent FaultCode = 2
	FaultOvervoltage FaultCode = 3
	FaultEncoder     FaultCode = 4
)

func (f FaultCode) String() string {
	switch f {
	case FaultNone:
		return "NONE"
	case FaultOverheat:
		return "OVERHEAT"
	case FaultOvercurrent:
		return "OVERCURRENT"
	case FaultOvervoltage:
		return "OVERVOLTAGE"
	case FaultEncoder:
		return "ENCODER_FAULT"
	}
	return "UNKNOWN"
}
