// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package ris

import (
	"fmt"
	"math"
)

// Command is an immutable outbound control value for one motor. Build one
// per control cycle through NewCommand or the convenience constructors;
// encoding the same Command always yields a byte-identical frame.
//
// Position (rad), velocity (rad/s) and torque (N.m) are motor-shaft
// quantities; callers working in output-shaft units multiply by the gear
// ratio first (see QueryGearRatio). Gains outside [0.0, 1.0] are clamped
// at encode time.
type Command struct {
	motorType MotorType
	id        uint8
	mode      ControlMode
	q         float64 // desired position (rad)
	dq        float64 // desired velocity (rad/s)
	tau       float64 // feed-forward torque (N.m)
	kp        float64 // position stiffness, 0.0-1.0
	kd        float64 // velocity damping, 0.0-1.0
}

// NewCommand builds a validated Command. The id must be an addressable
// motor (0-14) or BroadcastID; all physical values must be finite.
func NewCommand(t MotorType, id uint8, mode ControlMode, q, dq, tau, kp, kd float64) (Command, error) {
	if id > BroadcastID {
		return Command{}, fmt.Errorf("ris: motor id %d out of range (0-%d)", id, BroadcastID)
	}
	for _, v := range [...]float64{q, dq, tau, kp, kd} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Command{}, fmt.Errorf("ris: command field must be finite, got %v", v)
		}
	}
	return Command{
		motorType: t,
		id:        id,
		mode:      mode,
		q:         q,
		dq:        dq,
		tau:       tau,
		kp:        kp,
		kd:        kd,
	}, nil
}

// NewPositionCommand builds a closed-loop position hold command.
func NewPositionCommand(t MotorType, id uint8, q, kp, kd float64) (Command, error) {
	return NewCommand(t, id, ModeFOC, q, 0, 0, kp, kd)
}

// NewVelocityCommand builds a closed-loop velocity command.
func NewVelocityCommand(t MotorType, id uint8, dq, kd float64) (Command, error) {
	return NewCommand(t, id, ModeFOC, 0, dq, 0, 0, kd)
}

// NewTorqueCommand builds a feed-forward torque command with both gains zero.
func NewTorqueCommand(t MotorType, id uint8, tau float64) (Command, error) {
	return NewCommand(t, id, ModeFOC, 0, 0, tau, 0, 0)
}

// NewBrakeCommand builds a command that locks the rotor.
func NewBrakeCommand(t MotorType, id uint8) (Command, error) {
	return NewCommand(t, id, ModeBrake, 0, 0, 0, 0, 0)
}

// Type returns the motor family the command targets.
func (c Command) Type() MotorType {
	return c.motorType
}

// ID returns the target motor address.
func (c Command) ID() uint8 {
	return c.id
}

// Mode returns the requested control mode.
func (c Command) Mode() ControlMode {
	return c.mode
}

// Position returns the desired position in rad.
func (c Command) Position() float64 {
	return c.q
}

// Velocity returns the desired velocity in rad/s.
func (c Command) Velocity() float64 {
	return c.dq
}

// Torque returns the feed-forward torque in N.m.
func (c Command) Torque() float64 {
	return c.tau
}

// PositionGain returns the position stiffness coefficient.
func (c Command) PositionGain() float64 {
	return c.kp
}

// VelocityGain returns the velocity damping coefficient.
func (c Command) VelocityGain() float64 {
	return c.kd
}

// IsBroadcast returns true if the command is addressed to all motors.
// No motor replies to a broadcast frame.
func (c Command) IsBroadcast() bool {
	return c.id == BroadcastID
}
