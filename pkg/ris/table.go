// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package ris

import "fmt"

// Static per-family protocol tables. Populated once here and never mutated,
// so they are safe for concurrent readers.
var modeCodes = map[MotorType]map[ControlMode]uint8{
	GoM80106: {
		ModeBrake:     0,
		ModeFOC:       1,
		ModeCalibrate: 2,
	},
}

var gearRatios = map[MotorType]float64{
	GoM80106: 6.0,
}

// UnsupportedModeError reports a (motor type, control mode) pair with no
// wire code. It indicates a programming error, not a bus condition.
type UnsupportedModeError struct {
	Type MotorType
	Mode ControlMode
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("ris: motor type %s does not support mode %s", e.Type, e.Mode)
}

// QueryMotorMode returns the wire mode code for the given motor type and
// control mode. There is no default: an unknown combination is an error.
func QueryMotorMode(t MotorType, m ControlMode) (uint8, error) {
	if codes, ok := modeCodes[t]; ok {
		if code, ok := codes[m]; ok {
			return code, nil
		}
	}
	return 0, &UnsupportedModeError{Type: t, Mode: m}
}

// QueryGearRatio returns the mechanical reduction ratio for the motor type.
// Unknown types report 1.0 (direct drive).
func QueryGearRatio(t MotorType) float64 {
	if ratio, ok := gearRatios[t]; ok {
		return ratio
	}
	return 1.0
}
