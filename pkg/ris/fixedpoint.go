// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package ris

import "math"

// Fixed-point wire formats. A qN value stores round(x * 2^N) in an integer
// field; decoding divides by the same scale. Encoding saturates to the
// representable range of the target field instead of wrapping, so the
// round-trip error is at most 0.5/scale for in-range values and out-of-range
// values clamp to the nearest boundary.
const (
	q8Scale  = 256   // torque, int16
	q7Scale  = 128   // velocity, int16
	q15Scale = 32768 // position (int32) and gains (uint16)
)

// toQ8 encodes a torque in N.m as a q8 int16.
func toQ8(v float64) int16 {
	return int16(clamp(math.Round(v*q8Scale), math.MinInt16, math.MaxInt16))
}

// fromQ8 decodes a q8 int16 to N.m.
func fromQ8(raw int16) float64 {
	return float64(raw) / q8Scale
}

// toQ7 encodes a velocity in rad/s as a q7 int16.
func toQ7(v float64) int16 {
	return int16(clamp(math.Round(v*q7Scale), math.MinInt16, math.MaxInt16))
}

// fromQ7 decodes a q7 int16 to rad/s.
func fromQ7(raw int16) float64 {
	return float64(raw) / q7Scale
}

// toQ15 encodes a position in rad as a q15 int32.
func toQ15(v float64) int32 {
	return int32(clamp(math.Round(v*q15Scale), math.MinInt32, math.MaxInt32))
}

// fromQ15 decodes a q15 int32 to rad.
func fromQ15(raw int32) float64 {
	return float64(raw) / q15Scale
}

// toGain encodes a stiffness or damping coefficient as a q15 uint16.
// Gains are clamped to [0.0, 1.0] before scaling, matching the vendor
// driver: 1.0 encodes as 32768, not the uint16 maximum.
func toGain(v float64) uint16 {
	v = clamp(v, 0.0, 1.0)
	return uint16(clamp(math.Round(v*q15Scale), 0, math.MaxUint16))
}

// fromGain decodes a q15 uint16 gain.
func fromGain(raw uint16) float64 {
	return float64(raw) / q15Scale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
