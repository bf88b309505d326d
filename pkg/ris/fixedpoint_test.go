package ris

import (
	"math"
	"testing"
)

// ============================================================
// Round-trip resolution bounds
// ============================================================

func TestQ8_RoundTripBound(t *testing.T) {
	// q8 int16 covers roughly -128..127.99 N.m
	values := []float64{-127.5, -23.93, -1.0, -0.001, 0.0, 0.0039, 1.5, 33.33, 127.9}
	for _, v := range values {
		got := fromQ8(toQ8(v))
		if math.Abs(got-v) > 0.5/q8Scale {
			t.Errorf("q8 round trip of %v: got %v, error %v exceeds %v", v, got, math.Abs(got-v), 0.5/q8Scale)
		}
	}
}

func TestQ7_RoundTripBound(t *testing.T) {
	// q7 int16 covers roughly -256..255.99 rad/s
	values := []float64{-255.5, -37.68, -6.28, 0.0, 0.0078, 3.140625, 100.1, 255.9}
	for _, v := range values {
		got := fromQ7(toQ7(v))
		if math.Abs(got-v) > 0.5/q7Scale {
			t.Errorf("q7 round trip of %v: got %v, error %v exceeds %v", v, got, math.Abs(got-v), 0.5/q7Scale)
		}
	}
}

func TestQ15_RoundTripBound(t *testing.T) {
	values := []float64{-65536.0, -823.13, -3.14159, -0.125, 0.0, 0.5, 6.28, 999.999, 65535.5}
	for _, v := range values {
		got := fromQ15(toQ15(v))
		if math.Abs(got-v) > 0.5/q15Scale {
			t.Errorf("q15 round trip of %v: got %v, error %v exceeds %v", v, got, math.Abs(got-v), 0.5/q15Scale)
		}
	}
}

func TestGain_RoundTripBound(t *testing.T) {
	values := []float64{0.0, 0.01, 0.25, 0.5, 0.777, 1.0}
	for _, v := range values {
		got := fromGain(toGain(v))
		if math.Abs(got-v) > 0.5/q15Scale {
			t.Errorf("gain round trip of %v: got %v, error %v exceeds %v", v, got, math.Abs(got-v), 0.5/q15Scale)
		}
	}
}

// ============================================================
// Known encodings
// ============================================================

func TestFixedPoint_KnownEncodings(t *testing.T) {
	if got := toQ7(-37.68); got != -4823 {
		t.Errorf("toQ7(-37.68) = %d, want -4823", got)
	}
	if got := toQ8(1.5); got != 384 {
		t.Errorf("toQ8(1.5) = %d, want 384", got)
	}
	if got := toQ15(0.5); got != 16384 {
		t.Errorf("toQ15(0.5) = %d, want 16384", got)
	}
	if got := toGain(0.01); got != 328 {
		t.Errorf("toGain(0.01) = %d, want 328", got)
	}
	if got := toGain(1.0); got != 32768 {
		t.Errorf("toGain(1.0) = %d, want 32768", got)
	}
}

// ============================================================
// Saturation
// ============================================================

func TestFixedPoint_Saturation(t *testing.T) {
	if got := toQ8(1e9); got != math.MaxInt16 {
		t.Errorf("toQ8 overflow should saturate to %d, got %d", math.MaxInt16, got)
	}
	if got := toQ8(-1e9); got != math.MinInt16 {
		t.Errorf("toQ8 underflow should saturate to %d, got %d", math.MinInt16, got)
	}
	if got := toQ7(1e9); got != math.MaxInt16 {
		t.Errorf("toQ7 overflow should saturate to %d, got %d", math.MaxInt16, got)
	}
	if got := toQ15(1e12); got != math.MaxInt32 {
		t.Errorf("toQ15 overflow should saturate to %d, got %d", math.MaxInt32, got)
	}
	if got := toQ15(-1e12); got != math.MinInt32 {
		t.Errorf("toQ15 underflow should saturate to %d, got %d", math.MinInt32, got)
	}
	// Gains clamp to [0.0, 1.0] before scaling, never to the uint16 maximum.
	if got := toGain(5.0); got != 32768 {
		t.Errorf("toGain above range should clamp to 32768, got %d", got)
	}
	if got := toGain(-5.0); got != 0 {
		t.Errorf("toGain below range should clamp to 0, got %d", got)
	}
}
