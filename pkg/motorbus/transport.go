// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

// Package motorbus drives GO-M8010-6 series actuators over a point-to-point
// serial bus. It owns the byte transport, the single-transaction session
// and the id sweep used to discover motors.
//
// One Transport represents one exclusive physical channel. The package does
// no internal locking or retrying: a control loop issues one Transact per
// cycle from a single goroutine, and any recovery policy lives in the
// caller.
package motorbus

import "errors"

// ErrTimeout is returned when fewer bytes than requested arrive within the
// transport's read timeout.
var ErrTimeout = errors.New("motorbus: receive timeout")

// Transport is a synchronous byte channel to the motor bus.
type Transport interface {
	// Send writes the frame and returns the number of bytes written.
	Send(p []byte) (n int, err error)

	// Receive blocks until n bytes arrive or the read timeout elapses.
	// On timeout it returns the bytes read so far and an error wrapping
	// ErrTimeout.
	Receive(n int) ([]byte, error)

	// DiscardInput drops any stale bytes queued on the channel. Called
	// before each transaction so a late reply to an earlier command
	// cannot be mistaken for the current one.
	DiscardInput() error

	// Close releases the channel.
	Close() error
}
