// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package motorbus

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Serial defaults for the GO-M8010-6 RS-485 bus.
const (
	DefaultBaudRate    = 4000000
	DefaultReadTimeout = 20 * time.Millisecond
)

// SerialConfig describes a serial channel. All parameters are explicit;
// DefaultSerialConfig returns the documented 4,000,000 baud 8-N-1 profile
// with a 20 ms read timeout.
type SerialConfig struct {
	Port        string
	BaudRate    int
	DataBits    int
	Parity      serial.Parity
	StopBits    serial.StopBits
	ReadTimeout time.Duration
}

// DefaultSerialConfig returns the standard bus profile for the given port.
func DefaultSerialConfig(port string) SerialConfig {
	return SerialConfig{
		Port:        port,
		BaudRate:    DefaultBaudRate,
		DataBits:    8,
		Parity:      serial.NoParity,
		StopBits:    serial.OneStopBit,
		ReadTimeout: DefaultReadTimeout,
	}
}

// SerialTransport is a Transport over a local serial port.
type SerialTransport struct {
	port serial.Port
}

// OpenSerial opens and configures the serial channel described by cfg.
func OpenSerial(cfg SerialConfig) (*SerialTransport, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("motorbus: open serial port %s: %w", cfg.Port, err)
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("motorbus: set read timeout on %s: %w", cfg.Port, err)
	}

	return &SerialTransport{port: port}, nil
}

// Send writes p to the port.
func (t *SerialTransport) Send(p []byte) (int, error) {
	n, err := t.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("motorbus: serial write: %w", err)
	}
	return n, nil
}

// Receive accumulates exactly n bytes. A zero-length read from the port
// signals that the configured timeout elapsed with the bus idle.
func (t *SerialTransport) Receive(n int) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		m, err := t.port.Read(buf[read:])
		if err != nil {
			return buf[:read], fmt.Errorf("motorbus: serial read: %w", err)
		}
		if m == 0 {
			return buf[:read], fmt.Errorf("%w: got %d of %d bytes", ErrTimeout, read, n)
		}
		read += m
	}
	return buf, nil
}

// DiscardInput drops any bytes pending in the receive buffer.
func (t *SerialTransport) DiscardInput() error {
	return t.port.ResetInputBuffer()
}

// Close releases the port.
func (t *SerialTransport) Close() error {
	return t.port.Close()
}
