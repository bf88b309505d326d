// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package motorbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/umas2022/MultiAxisController-go8010/pkg/ris"
)

// ScanOptions controls a bus sweep.
type ScanOptions struct {
	MotorType ris.MotorType
	FirstID   uint8
	LastID    uint8
	// Delay is the pause after each probe, keeping the bus quiet between
	// candidates. The probe itself already blocks up to the transport
	// timeout for silent ids.
	Delay time.Duration
}

// DefaultScanOptions sweeps the full addressable range with a 50 ms
// inter-probe delay.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		MotorType: ris.GoM80106,
		FirstID:   0,
		LastID:    ris.MaxMotorID,
		Delay:     50 * time.Millisecond,
	}
}

// Scan probes every id in [FirstID, LastID] once and returns the ids that
// answered with a checksum-valid frame. A timeout or an invalid frame marks
// the id as absent; there are no retries within the sweep.
//
// The probe is deliberately inert: closed-loop mode with zero position,
// velocity and torque, kp=0 and kd=0.01, so a motor that answers does not
// move.
func Scan(s *Session, opts ScanOptions) ([]uint8, error) {
	if opts.LastID > ris.MaxMotorID {
		return nil, fmt.Errorf("motorbus: scan upper bound %d exceeds max addressable id %d", opts.LastID, ris.MaxMotorID)
	}
	if opts.FirstID > opts.LastID {
		return nil, fmt.Errorf("motorbus: scan range %d-%d is empty", opts.FirstID, opts.LastID)
	}

	var found []uint8
	for id := opts.FirstID; ; id++ {
		probe, err := ris.NewCommand(opts.MotorType, id, ris.ModeFOC, 0, 0, 0, 0, 0.01)
		if err != nil {
			return found, fmt.Errorf("motorbus: build probe for id %d: %w", id, err)
		}

		fb, err := s.Transact(probe)
		switch {
		case err == nil && fb.Valid():
			found = append(found, id)
		case err != nil && !errors.Is(err, ErrTimeout):
			// A broken channel fails the whole sweep; a silent id does not.
			return found, err
		}

		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
		if id == opts.LastID {
			break
		}
	}

	return found, nil
}
