// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package motorbus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umas2022/MultiAxisController-go8010/pkg/ris"
)

// respondOnly answers probes for the given ids and stays silent otherwise.
func respondOnly(ids ...uint8) func(cmd []byte) []byte {
	present := make(map[uint8]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}
	return func(cmd []byte) []byte {
		id := cmd[2] & 0x0F
		if !present[id] {
			return nil
		}
		return buildFeedback(id, 0, 0, 0, 30, 0, 0)
	}
}

func TestScan_SingleResponder(t *testing.T) {
	ft := &fakeTransport{respond: respondOnly(3)}
	s := NewSession(ft)

	opts := DefaultScanOptions()
	opts.Delay = 5 * time.Millisecond

	start := time.Now()
	found, err := Scan(s, opts)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, []uint8{3}, found)
	assert.Len(t, ft.sent, 15, "one probe per id, no retries")
	assert.GreaterOrEqual(t, elapsed, 15*opts.Delay, "every probe should be followed by the inter-probe delay")
}

func TestScan_MultipleResponders(t *testing.T) {
	ft := &fakeTransport{respond: respondOnly(0, 7, 14)}
	s := NewSession(ft)

	opts := DefaultScanOptions()
	opts.Delay = 0

	found, err := Scan(s, opts)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 7, 14}, found)
}

func TestScan_EmptyBus(t *testing.T) {
	ft := &fakeTransport{} // nobody home
	s := NewSession(ft)

	opts := DefaultScanOptions()
	opts.Delay = 0

	found, err := Scan(s, opts)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Len(t, ft.sent, 15)
}

func TestScan_CorruptResponderIsAbsent(t *testing.T) {
	ft := &fakeTransport{
		respond: func(cmd []byte) []byte {
			if cmd[2]&0x0F != 4 {
				return nil
			}
			frame := buildFeedback(4, 0, 0, 0, 30, 0, 0)
			frame[5] ^= 0x80
			return frame
		},
	}
	s := NewSession(ft)

	opts := DefaultScanOptions()
	opts.Delay = 0

	found, err := Scan(s, opts)
	require.NoError(t, err)
	assert.Empty(t, found, "a checksum-invalid reply must not count as responsive")
}

func TestScan_TransportFailureAborts(t *testing.T) {
	ft := &fakeTransport{sendErr: errors.New("port gone")}
	s := NewSession(ft)

	opts := DefaultScanOptions()
	opts.Delay = 0

	_, err := Scan(s, opts)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestScan_OptionValidation(t *testing.T) {
	s := NewSession(&fakeTransport{})

	_, err := Scan(s, ScanOptions{FirstID: 0, LastID: 15})
	assert.Error(t, err, "broadcast id must not be probed")

	_, err = Scan(s, ScanOptions{FirstID: 9, LastID: 3})
	assert.Error(t, err)
}

func TestScan_ProbeIsInert(t *testing.T) {
	ft := &fakeTransport{respond: respondOnly()}
	s := NewSession(ft)

	opts := DefaultScanOptions()
	opts.FirstID = 2
	opts.LastID = 2
	opts.Delay = 0

	_, err := Scan(s, opts)
	require.NoError(t, err)
	require.Len(t, ft.sent, 1)

	// Probe carries zero position, velocity, torque and kp; only a small kd.
	probe := ft.sent[0]
	want, err := ris.NewCommand(ris.GoM80106, 2, ris.ModeFOC, 0, 0, 0, 0, 0.01)
	require.NoError(t, err)
	wantFrame, err := ris.EncodeCommand(want)
	require.NoError(t, err)
	assert.Equal(t, wantFrame, probe)
}
