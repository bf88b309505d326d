// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package motorbus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umas2022/MultiAxisController-go8010/pkg/ris"
)

// fakeTransport scripts the bus side of a transaction. respond receives the
// last command frame and returns the feedback frame, or nil for a silent
// bus (timeout).
type fakeTransport struct {
	respond      func(cmd []byte) []byte
	sent         [][]byte
	sendErr      error
	discardCalls int
	receiveCalls int
	closed       bool
}

func (f *fakeTransport) Send(p []byte) (int, error) {
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	frame := make([]byte, len(p))
	copy(frame, p)
	f.sent = append(f.sent, frame)
	return len(p), nil
}

func (f *fakeTransport) Receive(n int) ([]byte, error) {
	f.receiveCalls++
	var resp []byte
	if f.respond != nil && len(f.sent) > 0 {
		resp = f.respond(f.sent[len(f.sent)-1])
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: got 0 of %d bytes", ErrTimeout, n)
	}
	if len(resp) > n {
		resp = resp[:n]
	}
	return resp, nil
}

func (f *fakeTransport) DiscardInput() error {
	f.discardCalls++
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// buildFeedback assembles a CRC-valid feedback frame for the given motor.
func buildFeedback(id uint8, tau int16, dq int16, q int32, temp int8, fault uint8, force uint16) []byte {
	frame := make([]byte, ris.FeedbackFrameSize)
	frame[0] = ris.HeadByte0
	frame[1] = ris.HeadByte1
	frame[2] = (id & 0x0F) | (1 << 4) // FOC status
	binary.LittleEndian.PutUint16(frame[3:5], uint16(tau))
	binary.LittleEndian.PutUint16(frame[5:7], uint16(dq))
	binary.LittleEndian.PutUint32(frame[7:11], uint32(q))
	frame[11] = uint8(temp)
	binary.LittleEndian.PutUint16(frame[12:14], uint16(fault&0x07)|(force&0xFFF)<<3)
	binary.LittleEndian.PutUint16(frame[14:16], ris.CalculateCRC(frame[:14]))
	return frame
}

// echoResponder answers every command with a valid frame from the probed id.
func echoResponder(temp int8) func(cmd []byte) []byte {
	return func(cmd []byte) []byte {
		id := cmd[2] & 0x0F
		return buildFeedback(id, 384, 402, 16384, temp, 0, 100)
	}
}

func mustCommand(t *testing.T, id uint8) ris.Command {
	t.Helper()
	cmd, err := ris.NewCommand(ris.GoM80106, id, ris.ModeFOC, 0, 6.28, 0, 0, 0.01)
	require.NoError(t, err)
	return cmd
}

func TestTransact_ValidFeedback(t *testing.T) {
	ft := &fakeTransport{respond: echoResponder(25)}
	s := NewSession(ft)

	fb, err := s.Transact(mustCommand(t, 5))
	require.NoError(t, err)
	require.True(t, fb.Valid())

	assert.Equal(t, uint8(5), fb.ID())
	assert.Equal(t, 1.5, fb.Torque())
	assert.Equal(t, 3.140625, fb.Velocity())
	assert.Equal(t, 0.5, fb.Position())
	assert.Equal(t, 25, fb.Temperature())
	assert.Equal(t, ris.FaultNone, fb.Fault())

	assert.Equal(t, 1, ft.discardCalls, "stale input should be discarded before the exchange")
	require.Len(t, ft.sent, 1)
	assert.Len(t, ft.sent[0], ris.CommandFrameSize)
}

func TestTransact_Broadcast(t *testing.T) {
	ft := &fakeTransport{respond: echoResponder(25)}
	s := NewSession(ft)

	cmd, err := ris.NewBrakeCommand(ris.GoM80106, ris.BroadcastID)
	require.NoError(t, err)

	fb, err := s.Transact(cmd)
	require.NoError(t, err)
	assert.False(t, fb.Valid(), "broadcast cannot produce a decoded feedback")
	assert.Equal(t, 0, ft.receiveCalls, "broadcast must never attempt a receive")
	assert.Len(t, ft.sent, 1)
}

func TestTransact_Timeout(t *testing.T) {
	ft := &fakeTransport{} // silent bus
	s := NewSession(ft)

	fb, err := s.Transact(mustCommand(t, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, fb.Valid())
}

func TestTransact_CorruptFrame(t *testing.T) {
	ft := &fakeTransport{
		respond: func(cmd []byte) []byte {
			frame := buildFeedback(cmd[2]&0x0F, 384, 402, 16384, 25, 0, 100)
			frame[13] ^= 0x01 // corrupt the last payload byte
			return frame
		},
	}
	s := NewSession(ft)

	// A full, corrupted frame is a successful exchange with untrustworthy
	// data: nil error, Valid() false. Callers must check Valid, not just err.
	fb, err := s.Transact(mustCommand(t, 0))
	require.NoError(t, err)
	assert.False(t, fb.Valid())
}

func TestTransact_SendError(t *testing.T) {
	ft := &fakeTransport{sendErr: errors.New("device unplugged")}
	s := NewSession(ft)

	_, err := s.Transact(mustCommand(t, 0))
	require.Error(t, err)
	assert.Equal(t, 0, ft.receiveCalls)
}

func TestTransact_UnsupportedMode(t *testing.T) {
	ft := &fakeTransport{respond: echoResponder(25)}
	s := NewSession(ft)

	cmd, err := ris.NewCommand(ris.GoM80106, 0, ris.ControlMode(99), 0, 0, 0, 0, 0)
	require.NoError(t, err)

	_, err = s.Transact(cmd)
	require.Error(t, err)
	var modeErr *ris.UnsupportedModeError
	assert.True(t, errors.As(err, &modeErr))
	assert.Empty(t, ft.sent, "nothing should reach the wire for an unencodable command")
}

func TestTransact_Recorder(t *testing.T) {
	var buf bytes.Buffer
	ft := &fakeTransport{respond: echoResponder(25)}
	s := NewSession(ft, WithRecorder(NewRecorder(&buf)))

	_, err := s.Transact(mustCommand(t, 3))
	require.NoError(t, err)

	broadcast, err := ris.NewBrakeCommand(ris.GoM80106, ris.BroadcastID)
	require.NoError(t, err)
	_, err = s.Transact(broadcast)
	require.NoError(t, err)

	records, err := ReadTrace(&buf)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.True(t, records[0].Valid)
	assert.Equal(t, ft.sent[0], records[0].Command)
	assert.Len(t, records[0].Response, ris.FeedbackFrameSize)

	assert.False(t, records[1].Valid)
	assert.Empty(t, records[1].Response)
}

func TestSession_Close(t *testing.T) {
	ft := &fakeTransport{}
	s := NewSession(ft)
	require.NoError(t, s.Close())
	assert.True(t, ft.closed)
}
