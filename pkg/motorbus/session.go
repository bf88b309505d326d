// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package motorbus

import (
	"fmt"
	"time"

	"github.com/umas2022/MultiAxisController-go8010/pkg/ris"
)

// Session performs one command/feedback exchange per call over a Transport.
// It is not safe for concurrent use: interleaved writers would corrupt
// framing on the shared channel, so callers serialize access themselves.
type Session struct {
	transport Transport
	recorder  *Recorder
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRecorder attaches a trace recorder; every transaction is appended to
// it. Recorder failures never interrupt the exchange.
func WithRecorder(rec *Recorder) SessionOption {
	return func(s *Session) {
		s.recorder = rec
	}
}

// NewSession wraps an open transport.
func NewSession(t Transport, opts ...SessionOption) *Session {
	s := &Session{transport: t}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transact encodes cmd, sends it and reads back one feedback frame.
//
// A nil error with fb.Valid() == false means a structurally complete frame
// arrived but failed its header or CRC check: the motor is present but the
// reading cannot be trusted. A non-nil error means the exchange itself
// failed (encode error, write failure, or timeout before 16 bytes arrived).
//
// Broadcast commands are sent without a receive attempt and return a zero
// Feedback with nil error, since no motor replies to them.
func (s *Session) Transact(cmd ris.Command) (ris.Feedback, error) {
	frame, err := ris.EncodeCommand(cmd)
	if err != nil {
		return ris.Feedback{}, fmt.Errorf("motorbus: %w", err)
	}

	if err := s.transport.DiscardInput(); err != nil {
		return ris.Feedback{}, fmt.Errorf("motorbus: discard stale input: %w", err)
	}
	if _, err := s.transport.Send(frame); err != nil {
		return ris.Feedback{}, fmt.Errorf("motorbus: send command: %w", err)
	}

	if cmd.IsBroadcast() {
		s.record(frame, nil, false)
		return ris.Feedback{}, nil
	}

	raw, err := s.transport.Receive(ris.FeedbackFrameSize)
	if err != nil {
		s.record(frame, raw, false)
		return ris.Feedback{}, err
	}

	fb := ris.DecodeFeedback(raw)
	s.record(frame, raw, fb.Valid())
	return fb, nil
}

// Close releases the underlying transport.
func (s *Session) Close() error {
	return s.transport.Close()
}

func (s *Session) record(command, response []byte, valid bool) {
	if s.recorder == nil {
		return
	}
	// Trace failures must not stall the control loop.
	_ = s.recorder.Record(ExchangeRecord{
		Time:     time.Now(),
		Command:  command,
		Response: response,
		Valid:    valid,
	})
}
