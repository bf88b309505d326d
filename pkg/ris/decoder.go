// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package ris

import (
	"encoding/binary"
	"time"
)

// DecodeFeedback parses a 16-byte feedback frame.
//
// Frame layout, little-endian throughout:
//
//	head(2) = 0xAA 0x55
//	mode(1) = id[0:4] | status[4:7]
//	torque  int16  q8
//	speed   int16  q7
//	pos     int32  q15
//	temp    int8
//	fault/force uint16 = fault[0:3] | force[3:15]
//	crc     uint16 over bytes 0-13
//
// DecodeFeedback never fails: a frame of the wrong length, with a bad
// header or with a CRC mismatch yields a zero Feedback whose Valid method
// reports false. Callers on the hot control path branch on Valid instead
// of handling errors.
func DecodeFeedback(frame []byte) Feedback {
	if len(frame) != FeedbackFrameSize {
		return Feedback{}
	}
	if frame[0] != HeadByte0 || frame[1] != HeadByte1 {
		return Feedback{}
	}

	received := binary.LittleEndian.Uint16(frame[FeedbackFrameSize-2:])
	if CalculateCRC(frame[:FeedbackFrameSize-2]) != received {
		return Feedback{}
	}

	modeByte := frame[2]
	combined := binary.LittleEndian.Uint16(frame[12:14])

	return Feedback{
		id:        modeByte & 0x0F,
		modeCode:  (modeByte >> 4) & 0x07,
		tau:       fromQ8(int16(binary.LittleEndian.Uint16(frame[3:5]))),
		dq:        fromQ7(int16(binary.LittleEndian.Uint16(frame[5:7]))),
		q:         fromQ15(int32(binary.LittleEndian.Uint32(frame[7:11]))),
		temp:      int(int8(frame[11])),
		fault:     FaultCode(combined & 0x07),
		footForce: (combined >> 3) & 0xFFF,
		valid:     true,
		timestamp: time.Now(),
	}
}
