package ris

import (
	"encoding/binary"
	"fmt"
)

// EncodeCommand serializes a Command into its 17-byte wire frame.
//
// Frame layout, little-endian throughout:
//
//	head(2) = 0xAA 0x55
//	mode(1) = id[0:4] | code[4:7]
//	tor_des int16  q8
//	spd_des int16  q7
//	pos_des int32  q15
//	k_pos   uint16 q15 (clamped to 0.0-1.0)
//	k_spd   uint16 q15 (clamped to 0.0-1.0)
//	crc     uint16 over bytes 0-14
//
// Out-of-range physical values saturate per the fixed-point formats; the
// only failure is a (type, mode) pair the motor table does not define.
func EncodeCommand(cmd Command) ([]byte, error) {
	code, err := QueryMotorMode(cmd.Type(), cmd.Mode())
	if err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}

	buf := make([]byte, CommandFrameSize)
	buf[0] = HeadByte0
	buf[1] = HeadByte1
	buf[2] = (cmd.id & 0x0F) | ((code & 0x07) << 4)
	binary.LittleEndian.PutUint16(buf[3:5], uint16(toQ8(cmd.tau)))
	binary.LittleEndian.PutUint16(buf[5:7], uint16(toQ7(cmd.dq)))
	binary.LittleEndian.PutUint32(buf[7:11], uint32(toQ15(cmd.q)))
	binary.LittleEndian.PutUint16(buf[11:13], toGain(cmd.kp))
	binary.LittleEndian.PutUint16(buf[13:15], toGain(cmd.kd))

	crc := CalculateCRC(buf[:CommandFrameSize-2])
	binary.LittleEndian.PutUint16(buf[CommandFrameSize-2:], crc)

	return buf, nil
}
