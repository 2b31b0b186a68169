package wiimote

import (
	"fmt"
	"io"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/motion"
)

// InputState is the content of a core buttons and accelerometer report.
type InputState struct {
	Buttons uint16
	Accel   motion.AccelData
}

// BuildReport encodes the state into a 6-byte 0x31 report.
//
// Report layout (6 bytes):
//
//	Byte 0: Report ID (0x31)
//	Byte 1: Buttons low (bits 0-4), accel X bits 0-1 (bits 5-6)
//	Byte 2: Buttons high (bits 0-4, 7), accel Y bit 1 (bit 5), accel Z bit 1 (bit 6)
//	Byte 3: Accel X bits 2-9
//	Byte 4: Accel Y bits 2-9
//	Byte 5: Accel Z bits 2-9
func (st InputState) BuildReport() []byte {
	b := make([]byte, ReportSize)
	b[0] = ReportIDCoreAccel
	b[1] = uint8(st.Buttons)&buttonBitsLo | uint8(st.Accel.X&3)<<accelXLSBShift
	b[2] = uint8(st.Buttons>>8)&buttonBitsHi |
		uint8(st.Accel.Y>>1&1)<<accelYLSBShift |
		uint8(st.Accel.Z>>1&1)<<accelZLSBShift
	b[3] = uint8(st.Accel.X >> 2)
	b[4] = uint8(st.Accel.Y >> 2)
	b[5] = uint8(st.Accel.Z >> 2)
	return b
}

// MarshalBinary is BuildReport with the encoding.BinaryMarshaler signature.
func (st *InputState) MarshalBinary() ([]byte, error) {
	return st.BuildReport(), nil
}

// UnmarshalBinary decodes a 0x31 report. Bit 0 of the Y and Z axes is not
// transmitted and decodes as zero.
func (st *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	if data[0] != ReportIDCoreAccel {
		return fmt.Errorf("unexpected report id 0x%02x", data[0])
	}
	st.Buttons = (uint16(data[1]&buttonBitsLo) | uint16(data[2]&buttonBitsHi)<<8) & controls.ButtonMask
	st.Accel = motion.AccelData{
		X: uint16(data[3])<<2 | uint16(data[1]>>accelXLSBShift&3),
		Y: uint16(data[4])<<2 | uint16(data[2]>>accelYLSBShift&1)<<1,
		Z: uint16(data[5])<<2 | uint16(data[2]>>accelZLSBShift&1)<<1,
	}
	return nil
}
