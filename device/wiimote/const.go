package wiimote

const (
	// ReportIDCoreAccel is the data reporting mode carrying buttons and accelerometer.
	ReportIDCoreAccel = 0x31

	ReportSize = 6
)

// Factory accelerometer calibration of a typical Wiimote.
const (
	DefaultZeroG = 0x200
	DefaultOneG  = 0x268
)

const (
	// Accelerometer LSBs are packed into unused button bits.
	accelXLSBShift = 5
	accelYLSBShift = 5
	accelZLSBShift = 6

	buttonBitsLo = 0x1f
	buttonBitsHi = 0x9f
)
