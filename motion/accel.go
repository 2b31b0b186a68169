package motion

import "math"

// AccelMaxValue is the largest encodable 10-bit sample.
const AccelMaxValue = 1<<10 - 1

// AccelData is an encoded accelerometer sample triplet.
type AccelData struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
	Z uint16 `json:"z"`
}

// ConvertAccelData encodes accel (m/s²) into 10-bit samples given the codes
// the device reports at 0 g and 1 g. Values outside the range saturate.
func ConvertAccelData(accel Vec3, zeroG, oneG uint16) AccelData {
	scaled := accel.Scale((float64(oneG) - float64(zeroG)) / GravityAcceleration)
	return AccelData{
		X: encodeAccel(scaled[AxisX] + float64(zeroG)),
		Y: encodeAccel(scaled[AxisY] + float64(zeroG)),
		Z: encodeAccel(scaled[AxisZ] + float64(zeroG)),
	}
}

func encodeAccel(v float64) uint16 {
	if math.IsNaN(v) {
		return 0
	}
	return uint16(clamp(math.Round(v), 0, AccelMaxValue))
}

// Decode converts a sample triplet back into m/s².
func (d AccelData) Decode(zeroG, oneG uint16) Vec3 {
	scale := GravityAcceleration / (float64(oneG) - float64(zeroG))
	return Vec3{
		(float64(d.X) - float64(zeroG)) * scale,
		(float64(d.Y) - float64(zeroG)) * scale,
		(float64(d.Z) - float64(zeroG)) * scale,
	}
}
