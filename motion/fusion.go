package motion

import "math"

const (
	gyroWeight  = 0.98
	accelWeight = 0.02

	// RecenterThreshold is the control state above which yaw is reset.
	RecenterThreshold = 0.5
)

// NormalizeAngle wraps every component into [0, Tau).
func NormalizeAngle(angle Vec3) Vec3 {
	for i, a := range angle {
		a = math.Mod(a, Tau)
		if a < 0 {
			a += Tau
		}
		// Tiny negative values round up to Tau when shifted.
		if a >= Tau {
			a = 0
		}
		angle[i] = a
	}
	return angle
}

// ComplementaryFilter advances angle by the gyroscope rate and blends the
// result with the tilt implied by the accelerometer.
func ComplementaryFilter(angle, accel, gyro Vec3, dt float64) Vec3 {
	gyroAngle := NormalizeAngle(angle.Add(gyro.Scale(dt)))

	accelAngle := gyroAngle
	if (accel[AxisX] != 0 && accel[AxisY] != 0) || accel[AxisZ] != 0 {
		pitch := -math.Atan2(accel[AxisY], -accel[AxisZ]) + math.Pi
		roll := math.Atan2(accel[AxisX], -accel[AxisZ]) + math.Pi
		accelAngle = Vec3{pitch, roll, gyroAngle[AxisZ]}
	}

	// Estimates on opposite sides of zero describe nearby angles.
	const (
		deg90  = Tau * 0.25
		deg270 = Tau * 0.75
	)
	for _, c := range [...]int{AxisX, AxisY} {
		switch {
		case accelAngle[c] < deg90 && gyroAngle[c] > deg270:
			accelAngle[c] += Tau
		case gyroAngle[c] < deg90 && accelAngle[c] > deg270:
			gyroAngle[c] += Tau
		}
	}

	return NormalizeAngle(gyroAngle.Scale(gyroWeight).Add(accelAngle.Scale(accelWeight)))
}

// IMUCursorSample is the per-tick input of the IMU pointing emulator.
type IMUCursorSample struct {
	Enabled bool
	// Accel is the accelerometer reading in m/s², absent when unbound.
	Accel OptionalVec3
	// Gyro is the angular rate in rad/s, absent when unbound.
	Gyro OptionalVec3
	// Recenter is the state of the yaw reset control.
	Recenter float64
	// TotalYaw is the yaw range allowed around zero in radians.
	TotalYaw float64
}

// FusionEvent describes what a tick did to the orientation estimate.
type FusionEvent uint8

const (
	FusionTracked FusionEvent = iota
	FusionStarted
	FusionStopped
	FusionIdle
)

func (e FusionEvent) String() string {
	switch e {
	case FusionStarted:
		return "started"
	case FusionStopped:
		return "stopped"
	case FusionIdle:
		return "idle"
	default:
		return "tracked"
	}
}

// EmulateIMUCursor fuses raw accelerometer and gyroscope samples into an
// absolute orientation. Both readings are required; losing either one drops
// the estimate and the next complete tick starts again from zero.
func EmulateIMUCursor(o *Orientation, in IMUCursorSample, dt float64) FusionEvent {
	accel, hasAccel := in.Accel.Get()
	gyro, hasGyro := in.Gyro.Get()

	if !in.Enabled || !hasAccel || !hasGyro {
		if o.phase == FusionActive {
			o.Deactivate()
			return FusionStopped
		}
		return FusionIdle
	}

	event := FusionTracked
	if o.activate() {
		event = FusionStarted
	}

	o.angle = ComplementaryFilter(o.angle, accel, gyro, dt)

	if in.Recenter > RecenterThreshold {
		o.angle[AxisZ] = 0
	}

	// The allowed window straddles zero.
	yawMax := in.TotalYaw / 2
	yawMin := Tau - in.TotalYaw/2
	if o.angle[AxisZ] > yawMax && o.angle[AxisZ] <= math.Pi {
		o.angle[AxisZ] = yawMax
	}
	if o.angle[AxisZ] < yawMin && o.angle[AxisZ] > math.Pi {
		o.angle[AxisZ] = yawMin
	}

	return event
}
