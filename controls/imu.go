package controls

import "github.com/Alia5/motionemu/motion"

// MotionInputSupportVersion is the first profile version that persists IMU
// bindings. Older profiles get the default bindings injected on load.
const MotionInputSupportVersion = 1

// imuGroup is a three axis sensor fed by signed half-inputs.
type imuGroup struct {
	ControlGroup
}

func newIMUGroup(name string, controls []controlDef) imuGroup {
	return imuGroup{newControlGroup(name, controls)}
}

func (g *imuGroup) LoadConfig(cfg GroupConfig, version int) {
	g.ControlGroup.LoadConfig(cfg, version)
	if version < MotionInputSupportVersion {
		g.LoadDefaults()
	}
}

// bound reports whether the sensor is wired up to a publishing source. Only
// the first control is checked.
func (g *imuGroup) bound(in *InputSet) bool {
	return g.Enabled && g.controls[0].BoundCount(in) > 0
}

// read returns the three axes built from control pairs, absent when unbound.
func (g *imuGroup) read(in *InputSet, x, y, z [2]int) motion.OptionalVec3 {
	if !g.bound(in) {
		return motion.None()
	}
	return motion.Some(motion.Vec3{
		g.axis(in, x[0], x[1]),
		g.axis(in, y[0], y[1]),
		g.axis(in, z[0], z[1]),
	})
}

// IMUAccelerometer reads a real accelerometer in m/s².
type IMUAccelerometer struct {
	imuGroup
}

func NewIMUAccelerometer() *IMUAccelerometer {
	return &IMUAccelerometer{newIMUGroup("IMUAccelerometer", []controlDef{
		{"Left", "Accel Left"},
		{"Right", "Accel Right"},
		{"Forward", "Accel Forward"},
		{"Backward", "Accel Backward"},
		{"Up", "Accel Up"},
		{"Down", "Accel Down"},
	})}
}

// State returns the acceleration, absent when the sensor is unbound.
func (g *IMUAccelerometer) State(in *InputSet) motion.OptionalVec3 {
	return g.read(in, [2]int{0, 1}, [2]int{3, 2}, [2]int{4, 5})
}

// IMUGyroscope reads a real gyroscope in rad/s.
type IMUGyroscope struct {
	imuGroup
}

func NewIMUGyroscope() *IMUGyroscope {
	return &IMUGyroscope{newIMUGroup("IMUGyroscope", []controlDef{
		{"Pitch Up", "Gyro Pitch Up"},
		{"Pitch Down", "Gyro Pitch Down"},
		{"Roll Left", "Gyro Roll Left"},
		{"Roll Right", "Gyro Roll Right"},
		{"Yaw Left", "Gyro Yaw Left"},
		{"Yaw Right", "Gyro Yaw Right"},
	})}
}

func (g *IMUGyroscope) State(in *InputSet) motion.OptionalVec3 {
	return g.read(in, [2]int{0, 1}, [2]int{2, 3}, [2]int{4, 5})
}

// IMUCursor fuses the IMU readings into a pointing orientation.
type IMUCursor struct {
	ControlGroup
}

const imuCursorRecenter = 0

func NewIMUCursor() *IMUCursor {
	return &IMUCursor{newControlGroup("IMUIR",
		[]controlDef{{"Recenter", "Recenter"}},
		&NumericSetting{Name: "Total Yaw", Unit: "°", Default: 15, Min: 0, Max: 360},
	)}
}

// Sample combines the sensor readings with the recenter control.
func (g *IMUCursor) Sample(in *InputSet, accel, gyro motion.OptionalVec3) motion.IMUCursorSample {
	return motion.IMUCursorSample{
		Enabled:  g.Enabled,
		Accel:    accel,
		Gyro:     gyro,
		Recenter: g.state(in, imuCursorRecenter),
		TotalYaw: g.setting(0) * degToRad,
	}
}
