// Package wiimote emulates the motion of a Wiimote driven by control groups
// and encodes it into input reports.
package wiimote

import (
	"log/slog"
	"sync"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/motion"
)

// Calibration holds the accelerometer codes for zero and one g.
type Calibration struct {
	ZeroG uint16 `json:"zeroG" yaml:"zeroG" toml:"zeroG"`
	OneG  uint16 `json:"oneG" yaml:"oneG" toml:"oneG"`
}

// DefaultCalibration is the factory calibration.
var DefaultCalibration = Calibration{ZeroG: DefaultZeroG, OneG: DefaultOneG}

// Options configures a Wiimote.
type Options struct {
	SensorBar   motion.SensorBarPosition
	Calibration *Calibration
	Logger      *slog.Logger
}

// State is a snapshot of every emulated body after a tick.
type State struct {
	Swing       motion.MotionState     `json:"swing"`
	Tilt        motion.RotationalState `json:"tilt"`
	Shake       motion.PositionalState `json:"shake"`
	Cursor      motion.MotionState     `json:"cursor"`
	Orientation *motion.Vec3           `json:"orientation,omitempty"`
	// Acceleration is the total sensed acceleration in m/s².
	Acceleration motion.Vec3 `json:"acceleration"`
	Input        InputState  `json:"-"`
}

// Wiimote advances the motion emulators once per tick.
type Wiimote struct {
	bank   *controls.Bank
	inputs *controls.InputSet
	logger *slog.Logger

	mu          sync.Mutex
	sensorBar   motion.SensorBarPosition
	calibration Calibration

	swing       motion.MotionState
	tilt        motion.RotationalState
	shake       motion.PositionalState
	cursor      motion.MotionState
	orientation motion.Orientation
	last        State
	visible     bool
}

// New creates a Wiimote reading its controls from inputs.
func New(bank *controls.Bank, inputs *controls.InputSet, o *Options) *Wiimote {
	w := &Wiimote{
		bank:        bank,
		inputs:      inputs,
		logger:      slog.Default(),
		calibration: DefaultCalibration,
	}
	if o != nil {
		w.sensorBar = o.SensorBar
		if o.Calibration != nil {
			w.calibration = *o.Calibration
		}
		if o.Logger != nil {
			w.logger = o.Logger
		}
	}
	return w
}

// SetSensorBar changes where the sensor bar sits relative to the screen.
func (w *Wiimote) SetSensorBar(p motion.SensorBarPosition) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sensorBar = p
}

// Reset puts every body back at rest and drops the orientation estimate.
func (w *Wiimote) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.swing.Reset()
	w.tilt = motion.RotationalState{}
	w.shake = motion.PositionalState{}
	w.cursor.Reset()
	w.orientation.Deactivate()
	w.last = State{}
}

// Step advances all emulators by dt seconds and returns the resulting report.
func (w *Wiimote) Step(dt float64) InputState {
	w.mu.Lock()
	defer w.mu.Unlock()

	in := w.inputs
	b := w.bank

	motion.EmulateSwing(&w.swing, b.Swing.Sample(in), dt)
	motion.EmulateTilt(&w.tilt, b.Tilt.Sample(in), dt)

	cursor := b.Cursor.Sample(in)
	if cursor.Visible != w.visible {
		w.visible = cursor.Visible
		w.logger.Debug("Cursor visibility changed", "visible", cursor.Visible)
	}
	motion.EmulateCursor(&w.cursor, cursor, w.sensorBar, dt)

	motion.EmulateShake(&w.shake, b.Shake.Sample(in), dt)

	accel := b.IMUAccelerometer.State(in)
	gyro := b.IMUGyroscope.State(in)
	switch ev := motion.EmulateIMUCursor(&w.orientation, b.IMUCursor.Sample(in, accel, gyro), dt); ev {
	case motion.FusionStarted, motion.FusionStopped:
		w.logger.Debug("IMU orientation tracking", "event", ev)
	}

	total := w.totalAcceleration(accel)
	st := InputState{
		Buttons: b.Buttons.State(in),
		Accel:   motion.ConvertAccelData(total, w.calibration.ZeroG, w.calibration.OneG),
	}

	w.last = State{
		Swing:        w.swing,
		Tilt:         w.tilt,
		Shake:        w.shake,
		Cursor:       w.cursor,
		Acceleration: total,
		Input:        st,
	}
	if angle, ok := w.orientation.Angle(); ok {
		w.last.Orientation = &angle
	}
	return st
}

// totalAcceleration returns the reading of a real accelerometer when one is
// bound. Otherwise gravity and swing acceleration are rotated into the
// controller frame and shake is added on top.
func (w *Wiimote) totalAcceleration(imu motion.OptionalVec3) motion.Vec3 {
	if accel, ok := imu.Get(); ok {
		return accel
	}
	world := w.swing.Acceleration.Add(motion.Vec3{0, 0, motion.GravityAcceleration})
	rot := motion.RotationalMatrix(w.tilt.Angle.Add(w.swing.Angle))
	return rot.Transpose().Transform(world).Add(w.shake.Acceleration)
}

// Snapshot returns the state after the last Step.
func (w *Wiimote) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
