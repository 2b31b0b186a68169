package motion

import "math"

// ShakeSample is the per-tick input of the shake emulator.
type ShakeSample struct {
	// Active holds the per-axis shake amount, usually 0 or 1.
	Active Vec3
	// Intensity is the full travel of one shake in meters.
	Intensity float64
	// Frequency is the number of shakes per second.
	Frequency float64
}

// EmulateShake drives state back and forth along every active axis.
func EmulateShake(state *PositionalState, in ShakeSample, dt float64) {
	target := in.Active.Scale(in.Intensity / 2)
	for i := range target {
		if state.Velocity[i]*math.Copysign(1, target[i]) < 0 ||
			state.Position[i]/target[i] > 0.5 {
			target[i] *= -1
		}
	}

	// Time from "top" to "bottom" of one shake.
	travelTime := 1 / in.Frequency / 2

	var jerk Vec3
	for i := range target {
		halfDistance := math.Max(math.Abs(target[i]), math.Abs(state.Position[i]))
		jerk[i] = halfDistance / math.Pow(travelTime/2, 3)
	}

	ApproachPositionWithJerk(state, target, jerk, dt)
}

// TiltSample is the per-tick input of the tilt emulator.
type TiltSample struct {
	// Stick is the tilt direction, each axis in [-1, 1].
	Stick Vec2
	// MaxAngle is the angle reached at full deflection, in radians.
	MaxAngle float64
	// MaxRotationalVelocity is the peak rotation rate in rad/s.
	MaxRotationalVelocity float64
}

// EmulateTilt rotates state toward the stick's roll/pitch target.
func EmulateTilt(state *RotationalState, in TiltSample, dt float64) {
	roll := in.Stick.X * in.MaxAngle
	pitch := in.Stick.Y * in.MaxAngle

	// Reaches MaxRotationalVelocity halfway through a full turn.
	maxAccel := math.Pow(in.MaxRotationalVelocity, 2) / Tau

	ApproachAngleWithAccel(state, Vec3{pitch, -roll, 0}, maxAccel, dt)
}

// SwingSample is the per-tick input of the swing emulator.
type SwingSample struct {
	// Target is the swing displacement in meters: X right, Y up, Z forward.
	Target Vec3
	// MaxDistance is the radius of the swing envelope in meters.
	MaxDistance float64
	// TwistAngle is the rotation at full extension in radians.
	TwistAngle float64
	// Speed is the travel speed at full extension in m/s.
	Speed float64
	// ReturnSpeed is the travel speed near center in m/s.
	ReturnSpeed float64
}

// EmulateSwing moves and twists state following a swing gesture, keeping
// the position inside the swing envelope.
func EmulateSwing(state *MotionState, in SwingSample, dt float64) {
	maxDistance := in.MaxDistance
	maxAngle := in.TwistAngle

	// Swing Y/Z are the controller's Z/Y. Controller X+ is to the left.
	target := Vec3{-in.Target[AxisX], -in.Target[AxisZ], in.Target[AxisY]}

	// X and Z share a scale so movement about the circle stays sane.
	xzDist := Vec2{target[AxisX], target[AxisZ]}.Length()
	yDist := math.Abs(target[AxisY])
	dist := Vec3{xzDist, yDist, xzDist}
	speed := Lerp(Splat(in.ReturnSpeed), Splat(in.Speed), dist.Scale(1/maxDistance))

	// Jerk that reaches speed when traveling 1 meter.
	maxJerk := speed.Mul(speed).Mul(speed).Scale(4)

	// Roughly matches the completion time of the swing.
	maxAccel := maxAngle * speed[AxisX] * speed[AxisX]

	targetAngle := Vec3{-target[AxisZ], 0, target[AxisX]}.Scale(maxAngle / maxDistance)

	// Doubled acceleration reduces spurious stabs.
	// TODO: replace the factor with a twist limit derived from the swing speed.
	ApproachAngleWithAccel(&state.RotationalState, targetAngle, maxAccel*2, dt)

	for _, c := range [...]int{AxisX, AxisZ} {
		if math.Abs(state.Angle[c]/maxAngle) > 1 &&
			Sign(state.AngularVelocity[c]) == Sign(state.Angle[c]) {
			state.AngularVelocity[c] = 0
		}
	}

	// An outstretched arm pulls the controller back as it twists.
	backwardsAngle := math.Max(math.Abs(state.Angle[AxisX]), math.Abs(state.Angle[AxisZ]))
	backwardsMovement := (1 - math.Cos(backwardsAngle)) * maxDistance

	// TODO: scale backswing jerk by the x/z speed.
	ApproachPositionWithJerk(&state.PositionalState,
		target.Add(Vec3{0, backwardsMovement, 0}), maxJerk, dt)

	xzProgress := Vec2{state.Position[AxisX], state.Position[AxisZ]}.Length() / maxDistance
	if xzProgress > 1 {
		state.Position[AxisX] /= xzProgress
		state.Position[AxisZ] /= xzProgress

		state.Acceleration[AxisX], state.Acceleration[AxisZ] = 0, 0
		state.Velocity[AxisX], state.Velocity[AxisZ] = 0, 0
	}

	// Extra room behind for the backswing.
	yProgress := state.Position[AxisY] / maxDistance
	maxYProgress := 2 - math.Cos(maxAngle)
	if yProgress > maxYProgress || yProgress < -1 {
		state.Position[AxisY] = clamp(state.Position[AxisY], -maxDistance, maxYProgress*maxDistance)
		state.Velocity[AxisY] = 0
		state.Acceleration[AxisY] = 0
	}
}

// SensorBarPosition is where the sensor bar sits relative to the screen.
type SensorBarPosition uint8

const (
	SensorBarBottom SensorBarPosition = iota
	SensorBarTop
)

func (p SensorBarPosition) String() string {
	if p == SensorBarTop {
		return "top"
	}
	return "bottom"
}

const (
	// CursorNeutralDistance is the controller's distance from the sensor bar
	// while pointing, in meters.
	CursorNeutralDistance = 2.0

	// CursorHiddenDistance places the controller far in front of the sensor
	// bar so it is out of view.
	CursorHiddenDistance = -1000.0

	// cursorMaxAccel keeps the pointer responsive while suppressing jitter
	// when rotation is re-synced.
	cursorMaxAccel = Tau * 8
)

// CursorSample is the per-tick input of the pointing emulator.
type CursorSample struct {
	Visible bool
	// X and Y are the pointer position, each in [-1, 1].
	X, Y float64
	// VerticalOffset is the sensor bar height relative to the screen center in meters.
	VerticalOffset float64
	// TotalYaw and TotalPitch are the angles spanned by the screen in radians.
	TotalYaw, TotalPitch float64
}

// EmulateCursor points state at the cursor position. Position jumps straight
// to the pointing location; the angle is smoothed unless the controller was
// out of view on the previous tick.
func EmulateCursor(state *MotionState, in CursorSample, bar SensorBarPosition, dt float64) {
	if !in.Visible {
		state.Reset()
		state.Position = Vec3{0, CursorHiddenDistance, 0}
		return
	}

	wasHidden := state.Position[AxisY] < 0

	height := in.VerticalOffset
	if bar != SensorBarTop {
		height = -height
	}

	state.Position = Vec3{0, CursorNeutralDistance, -height}
	state.Velocity = Vec3{}
	state.Acceleration = Vec3{}

	targetAngle := Vec3{in.TotalPitch / 2 * -in.Y, 0, in.TotalYaw / 2 * -in.X}

	if wasHidden {
		state.Angle = targetAngle
		state.AngularVelocity = Vec3{}
		return
	}

	ApproachAngleWithAccel(&state.RotationalState, targetAngle, cursorMaxAccel, dt)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
