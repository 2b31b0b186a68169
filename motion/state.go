package motion

// RotationalState is an orientation in radians and its rate in rad/s.
type RotationalState struct {
	Angle           Vec3 `json:"angle"`
	AngularVelocity Vec3 `json:"angularVelocity"`
}

// PositionalState is a position in meters with its first two derivatives.
// Acceleration is a state variable because the positional solver limits jerk.
type PositionalState struct {
	Position     Vec3 `json:"position"`
	Velocity     Vec3 `json:"velocity"`
	Acceleration Vec3 `json:"acceleration"`
}

// MotionState combines rotation and translation of a single free body.
type MotionState struct {
	RotationalState
	PositionalState
}

// Reset returns the state to rest at the origin.
func (s *MotionState) Reset() {
	*s = MotionState{}
}

// FusionPhase is the state of the orientation fusion filter.
type FusionPhase uint8

const (
	// FusionInactive means no orientation estimate exists.
	FusionInactive FusionPhase = iota
	// FusionActive means the estimate is being tracked.
	FusionActive
)

func (p FusionPhase) String() string {
	if p == FusionActive {
		return "active"
	}
	return "inactive"
}

// Orientation is the optional angle estimate maintained by the fusion
// filter. The zero value is inactive.
type Orientation struct {
	phase FusionPhase
	angle Vec3
}

// Phase reports whether an estimate exists.
func (o Orientation) Phase() FusionPhase { return o.phase }

// Angle returns the estimate and whether it exists.
func (o Orientation) Angle() (Vec3, bool) {
	if o.phase != FusionActive {
		return Vec3{}, false
	}
	return o.angle, true
}

// Deactivate drops the estimate.
func (o *Orientation) Deactivate() {
	*o = Orientation{}
}

// activate enters the active phase with a zero angle if not already active.
// It reports whether a new estimate was started.
func (o *Orientation) activate() bool {
	if o.phase == FusionActive {
		return false
	}
	*o = Orientation{phase: FusionActive}
	return true
}

// OptionalVec3 is a sensor reading that may be absent.
type OptionalVec3 struct {
	value   Vec3
	present bool
}

// Some wraps a present reading.
func Some(v Vec3) OptionalVec3 {
	return OptionalVec3{value: v, present: true}
}

// None is an absent reading.
func None() OptionalVec3 {
	return OptionalVec3{}
}

// Get returns the reading and whether it is present.
func (o OptionalVec3) Get() (Vec3, bool) {
	return o.value, o.present
}
