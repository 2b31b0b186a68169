package motion

import "math"

// SnapEpsilon is the angular offset in radians below which an axis is
// considered on target.
const SnapEpsilon = 1e-4

// StopDistanceAccel returns the signed displacement covered while
// decelerating from velocity to zero at maxAccel.
func StopDistanceAccel(velocity, maxAccel float64) float64 {
	return velocity * velocity / (2 * math.Copysign(maxAccel, velocity))
}

// StopDistanceJerk returns the signed displacement covered while coming to a
// complete stop in the shortest time with jerk limited to maxJerk.
//
// Derived from constant-jerk motion: s = s0 + v0·t + a0·t²/2 + j·t³/6.
func StopDistanceJerk(velocity, acceleration, maxJerk float64) float64 {
	// The closed form below expects non-negative velocity.
	flip := 1.0
	if velocity < 0 {
		flip = -1
	}

	v0 := velocity * flip
	a0 := acceleration * flip
	j := maxJerk

	// Time to reach zero acceleration.
	t0 := a0 / j

	// Distance to reach zero acceleration.
	d0 := math.Pow(a0, 3)/(3*j*j) + (a0*v0)/j

	// Velocity at zero acceleration.
	v1 := v0 + a0*math.Abs(t0) - math.Copysign(j*t0*t0/2, t0)

	// Distance to complete stop.
	d1 := math.Copysign(math.Pow(math.Abs(v1), 1.5), v1) / math.Sqrt(j)

	return (d0 + d1) * flip
}

// ApproachAngleWithAccel moves state toward target with bang-bang control of
// angular acceleration, per axis. An axis that is within SnapEpsilon of the
// target or would pass it this tick lands exactly on it, with its velocity set
// to the rate that covers the remaining offset in dt.
//
// dt must be positive.
func ApproachAngleWithAccel(state *RotationalState, target Vec3, maxAccel, dt float64) {
	var stop Vec3
	for i := range stop {
		stop[i] = StopDistanceAccel(state.AngularVelocity[i], maxAccel)
	}

	offset := target.Sub(state.Angle)
	accel := SignVec(offset.Sub(stop)).Scale(maxAccel)

	state.AngularVelocity = state.AngularVelocity.Add(accel.Scale(dt))

	change := state.AngularVelocity.Scale(dt).Add(accel.Scale(dt * dt / 2))

	for i := range offset {
		if math.Abs(offset[i]) < SnapEpsilon || change[i]/offset[i] > 1 {
			state.AngularVelocity[i] = (target[i] - state.Angle[i]) / dt
			state.Angle[i] = target[i]
			continue
		}
		state.Angle[i] += change[i]
	}
}

// ApproachPositionWithJerk moves state toward target with bang-bang control of
// jerk, per axis. An axis that would pass the target this tick stops on it
// with zero velocity and acceleration.
//
// dt must be positive and every component of maxJerk should be positive.
func ApproachPositionWithJerk(state *PositionalState, target, maxJerk Vec3, dt float64) {
	var stop Vec3
	for i := range stop {
		stop[i] = StopDistanceJerk(state.Velocity[i], state.Acceleration[i], maxJerk[i])
	}

	offset := target.Sub(state.Position)
	jerk := SignVec(offset.Sub(stop)).Mul(maxJerk)

	state.Acceleration = state.Acceleration.Add(jerk.Scale(dt))
	state.Velocity = state.Velocity.
		Add(state.Acceleration.Scale(dt)).
		Add(jerk.Scale(dt * dt / 2))

	change := state.Velocity.Scale(dt).
		Add(state.Acceleration.Scale(dt * dt / 2)).
		Add(jerk.Scale(dt * dt * dt / 6))

	for i := range offset {
		if overshoots(change[i], offset[i]) {
			state.Acceleration[i] = 0
			state.Velocity[i] = 0
			state.Position[i] = target[i]
			continue
		}
		state.Position[i] += change[i]
	}
}

// overshoots reports whether moving by change passes beyond offset.
// Any movement away from an exactly reached target counts as overshoot.
func overshoots(change, offset float64) bool {
	if offset == 0 {
		return change != 0
	}
	return change/offset > 1
}
