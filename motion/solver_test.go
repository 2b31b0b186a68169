package motion_test

import (
	"math"
	"testing"

	"github.com/Alia5/motionemu/motion"
	"github.com/stretchr/testify/assert"
)

const tick = 1.0 / 200

func TestStopDistanceAccel(t *testing.T) {
	type testCase struct {
		name     string
		velocity float64
		accel    float64
		expected float64
	}

	cases := []testCase{
		{name: "at rest", velocity: 0, accel: 3, expected: 0},
		{name: "positive velocity", velocity: 2, accel: 1, expected: 2},
		{name: "negative velocity", velocity: -2, accel: 1, expected: -2},
		{name: "high accel", velocity: 4, accel: 8, expected: 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.expected, motion.StopDistanceAccel(c.velocity, c.accel), 1e-12)
		})
	}
}

func TestStopDistanceJerk(t *testing.T) {
	type testCase struct {
		name     string
		velocity float64
		accel    float64
		jerk     float64
		expected float64
	}

	cases := []testCase{
		{name: "at rest", velocity: 0, accel: 0, jerk: 5, expected: 0},
		{name: "coasting forward", velocity: 1, accel: 0, jerk: 1, expected: 1},
		{name: "coasting backward", velocity: -1, accel: 0, jerk: 1, expected: -1},
		{name: "coasting scales with jerk", velocity: 4, accel: 0, jerk: 4, expected: 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.expected, motion.StopDistanceJerk(c.velocity, c.accel, c.jerk), 1e-12)
		})
	}

	// Accelerating toward the direction of travel needs more room to stop.
	assert.Greater(t, motion.StopDistanceJerk(1, 1, 1), motion.StopDistanceJerk(1, 0, 1))
	assert.Less(t, motion.StopDistanceJerk(-1, -1, 1), motion.StopDistanceJerk(-1, 0, 1))
}

func TestApproachAngleWithAccelConverges(t *testing.T) {
	type testCase struct {
		name     string
		target   float64
		maxAccel float64
	}

	cases := []testCase{
		{name: "half turn", target: math.Pi, maxAccel: 49 * motion.Tau},
		{name: "one radian", target: 1, maxAccel: 10},
		{name: "negative target", target: -2.5, maxAccel: 5},
		{name: "tiny offset", target: -1e-3, maxAccel: 100},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var st motion.RotationalState
			target := motion.Vec3{c.target, 0, 0}

			for i := 0; i < 2000; i++ {
				motion.ApproachAngleWithAccel(&st, target, c.maxAccel, tick)

				// Never crosses to the far side of the target.
				assert.GreaterOrEqual(t, (c.target-st.Angle.X())*c.target, 0.0, "tick %d", i)
			}

			assert.Equal(t, c.target, st.Angle.X())
			assert.Equal(t, 0.0, st.AngularVelocity.X())
			assert.Equal(t, motion.Vec3{}, motion.Vec3{0, st.Angle.Y(), st.Angle.Z()})
		})
	}
}

func TestApproachAngleWithAccelSnapsNearTarget(t *testing.T) {
	const target = 1.0
	const previous = target - 5e-5

	st := motion.RotationalState{
		Angle:           motion.Vec3{previous, 0, 0},
		AngularVelocity: motion.Vec3{3, 0, 0},
	}

	motion.ApproachAngleWithAccel(&st, motion.Vec3{target, 0, 0}, 10, tick)

	assert.Equal(t, target, st.Angle.X())
	assert.InDelta(t, (target-previous)/tick, st.AngularVelocity.X(), 1e-12)
}

func TestApproachAngleWithAccelAxesIndependent(t *testing.T) {
	var st motion.RotationalState
	target := motion.Vec3{0.5, -1, 2}

	motion.ApproachAngleWithAccel(&st, target, 20, tick)

	assert.Greater(t, st.AngularVelocity.X(), 0.0)
	assert.Less(t, st.AngularVelocity.Y(), 0.0)
	assert.Greater(t, st.AngularVelocity.Z(), 0.0)
	assert.InDelta(t, st.AngularVelocity.X(), -st.AngularVelocity.Y(), 1e-12)

	for i := 0; i < 1000; i++ {
		motion.ApproachAngleWithAccel(&st, target, 20, tick)
	}
	assert.Equal(t, target, st.Angle)
}

func TestApproachPositionWithJerkConverges(t *testing.T) {
	type testCase struct {
		name   string
		target float64
		jerk   float64
	}

	cases := []testCase{
		{name: "fast swing", target: 0.5, jerk: 16 * 16 * 16 * 4},
		{name: "slow return", target: -0.25, jerk: 2 * 2 * 2 * 4},
		{name: "short hop", target: 0.05, jerk: 1000},
		{name: "long travel", target: 1, jerk: 50},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var st motion.PositionalState
			target := motion.Vec3{c.target, 0, 0}

			for i := 0; i < 5000; i++ {
				motion.ApproachPositionWithJerk(&st, target, motion.Splat(c.jerk), tick)
				assert.GreaterOrEqual(t, (c.target-st.Position.X())*c.target, 0.0, "tick %d", i)
			}

			assert.Equal(t, c.target, st.Position.X())
			assert.Equal(t, 0.0, st.Velocity.X())
			assert.Equal(t, 0.0, st.Acceleration.X())
		})
	}
}

func TestApproachPositionWithJerkHoldsAtTarget(t *testing.T) {
	st := motion.PositionalState{Position: motion.Vec3{0.2, -0.1, 0}}
	target := st.Position

	for i := 0; i < 100; i++ {
		motion.ApproachPositionWithJerk(&st, target, motion.Splat(100), tick)
	}

	assert.Equal(t, motion.PositionalState{Position: target}, st)
}
