// Package motion turns abstract controller inputs into position/rotation
// trajectories for an emulated motion-sensing controller and encodes the
// resulting acceleration into the controller's fixed-point sample format.
//
// Everything in this package is a deterministic function of its arguments.
// Callers own the state values and invoke the emulators once per tick with a
// positive elapsed time in seconds.
package motion

import "math"

const (
	Tau = 2 * math.Pi

	// GravityAcceleration is standard gravity in m/s².
	GravityAcceleration = 9.80665
)

// Axis indices for Vec3.
const (
	AxisX = iota
	AxisY
	AxisZ
)

// Vec2 is a planar vector.
type Vec2 struct {
	X, Y float64
}

// Length returns the euclidean length of v.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Vec3 is a three component vector indexed by AxisX, AxisY and AxisZ.
type Vec3 [3]float64

func (v Vec3) X() float64 { return v[AxisX] }
func (v Vec3) Y() float64 { return v[AxisY] }
func (v Vec3) Z() float64 { return v[AxisZ] }

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale multiplies every component by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Mul multiplies component-wise.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

// Div divides component-wise.
func (v Vec3) Div(o Vec3) Vec3 {
	return Vec3{v[0] / o[0], v[1] / o[1], v[2] / o[2]}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Splat returns a vector with all components set to s.
func Splat(s float64) Vec3 {
	return Vec3{s, s, s}
}

// Sign returns -1, 0 or 1. NaN yields 0.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// SignVec applies Sign to every component.
func SignVec(v Vec3) Vec3 {
	return Vec3{Sign(v[0]), Sign(v[1]), Sign(v[2])}
}

// Lerp interpolates component-wise between a and b. t is not clamped.
func Lerp(a, b, t Vec3) Vec3 {
	return Vec3{
		a[0] + (b[0]-a[0])*t[0],
		a[1] + (b[1]-a[1])*t[1],
		a[2] + (b[2]-a[2])*t[2],
	}
}

// Matrix33 is a row-major 3x3 matrix.
type Matrix33 [9]float64

// Identity returns the identity matrix.
func Identity() Matrix33 {
	return Matrix33{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func RotateX(rad float64) Matrix33 {
	s, c := math.Sincos(rad)
	return Matrix33{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

func RotateY(rad float64) Matrix33 {
	s, c := math.Sincos(rad)
	return Matrix33{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

func RotateZ(rad float64) Matrix33 {
	s, c := math.Sincos(rad)
	return Matrix33{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Mul returns m·o.
func (m Matrix33) Mul(o Matrix33) Matrix33 {
	var r Matrix33
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row*3]*o[col] + m[row*3+1]*o[3+col] + m[row*3+2]*o[6+col]
		}
	}
	return r
}

// Transform returns m·v.
func (m Matrix33) Transform(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Transpose returns the transpose of m, which is its inverse for rotations.
func (m Matrix33) Transpose() Matrix33 {
	return Matrix33{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// RotationalMatrix builds the orientation matrix for Euler angles applied
// in X, Y, Z order.
func RotationalMatrix(angle Vec3) Matrix33 {
	return RotateZ(angle[AxisZ]).Mul(RotateY(angle[AxisY])).Mul(RotateX(angle[AxisX]))
}
