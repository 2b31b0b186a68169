package controls

import (
	"math"

	"github.com/Alia5/motionemu/motion"
)

const degToRad = math.Pi / 180

// Shake triggers back and forth motion along each axis.
type Shake struct {
	ControlGroup
}

const (
	shakeIntensity = iota
	shakeFrequency
)

func NewShake() *Shake {
	return &Shake{newControlGroup("Shake",
		[]controlDef{
			{"X", "Shake X"},
			{"Y", "Shake Y"},
			{"Z", "Shake Z"},
		},
		&NumericSetting{Name: "Intensity", Unit: "cm", Default: 5, Min: 1, Max: 50},
		&NumericSetting{Name: "Frequency", Unit: "Hz", Default: 6, Min: 1, Max: 100},
	)}
}

// Sample returns the shake input for this tick.
func (g *Shake) Sample(in *InputSet) motion.ShakeSample {
	s := motion.ShakeSample{
		Intensity: g.setting(shakeIntensity) / 100,
		Frequency: g.setting(shakeFrequency),
	}
	if !g.Enabled {
		return s
	}
	for i := range s.Active {
		s.Active[i] = math.Max(0, math.Min(g.state(in, i), 1))
	}
	return s
}

// Tilt rotates the controller following a two axis stick.
type Tilt struct {
	ControlGroup
}

const (
	tiltForward = iota
	tiltBackward
	tiltLeft
	tiltRight
)

const (
	tiltAngle = iota
	tiltVelocity
)

func NewTilt() *Tilt {
	return &Tilt{newControlGroup("Tilt",
		[]controlDef{
			{"Forward", "Tilt Forward"},
			{"Backward", "Tilt Backward"},
			{"Left", "Tilt Left"},
			{"Right", "Tilt Right"},
		},
		&NumericSetting{Name: "Angle", Unit: "°", Default: 180, Min: 0, Max: 180},
		&NumericSetting{Name: "Velocity", Unit: "rev/s", Default: 7, Min: 1, Max: 50},
	)}
}

func (g *Tilt) Sample(in *InputSet) motion.TiltSample {
	s := motion.TiltSample{
		MaxAngle:              g.setting(tiltAngle) * degToRad,
		MaxRotationalVelocity: g.setting(tiltVelocity) * motion.Tau,
	}
	if !g.Enabled {
		return s
	}
	s.Stick = motion.Vec2{
		X: clampUnit(g.axis(in, tiltRight, tiltLeft)),
		Y: clampUnit(g.axis(in, tiltForward, tiltBackward)),
	}
	return s
}

// Force drives swing gestures in three dimensions.
type Force struct {
	ControlGroup
}

const (
	forceUp = iota
	forceDown
	forceLeft
	forceRight
	forceForward
	forceBackward
)

const (
	forceDistance = iota
	forceSpeed
	forceReturnSpeed
	forceAngle
)

func NewForce() *Force {
	return &Force{newControlGroup("Swing",
		[]controlDef{
			{"Up", "Swing Up"},
			{"Down", "Swing Down"},
			{"Left", "Swing Left"},
			{"Right", "Swing Right"},
			{"Forward", "Swing Forward"},
			{"Backward", "Swing Backward"},
		},
		&NumericSetting{Name: "Distance", Unit: "cm", Default: 50, Min: 1, Max: 100},
		&NumericSetting{Name: "Speed", Unit: "m/s", Default: 16, Min: 1, Max: 40},
		&NumericSetting{Name: "Return Speed", Unit: "m/s", Default: 2, Min: 1, Max: 40},
		&NumericSetting{Name: "Angle", Unit: "°", Default: 90, Min: 1, Max: 180},
	)}
}

func (g *Force) Sample(in *InputSet) motion.SwingSample {
	distance := g.setting(forceDistance) / 100
	s := motion.SwingSample{
		MaxDistance: distance,
		TwistAngle:  g.setting(forceAngle) * degToRad,
		Speed:       g.setting(forceSpeed),
		ReturnSpeed: g.setting(forceReturnSpeed),
	}
	if !g.Enabled {
		return s
	}

	x := g.axis(in, forceRight, forceLeft)
	y := g.axis(in, forceUp, forceDown)
	// Keep the stick inside the unit circle.
	if l := math.Hypot(x, y); l > 1 {
		x, y = x/l, y/l
	}
	z := clampUnit(g.axis(in, forceForward, forceBackward))

	s.Target = motion.Vec3{x, y, z}.Scale(distance)
	return s
}

// Cursor points the controller at the screen.
type Cursor struct {
	ControlGroup
}

const (
	cursorUp = iota
	cursorDown
	cursorLeft
	cursorRight
	cursorHide
)

const (
	cursorVerticalOffset = iota
	cursorTotalYaw
	cursorTotalPitch
)

func NewCursor() *Cursor {
	return &Cursor{newControlGroup("Point",
		[]controlDef{
			{"Up", "Point Up"},
			{"Down", "Point Down"},
			{"Left", "Point Left"},
			{"Right", "Point Right"},
			{"Hide", "Point Hide"},
		},
		&NumericSetting{Name: "Vertical Offset", Unit: "cm", Default: 10, Min: -100, Max: 100},
		&NumericSetting{Name: "Total Yaw", Unit: "°", Default: 25, Min: 0, Max: 360},
		&NumericSetting{Name: "Total Pitch", Unit: "°", Default: 20, Min: 0, Max: 360},
	)}
}

func (g *Cursor) Sample(in *InputSet) motion.CursorSample {
	s := motion.CursorSample{
		VerticalOffset: g.setting(cursorVerticalOffset) / 100,
		TotalYaw:       g.setting(cursorTotalYaw) * degToRad,
		TotalPitch:     g.setting(cursorTotalPitch) * degToRad,
	}
	if !g.Enabled {
		return s
	}
	s.Visible = g.state(in, cursorHide) <= 0.5
	s.X = clampUnit(g.axis(in, cursorRight, cursorLeft))
	s.Y = clampUnit(g.axis(in, cursorUp, cursorDown))
	return s
}
