package controls

// Core button masks as laid out in the two button bytes of a Wiimote report.
const (
	ButtonLeft  uint16 = 0x0001
	ButtonRight uint16 = 0x0002
	ButtonDown  uint16 = 0x0004
	ButtonUp    uint16 = 0x0008
	ButtonPlus  uint16 = 0x0010
	ButtonTwo   uint16 = 0x0100
	ButtonOne   uint16 = 0x0200
	ButtonB     uint16 = 0x0400
	ButtonA     uint16 = 0x0800
	ButtonMinus uint16 = 0x1000
	ButtonHome  uint16 = 0x8000

	// ButtonMask covers every bit that carries a button.
	ButtonMask uint16 = 0x9f1f
)

// Buttons maps digital controls to the core button bits.
type Buttons struct {
	ControlGroup
	masks []uint16
}

func NewButtons() *Buttons {
	defs := []struct {
		control controlDef
		mask    uint16
	}{
		{controlDef{"A", "A"}, ButtonA},
		{controlDef{"B", "B"}, ButtonB},
		{controlDef{"1", "1"}, ButtonOne},
		{controlDef{"2", "2"}, ButtonTwo},
		{controlDef{"-", "Minus"}, ButtonMinus},
		{controlDef{"+", "Plus"}, ButtonPlus},
		{controlDef{"Home", "Home"}, ButtonHome},
		{controlDef{"Up", "D-Pad Up"}, ButtonUp},
		{controlDef{"Down", "D-Pad Down"}, ButtonDown},
		{controlDef{"Left", "D-Pad Left"}, ButtonLeft},
		{controlDef{"Right", "D-Pad Right"}, ButtonRight},
	}
	controls := make([]controlDef, len(defs))
	masks := make([]uint16, len(defs))
	for i, d := range defs {
		controls[i] = d.control
		masks[i] = d.mask
	}
	return &Buttons{ControlGroup: newControlGroup("Buttons", controls), masks: masks}
}

// State returns the pressed button bits. A control counts as pressed above
// half travel.
func (g *Buttons) State(in *InputSet) uint16 {
	if !g.Enabled {
		return 0
	}
	var bits uint16
	for i, m := range g.masks {
		if g.state(in, i) > 0.5 {
			bits |= m
		}
	}
	return bits
}
