package controls

// Bank is the full set of control groups of an emulated Wiimote.
type Bank struct {
	Buttons          *Buttons
	Shake            *Shake
	Tilt             *Tilt
	Swing            *Force
	Cursor           *Cursor
	IMUAccelerometer *IMUAccelerometer
	IMUGyroscope     *IMUGyroscope
	IMUCursor        *IMUCursor
}

// NewBank returns a bank with default bindings.
func NewBank() *Bank {
	return &Bank{
		Buttons:          NewButtons(),
		Shake:            NewShake(),
		Tilt:             NewTilt(),
		Swing:            NewForce(),
		Cursor:           NewCursor(),
		IMUAccelerometer: NewIMUAccelerometer(),
		IMUGyroscope:     NewIMUGyroscope(),
		IMUCursor:        NewIMUCursor(),
	}
}

// Groups returns every group in a stable order.
func (b *Bank) Groups() []Group {
	return []Group{
		b.Buttons,
		b.Shake,
		b.Tilt,
		b.Swing,
		b.Cursor,
		b.IMUAccelerometer,
		b.IMUGyroscope,
		b.IMUCursor,
	}
}

// Group looks a group up by name.
func (b *Bank) Group(name string) (Group, bool) {
	for _, g := range b.Groups() {
		if g.Name() == name {
			return g, true
		}
	}
	return nil, false
}

// LoadDefaults resets every group.
func (b *Bank) LoadDefaults() {
	for _, g := range b.Groups() {
		g.LoadDefaults()
	}
}

// LoadConfig applies persisted group configurations written by a profile of
// the given version. Groups absent from cfg keep their defaults.
func (b *Bank) LoadConfig(cfg map[string]GroupConfig, version int) {
	for _, g := range b.Groups() {
		c, ok := cfg[g.Name()]
		if !ok {
			g.LoadDefaults()
			continue
		}
		g.LoadConfig(c, version)
	}
}

// SaveConfig returns the persisted form of every group, keyed by name.
func (b *Bank) SaveConfig() map[string]GroupConfig {
	out := make(map[string]GroupConfig, 8)
	for _, g := range b.Groups() {
		out[g.Name()] = g.SaveConfig()
	}
	return out
}
