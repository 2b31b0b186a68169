package controls

import "math"

// Group is a named set of controls and numeric settings.
type Group interface {
	Name() string
	Controls() []*Control
	Settings() []*NumericSetting
	IsEnabled() bool
	LoadDefaults()
	LoadConfig(cfg GroupConfig, version int)
	SaveConfig() GroupConfig
}

// GroupConfig is the persisted form of a group.
type GroupConfig struct {
	Enabled  bool               `json:"enabled" yaml:"enabled" toml:"enabled"`
	Controls map[string]string  `json:"controls,omitempty" yaml:"controls,omitempty" toml:"controls,omitempty"`
	Settings map[string]float64 `json:"settings,omitempty" yaml:"settings,omitempty" toml:"settings,omitempty"`
}

// NumericSetting is a user adjustable value stored in UI units.
type NumericSetting struct {
	Name    string
	Unit    string
	Default float64
	Min     float64
	Max     float64

	value float64
}

// Value returns the current value.
func (s *NumericSetting) Value() float64 { return s.value }

// Set stores v clamped to the setting range.
func (s *NumericSetting) Set(v float64) {
	if math.IsNaN(v) {
		v = s.Default
	}
	s.value = math.Max(s.Min, math.Min(v, s.Max))
}

// ControlGroup implements Group and is embedded by every concrete group.
type ControlGroup struct {
	name     string
	Enabled  bool
	controls []*Control
	settings []*NumericSetting
	defaults []string
}

func newControlGroup(name string, controls []controlDef, settings ...*NumericSetting) ControlGroup {
	g := ControlGroup{name: name, Enabled: true, settings: settings}
	for _, c := range controls {
		g.controls = append(g.controls, &Control{Name: c.name})
		g.defaults = append(g.defaults, c.expression)
	}
	g.LoadDefaults()
	return g
}

type controlDef struct {
	name       string
	expression string
}

func (g *ControlGroup) Name() string                { return g.name }
func (g *ControlGroup) Controls() []*Control        { return g.controls }
func (g *ControlGroup) Settings() []*NumericSetting { return g.settings }
func (g *ControlGroup) IsEnabled() bool             { return g.Enabled }

// Control returns the control with the given name or nil.
func (g *ControlGroup) Control(name string) *Control {
	for _, c := range g.controls {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// LoadDefaults restores default bindings and settings and enables the group.
func (g *ControlGroup) LoadDefaults() {
	g.Enabled = true
	for i, c := range g.controls {
		c.Expression = g.defaults[i]
	}
	for _, s := range g.settings {
		s.Set(s.Default)
	}
}

// LoadConfig applies a persisted configuration. Controls missing from cfg are
// left unbound and missing settings take their default.
func (g *ControlGroup) LoadConfig(cfg GroupConfig, _ int) {
	g.Enabled = cfg.Enabled
	for _, c := range g.controls {
		c.Expression = cfg.Controls[c.Name]
	}
	for _, s := range g.settings {
		if v, ok := cfg.Settings[s.Name]; ok {
			s.Set(v)
		} else {
			s.Set(s.Default)
		}
	}
}

func (g *ControlGroup) SaveConfig() GroupConfig {
	cfg := GroupConfig{
		Enabled:  g.Enabled,
		Controls: map[string]string{},
		Settings: map[string]float64{},
	}
	for _, c := range g.controls {
		if c.Expression != "" {
			cfg.Controls[c.Name] = c.Expression
		}
	}
	for _, s := range g.settings {
		cfg.Settings[s.Name] = s.value
	}
	return cfg
}

// setting returns the value of the i-th setting.
func (g *ControlGroup) setting(i int) float64 {
	return g.settings[i].value
}

// state returns the value of the i-th control.
func (g *ControlGroup) state(in *InputSet, i int) float64 {
	return g.controls[i].State(in)
}

// axis returns the difference of two controls.
func (g *ControlGroup) axis(in *InputSet, positive, negative int) float64 {
	return g.state(in, positive) - g.state(in, negative)
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(v, 1))
}
