// Package settings persists controller profiles: bindings, numeric settings,
// sensor bar placement and accelerometer calibration.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/device/wiimote"
	"github.com/Alia5/motionemu/internal/configpaths"
	"github.com/Alia5/motionemu/motion"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// CurrentVersion is written to every saved profile.
const CurrentVersion = controls.MotionInputSupportVersion

// ErrUnknownFormat is returned for profile files that are not JSON, YAML or TOML.
var ErrUnknownFormat = errors.New("unknown profile format")

// Profile is the persisted configuration of one emulated Wiimote.
type Profile struct {
	Version     int                             `json:"version" yaml:"version" toml:"version"`
	SensorBar   string                          `json:"sensorBar" yaml:"sensorBar" toml:"sensorBar"`
	Calibration wiimote.Calibration             `json:"calibration" yaml:"calibration" toml:"calibration"`
	Groups      map[string]controls.GroupConfig `json:"groups" yaml:"groups" toml:"groups"`
}

// Default returns a profile holding the default bindings.
func Default() *Profile {
	return FromBank(controls.NewBank(), motion.SensorBarBottom, wiimote.DefaultCalibration)
}

// FromBank captures the current state of bank.
func FromBank(bank *controls.Bank, bar motion.SensorBarPosition, cal wiimote.Calibration) *Profile {
	return &Profile{
		Version:     CurrentVersion,
		SensorBar:   bar.String(),
		Calibration: cal,
		Groups:      bank.SaveConfig(),
	}
}

// Apply loads the profile into bank.
func (p *Profile) Apply(bank *controls.Bank) {
	bank.LoadConfig(p.Groups, p.Version)
}

// SensorBarPosition parses the sensor bar placement. An empty value means bottom.
func (p *Profile) SensorBarPosition() (motion.SensorBarPosition, error) {
	switch strings.ToLower(p.SensorBar) {
	case "", "bottom":
		return motion.SensorBarBottom, nil
	case "top":
		return motion.SensorBarTop, nil
	default:
		return 0, fmt.Errorf("invalid sensor bar position %q", p.SensorBar)
	}
}

// WiimoteOptions returns the device options described by the profile.
func (p *Profile) WiimoteOptions() (*wiimote.Options, error) {
	bar, err := p.SensorBarPosition()
	if err != nil {
		return nil, err
	}
	cal := p.Calibration
	if cal.OneG <= cal.ZeroG {
		cal = wiimote.DefaultCalibration
	}
	return &wiimote.Options{SensorBar: bar, Calibration: &cal}, nil
}

// FormatFromPath maps a file extension to "json", "yaml" or "toml".
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".toml":
		return "toml", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Decode reads a profile in the given format.
func Decode(r io.Reader, format string) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var p Profile
	switch format {
	case "json":
		err = json.Unmarshal(data, &p)
	case "yaml":
		err = yaml.Unmarshal(data, &p)
	case "toml":
		err = toml.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s profile: %w", format, err)
	}
	return &p, nil
}

// Encode writes p in the given format.
func (p *Profile) Encode(w io.Writer, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(p, "", "  ")
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(p)
		data = buf.Bytes()
	case "toml":
		data, err = toml.Marshal(*p)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encode %s profile: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

// Load reads a profile, picking the format from the file extension.
func Load(path string) (*Profile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}

// Save writes p to path, creating parent directories as needed.
func (p *Profile) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := p.Encode(&buf, format); err != nil {
		return err
	}
	if err := configpaths.EnsureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
