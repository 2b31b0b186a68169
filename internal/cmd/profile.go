package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/internal/configpaths"
	"github.com/Alia5/motionemu/internal/settings"
)

// ProfileCommand groups controller profile subcommands.
type ProfileCommand struct {
	Init ProfileInit `cmd:"" help:"Write a profile holding the default bindings"`
	Show ProfileShow `cmd:"" help:"Print the bindings and settings of a profile"`
}

// ProfileInit scaffolds a controller profile.
type ProfileInit struct {
	Name      string `arg:"" optional:"" help:"Profile name" default:"default"`
	Format    string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output    string `help:"Destination file path (defaults to the profiles directory)"`
	SensorBar string `help:"Sensor bar position" enum:"top,bottom" default:"bottom"`
	Force     bool   `help:"Overwrite if the file already exists"`
}

// Run is called by Kong when the profile init command is executed.
func (c *ProfileInit) Run(logger *slog.Logger) error {
	dest := c.Output
	if dest == "" {
		p, err := configpaths.DefaultProfilePath(c.Name, c.Format)
		if err != nil {
			return err
		}
		dest = p
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}

	p := settings.Default()
	p.SensorBar = c.SensorBar
	if err := p.Save(dest); err != nil {
		return err
	}
	logger.Info("Profile written", "path", dest)
	return nil
}

// ProfileShow prints a profile as the emulator would load it.
type ProfileShow struct {
	Path string `arg:"" help:"Profile file" type:"existingfile"`
}

// Run is called by Kong when the profile show command is executed.
func (c *ProfileShow) Run() error {
	p, err := settings.Load(c.Path)
	if err != nil {
		return err
	}
	bank := controls.NewBank()
	p.Apply(bank)

	fmt.Printf("version %d, sensor bar %s, calibration 0g=0x%03x 1g=0x%03x\n",
		p.Version, p.SensorBar, p.Calibration.ZeroG, p.Calibration.OneG)
	for _, g := range bank.Groups() {
		fmt.Printf("\n[%s] enabled=%t\n", g.Name(), g.IsEnabled())
		for _, ctl := range g.Controls() {
			fmt.Printf("  %-12s %s\n", ctl.Name, ctl.Expression)
		}
		for _, s := range g.Settings() {
			fmt.Printf("  %-16s %g %s\n", s.Name, s.Value(), s.Unit)
		}
	}
	return nil
}
