package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/internal/log"
	"github.com/Alia5/motionemu/internal/tui"

	"github.com/gdamore/tcell/v2"
)

// Play drives the emulator interactively from the keyboard.
type Play struct {
	Hold time.Duration `help:"How long a key press stays active without auto-repeat" default:"600ms" env:"MOTIONEMU_HOLD"`

	Device DeviceOptions `embed:""`
	Out    OutputOptions `embed:""`
}

// Validate is called by Kong after parsing.
func (p *Play) Validate() error {
	if err := p.Device.Validate(); err != nil {
		return err
	}
	return p.Out.Validate()
}

// Run is called by Kong when the play command is executed.
func (p *Play) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs := controls.NewInputSet()
	device, err := p.Device.newWiimote(inputs, logger)
	if err != nil {
		return err
	}
	// The terminal belongs to the UI, so frames only go to files and network sinks.
	out, err := p.Out.open(logger, false)
	if err != nil {
		return err
	}
	defer out.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	r := &runner{
		device: device,
		out:    out.sink,
		raw:    rawLogger,
		logger: logger,
		dt:     1 / p.Device.Rate,
		every:  p.Out.Every,
	}
	session := tui.New(screen, inputs, p.Hold)
	return session.Run(ctx, p.Device.tick(), r.step)
}
