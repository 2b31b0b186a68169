package cmd

import (
	"context"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/internal/log"
	"github.com/Alia5/motionemu/internal/trace"
)

// Simulate replays a scripted input trace through the emulator.
type Simulate struct {
	Trace    string        `help:"Input trace (json, yaml or toml)" required:"" type:"existingfile" env:"MOTIONEMU_TRACE"`
	Duration time.Duration `help:"Simulated time; defaults to the trace length plus one second" env:"MOTIONEMU_DURATION"`
	Realtime bool          `help:"Pace ticks in wall clock time instead of running as fast as possible" env:"MOTIONEMU_REALTIME"`

	Device DeviceOptions `embed:""`
	Out    OutputOptions `embed:""`
}

// Validate is called by Kong after parsing.
func (s *Simulate) Validate() error {
	if err := s.Device.Validate(); err != nil {
		return err
	}
	return s.Out.Validate()
}

// Run is called by Kong when the simulate command is executed.
func (s *Simulate) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.simulate(ctx, logger, rawLogger)
}

func (s *Simulate) simulate(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	tr, err := trace.Load(s.Trace)
	if err != nil {
		return err
	}
	duration := s.Duration
	if duration <= 0 {
		duration = tr.Duration() + time.Second
	}

	inputs := controls.NewInputSet()
	device, err := s.Device.newWiimote(inputs, logger)
	if err != nil {
		return err
	}
	out, err := s.Out.open(logger, true)
	if err != nil {
		return err
	}
	defer out.Close()

	r := &runner{
		device: device,
		out:    out.sink,
		raw:    rawLogger,
		logger: logger,
		dt:     1 / s.Device.Rate,
		every:  s.Out.Every,
	}
	ticks := int(math.Ceil(duration.Seconds() * s.Device.Rate))
	logger.Info("Simulating trace", "trace", s.Trace, "keyframes", len(tr.Keyframes), "duration", duration, "ticks", ticks)

	var pace <-chan time.Time
	if s.Realtime {
		ticker := time.NewTicker(s.Device.tick())
		defer ticker.Stop()
		pace = ticker.C
	}

	player := trace.NewPlayer(tr)
	for i := 0; i < ticks; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		at := time.Duration(float64(i) / s.Device.Rate * float64(time.Second))
		player.Advance(at, inputs)
		r.step()
	}
	logger.Info("Simulation finished", "ticks", r.tick)
	return nil
}
