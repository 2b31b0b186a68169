package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/internal/imusource"
	"github.com/Alia5/motionemu/internal/log"
)

// IMU feeds a real accelerometer and gyroscope into the emulator.
type IMU struct {
	Port     string `help:"Serial port carrying 'ax ay az gx gy gz' lines; '-' reads stdin" default:"-" env:"MOTIONEMU_IMU_PORT"`
	Baud     uint   `help:"Serial baud rate" default:"115200" env:"MOTIONEMU_IMU_BAUD"`
	AccelInG bool   `name:"accel-in-g" help:"Accelerometer values are in g rather than m/s²" env:"MOTIONEMU_IMU_ACCEL_IN_G"`
	GyroDeg  bool   `name:"gyro-in-deg" help:"Gyroscope values are in °/s rather than rad/s" env:"MOTIONEMU_IMU_GYRO_IN_DEG"`

	Device DeviceOptions `embed:""`
	Out    OutputOptions `embed:""`
}

// Validate is called by Kong after parsing.
func (c *IMU) Validate() error {
	if err := c.Device.Validate(); err != nil {
		return err
	}
	return c.Out.Validate()
}

// Run is called by Kong when the imu command is executed.
func (c *IMU) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src io.ReadCloser = os.Stdin
	if c.Port != "-" {
		port, err := imusource.OpenSerial(imusource.SerialConfig{Port: c.Port, BaudRate: c.Baud})
		if err != nil {
			return err
		}
		src = port
		logger.Info("IMU serial port opened", "port", c.Port, "baud", c.Baud)
	}
	defer src.Close()

	inputs := controls.NewInputSet()
	device, err := c.Device.newWiimote(inputs, logger)
	if err != nil {
		return err
	}
	out, err := c.Out.open(logger, true)
	if err != nil {
		return err
	}
	defer out.Close()

	reader := imusource.NewReader(src)
	reader.UseUnits(c.AccelInG, c.GyroDeg)

	readErr := make(chan error, 1)
	go func() {
		readErr <- c.pump(reader, inputs, logger)
	}()

	r := &runner{
		device: device,
		out:    out.sink,
		raw:    rawLogger,
		logger: logger,
		dt:     1 / c.Device.Rate,
		every:  c.Out.Every,
	}
	ticker := time.NewTicker(c.Device.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				logger.Info("IMU stream ended", "ticks", r.tick)
				return nil
			}
			return err
		case <-ticker.C:
			r.step()
		}
	}
}

// pump publishes every sample read until the stream ends. Malformed lines are
// logged and skipped.
func (c *IMU) pump(reader *imusource.Reader, inputs *controls.InputSet, logger *slog.Logger) error {
	for {
		s, err := reader.Next()
		if errors.Is(err, imusource.ErrMalformedLine) {
			logger.Debug("skipping IMU line", "error", err)
			continue
		}
		if err != nil {
			return err
		}
		imusource.Publish(inputs, s)
	}
}
