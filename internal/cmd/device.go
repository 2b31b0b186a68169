package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/device/wiimote"
	"github.com/Alia5/motionemu/internal/log"
	"github.com/Alia5/motionemu/internal/settings"
	"github.com/Alia5/motionemu/internal/sink"
)

// DeviceOptions selects the profile and tick rate of the emulated Wiimote.
type DeviceOptions struct {
	Profile   string  `help:"Controller profile (json, yaml or toml); defaults are used when empty" type:"path" env:"MOTIONEMU_PROFILE"`
	Rate      float64 `help:"Emulation ticks per second" default:"200" env:"MOTIONEMU_RATE"`
	SensorBar string  `help:"Override the profile's sensor bar position (top or bottom)" env:"MOTIONEMU_SENSOR_BAR"`
}

// Validate rejects non-positive tick rates.
func (o *DeviceOptions) Validate() error {
	if o.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %g", o.Rate)
	}
	return nil
}

func (o *DeviceOptions) tick() time.Duration {
	return time.Duration(float64(time.Second) / o.Rate)
}

func (o *DeviceOptions) newWiimote(inputs *controls.InputSet, logger *slog.Logger) (*wiimote.Wiimote, error) {
	profile := settings.Default()
	if o.Profile != "" {
		p, err := settings.Load(o.Profile)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		profile = p
		logger.Info("Loaded profile", "path", o.Profile, "version", p.Version)
	}
	if o.SensorBar != "" {
		profile.SensorBar = o.SensorBar
	}

	bank := controls.NewBank()
	profile.Apply(bank)

	opts, err := profile.WiimoteOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	return wiimote.New(bank, inputs, opts), nil
}

// MQTTOptions configures publishing frames to an MQTT broker.
type MQTTOptions struct {
	Broker   string `help:"MQTT broker URL, e.g. tcp://localhost:1883; disabled when empty" env:"MOTIONEMU_MQTT_BROKER"`
	Topic    string `help:"MQTT topic for frames" default:"motionemu/frame" env:"MOTIONEMU_MQTT_TOPIC"`
	ClientID string `help:"MQTT client id" default:"motionemu" env:"MOTIONEMU_MQTT_CLIENT_ID"`
	QoS      uint8  `help:"MQTT quality of service" default:"0" env:"MOTIONEMU_MQTT_QOS"`
}

// OutputOptions selects where frames are delivered.
type OutputOptions struct {
	Format string      `help:"Frame format for the output stream" enum:"auto,table,json" default:"auto" env:"MOTIONEMU_FORMAT"`
	Output string      `help:"Write frames to this file; '-' is stdout" default:"-" env:"MOTIONEMU_OUTPUT"`
	Every  int         `help:"Emit every Nth frame" default:"1" env:"MOTIONEMU_EVERY"`
	WS     string      `name:"ws" help:"Serve frames to websocket clients on this address (e.g. :8080)" env:"MOTIONEMU_WS"`
	MQTT   MQTTOptions `embed:"" prefix:"mqtt."`
}

// Validate rejects frame decimation below one and unknown QoS levels.
func (o *OutputOptions) Validate() error {
	if o.Every < 1 {
		return errors.New("every must be at least 1")
	}
	if o.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", o.MQTT.QoS)
	}
	return nil
}

// outputs holds the opened sinks and the resources to release with them.
type outputs struct {
	sink    sink.Multi
	closers []func()
}

func (o *outputs) Close() {
	_ = o.sink.Close()
	for i := len(o.closers) - 1; i >= 0; i-- {
		o.closers[i]()
	}
}

// open starts the configured sinks. When stream is false the frame writer is
// only opened for an explicit output file.
func (o *OutputOptions) open(logger *slog.Logger, stream bool) (*outputs, error) {
	out := &outputs{}

	switch {
	case o.Output != "" && o.Output != "-":
		f, err := os.Create(o.Output)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, func() { _ = f.Close() })
		w, err := sink.NewWriter(f, o.Format)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.sink = append(out.sink, w)
	case stream:
		w, err := sink.NewWriter(os.Stdout, o.Format)
		if err != nil {
			return nil, err
		}
		out.sink = append(out.sink, w)
	}

	if o.WS != "" {
		ln, err := net.Listen("tcp", o.WS)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("listen %s: %w", o.WS, err)
		}
		monitor := sink.NewMonitor(logger)
		mux := http.NewServeMux()
		mux.Handle("/ws", monitor)
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("websocket server failed", "error", err)
			}
		}()
		logger.Info("Serving frames over websocket", "addr", ln.Addr().String(), "path", "/ws")
		out.sink = append(out.sink, monitor)
		out.closers = append(out.closers, func() { _ = srv.Close() })
	}

	if o.MQTT.Broker != "" {
		m, err := sink.DialMQTT(o.MQTT.Broker, o.MQTT.ClientID, o.MQTT.Topic, o.MQTT.QoS)
		if err != nil {
			out.Close()
			return nil, err
		}
		logger.Info("Publishing frames over MQTT", "broker", o.MQTT.Broker, "topic", o.MQTT.Topic)
		out.sink = append(out.sink, m)
	}

	return out, nil
}

// runner steps a device and forwards its frames.
type runner struct {
	device *wiimote.Wiimote
	out    sink.Sink
	raw    log.RawLogger
	logger *slog.Logger
	dt     float64
	every  int

	tick uint64
}

// step advances one tick. Sink errors are logged and do not stop emulation.
func (r *runner) step() wiimote.State {
	report := r.device.Step(r.dt)
	r.tick++
	r.raw.Log(r.tick, report.BuildReport())

	st := r.device.Snapshot()
	if r.out != nil && r.tick%uint64(r.every) == 0 {
		elapsed := time.Duration(float64(r.tick) * r.dt * float64(time.Second))
		if err := r.out.Write(sink.NewFrame(r.tick, elapsed, st)); err != nil {
			r.logger.Warn("failed to deliver frame", "tick", r.tick, "error", err)
		}
	}
	return st
}
