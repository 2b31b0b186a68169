// Package sink delivers per-tick frames of the emulated controller to
// consumers: terminals, files, websocket clients and MQTT brokers.
package sink

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/Alia5/motionemu/device"
	"github.com/Alia5/motionemu/device/wiimote"
	"github.com/Alia5/motionemu/motion"
)

// Frame is the output of one emulation tick.
type Frame struct {
	Tick    uint64           `json:"tick"`
	Time    float64          `json:"time"`
	Buttons uint16           `json:"buttons"`
	Accel   motion.AccelData `json:"accel"`
	Report  string           `json:"report"`
	State   wiimote.State    `json:"state"`
}

// NewFrame builds the frame for a tick from the device snapshot.
func NewFrame(tick uint64, elapsed time.Duration, st wiimote.State) Frame {
	return Frame{
		Tick:    tick,
		Time:    elapsed.Seconds(),
		Buttons: st.Input.Buttons,
		Accel:   st.Input.Accel,
		Report:  encodeReport(st.Input),
		State:   st,
	}
}

func encodeReport(b device.ReportBuilder) string {
	return hex.EncodeToString(b.BuildReport())
}

// Sink consumes frames.
type Sink interface {
	Write(f Frame) error
	Close() error
}

// Multi fans frames out to several sinks.
type Multi []Sink

func (m Multi) Write(f Frame) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
