// Package imusource reads accelerometer and gyroscope samples from a text
// stream, typically a microcontroller on a serial port, and publishes them as
// the named inputs the IMU control groups bind to by default.
package imusource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/motion"

	"github.com/jacobsa/go-serial/serial"
)

// ErrMalformedLine is returned for lines that are not six numbers.
var ErrMalformedLine = errors.New("malformed IMU line")

// Sample is one accelerometer and gyroscope reading.
type Sample struct {
	// Accel is in m/s².
	Accel motion.Vec3
	// Gyro is in rad/s.
	Gyro motion.Vec3
}

// Reader parses lines of "ax ay az gx gy gz" separated by commas or
// whitespace. Blank lines and lines starting with '#' are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int

	// AccelScale converts raw accelerometer values to m/s².
	AccelScale float64
	// GyroScale converts raw gyroscope values to rad/s.
	GyroScale float64
}

// NewReader reads samples in m/s² and rad/s.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r), AccelScale: 1, GyroScale: 1}
}

// UseUnits configures the reader for accelerometers reporting in g and
// gyroscopes reporting in degrees per second.
func (r *Reader) UseUnits(accelInG, gyroInDegrees bool) {
	r.AccelScale, r.GyroScale = 1, 1
	if accelInG {
		r.AccelScale = motion.GravityAcceleration
	}
	if gyroInDegrees {
		r.GyroScale = math.Pi / 180
	}
}

// Next returns the next sample. It returns io.EOF at the end of the stream.
// A malformed line yields an error wrapping ErrMalformedLine; reading may
// continue after it.
func (r *Reader) Next() (Sample, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return r.parse(text)
	}
	if err := r.scanner.Err(); err != nil {
		return Sample{}, err
	}
	return Sample{}, io.EOF
}

func (r *Reader) parse(text string) (Sample, error) {
	fields := strings.FieldsFunc(text, func(c rune) bool {
		return c == ',' || c == ' ' || c == '\t' || c == ';'
	})
	if len(fields) != 6 {
		return Sample{}, fmt.Errorf("%w: line %d: want 6 values, got %d", ErrMalformedLine, r.line, len(fields))
	}
	var v [6]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Sample{}, fmt.Errorf("%w: line %d: bad value %q", ErrMalformedLine, r.line, f)
		}
		v[i] = n
	}
	return Sample{
		Accel: motion.Vec3{v[0], v[1], v[2]}.Scale(r.AccelScale),
		Gyro:  motion.Vec3{v[3], v[4], v[5]}.Scale(r.GyroScale),
	}, nil
}

// Input names published for each sensor axis as positive/negative halves.
var (
	accelInputs = [3][2]string{
		{"Accel Left", "Accel Right"},
		{"Accel Backward", "Accel Forward"},
		{"Accel Up", "Accel Down"},
	}
	gyroInputs = [3][2]string{
		{"Gyro Pitch Up", "Gyro Pitch Down"},
		{"Gyro Roll Left", "Gyro Roll Right"},
		{"Gyro Yaw Left", "Gyro Yaw Right"},
	}
)

// Publish writes s to in. Each signed axis is split into two non-negative
// half inputs so the IMU groups recover it as the difference of a pair.
func Publish(in *controls.InputSet, s Sample) {
	values := make(map[string]float64, 12)
	split(values, accelInputs, s.Accel)
	split(values, gyroInputs, s.Gyro)
	in.SetAll(values)
}

func split(out map[string]float64, names [3][2]string, v motion.Vec3) {
	for i, pair := range names {
		out[pair[0]] = math.Max(v[i], 0)
		out[pair[1]] = math.Max(-v[i], 0)
	}
}

// SerialConfig describes a serial port carrying IMU lines.
type SerialConfig struct {
	Port     string
	BaudRate uint
}

// OpenSerial opens the serial port in 8N1 mode.
func OpenSerial(cfg SerialConfig) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              cfg.Port,
		BaudRate:              cfg.BaudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	return port, nil
}
