package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/internal/log"
	"github.com/Alia5/motionemu/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTrace(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

type frameLine struct {
	Tick    uint64 `json:"tick"`
	Buttons uint16 `json:"buttons"`
	Report  string `json:"report"`
}

func readFrames(t *testing.T, path string) []frameLine {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var frames []frameLine
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var fr frameLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &fr))
		frames = append(frames, fr)
	}
	require.NoError(t, sc.Err())
	return frames
}

func TestSimulateWritesFrames(t *testing.T) {
	type testCase struct {
		name       string
		every      int
		wantFrames int
		wantFirst  uint64
	}

	cases := []testCase{
		{name: "every tick", every: 1, wantFrames: 10, wantFirst: 1},
		{name: "every second tick", every: 2, wantFrames: 5, wantFirst: 2},
	}

	tracePath := writeTrace(t, `{"keyframes": [
		{"at": "0s", "set": {"A": 1}},
		{"at": "500ms", "set": {"A": 0}}
	]}`)

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "frames.jsonl")
			s := &Simulate{
				Trace:    tracePath,
				Duration: 1e9,
				Device:   DeviceOptions{Rate: 10},
				Out:      OutputOptions{Format: "json", Output: out, Every: c.every},
			}
			require.NoError(t, s.Validate())
			require.NoError(t, s.simulate(context.Background(), discardLogger(), log.NewRaw(nil)))

			frames := readFrames(t, out)
			require.Len(t, frames, c.wantFrames)
			assert.Equal(t, c.wantFirst, frames[0].Tick)
			assert.Equal(t, uint16(0x0800), frames[0].Buttons)
			assert.Equal(t, uint16(0), frames[len(frames)-1].Buttons)
		})
	}
}

func TestSimulateRestingReport(t *testing.T) {
	tracePath := writeTrace(t, `{"keyframes": [{"at": "0s", "set": {}}]}`)
	out := filepath.Join(t.TempDir(), "frames.jsonl")
	s := &Simulate{
		Trace:  tracePath,
		Device: DeviceOptions{Rate: 4},
		Out:    OutputOptions{Format: "json", Output: out, Every: 1},
	}
	require.NoError(t, s.simulate(context.Background(), discardLogger(), log.NewRaw(nil)))

	frames := readFrames(t, out)
	// Trace length zero plus one second of padding.
	require.Len(t, frames, 4)
	for _, f := range frames {
		assert.Equal(t, "31000080809a", f.Report)
	}
}

func TestSimulateStopsOnCancel(t *testing.T) {
	tracePath := writeTrace(t, `{"keyframes": [{"at": "0s", "set": {"A": 1}}]}`)
	out := filepath.Join(t.TempDir(), "frames.jsonl")
	s := &Simulate{
		Trace:  tracePath,
		Device: DeviceOptions{Rate: 100},
		Out:    OutputOptions{Format: "json", Output: out, Every: 1},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.simulate(ctx, discardLogger(), log.NewRaw(nil)))
	assert.Empty(t, readFrames(t, out))
}

func TestSimulateBadProfile(t *testing.T) {
	tracePath := writeTrace(t, `{"keyframes": [{"at": "0s", "set": {}}]}`)
	s := &Simulate{
		Trace:  tracePath,
		Device: DeviceOptions{Rate: 10, Profile: filepath.Join(t.TempDir(), "missing.json")},
		Out:    OutputOptions{Format: "json", Output: filepath.Join(t.TempDir(), "f"), Every: 1},
	}
	err := s.simulate(context.Background(), discardLogger(), log.NewRaw(nil))
	assert.ErrorContains(t, err, "load profile")
}

func TestOptionsValidate(t *testing.T) {
	type testCase struct {
		name    string
		device  DeviceOptions
		out     OutputOptions
		wantErr string
	}

	cases := []testCase{
		{name: "ok", device: DeviceOptions{Rate: 200}, out: OutputOptions{Every: 1}},
		{name: "zero rate", device: DeviceOptions{Rate: 0}, out: OutputOptions{Every: 1}, wantErr: "rate must be positive"},
		{name: "zero every", device: DeviceOptions{Rate: 200}, out: OutputOptions{Every: 0}, wantErr: "every must be at least 1"},
		{name: "bad qos", device: DeviceOptions{Rate: 200}, out: OutputOptions{Every: 1, MQTT: MQTTOptions{QoS: 3}}, wantErr: "mqtt qos"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := &Play{Device: c.device, Out: c.out}
			err := p.Validate()
			if c.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, c.wantErr)
		})
	}
}

func TestNewWiimoteSensorBarOverride(t *testing.T) {
	o := &DeviceOptions{Rate: 200, SensorBar: "sideways"}
	_, err := o.newWiimote(controls.NewInputSet(), discardLogger())
	assert.Error(t, err)

	o.SensorBar = "top"
	w, err := o.newWiimote(controls.NewInputSet(), discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, w)
}

func TestBuildMapFromStruct(t *testing.T) {
	m := buildMapFromStruct(reflect.TypeOf(IMU{}))

	assert.Equal(t, "-", m["port"])
	assert.Equal(t, uint64(115200), m["baud"])
	assert.Equal(t, false, m["accel-in-g"])
	assert.Equal(t, 200.0, m["rate"])
	assert.Equal(t, "auto", m["format"])
	assert.Equal(t, int64(1), m["every"])

	mqtt, ok := m["mqtt"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "motionemu/frame", mqtt["topic"])
}

func TestConfigInit(t *testing.T) {
	type testCase struct {
		name   string
		format string
		file   string
	}

	cases := []testCase{
		{name: "json", format: "json", file: "simulate.json"},
		{name: "yaml", format: "yaml", file: "simulate.yaml"},
		{name: "toml", format: "toml", file: "simulate.toml"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), c.file)
			ci := &ConfigInit{Command: "simulate", Format: c.format, Output: dest}
			require.NoError(t, ci.Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Contains(t, string(data), "realtime")
			assert.Contains(t, string(data), "motionemu/frame")

			assert.ErrorContains(t, ci.Run(), "destination exists")
			ci.Force = true
			assert.NoError(t, ci.Run())
		})
	}
}

func TestConfigInitUnknownFormat(t *testing.T) {
	ci := &ConfigInit{Command: "play", Format: "ini", Output: filepath.Join(t.TempDir(), "x")}
	assert.ErrorContains(t, ci.Run(), "unsupported format")
}

func TestProfileInit(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "living-room.yaml")
	pi := &ProfileInit{Name: "living-room", Format: "yaml", Output: dest, SensorBar: "top"}
	require.NoError(t, pi.Run(discardLogger()))

	p, err := settings.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, "top", p.SensorBar)
	assert.Equal(t, settings.CurrentVersion, p.Version)
	assert.Contains(t, p.Groups, "Tilt")

	assert.ErrorContains(t, pi.Run(discardLogger()), "destination exists")
}
