package trace_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/internal/settings"
	"github.com/Alia5/motionemu/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swingTrace = `
keyframes:
  - at: 500ms
    set: {"Swing Right": 0}
  - at: 0s
    set: {"Swing Right": 1, "A": 1}
  - at: 1s
    set: {"A": 0}
`

func TestDecodeSortsKeyframes(t *testing.T) {
	tr, err := trace.Decode(strings.NewReader(swingTrace), "yaml")
	require.NoError(t, err)

	require.Len(t, tr.Keyframes, 3)
	assert.Equal(t, time.Duration(0), tr.Keyframes[0].At)
	assert.Equal(t, time.Second, tr.Duration())
	assert.Equal(t, []string{"A", "Swing Right"}, tr.Inputs())
}

func TestValuesAt(t *testing.T) {
	tr, err := trace.Decode(strings.NewReader(swingTrace), "yaml")
	require.NoError(t, err)

	type testCase struct {
		name     string
		at       time.Duration
		expected map[string]float64
	}

	cases := []testCase{
		{name: "start", at: 0, expected: map[string]float64{"Swing Right": 1, "A": 1}},
		{name: "held", at: 499 * time.Millisecond, expected: map[string]float64{"Swing Right": 1, "A": 1}},
		{name: "released", at: 500 * time.Millisecond, expected: map[string]float64{"Swing Right": 0, "A": 1}},
		{name: "after end", at: time.Minute, expected: map[string]float64{"Swing Right": 0, "A": 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, tr.ValuesAt(c.at))
		})
	}
}

func TestApply(t *testing.T) {
	tr := &trace.Trace{Keyframes: []trace.Keyframe{
		{At: 0, Set: map[string]float64{"Shake X": 1}},
		{At: time.Second, Set: map[string]float64{"Shake X": 0}},
	}}
	require.NoError(t, tr.Validate())

	in := controls.NewInputSet()
	tr.Apply(100*time.Millisecond, in)
	v, ok := in.Get("Shake X")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestPlayer(t *testing.T) {
	tr, err := trace.Decode(strings.NewReader(swingTrace), "yaml")
	require.NoError(t, err)

	in := controls.NewInputSet()
	p := trace.NewPlayer(tr)

	assert.True(t, p.Advance(0, in))
	v, _ := in.Get("Swing Right")
	assert.Equal(t, 1.0, v)

	assert.True(t, p.Advance(600*time.Millisecond, in))
	v, _ = in.Get("Swing Right")
	assert.Equal(t, 0.0, v)

	assert.False(t, p.Advance(time.Second, in))
	v, _ = in.Get("A")
	assert.Equal(t, 0.0, v)

	p.Rewind()
	assert.True(t, p.Advance(0, in))
	v, _ = in.Get("A")
	assert.Equal(t, 1.0, v)
}

func TestDecodeErrors(t *testing.T) {
	type testCase struct {
		name   string
		doc    string
		format string
		target error
	}

	cases := []testCase{
		{name: "empty", doc: "keyframes: []", format: "yaml", target: trace.ErrEmptyTrace},
		{name: "blank document", doc: "", format: "yaml", target: trace.ErrEmptyTrace},
		{name: "unknown format", doc: "", format: "ini", target: settings.ErrUnknownFormat},
		{name: "bad duration", doc: `{"keyframes": [{"at": "soon", "set": {}}]}`, format: "json"},
		{name: "negative time", doc: `{"keyframes": [{"at": "-1s", "set": {}}]}`, format: "json"},
		{name: "unknown field", doc: "frames: []", format: "yaml"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := trace.Decode(strings.NewReader(c.doc), c.format)
			require.Error(t, err)
			if c.target != nil {
				assert.ErrorIs(t, err, c.target)
			}
		})
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.toml")
	doc := `
[[keyframes]]
at = "0s"
[keyframes.set]
"Tilt Left" = 1.0

[[keyframes]]
at = "250ms"
[keyframes.set]
"Tilt Left" = 0.0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tr, err := trace.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, tr.Duration())
	assert.Equal(t, map[string]float64{"Tilt Left": 1}, tr.ValuesAt(0))
}
