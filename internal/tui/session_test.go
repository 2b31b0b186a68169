package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/device/wiimote"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, tcell.SimulationScreen, *controls.InputSet) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(120, 20)

	in := controls.NewInputSet()
	return New(screen, in, 100*time.Millisecond), screen, in
}

func screenLine(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestKeyPressHoldsInput(t *testing.T) {
	s, _, in := newTestSession(t)
	now := time.Unix(0, 0)

	type testCase struct {
		name  string
		ev    *tcell.EventKey
		input string
	}

	cases := []testCase{
		{name: "arrow tilts", ev: tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), input: "Tilt Forward"},
		{name: "letter swings", ev: tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), input: "Swing Right"},
		{name: "space presses a", ev: tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), input: "A"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.True(t, s.HandleEvent(c.ev, now))
			v, ok := in.Get(c.input)
			require.True(t, ok)
			assert.Equal(t, 1.0, v)
		})
	}

	s.Release(now.Add(50 * time.Millisecond))
	v, _ := in.Get("A")
	assert.Equal(t, 1.0, v)

	s.Release(now.Add(100 * time.Millisecond))
	v, _ = in.Get("A")
	assert.Equal(t, 0.0, v)
	assert.Empty(t, s.Held())
}

func TestRepeatExtendsHold(t *testing.T) {
	s, _, in := newTestSession(t)
	now := time.Unix(0, 0)
	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)

	s.HandleEvent(ev, now)
	s.HandleEvent(ev, now.Add(80*time.Millisecond))
	s.Release(now.Add(150 * time.Millisecond))

	v, _ := in.Get("Shake X")
	assert.Equal(t, 1.0, v)
	assert.Equal(t, []string{"Shake X"}, s.Held())
}

func TestHideToggles(t *testing.T) {
	s, _, in := newTestSession(t)
	ev := tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone)

	s.HandleEvent(ev, time.Now())
	v, _ := in.Get("Point Hide")
	assert.Equal(t, 1.0, v)

	s.HandleEvent(ev, time.Now())
	v, _ = in.Get("Point Hide")
	assert.Equal(t, 0.0, v)
}

func TestQuitKeys(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.False(t, s.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), time.Now()))
	assert.False(t, s.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), time.Now()))
}

func TestDrawShowsReport(t *testing.T) {
	s, screen, in := newTestSession(t)
	w := wiimote.New(controls.NewBank(), in, nil)
	w.Step(1.0 / 200)

	s.Draw(w.Snapshot())

	var lines []string
	for y := 0; y < 12; y++ {
		lines = append(lines, screenLine(screen, y))
	}
	text := strings.Join(lines, "\n")
	assert.Contains(t, text, "report   31 00 00 80 80 9a")
	assert.Contains(t, text, "imu      inactive")
	assert.Contains(t, text, "accel    x  512  y  512  z  616")
}
