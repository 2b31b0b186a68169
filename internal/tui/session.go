// Package tui drives an emulated Wiimote from the keyboard and shows its
// motion state in the terminal.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/device/wiimote"

	"github.com/gdamore/tcell/v2"
)

// DefaultHold is how long a key press keeps its input active. Terminals do
// not report key releases, so auto-repeat refreshes the hold while a key is
// kept down.
const DefaultHold = 600 * time.Millisecond

var runeBindings = map[rune]string{
	'w': "Swing Up",
	's': "Swing Down",
	'a': "Swing Left",
	'd': "Swing Right",
	'e': "Swing Forward",
	'q': "Swing Backward",
	'x': "Shake X",
	'y': "Shake Y",
	'z': "Shake Z",
	'i': "Point Up",
	'k': "Point Down",
	'j': "Point Left",
	'l': "Point Right",
	'r': "Recenter",
	' ': "A",
	'b': "B",
	'1': "1",
	'2': "2",
	'+': "Plus",
	'-': "Minus",
	'm': "Home",
}

var keyBindings = map[tcell.Key]string{
	tcell.KeyUp:    "Tilt Forward",
	tcell.KeyDown:  "Tilt Backward",
	tcell.KeyLeft:  "Tilt Left",
	tcell.KeyRight: "Tilt Right",
}

const hideInput = "Point Hide"

// Session maps key presses to inputs and renders device state.
type Session struct {
	screen tcell.Screen
	inputs *controls.InputSet
	hold   time.Duration

	held   map[string]time.Time
	hidden bool
}

func New(screen tcell.Screen, inputs *controls.InputSet, hold time.Duration) *Session {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Session{
		screen: screen,
		inputs: inputs,
		hold:   hold,
		held:   map[string]time.Time{},
	}
}

// HandleEvent applies a terminal event. It returns false when the user asked
// to quit.
func (s *Session) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			r := ev.Rune()
			if r == 'h' {
				s.hidden = !s.hidden
				s.inputs.Set(hideInput, boolValue(s.hidden))
				return true
			}
			if name, ok := runeBindings[r]; ok {
				s.press(name, now)
			}
		default:
			if name, ok := keyBindings[ev.Key()]; ok {
				s.press(name, now)
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *Session) press(name string, now time.Time) {
	s.held[name] = now.Add(s.hold)
	s.inputs.Set(name, 1)
}

// Release clears inputs whose hold has expired.
func (s *Session) Release(now time.Time) {
	for name, until := range s.held {
		if !now.Before(until) {
			delete(s.held, name)
			s.inputs.Set(name, 0)
		}
	}
}

// Held returns the inputs currently held, sorted.
func (s *Session) Held() []string {
	out := make([]string, 0, len(s.held))
	for name := range s.held {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Draw renders st.
func (s *Session) Draw(st wiimote.State) {
	s.screen.Clear()
	lines := []string{
		"motionemu   arrows tilt  wasdqe swing  xyz shake  ijkl point  h hide  r recenter  esc quit",
		"",
		fmt.Sprintf("tilt     pitch %+7.3f  roll %+7.3f", st.Tilt.Angle.X(), st.Tilt.Angle.Y()),
		fmt.Sprintf("swing    x %+7.3f  y %+7.3f  z %+7.3f", st.Swing.Position.X(), st.Swing.Position.Y(), st.Swing.Position.Z()),
		fmt.Sprintf("shake    x %+7.3f  y %+7.3f  z %+7.3f", st.Shake.Position.X(), st.Shake.Position.Y(), st.Shake.Position.Z()),
		fmt.Sprintf("cursor   pitch %+7.3f  yaw %+7.3f  hidden %t", st.Cursor.Angle.X(), st.Cursor.Angle.Z(), s.hidden),
		imuLine(st),
		fmt.Sprintf("accel    x %4d  y %4d  z %4d", st.Input.Accel.X, st.Input.Accel.Y, st.Input.Accel.Z),
		fmt.Sprintf("buttons  0x%04x", st.Input.Buttons),
		"report   " + hexBytes(st.Input.BuildReport()),
		"held     " + strings.Join(s.Held(), ", "),
	}
	for y, line := range lines {
		s.drawLine(y, line)
	}
	s.screen.Show()
}

func imuLine(st wiimote.State) string {
	if st.Orientation == nil {
		return "imu      inactive"
	}
	o := *st.Orientation
	return fmt.Sprintf("imu      pitch %7.3f  roll %7.3f  yaw %7.3f", o.X(), o.Y(), o.Z())
}

func (s *Session) drawLine(y int, line string) {
	style := tcell.StyleDefault
	if y == 0 {
		style = style.Reverse(true)
	}
	x := 0
	for _, r := range line {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(parts, " ")
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Run polls keyboard events and calls step once per tick until ctx is done
// or the user quits. step advances the device and returns its snapshot.
func (s *Session) Run(ctx context.Context, tick time.Duration, step func() wiimote.State) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !s.HandleEvent(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			s.Release(now)
			s.Draw(step())
		}
	}
}
