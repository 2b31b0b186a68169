// Package trace replays scripted input timelines. A trace is a list of
// keyframes; each keyframe sets some inputs and the values hold until a later
// keyframe changes them.
package trace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/internal/settings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ErrEmptyTrace is returned when a trace has no keyframes.
var ErrEmptyTrace = errors.New("trace has no keyframes")

// Keyframe sets input values at a point in time.
type Keyframe struct {
	At  time.Duration
	Set map[string]float64
}

// Trace is a time ordered list of keyframes.
type Trace struct {
	Keyframes []Keyframe
}

type fileKeyframe struct {
	At  string             `json:"at" yaml:"at" toml:"at"`
	Set map[string]float64 `json:"set" yaml:"set" toml:"set"`
}

type fileTrace struct {
	Keyframes []fileKeyframe `json:"keyframes" yaml:"keyframes" toml:"keyframes"`
}

// Load reads a trace file. JSON and YAML share the YAML decoder.
func Load(path string) (*Trace, error) {
	format, err := settings.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode parses a trace in the given format.
func Decode(r io.Reader, format string) (*Trace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw fileTrace
	switch format {
	case "json", "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case "toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %s", settings.ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}

	t := &Trace{}
	for i, k := range raw.Keyframes {
		at, err := time.ParseDuration(k.At)
		if err != nil {
			return nil, fmt.Errorf("keyframe %d: %w", i, err)
		}
		if at < 0 {
			return nil, fmt.Errorf("keyframe %d: negative time %s", i, k.At)
		}
		t.Keyframes = append(t.Keyframes, Keyframe{At: at, Set: k.Set})
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate sorts the keyframes by time and rejects empty traces.
func (t *Trace) Validate() error {
	if len(t.Keyframes) == 0 {
		return ErrEmptyTrace
	}
	sort.SliceStable(t.Keyframes, func(i, j int) bool {
		return t.Keyframes[i].At < t.Keyframes[j].At
	})
	return nil
}

// Duration is the time of the last keyframe.
func (t *Trace) Duration() time.Duration {
	if len(t.Keyframes) == 0 {
		return 0
	}
	return t.Keyframes[len(t.Keyframes)-1].At
}

// Inputs returns every input named anywhere in the trace, sorted.
func (t *Trace) Inputs() []string {
	seen := map[string]struct{}{}
	for _, k := range t.Keyframes {
		for name := range k.Set {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ValuesAt returns the held value of every input at time at. Inputs not yet
// set by any keyframe are absent.
func (t *Trace) ValuesAt(at time.Duration) map[string]float64 {
	values := map[string]float64{}
	for _, k := range t.Keyframes {
		if k.At > at {
			break
		}
		for name, v := range k.Set {
			values[name] = v
		}
	}
	return values
}

// Apply publishes the values held at time at to in.
func (t *Trace) Apply(at time.Duration, in *controls.InputSet) {
	in.SetAll(t.ValuesAt(at))
}

// Player applies keyframes incrementally as time advances.
type Player struct {
	trace *Trace
	next  int
}

func NewPlayer(t *Trace) *Player {
	return &Player{trace: t}
}

// Advance applies every keyframe up to and including at. It returns false
// once all keyframes have been applied.
func (p *Player) Advance(at time.Duration, in *controls.InputSet) bool {
	for p.next < len(p.trace.Keyframes) && p.trace.Keyframes[p.next].At <= at {
		in.SetAll(p.trace.Keyframes[p.next].Set)
		p.next++
	}
	return p.next < len(p.trace.Keyframes)
}

// Rewind restarts playback from the first keyframe.
func (p *Player) Rewind() {
	p.next = 0
}
