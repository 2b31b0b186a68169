// Package controls binds raw named inputs to the control groups of an
// emulated controller and turns them into per-tick motion samples.
package controls

import (
	"sort"
	"strings"
	"sync"
)

// InputSet holds the latest raw value of every named input published by
// input drivers (keyboard, traces, serial IMUs).
type InputSet struct {
	mu     sync.RWMutex
	values map[string]float64
}

func NewInputSet() *InputSet {
	return &InputSet{values: map[string]float64{}}
}

// Set stores the value of a named input.
func (s *InputSet) Set(name string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = v
}

// SetAll stores several values atomically.
func (s *InputSet) SetAll(values map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
}

// Get returns the value of a named input and whether it was ever set.
func (s *InputSet) Get(name string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Names returns all known input names, sorted.
func (s *InputSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Control is a single bindable input of a group. Its expression lists one or
// more input names separated by "|"; the control reads the largest of them.
type Control struct {
	Name       string
	Expression string
}

func (c *Control) alternatives() []string {
	var out []string
	for _, p := range strings.Split(c.Expression, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BoundCount reports how many of the control's inputs are published to in.
// A bound control reading zero is distinct from an unbound one.
func (c *Control) BoundCount(in *InputSet) int {
	n := 0
	for _, name := range c.alternatives() {
		if _, ok := in.Get(name); ok {
			n++
		}
	}
	return n
}

// State returns the current value of the control. Unbound or unset inputs
// read as zero.
func (c *Control) State(in *InputSet) float64 {
	var state float64
	for i, name := range c.alternatives() {
		v, _ := in.Get(name)
		if i == 0 || v > state {
			state = v
		}
	}
	return state
}
