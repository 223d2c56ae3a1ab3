package core

import (
	"fmt"
	"sort"
)

// Sim defines the minimal contract a viewer needs from a lattice simulation.
type Sim interface {
	Name() string
	Size() Size
	// Reset rebuilds the initial state. A zero seed keeps the configured one.
	Reset(seed int64) error
	// Step advances once and reports whether the simulation is still running.
	Step() bool
	// Cells returns one palette index per site, 0 meaning empty.
	Cells() []uint8
}

// Factory constructs a Sim from flag-style key/value overrides.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// New looks up name in the registry and builds it.
func New(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (available: %v)", name, SimNames())
	}
	return f(cfg)
}

// SimNames returns the registered names in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
