package competition

import (
	"log/slog"

	"niche-ca/internal/core"
)

// Sim adapts a Simulation to the core.Sim contract used by the viewer.
type Sim struct {
	cfg   Config
	opts  []Option
	sim   *Simulation
	cells []uint8
}

// NewSim builds the initial environment for cfg.
func NewSim(cfg Config, opts ...Option) (*Sim, error) {
	s := &Sim{cfg: cfg, opts: opts}
	if err := s.Reset(0); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "competition" }

// Size returns the grid dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Cols, H: s.cfg.Rows} }

// Config returns the active configuration.
func (s *Sim) Config() Config { return s.cfg }

// Simulation exposes the underlying driver.
func (s *Sim) Simulation() *Simulation { return s.sim }

// Reset rebuilds the environment. A non-zero seed replaces the configured one.
func (s *Sim) Reset(seed int64) error {
	cfg := s.cfg
	if seed != 0 {
		cfg.Seed = seed
	}
	env, err := New(cfg)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.sim = NewSimulation(env, cfg.Iterations, s.opts...)
	s.cells = make([]uint8, cfg.Cells())
	s.refresh()
	return nil
}

// Step advances the driver and reports whether it is still running.
func (s *Sim) Step() bool {
	running := s.sim.Step()
	s.refresh()
	return running
}

// Cells returns palette indices: 0 for empty, roster slot+1 otherwise.
func (s *Sim) Cells() []uint8 { return s.cells }

func (s *Sim) refresh() {
	for i, slot := range s.sim.Environment().Residents() {
		s.cells[i] = uint8(slot + 1)
	}
}

func init() {
	core.Register("competition", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewSim(c, WithLogger(slog.Default()))
	})
}
