package competition

import (
	"context"
	"io"
	"log/slog"
	"slices"
)

// State is the lifecycle state of a Simulation.
type State int

const (
	Running State = iota
	Converged
	Exhausted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// NoStationarity is the stationarity time of a run that never converged.
const NoStationarity = -1

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger routes step and termination records to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver calls fn after every completed step with the new snapshot.
func WithObserver(fn func(t int, env *Environment)) Option {
	return func(s *Simulation) { s.observers = append(s.observers, fn) }
}

// Simulation drives an Environment until it stops changing or runs out of
// iterations.
type Simulation struct {
	env        *Environment
	iterations int
	t          int
	state      State
	stationary int
	counts     [][]int

	log       *slog.Logger
	observers []func(int, *Environment)
}

// NewSimulation wraps env with an iteration budget and records the initial
// counts as time 0.
func NewSimulation(env *Environment, iterations int, opts ...Option) *Simulation {
	s := &Simulation{
		env:        env,
		iterations: iterations,
		stationary: NoStationarity,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.counts = make([][]int, len(env.roster))
	s.record()
	if iterations <= 0 {
		s.state = Exhausted
	}
	return s
}

func (s *Simulation) record() {
	for i, n := range s.env.Counts() {
		s.counts[i] = append(s.counts[i], n)
	}
}

// Step advances one time step. It reports whether the simulation is still
// running afterwards; once stopped, Step is a no-op.
func (s *Simulation) Step() bool {
	if s.state != Running {
		return false
	}
	s.t++
	prev := s.env
	s.env = Advance(prev, s.t)
	s.record()
	s.log.Debug("step", "t", s.t, "counts", s.env.Counts())

	switch {
	case s.env.Equal(prev):
		s.state = Converged
		s.stationary = s.t - 1
		s.log.Info("simulation converged", "t", s.t, "stationarity", s.stationary)
	case s.t >= s.iterations:
		s.state = Exhausted
		s.log.Info("simulation exhausted", "t", s.t, "iterations", s.iterations)
	}
	for _, fn := range s.observers {
		fn(s.t, s.env)
	}
	return s.state == Running
}

// Run steps until the simulation stops or ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	for s.state == Running {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step()
	}
	return nil
}

// Environment returns the current snapshot.
func (s *Simulation) Environment() *Environment { return s.env }

// Time is the number of steps performed.
func (s *Simulation) Time() int { return s.t }

// Iterations is the step budget.
func (s *Simulation) Iterations() int { return s.iterations }

// State reports the lifecycle state.
func (s *Simulation) State() State { return s.state }

// StationarityTime is the last step that changed the grid, or
// NoStationarity if the run has not converged.
func (s *Simulation) StationarityTime() int { return s.stationary }

// Counts returns a copy of the per-population cell counts, one series per
// roster entry with Time()+1 samples each.
func (s *Simulation) Counts() [][]int {
	out := make([][]int, len(s.counts))
	for i, series := range s.counts {
		out[i] = slices.Clone(series)
	}
	return out
}
