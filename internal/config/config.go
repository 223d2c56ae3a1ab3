// Package config loads simulation scenarios from YAML files and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"niche-ca/internal/imagefeed"
	"niche-ca/internal/linalg"
	"niche-ca/internal/niche"
	"niche-ca/internal/sims/competition"
)

// ErrMissingKey reports a required scenario key that was absent or zero.
var ErrMissingKey = errors.New("missing required key")

// Scenario is the on-disk description of a competition run.
type Scenario struct {
	Grid        GridConfig         `json:"grid" yaml:"grid"`
	Simulation  SimulationConfig   `json:"simulation" yaml:"simulation"`
	Conditions  ConditionsConfig   `json:"conditions" yaml:"conditions"`
	Occupancy   OccupancyConfig    `json:"occupancy" yaml:"occupancy"`
	Populations []PopulationConfig `json:"populations" yaml:"populations"`
	Logging     LoggingConfig      `json:"logging" yaml:"logging"`
}

// GridConfig sets the lattice size.
type GridConfig struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// SimulationConfig controls the driver.
type SimulationConfig struct {
	Seed       int64  `json:"seed" yaml:"seed"`
	Iterations int    `json:"iterations" yaml:"iterations"`
	Mode       string `json:"mode" yaml:"mode"` // "constant" or "variable"
}

// ConditionsConfig selects and parameterises the condition generator.
type ConditionsConfig struct {
	Generator  string  `json:"generator" yaml:"generator"`
	Dimensions int     `json:"dimensions" yaml:"dimensions"`
	Unit       float64 `json:"unit" yaml:"unit"`
	Dilation   float64 `json:"dilation" yaml:"dilation"`
	Delay      float64 `json:"delay" yaml:"delay"`
	Amplitude  float64 `json:"amplitude" yaml:"amplitude"`
	Offset     float64 `json:"offset" yaml:"offset"`

	Mean     float64 `json:"mean" yaml:"mean"`
	Variance float64 `json:"variance" yaml:"variance"`

	Probability float64 `json:"probability" yaml:"probability"`

	Noise NoiseConfig `json:"noise" yaml:"noise"`

	// Images feed the "image" generator, one file per condition dimension.
	Images []ImageConfig `json:"images,omitempty" yaml:"images,omitempty"`
}

// NoiseConfig shapes the fractal noise generator.
type NoiseConfig struct {
	Frequency   float64 `json:"frequency" yaml:"frequency"`
	Octaves     int     `json:"octaves" yaml:"octaves"`
	Persistence float64 `json:"persistence" yaml:"persistence"`
}

// ImageConfig points at one image channel. A zero Scale selects the default
// mapping for the channel's position.
type ImageConfig struct {
	Path   string  `json:"path" yaml:"path"`
	Invert bool    `json:"invert" yaml:"invert"`
	Scale  float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// OccupancyConfig selects the initial placement strategy.
type OccupancyConfig struct {
	Generator  string `json:"generator" yaml:"generator"`
	PointCount int    `json:"point_count" yaml:"point_count"`
}

// PopulationConfig describes one competing population.
type PopulationConfig struct {
	Name           string      `json:"name" yaml:"name"`
	Niche          []float64   `json:"niche" yaml:"niche"`
	Tolerance      [][]float64 `json:"tolerance" yaml:"tolerance"`
	DiffusionSpeed int         `json:"diffusion_speed" yaml:"diffusion_speed"`
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	// Level is "debug", "info" (default), "warn" or "error".
	Level string `json:"level" yaml:"level"`
}

// Default returns the standard two-population scenario.
func Default() *Scenario {
	cfg := competition.DefaultConfig()
	s := &Scenario{
		Grid: GridConfig{Rows: cfg.Rows, Cols: cfg.Cols},
		Simulation: SimulationConfig{
			Seed:       cfg.Seed,
			Iterations: cfg.Iterations,
			Mode:       string(cfg.Mode),
		},
		Conditions: ConditionsConfig{
			Generator:   cfg.Conditions,
			Dimensions:  cfg.Params.Dimensions,
			Unit:        cfg.Params.Unit,
			Dilation:    cfg.Params.Dilation,
			Delay:       cfg.Params.Delay,
			Amplitude:   cfg.Params.Amplitude,
			Offset:      cfg.Params.Offset,
			Mean:        cfg.Params.DistMean,
			Variance:    cfg.Params.DistVar,
			Probability: cfg.Params.PercolationProbability,
			Noise: NoiseConfig{
				Frequency:   cfg.Params.NoiseFrequency,
				Octaves:     cfg.Params.NoiseOctaves,
				Persistence: cfg.Params.NoisePersistence,
			},
		},
		Occupancy: OccupancyConfig{
			Generator:  cfg.Occupancy,
			PointCount: cfg.Params.PointCount,
		},
		Logging: LoggingConfig{Level: "info"},
	}
	for _, p := range cfg.Populations {
		s.Populations = append(s.Populations, PopulationConfig{
			Name:           p.Name,
			Niche:          append([]float64(nil), p.Niche...),
			Tolerance:      p.Tolerance.Clone(),
			DiffusionSpeed: p.DiffusionSpeed,
		})
	}
	return s
}

// Load returns the scenario at path, or the defaults when path is empty,
// with environment overrides applied and validated.
func Load(path string) (*Scenario, error) {
	s := Default()
	if path != "" {
		var err error
		if s, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := applyEnvOverrides(s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFromFile reads a YAML scenario. Optional keys keep their defaults;
// the grid size, iteration count and population list must be present.
// Unknown keys are rejected.
func LoadFromFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	s := Default()
	s.Grid = GridConfig{}
	s.Simulation.Iterations = 0
	s.Populations = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	for i := range s.Conditions.Images {
		s.Conditions.Images[i].Path = os.ExpandEnv(s.Conditions.Images[i].Path)
	}
	return s, nil
}

// applyEnvOverrides applies NICHE_* environment variables to the scenario.
func applyEnvOverrides(s *Scenario) error {
	if v := os.Getenv("NICHE_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("NICHE_SEED: %w", err)
		}
		s.Simulation.Seed = n
	}
	if v := os.Getenv("NICHE_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NICHE_ITERATIONS: %w", err)
		}
		s.Simulation.Iterations = n
	}
	if v := os.Getenv("NICHE_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
	return nil
}

// Validate checks required keys and scalar ranges. Structural checks on the
// roster and generators happen when the scenario is converted.
func (s *Scenario) Validate() error {
	switch {
	case s.Grid.Rows == 0:
		return fmt.Errorf("%w: grid.rows", ErrMissingKey)
	case s.Grid.Cols == 0:
		return fmt.Errorf("%w: grid.cols", ErrMissingKey)
	case s.Simulation.Iterations == 0:
		return fmt.Errorf("%w: simulation.iterations", ErrMissingKey)
	case len(s.Populations) == 0:
		return fmt.Errorf("%w: populations", ErrMissingKey)
	}
	for i, p := range s.Populations {
		if p.Name == "" {
			return fmt.Errorf("%w: populations[%d].name", ErrMissingKey, i)
		}
		if len(p.Niche) == 0 {
			return fmt.Errorf("%w: populations[%d].niche", ErrMissingKey, i)
		}
		if len(p.Tolerance) == 0 {
			return fmt.Errorf("%w: populations[%d].tolerance", ErrMissingKey, i)
		}
	}
	if s.Conditions.Generator == "image" {
		if len(s.Conditions.Images) == 0 {
			return fmt.Errorf("%w: conditions.images", ErrMissingKey)
		}
		for i, img := range s.Conditions.Images {
			if img.Path == "" {
				return fmt.Errorf("%w: conditions.images[%d].path", ErrMissingKey, i)
			}
		}
	}
	if _, err := parseLevel(s.Logging.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the slog level named by logging.level.
func (s *Scenario) LogLevel() slog.Level {
	level, _ := parseLevel(s.Logging.Level)
	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", name)
}

// Competition converts the scenario into a validated competition.Config,
// loading image channels when the image generator is selected.
func (s *Scenario) Competition() (competition.Config, error) {
	cfg := competition.Config{
		Rows:       s.Grid.Rows,
		Cols:       s.Grid.Cols,
		Seed:       s.Simulation.Seed,
		Iterations: s.Simulation.Iterations,
		Mode:       competition.Mode(s.Simulation.Mode),
		Conditions: s.Conditions.Generator,
		Occupancy:  s.Occupancy.Generator,
		Params: competition.Params{
			Unit:                   s.Conditions.Unit,
			Dilation:               s.Conditions.Dilation,
			Delay:                  s.Conditions.Delay,
			Amplitude:              s.Conditions.Amplitude,
			Offset:                 s.Conditions.Offset,
			DistMean:               s.Conditions.Mean,
			DistVar:                s.Conditions.Variance,
			PercolationProbability: s.Conditions.Probability,
			NoiseFrequency:         s.Conditions.Noise.Frequency,
			NoiseOctaves:           s.Conditions.Noise.Octaves,
			NoisePersistence:       s.Conditions.Noise.Persistence,
			Dimensions:             s.Conditions.Dimensions,
			PointCount:             s.Occupancy.PointCount,
		},
	}
	for _, p := range s.Populations {
		cfg.Populations = append(cfg.Populations, niche.Population{
			Name:           p.Name,
			Niche:          niche.NewCondition(p.Niche...),
			Tolerance:      linalg.Matrix(p.Tolerance).Clone(),
			DiffusionSpeed: p.DiffusionSpeed,
		})
	}
	if cfg.Conditions == "image" {
		for i, img := range s.Conditions.Images {
			ch := imagefeed.DefaultChannel(i)
			if img.Scale != 0 {
				ch = imagefeed.Channel{Invert: img.Invert, Scale: img.Scale}
			}
			samples, err := imagefeed.Load(img.Path, cfg.Rows, cfg.Cols, ch)
			if err != nil {
				return competition.Config{}, fmt.Errorf("conditions.images[%d]: %w", i, err)
			}
			cfg.Channels = append(cfg.Channels, samples)
		}
	}
	if err := cfg.Validate(); err != nil {
		return competition.Config{}, err
	}
	return cfg, nil
}
