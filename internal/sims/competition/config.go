package competition

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"niche-ca/internal/linalg"
	"niche-ca/internal/niche"
)

// ErrConfig wraps every configuration error reported by Validate and FromMap.
var ErrConfig = errors.New("invalid configuration")

// Mode selects whether cell conditions change over time.
type Mode string

const (
	// ModeConstant keeps the initial conditions and caches adaptation scores.
	ModeConstant Mode = "constant"
	// ModeVariable recomputes conditions every step and scores on demand.
	ModeVariable Mode = "variable"
)

// Params holds the generator and environmental-change coefficients.
type Params struct {
	// Unit is the lattice spacing used by the closed-form condition fields.
	Unit float64
	// Dilation scales the row coordinate inside the sine fields.
	Dilation float64
	// Delay is the phase advance per step of the environmental change.
	Delay float64

	// Amplitude and Offset shape the "function" generator.
	Amplitude float64
	Offset    float64

	DistMean float64
	DistVar  float64

	PercolationProbability float64

	NoiseFrequency   float64
	NoiseOctaves     int
	NoisePersistence float64

	// Dimensions is the condition dimension for generators that do not
	// derive it from their input.
	Dimensions int

	// PointCount is the number of placements per population for pointStart.
	// Zero means one per column.
	PointCount int
}

// Config describes a complete competition scenario.
type Config struct {
	Rows int
	Cols int

	Seed       int64
	Iterations int
	Mode       Mode

	Conditions string
	Occupancy  string

	Params Params

	// Populations in priority order: seeding roles and palette follow it.
	Populations []niche.Population

	// Channels are external per-cell samples for the "image" generator, one
	// slice of Rows*Cols values per condition dimension.
	Channels [][]float64
}

// DefaultConfig returns the standard two-population scenario.
func DefaultConfig() Config {
	return Config{
		Rows:       101,
		Cols:       101,
		Seed:       1,
		Iterations: 100,
		Mode:       ModeConstant,
		Conditions: "function",
		Occupancy:  "bottomStart",
		Params: Params{
			Unit:                   0.1,
			Amplitude:              0.5,
			DistVar:                1,
			PercolationProbability: 0.592746,
			NoiseFrequency:         0.08,
			NoiseOctaves:           4,
			NoisePersistence:       0.5,
			Dimensions:             1,
		},
		Populations: []niche.Population{
			{Name: "A", Niche: niche.NewCondition(1), Tolerance: linalg.Matrix{{1}}, DiffusionSpeed: 1},
			{Name: "B", Niche: niche.NewCondition(0), Tolerance: linalg.Matrix{{1}}, DiffusionSpeed: 1},
		},
	}
}

// FromMap applies flag-style key/value overrides to DefaultConfig.
func FromMap(cfg map[string]string) (Config, error) {
	return DefaultConfig().With(cfg)
}

type setter func(c *Config, v string) error

func intSetter(dst func(*Config) *int) setter {
	return func(c *Config, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = parsed
		return nil
	}
}

func floatSetter(dst func(*Config) *float64) setter {
	return func(c *Config, v string) error {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = parsed
		return nil
	}
}

func stringSetter(dst func(*Config) *string) setter {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

var setters = map[string]setter{
	"rows":       intSetter(func(c *Config) *int { return &c.Rows }),
	"cols":       intSetter(func(c *Config) *int { return &c.Cols }),
	"iterations": intSetter(func(c *Config) *int { return &c.Iterations }),
	"seed": func(c *Config, v string) error {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Seed = parsed
		return nil
	},
	"mode": func(c *Config, v string) error {
		c.Mode = Mode(v)
		return nil
	},
	"conditions":              stringSetter(func(c *Config) *string { return &c.Conditions }),
	"occupancy":               stringSetter(func(c *Config) *string { return &c.Occupancy }),
	"unit":                    floatSetter(func(c *Config) *float64 { return &c.Params.Unit }),
	"dilation":                floatSetter(func(c *Config) *float64 { return &c.Params.Dilation }),
	"delay":                   floatSetter(func(c *Config) *float64 { return &c.Params.Delay }),
	"amplitude":               floatSetter(func(c *Config) *float64 { return &c.Params.Amplitude }),
	"offset":                  floatSetter(func(c *Config) *float64 { return &c.Params.Offset }),
	"dist_mean":               floatSetter(func(c *Config) *float64 { return &c.Params.DistMean }),
	"dist_var":                floatSetter(func(c *Config) *float64 { return &c.Params.DistVar }),
	"percolation_probability": floatSetter(func(c *Config) *float64 { return &c.Params.PercolationProbability }),
	"noise_frequency":         floatSetter(func(c *Config) *float64 { return &c.Params.NoiseFrequency }),
	"noise_octaves":           intSetter(func(c *Config) *int { return &c.Params.NoiseOctaves }),
	"noise_persistence":       floatSetter(func(c *Config) *float64 { return &c.Params.NoisePersistence }),
	"dimensions":              intSetter(func(c *Config) *int { return &c.Params.Dimensions }),
	"point_count":             intSetter(func(c *Config) *int { return &c.Params.PointCount }),
}

// Keys lists every key accepted by With, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of c with the overrides applied. Unknown keys and
// unparsable values are errors rather than silently ignored.
func (c Config) With(overrides map[string]string) (Config, error) {
	out := c
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		set, ok := setters[k]
		if !ok {
			return c, fmt.Errorf("%w: unknown key %q", ErrConfig, k)
		}
		if err := set(&out, overrides[k]); err != nil {
			return c, fmt.Errorf("%w: key %q: %v", ErrConfig, k, err)
		}
	}
	return out, nil
}

// Cells returns Rows*Cols.
func (c Config) Cells() int { return c.Rows * c.Cols }

// ConditionDim is the dimension the configured generator will produce.
func (c Config) ConditionDim() int {
	if c.Conditions == "image" {
		return len(c.Channels)
	}
	return c.Params.Dimensions
}

// Validate rejects any configuration that would build a degenerate lattice
// or feed the scorer inputs it cannot handle.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrConfig, c.Rows, c.Cols)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrConfig, c.Iterations)
	}
	if c.Mode != ModeConstant && c.Mode != ModeVariable {
		return fmt.Errorf("%w: mode must be %q or %q, got %q", ErrConfig, ModeConstant, ModeVariable, c.Mode)
	}
	if _, ok := conditionGenerators[c.Conditions]; !ok {
		return fmt.Errorf("%w: unknown condition generator %q (available: %v)", ErrConfig, c.Conditions, ConditionGenerators())
	}
	if _, ok := occupancyGenerators[c.Occupancy]; !ok {
		return fmt.Errorf("%w: unknown occupancy generator %q (available: %v)", ErrConfig, c.Occupancy, OccupancyGenerators())
	}
	p := c.Params
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"unit", p.Unit},
		{"dilation", p.Dilation},
		{"delay", p.Delay},
		{"amplitude", p.Amplitude},
		{"offset", p.Offset},
		{"dist_mean", p.DistMean},
		{"dist_var", p.DistVar},
		{"percolation_probability", p.PercolationProbability},
		{"noise_frequency", p.NoiseFrequency},
		{"noise_persistence", p.NoisePersistence},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrConfig, f.key, f.v)
		}
	}
	if p.PercolationProbability < 0 || p.PercolationProbability > 1 {
		return fmt.Errorf("%w: percolation_probability must be in [0,1], got %g", ErrConfig, p.PercolationProbability)
	}
	if p.DistVar < 0 {
		return fmt.Errorf("%w: dist_var must be non-negative, got %g", ErrConfig, p.DistVar)
	}
	if p.Dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", ErrConfig, p.Dimensions)
	}
	if p.PointCount < 0 {
		return fmt.Errorf("%w: point_count must be non-negative, got %d", ErrConfig, p.PointCount)
	}
	if c.Conditions == "noise" {
		if p.NoiseOctaves <= 0 || p.NoiseFrequency <= 0 {
			return fmt.Errorf("%w: noise needs positive noise_octaves and noise_frequency", ErrConfig)
		}
	}
	if c.Conditions == "image" {
		if n := len(c.Channels); n < 1 || n > 2 {
			return fmt.Errorf("%w: image conditions need 1 or 2 channels, got %d", ErrConfig, n)
		}
		for i, ch := range c.Channels {
			if len(ch) != c.Cells() {
				return fmt.Errorf("%w: channel %d has %d samples, grid has %d cells", ErrConfig, i, len(ch), c.Cells())
			}
		}
	}

	dim, err := niche.ValidateRoster(c.Populations)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if want := c.ConditionDim(); dim != want {
		return fmt.Errorf("%w: populations have dimension %d, conditions have %d", ErrConfig, dim, want)
	}
	if need := minPopulations[c.Occupancy]; len(c.Populations) < need {
		return fmt.Errorf("%w: %s needs at least %d populations, got %d", ErrConfig, c.Occupancy, need, len(c.Populations))
	}
	return nil
}
