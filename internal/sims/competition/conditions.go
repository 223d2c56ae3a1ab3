package competition

import (
	"fmt"
	"math"
	"sort"

	"github.com/ojrac/opensimplex-go"

	"niche-ca/internal/niche"
	"niche-ca/internal/percolation"
	rng "niche-ca/pkg/core"
)

// ConditionGenerator builds the initial condition of every cell in
// row-major order. Stochastic generators draw only from r.
type ConditionGenerator func(cfg Config, r *rng.RNG) ([]niche.Condition, error)

var conditionGenerators = map[string]ConditionGenerator{
	"function":    functionConditions,
	"percolation": percolationConditions,
	"normal":      normalConditions,
	"noise":       noiseConditions,
	"image":       imageConditions,
}

// ConditionGenerators lists the registered generator names.
func ConditionGenerators() []string {
	names := make([]string, 0, len(conditionGenerators))
	for name := range conditionGenerators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// functionConditions is offset + amplitude·sin(dilation·row·unit) in every
// component. With the default zero dilation the field is flat at offset.
func functionConditions(cfg Config, _ *rng.RNG) ([]niche.Condition, error) {
	p := cfg.Params
	out := make([]niche.Condition, cfg.Cells())
	for row := 0; row < cfg.Rows; row++ {
		v := p.Offset + p.Amplitude*math.Sin(p.Dilation*float64(row)*p.Unit)
		for col := 0; col < cfg.Cols; col++ {
			out[row*cfg.Cols+col] = niche.Uniform(p.Dimensions, v)
		}
	}
	return out, nil
}

// percolationConditions marks each site open (1) with the configured
// probability and blocked (0) otherwise.
func percolationConditions(cfg Config, r *rng.RNG) ([]niche.Condition, error) {
	field := percolation.Field(cfg.Rows, cfg.Cols, cfg.Params.PercolationProbability, r)
	out := make([]niche.Condition, len(field))
	for i, open := range field {
		v := 0.0
		if open {
			v = 1
		}
		out[i] = niche.Uniform(cfg.Params.Dimensions, v)
	}
	return out, nil
}

// normalConditions draws every component i.i.d. from N(mean, var).
func normalConditions(cfg Config, r *rng.RNG) ([]niche.Condition, error) {
	p := cfg.Params
	out := make([]niche.Condition, cfg.Cells())
	for i := range out {
		c := make(niche.Condition, p.Dimensions)
		for d := range c {
			c[d] = r.Normal(p.DistMean, p.DistVar)
		}
		out[i] = c
	}
	return out, nil
}

// noiseConditions layers OpenSimplex octaves into a smooth field in [0,1],
// one independently seeded field per component.
func noiseConditions(cfg Config, r *rng.RNG) ([]niche.Condition, error) {
	p := cfg.Params
	fields := make([]opensimplex.Noise, p.Dimensions)
	for d := range fields {
		fields[d] = opensimplex.NewNormalized(int64(r.Source().Uint64()))
	}
	out := make([]niche.Condition, cfg.Cells())
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			c := make(niche.Condition, p.Dimensions)
			for d, f := range fields {
				c[d] = octaveNoise(f, float64(col), float64(row), p.NoiseOctaves, p.NoiseFrequency, p.NoisePersistence)
			}
			out[row*cfg.Cols+col] = c
		}
	}
	return out, nil
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	v := total / maxVal
	return math.Min(1, math.Max(0, v))
}

// imageConditions stacks the external channels into condition vectors.
func imageConditions(cfg Config, _ *rng.RNG) ([]niche.Condition, error) {
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("no image channels")
	}
	out := make([]niche.Condition, cfg.Cells())
	for i := range out {
		c := make(niche.Condition, len(cfg.Channels))
		for d, ch := range cfg.Channels {
			if len(ch) != len(out) {
				return nil, fmt.Errorf("channel %d has %d samples, want %d", d, len(ch), len(out))
			}
			c[d] = ch[i]
		}
		out[i] = c
	}
	return out, nil
}
