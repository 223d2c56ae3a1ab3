package competition

import (
	"fmt"
	"strconv"
	"strings"

	"niche-ca/internal/core"
)

// Parameters describes the scenario the sim was built from.
func (s *Sim) Parameters() core.ParameterSnapshot {
	return Snapshot(s.cfg)
}

// Snapshot groups every configuration value for display.
func Snapshot(cfg Config) core.ParameterSnapshot {
	params := cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				intParam("rows", "Rows", cfg.Rows),
				intParam("cols", "Columns", cfg.Cols),
				int64Param("seed", "Seed", cfg.Seed),
				intParam("iterations", "Iterations", cfg.Iterations),
				stringParam("mode", "Mode", string(cfg.Mode)),
			},
		},
		{
			Name: "Generators",
			Params: []core.Parameter{
				stringParam("conditions", "Condition generator", cfg.Conditions),
				stringParam("occupancy", "Occupancy generator", cfg.Occupancy),
				intParam("dimensions", "Condition dimensions", params.Dimensions),
				floatParam("amplitude", "Amplitude", params.Amplitude),
				floatParam("offset", "Offset", params.Offset),
				floatParam("dist_mean", "Normal mean", params.DistMean),
				floatParam("dist_var", "Normal variance", params.DistVar),
				floatParam("percolation_probability", "Percolation probability", params.PercolationProbability),
				floatParam("noise_frequency", "Noise frequency", params.NoiseFrequency),
				intParam("noise_octaves", "Noise octaves", params.NoiseOctaves),
				floatParam("noise_persistence", "Noise persistence", params.NoisePersistence),
				intParam("point_count", "Point count", params.PointCount),
			},
		},
		{
			Name: "Environmental Change",
			Params: []core.Parameter{
				floatParam("unit", "Unit", params.Unit),
				floatParam("dilation", "Dilation", params.Dilation),
				floatParam("delay", "Delay", params.Delay),
			},
		},
	}

	pops := core.ParameterGroup{Name: "Populations"}
	for _, p := range cfg.Populations {
		pops.Params = append(pops.Params, core.Parameter{
			Key:         "population." + p.Name,
			Label:       p.Name,
			Type:        core.ParamTypeString,
			Value:       describeNiche(p.Niche),
			Description: fmt.Sprintf("diffusion speed %d", p.DiffusionSpeed),
		})
	}
	groups = append(groups, pops)
	return core.ParameterSnapshot{Groups: groups}
}

func describeNiche(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
