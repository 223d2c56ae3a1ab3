package competition

import (
	"fmt"
	"strconv"
	"strings"

	"niche-ca/internal/core"
	"niche-ca/internal/niche"
	rng "niche-ca/pkg/core"
)

// Environment is one immutable snapshot of the lattice. Operators derive new
// snapshots from it; buffers an operator leaves untouched are shared between
// snapshots and are never written after construction.
type Environment struct {
	size   core.Size
	mode   Mode
	params Params
	step   int

	conditions []niche.Condition
	occupancy  [][]int
	changes    []int

	roster  []niche.Population
	slots   map[string]int
	offsets [][][2]int
	scorers []*niche.Scorer
	// cache holds per-cell scores by population name in constant mode.
	cache map[string][]float64
}

// New validates cfg and builds the initial environment. One RNG seeded from
// cfg.Seed is threaded through the condition and occupancy generators.
func New(cfg Config) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	size := core.Size{W: cfg.Cols, H: cfg.Rows}
	r := rng.NewRNG(cfg.Seed)

	conds, err := conditionGenerators[cfg.Conditions](cfg, r)
	if err != nil {
		return nil, fmt.Errorf("%w: conditions %q: %w", ErrConfig, cfg.Conditions, err)
	}
	occ, err := occupancyGenerators[cfg.Occupancy](size, len(cfg.Populations), cfg.Params, r)
	if err != nil {
		return nil, fmt.Errorf("%w: occupancy %q: %w", ErrConfig, cfg.Occupancy, err)
	}
	return newEnvironment(size, cfg.Mode, cfg.Params, cfg.Populations, conds, occ)
}

func newEnvironment(size core.Size, mode Mode, params Params, pops []niche.Population, conds []niche.Condition, occ [][]int) (*Environment, error) {
	total := size.Cells()
	if len(conds) != total || len(occ) != total {
		return nil, fmt.Errorf("%w: %d conditions and %d occupancy cells for a %dx%d grid", ErrConfig, len(conds), len(occ), size.H, size.W)
	}
	dim, err := niche.ValidateRoster(pops)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for i, c := range conds {
		if c.Dim() != dim {
			return nil, fmt.Errorf("%w: cell %d has condition dimension %d, populations use %d", ErrConfig, i, c.Dim(), dim)
		}
		if !c.Finite() {
			return nil, fmt.Errorf("%w: cell %d has a non-finite condition", ErrConfig, i)
		}
	}

	env := &Environment{
		size:       size,
		mode:       mode,
		params:     params,
		conditions: conds,
		occupancy:  occ,
		changes:    make([]int, total),
		roster:     append([]niche.Population(nil), pops...),
		slots:      make(map[string]int, len(pops)),
		offsets:    make([][][2]int, len(pops)),
		scorers:    make([]*niche.Scorer, len(pops)),
	}
	for i, p := range env.roster {
		env.slots[p.Key()] = i
		// No offset beyond rows+cols lands on the grid.
		env.offsets[i] = core.ManhattanOffsets(min(p.DiffusionSpeed, size.W+size.H))
		env.scorers[i] = niche.NewScorer(p)
	}
	for idx, cands := range occ {
		for _, slot := range cands {
			if slot < 0 || slot >= len(pops) {
				return nil, fmt.Errorf("%w: cell %d references population slot %d", ErrConfig, idx, slot)
			}
		}
	}
	if mode == ModeConstant {
		// Every population in the roster gets a grid, seeded or not, so any
		// candidate that can ever reach a cell has a cached score.
		env.cache = make(map[string][]float64, len(pops))
		for _, p := range env.roster {
			env.cache[p.Key()] = niche.ScoreGrid(conds, p)
		}
	}
	return env, nil
}

// derive returns a shallow copy sharing every buffer with e.
func (e *Environment) derive() *Environment {
	next := *e
	return &next
}

// Size reports the lattice dimensions.
func (e *Environment) Size() core.Size { return e.size }

// Mode reports whether conditions vary over time.
func (e *Environment) Mode() Mode { return e.mode }

// Params returns the coefficients the environment was built with.
func (e *Environment) Params() Params { return e.params }

// LastChange is the step of the most recent environmental change, 0 if none.
func (e *Environment) LastChange() int { return e.step }

// Dimension is the condition dimension.
func (e *Environment) Dimension() int {
	if len(e.conditions) == 0 {
		return 0
	}
	return e.conditions[0].Dim()
}

// Populations returns the roster in priority order.
func (e *Environment) Populations() []niche.Population {
	return append([]niche.Population(nil), e.roster...)
}

// Slot returns the roster position of the population with the given name.
func (e *Environment) Slot(name string) (int, bool) {
	slot, ok := e.slots[name]
	return slot, ok
}

// Condition returns a copy of the condition at (row, col).
func (e *Environment) Condition(row, col int) niche.Condition {
	return e.conditions[e.size.Index(row, col)].Clone()
}

// ConditionPlane extracts component dim of every cell in row-major order.
func (e *Environment) ConditionPlane(dim int) []float64 {
	out := make([]float64, len(e.conditions))
	for i, c := range e.conditions {
		if dim >= 0 && dim < len(c) {
			out[i] = c[dim]
		}
	}
	return out
}

// Candidates returns the names competing for (row, col), incumbent first.
func (e *Environment) Candidates(row, col int) []string {
	cands := e.occupancy[e.size.Index(row, col)]
	names := make([]string, len(cands))
	for i, slot := range cands {
		names[i] = e.roster[slot].Name
	}
	return names
}

// Resident returns the population holding (row, col), if any.
func (e *Environment) Resident(row, col int) (niche.Population, bool) {
	cands := e.occupancy[e.size.Index(row, col)]
	if len(cands) == 0 {
		return niche.Population{}, false
	}
	return e.roster[cands[0]], true
}

// Residents returns, per cell, the roster index of the resident or -1.
func (e *Environment) Residents() []int {
	out := make([]int, len(e.occupancy))
	for i, cands := range e.occupancy {
		out[i] = -1
		if len(cands) > 0 {
			out[i] = cands[0]
		}
	}
	return out
}

// Changes returns a copy of the per-cell displacement counters.
func (e *Environment) Changes() []int {
	return append([]int(nil), e.changes...)
}

// Counts returns the number of cells held by each population, in roster
// order.
func (e *Environment) Counts() []int {
	counts := make([]int, len(e.roster))
	for _, cands := range e.occupancy {
		if len(cands) > 0 {
			counts[cands[0]]++
		}
	}
	return counts
}

// AdaptationScores returns the cached score grid for a population name. It
// is only available in constant mode.
func (e *Environment) AdaptationScores(name string) ([]float64, bool) {
	grid, ok := e.cache[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), grid...), true
}

// Equal compares the full occupancy grids of two snapshots, candidates
// identified by population name.
func (e *Environment) Equal(o *Environment) bool {
	if e == o {
		return true
	}
	if o == nil || e.size != o.size || len(e.occupancy) != len(o.occupancy) {
		return false
	}
	for i, cands := range e.occupancy {
		other := o.occupancy[i]
		if len(cands) != len(other) {
			return false
		}
		for k, slot := range cands {
			if e.roster[slot].Name != o.roster[other[k]].Name {
				return false
			}
		}
	}
	return true
}

// Name describes the scenario by its coefficients and roster, e.g.
// "constant dilation=0.0 delay=0.0 unit=0.1 A:[{1.0},1]_B:[{0.0},1]".
func (e *Environment) Name() string {
	var b strings.Builder
	b.WriteString(string(e.mode))
	fmt.Fprintf(&b, " dilation=%.1f delay=%.1f unit=%.1f ", e.params.Dilation, e.params.Delay, e.params.Unit)
	for i, p := range e.roster {
		if i > 0 {
			b.WriteByte('_')
		}
		parts := make([]string, len(p.Niche))
		for j, v := range p.Niche {
			parts[j] = strconv.FormatFloat(v, 'f', 1, 64)
		}
		fmt.Fprintf(&b, "%s:[{%s},%d]", p.Name, strings.Join(parts, ","), p.DiffusionSpeed)
	}
	return b.String()
}

// String renders residents as a grid of first letters, '.' for empty cells.
func (e *Environment) String() string {
	var b strings.Builder
	for row := 0; row < e.size.H; row++ {
		for col := 0; col < e.size.W; col++ {
			if p, ok := e.Resident(row, col); ok {
				b.WriteString(p.Name[:1])
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
