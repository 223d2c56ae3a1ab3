package competition

import (
	"fmt"
	"sort"

	"niche-ca/internal/core"
	rng "niche-ca/pkg/core"
)

// OccupancyGenerator seeds the initial candidate list of every cell with
// roster slots. Stochastic generators draw only from r.
type OccupancyGenerator func(size core.Size, populations int, p Params, r *rng.RNG) ([][]int, error)

var occupancyGenerators = map[string]OccupancyGenerator{
	"bottomStart":         bottomStart,
	"centralStart":        centralStart,
	"oppositeCornerStart": oppositeCornerStart,
	"pointStart":          pointStart,
}

var minPopulations = map[string]int{
	"bottomStart":         2,
	"centralStart":        2,
	"oppositeCornerStart": 2,
	"pointStart":          3,
}

// OccupancyGenerators lists the registered generator names.
func OccupancyGenerators() []string {
	names := make([]string, 0, len(occupancyGenerators))
	for name := range occupancyGenerators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func requirePopulations(name string, have int) error {
	if need := minPopulations[name]; have < need {
		return fmt.Errorf("%s needs %d populations, got %d", name, need, have)
	}
	return nil
}

func fill(size core.Size, slot int) [][]int {
	occ := make([][]int, size.Cells())
	for i := range occ {
		occ[i] = []int{slot}
	}
	return occ
}

// bottomStart puts population 0 on the last row and population 1 elsewhere.
func bottomStart(size core.Size, populations int, _ Params, _ *rng.RNG) ([][]int, error) {
	if err := requirePopulations("bottomStart", populations); err != nil {
		return nil, err
	}
	occ := fill(size, 1)
	for col := 0; col < size.W; col++ {
		occ[size.Index(size.H-1, col)] = []int{0}
	}
	return occ, nil
}

// centralStart puts population 0 on the centre cell and population 1
// elsewhere.
func centralStart(size core.Size, populations int, _ Params, _ *rng.RNG) ([][]int, error) {
	if err := requirePopulations("centralStart", populations); err != nil {
		return nil, err
	}
	occ := fill(size, 1)
	row, col := size.Center()
	occ[size.Index(row, col)] = []int{0}
	return occ, nil
}

// oppositeCornerStart puts population 0 at (0,0), population 1 at the
// opposite corner and leaves every other cell empty.
func oppositeCornerStart(size core.Size, populations int, _ Params, _ *rng.RNG) ([][]int, error) {
	if err := requirePopulations("oppositeCornerStart", populations); err != nil {
		return nil, err
	}
	occ := make([][]int, size.Cells())
	occ[size.Index(size.H-1, size.W-1)] = []int{1}
	occ[0] = []int{0}
	return occ, nil
}

// pointStart fills the lattice with the last population as a background and
// then, round-robin, drops PointCount copies of every other population on
// uniformly drawn cells. Draws are with replacement, so later placements may
// overwrite earlier ones.
func pointStart(size core.Size, populations int, p Params, r *rng.RNG) ([][]int, error) {
	if err := requirePopulations("pointStart", populations); err != nil {
		return nil, err
	}
	background := populations - 1
	occ := fill(size, background)
	n := p.PointCount
	if n == 0 {
		n = size.W
	}
	for k := 0; k < n; k++ {
		for slot := 0; slot < background; slot++ {
			row := r.IntN(size.H)
			col := r.IntN(size.W)
			occ[size.Index(row, col)] = []int{slot}
		}
	}
	return occ, nil
}
