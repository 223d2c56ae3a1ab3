package competition

import (
	"math"
	"slices"
	"testing"

	"niche-ca/internal/core"
	rng "niche-ca/pkg/core"
)

func TestCentralStartUsesMidpoint(t *testing.T) {
	for _, size := range []core.Size{{W: 5, H: 5}, {W: 4, H: 6}} {
		occ, err := centralStart(size, 2, Params{}, nil)
		if err != nil {
			t.Fatal(err)
		}
		row, col := size.H/2, size.W/2
		for idx, cands := range occ {
			r, c := size.Coords(idx)
			want := 1
			if r == row && c == col {
				want = 0
			}
			if len(cands) != 1 || cands[0] != want {
				t.Fatalf("%v cell (%d,%d) = %v, want [%d]", size, r, c, cands, want)
			}
		}
	}
}

func TestOppositeCornerStart(t *testing.T) {
	size := core.Size{W: 3, H: 4}
	occ, err := oppositeCornerStart(size, 2, Params{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	occupied := 0
	for _, cands := range occ {
		occupied += len(cands)
	}
	if occupied != 2 || occ[0][0] != 0 || occ[size.Index(3, 2)][0] != 1 {
		t.Fatalf("unexpected layout %v", occ)
	}
}

func TestPointStart(t *testing.T) {
	size := core.Size{W: 12, H: 12}
	p := Params{PointCount: 5}

	a, err := pointStart(size, 3, p, rng.NewRNG(7))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := pointStart(size, 3, p, rng.NewRNG(7))
	c, _ := pointStart(size, 3, p, rng.NewRNG(8))

	flat := func(occ [][]int) []int {
		out := make([]int, len(occ))
		for i, cands := range occ {
			out[i] = cands[0]
		}
		return out
	}
	if !slices.Equal(flat(a), flat(b)) {
		t.Fatal("same seed produced different placements")
	}
	if slices.Equal(flat(a), flat(c)) {
		t.Fatal("different seeds produced identical placements")
	}

	counts := make([]int, 3)
	for _, slot := range flat(a) {
		counts[slot]++
	}
	if counts[0] == 0 || counts[1] == 0 || counts[0] > 5 || counts[1] > 5 {
		t.Fatalf("placement counts %v outside [1,5]", counts)
	}
	if counts[2] < size.Cells()-10 {
		t.Fatalf("background covers only %d cells", counts[2])
	}

	if _, err := pointStart(size, 2, p, rng.NewRNG(1)); err == nil {
		t.Fatal("pointStart with two populations should fail")
	}
}

func TestPointStartDefaultCount(t *testing.T) {
	size := core.Size{W: 3, H: 40}
	occ, _ := pointStart(size, 3, Params{}, rng.NewRNG(3))
	placed := 0
	for _, cands := range occ {
		if cands[0] != 2 {
			placed++
		}
	}
	if placed == 0 || placed > 2*size.W {
		t.Fatalf("placed %d cells with the per-column default", placed)
	}
}

func TestFunctionConditions(t *testing.T) {
	cfg := smallConfig(6, 2)
	cfg.Params.Dilation = 2
	cfg.Params.Offset = 0.25
	conds, err := functionConditions(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	for row := 0; row < 6; row++ {
		want := 0.25 + 0.5*math.Sin(2*float64(row)*0.1)
		if got := conds[row*2+1][0]; math.Abs(got-want) > 1e-12 {
			t.Fatalf("row %d = %v, want %v", row, got, want)
		}
	}
}

func TestNoiseConditions(t *testing.T) {
	cfg := smallConfig(16, 16)
	cfg.Conditions = "noise"
	cfg.Params.Dimensions = 2

	a, err := noiseConditions(cfg, rng.NewRNG(11))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := noiseConditions(cfg, rng.NewRNG(11))
	distinct := false
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("cell %d differs between identical seeds", i)
		}
		for _, v := range a[i] {
			if v < 0 || v > 1 {
				t.Fatalf("cell %d value %v outside [0,1]", i, v)
			}
		}
		if a[i][0] != a[0][0] {
			distinct = true
		}
	}
	if !distinct {
		t.Fatal("noise field is flat")
	}
}

func TestNormalConditionsZeroVariance(t *testing.T) {
	cfg := smallConfig(3, 3)
	cfg.Params.DistMean = 0.7
	cfg.Params.DistVar = 0
	conds, _ := normalConditions(cfg, rng.NewRNG(1))
	for i, c := range conds {
		if c[0] != 0.7 {
			t.Fatalf("cell %d = %v, want the mean", i, c[0])
		}
	}
}

func TestGeneratorRegistries(t *testing.T) {
	if got := ConditionGenerators(); !slices.Equal(got, []string{"function", "image", "noise", "normal", "percolation"}) {
		t.Fatalf("condition generators = %v", got)
	}
	if got := OccupancyGenerators(); !slices.Equal(got, []string{"bottomStart", "centralStart", "oppositeCornerStart", "pointStart"}) {
		t.Fatalf("occupancy generators = %v", got)
	}
}
