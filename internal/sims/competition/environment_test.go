package competition

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"niche-ca/internal/core"
	"niche-ca/internal/linalg"
	"niche-ca/internal/niche"
)

func smallConfig(rows, cols int) Config {
	cfg := DefaultConfig()
	cfg.Rows = rows
	cfg.Cols = cols
	return cfg
}

func mustNew(t *testing.T, cfg Config) *Environment {
	t.Helper()
	env, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return env
}

func TestBottomStartLayout(t *testing.T) {
	env := mustNew(t, smallConfig(3, 3))
	want := "BBB\nBBB\nAAA\n"
	if got := env.String(); got != want {
		t.Fatalf("initial grid:\n%s\nwant:\n%s", got, want)
	}
	if got := env.Counts(); !slices.Equal(got, []int{3, 6}) {
		t.Fatalf("counts = %v, want [3 6]", got)
	}
	if plane := env.ConditionPlane(0); slices.ContainsFunc(plane, func(v float64) bool { return v != 0 }) {
		t.Fatalf("default function conditions should be zero, got %v", plane)
	}
}

func TestOneStepBottomStart(t *testing.T) {
	env := mustNew(t, smallConfig(3, 3))
	next := Advance(env, 1)

	if got := next.String(); got != "BBB\nBBB\nBBB\n" {
		t.Fatalf("after one step:\n%s", got)
	}
	want := []int{0, 0, 0, 0, 0, 0, 1, 1, 1}
	if got := next.Changes(); !slices.Equal(got, want) {
		t.Fatalf("changes = %v, want %v", got, want)
	}
	// The source snapshot is untouched.
	if got := env.String(); got != "BBB\nBBB\nAAA\n" {
		t.Fatalf("source snapshot mutated:\n%s", got)
	}
	if got := env.Changes(); slices.Contains(got, 1) {
		t.Fatalf("source changes mutated: %v", got)
	}
}

func TestMigrateSpreadsWithinRadius(t *testing.T) {
	cfg := smallConfig(3, 3)
	cfg.Occupancy = "oppositeCornerStart"
	env := mustNew(t, cfg)

	moved := Migrate(env)
	cases := []struct {
		row, col int
		want     []string
	}{
		{0, 0, []string{"A", "A"}},
		{0, 1, []string{"A"}},
		{1, 0, []string{"A"}},
		{1, 1, []string{}},
		{2, 2, []string{"B", "B"}},
		{1, 2, []string{"B"}},
		{2, 1, []string{"B"}},
		{0, 2, []string{}},
		{2, 0, []string{}},
	}
	for _, tc := range cases {
		if got := moved.Candidates(tc.row, tc.col); !slices.Equal(got, tc.want) {
			t.Errorf("candidates(%d,%d) = %v, want %v", tc.row, tc.col, got, tc.want)
		}
	}
	if got := env.Candidates(0, 1); len(got) != 0 {
		t.Fatalf("migration wrote into the source snapshot: %v", got)
	}
}

func TestMigrateLargerRadius(t *testing.T) {
	cfg := smallConfig(5, 5)
	cfg.Occupancy = "centralStart"
	cfg.Populations[0].DiffusionSpeed = 2
	env := mustNew(t, cfg)

	moved := Migrate(env)
	reached := 0
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			if slices.Contains(moved.Candidates(row, col), "A") {
				reached++
			}
		}
	}
	if reached != 13 {
		t.Fatalf("radius 2 should reach 13 cells, got %d", reached)
	}
}

func TestSelectLeavesAtMostOneCandidate(t *testing.T) {
	cfg := smallConfig(6, 4)
	cfg.Occupancy = "oppositeCornerStart"
	env := Select(Migrate(mustNew(t, cfg)))
	for row := 0; row < 6; row++ {
		for col := 0; col < 4; col++ {
			if n := len(env.Candidates(row, col)); n > 1 {
				t.Fatalf("cell (%d,%d) has %d candidates after selection", row, col, n)
			}
		}
	}
	if got := env.Candidates(5, 0); len(got) != 0 {
		t.Fatalf("unreached cell should stay empty, got %v", got)
	}
}

func TestSelectIdempotent(t *testing.T) {
	cfg := smallConfig(4, 4)
	cfg.Conditions = "normal"
	once := Select(Migrate(mustNew(t, cfg)))
	twice := Select(once)
	if !twice.Equal(once) {
		t.Fatalf("second selection changed the grid:\n%s\nvs\n%s", twice, once)
	}
	if !slices.Equal(twice.Changes(), once.Changes()) {
		t.Fatalf("second selection changed counters: %v vs %v", twice.Changes(), once.Changes())
	}
}

func TestSelectTieKeepsIncumbent(t *testing.T) {
	cfg := smallConfig(3, 3)
	cfg.Populations = []niche.Population{
		{Name: "C", Niche: niche.NewCondition(0.5), Tolerance: linalg.Matrix{{1}}, DiffusionSpeed: 1},
		{Name: "D", Niche: niche.NewCondition(0.5), Tolerance: linalg.Matrix{{1}}, DiffusionSpeed: 1},
	}
	env := mustNew(t, cfg)
	next := Advance(env, 1)
	if !next.Equal(env) {
		t.Fatalf("equal scores must keep incumbents:\n%s", next)
	}
	if slices.Contains(next.Changes(), 1) {
		t.Fatalf("no cell should change hands: %v", next.Changes())
	}
}

func TestSelectTieBetweenChallengers(t *testing.T) {
	pops := []niche.Population{
		{Name: "I", Niche: niche.NewCondition(5), Tolerance: linalg.Matrix{{1}}, DiffusionSpeed: 1},
		{Name: "X", Niche: niche.NewCondition(0), Tolerance: linalg.Matrix{{1}}, DiffusionSpeed: 1},
		{Name: "Y", Niche: niche.NewCondition(0), Tolerance: linalg.Matrix{{1}}, DiffusionSpeed: 1},
	}
	conds := []niche.Condition{niche.NewCondition(0)}
	for _, tc := range []struct {
		order []int
		want  string
	}{
		{[]int{0, 1, 2}, "X"},
		{[]int{0, 2, 1}, "Y"},
	} {
		env, err := newEnvironment(core.Size{W: 1, H: 1}, ModeVariable, Params{}, pops, conds, [][]int{tc.order})
		if err != nil {
			t.Fatalf("newEnvironment: %v", err)
		}
		next := Select(env)
		if got := next.Candidates(0, 0); !slices.Equal(got, []string{tc.want}) {
			t.Fatalf("order %v: resident = %v, want %s", tc.order, got, tc.want)
		}
		if next.Changes()[0] != 1 {
			t.Fatalf("order %v: changes = %v, want [1]", tc.order, next.Changes())
		}
	}
}

func TestHugeDiffusionSpeedIsClamped(t *testing.T) {
	cfg := smallConfig(3, 3)
	cfg.Populations[0].DiffusionSpeed = 1_000_000
	env := mustNew(t, cfg)
	if n := len(env.offsets[0]); n > 2*6*7+1 {
		t.Fatalf("radius not clamped: %d offsets", n)
	}
	moved := Migrate(env)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if !slices.Contains(moved.Candidates(row, col), "A") {
				t.Fatalf("cell (%d,%d) not reached by an unbounded radius", row, col)
			}
		}
	}
}

func TestConstantCacheCoversRoster(t *testing.T) {
	cfg := smallConfig(3, 3)
	cfg.Populations = append(cfg.Populations, niche.Population{
		Name: "C", Niche: niche.NewCondition(0.5), Tolerance: linalg.Matrix{{2}}, DiffusionSpeed: 1,
	})
	env := mustNew(t, cfg)
	for _, name := range []string{"A", "B", "C"} {
		grid, ok := env.AdaptationScores(name)
		if !ok {
			t.Fatalf("no cached scores for %s", name)
		}
		if len(grid) != 9 {
			t.Fatalf("%s cache has %d cells", name, len(grid))
		}
	}
	c, _ := env.AdaptationScores("C")
	want := niche.Score(niche.NewCondition(0), cfg.Populations[2])
	if math.Abs(c[4]-want) > 1e-12 {
		t.Fatalf("cached score = %v, want %v", c[4], want)
	}

	cfg.Mode = ModeVariable
	if _, ok := mustNew(t, cfg).AdaptationScores("A"); ok {
		t.Fatal("variable mode must not build a cache")
	}
}

func TestChangeConditionsVariable(t *testing.T) {
	cfg := smallConfig(4, 2)
	cfg.Mode = ModeVariable
	cfg.Params.Dilation = 1
	cfg.Params.Delay = 0.5
	cfg.Params.Dimensions = 2
	for i := range cfg.Populations {
		cfg.Populations[i].Niche = append(cfg.Populations[i].Niche, 0)
		cfg.Populations[i].Tolerance = linalg.Identity(2)
	}
	env := mustNew(t, cfg)

	changed := ChangeConditions(env, 3)
	if changed.LastChange() != 3 {
		t.Fatalf("LastChange = %d, want 3", changed.LastChange())
	}
	for row := 0; row < 4; row++ {
		want := 0.5*math.Sin(float64(row)*0.1+1.5) + 0.5
		for col := 0; col < 2; col++ {
			c := changed.Condition(row, col)
			for d, v := range c {
				if math.Abs(v-want) > 1e-12 {
					t.Fatalf("cell (%d,%d)[%d] = %v, want %v", row, col, d, v, want)
				}
			}
		}
	}
	if env.Condition(3, 0)[0] == changed.Condition(3, 0)[0] {
		t.Fatal("change must not write into the source conditions")
	}
}

func TestChangeConditionsConstant(t *testing.T) {
	env := mustNew(t, smallConfig(3, 3))
	if got := ChangeConditions(env, 5); got != env {
		t.Fatal("constant mode should return the environment unchanged")
	}
}

func TestNewReproducible(t *testing.T) {
	cfg := smallConfig(10, 10)
	cfg.Conditions = "normal"
	cfg.Occupancy = "pointStart"
	cfg.Seed = 42
	cfg.Populations = append(cfg.Populations, niche.Population{
		Name: "C", Niche: niche.NewCondition(0.5), Tolerance: linalg.Matrix{{1}}, DiffusionSpeed: 1,
	})

	a := mustNew(t, cfg)
	b := mustNew(t, cfg)
	if !a.Equal(b) {
		t.Fatalf("same seed, different occupancy:\n%s\nvs\n%s", a, b)
	}
	if !slices.Equal(a.ConditionPlane(0), b.ConditionPlane(0)) {
		t.Fatal("same seed, different conditions")
	}
	if !Advance(a, 1).Equal(Advance(b, 1)) {
		t.Fatal("same seed, different first step")
	}

	cfg.Seed = 43
	c := mustNew(t, cfg)
	if slices.Equal(a.ConditionPlane(0), c.ConditionPlane(0)) {
		t.Fatal("different seeds should give different conditions")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"zero rows":          func(c *Config) { c.Rows = 0 },
		"zero iterations":    func(c *Config) { c.Iterations = 0 },
		"unknown conditions": func(c *Config) { c.Conditions = "bogus" },
		"unknown occupancy":  func(c *Config) { c.Occupancy = "bogus" },
		"bad mode":           func(c *Config) { c.Mode = "sometimes" },
		"probability":        func(c *Config) { c.Params.PercolationProbability = 1.5 },
		"variance":           func(c *Config) { c.Params.DistVar = -1 },
		"not spd":            func(c *Config) { c.Populations[0].Tolerance = linalg.Matrix{{-1}} },
		"dimension mismatch": func(c *Config) { c.Params.Dimensions = 2 },
		"duplicate names":    func(c *Config) { c.Populations[1].Name = "A" },
		"too few for points": func(c *Config) { c.Occupancy = "pointStart" },
		"too few for bottom": func(c *Config) { c.Populations = c.Populations[:1] },
		"image without data": func(c *Config) { c.Conditions = "image" },
		"nan unit":           func(c *Config) { c.Params.Unit = math.NaN() },
		"infinite delay":     func(c *Config) { c.Params.Delay = math.Inf(1) },
		"nan probability":    func(c *Config) { c.Params.PercolationProbability = math.NaN() },
		"nan variance":       func(c *Config) { c.Params.DistVar = math.NaN() },
		"infinite offset":    func(c *Config) { c.Params.Offset = math.Inf(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := smallConfig(3, 3)
			cfg.Populations = slices.Clone(cfg.Populations)
			mutate(&cfg)
			_, err := New(cfg)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestImageConditions(t *testing.T) {
	cfg := smallConfig(2, 2)
	cfg.Conditions = "image"
	cfg.Channels = [][]float64{{0, 1, 2, 3}, {4, 5, 6, 7}}
	for i := range cfg.Populations {
		cfg.Populations[i].Niche = niche.NewCondition(1, 5)
		cfg.Populations[i].Tolerance = linalg.Identity(2)
	}
	env := mustNew(t, cfg)
	if got := env.Condition(1, 0); !got.Equal(niche.NewCondition(2, 6)) {
		t.Fatalf("condition(1,0) = %v, want [2 6]", got)
	}
	if env.Dimension() != 2 {
		t.Fatalf("dimension = %d", env.Dimension())
	}
}

func TestPercolationConditionsCertain(t *testing.T) {
	cfg := smallConfig(5, 5)
	cfg.Conditions = "percolation"
	cfg.Params.PercolationProbability = 1
	env := mustNew(t, cfg)
	for i, v := range env.ConditionPlane(0) {
		if v != 1 {
			t.Fatalf("cell %d = %v with p=1", i, v)
		}
	}

	cfg.Params.PercolationProbability = 0
	env = mustNew(t, cfg)
	for i, v := range env.ConditionPlane(0) {
		if v != 0 {
			t.Fatalf("cell %d = %v with p=0", i, v)
		}
	}
}

func TestEnvironmentName(t *testing.T) {
	env := mustNew(t, smallConfig(3, 3))
	want := "constant dilation=0.0 delay=0.0 unit=0.1 A:[{1.0},1]_B:[{0.0},1]"
	if got := env.Name(); got != want {
		t.Fatalf("Name() = %q, want %q", got, want)
	}
	if !strings.HasPrefix(env.String(), "BBB") {
		t.Fatalf("unexpected rendering %q", env.String())
	}
}
