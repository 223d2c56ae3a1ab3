package percolation

import (
	"slices"
	"testing"

	"niche-ca/pkg/core"
)

func parse(rows ...string) ([]bool, int, int) {
	var field []bool
	for _, r := range rows {
		for _, ch := range r {
			field = append(field, ch == '#')
		}
	}
	return field, len(rows), len(rows[0])
}

func TestLabelClusters(t *testing.T) {
	field, rows, cols := parse(
		"##.#",
		"#..#",
		"..##",
		"#...",
	)
	l := Label(field, rows, cols)
	if l.Count != 3 {
		t.Fatalf("expected 3 clusters, got %d", l.Count)
	}
	want := []int{0 + 8, 3, 4, 1}
	if got := l.Sizes(); !slices.Equal(got, want) {
		t.Fatalf("sizes = %v, want %v", got, want)
	}
	if got := l.MeanSize(); got != 8.0/3.0 {
		t.Fatalf("mean size = %f", got)
	}
	if l.Spanning() {
		t.Fatal("no cluster connects top and bottom")
	}
}

func TestLabelDiagonalNotConnected(t *testing.T) {
	field, rows, cols := parse(
		"#.",
		".#",
	)
	if l := Label(field, rows, cols); l.Count != 2 {
		t.Fatalf("diagonal sites must be separate clusters, got %d", l.Count)
	}
}

func TestFullFieldSpans(t *testing.T) {
	rng := core.NewRNG(1)
	field := Field(6, 5, 1, rng)
	l := Label(field, 6, 5)
	if l.Count != 1 || !l.Spanning() {
		t.Fatalf("p=1 should give one spanning cluster, got %d", l.Count)
	}
	s := SampleLastRow(l)
	if s.Clusters != 1 || s.MeanSize != 30 {
		t.Fatalf("last row sample = %+v", s)
	}
}

func TestEmptyFieldSamples(t *testing.T) {
	field := Field(4, 4, 0, core.NewRNG(1))
	l := Label(field, 4, 4)
	if l.Count != 0 || l.MeanSize() != 0 {
		t.Fatalf("p=0 should give no clusters, got %d", l.Count)
	}
	if s := SampleRandom(l, 10, core.NewRNG(2)); s.Clusters != 0 {
		t.Fatalf("random sample on empty field = %+v", s)
	}
}

func TestFieldDeterministic(t *testing.T) {
	a := Field(10, 10, 0.6, core.NewRNG(5))
	b := Field(10, 10, 0.6, core.NewRNG(5))
	if !slices.Equal(a, b) {
		t.Fatal("equal seeds must give equal fields")
	}
}

func TestOrderParameter(t *testing.T) {
	if OrderParameter(0.5) != 0 {
		t.Fatal("below threshold should be 0")
	}
	if OrderParameter(0.8) <= OrderParameter(0.6) {
		t.Fatal("order parameter should grow with p")
	}
}

func checkerboard(rows, cols int) []bool {
	field := make([]bool, rows*cols)
	for i := range field {
		field[i] = (i/cols+i%cols)%2 == 0
	}
	return field
}

func TestSampleRandomCoversSites(t *testing.T) {
	l := Label(checkerboard(10, 10), 10, 10)
	if l.Count != 50 {
		t.Fatalf("checkerboard should have 50 single-site clusters, got %d", l.Count)
	}
	s := SampleRandom(l, 100, core.NewRNG(1))
	if s.Clusters != 50 || s.MeanSize != 1 {
		t.Fatalf("covering every site must visit every cluster, got %+v", s)
	}
	if s := SampleRandom(l, 1000, core.NewRNG(1)); s.Clusters != 50 {
		t.Fatalf("n above the site count should be capped, got %+v", s)
	}
}

func TestSampleRandomWholeClusterCounts(t *testing.T) {
	// One open cluster of 15 sites and a single blocked site. The first open
	// draw covers 15 sites, so the sample stops after a single cluster.
	field, rows, cols := parse(
		"####",
		"####",
		"####",
		"###.",
	)
	l := Label(field, rows, cols)
	for seed := int64(1); seed <= 5; seed++ {
		s := SampleRandom(l, 2, core.NewRNG(seed))
		if s.Clusters != 1 || s.MeanSize != 15 {
			t.Fatalf("seed %d: sample = %+v", seed, s)
		}
	}
}

func TestEmptyLabels(t *testing.T) {
	var l Labels
	if l.Spanning() {
		t.Fatal("empty labels cannot span")
	}
	if s := SampleRandom(l, 10, core.NewRNG(1)); s != (Sample{}) {
		t.Fatalf("sample of empty labels = %+v", s)
	}
	if s := SampleLastRow(l); s != (Sample{}) {
		t.Fatalf("last row sample of empty labels = %+v", s)
	}
}
