// Package percolation generates site-percolation fields on a square lattice
// and measures the clusters of open sites they contain.
package percolation

import (
	"math"

	"niche-ca/pkg/core"
)

// Critical is the site-percolation threshold of the square lattice.
const Critical = 0.592746

// Beta is the critical exponent of the percolation order parameter in 2-D.
const Beta = 5.0 / 36.0

// OrderParameter approximates the probability that a site belongs to the
// infinite cluster: (p-pc)^β above the threshold, 0 below.
func OrderParameter(p float64) float64 {
	if p < Critical {
		return 0
	}
	return math.Pow(p-Critical, Beta)
}

// Field draws rows*cols independent sites, each open with probability p.
func Field(rows, cols int, p float64, rng *core.RNG) []bool {
	field := make([]bool, rows*cols)
	for i := range field {
		field[i] = rng.Bernoulli(p)
	}
	return field
}

// Labels assigns a cluster id to every open site of a field. Blocked sites
// have id 0; clusters are numbered from 1 in row-major discovery order.
type Labels struct {
	Rows, Cols int
	IDs        []int
	Count      int
}

// Label finds 4-connected clusters of open sites by breadth-first search.
func Label(field []bool, rows, cols int) Labels {
	l := Labels{Rows: rows, Cols: cols, IDs: make([]int, len(field))}
	queue := make([]int, 0, 64)
	for start, open := range field {
		if !open || l.IDs[start] != 0 {
			continue
		}
		l.Count++
		id := l.Count
		l.IDs[start] = id
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range l.neighbors(cur) {
				if field[n] && l.IDs[n] == 0 {
					l.IDs[n] = id
					queue = append(queue, n)
				}
			}
		}
	}
	return l
}

func (l Labels) neighbors(idx int) []int {
	row, col := idx/l.Cols, idx%l.Cols
	out := make([]int, 0, 4)
	if row > 0 {
		out = append(out, idx-l.Cols)
	}
	if row < l.Rows-1 {
		out = append(out, idx+l.Cols)
	}
	if col > 0 {
		out = append(out, idx-1)
	}
	if col < l.Cols-1 {
		out = append(out, idx+1)
	}
	return out
}

// Sizes returns the number of sites of each cluster, indexed by id; entry 0
// counts blocked sites.
func (l Labels) Sizes() []int {
	sizes := make([]int, l.Count+1)
	for _, id := range l.IDs {
		sizes[id]++
	}
	return sizes
}

// MeanSize is the average cluster size, 0 when there are no clusters.
func (l Labels) MeanSize() float64 {
	if l.Count == 0 {
		return 0
	}
	return l.meanOf(allIDs(l.Count), l.Sizes())
}

// Spanning reports whether some cluster touches both the first and the last
// row.
func (l Labels) Spanning() bool {
	if len(l.IDs) == 0 || l.Rows < 1 {
		return false
	}
	top := map[int]bool{}
	for col := 0; col < l.Cols; col++ {
		if id := l.IDs[col]; id != 0 {
			top[id] = true
		}
	}
	for col := 0; col < l.Cols; col++ {
		if top[l.IDs[(l.Rows-1)*l.Cols+col]] {
			return true
		}
	}
	return false
}

// Sample is the outcome of visiting clusters from a set of probe sites.
type Sample struct {
	Clusters int
	MeanSize float64
}

// SampleRandom draws distinct sites until n of them are covered and reports
// how many distinct clusters were hit and their mean size. Hitting a cluster
// covers all of its sites at once; blocked sites cover only themselves. n is
// capped at the number of sites.
func SampleRandom(l Labels, n int, rng *core.RNG) Sample {
	n = min(n, len(l.IDs))
	if n <= 0 {
		return Sample{}
	}
	members := make([][]int, l.Count+1)
	for idx, id := range l.IDs {
		if id != 0 {
			members[id] = append(members[id], idx)
		}
	}
	covered := make([]bool, len(l.IDs))
	hit := map[int]struct{}{}
	for count := 0; count < n; {
		idx := rng.IntN(len(l.IDs))
		if covered[idx] {
			continue
		}
		id := l.IDs[idx]
		if id == 0 {
			covered[idx] = true
			count++
			continue
		}
		hit[id] = struct{}{}
		for _, site := range members[id] {
			covered[site] = true
		}
		count += len(members[id])
	}
	return l.sampleOf(hit)
}

// SampleLastRow probes every site of the bottom row, the row a bottomStart
// population is seeded on.
func SampleLastRow(l Labels) Sample {
	hit := map[int]struct{}{}
	base := (l.Rows - 1) * l.Cols
	for col := 0; col < l.Cols; col++ {
		if id := l.IDs[base+col]; id != 0 {
			hit[id] = struct{}{}
		}
	}
	return l.sampleOf(hit)
}

func (l Labels) sampleOf(hit map[int]struct{}) Sample {
	if len(hit) == 0 {
		return Sample{}
	}
	ids := make([]int, 0, len(hit))
	for id := range hit {
		ids = append(ids, id)
	}
	return Sample{Clusters: len(ids), MeanSize: l.meanOf(ids, l.Sizes())}
}

func (l Labels) meanOf(ids []int, sizes []int) float64 {
	total := 0
	for _, id := range ids {
		total += sizes[id]
	}
	return float64(total) / float64(len(ids))
}

func allIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}
