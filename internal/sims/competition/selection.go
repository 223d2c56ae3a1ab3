package competition

// Select resolves every contested cell to its best-adapted candidate. The
// incumbent at index 0 keeps the cell unless a challenger scores strictly
// higher; a successful challenge increments the cell's change counter.
// Empty cells stay empty.
func Select(env *Environment) *Environment {
	n := len(env.occupancy)
	next := make([][]int, n)
	changes := append([]int(nil), env.changes...)
	arena := make([]int, 0, n)

	for idx, cands := range env.occupancy {
		if len(cands) == 0 {
			continue
		}
		best := 0
		bestScore := env.score(cands[0], idx)
		for k := 1; k < len(cands); k++ {
			if s := env.score(cands[k], idx); s > bestScore {
				best, bestScore = k, s
			}
		}
		if best != 0 {
			changes[idx]++
		}
		arena = append(arena, cands[best])
		next[idx] = arena[len(arena)-1 : len(arena) : len(arena)]
	}

	out := env.derive()
	out.occupancy = next
	out.changes = changes
	return out
}

// score is the adaptation of the population in roster slot to cell idx.
func (e *Environment) score(slot, idx int) float64 {
	if e.cache != nil {
		return e.cache[e.roster[slot].Name][idx]
	}
	return e.scorers[slot].Score(e.conditions[idx])
}
