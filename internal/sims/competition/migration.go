package competition

// Migrate spreads every resident into the cells within its diffusion radius.
// Each cell keeps its existing candidates in order and gains one entry per
// resident that reaches it, its own resident included. Only the occupancy
// buffer is new; conditions, changes and cache are shared with env.
func Migrate(env *Environment) *Environment {
	size := env.size
	next := make([][]int, len(env.occupancy))
	for i, cands := range env.occupancy {
		next[i] = append(make([]int, 0, len(cands)+1), cands...)
	}
	for idx, cands := range env.occupancy {
		if len(cands) == 0 {
			continue
		}
		slot := cands[0]
		row, col := size.Coords(idx)
		for _, off := range env.offsets[slot] {
			r, c := row+off[0], col+off[1]
			if !size.InBounds(r, c) {
				continue
			}
			dst := size.Index(r, c)
			next[dst] = append(next[dst], slot)
		}
	}
	out := env.derive()
	out.occupancy = next
	return out
}
