package competition

import (
	"fmt"
	"strings"

	"niche-ca/internal/render"
)

// NewFrame captures env at step t for drawing, showing condition component
// dim.
func NewFrame(env *Environment, t, dim int) render.Frame {
	roster := env.Populations()
	names := make([]string, len(roster))
	for i, p := range roster {
		names[i] = p.Name
	}
	size := env.Size()
	return render.Frame{
		Rows:      size.H,
		Cols:      size.W,
		Residents: env.Residents(),
		Changes:   env.Changes(),
		Condition: env.ConditionPlane(dim),
		Palette:   Palette(len(roster)),
		Names:     names,
		Step:      t,
		Caption:   env.Name(),
	}
}

// Frame captures the current state for the viewer overlays.
func (s *Sim) Frame() render.Frame {
	return NewFrame(s.sim.Environment(), s.sim.Time(), 0)
}

// Status is a one-line summary of the driver: time, state and counts.
func (s *Sim) Status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%d %s", s.sim.Time(), s.sim.State())
	roster := s.sim.Environment().Populations()
	for i, n := range s.sim.Environment().Counts() {
		fmt.Fprintf(&b, " %s=%d", roster[i].Name, n)
	}
	return b.String()
}
