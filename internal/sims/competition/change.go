package competition

import (
	"math"

	"niche-ca/internal/niche"
)

// ChangeConditions applies the environmental change for step t. In variable
// mode every component of a cell on row r becomes
// 0.5·sin(dilation·r·unit + delay·t) + 0.5; in constant mode env is returned
// as is.
func ChangeConditions(env *Environment, t int) *Environment {
	if env.mode != ModeVariable {
		return env
	}
	p := env.params
	dim := env.Dimension()
	size := env.size
	conds := make([]niche.Condition, len(env.conditions))
	for row := 0; row < size.H; row++ {
		v := 0.5*math.Sin(p.Dilation*float64(row)*p.Unit+p.Delay*float64(t)) + 0.5
		for col := 0; col < size.W; col++ {
			conds[size.Index(row, col)] = niche.Uniform(dim, v)
		}
	}
	out := env.derive()
	out.conditions = conds
	out.step = t
	return out
}

// Advance performs one full step: migration, environmental change at step t,
// then selection.
func Advance(env *Environment, t int) *Environment {
	return Select(ChangeConditions(Migrate(env), t))
}
