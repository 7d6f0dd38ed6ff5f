package systems

import (
	"math"

	"github.com/pelagiclab/shoal/geom"
)

// Integrate applies a velocity delta to an agent's state and advances
// its position by one tick. The heading change is capped at maxTurn
// radians (maxTurn <= 0 disables the cap), then the speed is clamped
// into [minSpeed, maxSpeed] by rescaling the magnitude without
// touching the direction.
func Integrate(st State, delta geom.Vec, maxTurn, minSpeed, maxSpeed float64) State {
	vel := st.Vel.Add(delta)

	if maxTurn > 0 {
		angle := st.Vel.AngleTo(vel)
		if math.Abs(angle) > maxTurn {
			capped := math.Copysign(maxTurn, angle)
			vel = st.Vel.Norm().Rotate(capped).Scale(vel.Len())
		}
	}

	vel = vel.ClampLen(minSpeed, maxSpeed)
	if vel.LenSq() == 0 {
		// Delta exactly cancelled the velocity; keep the previous heading.
		vel = st.Vel.Norm().Scale(minSpeed)
	}

	return State{Pos: st.Pos.Add(vel), Vel: vel}
}
