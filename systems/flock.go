package systems

import (
	"github.com/pelagiclab/shoal/config"
	"github.com/pelagiclab/shoal/geom"
)

// Cohesion steers toward the weighted centroid of visible neighbors.
// Returns zero with no neighbors.
func Cohesion(self State, ns []Visible, factor float64) geom.Vec {
	var sum geom.Vec
	var wsum float64
	for i := range ns {
		sum = sum.Add(ns[i].Pos.Scale(ns[i].Weight))
		wsum += ns[i].Weight
	}
	if wsum == 0 {
		return geom.Vec{}
	}
	centroid := sum.Scale(1 / wsum)
	return centroid.Sub(self.Pos).Scale(factor)
}

// Separation pushes away from neighbors closer than protectedRange.
// Each intruder contributes along the away direction, scaled by its
// penetration depth and influence weight. A coincident neighbor has no
// away direction and contributes nothing.
func Separation(self State, ns []Visible, protectedRange, factor float64) geom.Vec {
	var sum geom.Vec
	for i := range ns {
		n := &ns[i]
		if n.Dist > protectedRange || n.Dist == 0 {
			continue
		}
		away := n.Offset.Scale(-1 / n.Dist)
		sum = sum.Add(away.Scale((protectedRange - n.Dist) * n.Weight))
	}
	return sum.Scale(factor)
}

// Alignment steers toward the weighted mean velocity of visible
// neighbors. Returns zero with no neighbors.
func Alignment(self State, ns []Visible, factor float64) geom.Vec {
	var sum geom.Vec
	var wsum float64
	for i := range ns {
		sum = sum.Add(ns[i].Vel.Scale(ns[i].Weight))
		wsum += ns[i].Weight
	}
	if wsum == 0 {
		return geom.Vec{}
	}
	mean := sum.Scale(1 / wsum)
	return mean.Sub(self.Vel).Scale(factor)
}

// DensityControl adjusts speed and heading from the local crowd
// distribution. A heavier weighted count behind speeds the boid up,
// ahead slows it down; a heavier side turns it toward that side. Both
// adjustments are capped by max_turn and vanish without neighbors.
func DensityControl(self State, ns []Visible, b *config.BoidConfig) geom.Vec {
	var ahead, behind, left, right float64
	for i := range ns {
		n := &ns[i]
		if n.Dist == 0 {
			continue
		}
		if n.Ahead {
			ahead += n.Weight
		} else {
			behind += n.Weight
		}
		if n.Left {
			left += n.Weight
		} else {
			right += n.Weight
		}
	}

	total := ahead + behind
	if total == 0 {
		return geom.Vec{}
	}

	speedAdj := geom.Clamp(b.SpeedControl*(behind-ahead)/total, -b.MaxTurn, b.MaxTurn)
	delta := self.Vel.Norm().Scale(speedAdj)

	// Positive angles are counterclockwise, matching the Left flag.
	turn := geom.Clamp(b.TurningControl*(left-right)/total, -b.MaxTurn, b.MaxTurn)
	delta = delta.Add(self.Vel.Rotate(turn).Sub(self.Vel))

	return delta
}

// Flock combines the social force terms for one boid over its visible
// flockmates: cohesion, separation, alignment, and density control.
func Flock(self State, ns []Visible, b *config.BoidConfig) geom.Vec {
	delta := Cohesion(self, ns, b.CenteringFactor)
	delta = delta.Add(Separation(self, ns, b.ProtectedRange, b.AvoidFactor))
	delta = delta.Add(Alignment(self, ns, b.MatchingFactor))
	delta = delta.Add(DensityControl(self, ns, b))
	return delta
}
