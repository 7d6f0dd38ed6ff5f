package systems

import (
	"github.com/pelagiclab/shoal/config"
	"github.com/pelagiclab/shoal/geom"
)

// Flee computes the predator-avoidance delta for a boid. Repulsion
// grows linearly as a predator closes inside predatory_range, so at
// short range flight dominates the social forces. Coincident predators
// contribute nothing.
func Flee(self State, preds []Visible, p *config.PredatorConfig) geom.Vec {
	var sum geom.Vec
	for i := range preds {
		n := &preds[i]
		if n.Dist > p.PredatoryRange || n.Dist == 0 {
			continue
		}
		away := n.Offset.Scale(-1 / n.Dist)
		sum = sum.Add(away.Scale(p.PredatoryRange - n.Dist))
	}
	return sum.Scale(p.Avoidance)
}

// Pursue steers a predator toward the nearest visible boid. Distance
// ties resolve to the lowest agent ID so pursuit is deterministic.
// Returns zero when no boid is visible.
func Pursue(self State, boids []Visible, attraction float64) geom.Vec {
	best := -1
	for i := range boids {
		if best < 0 ||
			boids[i].Dist < boids[best].Dist ||
			(boids[i].Dist == boids[best].Dist && boids[i].ID < boids[best].ID) {
			best = i
		}
	}
	if best < 0 {
		return geom.Vec{}
	}
	return boids[best].Offset.Scale(attraction)
}
