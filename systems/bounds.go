package systems

import "github.com/pelagiclab/shoal/geom"

// EdgeSteer returns the wall-avoidance delta for an agent inside the
// margin band. Each axis contributes a fixed turnFactor correction
// pointing back into the tank; an agent pushed past an edge keeps
// receiving the same inward correction until it re-enters.
func EdgeSteer(pos geom.Vec, width, height, margin, turnFactor float64) geom.Vec {
	var delta geom.Vec
	if pos.X < margin {
		delta.X += turnFactor
	} else if pos.X > width-margin {
		delta.X -= turnFactor
	}
	if pos.Y < margin {
		delta.Y += turnFactor
	} else if pos.Y > height-margin {
		delta.Y -= turnFactor
	}
	return delta
}
