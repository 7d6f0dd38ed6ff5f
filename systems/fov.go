package systems

import (
	"math"

	"github.com/pelagiclab/shoal/geom"
)

// State is the frozen kinematic state of one agent, read from the
// previous tick's committed world. Force computations are pure
// functions of (State, visible neighbors, config).
type State struct {
	Pos geom.Vec
	Vel geom.Vec
}

// Visible is a neighbor that passed the field-of-view filter, with the
// data every force term needs precomputed.
type Visible struct {
	ID     uint32
	Pos    geom.Vec
	Vel    geom.Vec
	Offset geom.Vec // neighbor position minus observer position
	Dist   float64
	Weight float64 // 1 + front_weight ahead, 1 behind
	Ahead  bool    // forward half-plane of the observer's heading
	Left   bool    // left of the observer's heading
}

// Perceive applies the field-of-view filter to one candidate neighbor.
// The neighbor is visible iff the magnitude of the signed angle between
// the observer's heading and the offset is at most halfFOV (boundary
// inclusive); the narrow rear blind zone is exactly the complement of
// the configured window. Visible neighbors in the forward half-plane
// carry the boosted influence weight.
//
// A zero-distance neighbor has no defined bearing; it is treated as
// dead ahead with neutral weight and contributes nothing to the
// direction-dependent force terms downstream.
func Perceive(observer State, id uint32, offset geom.Vec, pos, vel geom.Vec, halfFOV, frontWeight float64) (Visible, bool) {
	dist := offset.Len()
	if dist == 0 {
		return Visible{ID: id, Pos: pos, Vel: vel, Weight: 1, Ahead: true}, true
	}

	angle := observer.Vel.AngleTo(offset)
	if math.Abs(angle) > halfFOV {
		return Visible{}, false
	}

	v := Visible{
		ID:     id,
		Pos:    pos,
		Vel:    vel,
		Offset: offset,
		Dist:   dist,
		Weight: 1,
		Ahead:  math.Abs(angle) < math.Pi/2,
		Left:   angle > 0,
	}
	if v.Ahead {
		v.Weight = 1 + frontWeight
	}
	return v, true
}
