// Package components defines ECS components for the simulation.
package components

// Kind distinguishes agent roles. The kinematic state is shared; force
// rules and removability differ per kind.
type Kind uint8

const (
	KindBoid Kind = iota
	KindPredator
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindBoid:
		return "boid"
	case KindPredator:
		return "predator"
	default:
		return "unknown"
	}
}

// Position is an agent's tank position.
type Position struct {
	X, Y float64
}

// Velocity is an agent's velocity. Its magnitude is kept inside the
// per-kind [minspeed, maxspeed] bounds by the integration step, so the
// heading derived from it is always defined.
type Velocity struct {
	X, Y float64
}

// Agent bundles identity and role state. IDs are assigned at spawn in
// increasing order and never reused; consumption tie-breaks rely on that.
type Agent struct {
	ID   uint32
	Kind Kind

	// EatCooldown is the number of ticks a predator keeps pausing after
	// consuming a boid (eating_duration). Zero for boids.
	EatCooldown int
}
