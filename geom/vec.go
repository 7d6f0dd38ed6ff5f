// Package geom provides 2D vector math for the simulation core.
package geom

import "math"

// Vec is a 2D vector in tank coordinates (x right, y down).
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

// Len returns the magnitude of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// LenSq returns the squared magnitude of v.
func (v Vec) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Norm returns the unit vector in the direction of v.
// The zero vector normalizes to the zero vector.
func (v Vec) Norm() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec) Cross(o Vec) float64 {
	return v.X*o.Y - v.Y*o.X
}

// AngleTo returns the signed angle from v to o in [-pi, pi].
// Either vector being zero yields 0.
func (v Vec) AngleTo(o Vec) float64 {
	if (v == Vec{}) || (o == Vec{}) {
		return 0
	}
	return math.Atan2(v.Cross(o), v.Dot(o))
}

// Heading returns the direction of v in radians.
func (v Vec) Heading() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate returns v rotated by rad radians.
func (v Vec) Rotate(rad float64) Vec {
	sin, cos := math.Sincos(rad)
	return Vec{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// ClampLen rescales v so its magnitude lies in [lo, hi], preserving
// direction. The zero vector is returned unchanged since it has no
// direction to preserve.
func (v Vec) ClampLen(lo, hi float64) Vec {
	l := v.Len()
	if l == 0 {
		return v
	}
	if l < lo {
		return v.Scale(lo / l)
	}
	if l > hi {
		return v.Scale(hi / l)
	}
	return v
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
