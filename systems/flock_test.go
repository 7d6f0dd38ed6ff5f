package systems

import (
	"math"
	"testing"

	"github.com/pelagiclab/shoal/config"
	"github.com/pelagiclab/shoal/geom"
)

const tol = 1e-12

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCohesion(t *testing.T) {
	self := State{Pos: geom.Vec{X: 0, Y: 0}, Vel: geom.Vec{X: 1, Y: 0}}
	ns := []Visible{
		{Pos: geom.Vec{X: 10, Y: 0}, Weight: 1},
		{Pos: geom.Vec{X: 0, Y: 10}, Weight: 1},
	}

	got := Cohesion(self, ns, 0.1)
	if !approx(got.X, 0.5) || !approx(got.Y, 0.5) {
		t.Errorf("Cohesion = %+v, want {0.5 0.5}", got)
	}

	if got := Cohesion(self, nil, 0.1); got != (geom.Vec{}) {
		t.Errorf("Cohesion with no neighbors = %+v, want zero", got)
	}
}

func TestCohesionFrontWeightBias(t *testing.T) {
	// Symmetric neighbors fore and aft. With the forward boost the
	// weighted centroid shifts ahead, so cohesion pulls forward; with
	// no boost the pulls cancel.
	self := State{Vel: geom.Vec{X: 1, Y: 0}}
	boosted := []Visible{
		{Pos: geom.Vec{X: 10, Y: 0}, Weight: 1.5},
		{Pos: geom.Vec{X: -10, Y: 0}, Weight: 1},
	}
	flat := []Visible{
		{Pos: geom.Vec{X: 10, Y: 0}, Weight: 1},
		{Pos: geom.Vec{X: -10, Y: 0}, Weight: 1},
	}

	if got := Cohesion(self, boosted, 0.1); got.X <= 0 {
		t.Errorf("boosted Cohesion.X = %g, want positive", got.X)
	}
	if got := Cohesion(self, flat, 0.1); !approx(got.X, 0) {
		t.Errorf("unweighted Cohesion.X = %g, want 0", got.X)
	}
}

func TestSeparation(t *testing.T) {
	self := State{Vel: geom.Vec{X: 1, Y: 0}}

	tests := []struct {
		name string
		ns   []Visible
		want geom.Vec
	}{
		{
			name: "intruder pushes away",
			ns:   []Visible{{Offset: geom.Vec{X: 4, Y: 0}, Dist: 4, Weight: 1}},
			want: geom.Vec{X: -4 * 0.07, Y: 0},
		},
		{
			name: "outside protected range ignored",
			ns:   []Visible{{Offset: geom.Vec{X: 20, Y: 0}, Dist: 20, Weight: 1}},
			want: geom.Vec{},
		},
		{
			name: "coincident neighbor ignored",
			ns:   []Visible{{Offset: geom.Vec{}, Dist: 0, Weight: 1}},
			want: geom.Vec{},
		},
		{
			name: "weight scales push",
			ns:   []Visible{{Offset: geom.Vec{X: 4, Y: 0}, Dist: 4, Weight: 2}},
			want: geom.Vec{X: -8 * 0.07, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Separation(self, tt.ns, 8, 0.07)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("Separation = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAlignment(t *testing.T) {
	self := State{Vel: geom.Vec{X: 1, Y: 0}}
	ns := []Visible{
		{Vel: geom.Vec{X: 3, Y: 0}, Weight: 1},
		{Vel: geom.Vec{X: 1, Y: 2}, Weight: 1},
	}

	// Mean neighbor velocity is (2, 1); delta is (mean - self) * factor.
	got := Alignment(self, ns, 0.5)
	if !approx(got.X, 0.5) || !approx(got.Y, 0.5) {
		t.Errorf("Alignment = %+v, want {0.5 0.5}", got)
	}

	if got := Alignment(self, nil, 0.5); got != (geom.Vec{}) {
		t.Errorf("Alignment with no neighbors = %+v, want zero", got)
	}
}

func densityCfg() *config.BoidConfig {
	return &config.BoidConfig{
		SpeedControl:   0.05,
		TurningControl: 0.05,
		MaxTurn:        0.2,
	}
}

func TestDensityControlSpeed(t *testing.T) {
	self := State{Vel: geom.Vec{X: 2, Y: 0}}
	b := densityCfg()

	behind := []Visible{
		{Dist: 10, Weight: 1, Ahead: false, Left: true},
		{Dist: 10, Weight: 1, Ahead: false, Left: false},
	}
	got := DensityControl(self, behind, b)
	if !approx(got.X, b.SpeedControl) || !approx(got.Y, 0) {
		t.Errorf("crowd behind: delta = %+v, want {%g 0}", got, b.SpeedControl)
	}

	ahead := []Visible{
		{Dist: 10, Weight: 1, Ahead: true, Left: true},
		{Dist: 10, Weight: 1, Ahead: true, Left: false},
	}
	got = DensityControl(self, ahead, b)
	if !approx(got.X, -b.SpeedControl) || !approx(got.Y, 0) {
		t.Errorf("crowd ahead: delta = %+v, want {-%g 0}", got, b.SpeedControl)
	}
}

func TestDensityControlTurning(t *testing.T) {
	self := State{Vel: geom.Vec{X: 2, Y: 0}}
	b := densityCfg()

	left := []Visible{
		{Dist: 10, Weight: 1, Ahead: true, Left: true},
		{Dist: 10, Weight: 1, Ahead: false, Left: true},
	}
	got := DensityControl(self, left, b)
	if got.Y <= 0 {
		t.Errorf("crowd on the left: delta.Y = %g, want positive (turn left)", got.Y)
	}

	right := []Visible{
		{Dist: 10, Weight: 1, Ahead: true, Left: false},
		{Dist: 10, Weight: 1, Ahead: false, Left: false},
	}
	got = DensityControl(self, right, b)
	if got.Y >= 0 {
		t.Errorf("crowd on the right: delta.Y = %g, want negative (turn right)", got.Y)
	}
}

func TestDensityControlCapAndEmpty(t *testing.T) {
	self := State{Vel: geom.Vec{X: 2, Y: 0}}
	b := densityCfg()
	b.SpeedControl = 1
	b.MaxTurn = 0.1

	behind := []Visible{{Dist: 10, Weight: 1, Ahead: false, Left: true}}
	got := DensityControl(self, behind, b)
	speedAdj := got.Dot(geom.Vec{X: 1, Y: 0})
	if speedAdj > b.MaxTurn+tol {
		t.Errorf("speed adjustment %g exceeds cap %g", speedAdj, b.MaxTurn)
	}

	if got := DensityControl(self, nil, b); got != (geom.Vec{}) {
		t.Errorf("no neighbors: delta = %+v, want zero", got)
	}

	coincident := []Visible{{Dist: 0, Weight: 1}}
	if got := DensityControl(self, coincident, b); got != (geom.Vec{}) {
		t.Errorf("coincident-only neighbors: delta = %+v, want zero", got)
	}
}
