package systems

import (
	"math"
	"testing"

	"github.com/pelagiclab/shoal/geom"
)

func TestIntegrateSpeedBounds(t *testing.T) {
	tests := []struct {
		name      string
		vel       geom.Vec
		delta     geom.Vec
		wantSpeed float64
	}{
		{"too fast clamps to max", geom.Vec{X: 2, Y: 0}, geom.Vec{X: 8, Y: 0}, 3},
		{"too slow clamps to min", geom.Vec{X: 2.5, Y: 0}, geom.Vec{X: -1.5, Y: 0}, 2},
		{"within bounds untouched", geom.Vec{X: 2.5, Y: 0}, geom.Vec{}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Integrate(State{Vel: tt.vel}, tt.delta, 0, 2, 3)
			if !approx(st.Vel.Len(), tt.wantSpeed) {
				t.Errorf("speed = %g, want %g", st.Vel.Len(), tt.wantSpeed)
			}
		})
	}
}

func TestIntegrateClampPreservesDirection(t *testing.T) {
	st := Integrate(State{Vel: geom.Vec{X: 3, Y: 4}}, geom.Vec{X: 3, Y: 4}, 0, 2, 3)
	// Direction (0.6, 0.8) rescaled to max speed.
	if !approx(st.Vel.X, 1.8) || !approx(st.Vel.Y, 2.4) {
		t.Errorf("vel = %+v, want {1.8 2.4}", st.Vel)
	}
}

func TestIntegrateMaxTurnCap(t *testing.T) {
	const maxTurn = 0.2
	prev := geom.Vec{X: 2, Y: 0}

	st := Integrate(State{Vel: prev}, geom.Vec{X: 0, Y: 10}, maxTurn, 2, 3)

	turned := prev.AngleTo(st.Vel)
	if math.Abs(turned) > maxTurn+tol {
		t.Errorf("heading changed by %g, cap is %g", turned, maxTurn)
	}
	if !approx(turned, maxTurn) {
		t.Errorf("heading change = %g, want the full cap %g", turned, maxTurn)
	}
	if !approx(st.Vel.Len(), 3) {
		t.Errorf("speed = %g, want clamped to 3", st.Vel.Len())
	}
}

func TestIntegrateMaxTurnDisabled(t *testing.T) {
	prev := geom.Vec{X: 2, Y: 0}
	st := Integrate(State{Vel: prev}, geom.Vec{X: 0, Y: 10}, 0, 2, 3)

	// Without a cap the heading follows vel+delta exactly.
	want := prev.Add(geom.Vec{X: 0, Y: 10})
	if !approx(prev.AngleTo(st.Vel), prev.AngleTo(want)) {
		t.Errorf("heading = %g, want %g", prev.AngleTo(st.Vel), prev.AngleTo(want))
	}
}

func TestIntegrateSmallTurnUncapped(t *testing.T) {
	prev := geom.Vec{X: 2, Y: 0}
	st := Integrate(State{Vel: prev}, geom.Vec{X: 0, Y: 0.1}, 0.2, 2, 3)

	want := geom.Vec{X: 2, Y: 0.1}
	if !approx(st.Vel.X, want.X) || !approx(st.Vel.Y, want.Y) {
		t.Errorf("vel = %+v, want %+v", st.Vel, want)
	}
}

func TestIntegrateCancelledVelocityKeepsHeading(t *testing.T) {
	prev := geom.Vec{X: 2, Y: 0}
	st := Integrate(State{Vel: prev}, geom.Vec{X: -2, Y: 0}, 0, 2, 3)

	if !approx(st.Vel.X, 2) || !approx(st.Vel.Y, 0) {
		t.Errorf("vel = %+v, want previous heading at min speed {2 0}", st.Vel)
	}
}

func TestIntegrateAdvancesPosition(t *testing.T) {
	st := Integrate(State{Pos: geom.Vec{X: 10, Y: 20}, Vel: geom.Vec{X: 2.5, Y: 0}}, geom.Vec{}, 0.2, 2, 3)
	if !approx(st.Pos.X, 12.5) || !approx(st.Pos.Y, 20) {
		t.Errorf("pos = %+v, want {12.5 20}", st.Pos)
	}
}
