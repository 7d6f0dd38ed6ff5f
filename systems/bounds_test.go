package systems

import (
	"testing"

	"github.com/pelagiclab/shoal/geom"
)

func TestEdgeSteer(t *testing.T) {
	const (
		width  = 640.0
		height = 480.0
		margin = 100.0
		tf     = 0.2
	)

	tests := []struct {
		name string
		pos  geom.Vec
		want geom.Vec
	}{
		{"interior", geom.Vec{X: 320, Y: 240}, geom.Vec{}},
		{"left band", geom.Vec{X: 50, Y: 240}, geom.Vec{X: tf}},
		{"right band", geom.Vec{X: 600, Y: 240}, geom.Vec{X: -tf}},
		{"top band", geom.Vec{X: 320, Y: 50}, geom.Vec{Y: tf}},
		{"bottom band", geom.Vec{X: 320, Y: 450}, geom.Vec{Y: -tf}},
		{"corner combines axes", geom.Vec{X: 50, Y: 450}, geom.Vec{X: tf, Y: -tf}},
		{"past the edge still steered inward", geom.Vec{X: -10, Y: 240}, geom.Vec{X: tf}},
		{"exactly at margin is interior", geom.Vec{X: margin, Y: 240}, geom.Vec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EdgeSteer(tt.pos, width, height, margin, tf)
			if got != tt.want {
				t.Errorf("EdgeSteer(%+v) = %+v, want %+v", tt.pos, got, tt.want)
			}
		})
	}
}
