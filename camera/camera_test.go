package camera

import (
	"math"
	"testing"
)

func TestWorldScreenRoundTrip(t *testing.T) {
	c := New(960, 720, 640, 480)
	c.SetZoom(2)

	tests := []struct {
		name   string
		wx, wy float32
	}{
		{"center", 320, 240},
		{"origin", 0, 0},
		{"far corner", 640, 480},
		{"arbitrary", 123.5, 77.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := c.WorldToScreen(tt.wx, tt.wy)
			wx, wy := c.ScreenToWorld(sx, sy)
			if math.Abs(float64(wx-tt.wx)) > 1e-3 || math.Abs(float64(wy-tt.wy)) > 1e-3 {
				t.Errorf("round trip (%g, %g) -> (%g, %g)", tt.wx, tt.wy, wx, wy)
			}
		})
	}
}

func TestPanClampsToTank(t *testing.T) {
	c := New(960, 720, 640, 480)

	c.Pan(-1e6, -1e6)
	if c.X != 0 || c.Y != 0 {
		t.Errorf("pan past origin: center = (%g, %g), want (0, 0)", c.X, c.Y)
	}

	c.Pan(1e6, 1e6)
	if c.X != 640 || c.Y != 480 {
		t.Errorf("pan past far corner: center = (%g, %g), want (640, 480)", c.X, c.Y)
	}
}

func TestZoomClamped(t *testing.T) {
	c := New(960, 720, 640, 480)

	c.SetZoom(100)
	if c.Zoom != c.MaxZoom {
		t.Errorf("zoom = %g, want max %g", c.Zoom, c.MaxZoom)
	}

	c.SetZoom(0.001)
	if c.Zoom != c.MinZoom {
		t.Errorf("zoom = %g, want min %g", c.Zoom, c.MinZoom)
	}
}

func TestResetFitsTank(t *testing.T) {
	c := New(960, 720, 640, 480)
	c.Pan(100, 100)
	c.ZoomBy(3)

	c.Reset()
	if c.X != 320 || c.Y != 240 {
		t.Errorf("center = (%g, %g), want (320, 240)", c.X, c.Y)
	}

	// The whole tank fits on screen at the reset zoom.
	sx0, sy0 := c.WorldToScreen(0, 0)
	sx1, sy1 := c.WorldToScreen(640, 480)
	if sx0 < 0 || sy0 < 0 || sx1 > 960 || sy1 > 720 {
		t.Errorf("tank corners map to (%g, %g) and (%g, %g), outside the viewport", sx0, sy0, sx1, sy1)
	}
}
