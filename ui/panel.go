package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pelagiclab/shoal/config"
)

// TuningPanel exposes the flocking parameters as live sliders. Values
// are written back into the config between ticks; the caller reruns
// the derived-value computation when Draw reports a change.
type TuningPanel struct {
	x, y    float32
	width   float32
	visible bool
}

// NewTuningPanel creates a tuning panel anchored at the given corner.
func NewTuningPanel(x, y, width float32) *TuningPanel {
	return &TuningPanel{x: x, y: y, width: width}
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *TuningPanel) IsVisible() bool {
	return p.visible
}

// sliderSpec binds one slider row to a config field.
type sliderSpec struct {
	label    string
	value    *float64
	min, max float64
}

// Draw renders the panel and applies slider edits to cfg. Returns true
// if any parameter changed this frame.
func (p *TuningPanel) Draw(cfg *config.Config) bool {
	if !p.visible {
		return false
	}

	b := &cfg.Boids
	pr := &cfg.Predators

	rows := []sliderSpec{
		{"centering", &b.CenteringFactor, 0.0001, 0.005},
		{"avoid", &b.AvoidFactor, 0.001, 0.3},
		{"matching", &b.MatchingFactor, 0.001, 0.3},
		{"visual range", &b.VisualRange, 10, 120},
		{"protected range", &b.ProtectedRange, 1, 10},
		{"field of view", &b.FieldOfViewDeg, 30, 360},
		{"front weight", &b.FrontWeight, 0, 1},
		{"speed control", &b.SpeedControl, 0.001, 0.3},
		{"turning control", &b.TurningControl, 0.001, 0.3},
		{"pred attraction", &pr.Attraction, 0, 0.2},
		{"pred avoidance", &pr.Avoidance, 0, 1},
	}

	const (
		rowHeight   = 38
		padding     = 10
		labelHeight = 16
	)
	panelHeight := float32(len(rows)*rowHeight + padding*2 + 24)

	gui.WindowBox(rl.Rectangle{X: p.x, Y: p.y, Width: p.width, Height: panelHeight}, "Tuning")

	changed := false
	y := p.y + 24 + padding

	for _, row := range rows {
		rl.DrawText(fmt.Sprintf("%s: %.4g", row.label, *row.value), int32(p.x+padding), int32(y), 13, rl.LightGray)
		y += labelHeight

		got := gui.SliderBar(
			rl.Rectangle{X: p.x + padding, Y: y, Width: p.width - padding*2, Height: 16},
			"", "",
			float32(*row.value), float32(row.min), float32(row.max),
		)
		if got != float32(*row.value) {
			*row.value = float64(got)
			changed = true
		}
		y += rowHeight - labelHeight
	}

	return changed
}
