// Package ui renders the simulation scene and the runtime controls.
package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pelagiclab/shoal/camera"
	"github.com/pelagiclab/shoal/components"
	"github.com/pelagiclab/shoal/config"
	"github.com/pelagiclab/shoal/sim"
)

var (
	waterColor   = rl.Color{R: 18, G: 32, B: 44, A: 255}
	tankColor    = rl.Color{R: 10, G: 20, B: 30, A: 255}
	marginColor  = rl.Color{R: 60, G: 80, B: 95, A: 90}
	borderColor  = rl.Color{R: 120, G: 150, B: 170, A: 255}
	boidColor    = rl.Color{R: 140, G: 200, B: 255, A: 255}
	predColor    = rl.Color{R: 235, G: 90, B: 70, A: 255}
	eatingColor  = rl.Color{R: 250, G: 170, B: 60, A: 255}
)

const (
	boidSize = 4.0
	predSize = 9.0
)

// SceneRenderer draws the tank and its agents.
type SceneRenderer struct{}

// NewSceneRenderer creates a scene renderer.
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{}
}

// Draw renders the tank background, the wall margin band, and every
// agent as a triangle oriented along its heading.
func (r *SceneRenderer) Draw(cam *camera.Camera, cfg *config.Config, agents []sim.AgentView) {
	rl.ClearBackground(waterColor)

	w := float32(cfg.Tank.Width)
	h := float32(cfg.Tank.Height)
	margin := float32(cfg.Derived.Margin)

	// Tank interior and wall margin band
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(w, h)
	rl.DrawRectangle(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), tankColor)

	mx0, my0 := cam.WorldToScreen(margin, margin)
	mx1, my1 := cam.WorldToScreen(w-margin, h-margin)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: mx0, Y: my0, Width: mx1 - mx0, Height: my1 - my0}, 1, marginColor)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 2, borderColor)

	for _, a := range agents {
		size := float32(boidSize)
		color := boidColor
		if a.Kind == components.KindPredator {
			size = predSize
			color = predColor
			if a.EatCooldown > 0 {
				color = eatingColor
			}
		}

		if !cam.IsVisible(float32(a.Pos.X), float32(a.Pos.Y), size) {
			continue
		}

		drawAgent(cam, a, size, color)
	}
}

// drawAgent draws one agent as a triangle pointing along its velocity.
func drawAgent(cam *camera.Camera, a sim.AgentView, size float32, color rl.Color) {
	heading := a.Vel.Heading()
	dirX := float32(math.Cos(heading))
	dirY := float32(math.Sin(heading))
	perpX := -dirY
	perpY := dirX

	px := float32(a.Pos.X)
	py := float32(a.Pos.Y)

	tipX, tipY := cam.WorldToScreen(px+dirX*size, py+dirY*size)
	rightX, rightY := cam.WorldToScreen(px-dirX*size*0.7-perpX*size*0.5, py-dirY*size*0.7-perpY*size*0.5)
	leftX, leftY := cam.WorldToScreen(px-dirX*size*0.7+perpX*size*0.5, py-dirY*size*0.7+perpY*size*0.5)

	rl.DrawTriangle(
		rl.Vector2{X: tipX, Y: tipY},
		rl.Vector2{X: rightX, Y: rightY},
		rl.Vector2{X: leftX, Y: leftY},
		color,
	)
}
