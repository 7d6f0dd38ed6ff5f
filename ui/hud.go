package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pelagiclab/shoal/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title  string
	Boids  int
	Preds  int
	Tick   int
	Speed  int
	FPS    int32
	Paused bool

	// Latest closed-window stats; HasStats is false before the first
	// window closes.
	HasStats bool
	Stats    telemetry.WindowStats
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Boids: %d | Predators: %d", data.Boids, data.Preds),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.HasStats {
		s := data.Stats
		rl.DrawText(
			fmt.Sprintf("Polarization: %.2f | Milling: %.2f | NND: %.1f | Eaten: %d",
				s.PolarizationMean, s.MillingMean, s.NNDMean, s.EatenTotal),
			10, 75, 16, rl.LightGray,
		)
	}

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 95, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
