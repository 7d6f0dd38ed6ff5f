package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pelagiclab/shoal/camera"
	"github.com/pelagiclab/shoal/config"
	"github.com/pelagiclab/shoal/sim"
	"github.com/pelagiclab/shoal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per frame (higher = faster)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := sim.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}

	if *headless {
		runHeadless(cfg, opts, *maxTicks, *stepsPerUpdate)
		return
	}
	runGraphical(cfg, opts, *maxTicks, *stepsPerUpdate)
}

func runHeadless(cfg *config.Config, opts sim.Options, maxTicks, stepsPerUpdate int) {
	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"boids", cfg.Agents.NumBoids,
		"preds", cfg.Agents.NumPreds,
		"max_ticks", maxTicks,
	)

	for {
		for i := 0; i < stepsPerUpdate; i++ {
			s.Step()
		}
		if maxTicks > 0 && s.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick(), "boids", s.BoidCount())
			return
		}
	}
}

func runGraphical(cfg *config.Config, opts sim.Options, maxTicks, stepsPerUpdate int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Shoal")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	cam := camera.New(
		float32(cfg.Screen.Width), float32(cfg.Screen.Height),
		float32(cfg.Tank.Width), float32(cfg.Tank.Height),
	)
	scene := ui.NewSceneRenderer()
	hud := ui.NewHUD()
	panel := ui.NewTuningPanel(float32(cfg.Screen.Width)-280, 10, 270)

	paused := false
	speed := stepsPerUpdate
	if speed < 1 {
		speed = 1
	}

	var views []sim.AgentView

	for !rl.WindowShouldClose() {
		// Input
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}
		if rl.IsKeyPressed(rl.KeyTab) {
			panel.Toggle()
		}
		if rl.IsKeyPressed(rl.KeyR) {
			cam.Reset()
		}
		if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
			speed++
		}
		if (rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract)) && speed > 1 {
			speed--
		}
		if rl.IsMouseButtonDown(rl.MouseRightButton) {
			d := rl.GetMouseDelta()
			cam.Pan(-d.X, -d.Y)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.ZoomBy(1 + wheel*0.1)
		}

		if !paused {
			for i := 0; i < speed; i++ {
				s.Step()
			}
		}

		views = s.Agents(views[:0])
		stats, hasStats := s.LastStats()

		rl.BeginDrawing()
		scene.Draw(cam, cfg, views)
		hud.Draw(ui.HUDData{
			Title:    "Shoal",
			Boids:    s.BoidCount(),
			Preds:    s.PredCount(),
			Tick:     s.Tick(),
			Speed:    speed,
			FPS:      rl.GetFPS(),
			Paused:   paused,
			HasStats: hasStats,
			Stats:    stats,
		})
		hud.DrawControls(int32(cfg.Screen.Height),
			"Space pause | Tab tuning | +/- speed | Right-drag pan | Wheel zoom | R reset view")

		if panel.Draw(cfg) {
			cfg.ComputeDerived()
		}
		rl.EndDrawing()

		if maxTicks > 0 && s.Tick() >= maxTicks {
			break
		}
	}
}
