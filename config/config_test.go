package config

import (
	"math"
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := validConfig(t)

	if cfg.Agents.NumBoids < 1 {
		t.Errorf("num_boids = %d, want at least 1", cfg.Agents.NumBoids)
	}
	if cfg.Boids.ProtectedRange > cfg.Boids.VisualRange {
		t.Errorf("protected_range %g exceeds visual_range %g", cfg.Boids.ProtectedRange, cfg.Boids.VisualRange)
	}
	if cfg.Derived.FOVHalfRad <= 0 || cfg.Derived.FOVHalfRad > math.Pi {
		t.Errorf("derived FOV half angle = %g, want in (0, pi]", cfg.Derived.FOVHalfRad)
	}
	if cfg.Derived.Margin <= 0 {
		t.Errorf("derived margin = %g, want positive", cfg.Derived.Margin)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"tank too small", func(c *Config) { c.Tank.Width = 10 }, "width"},
		{"tank too large", func(c *Config) { c.Tank.Height = 5000 }, "height"},
		{"margin too wide", func(c *Config) { c.Tank.Margin = c.Tank.Width }, "margin"},
		{"fractional margin", func(c *Config) { c.Tank.Margin = 0.5 }, "margin"},
		{"negative margin", func(c *Config) { c.Tank.Margin = -1 }, "margin"},
		{"no boids", func(c *Config) { c.Agents.NumBoids = 0 }, "num_boids"},
		{"negative predators", func(c *Config) { c.Agents.NumPreds = -1 }, "num_preds"},
		{"protected beyond visual", func(c *Config) { c.Boids.ProtectedRange = c.Boids.VisualRange + 1 }, "protected_range"},
		{"min above max speed", func(c *Config) { c.Boids.MinSpeed = c.Boids.MaxSpeed + 1 }, "minspeed"},
		{"zero min speed", func(c *Config) { c.Boids.MinSpeed = 0 }, "minspeed"},
		{"runaway max speed", func(c *Config) { c.Boids.MaxSpeed = 101 }, "maxspeed"},
		{"runaway predator max speed", func(c *Config) { c.Predators.MaxSpeed = 101 }, "maxspeed"},
		{"fov above full circle", func(c *Config) { c.Boids.FieldOfViewDeg = 361 }, "fieldofview"},
		{"front weight above one", func(c *Config) { c.Boids.FrontWeight = 1.5 }, "front_weight"},
		{"zero avoid factor", func(c *Config) { c.Boids.AvoidFactor = 0 }, "avoid_factor"},
		{"max_turn above one", func(c *Config) { c.Boids.MaxTurn = 1.5 }, "max_turn"},
		{"pred min above max", func(c *Config) { c.Predators.MinSpeed = c.Predators.MaxSpeed + 1 }, "minspeed"},
		{"negative eating duration", func(c *Config) { c.Predators.EatingDuration = -1 }, "eating_duration"},
		{"avoidance out of range", func(c *Config) { c.Predators.Avoidance = 2 }, "avoidance"},
		{"zero window", func(c *Config) { c.Telemetry.WindowTicks = 0 }, "window_ticks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted an invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestPredatorChecksSkippedWithoutPredators(t *testing.T) {
	cfg := validConfig(t)
	cfg.Agents.NumPreds = 0
	cfg.Predators.EatingRange = -5

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate rejected predator params with no predators: %v", err)
	}
}

func TestDerivedMarginFallback(t *testing.T) {
	cfg := validConfig(t)
	cfg.Tank.Width = 500
	cfg.Tank.Height = 300
	cfg.Tank.Margin = 0
	cfg.ComputeDerived()

	if cfg.Derived.Margin != 100 {
		t.Errorf("derived margin = %g, want 100 (20%% of 500)", cfg.Derived.Margin)
	}

	cfg.Tank.Margin = 42
	cfg.ComputeDerived()
	if cfg.Derived.Margin != 42 {
		t.Errorf("explicit margin not honored: got %g", cfg.Derived.Margin)
	}
}
