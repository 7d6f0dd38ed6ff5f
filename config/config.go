// Package config provides configuration loading, validation, and access
// for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters. It is immutable
// for the duration of a run and shared by reference; the simulation
// never mutates it mid-tick.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Tank      TankConfig      `yaml:"tank"`
	Agents    AgentConfig     `yaml:"agents"`
	Boids     BoidConfig      `yaml:"boids"`
	Predators PredatorConfig  `yaml:"predators"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TankConfig holds the simulated tank dimensions and wall margin.
type TankConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin float64 `yaml:"margin"` // 0 = derive as 20% of max(width, height)
}

// AgentConfig holds initial population counts.
type AgentConfig struct {
	NumBoids int `yaml:"num_boids"`
	NumPreds int `yaml:"num_preds"`
}

// BoidConfig holds the flocking rule parameters for prey fish.
type BoidConfig struct {
	TurnFactor      float64 `yaml:"turn_factor"`         // wall-avoidance steering per tick
	VisualRange     float64 `yaml:"visual_range"`        // social perception distance
	ProtectedRange  float64 `yaml:"protected_range"`     // separation distance, <= visual_range
	CenteringFactor float64 `yaml:"centering_factor"`    // cohesion gain
	AvoidFactor     float64 `yaml:"avoid_factor"`        // separation gain
	MatchingFactor  float64 `yaml:"matching_factor"`     // alignment gain
	MaxSpeed        float64 `yaml:"maxspeed"`
	MinSpeed        float64 `yaml:"minspeed"`
	FieldOfViewDeg  float64 `yaml:"fieldofview_degrees"` // perceivable angular window, 0..360
	FrontWeight     float64 `yaml:"front_weight"`        // forward-hemisphere influence boost
	SpeedControl    float64 `yaml:"speed_control"`       // density-based speed adjustment gain
	TurningControl  float64 `yaml:"turning_control"`     // density-based turning adjustment gain
	MaxTurn         float64 `yaml:"max_turn"`            // heading change cap, radians per tick
}

// PredatorConfig holds the pursuit rule parameters for predators.
type PredatorConfig struct {
	TurnFactor     float64 `yaml:"turn_factor"`     // wall-avoidance steering per tick
	VisualRange    float64 `yaml:"visual_range"`    // prey detection distance
	PredatoryRange float64 `yaml:"predatory_range"` // distance at which boids flee
	EatingRange    float64 `yaml:"eating_range"`    // consumption distance
	EatingDuration int     `yaml:"eating_duration"` // ticks a predator pauses after eating
	AvoidFactor    float64 `yaml:"avoid_factor"`    // predator-predator separation gain
	Attraction     float64 `yaml:"attraction"`      // pursuit gain toward nearest boid
	Avoidance      float64 `yaml:"avoidance"`       // boid flee gain away from predators
	MaxSpeed       float64 `yaml:"maxspeed"`
	MinSpeed       float64 `yaml:"minspeed"`
}

// TelemetryConfig holds stats aggregation parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Margin     float64 // effective wall margin
	FOVHalfRad float64 // half field of view in radians
}

// Load loads configuration from a YAML file, merging it over the
// embedded defaults. If path is empty, only the defaults are used.
// The returned config is validated; invalid parameters are an error,
// never silently clamped.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks parameter ranges and cross-parameter consistency.
// It fails before the first tick rather than clamping silently.
func (c *Config) Validate() error {
	t := &c.Tank
	if t.Width < 60 || t.Width > 4000 {
		return fmt.Errorf("tank: width %g outside [60, 4000]", t.Width)
	}
	if t.Height < 60 || t.Height > 4000 {
		return fmt.Errorf("tank: height %g outside [60, 4000]", t.Height)
	}
	// Margin 0 means "derive"; explicit margins start at 1.
	maxMargin := 0.4 * math.Max(t.Width, t.Height)
	if t.Margin != 0 && (t.Margin < 1 || t.Margin > maxMargin) {
		return fmt.Errorf("tank: margin %g outside [1, %g] (0 derives it)", t.Margin, maxMargin)
	}

	a := &c.Agents
	if a.NumBoids < 1 {
		return fmt.Errorf("agents: num_boids %d must be at least 1", a.NumBoids)
	}
	if a.NumPreds < 0 {
		return fmt.Errorf("agents: num_preds %d must not be negative", a.NumPreds)
	}

	b := &c.Boids
	if b.VisualRange <= 0 {
		return fmt.Errorf("boids: visual_range %g must be positive", b.VisualRange)
	}
	if b.ProtectedRange <= 0 {
		return fmt.Errorf("boids: protected_range %g must be positive", b.ProtectedRange)
	}
	if b.ProtectedRange > b.VisualRange {
		return fmt.Errorf("boids: protected_range %g exceeds visual_range %g", b.ProtectedRange, b.VisualRange)
	}
	if b.MinSpeed <= 0 {
		return fmt.Errorf("boids: minspeed %g must be positive", b.MinSpeed)
	}
	if b.MinSpeed > b.MaxSpeed {
		return fmt.Errorf("boids: minspeed %g exceeds maxspeed %g", b.MinSpeed, b.MaxSpeed)
	}
	if b.MaxSpeed > 100 {
		return fmt.Errorf("boids: maxspeed %g exceeds 100", b.MaxSpeed)
	}
	if b.FieldOfViewDeg < 0 || b.FieldOfViewDeg > 360 {
		return fmt.Errorf("boids: fieldofview_degrees %g outside [0, 360]", b.FieldOfViewDeg)
	}
	if b.FrontWeight < 0 || b.FrontWeight > 1 {
		return fmt.Errorf("boids: front_weight %g outside [0, 1]", b.FrontWeight)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"turn_factor", b.TurnFactor},
		{"centering_factor", b.CenteringFactor},
		{"avoid_factor", b.AvoidFactor},
		{"matching_factor", b.MatchingFactor},
		{"speed_control", b.SpeedControl},
		{"turning_control", b.TurningControl},
		{"max_turn", b.MaxTurn},
	} {
		if p.v <= 0 || p.v > 1 {
			return fmt.Errorf("boids: %s %g outside (0, 1]", p.name, p.v)
		}
	}

	p := &c.Predators
	if c.Agents.NumPreds > 0 {
		if p.VisualRange <= 0 {
			return fmt.Errorf("predators: visual_range %g must be positive", p.VisualRange)
		}
		if p.PredatoryRange <= 0 {
			return fmt.Errorf("predators: predatory_range %g must be positive", p.PredatoryRange)
		}
		if p.EatingRange <= 0 {
			return fmt.Errorf("predators: eating_range %g must be positive", p.EatingRange)
		}
		if p.EatingDuration < 0 {
			return fmt.Errorf("predators: eating_duration %d must not be negative", p.EatingDuration)
		}
		if p.MinSpeed <= 0 {
			return fmt.Errorf("predators: minspeed %g must be positive", p.MinSpeed)
		}
		if p.MinSpeed > p.MaxSpeed {
			return fmt.Errorf("predators: minspeed %g exceeds maxspeed %g", p.MinSpeed, p.MaxSpeed)
		}
		if p.MaxSpeed > 100 {
			return fmt.Errorf("predators: maxspeed %g exceeds 100", p.MaxSpeed)
		}
		if p.TurnFactor <= 0 || p.TurnFactor > 1 {
			return fmt.Errorf("predators: turn_factor %g outside (0, 1]", p.TurnFactor)
		}
		if p.AvoidFactor <= 0 || p.AvoidFactor > 1 {
			return fmt.Errorf("predators: avoid_factor %g outside (0, 1]", p.AvoidFactor)
		}
		if p.Attraction < -1 || p.Attraction > 1 {
			return fmt.Errorf("predators: attraction %g outside [-1, 1]", p.Attraction)
		}
		if p.Avoidance < -1 || p.Avoidance > 1 {
			return fmt.Errorf("predators: avoidance %g outside [-1, 1]", p.Avoidance)
		}
	}

	if c.Telemetry.WindowTicks < 1 {
		return fmt.Errorf("telemetry: window_ticks %d must be at least 1", c.Telemetry.WindowTicks)
	}

	return nil
}

// ComputeDerived calculates values derived from the loaded config.
// Load calls it automatically; callers that mutate parameters between
// ticks (the tuning panel) call it again afterwards.
func (c *Config) ComputeDerived() {
	c.Derived.Margin = c.Tank.Margin
	if c.Derived.Margin == 0 {
		c.Derived.Margin = 0.2 * math.Max(c.Tank.Width, c.Tank.Height)
	}
	c.Derived.FOVHalfRad = c.Boids.FieldOfViewDeg * math.Pi / 360
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
