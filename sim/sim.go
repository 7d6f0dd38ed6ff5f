// Package sim runs the schooling simulation: boids with a limited
// field of view, density-based speed and turning control, and
// predators that pursue and consume them inside a bounded tank.
package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pelagiclab/shoal/components"
	"github.com/pelagiclab/shoal/config"
	"github.com/pelagiclab/shoal/geom"
	"github.com/pelagiclab/shoal/systems"
	"github.com/pelagiclab/shoal/telemetry"
)

// Options holds per-run settings that are not simulation parameters.
type Options struct {
	Seed      int64
	OutputDir string
	LogStats  bool
}

// Simulation holds the world state and the systems that advance it.
// All randomness flows through one seeded source, so two simulations
// with the same config and seed produce identical trajectories.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	world       *ecs.World
	agentMapper *ecs.Map3[components.Position, components.Velocity, components.Agent]
	agentFilter *ecs.Filter3[components.Position, components.Velocity, components.Agent]
	posMap      *ecs.Map1[components.Position]
	velMap      *ecs.Map1[components.Velocity]
	infoMap     *ecs.Map1[components.Agent]

	grid *systems.Grid

	tick      int
	nextID    uint32
	boidCount int
	predCount int

	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
	lastStats telemetry.WindowStats
	hasStats  bool

	parallel *parallelState

	// Reused per-tick buffers
	boidPos  []geom.Vec
	boidVel  []geom.Vec
	toRemove []ecs.Entity
	eaters   []eater
	prey     []preyCandidate
}

// AgentView is an exported read-only view of one agent, for rendering
// and inspection.
type AgentView struct {
	ID          uint32
	Kind        components.Kind
	Pos         geom.Vec
	Vel         geom.Vec
	EatCooldown int
}

// New creates a simulation from a validated config, spawning the
// initial population.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	s := &Simulation{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		logStats: opts.LogStats,
	}

	s.world = ecs.NewWorld()
	s.agentMapper = ecs.NewMap3[components.Position, components.Velocity, components.Agent](s.world)
	s.agentFilter = ecs.NewFilter3[components.Position, components.Velocity, components.Agent](s.world)
	s.posMap = ecs.NewMap1[components.Position](s.world)
	s.velMap = ecs.NewMap1[components.Velocity](s.world)
	s.infoMap = ecs.NewMap1[components.Agent](s.world)

	s.grid = systems.NewGrid(cfg.Tank.Width, cfg.Tank.Height, cfg.Boids.VisualRange)
	s.collector = telemetry.NewCollector(cfg.Telemetry.WindowTicks)
	s.parallel = newParallelState()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = om
	if err := s.output.WriteConfig(cfg); err != nil {
		s.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	for i := 0; i < cfg.Agents.NumBoids; i++ {
		s.spawn(components.KindBoid, cfg.Boids.MinSpeed, cfg.Boids.MaxSpeed)
	}
	for i := 0; i < cfg.Agents.NumPreds; i++ {
		s.spawn(components.KindPredator, cfg.Predators.MinSpeed, cfg.Predators.MaxSpeed)
	}

	return s, nil
}

// spawn creates one agent at a uniform random tank position with a
// uniform random heading and a speed inside the kind's bounds.
func (s *Simulation) spawn(kind components.Kind, minSpeed, maxSpeed float64) {
	pos := components.Position{
		X: s.rng.Float64() * s.cfg.Tank.Width,
		Y: s.rng.Float64() * s.cfg.Tank.Height,
	}

	heading := s.rng.Float64() * 2 * math.Pi
	speed := minSpeed + s.rng.Float64()*(maxSpeed-minSpeed)
	vel := components.Velocity{
		X: math.Cos(heading) * speed,
		Y: math.Sin(heading) * speed,
	}

	info := components.Agent{ID: s.nextID, Kind: kind}
	s.nextID++

	s.agentMapper.NewEntity(&pos, &vel, &info)

	switch kind {
	case components.KindBoid:
		s.boidCount++
	case components.KindPredator:
		s.predCount++
	}
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int { return s.tick }

// BoidCount returns the number of live boids.
func (s *Simulation) BoidCount() int { return s.boidCount }

// PredCount returns the number of live predators.
func (s *Simulation) PredCount() int { return s.predCount }

// Config returns the simulation config. Callers may adjust rule
// parameters between ticks; they must call ComputeDerived afterwards
// and never touch it mid-step.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Agents appends a view of every live agent to dst, sorted by ID, and
// returns the updated slice.
func (s *Simulation) Agents(dst []AgentView) []AgentView {
	query := s.agentFilter.Query()
	for query.Next() {
		pos, vel, info := query.Get()
		dst = append(dst, AgentView{
			ID:          info.ID,
			Kind:        info.Kind,
			Pos:         geom.Vec{X: pos.X, Y: pos.Y},
			Vel:         geom.Vec{X: vel.X, Y: vel.Y},
			EatCooldown: info.EatCooldown,
		})
	}
	sortViews(dst)
	return dst
}

// LastStats returns the most recently closed stats window. ok is
// false before the first window closes.
func (s *Simulation) LastStats() (stats telemetry.WindowStats, ok bool) {
	return s.lastStats, s.hasStats
}

// Close releases worker goroutines and flushes output files.
func (s *Simulation) Close() error {
	s.parallel.stopWorkers()
	return s.output.Close()
}

func sortViews(vs []AgentView) {
	// Insertion sort: views arrive nearly sorted because IDs are
	// assigned in spawn order and archetype storage preserves it.
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j].ID < vs[j-1].ID; j-- {
			vs[j], vs[j-1] = vs[j-1], vs[j]
		}
	}
}
