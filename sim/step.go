package sim

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pelagiclab/shoal/components"
	"github.com/pelagiclab/shoal/geom"
	"github.com/pelagiclab/shoal/systems"
)

// parallelThreshold is the minimum agent count to use parallel
// processing. Below this, single-threaded is faster due to goroutine
// overhead.
const parallelThreshold = 64

// agentSnapshot captures read-only state for the compute phase. Every
// force reads these frozen values, never live components, so update
// order within a tick cannot leak into the results.
type agentSnapshot struct {
	Entity      ecs.Entity
	ID          uint32
	Kind        components.Kind
	EatCooldown int
	State       systems.State
}

// intent is the computed next state, applied after the compute phase.
type intent struct {
	State systems.State
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Neighbors []systems.Neighbor
	Flock     []systems.Visible
	Threats   []systems.Visible
}

// workChunk is a range of snapshot indices for one worker.
type workChunk struct {
	start, end int
}

// parallelState holds the persistent worker pool for the compute phase.
type parallelState struct {
	snapshots  []agentSnapshot
	intents    []intent
	scratches  []workerScratch
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].Neighbors = make([]systems.Neighbor, 0, 64)
		scratches[i].Flock = make([]systems.Visible, 0, 64)
		scratches[i].Threats = make([]systems.Visible, 0, 8)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
		snapshots:  make([]agentSnapshot, 0, 256),
		intents:    make([]intent, 0, 256),
	}
}

func (p *parallelState) startWorkers(s *Simulation) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s, i)
	}
}

func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker(s *Simulation, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// eater is a predator eligible to consume this tick, gathered after
// the move so consumption uses post-move positions.
type eater struct {
	Entity ecs.Entity
	ID     uint32
	Pos    geom.Vec
}

// preyCandidate is a live boid during consumption resolution.
type preyCandidate struct {
	Entity ecs.Entity
	ID     uint32
	Pos    geom.Vec
	Eaten  bool
}

// Step advances the simulation one tick: rebuild the spatial index,
// compute every agent's next state from the frozen current state,
// commit all moves at once, resolve consumption, then sample telemetry.
func (s *Simulation) Step() {
	s.updateSpatialGrid()
	s.buildSnapshots()

	n := len(s.parallel.snapshots)
	if n > 0 {
		if cap(s.parallel.intents) < n {
			s.parallel.intents = make([]intent, n)
		}
		s.parallel.intents = s.parallel.intents[:n]

		if n < parallelThreshold {
			s.computeChunk(0, n, &s.parallel.scratches[0])
		} else {
			s.computeParallel(n)
		}

		s.applyIntents()
	}

	s.resolveConsumption()
	s.observe()

	s.tick++
}

// updateSpatialGrid rebuilds the spatial index from current positions.
func (s *Simulation) updateSpatialGrid() {
	s.grid.Clear()

	query := s.agentFilter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		s.grid.Insert(query.Entity(), pos.X, pos.Y)
	}
}

// buildSnapshots freezes the committed state for the compute phase.
func (s *Simulation) buildSnapshots() {
	s.parallel.snapshots = s.parallel.snapshots[:0]

	query := s.agentFilter.Query()
	for query.Next() {
		pos, vel, info := query.Get()
		s.parallel.snapshots = append(s.parallel.snapshots, agentSnapshot{
			Entity:      query.Entity(),
			ID:          info.ID,
			Kind:        info.Kind,
			EatCooldown: info.EatCooldown,
			State: systems.State{
				Pos: geom.Vec{X: pos.X, Y: pos.Y},
				Vel: geom.Vec{X: vel.X, Y: vel.Y},
			},
		})
	}
}

// computeParallel dispatches snapshot chunks to the worker pool and
// waits for completion. Intents land in indexed slots, so scheduling
// order cannot affect the outcome.
func (s *Simulation) computeParallel(n int) {
	if !s.parallel.running {
		s.parallel.startWorkers(s)
	}

	numWorkers := s.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	dispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		s.parallel.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-s.parallel.doneChan
	}
}

// computeChunk computes intents for a range of snapshots. Reads only
// frozen snapshots, the spatial grid, and config; writes only indexed
// intent slots.
func (s *Simulation) computeChunk(i0, i1 int, scratch *workerScratch) {
	for i := i0; i < i1; i++ {
		snap := &s.parallel.snapshots[i]
		switch snap.Kind {
		case components.KindBoid:
			s.parallel.intents[i].State = s.computeBoid(snap, scratch)
		case components.KindPredator:
			s.parallel.intents[i].State = s.computePredator(snap, scratch)
		}
	}
}

// computeBoid derives a boid's next state: flocking over visible
// flockmates, flight from predators inside predatory range, and wall
// steering, integrated under the turn and speed limits.
func (s *Simulation) computeBoid(snap *agentSnapshot, scratch *workerScratch) systems.State {
	b := &s.cfg.Boids
	p := &s.cfg.Predators

	queryRange := b.VisualRange
	if s.predCount > 0 && p.PredatoryRange > queryRange {
		queryRange = p.PredatoryRange
	}

	scratch.Neighbors = s.grid.QueryRadiusInto(
		scratch.Neighbors[:0],
		snap.State.Pos.X, snap.State.Pos.Y, queryRange,
		snap.Entity, s.posMap,
	)

	scratch.Flock = scratch.Flock[:0]
	scratch.Threats = scratch.Threats[:0]

	for _, nb := range scratch.Neighbors {
		info := s.infoMap.Get(nb.E)
		if info == nil {
			continue
		}
		vel := s.velMap.Get(nb.E)
		pos := s.posMap.Get(nb.E)
		if vel == nil || pos == nil {
			continue
		}

		v, ok := systems.Perceive(
			snap.State, info.ID, nb.Offset,
			geom.Vec{X: pos.X, Y: pos.Y},
			geom.Vec{X: vel.X, Y: vel.Y},
			s.cfg.Derived.FOVHalfRad, b.FrontWeight,
		)
		if !ok {
			continue
		}

		switch info.Kind {
		case components.KindBoid:
			if v.Dist <= b.VisualRange {
				scratch.Flock = append(scratch.Flock, v)
			}
		case components.KindPredator:
			if v.Dist <= p.PredatoryRange {
				scratch.Threats = append(scratch.Threats, v)
			}
		}
	}

	delta := systems.Flock(snap.State, scratch.Flock, b)
	delta = delta.Add(systems.Flee(snap.State, scratch.Threats, p))
	delta = delta.Add(systems.EdgeSteer(
		snap.State.Pos,
		s.cfg.Tank.Width, s.cfg.Tank.Height,
		s.cfg.Derived.Margin, b.TurnFactor,
	))

	return systems.Integrate(snap.State, delta, b.MaxTurn, b.MinSpeed, b.MaxSpeed)
}

// computePredator derives a predator's next state: pursuit of the
// nearest boid, separation from other predators, and wall steering.
// A predator that is busy eating holds still.
func (s *Simulation) computePredator(snap *agentSnapshot, scratch *workerScratch) systems.State {
	if snap.EatCooldown > 0 {
		return snap.State
	}

	p := &s.cfg.Predators

	scratch.Neighbors = s.grid.QueryRadiusInto(
		scratch.Neighbors[:0],
		snap.State.Pos.X, snap.State.Pos.Y, p.VisualRange,
		snap.Entity, s.posMap,
	)

	// Flock holds visible boids here, Threats the other predators.
	scratch.Flock = scratch.Flock[:0]
	scratch.Threats = scratch.Threats[:0]

	for _, nb := range scratch.Neighbors {
		info := s.infoMap.Get(nb.E)
		if info == nil {
			continue
		}
		pos := s.posMap.Get(nb.E)
		if pos == nil {
			continue
		}

		// Predators have no blind zone; every neighbor in range counts
		// with neutral weight.
		v := systems.Visible{
			ID:     info.ID,
			Pos:    geom.Vec{X: pos.X, Y: pos.Y},
			Offset: nb.Offset,
			Dist:   nb.Offset.Len(),
			Weight: 1,
		}

		switch info.Kind {
		case components.KindBoid:
			scratch.Flock = append(scratch.Flock, v)
		case components.KindPredator:
			scratch.Threats = append(scratch.Threats, v)
		}
	}

	delta := systems.Pursue(snap.State, scratch.Flock, p.Attraction)
	delta = delta.Add(systems.Separation(snap.State, scratch.Threats, p.EatingRange, p.AvoidFactor))
	delta = delta.Add(systems.EdgeSteer(
		snap.State.Pos,
		s.cfg.Tank.Width, s.cfg.Tank.Height,
		s.cfg.Derived.Margin, p.TurnFactor,
	))

	return systems.Integrate(snap.State, delta, 0, p.MinSpeed, p.MaxSpeed)
}

// applyIntents commits computed states back to the ECS components,
// single-threaded and in snapshot order.
func (s *Simulation) applyIntents() {
	for i := range s.parallel.snapshots {
		snap := &s.parallel.snapshots[i]
		st := &s.parallel.intents[i].State

		pos := s.posMap.Get(snap.Entity)
		vel := s.velMap.Get(snap.Entity)
		if pos == nil || vel == nil {
			continue
		}

		pos.X, pos.Y = st.Pos.X, st.Pos.Y
		vel.X, vel.Y = st.Vel.X, st.Vel.Y
	}
}

// resolveConsumption lets each idle predator consume at most one boid
// inside eating range, using post-move positions. Predators resolve in
// ascending ID order; each picks its nearest uneaten boid, ties going
// to the lower boid ID. Eaten boids are removed outside the query and
// the predator starts its eating pause.
func (s *Simulation) resolveConsumption() {
	if s.predCount == 0 || s.boidCount == 0 {
		return
	}

	s.eaters = s.eaters[:0]
	s.prey = s.prey[:0]

	query := s.agentFilter.Query()
	for query.Next() {
		pos, _, info := query.Get()
		switch info.Kind {
		case components.KindBoid:
			s.prey = append(s.prey, preyCandidate{
				Entity: query.Entity(),
				ID:     info.ID,
				Pos:    geom.Vec{X: pos.X, Y: pos.Y},
			})
		case components.KindPredator:
			if info.EatCooldown > 0 {
				info.EatCooldown--
			}
			if info.EatCooldown == 0 {
				s.eaters = append(s.eaters, eater{
					Entity: query.Entity(),
					ID:     info.ID,
					Pos:    geom.Vec{X: pos.X, Y: pos.Y},
				})
			}
		}
	}

	sortEaters(s.eaters)

	rangeSq := s.cfg.Predators.EatingRange * s.cfg.Predators.EatingRange
	s.toRemove = s.toRemove[:0]

	for _, e := range s.eaters {
		best := -1
		var bestDistSq float64
		for j := range s.prey {
			c := &s.prey[j]
			if c.Eaten {
				continue
			}
			distSq := c.Pos.Sub(e.Pos).LenSq()
			if distSq > rangeSq {
				continue
			}
			if best < 0 || distSq < bestDistSq ||
				(distSq == bestDistSq && c.ID < s.prey[best].ID) {
				best = j
				bestDistSq = distSq
			}
		}
		if best < 0 {
			continue
		}

		s.prey[best].Eaten = true
		s.toRemove = append(s.toRemove, s.prey[best].Entity)

		if info := s.infoMap.Get(e.Entity); info != nil {
			info.EatCooldown = s.cfg.Predators.EatingDuration
		}
	}

	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
		s.boidCount--
	}
	if len(s.toRemove) > 0 {
		s.collector.RecordEaten(len(s.toRemove))
	}
}

// observe samples the boid population and emits window stats when a
// window closes.
func (s *Simulation) observe() {
	s.boidPos = s.boidPos[:0]
	s.boidVel = s.boidVel[:0]

	query := s.agentFilter.Query()
	for query.Next() {
		pos, vel, info := query.Get()
		if info.Kind != components.KindBoid {
			continue
		}
		s.boidPos = append(s.boidPos, geom.Vec{X: pos.X, Y: pos.Y})
		s.boidVel = append(s.boidVel, geom.Vec{X: vel.X, Y: vel.Y})
	}

	stats, ok := s.collector.Observe(s.tick, s.boidPos, s.boidVel, s.predCount)
	if !ok {
		return
	}
	s.lastStats = stats
	s.hasStats = true

	if s.logStats {
		stats.LogStats()
	}
	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}
}

func sortEaters(es []eater) {
	for i := 1; i < len(es); i++ {
		for j := i; j > 0 && es[j].ID < es[j-1].ID; j-- {
			es[j], es[j-1] = es[j-1], es[j]
		}
	}
}
