package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pelagiclab/shoal/components"
)

func TestGridMatchesBruteForce(t *testing.T) {
	const (
		width    = 640.0
		height   = 480.0
		cellSize = 40.0
		n        = 200
	)

	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	rng := rand.New(rand.NewSource(42))

	entities := make([]ecs.Entity, n)
	positions := make([]components.Position, n)
	for i := 0; i < n; i++ {
		positions[i] = components.Position{
			X: rng.Float64() * width,
			Y: rng.Float64() * height,
		}
		entities[i] = posMap.NewEntity(&positions[i])
	}

	grid := NewGrid(width, height, cellSize)
	for i, e := range entities {
		grid.Insert(e, positions[i].X, positions[i].Y)
	}

	for _, radius := range []float64{8, 40, 100} {
		for qi := 0; qi < 20; qi++ {
			qx := rng.Float64() * width
			qy := rng.Float64() * height
			exclude := entities[qi]

			got := grid.QueryRadiusInto(nil, qx, qy, radius, exclude, posMap)

			var want []ecs.Entity
			for i, e := range entities {
				if e == exclude {
					continue
				}
				dx := positions[i].X - qx
				dy := positions[i].Y - qy
				if dx*dx+dy*dy <= radius*radius {
					want = append(want, e)
				}
			}

			if len(got) != len(want) {
				t.Fatalf("radius %g query %d: got %d neighbors, want %d", radius, qi, len(got), len(want))
			}

			gotSet := make(map[ecs.Entity]bool, len(got))
			for _, nb := range got {
				gotSet[nb.E] = true
			}
			for _, e := range want {
				if !gotSet[e] {
					t.Fatalf("radius %g query %d: neighbor sets differ", radius, qi)
				}
			}
		}
	}
}

func TestGridRadiusBoundaryInclusive(t *testing.T) {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	center := posMap.NewEntity(&components.Position{X: 100, Y: 100})
	onEdge := posMap.NewEntity(&components.Position{X: 140, Y: 100})

	grid := NewGrid(640, 480, 40)
	grid.Insert(center, 100, 100)
	grid.Insert(onEdge, 140, 100)

	got := grid.QueryRadiusInto(nil, 100, 100, 40, center, posMap)
	if len(got) != 1 || got[0].E != onEdge {
		t.Fatalf("neighbor at exactly radius distance not returned: got %d results", len(got))
	}
	if math.Abs(got[0].DistSq-1600) > 1e-9 {
		t.Errorf("DistSq = %g, want 1600", got[0].DistSq)
	}
	if got[0].Offset.X != 40 || got[0].Offset.Y != 0 {
		t.Errorf("Offset = %+v, want {40 0}", got[0].Offset)
	}
}

func TestGridClampsOutOfBoundsInsert(t *testing.T) {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	// An agent can overshoot the tank edge mid-turn; the grid must
	// still index it and return it from nearby queries.
	stray := posMap.NewEntity(&components.Position{X: -5, Y: -5})
	query := posMap.NewEntity(&components.Position{X: 10, Y: 10})

	grid := NewGrid(640, 480, 40)
	grid.Insert(stray, -5, -5)
	grid.Insert(query, 10, 10)

	got := grid.QueryRadiusInto(nil, 10, 10, 40, query, posMap)
	if len(got) != 1 || got[0].E != stray {
		t.Fatalf("out-of-bounds neighbor not returned: got %d results", len(got))
	}
}

func TestGridClampsOutOfBoundsQuery(t *testing.T) {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	// Both agents are far past the right edge, many cells beyond the
	// query's cell radius. The query center must clamp onto the edge
	// cells the same way Insert clamped the stray in.
	stray := posMap.NewEntity(&components.Position{X: 800, Y: 100})
	query := posMap.NewEntity(&components.Position{X: 805, Y: 100})

	grid := NewGrid(640, 480, 40)
	grid.Insert(stray, 800, 100)
	grid.Insert(query, 805, 100)

	got := grid.QueryRadiusInto(nil, 805, 100, 40, query, posMap)
	if len(got) != 1 || got[0].E != stray {
		t.Fatalf("far out-of-bounds neighbor not returned: got %d results", len(got))
	}
}
