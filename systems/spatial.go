// Package systems provides the per-tick rule systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pelagiclab/shoal/components"
	"github.com/pelagiclab/shoal/geom"
)

// Neighbor holds a nearby entity with precomputed spatial data.
// This avoids recomputing offsets and distances in the force systems.
type Neighbor struct {
	E      ecs.Entity
	Offset geom.Vec // other position minus query origin
	DistSq float64  // squared distance (avoid sqrt in hot path)
}

// Grid provides O(1) neighbor lookups using a cell-based spatial index.
// The tank is bounded; cells outside it are never produced. Query
// results are exactly the brute-force set {other : dist <= radius}.
type Grid struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
	cells    [][]ecs.Entity
}

// NewGrid creates a spatial grid covering the given tank size.
func NewGrid(width, height, cellSize float64) *Grid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *Grid) Insert(e ecs.Entity, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], e)
}

// QueryRadiusInto appends every entity within radius of (x, y) to dst
// and returns the updated slice. Reuse dst across calls to avoid
// allocations. The exclude entity (the querying agent) is skipped.
// No ordering is guaranteed.
func (g *Grid) QueryRadiusInto(dst []Neighbor, x, y, radius float64, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	// Clamp like Insert does, so a querier past the tank edge still
	// scans the edge cells that hold clamped-in strays.
	centerCol, centerRow := g.cellCoords(x, y)

	radiusSq := radius * radius

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= g.rows {
				continue
			}

			for _, e := range g.cells[row*g.cols+col] {
				if e == exclude {
					continue
				}

				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx := pos.X - x
				dy := pos.Y - y
				distSq := dx*dx + dy*dy

				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, Offset: geom.Vec{X: dx, Y: dy}, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// cellIndex returns the flat index for a tank position, clamped to the
// grid bounds so agents drifting past an edge still index a valid cell.
func (g *Grid) cellIndex(x, y float64) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}

func (g *Grid) cellCoords(x, y float64) (col, row int) {
	col = int(x / g.cellSize)
	row = int(y / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
