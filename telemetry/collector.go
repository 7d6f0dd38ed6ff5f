package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pelagiclab/shoal/geom"
)

// Collector accumulates per-tick metric samples and rolls them up into
// WindowStats once per window. It never allocates per tick after the
// first window; sample buffers are reused.
type Collector struct {
	windowTicks int
	windowStart int

	polarization []float64
	milling      []float64
	speeds       []float64
	nnd          []float64

	eaten      int
	eatenTotal int
}

// NewCollector creates a collector that closes a window every
// windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	return &Collector{windowTicks: windowTicks}
}

// RecordEaten counts boids consumed during the current tick.
func (c *Collector) RecordEaten(n int) {
	c.eaten += n
	c.eatenTotal += n
}

// Observe samples the boid population once per tick. positions and
// vels hold live boids only, in any order. When the observation closes
// a window, the aggregated WindowStats is returned with ok true.
func (c *Collector) Observe(tick int, positions, vels []geom.Vec, predCount int) (WindowStats, bool) {
	c.polarization = append(c.polarization, Polarization(vels))
	c.milling = append(c.milling, MillingIndex(positions, vels))
	c.nnd = NearestNeighborDistancesInto(c.nnd, positions)

	var speedSum float64
	for _, v := range vels {
		speedSum += v.Len()
	}
	if len(vels) > 0 {
		c.speeds = append(c.speeds, speedSum/float64(len(vels)))
	}

	if tick-c.windowStart+1 < c.windowTicks {
		return WindowStats{}, false
	}

	stats := WindowStats{
		WindowStartTick: c.windowStart,
		WindowEndTick:   tick,
		BoidCount:       len(positions),
		PredCount:       predCount,
		Eaten:           c.eaten,
		EatenTotal:      c.eatenTotal,
	}
	stats.PolarizationMean, stats.PolarizationStd = MeanStd(c.polarization)
	stats.MillingMean, stats.MillingStd = MeanStd(c.milling)
	stats.SpeedMean, _ = MeanStd(c.speeds)

	if len(c.nnd) > 0 {
		sort.Float64s(c.nnd)
		stats.NNDMean = stat.Mean(c.nnd, nil)
		stats.NNDP10 = stat.Quantile(0.10, stat.Empirical, c.nnd, nil)
		stats.NNDP50 = stat.Quantile(0.50, stat.Empirical, c.nnd, nil)
		stats.NNDP90 = stat.Quantile(0.90, stat.Empirical, c.nnd, nil)
	}

	c.reset(tick + 1)
	return stats, true
}

func (c *Collector) reset(windowStart int) {
	c.windowStart = windowStart
	c.polarization = c.polarization[:0]
	c.milling = c.milling[:0]
	c.speeds = c.speeds[:0]
	c.nnd = c.nnd[:0]
	c.eaten = 0
}
