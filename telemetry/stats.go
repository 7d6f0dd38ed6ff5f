// Package telemetry computes schooling metrics and writes experiment
// output.
package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pelagiclab/shoal/geom"
)

// WindowStats holds schooling metrics aggregated over a time window.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`

	// Population counts at window end
	BoidCount int `csv:"boids"`
	PredCount int `csv:"preds"`

	// Consumption events
	Eaten      int `csv:"eaten"`
	EatenTotal int `csv:"eaten_total"`

	// Order parameters, sampled once per tick
	PolarizationMean float64 `csv:"polarization_mean"`
	PolarizationStd  float64 `csv:"polarization_std"`
	MillingMean      float64 `csv:"milling_mean"`
	MillingStd       float64 `csv:"milling_std"`

	// Nearest-neighbor distance distribution over all window samples
	NNDMean float64 `csv:"nnd_mean"`
	NNDP10  float64 `csv:"nnd_p10"`
	NNDP50  float64 `csv:"nnd_p50"`
	NNDP90  float64 `csv:"nnd_p90"`

	SpeedMean float64 `csv:"speed_mean"`
}

// Polarization measures group alignment as the magnitude of the mean
// unit velocity: 1 for a perfectly aligned school, near 0 for a
// disordered one. Returns 0 for an empty group.
func Polarization(vels []geom.Vec) float64 {
	if len(vels) == 0 {
		return 0
	}
	var sum geom.Vec
	for _, v := range vels {
		sum = sum.Add(v.Norm())
	}
	return sum.Len() / float64(len(vels))
}

// MillingIndex measures rotation around the group barycenter as the
// magnitude of the mean sine of the angle between each agent's bearing
// from the barycenter and its heading: near 1 when the school mills,
// near 0 when it translates. Returns 0 for fewer than two agents.
func MillingIndex(positions, vels []geom.Vec) float64 {
	n := len(positions)
	if n < 2 {
		return 0
	}

	var center geom.Vec
	for _, p := range positions {
		center = center.Add(p)
	}
	center = center.Scale(1 / float64(n))

	var sum float64
	for i := range positions {
		radial := positions[i].Sub(center)
		if radial.LenSq() == 0 || vels[i].LenSq() == 0 {
			continue
		}
		phi := math.Atan2(radial.Y, radial.X)
		theta := vels[i].Heading()
		sum += math.Sin(theta - phi)
	}
	return math.Abs(sum / float64(n))
}

// NearestNeighborDistancesInto appends each agent's distance to its
// nearest neighbor to dst and returns the updated slice. O(n^2); fine
// at school sizes, and exact.
func NearestNeighborDistancesInto(dst []float64, positions []geom.Vec) []float64 {
	n := len(positions)
	if n < 2 {
		return dst
	}
	for i := 0; i < n; i++ {
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d := positions[i].Sub(positions[j]).LenSq()
			if d < best {
				best = d
			}
		}
		dst = append(dst, math.Sqrt(best))
	}
	return dst
}

// NearestNeighborBearingsInto appends each agent's body-frame bearing
// to its nearest neighbor (signed angle from the heading, radians) to
// dst and returns the updated slice. Used to compare the simulated
// school's spatial anisotropy against tracked recordings.
func NearestNeighborBearingsInto(dst []float64, positions, vels []geom.Vec) []float64 {
	n := len(positions)
	if n < 2 {
		return dst
	}
	for i := 0; i < n; i++ {
		best := math.Inf(1)
		bestJ := -1
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d := positions[i].Sub(positions[j]).LenSq()
			if d < best {
				best = d
				bestJ = j
			}
		}
		offset := positions[bestJ].Sub(positions[i])
		dst = append(dst, vels[i].AngleTo(offset))
	}
	return dst
}

// MeanStd returns the mean and standard deviation of xs, or zeros for
// an empty slice.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		std = stat.StdDev(xs, nil)
	}
	return mean, std
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("boids", s.BoidCount),
		slog.Int("preds", s.PredCount),
		slog.Int("eaten", s.Eaten),
		slog.Int("eaten_total", s.EatenTotal),
		slog.Float64("polarization_mean", s.PolarizationMean),
		slog.Float64("polarization_std", s.PolarizationStd),
		slog.Float64("milling_mean", s.MillingMean),
		slog.Float64("milling_std", s.MillingStd),
		slog.Float64("nnd_mean", s.NNDMean),
		slog.Float64("nnd_p10", s.NNDP10),
		slog.Float64("nnd_p50", s.NNDP50),
		slog.Float64("nnd_p90", s.NNDP90),
		slog.Float64("speed_mean", s.SpeedMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"boids", s.BoidCount,
		"preds", s.PredCount,
		"eaten", s.Eaten,
		"eaten_total", s.EatenTotal,
		"polarization_mean", s.PolarizationMean,
		"milling_mean", s.MillingMean,
		"nnd_mean", s.NNDMean,
		"nnd_p50", s.NNDP50,
		"speed_mean", s.SpeedMean,
	)
}
