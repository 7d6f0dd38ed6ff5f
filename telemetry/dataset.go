package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Observation is one row of a reference metrics dataset exported from
// tracked fish recordings. Frames without a valid track carry NaN and
// are skipped by the accessors.
type Observation struct {
	Frame        int     `csv:"frame"`
	NND          float64 `csv:"nnd"`
	Polarization float64 `csv:"polarization"`
	Bearing      float64 `csv:"bearing"`
}

// LoadObservations reads a reference dataset CSV.
func LoadObservations(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var obs []Observation
	if err := gocsv.UnmarshalFile(f, &obs); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	return obs, nil
}

// NNDs extracts the finite nearest-neighbor distances from a dataset.
func NNDs(obs []Observation) []float64 {
	return column(obs, func(o Observation) float64 { return o.NND })
}

// Polarizations extracts the finite polarization samples from a dataset.
func Polarizations(obs []Observation) []float64 {
	return column(obs, func(o Observation) float64 { return o.Polarization })
}

// Bearings extracts the finite body-frame bearing samples from a dataset.
func Bearings(obs []Observation) []float64 {
	return column(obs, func(o Observation) float64 { return o.Bearing })
}

func column(obs []Observation, get func(Observation) float64) []float64 {
	out := make([]float64, 0, len(obs))
	for _, o := range obs {
		v := get(o)
		if v == v { // skip NaN
			out = append(out, v)
		}
	}
	return out
}
