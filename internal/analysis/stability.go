// Package analysis provides post-hoc statistics over completed simulation
// trajectories.
package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ecodyn/bioweb/internal/sim"
)

// SpeciesCV returns the per-species coefficient of variation of biomass
// over the trailing fraction of the trajectory (tail in (0, 1]). Extinct
// species (zero mean) report zero.
func SpeciesCV(states []sim.State, species int, tail float64) []float64 {
	cv := make([]float64, species)
	if len(states) == 0 {
		return cv
	}
	if tail <= 0 || tail > 1 {
		tail = 1
	}
	start := int(float64(len(states)) * (1 - tail))

	series := make([]float64, 0, len(states)-start)
	for i := 0; i < species; i++ {
		series = series[:0]
		for _, x := range states[start:] {
			if i < len(x) {
				series = append(series, x[i])
			}
		}
		mean, std := stat.MeanStdDev(series, nil)
		if mean > 0 {
			cv[i] = std / mean
		}
	}
	return cv
}

// PopulationStability is the ecology-literature convention: the negated
// mean coefficient of variation over extant species. Closer to zero means
// steadier populations.
func PopulationStability(states []sim.State, species int, tail float64) float64 {
	cv := SpeciesCV(states, species, tail)
	extant := cv[:0:0]
	for _, v := range cv {
		if v > 0 {
			extant = append(extant, v)
		}
	}
	if len(extant) == 0 {
		return 0
	}
	return -stat.Mean(extant, nil)
}

// CommunityCV is the coefficient of variation of total community biomass
// over the trailing fraction of the trajectory.
func CommunityCV(states []sim.State, species int, tail float64) float64 {
	if len(states) == 0 {
		return 0
	}
	if tail <= 0 || tail > 1 {
		tail = 1
	}
	start := int(float64(len(states)) * (1 - tail))

	totals := make([]float64, 0, len(states)-start)
	for _, x := range states[start:] {
		n := species
		if n > len(x) {
			n = len(x)
		}
		totals = append(totals, floats.Sum(x[:n]))
	}
	mean, std := stat.MeanStdDev(totals, nil)
	if mean <= 0 {
		return 0
	}
	return std / mean
}
