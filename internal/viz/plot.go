// Package viz renders simulation trajectories in the terminal: static
// asciigraph plots of stored runs and a live bubbletea view of a running
// simulation.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/ecodyn/bioweb/internal/sim"
)

const (
	plotWidth  = 80
	plotHeight = 10
)

// PlotSpecies renders one time series per species, up to maxPlots, and the
// community total.
func PlotSpecies(states []sim.State, species, maxPlots int) string {
	if len(states) == 0 {
		return "no data"
	}

	var b strings.Builder

	n := species
	if n > maxPlots {
		n = maxPlots
	}

	for i := 0; i < n; i++ {
		series := make([]float64, len(states))
		for k, x := range states {
			if i < len(x) {
				series[k] = x[i]
			}
		}
		b.WriteString(asciigraph.Plot(series,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("species %d biomass", i)),
		))
		b.WriteString("\n\n")
	}

	totals := make([]float64, len(states))
	for k, x := range states {
		m := species
		if m > len(x) {
			m = len(x)
		}
		for i := 0; i < m; i++ {
			totals[k] += x[i]
		}
	}
	b.WriteString(asciigraph.Plot(totals,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("community biomass"),
	))
	b.WriteString("\n")

	return b.String()
}

// PlotNutrients renders the trailing nutrient pool series of a run.
func PlotNutrients(states []sim.State, species, nutrients int) string {
	if len(states) == 0 || nutrients == 0 {
		return ""
	}

	var b strings.Builder
	for k := 0; k < nutrients; k++ {
		series := make([]float64, len(states))
		for i, x := range states {
			if species+k < len(x) {
				series[i] = x[species+k]
			}
		}
		b.WriteString(asciigraph.Plot(series,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("nutrient pool %d", k)),
		))
		b.WriteString("\n\n")
	}
	return b.String()
}
