// Package metrics provides community-level observables computed online
// over a simulation run, behind the [sim.Metric] interface.
package metrics

import "github.com/ecodyn/bioweb/internal/sim"

// Persistence tracks the fraction of species still extant at the last
// observed state. A species counts as extant while its biomass exceeds
// the extinction threshold.
type Persistence struct {
	species   int
	threshold float64
	extant    int
	observed  bool
}

func NewPersistence(species int, threshold float64) *Persistence {
	return &Persistence{species: species, threshold: threshold}
}

func (p *Persistence) Name() string { return "persistence" }

func (p *Persistence) Observe(x sim.State, t float64) {
	extant := 0
	for i := 0; i < p.species && i < len(x); i++ {
		if x[i] > p.threshold {
			extant++
		}
	}
	p.extant = extant
	p.observed = true
}

func (p *Persistence) Value() float64 {
	if !p.observed || p.species == 0 {
		return 0
	}
	return float64(p.extant) / float64(p.species)
}

func (p *Persistence) Reset() {
	p.extant = 0
	p.observed = false
}
