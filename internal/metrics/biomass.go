package metrics

import "github.com/ecodyn/bioweb/internal/sim"

// TotalBiomass reports the time-averaged community biomass over the run.
type TotalBiomass struct {
	species int
	sum     float64
	samples int
}

func NewTotalBiomass(species int) *TotalBiomass {
	return &TotalBiomass{species: species}
}

func (b *TotalBiomass) Name() string { return "total_biomass" }

func (b *TotalBiomass) Observe(x sim.State, t float64) {
	total := 0.0
	for i := 0; i < b.species && i < len(x); i++ {
		total += x[i]
	}
	b.sum += total
	b.samples++
}

func (b *TotalBiomass) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return b.sum / float64(b.samples)
}

func (b *TotalBiomass) Reset() {
	b.sum = 0
	b.samples = 0
}
