package foodweb

import "github.com/ecodyn/bioweb/internal/rates"

// growth computes per-species net production: producer growth under the
// configured limitation regime, consumer respiration loss. It also returns
// the realized producer production vector, which the nutrient pools need
// for uptake accounting.
func (m *Model) growth(b []float64, n [NumNutrients]float64) (net, produced []float64) {
	p := m.p
	s := p.S
	net = make([]float64, s)
	produced = make([]float64, s)

	producerBiomass := 0.0
	numProducers := 0
	if p.Mode == ModeSystem || p.Mode == ModeCompetitive {
		for i := 0; i < s; i++ {
			if p.Roles[i] == rates.Producer {
				producerBiomass += b[i]
				numProducers++
			}
		}
	}

	for i := 0; i < s; i++ {
		if p.Roles[i] != rates.Producer {
			net[i] = -p.X[i] * b[i]
			continue
		}

		var g float64
		switch p.Mode {
		case ModeSpecies:
			g = 1 - b[i]/p.K
		case ModeSystem:
			kEff := p.K / float64(numProducers)
			g = 1 - b[i]/kEff
		case ModeCompetitive:
			competeWith := b[i] + p.Alpha*(producerBiomass-b[i])
			g = 1 - competeWith/p.K
		case ModeNutrients:
			g = m.liebig(i, n)
		}

		produced[i] = p.R[i] * g * b[i]
		net[i] = produced[i]
		if p.Mode == ModeNutrients {
			// Producers respire only when production is nutrient-funded.
			net[i] -= p.X[i] * b[i]
		}
	}

	return net, produced
}

// liebig returns the growth multiplier for producer i under colimitation:
// the minimum of the Monod terms over the nutrient pools.
func (m *Model) liebig(i int, n [NumNutrients]float64) float64 {
	p := m.p
	limit := n[0] / (p.NutrientHalf[0][i] + n[0])
	for k := 1; k < NumNutrients; k++ {
		l := n[k] / (p.NutrientHalf[k][i] + n[k])
		if l < limit {
			limit = l
		}
	}
	return limit
}
