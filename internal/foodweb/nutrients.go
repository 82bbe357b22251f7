package foodweb

// nutrientFlux computes the turnover of the explicit nutrient pools:
// chemostat relaxation toward the supply concentration, minus drawdown
// proportional to total realized producer production.
func (m *Model) nutrientFlux(n [NumNutrients]float64, produced []float64) [NumNutrients]float64 {
	p := m.p

	uptake := 0.0
	for _, g := range produced {
		uptake += g
	}

	var dn [NumNutrients]float64
	for k := 0; k < NumNutrients; k++ {
		dn[k] = p.Turnover*(p.Supply[k]-n[k]) - p.Content[k]*uptake
	}
	return dn
}

// clampNutrients copies the trailing nutrient entries of the state,
// flooring negatives at zero. A concentration cannot be negative; an
// adaptive integrator may overshoot. The caller's state is never touched.
func clampNutrients(x []float64, s int) [NumNutrients]float64 {
	var n [NumNutrients]float64
	for k := 0; k < NumNutrients; k++ {
		v := x[s+k]
		if v < 0 {
			v = 0
		}
		n[k] = v
	}
	return n
}
