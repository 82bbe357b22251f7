package rates

import "math"

// Physical constants.
const (
	// Boltzmann constant in eV/K.
	Boltzmann = 8.617e-5

	// ZeroCelsius is 0 degrees Celsius in Kelvin.
	ZeroCelsius = 273.15
)

// Consumer-mass exponents for the per-link rate slots, after the
// cross-ecosystem regressions of Rall et al. (2012): attack rates rise
// with consumer mass, handling times fall.
const (
	AttackConsumerBeta   = 0.45
	HandlingConsumerBeta = -0.48
)

// Model maps body mass and temperature to a biological rate for a given
// metabolic role. Implementations are pure and safe for concurrent use.
type Model interface {
	Rate(mass, temp float64, role Role) float64
}

// VectorOf materializes a per-species rate vector at a fixed temperature.
func VectorOf(m Model, masses []float64, roles []Role, temp float64) []float64 {
	out := make([]float64, len(masses))
	for i, mass := range masses {
		out[i] = m.Rate(mass, temp, roles[i])
	}
	return out
}

// MatrixOf materializes an S x S per-link rate matrix for rates that depend
// on both consumer and resource body mass (attack rates, handling times).
// The thermal response and the allometric exponent are resolved from the
// resource's role; the consumer contributes mass^betaConsumer. Entries with
// no feeding link are left at zero and never evaluated.
func MatrixOf(m Model, masses []float64, roles []Role, web [][]bool, temp, betaConsumer float64) [][]float64 {
	s := len(masses)
	out := make([][]float64, s)
	for i := range out {
		out[i] = make([]float64, s)
		for j := 0; j < s; j++ {
			if !web[i][j] {
				continue
			}
			out[i][j] = math.Pow(masses[i], betaConsumer) * m.Rate(masses[j], temp, roles[j])
		}
	}
	return out
}
