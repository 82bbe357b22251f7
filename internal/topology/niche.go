// Package topology generates and characterizes food-web structure. The
// derivative core treats the web as a read-only input; everything here
// runs once, before a simulation starts.
package topology

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	maxAttempts          = 1000
	connectanceTolerance = 0.25 // relative deviation accepted before rejection
	trophicIterations    = 50
)

// NicheModel draws a food web from the niche model of Williams & Martinez
// (2000): species are placed on a one-dimensional niche axis and consume
// everything inside a randomly sized interval below their own position.
// Structurally degenerate draws (isolated species, no producers, badly
// missed connectance) are rejected and redrawn.
func NicheModel(s int, connectance float64, seed int64) ([][]bool, error) {
	if s < 2 {
		return nil, fmt.Errorf("topology: need at least 2 species, got %d", s)
	}
	if connectance <= 0 || connectance >= 0.5 {
		return nil, fmt.Errorf("topology: connectance must be in (0, 0.5), got %f", connectance)
	}

	rng := rand.New(rand.NewSource(seed))
	beta := 1/(2*connectance) - 1

	for attempt := 0; attempt < maxAttempts; attempt++ {
		web := drawNicheWeb(s, beta, rng)
		if acceptable(web, connectance) {
			return web, nil
		}
	}
	return nil, fmt.Errorf("topology: no acceptable web after %d draws (S=%d, C=%f)", maxAttempts, s, connectance)
}

func drawNicheWeb(s int, beta float64, rng *rand.Rand) [][]bool {
	niche := make([]float64, s)
	for i := range niche {
		niche[i] = rng.Float64()
	}

	web := make([][]bool, s)
	for i := range web {
		web[i] = make([]bool, s)

		// Range drawn from Beta(1, beta) scaled by the niche value; the
		// species with the lowest niche value is forced to be a basal one.
		r := niche[i] * (1 - math.Pow(1-rng.Float64(), 1/beta))
		if isLowest(niche, i) {
			r = 0
		}
		center := r/2 + rng.Float64()*(niche[i]-r/2)

		for j := 0; j < s; j++ {
			if niche[j] > center-r/2 && niche[j] < center+r/2 {
				web[i][j] = true
			}
		}
	}
	return web
}

func isLowest(niche []float64, i int) bool {
	for j, v := range niche {
		if j != i && v < niche[i] {
			return false
		}
	}
	return true
}

func acceptable(web [][]bool, target float64) bool {
	s := len(web)
	producers := 0
	for i := 0; i < s; i++ {
		prey, predators := false, false
		for j := 0; j < s; j++ {
			if web[i][j] {
				prey = true
			}
			if web[j][i] {
				predators = true
			}
		}
		if !prey {
			producers++
		}
		if !prey && !predators {
			return false // isolated species
		}
	}
	if producers == 0 {
		return false
	}
	c := Connectance(web)
	return math.Abs(c-target)/target <= connectanceTolerance
}

// Connectance is the realized link density L/S^2.
func Connectance(web [][]bool) float64 {
	s := len(web)
	links := 0
	for i := range web {
		for j := range web[i] {
			if web[i][j] {
				links++
			}
		}
	}
	return float64(links) / float64(s*s)
}

// TrophicLevels computes prey-averaged trophic levels: producers sit at 1,
// consumers one above the mean level of their prey. Solved by fixed-point
// iteration, which also converges on webs with feeding loops.
func TrophicLevels(web [][]bool) []float64 {
	s := len(web)
	tl := make([]float64, s)
	for i := range tl {
		tl[i] = 1
	}

	for iter := 0; iter < trophicIterations; iter++ {
		for i := 0; i < s; i++ {
			sum, prey := 0.0, 0
			for j := 0; j < s; j++ {
				if web[i][j] {
					sum += tl[j]
					prey++
				}
			}
			if prey > 0 {
				tl[i] = 1 + sum/float64(prey)
			}
		}
	}
	return tl
}

// BodyMasses assigns each species a body mass Z^(level-1): mass grows by a
// constant consumer-resource ratio Z per trophic level, normalized to the
// smallest producer.
func BodyMasses(web [][]bool, z float64) []float64 {
	tl := TrophicLevels(web)
	masses := make([]float64, len(tl))
	for i, l := range tl {
		masses[i] = math.Pow(z, l-1)
	}
	return masses
}
