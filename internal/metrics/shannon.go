package metrics

import (
	"math"

	"github.com/ecodyn/bioweb/internal/sim"
)

// Shannon reports the Shannon diversity of the final observed biomass
// distribution, normalized to [0, 1] by log(S).
type Shannon struct {
	species int
	last    []float64
}

func NewShannon(species int) *Shannon {
	return &Shannon{species: species}
}

func (s *Shannon) Name() string { return "shannon" }

func (s *Shannon) Observe(x sim.State, t float64) {
	if s.last == nil {
		s.last = make([]float64, s.species)
	}
	for i := 0; i < s.species && i < len(x); i++ {
		s.last[i] = x[i]
	}
}

func (s *Shannon) Value() float64 {
	if s.last == nil || s.species < 2 {
		return 0
	}
	total := 0.0
	for _, b := range s.last {
		if b > 0 {
			total += b
		}
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, b := range s.last {
		if b <= 0 {
			continue
		}
		p := b / total
		h -= p * math.Log(p)
	}
	return h / math.Log(float64(s.species))
}

func (s *Shannon) Reset() {
	s.last = nil
}
