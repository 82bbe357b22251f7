package foodweb

import "github.com/ecodyn/bioweb/internal/sim"

// Model is the derivative core: an immutable parameter bundle exposed as a
// sim.System. It holds no mutable state, so a single Model may be shared
// by concurrent runs that own their own biomass buffers.
type Model struct {
	p *Params
}

func New(p *Params) *Model {
	return &Model{p: p}
}

// Params returns the underlying bundle.
func (m *Model) Params() *Params { return m.p }

// Dim is the state length: species biomasses, plus the trailing nutrient
// pools under nutrient-limited productivity.
func (m *Model) Dim() int {
	if m.p.Mode == ModeNutrients {
		return m.p.S + NumNutrients
	}
	return m.p.S
}

// Populations reports the leading state entries subject to extinction.
func (m *Model) Populations() int { return m.p.S }

// Derive returns dB/dt for every species (and dN/dt for every nutrient
// pool) at the current state. The time argument is accepted for integrator
// compatibility; the model is autonomous. The result is freshly allocated
// and the input is never mutated.
func (m *Model) Derive(x sim.State, _ float64) sim.State {
	p := m.p
	s := p.S

	b := []float64(x[:s])
	var n [NumNutrients]float64
	if p.Mode == ModeNutrients {
		n = clampNutrients(x, s)
	}

	gain, loss := m.consumption(b)
	net, produced := m.growth(b, n)

	out := make(sim.State, len(x))
	eps := p.ExtinctionEps
	for i := 0; i < s; i++ {
		d := net[i] + gain[i] - loss[i] - p.Mortality[i]*b[i]

		// Extinction forcing: a post-step biomass stranded in (0, eps)
		// may never resolve to exact zero under an adaptive integrator.
		// Snap the trajectory through zero instead so extinction is a
		// reachable, detectable state.
		if post := d + b[i]; post > 0 && post < eps {
			d = -(b[i] + eps)
		}
		out[i] = d
	}

	if p.Mode == ModeNutrients {
		dn := m.nutrientFlux(n, produced)
		for k := 0; k < NumNutrients; k++ {
			out[s+k] = dn[k]
		}
	}

	return out
}
