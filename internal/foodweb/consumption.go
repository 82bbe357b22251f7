package foodweb

import "math"

// consumption computes per-species biomass gained through feeding and lost
// to being fed upon, under a multi-resource saturating functional response
// with predator interference.
//
// gain sums over resources of the transfer matrix; loss sums the same
// matrix over consumers, inflated by the inverse assimilation efficiency.
// The asymmetry is intentional: efficiency loss is charged to the resource
// as biomass removed, not to the consumer as biomass assimilated.
func (m *Model) consumption(b []float64) (gain, loss []float64) {
	if m.p.Attack != nil {
		return m.classicConsumption(b)
	}

	p := m.p
	s := p.S
	gain = make([]float64, s)
	loss = make([]float64, s)

	bm := make([]float64, s)
	gammaHill := math.Pow(p.HalfSat, p.Hill)

	for i := 0; i < s; i++ {
		if p.Y[i] == 0 {
			continue
		}

		food := 0.0
		for j := 0; j < s; j++ {
			bm[j] = 0
			if !p.Web[i][j] {
				continue
			}
			bj := b[j]
			if bj < 0 {
				// Adaptive integrators probe negative biomasses mid-step;
				// a fractional Hill exponent would turn those into NaN.
				bj = 0
			}
			v := p.Preference[i][j] * math.Pow(bj, p.Hill)
			if p.Cost != nil {
				v *= p.Cost[i][j]
			}
			bm[j] = v
			food += v
		}

		// Interference inflates the half-saturation as self-density rises.
		fDen := gammaHill*(1+p.Interference[i]*b[i]) + food

		rate := p.X[i] * p.Y[i] * b[i]
		for j := 0; j < s; j++ {
			if bm[j] == 0 {
				continue
			}
			transferred := bm[j] / fDen * rate
			consumed := transferred / p.Efficiency[i][j]
			// 0/0 when fDen and bm are both zero; zero the flux rather
			// than letting NaN reach the integrator.
			if math.IsNaN(transferred) {
				transferred = 0
			}
			if math.IsNaN(consumed) {
				consumed = 0
			}
			gain[i] += transferred
			loss[j] += consumed
		}
	}

	return gain, loss
}

// classicConsumption is the attack-rate/handling-time parameterization of
// the same functional response: encounter is w*a*B^h per link, and
// saturation comes from the summed handling of everything encountered
// instead of a half-saturation density. The loss/gain asymmetry matches
// the bioenergetic path, with loss[j] = gain[i]/efficiency per link.
func (m *Model) classicConsumption(b []float64) (gain, loss []float64) {
	p := m.p
	s := p.S
	gain = make([]float64, s)
	loss = make([]float64, s)

	enc := make([]float64, s)

	for i := 0; i < s; i++ {
		if p.Y[i] == 0 {
			continue
		}

		handled := 0.0
		for j := 0; j < s; j++ {
			enc[j] = 0
			if !p.Web[i][j] {
				continue
			}
			bj := b[j]
			if bj < 0 {
				bj = 0
			}
			v := p.Preference[i][j] * p.Attack[i][j] * math.Pow(bj, p.Hill)
			if p.Cost != nil {
				v *= p.Cost[i][j]
			}
			enc[j] = v
			handled += p.Handling[i][j] * v
		}

		fDen := 1 + p.Interference[i]*b[i] + handled

		for j := 0; j < s; j++ {
			if enc[j] == 0 {
				continue
			}
			extracted := enc[j] / fDen * b[i]
			if math.IsNaN(extracted) {
				extracted = 0
			}
			gain[i] += p.Efficiency[i][j] * extracted
			loss[j] += extracted
		}
	}

	return gain, loss
}
