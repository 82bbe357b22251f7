package foodweb

import (
	"math"
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ecodyn/bioweb/internal/sim"
)

// three-species chain: 0 eats 1, 1 eats 2, 2 is the sole producer.
func chainWeb() [][]bool {
	return [][]bool{
		{false, true, false},
		{false, false, true},
		{false, false, false},
	}
}

func mustParams(web [][]bool, cfg Config) *Params {
	p, err := NewParams(web, cfg)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Derive", func() {
	It("decomposes into growth plus gain minus loss", func() {
		m := New(mustParams(chainWeb(), Config{}))
		b := sim.State{0.5, 0.6, 0.8}

		got := m.Derive(b, 0)

		gain, loss := m.consumption(b)
		net, _ := m.growth(b, [NumNutrients]float64{})
		for i := 0; i < 3; i++ {
			Expect(got[i]).To(Equal(net[i] + gain[i] - loss[i]))
		}
	})

	It("charges efficiency loss to the resource, not the consumer", func() {
		m := New(mustParams(chainWeb(), Config{}))
		b := sim.State{0.5, 0.6, 0.8}

		gain, loss := m.consumption(b)

		// Each species has exactly one predator, so the resource's loss is
		// the predator's gain inflated by the inverse efficiency.
		p := m.Params()
		Expect(loss[1]).To(BeNumerically("~", gain[0]/p.Efficiency[0][1], 1e-15))
		Expect(loss[2]).To(BeNumerically("~", gain[1]/p.Efficiency[1][2], 1e-15))
		Expect(loss[1]).To(BeNumerically(">=", gain[0]))
		Expect(loss[2]).To(BeNumerically(">=", gain[1]))
	})

	It("applies density-independent mortality to non-producers only", func() {
		m := New(mustParams(chainWeb(), Config{Mortality: 0.2}))
		b := sim.State{0.5, 0.6, 0.8}

		got := m.Derive(b, 0)

		gain, loss := m.consumption(b)
		net, _ := m.growth(b, [NumNutrients]float64{})
		mortality := []float64{0.2 * b[0], 0.2 * b[1], 0}
		for i := 0; i < 3; i++ {
			Expect(got[i]).To(BeNumerically("~", net[i]+gain[i]-loss[i]-mortality[i], 1e-15))
		}
	})

	It("snaps populations stranded just above zero through zero", func() {
		eps := 1e-6
		web := [][]bool{{false}}
		m := New(mustParams(web, Config{ExtinctionEps: eps}))

		// Logistic growth from eps/2 lands the post-step biomass inside
		// (0, eps): growth is positive but second order in B.
		b := sim.State{eps / 2}
		post := b[0] + m.Params().R[0]*(1-b[0]/m.Params().K)*b[0]
		Expect(post).To(BeNumerically(">", 0))
		Expect(post).To(BeNumerically("<", eps))

		got := m.Derive(b, 0)
		Expect(got[0]).To(Equal(-(b[0] + eps)))
	})

	It("zeroes fluxes instead of propagating NaN when no food is available", func() {
		m := New(mustParams(chainWeb(), Config{}))
		b := sim.State{0.5, 0, 0}

		gain, loss := m.consumption(b)
		for i := 0; i < 3; i++ {
			Expect(math.IsNaN(gain[i])).To(BeFalse())
			Expect(math.IsNaN(loss[i])).To(BeFalse())
			Expect(gain[i]).To(BeZero())
			Expect(loss[i]).To(BeZero())
		}

		Expect(m.Derive(b, 0).IsValid()).To(BeTrue())
	})

	It("is idempotent: identical input gives bit-identical output", func() {
		m := New(mustParams(chainWeb(), Config{Interference: 0.8}))
		b := sim.State{0.5, 0.6, 0.8}

		first := m.Derive(b, 0)
		second := m.Derive(b, 0)
		Expect(reflect.DeepEqual(first, second)).To(BeTrue())
	})

	It("never mutates the caller's state", func() {
		m := New(mustParams(chainWeb(), Config{Mode: ModeNutrients}))
		x := make(sim.State, m.Dim())
		copy(x, sim.State{0.5, 0.6, 0.8})
		x[3] = -0.25 // integrator overshoot on a nutrient pool
		x[4] = 2.0
		before := x.Clone()

		out := m.Derive(x, 0)

		Expect(reflect.DeepEqual(x, before)).To(BeTrue())
		Expect(len(out)).To(Equal(m.Dim()))
		Expect(out.IsValid()).To(BeTrue())
	})

	It("appends nutrient derivatives after species entries", func() {
		m := New(mustParams(chainWeb(), Config{Mode: ModeNutrients}))
		Expect(m.Dim()).To(Equal(3 + NumNutrients))
		Expect(m.Populations()).To(Equal(3))

		x := sim.State{0.5, 0.6, 0.8, 5, 5}
		out := m.Derive(x, 0)

		p := m.Params()
		b := []float64(x[:3])
		_, produced := m.growth(b, [NumNutrients]float64{x[3], x[4]})
		uptake := 0.0
		for _, g := range produced {
			uptake += g
		}
		for k := 0; k < NumNutrients; k++ {
			want := p.Turnover*(p.Supply[k]-x[3+k]) - p.Content[k]*uptake
			Expect(out[3+k]).To(BeNumerically("~", want, 1e-15))
		}
	})
})
