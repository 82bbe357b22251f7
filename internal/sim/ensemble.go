package sim

import (
	"context"
	"sync"
)

// Ensemble runs many independent simulations of the same model family,
// one seed per run. Each run builds its own system and initial state, so
// no parameter bundle or biomass buffer is ever shared between goroutines.
type Ensemble struct {
	build     func(seed int64) (System, State, Integrator)
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

func NewEnsemble(build func(seed int64) (System, State, Integrator), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics registers a factory producing a fresh metric set per run.
func (e *Ensemble) WithMetrics(factory func() []Metric) *Ensemble {
	e.metrics = factory
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			dyn, x0, stepper := e.build(cfgCopy.Seed)
			s := New(dyn, stepper)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, x0, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
