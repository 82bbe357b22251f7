package sim

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn       System
	stepper   Integrator
	metrics   []Metric
	observers []Observer
}

func New(dyn System, stepper Integrator) *Simulator {
	return &Simulator{
		dyn:       dyn,
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.Dim() {
		return nil, ErrDimensionMismatch
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:      make([]State, 0, steps+1),
		Times:       make([]float64, 0, steps+1),
		Metrics:     make(map[string]float64),
		Extinctions: make([]Extinction, 0),
		Errors:      make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	populations := 0
	if ps, ok := s.dyn.(PopulationSystem); ok {
		populations = ps.Populations()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for step := 0; ; step++ {
		// Adaptive runs terminate on elapsed time, not a step count: the
		// step size grows and shrinks as it goes.
		if cfg.Adaptive {
			if cfg.Duration-t <= cfg.MinDt {
				break
			}
		} else if step >= steps {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		var newX State
		var stepErr error
		dtUsed := dt

		if cfg.Adaptive {
			if t+dt > cfg.Duration {
				dt = cfg.Duration - t
			}
			// The step controller proposes the NEXT step size; the clock
			// advances by the size actually integrated.
			newX, dtUsed, dt, stepErr = s.adaptiveStep(x, t, dt, cfg)
		} else {
			newX = s.stepper.Step(s.dyn, x, t, dt)
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, &StepError{Step: step, Time: t, Wrapped: stepErr})
		}

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, &StepError{Step: step, Time: t, Wrapped: ErrInvalidState})
			break
		}

		// A population that crossed zero is clamped to exactly zero and
		// stays there; the event is recorded once.
		for j := 0; j < populations; j++ {
			if newX[j] <= 0 {
				if x[j] > 0 {
					result.Extinctions = append(result.Extinctions, Extinction{Species: j, Time: t + dtUsed})
				}
				newX[j] = 0
			}
		}

		x = newX
		t += dtUsed
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive {
		if cfg.Tolerance <= 0 {
			return fmt.Errorf("tolerance must be positive for adaptive stepping")
		}
		if cfg.MinDt <= 0 || cfg.MaxDt < cfg.MinDt {
			return fmt.Errorf("adaptive stepping needs 0 < min dt <= max dt, got [%g, %g]", cfg.MinDt, cfg.MaxDt)
		}
	}
	return nil
}

// adaptiveStep advances one accepted step. It returns the new state, the
// step size actually integrated, and the proposed size for the next step;
// the two sizes differ whenever the controller grows or shrinks the step.
func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.stepper.(AdaptiveIntegrator); ok {
		newX, dtNext, err := adaptive.StepAdaptive(s.dyn, x, t, dt, cfg.Tolerance)
		if dtNext < cfg.MinDt {
			return newX, dt, cfg.MinDt, ErrStepTooSmall
		}
		if dtNext > cfg.MaxDt {
			dtNext = cfg.MaxDt
		}
		return newX, dt, dtNext, err
	}

	// Step-doubling fallback for fixed-step integrators.
	x1 := s.stepper.Step(s.dyn, x, t, dt)
	xHalf := s.stepper.Step(s.dyn, x, t, dt/2)
	x2 := s.stepper.Step(s.dyn, xHalf, t+dt/2, dt/2)

	est := x1.Sub(x2).Norm()

	if est > cfg.Tolerance && dt > cfg.MinDt {
		return s.adaptiveStep(x, t, dt/2, cfg)
	}

	dtNext := dt
	if est < cfg.Tolerance/10 && dt < cfg.MaxDt {
		dtNext = math.Min(dt*2, cfg.MaxDt)
	}

	return x2, dt, dtNext, nil
}

// RunWithCallback integrates without recording the trajectory, invoking
// callback each step; a false return stops the run.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	populations := 0
	if ps, ok := s.dyn.(PopulationSystem); ok {
		populations = ps.Populations()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		x = s.stepper.Step(s.dyn, x, t, dt)
		for j := 0; j < populations; j++ {
			if x[j] < 0 {
				x[j] = 0
			}
		}
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f: %w", t, ErrInvalidState)
		}
	}

	return nil
}
