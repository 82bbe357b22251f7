package sim

import (
	"context"
	"math"
	"testing"
)

type decayDynamics struct{}

func (d *decayDynamics) Derive(x State, t float64) State {
	return State{-x[0]}
}

func (d *decayDynamics) Dim() int { return 1 }

type eulerStepper struct{}

func (e *eulerStepper) Step(dyn System, x State, t float64, dt float64) State {
	dx := dyn.Derive(x, t)
	result := make(State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

func TestSimulatorRun(t *testing.T) {
	s := New(&decayDynamics{}, &eulerStepper{})

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
	}

	x0 := State{1.0}
	result, err := s.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	finalState := result.States[len(result.States)-1][0]
	expected := 1.0 * math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&decayDynamics{}, &eulerStepper{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0 := State{1.0}
			_, err := s.Run(context.Background(), x0, tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	s := New(&decayDynamics{}, &eulerStepper{})
	_, err := s.Run(context.Background(), State{1, 2}, Config{Dt: 0.1, Duration: 1})
	if err != ErrDimensionMismatch {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

// crashDynamics drives its single population below zero in one step.
type crashDynamics struct{}

func (c *crashDynamics) Derive(x State, t float64) State { return State{-10} }
func (c *crashDynamics) Dim() int                        { return 1 }
func (c *crashDynamics) Populations() int                { return 1 }

func TestSimulatorRecordsExtinction(t *testing.T) {
	s := New(&crashDynamics{}, &eulerStepper{})

	result, err := s.Run(context.Background(), State{0.5}, Config{Dt: 0.1, Duration: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Extinctions) != 1 {
		t.Fatalf("expected 1 extinction, got %d", len(result.Extinctions))
	}
	if result.Extinctions[0].Species != 0 {
		t.Errorf("wrong species: %d", result.Extinctions[0].Species)
	}

	final := result.States[len(result.States)-1]
	if final[0] != 0 {
		t.Errorf("extinct population should be clamped to zero, got %g", final[0])
	}
}

// clockDynamics integrates dx/dt = 1: the state is exactly the elapsed
// time, regardless of step size, so any mismatch between recorded times
// and states exposes clock drift.
type clockDynamics struct{}

func (c *clockDynamics) Derive(x State, t float64) State { return State{1} }
func (c *clockDynamics) Dim() int                        { return 1 }

// greedyAdaptive accepts every step and proposes one ten times larger.
type greedyAdaptive struct {
	eulerStepper
}

func (g *greedyAdaptive) StepAdaptive(dyn System, x State, t, dt, tol float64) (State, float64, error) {
	return g.Step(dyn, x, t, dt), dt * 10, nil
}

func adaptiveClockConfig() Config {
	return Config{
		Dt:        0.01,
		Duration:  1.0,
		Adaptive:  true,
		Tolerance: 1e-6,
		MaxDt:     0.2,
		MinDt:     1e-8,
	}
}

func checkClockAlignment(t *testing.T, result *Result) {
	t.Helper()
	for i := range result.States {
		if math.Abs(result.States[i][0]-result.Times[i]) > 1e-9 {
			t.Fatalf("state %g drifted from its recorded time %g at sample %d",
				result.States[i][0], result.Times[i], i)
		}
	}
	final := result.Times[len(result.Times)-1]
	if math.Abs(final-1.0) > 1e-6 {
		t.Errorf("run ended at t=%g, want 1.0", final)
	}
}

func TestAdaptiveStepDoublingKeepsClock(t *testing.T) {
	s := New(&clockDynamics{}, &eulerStepper{})

	result, err := s.Run(context.Background(), State{0}, adaptiveClockConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	checkClockAlignment(t, result)

	// The constant derivative has zero step-doubling error, so the step
	// must have grown well past the fixed-step count.
	if len(result.States) >= 101 {
		t.Errorf("step size never grew: %d samples", len(result.States))
	}
}

func TestAdaptiveProposalDoesNotSkewClock(t *testing.T) {
	s := New(&clockDynamics{}, &greedyAdaptive{})

	result, err := s.Run(context.Background(), State{0}, adaptiveClockConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// The first step integrates dt=0.01 while the controller proposes 0.1;
	// the clock must advance by the integrated size.
	if got := result.Times[1] - result.Times[0]; math.Abs(got-0.01) > 1e-12 {
		t.Errorf("first interval %g, want the integrated 0.01", got)
	}

	checkClockAlignment(t, result)
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(x State, t float64) {
	m.count++
	m.sum += x[0]
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	s := New(&decayDynamics{}, &eulerStepper{})

	metric := &testMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestEnsembleRuns(t *testing.T) {
	e := NewEnsemble(func(seed int64) (System, State, Integrator) {
		return &decayDynamics{}, State{1.0}, &eulerStepper{}
	}, 4, 100)
	e.WithMetrics(func() []Metric { return []Metric{&testMetric{}} })

	results, err := e.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Metrics["test"] == 0 {
			t.Errorf("run %d missing metric value", i)
		}
		if len(r.States) != 11 {
			t.Errorf("run %d: expected 11 states, got %d", i, len(r.States))
		}
	}
}

func TestStateHelpers(t *testing.T) {
	s := State{3, 4}
	if s.Norm() != 5 {
		t.Errorf("norm: got %g, want 5", s.Norm())
	}

	c := s.Clone()
	c[0] = 99
	if s[0] != 3 {
		t.Error("clone aliases the original")
	}

	if !s.IsValid() {
		t.Error("finite state reported invalid")
	}
	if (State{math.NaN()}).IsValid() {
		t.Error("NaN state reported valid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("Inf state reported valid")
	}
}
