package integrators

import (
	"math"
	"testing"

	"github.com/ecodyn/bioweb/internal/sim"
)

// logistic growth has the closed form x(t) = x0*e^t / (1 + x0*(e^t - 1)).
type logisticDynamics struct{}

func (l *logisticDynamics) Derive(x sim.State, t float64) sim.State {
	return sim.State{x[0] * (1 - x[0])}
}

func (l *logisticDynamics) Dim() int { return 1 }

func logisticExact(x0, t float64) float64 {
	et := math.Exp(t)
	return x0 * et / (1 + x0*(et-1))
}

func integrate(stepper sim.Integrator, x0 float64, dt float64, steps int) float64 {
	dyn := &logisticDynamics{}
	x := sim.State{x0}
	t := 0.0
	for i := 0; i < steps; i++ {
		x = stepper.Step(dyn, x, t, dt)
		t += dt
	}
	return x[0]
}

func TestEulerConverges(t *testing.T) {
	exact := logisticExact(0.1, 5.0)

	coarse := math.Abs(integrate(NewEuler(), 0.1, 0.01, 500) - exact)
	fine := math.Abs(integrate(NewEuler(), 0.1, 0.001, 5000) - exact)

	if coarse > 0.01 {
		t.Errorf("euler error %g too large at dt=0.01", coarse)
	}
	// First-order method: error should shrink roughly linearly with dt.
	if fine > coarse/5 {
		t.Errorf("euler error did not shrink with dt: %g vs %g", fine, coarse)
	}
}

func TestRK4Accuracy(t *testing.T) {
	exact := logisticExact(0.1, 5.0)
	got := integrate(NewRK4(), 0.1, 0.01, 500)

	if err := math.Abs(got - exact); err > 1e-9 {
		t.Errorf("rk4 error %g exceeds 1e-9", err)
	}
}

func TestRK4BeatsEuler(t *testing.T) {
	exact := logisticExact(0.1, 5.0)

	eulerErr := math.Abs(integrate(NewEuler(), 0.1, 0.01, 500) - exact)
	rk4Err := math.Abs(integrate(NewRK4(), 0.1, 0.01, 500) - exact)

	if rk4Err >= eulerErr {
		t.Errorf("rk4 error %g not below euler error %g", rk4Err, eulerErr)
	}
}

func TestRK45FixedStep(t *testing.T) {
	exact := logisticExact(0.1, 5.0)
	got := integrate(NewRK45(), 0.1, 0.01, 500)

	if err := math.Abs(got - exact); err > 1e-9 {
		t.Errorf("rk45 error %g exceeds 1e-9", err)
	}
}

func TestRK45AdaptiveStepControl(t *testing.T) {
	dyn := &logisticDynamics{}
	stepper := NewRK45()

	// Near the inflection point a loose tolerance lets the step grow, a
	// tight one holds it back.
	x := sim.State{0.5}
	_, dtLoose, err := stepper.StepAdaptive(dyn, x, 0, 0.1, 1e-3)
	if err != nil {
		t.Fatalf("StepAdaptive failed: %v", err)
	}
	_, dtTight, err := stepper.StepAdaptive(dyn, x, 0, 0.1, 1e-12)
	if err != nil {
		t.Fatalf("StepAdaptive failed: %v", err)
	}

	if dtLoose <= 0 || dtTight <= 0 {
		t.Fatalf("proposed steps must be positive: %g, %g", dtLoose, dtTight)
	}
	if dtTight >= dtLoose {
		t.Errorf("tight tolerance should propose the smaller step: %g >= %g", dtTight, dtLoose)
	}
}

func BenchmarkRK4Step(b *testing.B) {
	dyn := &logisticDynamics{}
	stepper := NewRK4()
	x := sim.State{0.1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = stepper.Step(dyn, x, 0, 0.01)
	}
}
