// Package sim provides core primitives for integrating dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for autonomous ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Simulator]: orchestrates simulation runs
//   - [Ensemble]: parallel runs over a seed range
//
// # Example
//
//	dyn := foodweb.New(web, cfg)
//	integ := integrators.NewRK4()
//	s := sim.New(dyn, integ)
//	result, _ := s.Run(ctx, x0, sim.DefaultConfig())
//
// # Extinctions
//
// Systems implementing [PopulationSystem] get extinction handling: when a
// population entry crosses zero it is clamped to exactly zero and the event
// is recorded in [Result.Extinctions]. The derivative core arranges for
// near-zero populations to cross cleanly rather than linger (see the
// foodweb package), so extinct is a reachable, detectable state.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations, use
// the [Ensemble] type which gives each run its own simulator and state.
package sim
