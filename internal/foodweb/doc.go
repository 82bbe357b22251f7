// Package foodweb implements the bioenergetic consumer-resource model of
// Yodzis & Innes (1992) as an autonomous ODE system.
//
// A [Model] wraps an immutable [Params] bundle (topology, roles, rate
// vectors and matrices) and implements [sim.System]: each Derive call maps
// the current biomass state to dB/dt by combining producer growth,
// multi-resource consumption with a saturating functional response, and
// optional chemostat nutrient dynamics.
//
// The functional response comes in two parameterizations: the bioenergetic
// one (maximum consumption relative to metabolism, half-saturation density)
// and the classical one (per-link attack rates and handling times,
// materialized from a [rates.Model] pair at construction).
//
// # Failure semantics
//
// Structural problems (malformed web, unknown productivity mode, length
// mismatches) fail loudly in [New]. The derivative path never returns an
// error and never panics on a correctly-shaped state: numerical degeneracy
// (0/0 in the functional response) collapses to zero, negative nutrient
// concentrations are clamped on a local copy, and populations about to
// stall just above zero are forced cleanly through it so the simulation
// loop can detect extinction. The external integrator calls Derive
// thousands of times per trajectory and cannot tolerate interrupts; do not
// turn these recoveries into errors.
package foodweb
