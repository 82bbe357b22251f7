package rates

import "math"

// NoEffect is pure allometric scaling: rate = a * mass^beta with role-keyed
// coefficients. Temperature is ignored.
type NoEffect struct {
	A    PerRole
	Beta PerRole
}

// NoEffectConfig carries the coefficients for a NoEffect model.
type NoEffectConfig struct {
	A    PerRole
	Beta PerRole
}

func NewNoEffect(cfg NoEffectConfig) *NoEffect {
	return &NoEffect{A: cfg.A, Beta: cfg.Beta}
}

// DefaultNoEffectMetabolism returns the classic mass-specific metabolic
// coefficients of Brose, Williams & Martinez (2006).
func DefaultNoEffectMetabolism() NoEffectConfig {
	return NoEffectConfig{
		A:    PerRole{0.138, 0.314, 0.88},
		Beta: Uniform(-0.25),
	}
}

// DefaultNoEffectGrowth returns a unit intrinsic growth rate for producers;
// the growth slot is never evaluated for consumers.
func DefaultNoEffectGrowth() NoEffectConfig {
	return NoEffectConfig{
		A:    Uniform(1.0),
		Beta: Uniform(-0.25),
	}
}

// DefaultNoEffectAttack returns temperature-independent attack-rate
// coefficients for the classical functional response. The resource-mass
// exponent follows Rall et al. (2012); the consumer side is contributed by
// [AttackConsumerBeta] when the per-link matrix is materialized.
func DefaultNoEffectAttack() NoEffectConfig {
	return NoEffectConfig{
		A:    Uniform(50),
		Beta: Uniform(0.15),
	}
}

// DefaultNoEffectHandling returns temperature-independent handling-time
// coefficients: handling shrinks with both consumer and resource mass.
func DefaultNoEffectHandling() NoEffectConfig {
	return NoEffectConfig{
		A:    Uniform(0.3),
		Beta: Uniform(-0.66),
	}
}

func (m *NoEffect) Rate(mass, _ float64, role Role) float64 {
	return m.A.For(role) * math.Pow(mass, m.Beta.For(role))
}
