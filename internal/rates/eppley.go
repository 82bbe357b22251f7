package rates

import "math"

// ExtendedEppley is the quadratic-truncated exponential of Eppley (1972),
// extended with allometric scaling (Bernhardt et al. 2018):
//
//	rate = mass^beta * a * exp(b*(T-273.15)) * (1 - ((T-273.15-z)/(w/2))^2)
//
// The quadratic window truncates the exponential envelope; outside the
// thermal window the rate is zero, never negative.
type ExtendedEppley struct {
	Maxrate0 float64 // a: rate at 0 degrees C for unit mass
	Exponent float64 // b: exponential envelope slope per degree C
	TOpt     float64 // z: optimum temperature, degrees C
	Range    float64 // w: thermal window width, degrees C
	Beta     PerRole
}

// EppleyConfig carries the coefficients for an ExtendedEppley model.
type EppleyConfig struct {
	Maxrate0 float64
	Exponent float64
	TOpt     float64
	Range    float64
	Beta     PerRole
}

func NewExtendedEppley(cfg EppleyConfig) *ExtendedEppley {
	return &ExtendedEppley{
		Maxrate0: cfg.Maxrate0,
		Exponent: cfg.Exponent,
		TOpt:     cfg.TOpt,
		Range:    cfg.Range,
		Beta:     cfg.Beta,
	}
}

// DefaultEppleyGrowth returns the producer growth coefficients fitted by
// Eppley (1972) for phytoplankton: a = 0.81, b = 0.0631, optimum 18 C over
// a 35 degree window.
func DefaultEppleyGrowth() EppleyConfig {
	return EppleyConfig{
		Maxrate0: 0.81,
		Exponent: 0.0631,
		TOpt:     18.0,
		Range:    35.0,
		Beta:     Uniform(-0.25),
	}
}

// DefaultEppleyMetabolism returns metabolism coefficients on the same
// envelope, rescaled to the metabolic normalization of Ehnes et al. (2011).
func DefaultEppleyMetabolism() EppleyConfig {
	return EppleyConfig{
		Maxrate0: 0.2,
		Exponent: 0.0631,
		TOpt:     18.0,
		Range:    35.0,
		Beta:     PerRole{-0.25, -0.31, -0.31},
	}
}

func (m *ExtendedEppley) Rate(mass, temp float64, role Role) float64 {
	tc := temp - ZeroCelsius
	dev := (tc - m.TOpt) / (m.Range / 2)
	window := 1 - dev*dev
	if window <= 0 {
		return 0
	}
	return math.Pow(mass, m.Beta.For(role)) * m.Maxrate0 * math.Exp(m.Exponent*tc) * window
}
