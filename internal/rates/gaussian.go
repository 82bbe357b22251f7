package rates

import "math"

// Gaussian is the (inverted-)Gaussian thermal response of Amarasekare
// (2015):
//
//	rate = mass^beta * p0 * exp(+/- (T-TOpt)^2 / (2*Width^2))
//
// Hump-shaped (negative exponent) for growth and metabolism; set Inverted
// for the U-shaped form used for handling times, which are shortest at the
// thermal optimum.
type Gaussian struct {
	Scale    PerRole // p0: rate at the optimum
	TOpt     PerRole // Kelvin
	Width    PerRole // s: standard deviation of the response, Kelvin
	Beta     PerRole
	Inverted bool
}

// GaussianConfig carries the coefficients for a Gaussian model.
type GaussianConfig struct {
	Scale    PerRole
	TOpt     PerRole
	Width    PerRole
	Beta     PerRole
	Inverted bool
}

func NewGaussian(cfg GaussianConfig) *Gaussian {
	return &Gaussian{
		Scale:    cfg.Scale,
		TOpt:     cfg.TOpt,
		Width:    cfg.Width,
		Beta:     cfg.Beta,
		Inverted: cfg.Inverted,
	}
}

// DefaultGaussianGrowth returns hump-shaped producer growth coefficients
// centered on 20 C.
func DefaultGaussianGrowth() GaussianConfig {
	return GaussianConfig{
		Scale: Uniform(0.5),
		TOpt:  Uniform(293.15),
		Width: Uniform(20),
		Beta:  Uniform(-0.25),
	}
}

// DefaultGaussianMetabolism returns hump-shaped metabolic coefficients:
// the Brose et al. (2006) allometric constants at the optimum, falling off
// to either side.
func DefaultGaussianMetabolism() GaussianConfig {
	return GaussianConfig{
		Scale: PerRole{0.138, 0.314, 0.88},
		TOpt:  Uniform(293.15),
		Width: Uniform(20),
		Beta:  PerRole{-0.25, -0.31, -0.31},
	}
}

// DefaultGaussianAttack returns hump-shaped attack-rate coefficients:
// encounter peaks at the consumer's thermal optimum.
func DefaultGaussianAttack() GaussianConfig {
	return GaussianConfig{
		Scale: Uniform(50),
		TOpt:  Uniform(295.15),
		Width: Uniform(20),
		Beta:  Uniform(0.15),
	}
}

// DefaultGaussianHandling returns the inverted (U-shaped) form for
// handling times, shortest at the optimum.
func DefaultGaussianHandling() GaussianConfig {
	return GaussianConfig{
		Scale:    Uniform(0.4),
		TOpt:     Uniform(295.15),
		Width:    Uniform(25),
		Beta:     Uniform(-0.75),
		Inverted: true,
	}
}

func (m *Gaussian) Rate(mass, temp float64, role Role) float64 {
	width := m.Width.For(role)
	dev := temp - m.TOpt.For(role)
	exponent := dev * dev / (2 * width * width)
	if !m.Inverted {
		exponent = -exponent
	}
	return math.Pow(mass, m.Beta.For(role)) * m.Scale.For(role) * math.Exp(exponent)
}
