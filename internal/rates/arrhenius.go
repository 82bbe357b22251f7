package rates

import "math"

// BoltzmannArrhenius is the exponential temperature response of metabolic
// theory (Gillooly et al. 2001, Brown et al. 2004):
//
//	rate = exp(c0) * mass^beta * exp(E*(T0-T)/(k*T*T0))
//
// with k the Boltzmann constant and T in Kelvin. At T = T0 the thermal
// term is exactly one.
type BoltzmannArrhenius struct {
	NormConst        PerRole // c0: log-scale normalization
	ActivationEnergy PerRole // E, eV
	T0               float64 // reference temperature, Kelvin
	Beta             PerRole
}

// ArrheniusConfig carries the coefficients for both Arrhenius variants.
type ArrheniusConfig struct {
	NormConst          PerRole
	ActivationEnergy   PerRole
	DeactivationEnergy PerRole // JohnsonLewin only
	TOpt               PerRole // JohnsonLewin only, Kelvin
	T0                 float64
	Beta               PerRole
}

func NewBoltzmannArrhenius(cfg ArrheniusConfig) *BoltzmannArrhenius {
	return &BoltzmannArrhenius{
		NormConst:        cfg.NormConst,
		ActivationEnergy: cfg.ActivationEnergy,
		T0:               cfg.T0,
		Beta:             cfg.Beta,
	}
}

// DefaultArrheniusGrowth returns producer growth coefficients after
// Savage et al. (2004), referenced to 20 C.
func DefaultArrheniusGrowth() ArrheniusConfig {
	return ArrheniusConfig{
		NormConst:          Uniform(-15.68),
		ActivationEnergy:   Uniform(-0.84),
		DeactivationEnergy: Uniform(1.15),
		TOpt:               Uniform(298.15),
		T0:                 293.15,
		Beta:               Uniform(-0.25),
	}
}

// DefaultArrheniusMetabolism returns metabolic coefficients after
// Ehnes et al. (2011), referenced to 20 C.
func DefaultArrheniusMetabolism() ArrheniusConfig {
	return ArrheniusConfig{
		NormConst:          PerRole{-16.54, -16.54, -16.54},
		ActivationEnergy:   Uniform(-0.69),
		DeactivationEnergy: Uniform(1.15),
		TOpt:               Uniform(298.15),
		T0:                 293.15,
		Beta:               PerRole{-0.25, -0.31, -0.31},
	}
}

// DefaultArrheniusAttack returns attack-rate coefficients after Binzer et
// al. (2012): a normalization of 50 at the 20 C reference with activation
// energy -0.38 eV.
func DefaultArrheniusAttack() ArrheniusConfig {
	return ArrheniusConfig{
		NormConst:          Uniform(math.Log(50)),
		ActivationEnergy:   Uniform(-0.38),
		DeactivationEnergy: Uniform(1.15),
		TOpt:               Uniform(298.15),
		T0:                 293.15,
		Beta:               Uniform(0.15),
	}
}

func (m *BoltzmannArrhenius) Rate(mass, temp float64, role Role) float64 {
	e := m.ActivationEnergy.For(role)
	thermal := math.Exp(e * (m.T0 - temp) / (Boltzmann * temp * m.T0))
	return math.Exp(m.NormConst.For(role)) * math.Pow(mass, m.Beta.For(role)) * thermal
}

// JohnsonLewin is the extended Boltzmann-Arrhenius response: the
// exponential term multiplied by a logistic deactivation factor that pulls
// the rate back down above the optimum temperature (Johnson & Lewin 1946).
type JohnsonLewin struct {
	NormConst          PerRole
	ActivationEnergy   PerRole
	DeactivationEnergy PerRole
	TOpt               PerRole // Kelvin
	T0                 float64
	Beta               PerRole
}

func NewJohnsonLewin(cfg ArrheniusConfig) *JohnsonLewin {
	return &JohnsonLewin{
		NormConst:          cfg.NormConst,
		ActivationEnergy:   cfg.ActivationEnergy,
		DeactivationEnergy: cfg.DeactivationEnergy,
		TOpt:               cfg.TOpt,
		T0:                 cfg.T0,
		Beta:               cfg.Beta,
	}
}

func (m *JohnsonLewin) Rate(mass, temp float64, role Role) float64 {
	e := m.ActivationEnergy.For(role)
	ed := m.DeactivationEnergy.For(role)
	topt := m.TOpt.For(role)

	ba := math.Exp(m.NormConst.For(role)) * math.Pow(mass, m.Beta.For(role)) *
		math.Exp(e*(m.T0-temp)/(Boltzmann*temp*m.T0))

	// Logistic deactivation. The denominator can overflow to +Inf (rate
	// cleanly zero) or the log argument can be invalid for degenerate
	// energy pairs; both collapse to zero rather than propagating NaN.
	arg := -(ed - (ed/topt+Boltzmann*math.Log(math.Abs(e)/(ed-math.Abs(e))))*temp) / (Boltzmann * temp)
	deactivation := 1 / (1 + math.Exp(arg))
	if math.IsNaN(deactivation) {
		return 0
	}
	rate := ba * deactivation
	if math.IsNaN(rate) {
		return 0
	}
	return rate
}
