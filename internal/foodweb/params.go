package foodweb

import (
	"errors"
	"fmt"

	"github.com/ecodyn/bioweb/internal/rates"
)

// ProductivityMode selects the producer growth-limitation regime.
type ProductivityMode uint8

const (
	// ModeSpecies: each producer self-limited by its own carrying capacity.
	ModeSpecies ProductivityMode = iota
	// ModeSystem: one carrying capacity shared across all producers.
	ModeSystem
	// ModeCompetitive: producers compete, scaled by a competition strength.
	ModeCompetitive
	// ModeNutrients: Liebig colimitation by two explicit nutrient pools.
	ModeNutrients
)

func (m ProductivityMode) String() string {
	switch m {
	case ModeSpecies:
		return "species"
	case ModeSystem:
		return "system"
	case ModeCompetitive:
		return "competitive"
	case ModeNutrients:
		return "nutrients"
	}
	return "unknown"
}

// ParseProductivityMode maps a config string to a mode.
func ParseProductivityMode(s string) (ProductivityMode, error) {
	switch s {
	case "species", "":
		return ModeSpecies, nil
	case "system":
		return ModeSystem, nil
	case "competitive":
		return ModeCompetitive, nil
	case "nutrients":
		return ModeNutrients, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// NumNutrients is the number of explicit nutrient pools under ModeNutrients.
const NumNutrients = 2

// Construction errors. Validation happens once here; the derivative path
// assumes a well-formed bundle and never re-checks.
var (
	ErrEmptyWeb     = errors.New("foodweb: empty web")
	ErrNotSquare    = errors.New("foodweb: web matrix is not square")
	ErrBadLength    = errors.New("foodweb: vector length does not match web size")
	ErrUnknownMode  = errors.New("foodweb: unknown productivity mode")
	ErrNegativeRate = errors.New("foodweb: negative rate parameter")
	ErrRoleMismatch = errors.New("foodweb: role inconsistent with web topology")

	ErrIncompleteResponse = errors.New("foodweb: attack and handling models must be set together")
)

// NutrientConfig parameterizes the two-pool chemostat of ModeNutrients.
type NutrientConfig struct {
	Turnover float64                    // D: relaxation rate toward supply
	Supply   [NumNutrients]float64      // inflow concentrations
	Content  [NumNutrients]float64      // nutrient content of producer biomass
	HalfSat  [NumNutrients][]float64    // per-producer half-saturation; nil broadcasts defaults
}

// Config is the typed construction record for a parameter bundle. Zero
// values are replaced by the model defaults of Brose et al. (2006); rate
// models left nil fall back to allometric scaling without temperature
// dependence.
type Config struct {
	Masses      []float64
	Roles       []rates.Role
	Temperature float64 // Kelvin

	Growth     rates.Model
	Metabolism rates.Model

	// Attack and Handling switch the functional response from the
	// bioenergetic parameterization (max consumption and half-saturation)
	// to the classical one (per-link attack rates and handling times).
	// Set both or neither.
	Attack   rates.Model
	Handling rates.Model

	MaxConsumption rates.PerRole // y: maximum consumption relative to metabolism
	HalfSat        float64       // functional response half-saturation density
	Hill           float64       // functional response shape exponent
	EffProducer    float64       // assimilation efficiency eating a producer
	EffAnimal      float64       // assimilation efficiency eating an animal
	Interference   float64       // predator interference c
	Cost           [][]float64   // optional rewiring cost multiplier on links

	Mode      ProductivityMode
	K         float64 // producer carrying capacity
	Alpha     float64 // interspecific competition strength (ModeCompetitive)
	Mortality float64 // density-independent consumer mortality

	Nutrients NutrientConfig

	// ExtinctionEps is the biomass tolerance below which a population is
	// forced through zero. Tunable: reference implementations disagree on
	// the right multiple of machine epsilon.
	ExtinctionEps float64
}

// Params is the immutable parameter bundle consumed by the derivative.
// Built once by New; read-only during derivative evaluation.
type Params struct {
	S     int
	Web   [][]bool // Web[i][j]: species i consumes species j
	Roles []rates.Role
	Mass  []float64

	X            []float64   // metabolic rate
	R            []float64   // producer intrinsic growth rate
	Y            []float64   // maximum consumption rate
	Efficiency   [][]float64 // assimilation efficiency per link
	Preference   [][]float64 // relative preference w per link
	Attack       [][]float64 // per-link attack rates; nil under the bioenergetic response
	Handling     [][]float64 // per-link handling times; nil under the bioenergetic response
	Cost         [][]float64 // nil when the web was not rewired
	Interference []float64
	HalfSat      float64
	Hill         float64

	Mode      ProductivityMode
	K         float64
	Alpha     float64
	Mortality []float64

	Turnover     float64
	Supply       [NumNutrients]float64
	Content      [NumNutrients]float64
	NutrientHalf [NumNutrients][]float64

	ExtinctionEps float64
}

// NumProducers counts species with the producer role.
func (p *Params) NumProducers() int {
	n := 0
	for _, r := range p.Roles {
		if r == rates.Producer {
			n++
		}
	}
	return n
}

// NewParams validates the topology and configuration and materializes every
// rate vector and matrix once. This is the only place configuration errors
// surface; see the package documentation for the derivative-path policy.
func NewParams(web [][]bool, cfg Config) (*Params, error) {
	s := len(web)
	if s == 0 {
		return nil, ErrEmptyWeb
	}
	for i, row := range web {
		if len(row) != s {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrNotSquare, i, len(row), s)
		}
	}

	roles := cfg.Roles
	if roles == nil {
		roles = deriveRoles(web)
	}
	if len(roles) != s {
		return nil, fmt.Errorf("%w: %d roles for %d species", ErrBadLength, len(roles), s)
	}
	for i := range web {
		hasPrey := false
		for j := range web[i] {
			if web[i][j] {
				hasPrey = true
				break
			}
		}
		if hasPrey && roles[i] == rates.Producer {
			return nil, fmt.Errorf("%w: species %d is a producer with prey", ErrRoleMismatch, i)
		}
		if !hasPrey && roles[i] != rates.Producer {
			return nil, fmt.Errorf("%w: species %d has no prey but is not a producer", ErrRoleMismatch, i)
		}
	}

	producers := 0
	for _, r := range roles {
		if r == rates.Producer {
			producers++
		}
	}
	if producers == 0 {
		return nil, fmt.Errorf("%w: web has no producers", ErrRoleMismatch)
	}

	masses := cfg.Masses
	if masses == nil {
		masses = make([]float64, s)
		for i := range masses {
			masses[i] = 1
		}
	}
	if len(masses) != s {
		return nil, fmt.Errorf("%w: %d masses for %d species", ErrBadLength, len(masses), s)
	}
	for i, m := range masses {
		if m < 0 {
			return nil, fmt.Errorf("%w: mass[%d] = %f", ErrNegativeRate, i, m)
		}
	}

	if cfg.Cost != nil {
		if len(cfg.Cost) != s || len(cfg.Cost[0]) != s {
			return nil, fmt.Errorf("%w: cost matrix is %dx%d", ErrBadLength, len(cfg.Cost), len(cfg.Cost[0]))
		}
	}

	cfg = applyDefaults(cfg)
	if cfg.Mode > ModeNutrients {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, cfg.Mode)
	}
	if cfg.HalfSat < 0 || cfg.Interference < 0 || cfg.Mortality < 0 || cfg.K <= 0 {
		return nil, fmt.Errorf("%w: half-saturation, interference and mortality must be >= 0, K > 0", ErrNegativeRate)
	}

	temp := cfg.Temperature

	p := &Params{
		S:             s,
		Web:           web,
		Roles:         roles,
		Mass:          masses,
		HalfSat:       cfg.HalfSat,
		Hill:          cfg.Hill,
		Cost:          cfg.Cost,
		Mode:          cfg.Mode,
		K:             cfg.K,
		Alpha:         cfg.Alpha,
		Turnover:      cfg.Nutrients.Turnover,
		Supply:        cfg.Nutrients.Supply,
		Content:       cfg.Nutrients.Content,
		ExtinctionEps: cfg.ExtinctionEps,
	}

	p.X = rates.VectorOf(cfg.Metabolism, masses, roles, temp)
	p.R = make([]float64, s)
	p.Y = make([]float64, s)
	p.Interference = make([]float64, s)
	p.Mortality = make([]float64, s)
	for i := 0; i < s; i++ {
		p.Interference[i] = cfg.Interference
		if roles[i] == rates.Producer {
			p.R[i] = cfg.Growth.Rate(masses[i], temp, roles[i])
			continue
		}
		p.Y[i] = cfg.MaxConsumption.For(roles[i])
		p.Mortality[i] = cfg.Mortality
	}

	p.Efficiency = make([][]float64, s)
	p.Preference = uniformPreference(web)
	for i := 0; i < s; i++ {
		p.Efficiency[i] = make([]float64, s)
		for j := 0; j < s; j++ {
			if !web[i][j] {
				continue
			}
			if roles[j] == rates.Producer {
				p.Efficiency[i][j] = cfg.EffProducer
			} else {
				p.Efficiency[i][j] = cfg.EffAnimal
			}
		}
	}

	if (cfg.Attack == nil) != (cfg.Handling == nil) {
		return nil, ErrIncompleteResponse
	}
	if cfg.Attack != nil {
		p.Attack = rates.MatrixOf(cfg.Attack, masses, roles, web, temp, rates.AttackConsumerBeta)
		p.Handling = rates.MatrixOf(cfg.Handling, masses, roles, web, temp, rates.HandlingConsumerBeta)
	}

	for k := 0; k < NumNutrients; k++ {
		half := cfg.Nutrients.HalfSat[k]
		if half == nil {
			half = make([]float64, s)
			for i := range half {
				half[i] = defaultNutrientHalfSat
			}
		}
		if len(half) != s {
			return nil, fmt.Errorf("%w: nutrient %d half-saturation has length %d", ErrBadLength, k, len(half))
		}
		p.NutrientHalf[k] = half
	}

	return p, nil
}

// Model defaults after Brose, Williams & Martinez (2006) and Yodzis &
// Innes (1992).
const (
	defaultHalfSat         = 0.5
	defaultHill            = 1.0
	defaultEffProducer     = 0.45
	defaultEffAnimal       = 0.85
	defaultK               = 1.0
	defaultAlpha           = 1.0
	defaultTemperature     = 293.15
	defaultTurnover        = 0.25
	defaultSupply          = 10.0
	defaultNutrientHalfSat = 0.15
	defaultExtinctionEps   = 1e-12
)

func applyDefaults(cfg Config) Config {
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Growth == nil {
		cfg.Growth = rates.NewNoEffect(rates.DefaultNoEffectGrowth())
	}
	if cfg.Metabolism == nil {
		cfg.Metabolism = rates.NewNoEffect(rates.DefaultNoEffectMetabolism())
	}
	if cfg.MaxConsumption == (rates.PerRole{}) {
		cfg.MaxConsumption = rates.PerRole{0, 8, 4}
	}
	if cfg.HalfSat == 0 {
		cfg.HalfSat = defaultHalfSat
	}
	if cfg.Hill == 0 {
		cfg.Hill = defaultHill
	}
	if cfg.EffProducer == 0 {
		cfg.EffProducer = defaultEffProducer
	}
	if cfg.EffAnimal == 0 {
		cfg.EffAnimal = defaultEffAnimal
	}
	if cfg.K == 0 {
		cfg.K = defaultK
	}
	if cfg.Alpha == 0 {
		cfg.Alpha = defaultAlpha
	}
	if cfg.Nutrients.Turnover == 0 {
		cfg.Nutrients.Turnover = defaultTurnover
	}
	if cfg.Nutrients.Supply == ([NumNutrients]float64{}) {
		cfg.Nutrients.Supply = [NumNutrients]float64{defaultSupply, defaultSupply}
	}
	if cfg.Nutrients.Content == ([NumNutrients]float64{}) {
		cfg.Nutrients.Content = [NumNutrients]float64{1.0, 0.5}
	}
	if cfg.ExtinctionEps == 0 {
		cfg.ExtinctionEps = defaultExtinctionEps
	}
	return cfg
}

func deriveRoles(web [][]bool) []rates.Role {
	roles := make([]rates.Role, len(web))
	for i := range web {
		roles[i] = rates.Producer
		for j := range web[i] {
			if web[i][j] {
				roles[i] = rates.Invertebrate
				break
			}
		}
	}
	return roles
}

// uniformPreference spreads each consumer's preference evenly over its prey.
func uniformPreference(web [][]bool) [][]float64 {
	s := len(web)
	w := make([][]float64, s)
	for i := range web {
		w[i] = make([]float64, s)
		prey := 0
		for j := range web[i] {
			if web[i][j] {
				prey++
			}
		}
		if prey == 0 {
			continue
		}
		share := 1.0 / float64(prey)
		for j := range web[i] {
			if web[i][j] {
				w[i][j] = share
			}
		}
	}
	return w
}
