// Package config loads and saves simulation configurations (YAML) and
// translates them into typed model parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ecodyn/bioweb/internal/foodweb"
	"github.com/ecodyn/bioweb/internal/rates"
)

const (
	DefaultSpecies     = 20
	DefaultConnectance = 0.15
	DefaultMassRatio   = 10.0
	DefaultDt          = 0.01
	DefaultDuration    = 500.0
	DefaultBiomass     = 0.5
)

type Config struct {
	Web      WebConfig      `yaml:"web"`
	Model    ModelConfig    `yaml:"model"`
	Thermal  ThermalConfig  `yaml:"thermal"`
	Nutrient NutrientConfig `yaml:"nutrients"`
	Sim      SimConfig      `yaml:"sim"`
}

type WebConfig struct {
	Species     int     `yaml:"species"`
	Connectance float64 `yaml:"connectance"`
	MassRatio   float64 `yaml:"mass_ratio"`          // consumer-resource body mass ratio Z
	Vertebrates float64 `yaml:"vertebrate_fraction"` // fraction of consumers given vertebrate coefficients, top trophic levels first
}

type ModelConfig struct {
	Mode         string  `yaml:"mode"` // species, system, competitive, nutrients
	K            float64 `yaml:"k"`
	Alpha        float64 `yaml:"alpha"`
	HalfSat      float64 `yaml:"half_saturation"`
	Hill         float64 `yaml:"hill"`
	Interference float64 `yaml:"interference"`
	EffProducer  float64 `yaml:"efficiency_producer"`
	EffAnimal    float64 `yaml:"efficiency_animal"`
	Mortality    float64 `yaml:"mortality"`
	Eps          float64 `yaml:"extinction_eps"`
}

type ThermalConfig struct {
	Temperature float64 `yaml:"temperature"` // Kelvin; 0 means model default
	Growth      string  `yaml:"growth"`      // none, eppley, arrhenius, johnson-lewin, gaussian
	Metabolism  string  `yaml:"metabolism"`
	Attack      string  `yaml:"attack"`   // empty keeps the bioenergetic response; none, arrhenius, gaussian
	Handling    string  `yaml:"handling"` // empty keeps the bioenergetic response; none, gaussian
}

type NutrientConfig struct {
	Turnover float64   `yaml:"turnover"`
	Supply   []float64 `yaml:"supply"`
	Content  []float64 `yaml:"content"`
}

type SimConfig struct {
	Integrator string  `yaml:"integrator"` // euler, rk4, rk45
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Seed       int64   `yaml:"seed"`
	Biomass    float64 `yaml:"biomass"` // initial biomass per species
	Adaptive   bool    `yaml:"adaptive"`
}

func DefaultConfig() *Config {
	return &Config{
		Web: WebConfig{
			Species:     DefaultSpecies,
			Connectance: DefaultConnectance,
			MassRatio:   DefaultMassRatio,
		},
		Model: ModelConfig{
			Mode: "species",
		},
		Thermal: ThermalConfig{
			Growth:     "none",
			Metabolism: "none",
		},
		Sim: SimConfig{
			Integrator: "rk4",
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Biomass:    DefaultBiomass,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ModelParams translates the file config into the typed bundle config for
// foodweb.NewParams. Masses and roles are supplied by the caller once the
// web is generated.
func (c *Config) ModelParams(masses []float64) (foodweb.Config, error) {
	mode, err := foodweb.ParseProductivityMode(c.Model.Mode)
	if err != nil {
		return foodweb.Config{}, err
	}

	growth, err := growthModel(c.Thermal.Growth)
	if err != nil {
		return foodweb.Config{}, err
	}
	metabolism, err := metabolismModel(c.Thermal.Metabolism)
	if err != nil {
		return foodweb.Config{}, err
	}

	fc := foodweb.Config{
		Masses:        masses,
		Temperature:   c.Thermal.Temperature,
		Growth:        growth,
		Metabolism:    metabolism,
		HalfSat:       c.Model.HalfSat,
		Hill:          c.Model.Hill,
		EffProducer:   c.Model.EffProducer,
		EffAnimal:     c.Model.EffAnimal,
		Interference:  c.Model.Interference,
		Mode:          mode,
		K:             c.Model.K,
		Alpha:         c.Model.Alpha,
		Mortality:     c.Model.Mortality,
		ExtinctionEps: c.Model.Eps,
	}

	// Naming either per-link slot opts into the classical response; the
	// unnamed one falls back to its temperature-independent default.
	if c.Thermal.Attack != "" || c.Thermal.Handling != "" {
		fc.Attack, err = attackModel(c.Thermal.Attack)
		if err != nil {
			return foodweb.Config{}, err
		}
		fc.Handling, err = handlingModel(c.Thermal.Handling)
		if err != nil {
			return foodweb.Config{}, err
		}
	}

	fc.Nutrients.Turnover = c.Nutrient.Turnover
	for k := 0; k < foodweb.NumNutrients; k++ {
		if k < len(c.Nutrient.Supply) {
			fc.Nutrients.Supply[k] = c.Nutrient.Supply[k]
		}
		if k < len(c.Nutrient.Content) {
			fc.Nutrients.Content[k] = c.Nutrient.Content[k]
		}
	}

	return fc, nil
}

func growthModel(name string) (rates.Model, error) {
	switch name {
	case "none", "":
		return rates.NewNoEffect(rates.DefaultNoEffectGrowth()), nil
	case "eppley":
		return rates.NewExtendedEppley(rates.DefaultEppleyGrowth()), nil
	case "arrhenius":
		return rates.NewBoltzmannArrhenius(rates.DefaultArrheniusGrowth()), nil
	case "johnson-lewin":
		return rates.NewJohnsonLewin(rates.DefaultArrheniusGrowth()), nil
	case "gaussian":
		return rates.NewGaussian(rates.DefaultGaussianGrowth()), nil
	}
	return nil, fmt.Errorf("unknown growth response: %s", name)
}

func metabolismModel(name string) (rates.Model, error) {
	switch name {
	case "none", "":
		return rates.NewNoEffect(rates.DefaultNoEffectMetabolism()), nil
	case "eppley":
		return rates.NewExtendedEppley(rates.DefaultEppleyMetabolism()), nil
	case "arrhenius":
		return rates.NewBoltzmannArrhenius(rates.DefaultArrheniusMetabolism()), nil
	case "johnson-lewin":
		return rates.NewJohnsonLewin(rates.DefaultArrheniusMetabolism()), nil
	case "gaussian":
		return rates.NewGaussian(rates.DefaultGaussianMetabolism()), nil
	}
	return nil, fmt.Errorf("unknown metabolism response: %s", name)
}

func attackModel(name string) (rates.Model, error) {
	switch name {
	case "none", "":
		return rates.NewNoEffect(rates.DefaultNoEffectAttack()), nil
	case "arrhenius":
		return rates.NewBoltzmannArrhenius(rates.DefaultArrheniusAttack()), nil
	case "gaussian":
		return rates.NewGaussian(rates.DefaultGaussianAttack()), nil
	}
	return nil, fmt.Errorf("unknown attack response: %s", name)
}

func handlingModel(name string) (rates.Model, error) {
	switch name {
	case "none", "":
		return rates.NewNoEffect(rates.DefaultNoEffectHandling()), nil
	case "gaussian":
		return rates.NewGaussian(rates.DefaultGaussianHandling()), nil
	}
	return nil, fmt.Errorf("unknown handling response: %s", name)
}
