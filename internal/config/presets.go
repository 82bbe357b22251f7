package config

var Presets = map[string]*Config{
	// Small community, the classic self-limited setup.
	"small": {
		Web:     WebConfig{Species: 10, Connectance: 0.15, MassRatio: 10},
		Model:   ModelConfig{Mode: "species"},
		Thermal: ThermalConfig{Growth: "none", Metabolism: "none"},
		Sim:     SimConfig{Integrator: "rk4", Dt: 0.01, Duration: 300, Biomass: 0.5},
	},
	// Brose et al. (2006) style community with shared carrying capacity.
	"classic": {
		Web:     WebConfig{Species: 30, Connectance: 0.15, MassRatio: 100},
		Model:   ModelConfig{Mode: "system", K: 10},
		Thermal: ThermalConfig{Growth: "none", Metabolism: "none"},
		Sim:     SimConfig{Integrator: "rk4", Dt: 0.01, Duration: 2000, Biomass: 0.5},
	},
	// Producers colimited by two explicit nutrient pools.
	"nutrients": {
		Web:      WebConfig{Species: 20, Connectance: 0.15, MassRatio: 10},
		Model:    ModelConfig{Mode: "nutrients"},
		Thermal:  ThermalConfig{Growth: "none", Metabolism: "none"},
		Nutrient: NutrientConfig{Turnover: 0.25, Supply: []float64{10, 10}, Content: []float64{1, 0.5}},
		Sim:      SimConfig{Integrator: "rk45", Dt: 0.01, Duration: 1000, Biomass: 0.5, Adaptive: true},
	},
	// Temperature-dependent rates near the thermal optimum.
	"warming": {
		Web:     WebConfig{Species: 20, Connectance: 0.15, MassRatio: 10},
		Model:   ModelConfig{Mode: "species"},
		Thermal: ThermalConfig{Temperature: 295.15, Growth: "eppley", Metabolism: "arrhenius"},
		Sim:     SimConfig{Integrator: "rk4", Dt: 0.01, Duration: 1000, Biomass: 0.5},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
