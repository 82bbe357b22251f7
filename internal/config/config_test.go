package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/ecodyn/bioweb/internal/foodweb"
	"github.com/ecodyn/bioweb/internal/rates"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Web.Species != DefaultSpecies {
		t.Errorf("species: got %d, want %d", cfg.Web.Species, DefaultSpecies)
	}
	if cfg.Web.Connectance != DefaultConnectance {
		t.Errorf("connectance: got %g", cfg.Web.Connectance)
	}
	if cfg.Sim.Integrator != "rk4" {
		t.Errorf("integrator: got %q", cfg.Sim.Integrator)
	}
	if cfg.Sim.Dt != DefaultDt || cfg.Sim.Duration != DefaultDuration {
		t.Errorf("timing: dt=%g duration=%g", cfg.Sim.Dt, cfg.Sim.Duration)
	}
	if cfg.Model.Mode != "species" {
		t.Errorf("mode: got %q", cfg.Model.Mode)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Web.Species = 35
	cfg.Web.Vertebrates = 0.25
	cfg.Model.Mode = "nutrients"
	cfg.Thermal.Growth = "eppley"
	cfg.Thermal.Temperature = 298.15
	cfg.Nutrient.Supply = []float64{5, 2}
	cfg.Sim.Adaptive = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Web.Species != 35 {
		t.Errorf("species lost: %d", loaded.Web.Species)
	}
	if loaded.Web.Vertebrates != 0.25 {
		t.Errorf("vertebrate fraction lost: %g", loaded.Web.Vertebrates)
	}
	if loaded.Model.Mode != "nutrients" {
		t.Errorf("mode lost: %q", loaded.Model.Mode)
	}
	if loaded.Thermal.Growth != "eppley" || loaded.Thermal.Temperature != 298.15 {
		t.Errorf("thermal lost: %+v", loaded.Thermal)
	}
	if len(loaded.Nutrient.Supply) != 2 || loaded.Nutrient.Supply[1] != 2 {
		t.Errorf("nutrient supply lost: %v", loaded.Nutrient.Supply)
	}
	if !loaded.Sim.Adaptive {
		t.Error("adaptive flag lost")
	}
	// Fields absent from the file keep their defaults.
	if loaded.Sim.Dt != DefaultDt {
		t.Errorf("default dt not preserved: %g", loaded.Sim.Dt)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestModelParamsTranslation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Mode = "nutrients"
	cfg.Model.HalfSat = 0.4
	cfg.Model.Hill = 1.2
	cfg.Nutrient.Turnover = 0.3
	cfg.Nutrient.Supply = []float64{4, 8}
	cfg.Nutrient.Content = []float64{1, 0.25}

	masses := []float64{1, 10}
	fc, err := cfg.ModelParams(masses)
	if err != nil {
		t.Fatalf("ModelParams failed: %v", err)
	}

	if fc.Mode != foodweb.ModeNutrients {
		t.Errorf("mode: got %v", fc.Mode)
	}
	if fc.HalfSat != 0.4 || fc.Hill != 1.2 {
		t.Errorf("functional response params lost: %g, %g", fc.HalfSat, fc.Hill)
	}
	if fc.Nutrients.Turnover != 0.3 {
		t.Errorf("turnover lost: %g", fc.Nutrients.Turnover)
	}
	if fc.Nutrients.Supply != [foodweb.NumNutrients]float64{4, 8} {
		t.Errorf("supply lost: %v", fc.Nutrients.Supply)
	}
	if fc.Nutrients.Content != [foodweb.NumNutrients]float64{1, 0.25} {
		t.Errorf("content lost: %v", fc.Nutrients.Content)
	}
	if len(fc.Masses) != 2 || fc.Masses[1] != 10 {
		t.Errorf("masses lost: %v", fc.Masses)
	}
	if fc.Growth == nil || fc.Metabolism == nil {
		t.Error("rate models not materialized")
	}
}

func TestModelParamsPerLinkSlots(t *testing.T) {
	// Neither slot named: the bioenergetic response stays in force.
	cfg := DefaultConfig()
	fc, err := cfg.ModelParams([]float64{1})
	if err != nil {
		t.Fatalf("ModelParams failed: %v", err)
	}
	if fc.Attack != nil || fc.Handling != nil {
		t.Error("per-link models materialized without being asked for")
	}

	// Naming one slot fills in the other's default, so the bundle builder
	// always gets a complete pair.
	cfg = DefaultConfig()
	cfg.Thermal.Attack = "arrhenius"
	fc, err = cfg.ModelParams([]float64{1})
	if err != nil {
		t.Fatalf("ModelParams failed: %v", err)
	}
	if fc.Attack == nil || fc.Handling == nil {
		t.Fatal("classical response pair incomplete")
	}
	if got := fc.Attack.Rate(1, 293.15, rates.Producer); math.Abs(got-50) > 1e-9 {
		t.Errorf("attack at reference: got %g, want 50", got)
	}

	cfg = DefaultConfig()
	cfg.Thermal.Handling = "gaussian"
	fc, err = cfg.ModelParams([]float64{1})
	if err != nil {
		t.Fatalf("ModelParams failed: %v", err)
	}
	if fc.Attack == nil || fc.Handling == nil {
		t.Fatal("classical response pair incomplete")
	}
}

func TestMetabolismGaussianUsesMetabolicScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thermal.Metabolism = "gaussian"
	fc, err := cfg.ModelParams([]float64{1})
	if err != nil {
		t.Fatalf("ModelParams failed: %v", err)
	}

	// The vertebrate constant at the optimum distinguishes the metabolic
	// coefficients from the producer-growth ones.
	if got := fc.Metabolism.Rate(1, 293.15, rates.Vertebrate); math.Abs(got-0.88) > 1e-12 {
		t.Errorf("gaussian metabolism at optimum: got %g, want 0.88", got)
	}
}

func TestModelParamsRejectsUnknownNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Mode = "chaos"
	if _, err := cfg.ModelParams([]float64{1}); err == nil {
		t.Error("expected error for unknown mode")
	}

	cfg = DefaultConfig()
	cfg.Thermal.Growth = "linear"
	if _, err := cfg.ModelParams([]float64{1}); err == nil {
		t.Error("expected error for unknown growth response")
	}

	cfg = DefaultConfig()
	cfg.Thermal.Metabolism = "linear"
	if _, err := cfg.ModelParams([]float64{1}); err == nil {
		t.Error("expected error for unknown metabolism response")
	}

	cfg = DefaultConfig()
	cfg.Thermal.Attack = "linear"
	if _, err := cfg.ModelParams([]float64{1}); err == nil {
		t.Error("expected error for unknown attack response")
	}

	cfg = DefaultConfig()
	cfg.Thermal.Handling = "arrhenius"
	if _, err := cfg.ModelParams([]float64{1}); err == nil {
		t.Error("expected error for unknown handling response")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range []string{"small", "classic", "nutrients", "warming"} {
		preset := GetPreset(name)
		if preset == nil {
			t.Fatalf("preset %q missing", name)
		}
		if preset.Web.Species < 2 {
			t.Errorf("preset %q: implausible species count %d", name, preset.Web.Species)
		}
		if _, err := preset.ModelParams([]float64{1, 1}); err != nil {
			t.Errorf("preset %q does not translate: %v", name, err)
		}
	}

	if GetPreset("nope") != nil {
		t.Error("unknown preset should return nil")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets incomplete")
	}
}
