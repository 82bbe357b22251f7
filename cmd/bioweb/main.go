package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecodyn/bioweb/internal/analysis"
	"github.com/ecodyn/bioweb/internal/config"
	"github.com/ecodyn/bioweb/internal/foodweb"
	"github.com/ecodyn/bioweb/internal/integrators"
	"github.com/ecodyn/bioweb/internal/metrics"
	"github.com/ecodyn/bioweb/internal/sim"
	"github.com/ecodyn/bioweb/internal/storage"
	"github.com/ecodyn/bioweb/internal/topology"
	"github.com/ecodyn/bioweb/internal/viz"
)

var (
	dataDir     string
	species     int
	connectance float64
	massRatio   float64
	vertebrates float64
	mode        string
	temperature float64
	growthResp  string
	metabResp   string
	dt          float64
	duration    float64
	seed        int64
	integrator  string
	adaptive    bool
	biomass     float64
	configFile  string
	preset      string
	frameRate   int
	runs        int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bioweb",
		Short: "bioenergetic food-web simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bioweb", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "generate a food web and simulate it",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a simulation live in the terminal",
		RunE:  liveSimulation,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frames per second")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run an ensemble over consecutive seeds",
		RunE:  sweepSimulation,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", 8, "number of ensemble runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the derivative and integrators",
		RunE:  benchModel,
	}
	addModelFlags(benchCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, liveCmd, sweepCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&species, "species", config.DefaultSpecies, "number of species")
	cmd.Flags().Float64Var(&connectance, "connectance", config.DefaultConnectance, "target connectance")
	cmd.Flags().Float64Var(&massRatio, "mass-ratio", config.DefaultMassRatio, "consumer-resource body mass ratio")
	cmd.Flags().Float64Var(&vertebrates, "vertebrates", 0, "fraction of consumers with vertebrate coefficients")
	cmd.Flags().StringVar(&mode, "mode", "species", "productivity mode (species|system|competitive|nutrients)")
	cmd.Flags().Float64Var(&temperature, "temp", 0, "temperature in kelvin (0 = model default)")
	cmd.Flags().StringVar(&growthResp, "growth", "none", "growth thermal response")
	cmd.Flags().StringVar(&metabResp, "metabolism", "none", "metabolism thermal response")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler|rk4|rk45)")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive stepping")
	cmd.Flags().Float64Var(&biomass, "biomass", config.DefaultBiomass, "initial biomass per species")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// effectiveConfig resolves precedence: flags override config file, config
// file overrides preset, preset overrides defaults.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("species") {
		cfg.Web.Species = species
	}
	if cmd.Flags().Changed("connectance") {
		cfg.Web.Connectance = connectance
	}
	if cmd.Flags().Changed("mass-ratio") {
		cfg.Web.MassRatio = massRatio
	}
	if cmd.Flags().Changed("vertebrates") {
		cfg.Web.Vertebrates = vertebrates
	}
	if cmd.Flags().Changed("mode") {
		cfg.Model.Mode = mode
	}
	if cmd.Flags().Changed("temp") {
		cfg.Thermal.Temperature = temperature
	}
	if cmd.Flags().Changed("growth") {
		cfg.Thermal.Growth = growthResp
	}
	if cmd.Flags().Changed("metabolism") {
		cfg.Thermal.Metabolism = metabResp
	}
	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Sim.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Sim.Integrator = integrator
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.Sim.Adaptive = adaptive
	}
	if cmd.Flags().Changed("biomass") {
		cfg.Sim.Biomass = biomass
	}
	if cfg.Sim.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Sim.Seed = seed
	}

	return cfg, nil
}

// buildModel generates a web for the given seed and materializes the
// parameter bundle and initial state.
func buildModel(cfg *config.Config, seed int64) (*foodweb.Model, sim.State, error) {
	web, err := topology.NicheModel(cfg.Web.Species, cfg.Web.Connectance, seed)
	if err != nil {
		return nil, nil, err
	}

	masses := topology.BodyMasses(web, cfg.Web.MassRatio)
	fc, err := cfg.ModelParams(masses)
	if err != nil {
		return nil, nil, err
	}
	fc.Roles = topology.AssignRoles(web, cfg.Web.Vertebrates)

	params, err := foodweb.NewParams(web, fc)
	if err != nil {
		return nil, nil, err
	}

	dyn := foodweb.New(params)
	x0 := make(sim.State, dyn.Dim())
	for i := 0; i < params.S; i++ {
		x0[i] = cfg.Sim.Biomass
	}
	for i := params.S; i < len(x0); i++ {
		x0[i] = params.Supply[i-params.S]
	}

	return dyn, x0, nil
}

func newIntegrator(name string) (sim.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4", "":
		return integrators.NewRK4(), nil
	case "rk45":
		return integrators.NewRK45(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}

func simConfig(cfg *config.Config) sim.Config {
	sc := sim.DefaultConfig()
	sc.Dt = cfg.Sim.Dt
	sc.Duration = cfg.Sim.Duration
	sc.Seed = cfg.Sim.Seed
	sc.Adaptive = cfg.Sim.Adaptive
	return sc
}

func defaultMetrics(p *foodweb.Params) []sim.Metric {
	return []sim.Metric{
		metrics.NewPersistence(p.S, p.ExtinctionEps),
		metrics.NewTotalBiomass(p.S),
		metrics.NewShannon(p.S),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	dyn, x0, err := buildModel(cfg, cfg.Sim.Seed)
	if err != nil {
		return err
	}
	stepper, err := newIntegrator(cfg.Sim.Integrator)
	if err != nil {
		return err
	}

	s := sim.New(dyn, stepper)
	for _, m := range defaultMetrics(dyn.Params()) {
		s.AddMetric(m)
	}

	fmt.Printf("running %d-species web (C=%.3f, mode=%s)...\n",
		cfg.Web.Species, cfg.Web.Connectance, cfg.Model.Mode)
	start := time.Now()

	result, err := s.Run(context.Background(), x0, simConfig(cfg))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	nutrients := dyn.Dim() - dyn.Params().S
	runID, err := st.Save(storage.RunMetadata{
		Species:     dyn.Params().S,
		Nutrients:   nutrients,
		Connectance: topology.Connectance(dyn.Params().Web),
		Mode:        cfg.Model.Mode,
		Seed:        cfg.Sim.Seed,
		Dt:          cfg.Sim.Dt,
		Duration:    cfg.Sim.Duration,
		Integrator:  cfg.Sim.Integrator,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("extinctions: %d\n", len(result.Extinctions))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	fmt.Printf("  population_stability: %.6f\n",
		analysis.PopulationStability(result.States, dyn.Params().S, 0.25))

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runList, err := st.List()
	if err != nil {
		return err
	}

	if len(runList) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSPECIES\tMODE\tTIME\tDURATION\tDT\tINTEG\tEXTINCT")

	for _, run := range runList {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.1fs\t%.4f\t%s\t%d\n",
			run.ID,
			run.Species,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			len(run.Extinctions),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("species: %d, mode: %s\n", meta.Species, meta.Mode)
	fmt.Printf("samples: %d\n\n", len(states))

	fmt.Println(viz.PlotSpecies(states, meta.Species, 6))
	if meta.Nutrients > 0 {
		fmt.Println(viz.PlotNutrients(states, meta.Species, meta.Nutrients))
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func liveSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	dyn, x0, err := buildModel(cfg, cfg.Sim.Seed)
	if err != nil {
		return err
	}
	stepper, err := newIntegrator(cfg.Sim.Integrator)
	if err != nil {
		return err
	}

	return viz.RunLive(dyn, stepper, x0, dyn.Params().S, cfg.Sim.Dt, frameRate)
}

func sweepSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	// Each run draws its own web and parameter bundle from its seed, so
	// nothing is shared between goroutines.
	var buildErr error
	ensemble := sim.NewEnsemble(func(seed int64) (sim.System, sim.State, sim.Integrator) {
		dyn, x0, err := buildModel(cfg, seed)
		if err != nil {
			buildErr = err
			return nil, nil, nil
		}
		stepper, err := newIntegrator(cfg.Sim.Integrator)
		if err != nil {
			buildErr = err
			return nil, nil, nil
		}
		return dyn, x0, stepper
	}, runs, cfg.Sim.Seed)

	speciesCount := cfg.Web.Species
	ensemble.WithMetrics(func() []sim.Metric {
		return []sim.Metric{
			metrics.NewPersistence(speciesCount, 0),
			metrics.NewTotalBiomass(speciesCount),
			metrics.NewShannon(speciesCount),
		}
	})

	fmt.Printf("sweeping %d runs from seed %d...\n", runs, cfg.Sim.Seed)
	start := time.Now()

	results, err := ensemble.Run(context.Background(), simConfig(cfg))
	if err != nil {
		return err
	}
	if buildErr != nil {
		return buildErr
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tPERSISTENCE\tBIOMASS\tSHANNON\tEXTINCT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%d\n",
			cfg.Sim.Seed+int64(i),
			r.Metrics["persistence"],
			r.Metrics["total_biomass"],
			r.Metrics["shannon"],
			len(r.Extinctions),
		)
	}
	return w.Flush()
}

func benchModel(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	dyn, x0, err := buildModel(cfg, cfg.Sim.Seed)
	if err != nil {
		return err
	}

	const calls = 100000
	start := time.Now()
	for i := 0; i < calls; i++ {
		dyn.Derive(x0, 0)
	}
	perCall := time.Since(start) / calls
	fmt.Printf("derivative: %v per call (S=%d)\n", perCall, dyn.Params().S)

	for _, name := range []string{"euler", "rk4", "rk45"} {
		stepper, err := newIntegrator(name)
		if err != nil {
			return err
		}
		const steps = 10000
		x := x0.Clone()
		start := time.Now()
		for i := 0; i < steps; i++ {
			x = stepper.Step(dyn, x, 0, cfg.Sim.Dt)
		}
		fmt.Printf("%s: %v per step\n", name, time.Since(start)/steps)
	}

	return nil
}
