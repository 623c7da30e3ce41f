// Command etssim runs agent-based carbon-market scenario simulations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/ets-sim/internal/api"
	"github.com/talgya/ets-sim/internal/config"
	"github.com/talgya/ets-sim/internal/engine"
	"github.com/talgya/ets-sim/internal/persistence"
	"github.com/talgya/ets-sim/internal/region"
	"github.com/talgya/ets-sim/internal/scenario"
	"github.com/talgya/ets-sim/internal/sector"
)

var (
	flagConfig string
	flagDB     string
	flagOut    string
	flagSeed   int64
	flagYears  int
	flagPort   int
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "etssim",
		Short:         "Agent-based emissions-trading-scheme simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML scenario config file")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().StringVar(&flagOut, "out", "", "CSV output directory (overrides config)")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed (overrides config; 0 = time-based)")
	root.PersistentFlags().IntVar(&flagYears, "years", 11, "simulated years per run")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "Run one scenario and export its series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOne,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the full preset suite and print a comparison table",
		RunE:  runCompare,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preset suite and serve results over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&flagPort, "port", 8080, "HTTP listen port")

	root.AddCommand(runCmd, compareCmd, serveCmd)

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file (if any) with command-line overrides.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return cfg, err
		}
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}
	if flagOut != "" {
		cfg.Output.Dir = flagOut
	}
	if flagSeed != 0 {
		cfg.Scenario.Seed = flagSeed
	}
	return cfg, nil
}

func openStore(cfg config.Config) (*persistence.DB, region.Coefficients, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := persistence.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	coeffs, err := db.LoadRegionCoefficients()
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, coeffs, nil
}

// executeRun runs one scenario end to end: simulate, export CSV, persist.
func executeRun(ctx context.Context, cfg config.Config, params scenario.Params,
	db *persistence.DB, coeffs region.Coefficients) ([]engine.Record, error) {

	if err := params.Validate(); err != nil {
		return nil, err
	}
	if flagYears <= 0 {
		return nil, fmt.Errorf("years must be positive, got %d", flagYears)
	}

	w := engine.New(params, cfg.Schedule, sector.DefaultRegistry(), coeffs)
	series, err := w.Run(ctx, flagYears)
	if err != nil {
		// Cancelled: persist whatever was collected before bailing out.
		if len(series) > 0 {
			if saveErr := saveResults(cfg, params, db, series); saveErr != nil {
				slog.Warn("partial series not saved", "scenario", params.Name, "error", saveErr)
			}
		}
		return series, err
	}

	if err := saveResults(cfg, params, db, series); err != nil {
		return series, err
	}
	return series, nil
}

func saveResults(cfg config.Config, params scenario.Params, db *persistence.DB, series []engine.Record) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	csvPath := filepath.Join(cfg.Output.Dir, fmt.Sprintf("scenario_%s.csv", params.Name))
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", csvPath, err)
	}
	defer f.Close()
	if err := engine.WriteCSV(f, series); err != nil {
		return fmt.Errorf("export %s: %w", csvPath, err)
	}
	slog.Info("series exported", "path", csvPath)

	return db.SaveRun(uuid.NewString(), params, series)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runOne(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	params := cfg.Scenario
	if len(args) == 1 {
		preset, ok := scenario.Preset(args[0], cfg.Scenario.Seed)
		if !ok {
			return fmt.Errorf("unknown preset %q", args[0])
		}
		params = preset
	}

	db, coeffs, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signalContext()
	defer stop()

	_, err = executeRun(ctx, cfg, params, db, coeffs)
	return err
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, coeffs, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signalContext()
	defer stop()

	results := make(map[string][]engine.Record)
	presets := scenario.Presets(cfg.Scenario.Seed)
	for _, params := range presets {
		series, err := executeRun(ctx, cfg, params, db, coeffs)
		if err != nil {
			return err
		}
		results[params.Name] = series
	}

	printComparison(presets, results)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, coeffs, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signalContext()
	defer stop()

	server := api.NewServer(flagPort)
	for _, params := range scenario.Presets(cfg.Scenario.Seed) {
		series, err := executeRun(ctx, cfg, params, db, coeffs)
		if err != nil {
			return err
		}
		server.Publish(params.Name, series)
	}

	server.Start()
	fmt.Printf("Results: http://localhost:%d/api/v1/status (Ctrl+C to stop)\n", flagPort)
	<-ctx.Done()
	return nil
}

// printComparison prints the final-year summary of each scenario against
// the BAU baseline.
func printComparison(presets []scenario.Params, results map[string][]engine.Record) {
	bauEmission := 0.0
	if bau, ok := results["bau"]; ok && len(bau) > 0 {
		bauEmission = bau[len(bau)-1].TotalEmission
	}

	fmt.Println()
	fmt.Printf("%-14s %-14s %-14s %-14s %-14s\n",
		"Scenario", "Emission (Mt)", "Reduction (%)", "Price ($/t)", "Clean")
	for _, p := range presets {
		series := results[p.Name]
		if len(series) == 0 {
			continue
		}
		last := series[len(series)-1]

		reduction := 0.0
		if bauEmission > 0 {
			reduction = (bauEmission - last.TotalEmission) / bauEmission * 100
		}
		fmt.Printf("%-14s %-14.2f %-14.1f %-14.0f %-14d\n",
			p.Name, last.TotalEmission, reduction, last.CarbonPrice, last.CleanFacilities)
	}
}
