package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/luxworks/ledsim/pkg/analysis"
	"github.com/luxworks/ledsim/pkg/catalog"
	"github.com/luxworks/ledsim/pkg/util"
)

var (
	moduleVoltage float64
	sweepRange    string
	jsonOutput    bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "ledsim",
	Short: "Estimate the operating point of an LED driver/module pairing",
	Long: `ledsim calculates driver input power and module output voltage for a
driver and LED module pairing, using the efficiency and IV curve data in
their catalog files (JSON or YAML).

Driver, module, current and input-v can also come from a ledsim.yaml
config file or LEDSIM_* environment variables; flags win.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.OutOrStdout())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().String("driver", "", "path to the driver catalog file")
	rootCmd.Flags().String("module", "", "path to the LED module catalog file")
	rootCmd.Flags().Float64("current", 0, "module drive current in A (0 = module nominal)")
	rootCmd.Flags().Float64("input-v", 120, "AC input voltage feeding the driver")
	rootCmd.Flags().Float64Var(&moduleVoltage, "module-voltage", 0, "manual module voltage in V for modules without IV data (0 = off)")
	rootCmd.Flags().StringVar(&sweepRange, "sweep", "", "current sweep start:stop:step in A instead of a single point")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	for _, name := range []string{"driver", "module", "current", "input-v"} {
		_ = viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

func initConfig() {
	// .env first so viper sees anything it defines.
	_ = godotenv.Load()

	viper.SetConfigName("ledsim")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "ledsim"))
	}
	viper.SetEnvPrefix("LEDSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: config file ignored: %v\n", err)
		}
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(w io.Writer) error {
	logger := newLogger(verbose)
	defer func() { _ = logger.Sync() }()

	driverPath := viper.GetString("driver")
	modulePath := viper.GetString("module")
	if driverPath == "" || modulePath == "" {
		return fmt.Errorf("both --driver and --module catalog paths are required")
	}

	drv, err := catalog.LoadDriver(driverPath)
	if err != nil {
		return err
	}
	logger.Debug("driver loaded", zap.String("label", drv.Label()), zap.String("path", driverPath))

	mod, err := catalog.LoadModule(modulePath)
	if err != nil {
		return err
	}
	logger.Debug("module loaded",
		zap.String("label", mod.Label()),
		zap.Int("series", mod.SeriesCount()),
		zap.Int("parallel", mod.ParallelCount()))

	req := analysis.Request{
		Driver:          drv,
		Module:          mod,
		DriveCurrent:    viper.GetFloat64("current"),
		InputVoltage:    viper.GetFloat64("input-v"),
		OverrideVoltage: moduleVoltage,
	}

	if sweepRange != "" {
		params, err := parseSweep(sweepRange)
		if err != nil {
			return err
		}
		logger.Debug("running current sweep",
			zap.Float64("start", params.Start),
			zap.Float64("stop", params.Stop),
			zap.Float64("step", params.Step))
		results, err := analysis.CurrentSweep(req, params)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(w, results)
		}
		printSweep(w, results)
		return nil
	}

	res, err := analysis.OperatingPoint(req)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(w, res)
	}
	printResult(w, res)
	return nil
}

// parseSweep reads a "start:stop:step" range in amps.
func parseSweep(s string) (analysis.SweepParams, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return analysis.SweepParams{}, fmt.Errorf("sweep must be start:stop:step, got %q", s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return analysis.SweepParams{}, fmt.Errorf("sweep value %q is not a number", p)
		}
		vals[i] = v
	}
	return analysis.SweepParams{Start: vals[0], Stop: vals[1], Step: vals[2]}, nil
}

func printResult(w io.Writer, res *analysis.Result) {
	fmt.Fprintf(w, "Driver: %s\n", res.Driver)
	fmt.Fprintf(w, "Module: %s\n", res.Module)
	fmt.Fprintf(w, "Input voltage: %.1f V\n", res.InputVoltage)
	note := ""
	if res.UsedNominalCurrent {
		note = " (nominal)"
	}
	fmt.Fprintf(w, "Drive current: %.3f A%s\n", res.ModuleCurrent, note)
	fmt.Fprintf(w, "Driver output voltage: %.2f V\n", res.DriverOutputVoltage)
	fmt.Fprintf(w, "Module voltage: %.2f V\n", res.ModuleVoltage)
	fmt.Fprintf(w, "Output power: %.2f W\n", res.OutputPower)
	fmt.Fprintf(w, "Driver efficiency: %s\n", util.FormatPercent(res.Efficiency))
	fmt.Fprintf(w, "Estimated input power: %.2f W\n", res.InputPower)
	fmt.Fprintf(w, "Status: %s\n", res.Status)
	for _, issue := range res.Issues {
		fmt.Fprintf(w, " - %s\n", issue)
	}
}

func printSweep(w io.Writer, results []*analysis.Result) {
	fmt.Fprintf(w, "Current Sweep Results (%d points):\n", len(results))
	fmt.Fprintln(w, "Current      Voltage      Power        Efficiency   Input Power  Status")
	fmt.Fprintln(w, "------------------------------------------------------------------------")
	for _, res := range results {
		fmt.Fprintf(w, "%-12s %-12s %-12s %-12s %-12s %s\n",
			util.FormatValueFactor(res.ModuleCurrent, "A"),
			util.FormatValueFactor(res.ModuleVoltage, "V"),
			util.FormatValueFactor(res.OutputPower, "W"),
			util.FormatPercent(res.Efficiency),
			util.FormatValueFactor(res.InputPower, "W"),
			res.Status)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %v", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
