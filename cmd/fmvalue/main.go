package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexshd/fmvalue"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fmvalue",
		Short: "Foundation-model value estimator for fusion power programs",
		Long: `fmvalue quantifies how much economic value a foundation model adds to a
first-of-a-kind fusion program. It chains experiment cadence, schedule
risk, fleet adoption, learning curves, and plant economics into an LCOE
trajectory, then compares a baseline scenario against an FM-assisted one
under Monte Carlo uncertainty.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML config (default: built-in defaults)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Debug-level logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newCentralCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func loadConfig(cmd *cobra.Command) (fmvalue.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return fmvalue.DefaultConfig(), nil
	}
	return fmvalue.LoadConfig(path)
}

func writeJSON(path string, v any) error {
	out := os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fmvalue version %s\n", version)
		},
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Monte Carlo analysis and print quantile bands as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			mc := fmvalue.DefaultMCConfig()
			mc.Logger = log
			if v, _ := cmd.Flags().GetInt("trials"); v > 0 {
				mc.Trials = v
			}
			if cmd.Flags().Changed("seed") {
				mc.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
				mc.Workers = v
			}

			res, err := fmvalue.RunMonteCarlo(cmd.Context(), cfg, mc)
			if err != nil {
				return err
			}

			last := len(res.Years) - 1
			log.Info("horizon summary",
				"year", res.Years[last],
				"lcoe_median", res.WithFM.LCOE.Median[last],
				"lcoe_lower", res.WithFM.LCOE.Lower[last],
				"lcoe_upper", res.WithFM.LCOE.Upper[last],
				"savings_median_usd", res.Metrics.TotalSavingsUSD.Median,
				"parity_share", res.Metrics.ParityShare,
			)

			output, _ := cmd.Flags().GetString("output")
			return writeJSON(output, res)
		},
	}

	cmd.Flags().Int("trials", 0, "Number of Monte Carlo trials (default 1000)")
	cmd.Flags().Int64("seed", 0, "Base random seed (default 42)")
	cmd.Flags().Int("workers", 0, "Parallel workers (default: all cores)")
	cmd.Flags().String("output", "", "Write JSON result to file instead of stdout")
	return cmd
}

func newCentralCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "central",
		Short: "Run the deterministic central scenario and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			res, err := fmvalue.RunDeterministic(cfg)
			if err != nil {
				return err
			}

			log.Info("central run complete",
				"lcoe_at_horizon", res.Metrics.LCOEAtHorizon,
				"parity_year", res.Metrics.ParityYear,
				"delta_cod_years", res.Metrics.DeltaCODYears,
			)

			output, _ := cmd.Flags().GetString("output")
			return writeJSON(output, res)
		},
	}

	cmd.Flags().String("output", "", "Write JSON result to file instead of stdout")
	return cmd
}
