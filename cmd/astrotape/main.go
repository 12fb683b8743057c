// astrotape is a deterministic asteroids game whose every run can be proven.
//
// A run is recorded as a compact input tape. Replaying the tape through the
// fixed-point simulation reproduces the run bit for bit, so a claimed score
// is either verified or exposed.
//
// Usage:
//
//	astrotape play               - Play in the terminal, recording a tape
//	astrotape replay <tape>      - Re-run a tape headless and print the outcome
//	astrotape verify <tape>      - Strictly verify a tape's claimed score
//	astrotape inspect <tape>     - Print a tape's header and footer
//	astrotape scores             - Show the local leaderboard
//	astrotape bench              - Measure replay throughput
//	astrotape serve              - Serve games over SSH
//
// Global flags:
//
//	--config <path>  - Custom config file
//	--db <path>      - Override the run database path
//	--log-level <l>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/astrotape/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "astrotape",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "astrotape",
	Short: "Deterministic asteroids with verifiable score tapes",
	Long: `astrotape is an asteroids game built on a deterministic fixed-point
simulation. Every run records the player's inputs into a tape; anyone
holding the tape can replay it and check the claimed score.

Examples:
  astrotape play
  astrotape play --seed 12345
  astrotape verify run.tape
  astrotape replay run.tape --checkpoints 600
  astrotape scores
  astrotape serve`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
			logger.SetLevel(lvl)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the effective configuration from the config file and
// global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Database.Path = flagDBPath
	}
	if flagLogLevel == "" && cfg.Log.Level != "" {
		if lvl, lvlErr := log.ParseLevel(cfg.Log.Level); lvlErr == nil {
			logger.SetLevel(lvl)
		}
	}
	return cfg
}
