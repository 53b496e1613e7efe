package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LNshuti/energy/pkg/config"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "energy",
	Short: "Technical indicator gallery for energy-sector companies",
	Long: `Energy indicator gallery

Computes SMA, MACD, RSI and Bollinger Bands over daily price history
and renders each as a PNG chart with the company's market cap.

Usage:
  go run ./cmd/energy [command]

Examples:
  go run ./cmd/energy serve
  go run ./cmd/energy companies
  go run ./cmd/energy plot --company "Exxon Mobil" --all --out ./charts`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production|test)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads the environment and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}
