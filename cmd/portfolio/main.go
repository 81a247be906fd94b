// Package main provides the portfolio CLI: the HTTP API server and the
// offline tools that share its résumé, layout and streaming packages.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site API server and résumé tools",
	Long: `Portfolio serves a single résumé over a REST API with an AI assistant that
answers questions about it, and renders the same résumé to PDF.

Configuration can be loaded from a JSON or YAML file using --config. Command-line
arguments override config file values.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file, .json or .yaml (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

// loadConfig reads --config when set. The result is empty otherwise.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Config{Verbose: verbose}, nil
	}
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return config.Config{}, err
	}
	if verbose {
		_, _ = fmt.Fprintf(os.Stderr, "Loaded config from: %s\n", configPath)
	}
	loaded.Verbose = loaded.Verbose || verbose
	return *loaded, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
