package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexiusacademia/gorail/internal/config"
	"github.com/alexiusacademia/gorail/internal/version"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gorail",
	Short: "Railway Load Generation Tool",
	Long: `gorail - Go Railway Deck Load Generator

A CLI tool that turns railway traffic into finite-element loads
on bridge decks, retaining walls and embankments.

This tool helps structural engineers:
  - Place locomotives on a track and compute wheel positions and loads
  - Spread wheel and rail loads through ballast and pavement onto a deck
  - Split rail loads into vertical, centrifugal, braking and wind groups
  - Combine load groups and find the governing combination
  - Follow a movable load over a row of supports in time
  - Measure the deck twist under a vehicle

Settings are read from GORAIL_LOG_LEVEL, GORAIL_LOG_FORMAT,
GORAIL_TOLERANCE, GORAIL_HISTORY_STEP and GORAIL_TWIST_TOLERANCE.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = config.ParseLevel(logLevel, cfg.LogLevel)
		}
		if logFormat != "" {
			cfg.LogFormat = logFormat
		}
		slog.SetDefault(cfg.NewLogger(os.Stderr))
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gorail v%-48s║\n", version.Version)
		fmt.Println("  ║   Go Railway Deck Load Generator                          ║")
		fmt.Printf("  ║   %-56s║\n", version.Author+" ©  "+version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool that turns railway traffic into finite-element")
		fmt.Println("  loads on decks, walls and embankments.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Wheel positions and dynamic wheel loads")
		fmt.Println("    • Statically equivalent load distribution on node clouds")
		fmt.Println("    • Rail chunks, rail loads and spreading through layers")
		fmt.Println("    • Load combinations of the traffic groups")
		fmt.Println("    • Movable load histories and deck twist")
		fmt.Println()
		fmt.Println("  Use 'gorail --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides GORAIL_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides GORAIL_LOG_FORMAT)")
}

// settings returns the configuration loaded by the root command
func settings() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}
