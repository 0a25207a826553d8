// Package cli implements the command-line interface for bitcube.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SeamusWaldron/bitcube/internal/config"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath     string
	configPath string
	verbose    bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "bitcube",
	Short: "Perfect 8x8x8 bit cube search",
	Long: `bitcube - search for perfect 8x8x8 bit cubes.

A perfect cube has every one of its 192 axis-aligned lines holding exactly
four set bits, and its 64 rows are 64 distinct byte values. Two search
strategies are available: stacking precomputed layers (assemble) and
stacking rotation orbits (orbits). Runs and discoveries are recorded in a
local SQLite database.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		path := configPath
		if path == "" {
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		if cfg, err = config.Load(path); err != nil {
			return err
		}
		logger.Debug("config loaded", zap.String("path", path), zap.Int("threads", cfg.Threads))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.bitcube/bitcube.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.bitcube/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// getDBPath returns the database path from flag, config, or "" for the
// default.
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.DBPath
}
