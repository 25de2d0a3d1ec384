// ABOUTME: Root Cobra command for bp CLI.
// ABOUTME: Loads config and manages the store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/bp/internal/config"
	"github.com/harperreed/bp/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	store  *storage.DB
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "bp",
	Short: "Personal blood-pressure tracker",
	Long: `bp is a CLI tool for tracking blood-pressure readings.

QUICK START:

  $ bp add 120/80                    # Log systolic/diastolic
  $ bp add 135/85/72 --notes "gym"   # Log with heart rate and notes
  $ bp list                          # See recent readings
  $ bp stats --days 30               # Averages, categories, and trend
  $ bp export csv -o readings.csv    # Export for your doctor

CATEGORIES:

  Normal               below 120/80
  Elevated             120-129 systolic and below 80 diastolic
  Stage 1              130-139 systolic or 80-89 diastolic
  Stage 2              140+ systolic or 90+ diastolic
  Hypertensive Crisis  180+ systolic or 120+ diastolic

SERVERS:

  $ bp serve     # HTTP API on 127.0.0.1:8080
  $ bp mcp       # Model Context Protocol server on stdio

CONFIGURATION:

  Settings live in ~/.config/bp/config.json and can be overridden with
  BP_ environment variables (BP_DATA_DIR, BP_SERVER_PORT, BP_LOG_LEVEL)
  or a .env file in the working directory.

DATA STORAGE:

  Readings are stored in SQLite at ~/.local/share/bp/bp.db.
  Use --db to point at a different file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if dbPath != "" {
			store, err = storage.Open(dbPath)
		} else {
			store, err = cfg.OpenStorage()
		}
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// Execute runs the root command, closing the store even when a command fails.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeStore(); err == nil {
		err = cerr
	}
	return err
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: <data_dir>/bp.db)")
}
