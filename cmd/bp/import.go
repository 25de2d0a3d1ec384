// ABOUTME: CLI command for restoring readings from a JSON export.
// ABOUTME: Validates every reading before writing any of them.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/bp/internal/parser"
	"github.com/harperreed/bp/internal/storage"
	"github.com/spf13/cobra"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import readings from a JSON export",
	Long: `Import readings from a file produced by 'bp export json'.

Readings get new IDs. Nothing is written if any reading fails validation.

USAGE:

  bp import backup.json --dry-run   # Preview what would be imported
  bp import backup.json             # Perform the import`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		readings, err := storage.ParseJSONExport(data)
		if err != nil {
			return err
		}

		for i, r := range readings {
			sys, dia := r.Systolic, r.Diastolic
			if _, err := parser.Validate(&sys, &dia, r.HeartRate); err != nil {
				return fmt.Errorf("reading %d: %w", i+1, validationMessage(err))
			}
		}

		out := cmd.OutOrStdout()
		if importDryRun {
			fmt.Fprintln(out, color.YellowString("Dry run mode - no changes will be made"))
			fmt.Fprintf(out, "Would import %d readings from %s\n", len(readings), args[0])
			return nil
		}

		for i, r := range readings {
			if _, err := store.Create(cmd.Context(), r); err != nil {
				return fmt.Errorf("import stopped after %d readings: %w", i, err)
			}
		}

		fmt.Fprintln(out, color.GreenString("✓ Imported %d readings from %s", len(readings), args[0]))
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "preview import without making changes")
	rootCmd.AddCommand(importCmd)
}
