// ABOUTME: CLI command for adding blood-pressure readings.
// ABOUTME: Accepts systolic/diastolic[/heartRate] shorthand.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/models"
	"github.com/harperreed/bp/internal/parser"
	"github.com/spf13/cobra"
)

var (
	addAt    string
	addNotes string
)

var addCmd = &cobra.Command{
	Use:     "add <systolic/diastolic[/heartRate]>",
	Aliases: []string{"a"},
	Short:   "Add a blood-pressure reading",
	Long: `Add a blood-pressure reading using shorthand notation.

Systolic must be 60-250, diastolic 40-150, and heart rate (optional) 40-200.
Decimal values are truncated.

Examples:
  bp add 120/80
  bp add 135/85/72
  bp add 128/82 --at "2024-12-14 07:00"
  bp add 142/91/80 --notes "after coffee"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parser.Parse(args[0])
		if err != nil {
			return validationMessage(err)
		}

		r := models.NewReading(values.Systolic, values.Diastolic)
		r.HeartRate = values.HeartRate

		// Handle --at flag
		if addAt != "" {
			t, err := parseTime(addAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addAt)
			}
			r.WithRecordedAt(t)
		}

		// Handle --notes flag
		if addNotes != "" {
			r.WithNotes(addNotes)
		}

		created, err := store.Create(cmd.Context(), r)
		if err != nil {
			return fmt.Errorf("failed to add reading: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added reading"))
		fmt.Fprintf(out, "  %s %s  %s\n",
			faint.Sprintf("#%d", created.ID),
			formatReading(created),
			categoryLabel(classify.Classify(created.Systolic, created.Diastolic)))

		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notes for the reading")
	rootCmd.AddCommand(addCmd)
}
