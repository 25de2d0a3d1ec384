// ABOUTME: CLI command for showing a single reading.
// ABOUTME: Prints all fields and the reading's category.
package main

import (
	"errors"
	"fmt"

	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/storage"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		r, err := store.GetByID(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("reading not found: %d", id)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Reading #%d\n", r.ID)
		fmt.Fprintf(out, "  Recorded:   %s\n", r.RecordedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  Systolic:   %d mmHg\n", r.Systolic)
		fmt.Fprintf(out, "  Diastolic:  %d mmHg\n", r.Diastolic)
		if r.HeartRate != nil {
			fmt.Fprintf(out, "  Heart rate: %d bpm\n", *r.HeartRate)
		}
		fmt.Fprintf(out, "  Category:   %s\n", categoryLabel(classify.Classify(r.Systolic, r.Diastolic)))
		if r.Notes != nil && *r.Notes != "" {
			fmt.Fprintf(out, "  Notes:      %s\n", *r.Notes)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
