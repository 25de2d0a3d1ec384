// ABOUTME: CLI command for deleting blood-pressure readings.
// ABOUTME: Shows the reading being removed before deleting it.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bp/internal/storage"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a reading",
	Long: `Delete a reading by its ID.

The ID is shown in the first column of 'bp list' output.

CAUTION:

  This permanently deletes the reading. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		// First, fetch the reading to show what we're deleting
		r, err := store.GetByID(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("reading not found: %d", id)
			}
			return err
		}

		if _, err := store.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete reading: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.YellowString("✗ Deleted reading"))
		fmt.Fprintf(out, "  %s %s\n", faint.Sprintf("#%d", r.ID), formatReading(r))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
