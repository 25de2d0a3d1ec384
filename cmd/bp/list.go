// ABOUTME: CLI command for listing blood-pressure readings.
// ABOUTME: Supports paging and a trailing day window.
package main

import (
	"fmt"

	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listOffset int
	listDays   int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List blood-pressure readings",
	Long: `List readings, newest first.

OUTPUT FORMAT:

  Each line shows: ID  TIMESTAMP  READING  CATEGORY  (NOTES)

  Use the ID with 'bp show' and 'bp delete'.

EXAMPLES:

  bp list                  # Last 20 readings
  bp list -n 50            # Last 50 readings
  bp list --offset 20      # Next page
  bp list --days 7         # Only the past week`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := storage.QueryOptions{Limit: &listLimit, Offset: listOffset}
		if cmd.Flags().Changed("days") {
			opts.SinceDays = &listDays
		}

		result, err := store.Query(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to list readings: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.Records) == 0 {
			fmt.Fprintln(out, "No readings found.")
			return nil
		}

		for _, r := range result.Records {
			notes := ""
			if r.Notes != nil && *r.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*r.Notes, 30))
			}
			fmt.Fprintf(out, "%s %s %s %s%s\n",
				faint.Sprint(padRight(fmt.Sprintf("#%d", r.ID), 6)),
				faint.Sprint(r.RecordedAt.Local().Format("2006-01-02 15:04")),
				padRight(formatReading(r), 14),
				categoryLabel(classify.Classify(r.Systolic, r.Diastolic)),
				notes)
		}

		first := result.Offset + 1
		last := result.Offset + len(result.Records)
		fmt.Fprintln(out, faint.Sprintf("Showing %d-%d of %d", first, last, result.Total))

		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of readings to skip")
	listCmd.Flags().IntVar(&listDays, "days", 0, "only readings from the last N days")
	rootCmd.AddCommand(listCmd)
}
