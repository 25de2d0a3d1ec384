// ABOUTME: CLI command for summary statistics.
// ABOUTME: Prints averages, date range, category counts, and trend.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/stats"
	"github.com/harperreed/bp/internal/storage"
	"github.com/spf13/cobra"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics",
	Long: `Show averages, date range, category breakdown, and systolic trend.

The trend compares the three most recent readings against readings from
halfway back; at least 6 readings are needed, otherwise it reports stable.

EXAMPLES:

  bp stats              # All readings
  bp stats --days 30    # Last 30 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var since *time.Time
		if cmd.Flags().Changed("days") {
			if statsDays < 1 {
				return fmt.Errorf("invalid --days: must be a positive integer")
			}
			t := storage.DaysAgo(time.Now(), statsDays)
			since = &t
		}

		readings, err := store.Range(cmd.Context(), since, nil)
		if err != nil {
			return fmt.Errorf("failed to load readings: %w", err)
		}

		out := cmd.OutOrStdout()
		s := stats.Summarize(readings)
		if s.Count == 0 {
			fmt.Fprintln(out, "No readings found.")
			return nil
		}

		fmt.Fprintf(out, "Readings:   %d (%s to %s)\n", s.Count,
			s.FirstDate.Local().Format("2006-01-02"),
			s.LastDate.Local().Format("2006-01-02"))
		fmt.Fprintf(out, "Average:    %d/%d", s.AvgSystolic, s.AvgDiastolic)
		if s.AvgHeartRate > 0 {
			fmt.Fprintf(out, " %dbpm", s.AvgHeartRate)
		}
		fmt.Fprintf(out, "  %s\n", categoryLabel(classify.Classify(s.AvgSystolic, s.AvgDiastolic)))
		fmt.Fprintf(out, "Latest:     %s  %s\n", formatReading(s.Latest), categoryLabel(s.LatestCategory))
		fmt.Fprintf(out, "Trend:      %s\n", trendLabel(s.Trend))

		fmt.Fprintln(out, "Categories:")
		for _, c := range classify.All {
			if n := s.Categories[c]; n > 0 {
				fmt.Fprintf(out, "  %s %d\n", padRight(c.Label(), 30), n)
			}
		}

		return nil
	},
}

func trendLabel(t stats.Trend) string {
	switch t {
	case stats.Improving:
		return color.GreenString("↓ improving")
	case stats.Worsening:
		return color.RedString("↑ worsening")
	default:
		return "→ stable"
	}
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 0, "only readings from the last N days")
	rootCmd.AddCommand(statsCmd)
}
