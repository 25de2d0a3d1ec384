// ABOUTME: CLI command for exporting readings.
// ABOUTME: Supports CSV, JSON, YAML, and XLSX formats with a date range.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/bp/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export readings",
	Long: `Export readings in various formats, newest first.

FORMATS:

  csv    Date,Systolic,Diastolic,Heart Rate,Notes (spreadsheet friendly)
  json   Full JSON export (suitable for backup)
  yaml   YAML export with categories (human-readable)
  xlsx   Excel workbook (requires --output)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --from         Only include readings on or after this date (YYYY-MM-DD)
  --to           Only include readings on or before this date (YYYY-MM-DD)

EXAMPLES:

  bp export csv                              # CSV to stdout
  bp export csv -o bp.csv --from 2024-01-01  # 2024 onward to a file
  bp export json -o backup.json              # JSON backup
  bp export xlsx -o readings.xlsx            # Excel workbook`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"csv", "json", "yaml", "xlsx"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		from, err := parseDate("from", exportFrom)
		if err != nil {
			return err
		}
		to, err := parseDate("to", exportTo)
		if err != nil {
			return err
		}
		if to != nil {
			end := to.Add(24*time.Hour - time.Millisecond)
			to = &end
		}

		readings, err := store.Range(cmd.Context(), from, to)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch format {
		case "csv":
			data = []byte(storage.ExportCSV(readings))
		case "json":
			data, err = storage.ExportJSON(readings)
		case "yaml":
			data, err = storage.ExportYAML(readings)
		case "xlsx":
			if exportOutput == "" {
				return fmt.Errorf("xlsx export requires --output")
			}
			data, err = storage.ExportXLSX(readings)
		default:
			return fmt.Errorf("unknown format: %s (use csv, json, yaml, or xlsx)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported %d readings to %s", len(readings), exportOutput))
			return nil
		}

		if len(data) > 0 && data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "only include readings since date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "only include readings until date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
}
