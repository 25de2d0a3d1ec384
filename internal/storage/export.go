// ABOUTME: Export functionality for blood-pressure readings.
// ABOUTME: Supports CSV, JSON, YAML, and XLSX export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/models"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// CSVHeader is the fixed header row of a CSV export.
const CSVHeader = "Date,Systolic,Diastolic,Heart Rate,Notes"

// ExportCSV renders readings as CSV in the order given. Rows are joined by
// "\n" with no trailing newline; an empty slice yields only the header.
func ExportCSV(readings []*models.Reading) string {
	var sb strings.Builder
	sb.WriteString(CSVHeader)

	for _, r := range readings {
		heartRate := ""
		if r.HeartRate != nil {
			heartRate = strconv.Itoa(*r.HeartRate)
		}
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}

		sb.WriteByte('\n')
		sb.WriteString(strings.Join([]string{
			escapeCSVField(r.RecordedAtString()),
			strconv.Itoa(r.Systolic),
			strconv.Itoa(r.Diastolic),
			heartRate,
			escapeCSVField(notes),
		}, ","))
	}

	return sb.String()
}

// escapeCSVField quotes a field only when it contains a comma, quote, or line
// break, doubling any embedded quotes.
func escapeCSVField(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportData represents the full JSON export format.
type ExportData struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Tool       string            `json:"tool"`
	Readings   []*models.Reading `json:"readings"`
}

// ExportJSON renders readings with export metadata as indented JSON.
func ExportJSON(readings []*models.Reading) ([]byte, error) {
	if readings == nil {
		readings = []*models.Reading{}
	}
	return json.MarshalIndent(ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "bp",
		Readings:   readings,
	}, "", "  ")
}

type yamlReading struct {
	ID         int64  `yaml:"id"`
	Systolic   int    `yaml:"systolic"`
	Diastolic  int    `yaml:"diastolic"`
	HeartRate  int    `yaml:"heart_rate,omitempty"`
	Category   string `yaml:"category"`
	RecordedAt string `yaml:"recorded_at"`
	Notes      string `yaml:"notes,omitempty"`
}

// ExportYAML renders readings as YAML, annotated with their category.
func ExportYAML(readings []*models.Reading) ([]byte, error) {
	yamlData := struct {
		Version    string        `yaml:"version"`
		ExportedAt string        `yaml:"exported_at"`
		Tool       string        `yaml:"tool"`
		Readings   []yamlReading `yaml:"readings"`
	}{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "bp",
		Readings:   make([]yamlReading, 0, len(readings)),
	}

	for _, r := range readings {
		yr := yamlReading{
			ID:         r.ID,
			Systolic:   r.Systolic,
			Diastolic:  r.Diastolic,
			HeartRate:  r.HeartRateValue(),
			Category:   string(classify.Classify(r.Systolic, r.Diastolic)),
			RecordedAt: r.RecordedAtString(),
		}
		if r.Notes != nil {
			yr.Notes = *r.Notes
		}
		yamlData.Readings = append(yamlData.Readings, yr)
	}

	return yaml.Marshal(yamlData)
}

const xlsxSheet = "Readings"

// ExportXLSX renders readings as a single-sheet Excel workbook with a frozen
// header row and a category column.
func ExportXLSX(readings []*models.Reading) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Date", "Systolic", "Diastolic", "Heart Rate", "Category", "Notes"}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range readings {
		var heartRate any
		if r.HeartRate != nil {
			heartRate = *r.HeartRate
		}
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		row := []any{
			r.RecordedAtString(),
			r.Systolic,
			r.Diastolic,
			heartRate,
			classify.Classify(r.Systolic, r.Diastolic).Label(),
			notes,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
