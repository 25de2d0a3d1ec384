// ABOUTME: Tests for reading export functionality.
// ABOUTME: Covers CSV escaping and JSON, YAML, and XLSX output.
package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/bp/internal/models"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func exportFixture() *models.Reading {
	r := models.NewReading(125, 82).
		WithHeartRate(70).
		WithRecordedAt(time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)).
		WithNotes("Test note")
	r.ID = 1
	return r
}

func TestExportCSV(t *testing.T) {
	got := ExportCSV([]*models.Reading{exportFixture()})
	want := "Date,Systolic,Diastolic,Heart Rate,Notes\n2024-01-15T08:00:00.000Z,125,82,70,Test note"
	if got != want {
		t.Errorf("ExportCSV() =\n%q\nwant\n%q", got, want)
	}
}

func TestExportCSVEmpty(t *testing.T) {
	if got := ExportCSV(nil); got != CSVHeader {
		t.Errorf("ExportCSV(nil) = %q, want header only", got)
	}
}

func TestExportCSVEscaping(t *testing.T) {
	tests := []struct {
		notes string
		want  string
	}{
		{"Note, with, commas", `"Note, with, commas"`},
		{`Note with "quotes"`, `"Note with ""quotes"""`},
		{"line one\nline two", "\"line one\nline two\""},
		{"plain", "plain"},
		{" leading space", " leading space"},
	}

	for _, tt := range tests {
		t.Run(tt.notes, func(t *testing.T) {
			r := exportFixture().WithNotes(tt.notes)
			got := ExportCSV([]*models.Reading{r})
			row := strings.SplitN(got, "\n", 2)[1]
			if !strings.HasSuffix(row, ","+tt.want) {
				t.Errorf("row = %q, want notes field %q", row, tt.want)
			}
		})
	}
}

func TestExportCSVMissingOptionalFields(t *testing.T) {
	r := models.NewReading(118, 76).
		WithRecordedAt(time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC))

	got := ExportCSV([]*models.Reading{r})
	want := CSVHeader + "\n2024-02-01T09:30:00.000Z,118,76,,"
	if got != want {
		t.Errorf("ExportCSV() = %q, want %q", got, want)
	}
}

func TestExportCSVKeepsOrder(t *testing.T) {
	older := exportFixture()
	newer := models.NewReading(140, 90).
		WithRecordedAt(time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC))

	lines := strings.Split(ExportCSV([]*models.Reading{newer, older}), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2024-01-16") || !strings.HasPrefix(lines[2], "2024-01-15") {
		t.Errorf("rows not in input order: %v", lines[1:])
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON([]*models.Reading{exportFixture()})
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var out struct {
		Version  string `json:"version"`
		Tool     string `json:"tool"`
		Readings []struct {
			Systolic   int    `json:"systolic"`
			HeartRate  *int   `json:"heartRate"`
			RecordedAt string `json:"recordedAt"`
		} `json:"readings"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if out.Version != "1.0" || out.Tool != "bp" {
		t.Errorf("metadata = %q/%q", out.Version, out.Tool)
	}
	if len(out.Readings) != 1 {
		t.Fatalf("got %d readings, want 1", len(out.Readings))
	}
	if out.Readings[0].RecordedAt != "2024-01-15T08:00:00.000Z" {
		t.Errorf("recordedAt = %q", out.Readings[0].RecordedAt)
	}
	if out.Readings[0].HeartRate == nil || *out.Readings[0].HeartRate != 70 {
		t.Errorf("heartRate = %v, want 70", out.Readings[0].HeartRate)
	}
}

func TestExportJSONEmpty(t *testing.T) {
	data, err := ExportJSON(nil)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !bytes.Contains(data, []byte(`"readings": []`)) {
		t.Errorf("expected empty readings array, got %s", data)
	}
}

func TestExportYAML(t *testing.T) {
	crisis := models.NewReading(185, 95).
		WithRecordedAt(time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC))

	data, err := ExportYAML([]*models.Reading{exportFixture(), crisis})
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var out struct {
		Tool     string `yaml:"tool"`
		Readings []struct {
			Category  string `yaml:"category"`
			HeartRate int    `yaml:"heart_rate"`
			Notes     string `yaml:"notes"`
		} `yaml:"readings"`
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}

	if len(out.Readings) != 2 {
		t.Fatalf("got %d readings, want 2", len(out.Readings))
	}
	if out.Readings[0].Category != "high_stage_1" {
		t.Errorf("first category = %q, want high_stage_1", out.Readings[0].Category)
	}
	if out.Readings[1].Category != "crisis" {
		t.Errorf("second category = %q, want crisis", out.Readings[1].Category)
	}
	if out.Readings[0].Notes != "Test note" {
		t.Errorf("notes = %q", out.Readings[0].Notes)
	}
	if out.Readings[1].HeartRate != 0 {
		t.Errorf("absent heart rate should be omitted, got %d", out.Readings[1].HeartRate)
	}
}

func TestExportXLSX(t *testing.T) {
	noHR := models.NewReading(118, 76).
		WithRecordedAt(time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC))

	data, err := ExportXLSX([]*models.Reading{exportFixture(), noHR})
	if err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	wantHeader := []string{"Date", "Systolic", "Diastolic", "Heart Rate", "Category", "Notes"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}

	if rows[1][0] != "2024-01-15T08:00:00.000Z" || rows[1][1] != "125" || rows[1][3] != "70" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[1][4] != "High Blood Pressure (Stage 1)" {
		t.Errorf("category = %q, want stage 1 label", rows[1][4])
	}
	if rows[2][3] != "" {
		t.Errorf("absent heart rate should be blank, got %q", rows[2][3])
	}
}
