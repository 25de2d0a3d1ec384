// ABOUTME: Shared CLI formatting helpers.
// ABOUTME: Parses user timestamps and IDs and colours readings by category.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/models"
	"github.com/harperreed/bp/internal/parser"
)

var faint = color.New(color.Faint)

var categoryColors = map[classify.Category]*color.Color{
	classify.Normal:     color.New(color.FgGreen),
	classify.Elevated:   color.New(color.FgYellow),
	classify.HighStage1: color.New(color.FgHiYellow),
	classify.HighStage2: color.New(color.FgRed),
	classify.Crisis:     color.New(color.FgRed, color.Bold),
}

// categoryLabel renders a category label in its colour.
func categoryLabel(c classify.Category) string {
	if col, ok := categoryColors[c]; ok {
		return col.Sprint(c.Label())
	}
	return c.Label()
}

// formatReading renders "120/80" or "120/80 72bpm".
func formatReading(r *models.Reading) string {
	s := fmt.Sprintf("%d/%d", r.Systolic, r.Diastolic)
	if r.HeartRate != nil {
		s += fmt.Sprintf(" %dbpm", *r.HeartRate)
	}
	return s
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// parseDate parses a YYYY-MM-DD flag as midnight UTC.
func parseDate(flag, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date: %s (use YYYY-MM-DD)", flag, s)
	}
	return &t, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid reading ID: %s", s)
	}
	return id, nil
}

// validationMessage flattens parser errors into one line.
func validationMessage(err error) error {
	var verr *parser.ValidationError
	if errors.As(err, &verr) {
		return errors.New(strings.Join(verr.Messages(), "; "))
	}
	return err
}

// truncate shortens s to maxLen runes, ending with "..." when cut.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
