// ABOUTME: Reading model for blood-pressure observations.
// ABOUTME: Defines the entity, its JSON form, and the stored timestamp layout.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the UTC text form recorded_at is stored in.
// It sorts lexicographically, so string comparison in SQL matches time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Valid ranges for each field, inclusive.
const (
	SystolicMin  = 60
	SystolicMax  = 250
	DiastolicMin = 40
	DiastolicMax = 150
	HeartRateMin = 40
	HeartRateMax = 200
)

// Reading represents a single blood-pressure and heart-rate observation.
type Reading struct {
	ID         int64
	Systolic   int
	Diastolic  int
	HeartRate  *int
	RecordedAt time.Time
	Notes      *string
}

// NewReading creates an unsaved Reading. ID and RecordedAt are assigned by
// the store unless RecordedAt is set explicitly.
func NewReading(systolic, diastolic int) *Reading {
	return &Reading{
		Systolic:  systolic,
		Diastolic: diastolic,
	}
}

// WithHeartRate sets the heart rate.
func (r *Reading) WithHeartRate(bpm int) *Reading {
	r.HeartRate = &bpm
	return r
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (r *Reading) WithRecordedAt(t time.Time) *Reading {
	r.RecordedAt = t
	return r
}

// WithNotes sets notes on the reading.
func (r *Reading) WithNotes(notes string) *Reading {
	r.Notes = &notes
	return r
}

// HeartRateValue returns the heart rate, or 0 when it was not recorded.
func (r *Reading) HeartRateValue() int {
	if r.HeartRate == nil {
		return 0
	}
	return *r.HeartRate
}

// RecordedAtString returns RecordedAt in TimestampLayout.
func (r *Reading) RecordedAtString() string {
	return FormatTimestamp(r.RecordedAt)
}

// FormatTimestamp renders t in TimestampLayout (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored recorded_at value. Besides TimestampLayout it
// accepts RFC 3339 and SQLite's CURRENT_TIMESTAMP form.
func ParseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		TimestampLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.000",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

type readingJSON struct {
	ID         int64   `json:"id"`
	Systolic   int     `json:"systolic"`
	Diastolic  int     `json:"diastolic"`
	HeartRate  *int    `json:"heartRate"`
	RecordedAt string  `json:"recordedAt"`
	Notes      *string `json:"notes"`
}

// MarshalJSON renders recordedAt in TimestampLayout and absent fields as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	return json.Marshal(readingJSON{
		ID:         r.ID,
		Systolic:   r.Systolic,
		Diastolic:  r.Diastolic,
		HeartRate:  r.HeartRate,
		RecordedAt: r.RecordedAtString(),
		Notes:      r.Notes,
	})
}

// UnmarshalJSON accepts the form produced by MarshalJSON.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var raw readingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Reading{
		ID:        raw.ID,
		Systolic:  raw.Systolic,
		Diastolic: raw.Diastolic,
		HeartRate: raw.HeartRate,
		Notes:     raw.Notes,
	}
	if raw.RecordedAt != "" {
		t, err := ParseTimestamp(raw.RecordedAt)
		if err != nil {
			return err
		}
		r.RecordedAt = t
	}
	return nil
}
