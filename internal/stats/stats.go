// ABOUTME: Summary statistics over a set of readings.
// ABOUTME: Computes averages, date range, latest reading, and a systolic trend.
package stats

import (
	"math"
	"time"

	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/models"
)

// Trend describes the direction of recent systolic readings.
type Trend string

const (
	Improving Trend = "improving"
	Stable    Trend = "stable"
	Worsening Trend = "worsening"
)

const (
	// MinTrendReadings is the fewest readings for which a trend is computed.
	MinTrendReadings = 6
	trendWindow      = 3
	trendThreshold   = 5.0
)

// Summary is the statistics view over a set of readings. Systolic and
// diastolic averages cover every reading; AvgHeartRate covers only readings
// that have a heart rate and is 0 when none do.
type Summary struct {
	Count          int                       `json:"count"`
	AvgSystolic    int                       `json:"avgSystolic"`
	AvgDiastolic   int                       `json:"avgDiastolic"`
	AvgHeartRate   int                       `json:"avgHeartRate"`
	FirstDate      *time.Time                `json:"firstDate"`
	LastDate       *time.Time                `json:"lastDate"`
	Latest         *models.Reading           `json:"latest"`
	LatestCategory classify.Category         `json:"latestCategory,omitempty"`
	Categories     map[classify.Category]int `json:"categories"`
	Trend          Trend                     `json:"trend"`
}

// Summarize computes a Summary. Readings must be ordered newest first; Latest
// is the first element as given, not the one with the greatest timestamp.
func Summarize(readings []*models.Reading) Summary {
	s := Summary{
		Categories: make(map[classify.Category]int, len(classify.All)),
		Trend:      Stable,
	}
	if len(readings) == 0 {
		return s
	}

	var sumSys, sumDia, sumHR, countHR int
	first := readings[0].RecordedAt
	last := readings[0].RecordedAt

	for _, r := range readings {
		sumSys += r.Systolic
		sumDia += r.Diastolic
		if r.HeartRate != nil {
			sumHR += *r.HeartRate
			countHR++
		}
		if r.RecordedAt.Before(first) {
			first = r.RecordedAt
		}
		if r.RecordedAt.After(last) {
			last = r.RecordedAt
		}
		s.Categories[classify.Classify(r.Systolic, r.Diastolic)]++
	}

	n := len(readings)
	s.Count = n
	s.AvgSystolic = roundHalfUp(float64(sumSys) / float64(n))
	s.AvgDiastolic = roundHalfUp(float64(sumDia) / float64(n))
	if countHR > 0 {
		s.AvgHeartRate = roundHalfUp(float64(sumHR) / float64(countHR))
	}
	s.FirstDate = &first
	s.LastDate = &last
	s.Latest = readings[0]
	s.LatestCategory = classify.Classify(s.Latest.Systolic, s.Latest.Diastolic)
	s.Trend = ComputeTrend(readings)

	return s
}

// ComputeTrend compares mean systolic of the most recent readings against the
// readings starting halfway through the list. Fewer than MinTrendReadings
// readings is always Stable.
func ComputeTrend(readings []*models.Reading) Trend {
	n := len(readings)
	if n < MinTrendReadings {
		return Stable
	}

	half := n / 2
	recent := readings[:min(trendWindow, half)]
	older := readings[half : half+min(trendWindow, n-half)]

	diff := meanSystolic(recent) - meanSystolic(older)
	switch {
	case diff < -trendThreshold:
		return Improving
	case diff > trendThreshold:
		return Worsening
	default:
		return Stable
	}
}

func meanSystolic(readings []*models.Reading) float64 {
	var sum int
	for _, r := range readings {
		sum += r.Systolic
	}
	return float64(sum) / float64(len(readings))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
