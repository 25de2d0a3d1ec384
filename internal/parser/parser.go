// ABOUTME: Parses blood-pressure shorthand ("120/80/72") into validated values.
// ABOUTME: Collects every field problem instead of stopping at the first.
package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/harperreed/bp/internal/models"
)

// Values holds the numeric fields parsed from one reading.
type Values struct {
	Systolic  int
	Diastolic int
	HeartRate *int
}

// Field names used in FieldError.
const (
	FieldInput     = "input"
	FieldSystolic  = "systolic"
	FieldDiastolic = "diastolic"
	FieldHeartRate = "heartRate"
)

type fieldRule struct {
	name  string
	label string
	min   int
	max   int
}

var (
	systolicRule  = fieldRule{FieldSystolic, "Systolic", models.SystolicMin, models.SystolicMax}
	diastolicRule = fieldRule{FieldDiastolic, "Diastolic", models.DiastolicMin, models.DiastolicMax}
	heartRateRule = fieldRule{FieldHeartRate, "Heart rate", models.HeartRateMin, models.HeartRateMax}
)

// Parse converts shorthand text such as "120/80" or "120/80/72" into Values.
// On failure it returns a *ValidationError listing every problem found.
func Parse(text string) (Values, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Values{}, newValidationError(FieldError{
			Field:   FieldInput,
			Kind:    EmptyInput,
			Message: "Input is required",
		})
	}

	segments := strings.Split(text, "/")
	if len(segments) != 2 && len(segments) != 3 {
		return Values{}, newValidationError(FieldError{
			Field:   FieldInput,
			Kind:    InvalidFormat,
			Message: "Invalid format. Use systolic/diastolic or systolic/diastolic/heartRate (e.g. 120/80 or 120/80/72)",
		})
	}

	var (
		vals Values
		errs []FieldError
	)

	if n, fe := parseField(segments[0], systolicRule); fe != nil {
		errs = append(errs, *fe)
	} else {
		vals.Systolic = n
	}

	if n, fe := parseField(segments[1], diastolicRule); fe != nil {
		errs = append(errs, *fe)
	} else {
		vals.Diastolic = n
	}

	if len(segments) == 3 {
		if n, fe := parseField(segments[2], heartRateRule); fe != nil {
			errs = append(errs, *fe)
		} else {
			vals.HeartRate = &n
		}
	}

	if len(errs) > 0 {
		return Values{}, newValidationError(errs...)
	}
	return vals, nil
}

// Validate applies the same range checks to structured input. A nil systolic
// or diastolic is reported as missing; a nil heart rate is allowed.
func Validate(systolic, diastolic, heartRate *int) (Values, error) {
	var (
		vals Values
		errs []FieldError
	)

	required := func(v *int, rule fieldRule) (int, bool) {
		if v == nil {
			errs = append(errs, FieldError{
				Field:   rule.name,
				Kind:    Required,
				Message: rule.label + " is required",
			})
			return 0, false
		}
		if fe := checkRange(*v, rule); fe != nil {
			errs = append(errs, *fe)
			return 0, false
		}
		return *v, true
	}

	if n, ok := required(systolic, systolicRule); ok {
		vals.Systolic = n
	}
	if n, ok := required(diastolic, diastolicRule); ok {
		vals.Diastolic = n
	}
	if heartRate != nil {
		if fe := checkRange(*heartRate, heartRateRule); fe != nil {
			errs = append(errs, *fe)
		} else {
			hr := *heartRate
			vals.HeartRate = &hr
		}
	}

	if len(errs) > 0 {
		return Values{}, newValidationError(errs...)
	}
	return vals, nil
}

// decimalPattern accepts plain decimal notation only; exponents, hex floats
// and words such as "Inf" are not numbers here.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// parseField truncates a numeric segment toward zero and range-checks it.
func parseField(segment string, rule fieldRule) (int, *FieldError) {
	segment = strings.TrimSpace(segment)
	if !decimalPattern.MatchString(segment) {
		return 0, notANumber(rule)
	}

	f, err := strconv.ParseFloat(segment, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, notANumber(rule)
	}

	// Values far outside int range are still out of range, just clamp them.
	f = math.Trunc(f)
	if f > math.MaxInt32 {
		f = math.MaxInt32
	} else if f < math.MinInt32 {
		f = math.MinInt32
	}
	n := int(f)

	if fe := checkRange(n, rule); fe != nil {
		return 0, fe
	}
	return n, nil
}

func notANumber(rule fieldRule) *FieldError {
	return &FieldError{
		Field:   rule.name,
		Kind:    NotANumber,
		Message: rule.label + " must be a number",
	}
}

func checkRange(n int, rule fieldRule) *FieldError {
	if n < rule.min || n > rule.max {
		return &FieldError{
			Field:   rule.name,
			Kind:    OutOfRange,
			Message: fmt.Sprintf("%s must be between %d and %d", rule.label, rule.min, rule.max),
		}
	}
	return nil
}
