// ABOUTME: AHA blood-pressure category classification.
// ABOUTME: Rules are checked most severe first; the first match wins.
package classify

// Category is one of the five AHA blood-pressure categories.
type Category string

const (
	Normal     Category = "normal"
	Elevated   Category = "elevated"
	HighStage1 Category = "high_stage_1"
	HighStage2 Category = "high_stage_2"
	Crisis     Category = "crisis"
)

// All lists the categories from least to most severe.
var All = []Category{Normal, Elevated, HighStage1, HighStage2, Crisis}

var labels = map[Category]string{
	Normal:     "Normal",
	Elevated:   "Elevated",
	HighStage1: "High Blood Pressure (Stage 1)",
	HighStage2: "High Blood Pressure (Stage 2)",
	Crisis:     "Hypertensive Crisis",
}

var colors = map[Category]string{
	Normal:     "green",
	Elevated:   "yellow",
	HighStage1: "orange",
	HighStage2: "red",
	Crisis:     "darkred",
}

// Label returns the display name.
func (c Category) Label() string {
	return labels[c]
}

// Color returns the display colour used to render the category.
func (c Category) Color() string {
	return colors[c]
}

type rule struct {
	match    func(systolic, diastolic int) bool
	category Category
}

// rules is ordered most severe first. Order resolves overlaps such as
// 120/85, which is HighStage1 because the diastolic rule fires first.
var rules = []rule{
	{func(s, d int) bool { return s >= 180 || d >= 120 }, Crisis},
	{func(s, d int) bool { return s >= 140 || d >= 90 }, HighStage2},
	{func(s, d int) bool { return s >= 130 || d >= 80 }, HighStage1},
	{func(s, d int) bool { return s >= 120 && d < 80 }, Elevated},
}

// Classify maps a systolic/diastolic pair to its category.
func Classify(systolic, diastolic int) Category {
	for _, r := range rules {
		if r.match(systolic, diastolic) {
			return r.category
		}
	}
	return Normal
}
