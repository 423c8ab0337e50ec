// Package metrics computes the derived values the dashboard displays:
// BMI and category, calories burned from logged exercise, net-calorie
// balance against the daily target, and macro-goal progress. Everything
// here is pure; nothing is stored.
package metrics

import (
	"strconv"

	"github.com/inertiafit/fitcli/internal/types"
)

// BMI categories. Boundaries are exact: <18.5, <25, <30, else Obesity.
const (
	CategoryUnderweight = "Underweight"
	CategoryNormal      = "Normal weight"
	CategoryOverweight  = "Overweight"
	CategoryObesity     = "Obesity"
	CategoryUnknown     = "Unknown"
)

// CaloriesPerUnit maps an exercise kind to kcal burned per rep (per step
// for walk). The table is fixed, not configurable.
var CaloriesPerUnit = map[string]float64{
	types.ExercisePushUp: 0.4,
	types.ExerciseSquat:  0.4,
	types.ExercisePullUp: 0.8,
	types.ExerciseSitUp:  0.3,
	types.ExerciseWalk:   0.1,
}

// ComputeBMI returns the body mass index for a weight in kilograms and a
// height in centimeters, plus its category. Non-positive inputs yield
// bmi 0 and CategoryUnknown rather than an error.
func ComputeBMI(weightKg, heightCm float64) (float64, string) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, CategoryUnknown
	}
	heightM := heightCm / 100
	bmi := weightKg / (heightM * heightM)
	return bmi, BMICategory(bmi)
}

// BMICategory classifies an already-computed BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObesity
	}
}

// CaloriesForExercise returns the kcal burned for count units of the given
// exercise kind. Unknown kinds burn nothing.
func CaloriesForExercise(kind string, count int) float64 {
	perUnit, ok := CaloriesPerUnit[kind]
	if !ok {
		return 0
	}
	return perUnit * float64(count)
}

// TotalCaloriesBurned sums the burn over every recognized exercise kind in
// counts. Unrecognized keys are ignored, and the result is independent of
// map iteration order. The value keeps sub-kcal precision; totals are
// summed before any display rounding.
func TotalCaloriesBurned(counts map[string]int) float64 {
	var total float64
	for kind, count := range counts {
		total += CaloriesForExercise(kind, count)
	}
	return total
}

// FormatCalories renders a calorie value the way the dashboard displays
// it, with exactly one decimal place.
func FormatCalories(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// TotalFoodCalories sums the calories of all meals in a daily summary:
// breakfast, lunch, dinner, and every extra meal.
func TotalFoodCalories(summary types.DailyFoodSummary) float64 {
	total := summary.Breakfast.Calories + summary.Lunch.Calories + summary.Dinner.Calories
	for _, extra := range summary.Extra {
		total += extra.Calories
	}
	return total
}

// TotalSteps sums the walk counts over the given summaries.
func TotalSteps(summaries []types.ExerciseSummary) int {
	var total int
	for _, s := range summaries {
		total += int(s.Walk)
	}
	return total
}

// NetBalance is the net-calorie position for a day.
type NetBalance struct {
	// Net is food calories consumed minus calories burned.
	Net float64
	// Exceeds is set when Net is above the daily target.
	Exceeds bool
	// Pct is Net as a share of the daily target, clamped to 0..100 for
	// progress display.
	Pct float64
}

// NetCalories derives the net-calorie balance from total food calories,
// total calories burned, and the daily calorie target.
func NetCalories(food, burned, dailyTarget float64) NetBalance {
	net := food - burned
	b := NetBalance{
		Net:     net,
		Exceeds: net > dailyTarget,
	}
	if dailyTarget > 0 {
		b.Pct = clampPct(net / dailyTarget * 100)
	}
	return b
}

// MacroProgress returns actual intake as a percentage of its goal, clamped
// to 0..100 for the progress bars.
func MacroProgress(actual, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return clampPct(actual / goal * 100)
}

func clampPct(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
