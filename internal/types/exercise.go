package types

// Exercise kinds tracked by the backend. Walk is counted in steps, the
// rest in reps.
const (
	ExerciseSitUp  = "sit-up"
	ExercisePullUp = "pull-up"
	ExercisePushUp = "push-up"
	ExerciseSquat  = "squat"
	ExerciseWalk   = "walk"
)

// ExerciseKinds lists the tracked kinds in display order.
var ExerciseKinds = []string{
	ExerciseSitUp,
	ExercisePullUp,
	ExercisePushUp,
	ExerciseSquat,
	ExerciseWalk,
}

// ExerciseSummary represents the exercise counts logged for one date.
// There is one record per (user, date); saving overwrites the whole record.
type ExerciseSummary struct {
	Date   string  `json:"date"`
	SitUp  FlexInt `json:"sit-up"`
	PullUp FlexInt `json:"pull-up"`
	PushUp FlexInt `json:"push-up"`
	Squat  FlexInt `json:"squat"`
	Walk   FlexInt `json:"walk"`
}

// Counts returns the per-kind counts keyed by exercise kind. The date is
// deliberately not part of the map.
func (s ExerciseSummary) Counts() map[string]int {
	return map[string]int{
		ExerciseSitUp:  int(s.SitUp),
		ExercisePullUp: int(s.PullUp),
		ExercisePushUp: int(s.PushUp),
		ExerciseSquat:  int(s.Squat),
		ExerciseWalk:   int(s.Walk),
	}
}

// IsZero reports whether no activity was logged.
func (s ExerciseSummary) IsZero() bool {
	return s.SitUp == 0 && s.PullUp == 0 && s.PushUp == 0 && s.Squat == 0 && s.Walk == 0
}

// ExerciseData is the document returned by the exercise-data and
// exercise-history endpoints.
type ExerciseData struct {
	ExerciseSummary []ExerciseSummary `json:"exercise_summary"`
}

// ForDate returns the summary recorded for the given date, if any.
func (d ExerciseData) ForDate(date string) (ExerciseSummary, bool) {
	for _, s := range d.ExerciseSummary {
		if s.Date == date {
			return s, true
		}
	}
	return ExerciseSummary{}, false
}
