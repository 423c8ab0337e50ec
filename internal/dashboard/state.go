package dashboard

import (
	"github.com/inertiafit/fitcli/internal/types"
)

// DateFormat is the wire format for per-day records.
const DateFormat = "2006-01-02"

// DefaultHistoryDays is the progress-chart window when none is chosen.
const DefaultHistoryDays = 5

// Phase is the lifecycle position of an async fetch.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

// ProfilePhase is the lifecycle position of the profile concern, which has
// two extra states for the edit form.
type ProfilePhase string

const (
	ProfileLoading ProfilePhase = "loading"
	ProfileLoaded  ProfilePhase = "loaded"
	ProfileEditing ProfilePhase = "editing"
	ProfileSaving  ProfilePhase = "saving"
	ProfileError   ProfilePhase = "error"
)

// Tab identifies a dashboard tab. Switching is pure local state; entering a
// tab triggers that tab's fetch when its inputs changed.
type Tab string

const (
	TabOverview  Tab = "overview"
	TabNutrition Tab = "nutrition"
	TabExercise  Tab = "exercise"
	TabProgress  Tab = "progress"
)

// ProfileState is the profile concern's current position.
type ProfileState struct {
	Phase   ProfilePhase
	Profile types.UserProfile
	// Saved is set after a successful save and clears itself after the
	// success window.
	Saved bool
	Err   error
}

// FoodState is the food log for the selected date.
type FoodState struct {
	Phase   Phase
	Date    string
	Summary types.DailyFoodSummary
	Err     error
}

// ExerciseState is the exercise record for the selected date. Found is
// false when the date has no record yet.
type ExerciseState struct {
	Phase   Phase
	Date    string
	Summary types.ExerciseSummary
	Found   bool
	Err     error
}

// PlanState is the profile-based nutrition plan.
type PlanState struct {
	Phase Phase
	Plan  *types.NutritionPlan
	Err   error
}

// CustomState is the slider-based recommendation query. NoResults marks a
// query that completed and matched nothing, which is a loaded outcome, not
// an error.
type CustomState struct {
	Phase     Phase
	Recipes   []types.Recipe
	NoResults bool
	Err       error
}

// HistoryState is the progress-chart window of per-day exercise summaries,
// oldest first, with zeroed records filled in for days without data.
type HistoryState struct {
	Phase     Phase
	Days      int
	Summaries []types.ExerciseSummary
	Err       error
}

// Selections holds the locally chosen meals before submission. Selection
// never touches the network.
type Selections struct {
	Breakfast *types.Meal
	Lunch     *types.Meal
	Dinner    *types.Meal
	Extra     *types.Meal
}

// State is a point-in-time copy of everything the dashboard tracks. The
// report exporter renders from one of these.
type State struct {
	Tab        Tab
	Date       string
	Profile    ProfileState
	Food       FoodState
	Exercise   ExerciseState
	Plan       PlanState
	Custom     CustomState
	History    HistoryState
	Selections Selections
}
