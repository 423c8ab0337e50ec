// Package dashboard drives the client's view state: one controller holding
// per-concern lifecycles (profile, per-date food and exercise, nutrition
// recommendations, exercise history) that callers read through snapshots.
// Fetches may run from any goroutine; every fetch family carries a sequence
// number so a response that arrives after a newer request started is
// discarded instead of overwriting fresher data.
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inertiafit/fitcli/internal/gateway"
	"github.com/inertiafit/fitcli/internal/session"
	"github.com/inertiafit/fitcli/internal/types"
)

// Backend is the remote surface the controller needs. *gateway.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	User(ctx context.Context, userID string) (*types.UserProfile, error)
	UpdateUser(ctx context.Context, userID string, req types.UpdateUserRequest) (*types.UserProfile, error)
	FoodData(ctx context.Context, userID, date string) (*types.FoodData, error)
	SubmitFoods(ctx context.Context, userID string, sub types.FoodSubmission) error
	ExerciseData(ctx context.Context, userID, date string) (*types.ExerciseData, error)
	SaveExercise(ctx context.Context, userID string, summary types.ExerciseSummary) error
	DeleteExercise(ctx context.Context, userID, date string) error
	ExerciseHistory(ctx context.Context, userID string, days int) (*types.ExerciseData, error)
	NutritionPlan(ctx context.Context, req types.UpdateUserRequest) (*types.NutritionPlan, error)
	CustomRecommendations(ctx context.Context, prefs types.NutritionPreferences, count int, ingredientText string) ([]types.Recipe, error)
}

var _ Backend = (*gateway.Client)(nil)

// Controller owns the dashboard state. All state lives behind one mutex;
// methods are safe to call from any goroutine.
type Controller struct {
	backend Backend
	session *session.Store
	log     *logrus.Entry

	// SuccessTTL is how long the profile Saved flag stays up.
	SuccessTTL time.Duration

	now func() time.Time

	mu     sync.Mutex
	userID string
	state  State

	foodSeq     uint64
	exerciseSeq uint64
	planSeq     uint64
	customSeq   uint64
	historySeq  uint64
	savedGen    uint64
}

// New creates a controller for the logged-in user cached in the session
// store, positioned on today's date and the overview tab.
func New(backend Backend, sess *session.Store) (*Controller, error) {
	profile, ok := sess.Profile()
	if !ok {
		return nil, session.ErrNotLoggedIn
	}

	c := &Controller{
		backend:    backend,
		session:    sess,
		log:        logrus.WithField("component", "dashboard"),
		SuccessTTL: 2 * time.Second,
		now:        time.Now,
	}
	c.state = State{
		Tab:      TabOverview,
		Date:     c.now().Format(DateFormat),
		Profile:  ProfileState{Phase: ProfileLoaded, Profile: profile},
		Food:     FoodState{Phase: PhaseIdle},
		Exercise: ExerciseState{Phase: PhaseIdle},
		Plan:     PlanState{Phase: PhaseIdle},
		Custom:   CustomState{Phase: PhaseIdle},
		History:  HistoryState{Phase: PhaseIdle, Days: DefaultHistoryDays},
	}
	c.userID = profile.ID
	return c, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadProfile ensures the profile is usable: the session's cached copy is
// taken as-is, and a copy missing age, height or weight is refetched from
// the backend and written back to the session.
func (c *Controller) LoadProfile(ctx context.Context) error {
	c.mu.Lock()
	profile := c.state.Profile.Profile
	userID := c.userID
	if profile.Complete() {
		c.state.Profile.Phase = ProfileLoaded
		c.mu.Unlock()
		return nil
	}
	c.state.Profile = ProfileState{Phase: ProfileLoading, Profile: profile}
	c.mu.Unlock()

	fresh, err := c.backend.User(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Profile = ProfileState{Phase: ProfileError, Profile: profile, Err: err}
		return err
	}
	c.state.Profile = ProfileState{Phase: ProfileLoaded, Profile: *fresh}
	if err := c.session.UpdateProfile(*fresh); err != nil {
		c.log.WithError(err).Warn("failed to refresh cached profile")
	}
	return nil
}

// BeginEdit moves the profile into the edit form. The form is seeded from
// the current profile.
func (c *Controller) BeginEdit() types.UpdateUserRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Profile.Phase = ProfileEditing
	p := c.state.Profile.Profile
	return types.UpdateUserRequest{
		Name:          p.Name,
		Age:           p.Age,
		Height:        p.Height,
		Weight:        p.Weight,
		Gender:        p.Gender,
		ActivityLevel: p.ActivityLevel,
		WeightGoal:    p.WeightGoal,
	}
}

// CancelEdit leaves the edit form without saving.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Profile.Phase == ProfileEditing {
		c.state.Profile.Phase = ProfileLoaded
	}
}

func validateProfileForm(form types.UpdateUserRequest) error {
	switch {
	case form.Age <= 0:
		return &gateway.ValidationError{Field: "age", Message: "must be greater than zero"}
	case form.Height <= 0:
		return &gateway.ValidationError{Field: "height", Message: "must be greater than zero"}
	case form.Weight <= 0:
		return &gateway.ValidationError{Field: "weight", Message: "must be greater than zero"}
	}
	return nil
}

// SaveProfile validates the form, saves it remotely, and refreshes both the
// controller and the session copy. Invalid input never reaches the network.
// The Saved flag clears itself after SuccessTTL.
func (c *Controller) SaveProfile(ctx context.Context, form types.UpdateUserRequest) error {
	if err := validateProfileForm(form); err != nil {
		return err
	}

	c.mu.Lock()
	userID := c.userID
	prev := c.state.Profile.Profile
	c.state.Profile = ProfileState{Phase: ProfileSaving, Profile: prev}
	c.mu.Unlock()

	updated, err := c.backend.UpdateUser(ctx, userID, form)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Profile = ProfileState{Phase: ProfileError, Profile: prev, Err: err}
		return err
	}

	c.state.Profile = ProfileState{Phase: ProfileLoaded, Profile: *updated, Saved: true}
	if err := c.session.UpdateProfile(*updated); err != nil {
		c.log.WithError(err).Warn("failed to refresh cached profile")
	}

	c.savedGen++
	gen := c.savedGen
	time.AfterFunc(c.SuccessTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.savedGen == gen {
			c.state.Profile.Saved = false
		}
	})
	return nil
}

// SetDate changes the selected date and fetches its food and exercise
// records.
func (c *Controller) SetDate(ctx context.Context, date string) {
	c.mu.Lock()
	c.state.Date = date
	c.mu.Unlock()
	c.LoadFood(ctx, date)
	c.LoadExercise(ctx, date)
}

// notFound reports a 404 outcome, which for per-date lookups means "no
// record yet", not a failure.
func notFound(err error) bool {
	var serverErr *gateway.ServerError
	return errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound
}

// LoadFood fetches the food log for a date. A response belonging to a
// superseded fetch is discarded.
func (c *Controller) LoadFood(ctx context.Context, date string) {
	c.mu.Lock()
	c.foodSeq++
	seq := c.foodSeq
	userID := c.userID
	c.state.Food = FoodState{Phase: PhaseLoading, Date: date}
	c.mu.Unlock()

	data, err := c.backend.FoodData(ctx, userID, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.foodSeq {
		c.log.WithField("date", date).Debug("discarding stale food response")
		return
	}
	switch {
	case err == nil:
		c.state.Food = FoodState{Phase: PhaseLoaded, Date: date, Summary: data.Summary()}
	case notFound(err):
		c.state.Food = FoodState{Phase: PhaseLoaded, Date: date}
	default:
		c.state.Food = FoodState{Phase: PhaseError, Date: date, Err: err}
	}
}

// LoadExercise fetches the exercise record for a date, with the same stale
// discard as LoadFood.
func (c *Controller) LoadExercise(ctx context.Context, date string) {
	c.mu.Lock()
	c.exerciseSeq++
	seq := c.exerciseSeq
	userID := c.userID
	c.state.Exercise = ExerciseState{Phase: PhaseLoading, Date: date}
	c.mu.Unlock()

	data, err := c.backend.ExerciseData(ctx, userID, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.exerciseSeq {
		c.log.WithField("date", date).Debug("discarding stale exercise response")
		return
	}
	switch {
	case err == nil:
		summary, found := data.ForDate(date)
		c.state.Exercise = ExerciseState{Phase: PhaseLoaded, Date: date, Summary: summary, Found: found}
	case notFound(err):
		c.state.Exercise = ExerciseState{Phase: PhaseLoaded, Date: date}
	default:
		c.state.Exercise = ExerciseState{Phase: PhaseError, Date: date, Err: err}
	}
}

// SelectMeal records a local meal choice for a slot ("breakfast", "lunch",
// "dinner" or "extra"). Selection is pure local state.
func (c *Controller) SelectMeal(slot string, meal types.Meal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch slot {
	case "breakfast":
		c.state.Selections.Breakfast = &meal
	case "lunch":
		c.state.Selections.Lunch = &meal
	case "dinner":
		c.state.Selections.Dinner = &meal
	case "extra":
		c.state.Selections.Extra = &meal
	default:
		return &gateway.ValidationError{Field: "slot", Message: "unknown meal slot " + slot}
	}
	return nil
}

// ClearSelections drops all local meal choices.
func (c *Controller) ClearSelections() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selections = Selections{}
}

// SubmitDay saves the selected breakfast, lunch and dinner as today's food
// log. All three slots must be chosen; otherwise nothing is sent and the
// selections stay put. Success resets selections and refetches the date.
func (c *Controller) SubmitDay(ctx context.Context) error {
	c.mu.Lock()
	sel := c.state.Selections
	userID := c.userID
	date := c.state.Date
	c.mu.Unlock()

	if sel.Breakfast == nil || sel.Lunch == nil || sel.Dinner == nil {
		return &gateway.ValidationError{Field: "meals", Message: "select breakfast, lunch and dinner before submitting"}
	}

	sub := types.FoodSubmission{
		Breakfast: sel.Breakfast,
		Lunch:     sel.Lunch,
		Dinner:    sel.Dinner,
		Extra:     []types.Meal{},
	}
	if err := c.backend.SubmitFoods(ctx, userID, sub); err != nil {
		return err
	}

	c.ClearSelections()
	c.LoadFood(ctx, date)
	c.LoadExercise(ctx, date)
	return nil
}

// SubmitExtra saves only the selected extra meal, leaving the three slots
// untouched on the backend.
func (c *Controller) SubmitExtra(ctx context.Context) error {
	c.mu.Lock()
	sel := c.state.Selections
	userID := c.userID
	date := c.state.Date
	c.mu.Unlock()

	if sel.Extra == nil {
		return &gateway.ValidationError{Field: "extra", Message: "select an extra meal before submitting"}
	}

	sub := types.FoodSubmission{Extra: []types.Meal{*sel.Extra}}
	if err := c.backend.SubmitFoods(ctx, userID, sub); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Selections.Extra = nil
	c.mu.Unlock()
	c.LoadFood(ctx, date)
	return nil
}

// ExerciseDraft returns a form seeded from the loaded record for the
// selected date, or a zeroed one when the date has none.
func (c *Controller) ExerciseDraft() types.ExerciseSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Exercise.Phase == PhaseLoaded && c.state.Exercise.Found {
		return c.state.Exercise.Summary
	}
	return types.ExerciseSummary{Date: c.state.Date}
}

// SaveExercise overwrites the whole exercise record for the selected date.
// Fields are never merged; what is sent is what is stored. Success
// refetches the date and invalidates the history window.
func (c *Controller) SaveExercise(ctx context.Context, summary types.ExerciseSummary) error {
	for kind, count := range summary.Counts() {
		if count < 0 {
			return &gateway.ValidationError{Field: kind, Message: "count cannot be negative"}
		}
	}

	c.mu.Lock()
	userID := c.userID
	date := c.state.Date
	c.mu.Unlock()
	summary.Date = date

	if err := c.backend.SaveExercise(ctx, userID, summary); err != nil {
		return err
	}

	c.invalidateHistory()
	c.LoadExercise(ctx, date)
	return nil
}

// DeleteExercise removes the record for the selected date.
func (c *Controller) DeleteExercise(ctx context.Context) error {
	c.mu.Lock()
	userID := c.userID
	date := c.state.Date
	c.mu.Unlock()

	if err := c.backend.DeleteExercise(ctx, userID, date); err != nil {
		return err
	}

	c.invalidateHistory()
	c.LoadExercise(ctx, date)
	return nil
}

func (c *Controller) invalidateHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.History.Phase = PhaseIdle
	c.state.History.Summaries = nil
}

// LoadPlan requests daily targets and recipe recommendations for the
// current profile. An incomplete profile is rejected before any request.
func (c *Controller) LoadPlan(ctx context.Context) error {
	c.mu.Lock()
	profile := c.state.Profile.Profile
	c.mu.Unlock()

	form := types.UpdateUserRequest{
		Name:          profile.Name,
		Age:           profile.Age,
		Height:        profile.Height,
		Weight:        profile.Weight,
		Gender:        profile.Gender,
		ActivityLevel: profile.ActivityLevel,
		WeightGoal:    profile.WeightGoal,
	}
	if err := validateProfileForm(form); err != nil {
		return err
	}

	c.mu.Lock()
	c.planSeq++
	seq := c.planSeq
	c.state.Plan = PlanState{Phase: PhaseLoading}
	c.mu.Unlock()

	plan, err := c.backend.NutritionPlan(ctx, form)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.planSeq {
		c.log.Debug("discarding stale nutrition plan response")
		return nil
	}
	if err != nil {
		c.state.Plan = PlanState{Phase: PhaseError, Err: err}
		return err
	}
	c.state.Plan = PlanState{Phase: PhaseLoaded, Plan: plan}
	return nil
}

// LoadCustom queries recipes matching the nine slider values. A query that
// matches nothing lands in Loaded with NoResults set, never in Error.
func (c *Controller) LoadCustom(ctx context.Context, prefs types.NutritionPreferences) error {
	c.mu.Lock()
	c.customSeq++
	seq := c.customSeq
	c.state.Custom = CustomState{Phase: PhaseLoading}
	c.mu.Unlock()

	recipes, err := c.backend.CustomRecommendations(ctx, prefs, gateway.DefaultRecommendationCount, "")

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.customSeq {
		c.log.Debug("discarding stale recommendation response")
		return nil
	}
	switch {
	case err == nil:
		c.state.Custom = CustomState{Phase: PhaseLoaded, Recipes: recipes}
	case errors.Is(err, gateway.ErrNoRecommendations):
		c.state.Custom = CustomState{Phase: PhaseLoaded, NoResults: true}
	default:
		c.state.Custom = CustomState{Phase: PhaseError, Err: err}
		return err
	}
	return nil
}

// SwitchTab changes the active tab. Entering the progress tab loads the
// history window if it is not already loaded for the current settings.
func (c *Controller) SwitchTab(ctx context.Context, tab Tab) {
	c.mu.Lock()
	c.state.Tab = tab
	needHistory := tab == TabProgress && c.state.History.Phase == PhaseIdle
	days := c.state.History.Days
	c.mu.Unlock()

	if needHistory {
		c.LoadHistory(ctx, days)
	}
}

// SetHistoryDays changes the progress window and reloads it.
func (c *Controller) SetHistoryDays(ctx context.Context, days int) error {
	if days <= 0 {
		return &gateway.ValidationError{Field: "days", Message: "must be greater than zero"}
	}
	c.LoadHistory(ctx, days)
	return nil
}

// LoadHistory fetches the last `days` exercise summaries and fills zeroed
// records for days the backend has nothing for, so the chart always spans
// the full window.
func (c *Controller) LoadHistory(ctx context.Context, days int) {
	c.mu.Lock()
	c.historySeq++
	seq := c.historySeq
	userID := c.userID
	c.state.History = HistoryState{Phase: PhaseLoading, Days: days}
	c.mu.Unlock()

	data, err := c.backend.ExerciseHistory(ctx, userID, days)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.historySeq {
		c.log.Debug("discarding stale history response")
		return
	}
	if err != nil {
		c.state.History = HistoryState{Phase: PhaseError, Days: days, Err: err}
		return
	}
	c.state.History = HistoryState{
		Phase:     PhaseLoaded,
		Days:      days,
		Summaries: fillHistory(data.ExerciseSummary, days, c.now()),
	}
}

// fillHistory expands sparse per-day summaries into a dense window of the
// last `days` days ending today, oldest first.
func fillHistory(summaries []types.ExerciseSummary, days int, today time.Time) []types.ExerciseSummary {
	byDate := make(map[string]types.ExerciseSummary, len(summaries))
	for _, s := range summaries {
		byDate[s.Date] = s
	}

	filled := make([]types.ExerciseSummary, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateFormat)
		if s, ok := byDate[date]; ok {
			filled = append(filled, s)
			continue
		}
		filled = append(filled, types.ExerciseSummary{Date: date})
	}
	return filled
}
