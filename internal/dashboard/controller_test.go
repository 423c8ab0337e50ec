package dashboard

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inertiafit/fitcli/internal/gateway"
	"github.com/inertiafit/fitcli/internal/session"
	"github.com/inertiafit/fitcli/internal/types"
)

// fakeBackend implements Backend through optional function fields. Unset
// fields return zero values.
type fakeBackend struct {
	mu sync.Mutex

	userFn     func(userID string) (*types.UserProfile, error)
	updateFn   func(userID string, req types.UpdateUserRequest) (*types.UserProfile, error)
	foodFn     func(userID, date string) (*types.FoodData, error)
	submitFn   func(userID string, sub types.FoodSubmission) error
	exerciseFn func(userID, date string) (*types.ExerciseData, error)
	saveFn     func(userID string, summary types.ExerciseSummary) error
	deleteFn   func(userID, date string) error
	historyFn  func(userID string, days int) (*types.ExerciseData, error)
	planFn     func(req types.UpdateUserRequest) (*types.NutritionPlan, error)
	customFn   func(prefs types.NutritionPreferences, count int, txt string) ([]types.Recipe, error)

	calls []string
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeBackend) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeBackend) User(_ context.Context, userID string) (*types.UserProfile, error) {
	f.record("User")
	if f.userFn != nil {
		return f.userFn(userID)
	}
	return &types.UserProfile{ID: userID}, nil
}

func (f *fakeBackend) UpdateUser(_ context.Context, userID string, req types.UpdateUserRequest) (*types.UserProfile, error) {
	f.record("UpdateUser")
	if f.updateFn != nil {
		return f.updateFn(userID, req)
	}
	return &types.UserProfile{ID: userID, Name: req.Name, Age: req.Age, Height: req.Height, Weight: req.Weight}, nil
}

func (f *fakeBackend) FoodData(_ context.Context, userID, date string) (*types.FoodData, error) {
	f.record("FoodData")
	if f.foodFn != nil {
		return f.foodFn(userID, date)
	}
	return &types.FoodData{}, nil
}

func (f *fakeBackend) SubmitFoods(_ context.Context, userID string, sub types.FoodSubmission) error {
	f.record("SubmitFoods")
	if f.submitFn != nil {
		return f.submitFn(userID, sub)
	}
	return nil
}

func (f *fakeBackend) ExerciseData(_ context.Context, userID, date string) (*types.ExerciseData, error) {
	f.record("ExerciseData")
	if f.exerciseFn != nil {
		return f.exerciseFn(userID, date)
	}
	return &types.ExerciseData{}, nil
}

func (f *fakeBackend) SaveExercise(_ context.Context, userID string, summary types.ExerciseSummary) error {
	f.record("SaveExercise")
	if f.saveFn != nil {
		return f.saveFn(userID, summary)
	}
	return nil
}

func (f *fakeBackend) DeleteExercise(_ context.Context, userID, date string) error {
	f.record("DeleteExercise")
	if f.deleteFn != nil {
		return f.deleteFn(userID, date)
	}
	return nil
}

func (f *fakeBackend) ExerciseHistory(_ context.Context, userID string, days int) (*types.ExerciseData, error) {
	f.record("ExerciseHistory")
	if f.historyFn != nil {
		return f.historyFn(userID, days)
	}
	return &types.ExerciseData{}, nil
}

func (f *fakeBackend) NutritionPlan(_ context.Context, req types.UpdateUserRequest) (*types.NutritionPlan, error) {
	f.record("NutritionPlan")
	if f.planFn != nil {
		return f.planFn(req)
	}
	return &types.NutritionPlan{}, nil
}

func (f *fakeBackend) CustomRecommendations(_ context.Context, prefs types.NutritionPreferences, count int, txt string) ([]types.Recipe, error) {
	f.record("CustomRecommendations")
	if f.customFn != nil {
		return f.customFn(prefs, count, txt)
	}
	return nil, gateway.ErrNoRecommendations
}

func completeProfile() types.UserProfile {
	return types.UserProfile{
		ID:            "u1",
		Name:          "Jordan Fields",
		Email:         "jordan@example.com",
		Age:           29,
		Height:        180,
		Weight:        81,
		Gender:        types.GenderOther,
		ActivityLevel: types.ActivityModerate,
		WeightGoal:    types.GoalMaintain,
	}
}

func newTestController(t *testing.T, backend Backend, profile types.UserProfile) *Controller {
	t.Helper()

	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.SetSession("tok", profile))

	c, err := New(backend, store)
	require.NoError(t, err)
	return c
}

func TestNewRequiresSession(t *testing.T) {
	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = New(&fakeBackend{}, store)
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestLoadProfileCompleteSkipsNetwork(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend, completeProfile())

	require.NoError(t, c.LoadProfile(context.Background()))
	assert.Zero(t, backend.callCount("User"))
	assert.Equal(t, ProfileLoaded, c.Snapshot().Profile.Phase)
}

func TestLoadProfileRefetchesIncomplete(t *testing.T) {
	full := completeProfile()
	backend := &fakeBackend{
		userFn: func(userID string) (*types.UserProfile, error) {
			return &full, nil
		},
	}
	c := newTestController(t, backend, types.UserProfile{ID: "u1", Name: "Jordan Fields"})

	require.NoError(t, c.LoadProfile(context.Background()))
	assert.Equal(t, 1, backend.callCount("User"))

	snap := c.Snapshot()
	assert.Equal(t, ProfileLoaded, snap.Profile.Phase)
	assert.Equal(t, 180.0, snap.Profile.Profile.Height)
}

func TestSaveProfileRejectsInvalidWithoutNetwork(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend, completeProfile())

	form := c.BeginEdit()
	form.Height = 0
	err := c.SaveProfile(context.Background(), form)

	var vErr *gateway.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "height", vErr.Field)
	assert.Zero(t, backend.callCount("UpdateUser"))
	// The form stays open for correction.
	assert.Equal(t, ProfileEditing, c.Snapshot().Profile.Phase)
}

func TestSaveProfileSuccessFlagClears(t *testing.T) {
	c := newTestController(t, &fakeBackend{}, completeProfile())
	c.SuccessTTL = 20 * time.Millisecond

	form := c.BeginEdit()
	form.Weight = 79
	require.NoError(t, c.SaveProfile(context.Background(), form))

	snap := c.Snapshot()
	assert.Equal(t, ProfileLoaded, snap.Profile.Phase)
	assert.True(t, snap.Profile.Saved)
	assert.Equal(t, 79.0, snap.Profile.Profile.Weight)

	assert.Eventually(t, func() bool {
		return !c.Snapshot().Profile.Saved
	}, time.Second, 5*time.Millisecond)
}

func TestLoadFoodMissingDateIsEmptyNotError(t *testing.T) {
	backend := &fakeBackend{
		foodFn: func(userID, date string) (*types.FoodData, error) {
			return nil, &gateway.ServerError{StatusCode: http.StatusNotFound, Message: "No food data found for the specified date"}
		},
	}
	c := newTestController(t, backend, completeProfile())

	c.LoadFood(context.Background(), "2025-08-01")

	snap := c.Snapshot()
	assert.Equal(t, PhaseLoaded, snap.Food.Phase)
	assert.NoError(t, snap.Food.Err)
	assert.Zero(t, snap.Food.Summary.Breakfast.Calories)
}

func TestLoadFoodDiscardsStaleResponse(t *testing.T) {
	oldGate := make(chan struct{})
	backend := &fakeBackend{
		foodFn: func(userID, date string) (*types.FoodData, error) {
			if date == "2025-08-01" {
				<-oldGate
			}
			return &types.FoodData{DailyFoodSummary: []types.DailyFoodSummary{
				{Date: date, Breakfast: types.Meal{Name: "from " + date}},
			}}, nil
		},
	}
	c := newTestController(t, backend, completeProfile())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.LoadFood(context.Background(), "2025-08-01")
	}()

	// The newer fetch for the second date completes while the first is
	// still in flight.
	assert.Eventually(t, func() bool {
		return backend.callCount("FoodData") == 1
	}, time.Second, time.Millisecond)
	c.LoadFood(context.Background(), "2025-08-02")

	close(oldGate)
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, "2025-08-02", snap.Food.Date)
	assert.Equal(t, "from 2025-08-02", snap.Food.Summary.Breakfast.Name)
}

func TestSubmitDayRequiresAllSlots(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend, completeProfile())

	require.NoError(t, c.SelectMeal("breakfast", types.Meal{Name: "Oatmeal", Calories: 380}))
	require.NoError(t, c.SelectMeal("lunch", types.Meal{Name: "Salad", Calories: 450}))

	err := c.SubmitDay(context.Background())
	var vErr *gateway.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, backend.callCount("SubmitFoods"))

	// Selections survive for retry.
	snap := c.Snapshot()
	assert.NotNil(t, snap.Selections.Breakfast)
	assert.NotNil(t, snap.Selections.Lunch)
}

func TestSubmitDayResetsSelectionsAndRefetches(t *testing.T) {
	var submitted types.FoodSubmission
	backend := &fakeBackend{
		submitFn: func(userID string, sub types.FoodSubmission) error {
			submitted = sub
			return nil
		},
	}
	c := newTestController(t, backend, completeProfile())

	require.NoError(t, c.SelectMeal("breakfast", types.Meal{Name: "Oatmeal"}))
	require.NoError(t, c.SelectMeal("lunch", types.Meal{Name: "Salad"}))
	require.NoError(t, c.SelectMeal("dinner", types.Meal{Name: "Salmon"}))

	require.NoError(t, c.SubmitDay(context.Background()))

	require.NotNil(t, submitted.Breakfast)
	assert.Equal(t, "Oatmeal", submitted.Breakfast.Name)
	assert.NotNil(t, submitted.Extra)
	assert.Empty(t, submitted.Extra)

	snap := c.Snapshot()
	assert.Nil(t, snap.Selections.Breakfast)
	assert.Equal(t, 1, backend.callCount("FoodData"))
	assert.Equal(t, 1, backend.callCount("ExerciseData"))
}

func TestSubmitDayFailurePreservesSelections(t *testing.T) {
	backend := &fakeBackend{
		submitFn: func(userID string, sub types.FoodSubmission) error {
			return &gateway.ServerError{StatusCode: http.StatusInternalServerError, Message: "boom"}
		},
	}
	c := newTestController(t, backend, completeProfile())

	require.NoError(t, c.SelectMeal("breakfast", types.Meal{Name: "Oatmeal"}))
	require.NoError(t, c.SelectMeal("lunch", types.Meal{Name: "Salad"}))
	require.NoError(t, c.SelectMeal("dinner", types.Meal{Name: "Salmon"}))

	require.Error(t, c.SubmitDay(context.Background()))
	assert.NotNil(t, c.Snapshot().Selections.Dinner)
}

func TestSubmitExtraSendsOnlyExtra(t *testing.T) {
	var submitted types.FoodSubmission
	backend := &fakeBackend{
		submitFn: func(userID string, sub types.FoodSubmission) error {
			submitted = sub
			return nil
		},
	}
	c := newTestController(t, backend, completeProfile())

	err := c.SubmitExtra(context.Background())
	var vErr *gateway.ValidationError
	require.ErrorAs(t, err, &vErr)

	require.NoError(t, c.SelectMeal("extra", types.Meal{Name: "Yogurt", Calories: 120}))
	require.NoError(t, c.SubmitExtra(context.Background()))

	assert.Nil(t, submitted.Breakfast)
	assert.Nil(t, submitted.Lunch)
	assert.Nil(t, submitted.Dinner)
	require.Len(t, submitted.Extra, 1)
	assert.Equal(t, "Yogurt", submitted.Extra[0].Name)
	assert.Nil(t, c.Snapshot().Selections.Extra)
}

func TestSaveExerciseOverwritesForSelectedDate(t *testing.T) {
	var saved types.ExerciseSummary
	backend := &fakeBackend{
		saveFn: func(userID string, summary types.ExerciseSummary) error {
			saved = summary
			return nil
		},
	}
	c := newTestController(t, backend, completeProfile())
	c.SetDate(context.Background(), "2025-08-01")

	require.NoError(t, c.SaveExercise(context.Background(), types.ExerciseSummary{PushUp: 10, Walk: 4200}))
	assert.Equal(t, "2025-08-01", saved.Date)
	assert.Equal(t, 10, int(saved.PushUp))

	// Save refetches the date; SetDate already fetched once.
	assert.Equal(t, 2, backend.callCount("ExerciseData"))
}

func TestSaveExerciseRejectsNegativeCounts(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend, completeProfile())

	err := c.SaveExercise(context.Background(), types.ExerciseSummary{Squat: -1})
	var vErr *gateway.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, backend.callCount("SaveExercise"))
}

func TestDeleteExerciseRefetches(t *testing.T) {
	var deleted string
	backend := &fakeBackend{
		deleteFn: func(userID, date string) error {
			deleted = date
			return nil
		},
	}
	c := newTestController(t, backend, completeProfile())
	c.SetDate(context.Background(), "2025-08-01")

	require.NoError(t, c.DeleteExercise(context.Background()))
	assert.Equal(t, "2025-08-01", deleted)
	assert.Equal(t, 2, backend.callCount("ExerciseData"))
}

func TestExerciseDraftSeedsFromLoadedRecord(t *testing.T) {
	backend := &fakeBackend{
		exerciseFn: func(userID, date string) (*types.ExerciseData, error) {
			return &types.ExerciseData{ExerciseSummary: []types.ExerciseSummary{
				{Date: date, SitUp: 15},
			}}, nil
		},
	}
	c := newTestController(t, backend, completeProfile())

	c.SetDate(context.Background(), "2025-08-01")
	draft := c.ExerciseDraft()
	assert.Equal(t, 15, int(draft.SitUp))

	// A date with no record seeds a zeroed form.
	backend.exerciseFn = func(userID, date string) (*types.ExerciseData, error) {
		return &types.ExerciseData{}, nil
	}
	c.SetDate(context.Background(), "2025-08-02")
	draft = c.ExerciseDraft()
	assert.True(t, draft.IsZero())
	assert.Equal(t, "2025-08-02", draft.Date)
}

func TestLoadCustomNoResultsIsLoaded(t *testing.T) {
	c := newTestController(t, &fakeBackend{}, completeProfile())

	require.NoError(t, c.LoadCustom(context.Background(), types.DefaultNutritionPreferences()))

	snap := c.Snapshot()
	assert.Equal(t, PhaseLoaded, snap.Custom.Phase)
	assert.True(t, snap.Custom.NoResults)
	assert.NoError(t, snap.Custom.Err)
}

func TestLoadCustomFailureIsError(t *testing.T) {
	backend := &fakeBackend{
		customFn: func(prefs types.NutritionPreferences, count int, txt string) ([]types.Recipe, error) {
			return nil, &gateway.NetworkError{Err: context.DeadlineExceeded}
		},
	}
	c := newTestController(t, backend, completeProfile())

	require.Error(t, c.LoadCustom(context.Background(), types.DefaultNutritionPreferences()))
	assert.Equal(t, PhaseError, c.Snapshot().Custom.Phase)
}

func TestLoadPlanRequiresCompleteProfile(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend, types.UserProfile{ID: "u1", Name: "Jordan Fields"})

	err := c.LoadPlan(context.Background())
	var vErr *gateway.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, backend.callCount("NutritionPlan"))
}

func TestSwitchTabLoadsHistoryOnce(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(t, backend, completeProfile())

	c.SwitchTab(context.Background(), TabProgress)
	assert.Equal(t, 1, backend.callCount("ExerciseHistory"))

	// Re-entering without changes does not refetch.
	c.SwitchTab(context.Background(), TabOverview)
	c.SwitchTab(context.Background(), TabProgress)
	assert.Equal(t, 1, backend.callCount("ExerciseHistory"))

	// Logging exercise invalidates the window.
	require.NoError(t, c.SaveExercise(context.Background(), types.ExerciseSummary{Walk: 100}))
	c.SwitchTab(context.Background(), TabProgress)
	assert.Equal(t, 2, backend.callCount("ExerciseHistory"))
}

func TestLoadHistoryFillsMissingDays(t *testing.T) {
	backend := &fakeBackend{
		historyFn: func(userID string, days int) (*types.ExerciseData, error) {
			return &types.ExerciseData{ExerciseSummary: []types.ExerciseSummary{
				{Date: "2025-08-03", Walk: 4200},
			}}, nil
		},
	}
	c := newTestController(t, backend, completeProfile())
	c.now = func() time.Time {
		return time.Date(2025, 8, 5, 12, 0, 0, 0, time.UTC)
	}

	c.LoadHistory(context.Background(), 5)

	snap := c.Snapshot()
	require.Equal(t, PhaseLoaded, snap.History.Phase)
	require.Len(t, snap.History.Summaries, 5)
	assert.Equal(t, "2025-08-01", snap.History.Summaries[0].Date)
	assert.Equal(t, "2025-08-05", snap.History.Summaries[4].Date)
	assert.Equal(t, 4200, int(snap.History.Summaries[2].Walk))
	assert.True(t, snap.History.Summaries[0].IsZero())
}
