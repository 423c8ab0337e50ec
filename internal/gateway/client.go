// Package gateway is the HTTP client for the InertiaFit backend. It is a
// thin single-attempt wrapper: the bearer token is attached when a session
// exists, a 401 clears the session and demands reauthentication, and
// response shapes are normalized at this boundary so callers only ever see
// canonical types.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inertiafit/fitcli/config"
	"github.com/inertiafit/fitcli/internal/session"
	"github.com/inertiafit/fitcli/internal/types"
)

// DefaultRecommendationCount is the nb_recommendations the dashboard
// always requests from the custom endpoint.
const DefaultRecommendationCount = 6

// Client talks to the backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	log     *logrus.Entry
}

// New creates a Client for the configured backend, reading and clearing
// the given session store as the auth contract requires.
func New(cfg *config.Config, sess *session.Store) *Client {
	return &Client{
		baseURL: cfg.APIBaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		session: sess,
		log:     logrus.WithField("component", "gateway"),
	}
}

// do issues one request. No retries: the call resolves or fails.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if authed {
		token, ok := c.session.Token()
		if !ok {
			return ErrReauthenticate
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("request failed")
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("request completed")

	if authed && resp.StatusCode == http.StatusUnauthorized {
		// The store notifies logout subscribers exactly once.
		if err := c.session.Clear(); err != nil {
			c.log.WithError(err).Error("failed to clear rejected session")
		}
		return ErrReauthenticate
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{StatusCode: resp.StatusCode, Message: serverMessage(data, resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// serverMessage extracts the backend's structured error message, falling
// back to a generic string when the body carries none.
func serverMessage(data []byte, status int) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// mongoUser tolerates the backend returning the raw user document, which
// carries `_id` instead of `id`.
type mongoUser struct {
	types.UserProfile
	MongoID string `json:"_id"`
}

func (m mongoUser) profile() types.UserProfile {
	p := m.UserProfile
	if p.ID == "" {
		p.ID = m.MongoID
	}
	return p
}

// Login authenticates and returns the token and profile. The caller is
// responsible for storing them in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	req := types.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. A successful registration does not log in;
// the caller proceeds to Login.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil, false)
}

// User fetches the full profile for a user id.
func (c *Client) User(ctx context.Context, userID string) (*types.UserProfile, error) {
	var raw mongoUser
	if err := c.do(ctx, http.MethodGet, "/api/user/"+url.PathEscape(userID), nil, &raw, true); err != nil {
		return nil, err
	}
	p := raw.profile()
	if p.ID == "" {
		p.ID = userID
	}
	return &p, nil
}

// UpdateUser replaces the profile fields for a user id and returns the
// updated profile as the backend stored it.
func (c *Client) UpdateUser(ctx context.Context, userID string, req types.UpdateUserRequest) (*types.UserProfile, error) {
	var resp struct {
		Message string    `json:"message"`
		User    mongoUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/user/"+url.PathEscape(userID), req, &resp, true); err != nil {
		return nil, err
	}
	p := resp.User.profile()
	if p.ID == "" {
		p.ID = userID
	}
	return &p, nil
}

// FoodData fetches the meals logged for a date.
func (c *Client) FoodData(ctx context.Context, userID, date string) (*types.FoodData, error) {
	var data types.FoodData
	path := "/api/user/" + url.PathEscape(userID) + "/food-data/" + url.PathEscape(date)
	if err := c.do(ctx, http.MethodGet, path, nil, &data, true); err != nil {
		return nil, err
	}
	return &data, nil
}

// SubmitFoods saves a food selection for today.
func (c *Client) SubmitFoods(ctx context.Context, userID string, sub types.FoodSubmission) error {
	if sub.Extra == nil {
		// The backend expects the key to be present.
		sub.Extra = []types.Meal{}
	}
	return c.do(ctx, http.MethodPost, "/api/user/"+url.PathEscape(userID)+"/foods", sub, nil, true)
}

// ExerciseData fetches the exercise record for a date. A date with no
// record yields an empty document, not an error.
func (c *Client) ExerciseData(ctx context.Context, userID, date string) (*types.ExerciseData, error) {
	var data types.ExerciseData
	path := "/api/user/" + url.PathEscape(userID) + "/exercise-data/" + url.PathEscape(date)
	if err := c.do(ctx, http.MethodGet, path, nil, &data, true); err != nil {
		return nil, err
	}
	return &data, nil
}

// SaveExercise upserts the full exercise record keyed by (user, date).
// Partial fields are never merged; the record is overwritten whole.
func (c *Client) SaveExercise(ctx context.Context, userID string, summary types.ExerciseSummary) error {
	return c.do(ctx, http.MethodPost, "/api/user/"+url.PathEscape(userID)+"/exercise-data", summary, nil, true)
}

// DeleteExercise removes the exercise record for a date.
func (c *Client) DeleteExercise(ctx context.Context, userID, date string) error {
	path := "/api/user/" + url.PathEscape(userID) + "/exercise-data/" + url.PathEscape(date)
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// ExerciseHistory fetches the summaries for the past days, oldest first as
// the backend returns them, with zeroed records filled in for gap days.
func (c *Client) ExerciseHistory(ctx context.Context, userID string, days int) (*types.ExerciseData, error) {
	var data types.ExerciseData
	path := "/api/user/" + url.PathEscape(userID) + "/exercise-history?days=" + strconv.Itoa(days)
	if err := c.do(ctx, http.MethodGet, path, nil, &data, true); err != nil {
		return nil, err
	}
	return &data, nil
}

// NutritionPlan requests daily targets and per-meal recipe recommendations
// for a set of body measurements.
func (c *Client) NutritionPlan(ctx context.Context, req types.UpdateUserRequest) (*types.NutritionPlan, error) {
	body := map[string]any{
		"age":           req.Age,
		"height":        req.Height,
		"weight":        req.Weight,
		"gender":        req.Gender,
		"activityLevel": req.ActivityLevel,
		"weightGoal":    req.WeightGoal,
	}
	var plan types.NutritionPlan
	if err := c.do(ctx, http.MethodPost, "/api/nutrition", body, &plan, false); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CustomRecommendations queries recipes matching the nine slider values.
// A query that matches nothing returns ErrNoRecommendations so callers can
// show a "no results" state instead of a failure.
func (c *Client) CustomRecommendations(ctx context.Context, prefs types.NutritionPreferences, count int, ingredientText string) ([]types.Recipe, error) {
	if count <= 0 {
		count = DefaultRecommendationCount
	}
	req := types.CustomNutritionRequest{
		NutritionValues:   prefs.Values(),
		NbRecommendations: count,
		IngredientText:    ingredientText,
	}

	var recipes []types.Recipe
	err := c.do(ctx, http.MethodPost, "/api/custom-nutrition", req, &recipes, false)
	if err != nil {
		// The backend reports an empty match as 404.
		var serverErr *ServerError
		if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
			return nil, ErrNoRecommendations
		}
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, ErrNoRecommendations
	}
	return recipes, nil
}
