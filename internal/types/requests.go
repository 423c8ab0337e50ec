package types

// LoginRequest represents the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the profile the session store
// caches on login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}

// RegisterRequest represents the body of POST /auth/register. JoinDate is
// set by the client at submission time.
type RegisterRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	Age           int     `json:"age"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activityLevel"`
	WeightGoal    string  `json:"weightGoal"`
	JoinDate      string  `json:"joinDate"`
}

// UpdateUserRequest represents the body of PUT /api/user/:id. The backend
// requires every field on update.
type UpdateUserRequest struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activityLevel"`
	WeightGoal    string  `json:"weightGoal"`
}

// UpdateUserResponse wraps the updated profile returned by PUT /api/user/:id.
type UpdateUserResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

// FoodSubmission represents the body of POST /api/user/:id/foods. A
// full-day submission fills the three meal slots and leaves Extra empty;
// an extra-only submission fills only Extra.
type FoodSubmission struct {
	Breakfast *Meal  `json:"breakfast,omitempty"`
	Lunch     *Meal  `json:"lunch,omitempty"`
	Dinner    *Meal  `json:"dinner,omitempty"`
	Extra     []Meal `json:"extra"`
}

// CustomNutritionRequest represents the body of POST /api/custom-nutrition.
type CustomNutritionRequest struct {
	NutritionValues   []float64 `json:"nutrition_values_list"`
	NbRecommendations int       `json:"nb_recommendations"`
	IngredientText    string    `json:"ingredient_txt"`
}
