package types

// Gender values accepted by the backend.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Activity levels, from sedentary to twice-daily training.
const (
	ActivityNone      = "Little/no exercise"
	ActivityLight     = "Light exercise"
	ActivityModerate  = "Moderate exercise"
	ActivityHeavy     = "Heavy exercise"
	ActivityVeryHeavy = "Very heavy exercise"
)

// Weight goals.
const (
	GoalLose     = "Lose"
	GoalMaintain = "Maintain"
	GoalGain     = "Gain"
)

// ActivityLevels lists the five levels in order.
var ActivityLevels = []string{
	ActivityNone,
	ActivityLight,
	ActivityModerate,
	ActivityHeavy,
	ActivityVeryHeavy,
}

// UserProfile represents the account data the backend stores for a user.
// The backend identifies users by an opaque id string.
type UserProfile struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Age           int     `json:"age"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activityLevel"`
	WeightGoal    string  `json:"weightGoal"`
	JoinDate      string  `json:"joinDate"`
}

// Complete reports whether the profile carries the body measurements the
// dashboard needs. A cached profile missing any of them triggers a refetch.
func (p UserProfile) Complete() bool {
	return p.Age > 0 && p.Height > 0 && p.Weight > 0
}
