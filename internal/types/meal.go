package types

import (
	"encoding/json"
	"fmt"
)

// Meal represents one logged meal inside a daily food summary.
type Meal struct {
	Name        string         `json:"name"`
	Calories    float64        `json:"calories"`
	PrepTime    string         `json:"prepTime"`
	CookTime    string         `json:"cookTime"`
	TotalTime   string         `json:"totalTime"`
	Ingredients IngredientList `json:"ingredients"`
}

// MealList tolerates the `extra` field arriving as a single meal object or
// as an array of meals.
type MealList []Meal

func (m *MealList) UnmarshalJSON(data []byte) error {
	var list []Meal
	if err := json.Unmarshal(data, &list); err == nil {
		*m = list
		return nil
	}

	var single Meal
	if err := json.Unmarshal(data, &single); err == nil {
		*m = MealList{single}
		return nil
	}

	return fmt.Errorf("invalid extra meals format")
}

// DailyFoodSummary represents the meals logged for one date.
type DailyFoodSummary struct {
	Date      string   `json:"date"`
	Breakfast Meal     `json:"breakfast"`
	Lunch     Meal     `json:"lunch"`
	Dinner    Meal     `json:"dinner"`
	Extra     MealList `json:"extra"`
}

// FoodData is the document returned by GET /api/user/:id/food-data/:date.
type FoodData struct {
	DailyFoodSummary []DailyFoodSummary `json:"daily_food_summary"`
}

// Summary returns the first daily summary, or a zero summary when the
// document is empty, so callers never branch on presence.
func (d FoodData) Summary() DailyFoodSummary {
	if len(d.DailyFoodSummary) == 0 {
		return DailyFoodSummary{}
	}
	return d.DailyFoodSummary[0]
}
