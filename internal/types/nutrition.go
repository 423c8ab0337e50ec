package types

import (
	"encoding/json"
)

// RecipeNutrition represents the macro breakdown attached to a
// custom-nutrition recommendation.
type RecipeNutrition struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// Recipe represents one recommended recipe in canonical form. The two
// recommendation endpoints disagree on field casing (lowercase vs
// PascalCase keys, e.g. `recipeingredientparts` vs `RecipeIngredientParts`)
// and on the ingredients encoding; unmarshalling folds every variant into
// this one shape so nothing downstream branches on it.
type Recipe struct {
	Name        string
	Calories    float64
	Ingredients IngredientList
	PrepTime    string
	CookTime    string
	TotalTime   string
	Images      []string
	Nutrition   RecipeNutrition
}

func (r *Recipe) UnmarshalJSON(data []byte) error {
	// Field matching in encoding/json is case-insensitive, which covers the
	// PascalCase variants of these keys.
	var aux struct {
		Name        string          `json:"name"`
		Calories    float64         `json:"calories"`
		Ingredients IngredientList  `json:"recipeingredientparts"`
		CookTime    string          `json:"cooktime"`
		PrepTime    string          `json:"preptime"`
		TotalTime   string          `json:"totaltime"`
		Images      []string        `json:"images"`
		Nutrition   RecipeNutrition `json:"nutrition"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Name = aux.Name
	r.Calories = aux.Calories
	r.Ingredients = aux.Ingredients
	r.CookTime = aux.CookTime
	r.PrepTime = aux.PrepTime
	r.TotalTime = aux.TotalTime
	r.Images = aux.Images
	r.Nutrition = aux.Nutrition
	return nil
}

// ToMeal converts a selected recipe into the meal shape the food log
// endpoints store and return.
func (r Recipe) ToMeal() Meal {
	return Meal{
		Name:        r.Name,
		Calories:    r.Calories,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
		TotalTime:   r.TotalTime,
		Ingredients: r.Ingredients,
	}
}

// MealRecipes groups recipe recommendations by meal slot.
type MealRecipes struct {
	Breakfast []Recipe `json:"breakfast"`
	Lunch     []Recipe `json:"lunch"`
	Dinner    []Recipe `json:"dinner"`
}

// Empty reports whether no slot received any recommendation.
func (m MealRecipes) Empty() bool {
	return len(m.Breakfast) == 0 && len(m.Lunch) == 0 && len(m.Dinner) == 0
}

// NutritionPlan is the response of POST /api/nutrition: daily targets plus
// per-meal recipe recommendations.
type NutritionPlan struct {
	Calories float64     `json:"calories"`
	Protein  float64     `json:"protein"`
	Carbs    float64     `json:"carbs"`
	Fats     float64     `json:"fats"`
	BMI      float64     `json:"bmi"`
	Category string      `json:"category"`
	Recipes  MealRecipes `json:"recipes"`
}

// NutritionPreferences holds the nine slider values of the custom
// recommendation form. They are a transient query input, never persisted.
type NutritionPreferences struct {
	Calories     float64 `json:"calories"`
	Fat          float64 `json:"fat"`
	SaturatedFat float64 `json:"saturatedFat"`
	Cholesterol  float64 `json:"cholesterol"`
	Sodium       float64 `json:"sodium"`
	Carbohydrate float64 `json:"carbohydrate"`
	Fiber        float64 `json:"fiber"`
	Sugar        float64 `json:"sugar"`
	Protein      float64 `json:"protein"`
}

// DefaultNutritionPreferences mirrors the form's initial slider positions.
func DefaultNutritionPreferences() NutritionPreferences {
	return NutritionPreferences{
		Calories:     500,
		Fat:          10,
		SaturatedFat: 5,
		Cholesterol:  50,
		Sodium:       500,
		Carbohydrate: 50,
		Fiber:        10,
		Sugar:        10,
		Protein:      20,
	}
}

// Values returns the sliders in the fixed order the backend expects in
// nutrition_values_list.
func (p NutritionPreferences) Values() []float64 {
	return []float64{
		p.Calories,
		p.Fat,
		p.SaturatedFat,
		p.Cholesterol,
		p.Sodium,
		p.Carbohydrate,
		p.Fiber,
		p.Sugar,
		p.Protein,
	}
}
