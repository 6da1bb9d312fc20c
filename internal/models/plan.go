package models

import "encoding/json"

// UserConstraintInput is the raw planning request.
type UserConstraintInput struct {
	WeightLossPerWeekKg float64  `json:"weightLossPerWeekKg"`
	DietType            string   `json:"dietType,omitempty"`
	Restrictions        []string `json:"restrictions,omitempty"`
	// MealsPerDay is informational and is not enforced by the solver.
	MealsPerDay int `json:"mealsPerDay"`
}

// NutritionalTargets are derived from a UserConstraintInput.
type NutritionalTargets struct {
	DailyTargetCalories float64 `json:"dailyTargetCalories"`
	FatMaxGrams         float64 `json:"fatMaxGrams"`
	CarbsMaxGrams       float64 `json:"carbsMaxGrams"`
	ProteinMinGrams     float64 `json:"proteinMinGrams"`
}

// MealPlanResult is the outcome of a planning request.
type MealPlanResult struct {
	SelectedMeals     []Meal
	TotalCalories     float64
	TargetCalories    float64
	WeightLossPerWeek float64
}

// PlanMeal is the wire form of a selected meal.
type PlanMeal struct {
	Name         string  `json:"name"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Type         string  `json:"type"`
	IsVegetarian bool    `json:"isVegetarian"`
	IsVegan      bool    `json:"isVegan"`
}

type mealPlanJSON struct {
	Meals             []PlanMeal `json:"meals"`
	TotalCalories     float64    `json:"totalCalories"`
	TargetCalories    float64    `json:"targetCalories"`
	WeightLossPerWeek float64    `json:"weightLossPerWeek"`
}

// ToPlanMeal drops the catalog identity from a meal.
func ToPlanMeal(m Meal) PlanMeal {
	return PlanMeal{
		Name:         m.Name,
		Calories:     m.Calories,
		Protein:      m.Protein,
		Carbs:        m.Carbs,
		Fat:          m.Fat,
		Type:         m.Type,
		IsVegetarian: m.IsVegetarian,
		IsVegan:      m.IsVegan,
	}
}

func (r MealPlanResult) MarshalJSON() ([]byte, error) {
	out := mealPlanJSON{
		Meals:             make([]PlanMeal, 0, len(r.SelectedMeals)),
		TotalCalories:     r.TotalCalories,
		TargetCalories:    r.TargetCalories,
		WeightLossPerWeek: r.WeightLossPerWeek,
	}
	for _, m := range r.SelectedMeals {
		out.Meals = append(out.Meals, ToPlanMeal(m))
	}
	return json.Marshal(out)
}

func (r *MealPlanResult) UnmarshalJSON(data []byte) error {
	var in mealPlanJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.SelectedMeals = make([]Meal, 0, len(in.Meals))
	for _, m := range in.Meals {
		r.SelectedMeals = append(r.SelectedMeals, Meal{
			Name:         m.Name,
			Calories:     m.Calories,
			Protein:      m.Protein,
			Carbs:        m.Carbs,
			Fat:          m.Fat,
			Type:         m.Type,
			IsVegetarian: m.IsVegetarian,
			IsVegan:      m.IsVegan,
		})
	}
	r.TotalCalories = in.TotalCalories
	r.TargetCalories = in.TargetCalories
	r.WeightLossPerWeek = in.WeightLossPerWeek
	return nil
}

// Totals sums the nutritional attributes of the selected meals.
func (r MealPlanResult) Totals() (calories, protein, carbs, fat float64) {
	for _, m := range r.SelectedMeals {
		calories += m.Calories
		protein += m.Protein
		carbs += m.Carbs
		fat += m.Fat
	}
	return calories, protein, carbs, fat
}
