package planner

import (
	"fmt"

	"github.com/julianstephens/mealplan/internal/models"
)

// ExtractResult maps a solved assignment back onto the candidate meals.
// Selected meals keep candidate order. The assignment must hold exactly one
// value per candidate.
func ExtractResult(assignment Assignment, candidates []models.Meal, targets models.NutritionalTargets, input models.UserConstraintInput) (models.MealPlanResult, error) {
	if len(assignment.Values) != len(candidates) {
		return models.MealPlanResult{}, fmt.Errorf("assignment has %d variables for %d candidates", len(assignment.Values), len(candidates))
	}

	selected := make([]models.Meal, 0)
	for i, meal := range candidates {
		v, ok := assignment.Values[VariableID(i)]
		if !ok {
			return models.MealPlanResult{}, fmt.Errorf("assignment is missing variable %s", VariableID(i))
		}
		if v > 0 {
			selected = append(selected, meal)
		}
	}

	return models.MealPlanResult{
		SelectedMeals:     selected,
		TotalCalories:     assignment.Objective,
		TargetCalories:    targets.DailyTargetCalories,
		WeightLossPerWeek: input.WeightLossPerWeekKg,
	}, nil
}
