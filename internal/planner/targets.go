package planner

import (
	"strings"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
)

// BuildTargets derives the daily nutritional targets for a request.
//
// The daily deficit assumes 7700 kcal per kg of fat spread over a week, taken
// off a fixed 2200 kcal maintenance baseline. Large goals can push the target
// below zero; the value is not clamped.
func BuildTargets(input models.UserConstraintInput) models.NutritionalTargets {
	deficit := input.WeightLossPerWeekKg * constants.KcalPerKgFat / constants.DaysPerWeek

	targets := models.NutritionalTargets{
		DailyTargetCalories: constants.MaintenanceCalories - deficit,
		FatMaxGrams:         constants.FatMaxDefault,
		CarbsMaxGrams:       constants.CarbsMaxDefault,
		ProteinMinGrams:     constants.ProteinMinGrams,
	}

	switch strings.TrimSpace(input.DietType) {
	case constants.DietTypeLowFat:
		targets.FatMaxGrams = constants.FatMaxLowFat
	case constants.DietTypeLowCarb:
		targets.CarbsMaxGrams = constants.CarbsMaxLowCarb
	}

	return targets
}
