package planner

import (
	"strings"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
)

// FilterCandidates returns the meals compatible with the diet type and
// restrictions, in catalog order. dietType is compared exactly, and an empty
// dietType matches every meal. Restriction tags are case-insensitive; tags
// other than "vegetarian" and "vegan" are ignored.
func FilterCandidates(catalog []models.Meal, dietType string, restrictions []string) []models.Meal {
	dietType = strings.TrimSpace(dietType)

	var vegetarian, vegan bool
	for _, r := range restrictions {
		switch normalizeTag(r) {
		case constants.RestrictionVegetarian:
			vegetarian = true
		case constants.RestrictionVegan:
			vegan = true
		}
	}

	candidates := make([]models.Meal, 0, len(catalog))
	for _, meal := range catalog {
		if dietType != "" && meal.Type != dietType {
			continue
		}
		if vegetarian && !meal.IsVegetarian {
			continue
		}
		if vegan && !meal.IsVegan {
			continue
		}
		candidates = append(candidates, meal)
	}
	return candidates
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
