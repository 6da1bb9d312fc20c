package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateMealName  ConflictType = "duplicate_meal_name"
	ConflictDuplicateMealID    ConflictType = "duplicate_meal_id"
	ConflictMissingMealID      ConflictType = "missing_meal_id"
	ConflictMissingMealName    ConflictType = "missing_meal_name"
	ConflictInvalidNutrient    ConflictType = "invalid_nutrient"
	ConflictUnknownDietType    ConflictType = "unknown_diet_type"
	ConflictVeganNotVegetarian ConflictType = "vegan_not_vegetarian"
)

// KnownDietTypes are the diet type tags the UI offers. Other tags are legal
// but flagged, since they can only be matched by an identical request tag.
var KnownDietTypes = []string{
	constants.DietTypeLowCarb,
	constants.DietTypeLowFat,
	"high-protein",
	"keto",
	"balanced",
}

// Conflict represents a detected problem in the meal catalog
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Meal names involved
	MealIDs     []string // IDs of meals involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var sb strings.Builder
	sb.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		sb.WriteString(fmt.Sprintf("- %s\n", conflict.Description))
	}
	return sb.String()
}

// Validator validates meal catalogs
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateMeals checks a catalog for integrity problems. The planner can
// still run on a catalog with conflicts; these are data-quality warnings.
func (v *Validator) ValidateMeals(meals []models.Meal) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	nameIDs := make(map[string][]string)
	idCount := make(map[string]int)
	for _, meal := range meals {
		if meal.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingMealID,
				Description: fmt.Sprintf("Meal \"%s\" has no ID", meal.Name),
				Items:       []string{meal.Name},
			})
		} else {
			idCount[meal.ID]++
		}

		if strings.TrimSpace(meal.Name) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingMealName,
				Description: fmt.Sprintf("Meal %s has an empty name", meal.ID),
				MealIDs:     []string{meal.ID},
			})
		} else {
			key := strings.ToLower(strings.TrimSpace(meal.Name))
			nameIDs[key] = append(nameIDs[key], meal.ID)
		}

		for _, nutrient := range nutrientErrors(meal) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidNutrient,
				Description: fmt.Sprintf("Meal \"%s\" %s", meal.Name, nutrient),
				Items:       []string{meal.Name},
				MealIDs:     []string{meal.ID},
			})
		}

		if meal.Type != "" && !IsKnownDietType(meal.Type) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownDietType,
				Description: fmt.Sprintf("Meal \"%s\" has unrecognized diet type %q", meal.Name, meal.Type),
				Items:       []string{meal.Name},
				MealIDs:     []string{meal.ID},
			})
		}

		if meal.IsVegan && !meal.IsVegetarian {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictVeganNotVegetarian,
				Description: fmt.Sprintf("Meal \"%s\" is marked vegan but not vegetarian", meal.Name),
				Items:       []string{meal.Name},
				MealIDs:     []string{meal.ID},
			})
		}
	}

	names := make([]string, 0, len(nameIDs))
	for name := range nameIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := nameIDs[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateMealName,
				Description: fmt.Sprintf("Duplicate meal name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				MealIDs:     ids,
			})
		}
	}

	ids := make([]string, 0, len(idCount))
	for id, n := range idCount {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateMealID,
			Description: fmt.Sprintf("Meal ID %s is used %d times", id, idCount[id]),
			MealIDs:     []string{id},
		})
	}

	return result
}

// ValidateMeal rejects meals that cannot be stored: an empty name or a
// nutrient value that is negative or not finite.
func ValidateMeal(meal models.Meal) error {
	if strings.TrimSpace(meal.Name) == "" {
		return errors.New("meal name cannot be empty")
	}
	if errs := nutrientErrors(meal); len(errs) > 0 {
		return fmt.Errorf("meal %q %s", meal.Name, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateInput checks a planning request before any targets are derived.
func ValidateInput(input models.UserConstraintInput) error {
	w := input.WeightLossPerWeekKg
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("weight loss per week must be a finite number, got %v", w)
	}
	if w < 0 {
		return fmt.Errorf("weight loss per week cannot be negative, got %v", w)
	}
	if input.MealsPerDay <= 0 {
		return fmt.Errorf("meals per day must be positive, got %d", input.MealsPerDay)
	}
	return nil
}

// ValidateSettings checks values written by the settings command.
func ValidateSettings(s models.Settings) error {
	if s.SolveTimeoutSec <= 0 {
		return fmt.Errorf("solve timeout must be positive, got %d", s.SolveTimeoutSec)
	}
	if s.EmptyCandidates != constants.EmptyCandidatesPlan && s.EmptyCandidates != constants.EmptyCandidatesInfeasible {
		return fmt.Errorf("empty candidates policy must be %q or %q, got %q",
			constants.EmptyCandidatesPlan, constants.EmptyCandidatesInfeasible, s.EmptyCandidates)
	}
	if math.IsNaN(s.DefaultWeightLossKg) || math.IsInf(s.DefaultWeightLossKg, 0) || s.DefaultWeightLossKg < 0 {
		return fmt.Errorf("default weight loss must be a non-negative number, got %v", s.DefaultWeightLossKg)
	}
	if s.DefaultMealsPerDay <= 0 {
		return fmt.Errorf("default meals per day must be positive, got %d", s.DefaultMealsPerDay)
	}
	return nil
}

// IsKnownDietType reports whether tag is one of KnownDietTypes.
func IsKnownDietType(tag string) bool {
	for _, known := range KnownDietTypes {
		if tag == known {
			return true
		}
	}
	return false
}

func nutrientErrors(meal models.Meal) []string {
	var errs []string
	check := func(name string, v float64) {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, fmt.Sprintf("has non-finite %s", name))
		case v < 0:
			errs = append(errs, fmt.Sprintf("has negative %s (%v)", name, v))
		}
	}
	check("calories", meal.Calories)
	check("protein", meal.Protein)
	check("carbs", meal.Carbs)
	check("fat", meal.Fat)
	return errs
}
