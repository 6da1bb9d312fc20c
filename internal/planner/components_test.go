package planner

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/solver"
)

func TestBuildTargets(t *testing.T) {
	tests := []struct {
		name  string
		input models.UserConstraintInput
		want  models.NutritionalTargets
	}{
		{
			name:  "low-carb half kilo",
			input: models.UserConstraintInput{WeightLossPerWeekKg: 0.5, DietType: "low-carb"},
			want:  models.NutritionalTargets{DailyTargetCalories: 1650, FatMaxGrams: 200, CarbsMaxGrams: 100, ProteinMinGrams: 60},
		},
		{
			name:  "low-fat one kilo",
			input: models.UserConstraintInput{WeightLossPerWeekKg: 1, DietType: "low-fat"},
			want:  models.NutritionalTargets{DailyTargetCalories: 1100, FatMaxGrams: 50, CarbsMaxGrams: 500, ProteinMinGrams: 60},
		},
		{
			name:  "maintenance without diet type",
			input: models.UserConstraintInput{},
			want:  models.NutritionalTargets{DailyTargetCalories: 2200, FatMaxGrams: 200, CarbsMaxGrams: 500, ProteinMinGrams: 60},
		},
		{
			name:  "other diet type keeps default limits",
			input: models.UserConstraintInput{WeightLossPerWeekKg: 0.5, DietType: "keto"},
			want:  models.NutritionalTargets{DailyTargetCalories: 1650, FatMaxGrams: 200, CarbsMaxGrams: 500, ProteinMinGrams: 60},
		},
		{
			name:  "large goal is not clamped",
			input: models.UserConstraintInput{WeightLossPerWeekKg: 3},
			want:  models.NutritionalTargets{DailyTargetCalories: -1100, FatMaxGrams: 200, CarbsMaxGrams: 500, ProteinMinGrams: 60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTargets(tt.input)
			assert.InDelta(t, tt.want.DailyTargetCalories, got.DailyTargetCalories, 1e-9)
			assert.Equal(t, tt.want.FatMaxGrams, got.FatMaxGrams)
			assert.Equal(t, tt.want.CarbsMaxGrams, got.CarbsMaxGrams)
			assert.Equal(t, tt.want.ProteinMinGrams, got.ProteinMinGrams)
		})
	}
}

func TestBuildTargets_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	diets := []string{"", "low-carb", "low-fat", "keto"}
	for i := 0; i < 200; i++ {
		input := models.UserConstraintInput{
			WeightLossPerWeekKg: rng.Float64() * 2,
			DietType:            diets[rng.Intn(len(diets))],
			MealsPerDay:         1 + rng.Intn(5),
		}
		assert.Equal(t, BuildTargets(input), BuildTargets(input))
	}
}

func testCatalog() []models.Meal {
	return []models.Meal{
		{ID: "1", Name: "Oats", Type: "low-carb", IsVegetarian: true, IsVegan: true},
		{ID: "2", Name: "Steak", Type: "low-carb"},
		{ID: "3", Name: "Omelette", Type: "low-carb", IsVegetarian: true},
		{ID: "4", Name: "Rice Bowl", Type: "low-fat", IsVegetarian: true, IsVegan: true},
		{ID: "5", Name: "Low Carb Caps", Type: "Low-Carb"},
	}
}

func names(meals []models.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.Name
	}
	return out
}

func TestFilterCandidates(t *testing.T) {
	tests := []struct {
		name         string
		dietType     string
		restrictions []string
		want         []string
	}{
		{name: "no filters", want: []string{"Oats", "Steak", "Omelette", "Rice Bowl", "Low Carb Caps"}},
		{name: "diet type exact match", dietType: "low-carb", want: []string{"Oats", "Steak", "Omelette"}},
		{name: "diet type is case sensitive", dietType: "Low-Carb", want: []string{"Low Carb Caps"}},
		{name: "diet type is trimmed", dietType: " low-fat ", want: []string{"Rice Bowl"}},
		{name: "vegetarian", restrictions: []string{"vegetarian"}, want: []string{"Oats", "Omelette", "Rice Bowl"}},
		{name: "vegan", restrictions: []string{"vegan"}, want: []string{"Oats", "Rice Bowl"}},
		{name: "restriction tags ignore case", restrictions: []string{" Vegan"}, want: []string{"Oats", "Rice Bowl"}},
		{name: "unknown restrictions ignored", restrictions: []string{"breakfast", "dinner"}, want: []string{"Oats", "Steak", "Omelette", "Rice Bowl", "Low Carb Caps"}},
		{name: "combined", dietType: "low-carb", restrictions: []string{"vegetarian"}, want: []string{"Oats", "Omelette"}},
		{name: "nothing matches", dietType: "keto", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterCandidates(testCatalog(), tt.dietType, tt.restrictions)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestFilterCandidates_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	diets := []string{"", "low-carb", "low-fat", "keto"}
	restrictionSets := [][]string{nil, {"vegetarian"}, {"vegan"}, {"vegan", "vegetarian"}, {"lunch"}}

	for trial := 0; trial < 100; trial++ {
		meals := make([]models.Meal, rng.Intn(30))
		for i := range meals {
			meals[i] = randomMeal(rng, i)
		}
		diet := diets[rng.Intn(len(diets))]
		restrictions := restrictionSets[rng.Intn(len(restrictionSets))]

		once := FilterCandidates(meals, diet, restrictions)
		twice := FilterCandidates(once, diet, restrictions)
		assert.Equal(t, once, twice, "trial %d", trial)
	}
}

func TestBuildModel(t *testing.T) {
	candidates := []models.Meal{
		{Name: "A", Calories: 100, Protein: 10, Carbs: 20, Fat: 5},
		{Name: "B", Calories: 200, Protein: 30, Carbs: 10, Fat: 8},
	}
	targets := models.NutritionalTargets{DailyTargetCalories: 1650, FatMaxGrams: 200, CarbsMaxGrams: 100, ProteinMinGrams: 60}

	model := BuildModel(candidates, targets)

	assert.Equal(t, AttrCalories, model.Objective)
	require.Len(t, model.Variables, 2)
	assert.Equal(t, "meal0", model.Variables[0].ID)
	assert.Equal(t, "meal1", model.Variables[1].ID)
	assert.Equal(t, 200.0, model.Variables[1].Calories)
	assert.Equal(t, 30.0, model.Variables[1].Protein)

	p := model.Problem()
	assert.Equal(t, []float64{100, 200}, p.Objective)
	require.Len(t, p.Constraints, 4)

	byName := make(map[string]solver.Constraint)
	for _, c := range p.Constraints {
		byName[c.Name] = c
	}
	assert.Equal(t, solver.LessOrEqual, byName[AttrCalories].Sense)
	assert.Equal(t, 1650.0, byName[AttrCalories].Bound)
	assert.Equal(t, []float64{5, 8}, byName[AttrFat].Coeffs)
	assert.Equal(t, 200.0, byName[AttrFat].Bound)
	assert.Equal(t, []float64{20, 10}, byName[AttrCarbs].Coeffs)
	assert.Equal(t, 100.0, byName[AttrCarbs].Bound)
	assert.Equal(t, solver.GreaterOrEqual, byName[AttrProtein].Sense)
	assert.Equal(t, 60.0, byName[AttrProtein].Bound)
}

func TestBuildModel_Empty(t *testing.T) {
	model := BuildModel(nil, BuildTargets(models.UserConstraintInput{}))
	assert.Empty(t, model.Variables)
	p := model.Problem()
	assert.Empty(t, p.Objective)
	for _, c := range p.Constraints {
		assert.Empty(t, c.Coeffs)
	}
}

func TestExtractResult_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	targets := models.NutritionalTargets{DailyTargetCalories: 1650}
	input := models.UserConstraintInput{WeightLossPerWeekKg: 0.5, MealsPerDay: 3}

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(51)
		candidates := make([]models.Meal, n)
		for i := range candidates {
			candidates[i] = randomMeal(rng, i)
		}

		values := make(map[string]int, n)
		var want []string
		objective := 0.0
		for i, m := range candidates {
			v := rng.Intn(2)
			values[VariableID(i)] = v
			if v == 1 {
				want = append(want, m.ID)
				objective += m.Calories
			}
		}

		result, err := ExtractResult(Assignment{Values: values, Objective: objective}, candidates, targets, input)
		require.NoError(t, err, "trial %d", trial)

		got := make([]string, 0, len(result.SelectedMeals))
		for _, m := range result.SelectedMeals {
			got = append(got, m.ID)
		}
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, got, "trial %d (n=%d)", trial, n)
		assert.Equal(t, objective, result.TotalCalories)
		assert.Equal(t, 1650.0, result.TargetCalories)
		assert.Equal(t, 0.5, result.WeightLossPerWeek)
	}
}

func TestExtractResult_FromSolver(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := solver.New()

	for trial := 0; trial < 40; trial++ {
		n := rng.Intn(13)
		candidates := make([]models.Meal, n)
		for i := range candidates {
			candidates[i] = randomMeal(rng, i)
		}
		targets := models.NutritionalTargets{DailyTargetCalories: 1800, FatMaxGrams: 200, CarbsMaxGrams: 500, ProteinMinGrams: 0}
		model := BuildModel(candidates, targets)

		assignment, err := Solve(context.Background(), s, model)
		require.NoError(t, err, "trial %d", trial)

		result, err := ExtractResult(assignment, candidates, targets, models.UserConstraintInput{})
		require.NoError(t, err)

		selected := make(map[string]bool)
		for _, m := range result.SelectedMeals {
			selected[m.ID] = true
		}
		for i, m := range candidates {
			assert.Equal(t, assignment.Values[VariableID(i)] == 1, selected[m.ID],
				"trial %d: meal %d selection does not match its variable", trial, i)
		}
	}
}

func TestExtractResult_Mismatch(t *testing.T) {
	candidates := []models.Meal{{ID: "a"}, {ID: "b"}}

	t.Run("wrong variable count", func(t *testing.T) {
		_, err := ExtractResult(Assignment{Values: map[string]int{"meal0": 1}}, candidates, models.NutritionalTargets{}, models.UserConstraintInput{})
		assert.Error(t, err)
	})

	t.Run("unknown variable", func(t *testing.T) {
		values := map[string]int{"meal0": 1, fmt.Sprintf("meal%d", 7): 1}
		_, err := ExtractResult(Assignment{Values: values}, candidates, models.NutritionalTargets{}, models.UserConstraintInput{})
		assert.Error(t, err)
	})
}
