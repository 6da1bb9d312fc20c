package plans

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planner"
	"github.com/julianstephens/mealplan/internal/storage/sqlite"
)

func setupTestDB(t *testing.T, meals []models.Meal) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	if err := store.ReplaceMeals(meals); err != nil {
		t.Fatalf("failed to seed meals: %v", err)
	}

	var out bytes.Buffer
	return &cli.Context{Store: store, Out: &out}, &out
}

func testMeals() []models.Meal {
	return []models.Meal{
		{ID: "a", Name: "Chicken Salad", Calories: 500, Protein: 40, Carbs: 30, Fat: 20, Type: "low-carb"},
		{ID: "b", Name: "Salmon Bowl", Calories: 600, Protein: 35, Carbs: 40, Fat: 25, Type: "low-carb"},
		{ID: "c", Name: "Cheese Board", Calories: 700, Protein: 10, Carbs: 10, Fat: 60, Type: "low-carb"},
		{ID: "d", Name: "Lentil Curry", Calories: 550, Protein: 30, Carbs: 70, Fat: 12, Type: "low-fat", IsVegetarian: true, IsVegan: true},
		{ID: "e", Name: "Tofu Stir Fry", Calories: 480, Protein: 32, Carbs: 45, Fat: 14, Type: "low-fat", IsVegetarian: true, IsVegan: true},
	}
}

func decodePlan(t *testing.T, out *bytes.Buffer) models.MealPlanResult {
	t.Helper()
	var result models.MealPlanResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not a plan: %v\n%s", err, out.String())
	}
	return result
}

func mealNames(result models.MealPlanResult) []string {
	names := make([]string, 0, len(result.SelectedMeals))
	for _, m := range result.SelectedMeals {
		names = append(names, m.Name)
	}
	return names
}

func TestPlanCmd_JSONDefaults(t *testing.T) {
	ctx, out := setupTestDB(t, testMeals())

	cmd := &PlanCmd{JSON: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	result := decodePlan(t, out)
	if result.TargetCalories != 1650 {
		t.Errorf("targetCalories = %v, want 1650", result.TargetCalories)
	}
	if result.TotalCalories != 1100 {
		t.Errorf("totalCalories = %v, want 1100", result.TotalCalories)
	}
	if got := strings.Join(mealNames(result), ","); got != "Chicken Salad,Salmon Bowl" {
		t.Errorf("selected meals = %s", got)
	}
}

func TestPlanCmd_Flags(t *testing.T) {
	ctx, out := setupTestDB(t, testMeals())

	weight := 0.25
	cmd := &PlanCmd{
		WeightLoss:  &weight,
		DietType:    "low-fat",
		Restriction: []string{"vegan"},
		JSON:        true,
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	result := decodePlan(t, out)
	if result.TargetCalories != 1925 {
		t.Errorf("targetCalories = %v, want 1925", result.TargetCalories)
	}
	if result.WeightLossPerWeek != 0.25 {
		t.Errorf("weightLossPerWeek = %v", result.WeightLossPerWeek)
	}
	if got := strings.Join(mealNames(result), ","); got != "Lentil Curry,Tofu Stir Fry" {
		t.Errorf("selected meals = %s", got)
	}
}

func TestPlanCmd_Table(t *testing.T) {
	ctx, out := setupTestDB(t, testMeals())

	if err := (&PlanCmd{}).Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	for _, want := range []string{"Meal plan", "Chicken Salad", "Salmon Bowl", "Total"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPlanCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		meals   []models.Meal
		cmd     PlanCmd
		wantErr error
	}{
		{
			name:    "protein floor unreachable",
			meals:   testMeals()[2:3],
			cmd:     PlanCmd{DietType: "low-carb"},
			wantErr: planner.ErrInfeasibleModel,
		},
		{
			name:    "negative weight loss",
			meals:   testMeals(),
			cmd:     PlanCmd{WeightLoss: func() *float64 { v := -1.0; return &v }()},
			wantErr: planner.ErrInvalidInput,
		},
		{
			name:    "negative meals per day",
			meals:   testMeals(),
			cmd:     PlanCmd{MealsPerDay: -2},
			wantErr: planner.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t, tt.meals)
			err := tt.cmd.Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlanCmd_EmptyCandidates(t *testing.T) {
	ctx, out := setupTestDB(t, testMeals())

	cmd := &PlanCmd{DietType: "keto", JSON: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if !strings.Contains(out.String(), `"meals": []`) {
		t.Errorf("expected an empty plan, got %s", out.String())
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	settings.EmptyCandidates = constants.EmptyCandidatesInfeasible
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(ctx); !errors.Is(err, planner.ErrInfeasibleModel) {
		t.Errorf("expected ErrInfeasibleModel with the infeasible policy, got %v", err)
	}
}

func TestPlanCmd_Interactive(t *testing.T) {
	oldRunForm := runForm
	defer func() { runForm = oldRunForm }()

	ctx, out := setupTestDB(t, testMeals())

	// Accepting the form unchanged keeps the defaults.
	runForm = func(f *huh.Form) error { return nil }
	if err := (&PlanCmd{Interactive: true, JSON: true}).Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if result := decodePlan(t, out); result.TargetCalories != 1650 {
		t.Errorf("targetCalories = %v, want 1650", result.TargetCalories)
	}

	runForm = func(f *huh.Form) error { return huh.ErrUserAborted }
	err := (&PlanCmd{Interactive: true}).Run(ctx)
	if !errors.Is(err, huh.ErrUserAborted) {
		t.Errorf("expected the abort to propagate, got %v", err)
	}
}

func TestPlanForm_Input(t *testing.T) {
	f := newPlanForm(models.UserConstraintInput{WeightLossPerWeekKg: 0.5, DietType: "low-carb", MealsPerDay: 3})
	if f.weightLoss != "0.5" || f.mealsPerDay != "3" {
		t.Fatalf("unexpected defaults: %+v", f)
	}

	f.weightLoss = " 1 "
	f.dietType = "low-fat"
	f.restrictions = []string{"vegan"}
	f.mealsPerDay = "4"
	input, err := f.input()
	if err != nil {
		t.Fatalf("input() failed: %v", err)
	}
	if input.WeightLossPerWeekKg != 1 || input.DietType != "low-fat" || input.MealsPerDay != 4 || len(input.Restrictions) != 1 {
		t.Errorf("unexpected input: %+v", input)
	}

	f.weightLoss = "lots"
	if _, err := f.input(); err == nil {
		t.Error("expected an error for a non-numeric weight")
	}
	f.weightLoss = "1"
	f.mealsPerDay = "0"
	if _, err := f.input(); err == nil {
		t.Error("expected an error for zero meals per day")
	}
}
