package meals

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/mealplan/internal/backup"
	"github.com/julianstephens/mealplan/internal/catalog"
	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	var out bytes.Buffer
	return &cli.Context{Store: store, Out: &out}, &out, dbPath
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

const importJSON = `[
  {"name": "Chicken Salad", "calories": 500, "protein": 40, "carbs": 30, "fat": 20, "type": "low-carb", "isVegetarian": false, "isVegan": false},
  {"id": "lentil", "name": "Lentil Curry", "calories": 550, "protein": 30, "carbs": 70, "fat": 12, "type": "low-fat", "isVegetarian": true, "isVegan": true}
]`

func TestMealAddCmd(t *testing.T) {
	ctx, out, _ := setupTestDB(t)

	cmd := &MealAddCmd{Name: " Tofu Bowl ", Calories: 480, Protein: 32, Carbs: 45, Fat: 14, Type: "low-fat", Vegan: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("meals add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added meal: Tofu Bowl") {
		t.Errorf("unexpected output: %s", out.String())
	}

	meals, err := ctx.Store.GetAllMeals()
	if err != nil {
		t.Fatal(err)
	}
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(meals))
	}
	m := meals[0]
	if m.ID == "" || m.Name != "Tofu Bowl" || !m.IsVegan || !m.IsVegetarian {
		t.Errorf("unexpected meal: %+v", m)
	}
}

func TestMealAddCmd_Invalid(t *testing.T) {
	ctx, _, _ := setupTestDB(t)

	cmd := &MealAddCmd{Name: "Broken", Calories: -10, Protein: 1, Type: "low-fat"}
	if err := cmd.Run(ctx); err == nil {
		t.Fatal("expected an error for negative calories")
	}

	meals, _ := ctx.Store.GetAllMeals()
	if len(meals) != 0 {
		t.Errorf("invalid meal was stored: %+v", meals)
	}
}

func TestMealAddCmd_UnknownDietType(t *testing.T) {
	ctx, out, _ := setupTestDB(t)

	cmd := &MealAddCmd{Name: "Poke", Calories: 450, Protein: 30, Carbs: 40, Fat: 10, Type: "pescatarian"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("meals add failed: %v", err)
	}
	if !strings.Contains(out.String(), `"pescatarian" is not a known diet type`) {
		t.Errorf("expected a note about the diet type, got %s", out.String())
	}
}

func TestMealDeleteCmd(t *testing.T) {
	ctx, out, _ := setupTestDB(t)
	if err := ctx.Store.AddMeal(models.Meal{ID: "m1", Name: "Chicken Salad", Calories: 500, Protein: 40, Type: "low-carb"}); err != nil {
		t.Fatal(err)
	}

	if err := (&MealDeleteCmd{ID: "m1"}).Run(ctx); err != nil {
		t.Fatalf("meals delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted meal: Chicken Salad (ID: m1)") {
		t.Errorf("unexpected output: %s", out.String())
	}

	err := (&MealDeleteCmd{ID: "m1"}).Run(ctx)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a deleted meal, got %v", err)
	}
}

func TestMealListCmd(t *testing.T) {
	ctx, out, _ := setupTestDB(t)
	if err := (&MealImportCmd{File: writeFile(t, "meals.json", importJSON)}).Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	out.Reset()
	if err := (&MealListCmd{}).Run(ctx); err != nil {
		t.Fatalf("meals list failed: %v", err)
	}
	for _, want := range []string{"Chicken Salad", "Lentil Curry", "vegan"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := (&MealListCmd{DietType: "low-fat", JSON: true}).Run(ctx); err != nil {
		t.Fatalf("meals list --json failed: %v", err)
	}
	var meals []models.Meal
	if err := json.Unmarshal(out.Bytes(), &meals); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(meals) != 1 || meals[0].ID != "lentil" {
		t.Errorf("filtered list = %+v", meals)
	}

	out.Reset()
	if err := (&MealListCmd{DietType: "keto", JSON: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("expected an empty array, got %s", out.String())
	}
}

func TestMealImportCmd_Append(t *testing.T) {
	ctx, out, _ := setupTestDB(t)
	if err := ctx.Store.AddMeal(models.Meal{ID: "m0", Name: "Oats", Calories: 300, Protein: 10, Type: "low-fat"}); err != nil {
		t.Fatal(err)
	}

	if err := (&MealImportCmd{File: writeFile(t, "meals.json", importJSON)}).Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 2 meals") {
		t.Errorf("unexpected output: %s", out.String())
	}

	meals, err := ctx.Store.GetAllMeals()
	if err != nil {
		t.Fatal(err)
	}
	if len(meals) != 3 || meals[0].Name != "Oats" || meals[2].Name != "Lentil Curry" {
		t.Errorf("catalog after import = %+v", meals)
	}

	// Re-importing an explicit id is refused and leaves the catalog alone.
	err = (&MealImportCmd{File: writeFile(t, "again.json", importJSON)}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "already in the catalog") {
		t.Errorf("expected a duplicate id error, got %v", err)
	}
	meals, _ = ctx.Store.GetAllMeals()
	if len(meals) != 3 {
		t.Errorf("catalog changed by a failed import: %d meals", len(meals))
	}
}

func TestMealImportCmd_Replace(t *testing.T) {
	ctx, _, dbPath := setupTestDB(t)
	if err := ctx.Store.AddMeal(models.Meal{ID: "m0", Name: "Oats", Calories: 300, Protein: 10, Type: "low-fat"}); err != nil {
		t.Fatal(err)
	}

	yamlFile := writeFile(t, "meals.yaml", `
- name: Salmon Bowl
  calories: 600
  protein: 35
  carbs: 40
  fat: 25
  type: low-carb
`)
	if err := (&MealImportCmd{File: yamlFile, Replace: true}).Run(ctx); err != nil {
		t.Fatalf("import --replace failed: %v", err)
	}

	meals, err := ctx.Store.GetAllMeals()
	if err != nil {
		t.Fatal(err)
	}
	if len(meals) != 1 || meals[0].Name != "Salmon Bowl" {
		t.Errorf("catalog after replace = %+v", meals)
	}

	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("expected a backup before replacing, got %d", len(backups))
	}
}

func TestMealImportCmd_InvalidFile(t *testing.T) {
	ctx, _, _ := setupTestDB(t)
	if err := ctx.Store.AddMeal(models.Meal{ID: "m0", Name: "Oats", Calories: 300, Protein: 10, Type: "low-fat"}); err != nil {
		t.Fatal(err)
	}

	bad := writeFile(t, "bad.json", `[{"name": "Fine", "calories": 1}, {"name": "", "calories": 2}]`)
	if err := (&MealImportCmd{File: bad, Replace: true}).Run(ctx); err == nil {
		t.Fatal("expected an error for an invalid record")
	}

	meals, _ := ctx.Store.GetAllMeals()
	if len(meals) != 1 || meals[0].ID != "m0" {
		t.Errorf("catalog changed by a failed import: %+v", meals)
	}
}

func TestMealExportCmd(t *testing.T) {
	ctx, out, _ := setupTestDB(t)
	if err := (&MealImportCmd{File: writeFile(t, "meals.json", importJSON)}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&MealExportCmd{Format: "json"}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	meals, err := catalog.Parse(strings.NewReader(out.String()), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("exported JSON does not import: %v", err)
	}
	if len(meals) != 2 {
		t.Errorf("exported %d meals, want 2", len(meals))
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := (&MealExportCmd{Output: path}).Run(ctx); err != nil {
		t.Fatalf("export to file failed: %v", err)
	}
	meals, err = catalog.LoadFile(path)
	if err != nil {
		t.Fatalf("exported YAML does not import: %v", err)
	}
	if len(meals) != 2 || meals[1].ID != "lentil" {
		t.Errorf("exported catalog = %+v", meals)
	}

	if err := (&MealExportCmd{Output: filepath.Join(t.TempDir(), "catalog.csv")}).Run(ctx); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}
