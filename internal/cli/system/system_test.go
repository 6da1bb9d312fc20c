package system

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	var out bytes.Buffer
	ctx := &cli.Context{
		Store:     store,
		ConfigDir: tempDir,
		Out:       &out,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, &out, cleanup
}

func seedMeals(t *testing.T, ctx *cli.Context) {
	t.Helper()
	meals := []models.Meal{
		{ID: "m1", Name: "Chicken Salad", Calories: 500, Protein: 40, Carbs: 30, Fat: 20, Type: "low-carb"},
		{ID: "m2", Name: "Salmon Bowl", Calories: 600, Protein: 35, Carbs: 40, Fat: 25, Type: "low-carb"},
		{ID: "m3", Name: "Lentil Curry", Calories: 550, Protein: 30, Carbs: 70, Fat: 12, Type: "low-fat", IsVegetarian: true, IsVegan: true},
	}
	if err := ctx.Store.ReplaceMeals(meals); err != nil {
		t.Fatalf("failed to seed meals: %v", err)
	}
}
