package meals

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/validation"
)

type MealAddCmd struct {
	Name       string  `arg:"" help:"Meal name."`
	Calories   float64 `short:"c" help:"Calories (kcal)." required:""`
	Protein    float64 `short:"p" help:"Protein in grams." required:""`
	Carbs      float64 `help:"Carbohydrates in grams." required:""`
	Fat        float64 `short:"f" help:"Fat in grams." required:""`
	Type       string  `short:"t" help:"Diet type tag, e.g. low-carb or low-fat." required:""`
	Vegetarian bool    `help:"Meal is vegetarian."`
	Vegan      bool    `help:"Meal is vegan (implies vegetarian)."`
}

func (c *MealAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	meal := models.Meal{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(c.Name),
		Calories:     c.Calories,
		Protein:      c.Protein,
		Carbs:        c.Carbs,
		Fat:          c.Fat,
		Type:         strings.TrimSpace(c.Type),
		IsVegetarian: c.Vegetarian || c.Vegan,
		IsVegan:      c.Vegan,
	}

	if err := validation.ValidateMeal(meal); err != nil {
		return fmt.Errorf("invalid meal: %w", err)
	}
	if !validation.IsKnownDietType(meal.Type) {
		ctx.Printf("Note: %q is not a known diet type; only requests for exactly %q will match it.\n", meal.Type, meal.Type)
	}

	if err := ctx.Store.AddMeal(meal); err != nil {
		return fmt.Errorf("failed to add meal: %w", err)
	}

	ctx.Printf("Added meal: %s (ID: %s)\n", meal.Name, meal.ID)
	return nil
}
