package meals

import (
	"fmt"

	"github.com/julianstephens/mealplan/internal/cli"
)

type MealDeleteCmd struct {
	ID string `arg:"" help:"Meal ID to delete."`
}

func (c *MealDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Check if meal exists first
	meal, err := ctx.Store.GetMeal(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find meal with ID %s: %w", c.ID, err)
	}

	if err := ctx.Store.DeleteMeal(c.ID); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	ctx.Printf("Deleted meal: %s (ID: %s)\n", meal.Name, c.ID)
	return nil
}
