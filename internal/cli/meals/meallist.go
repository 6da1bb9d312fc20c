package meals

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/tui"
)

type MealListCmd struct {
	DietType string `help:"Only list meals with this diet type tag." name:"diet-type"`
	JSON     bool   `help:"Print the catalog as JSON." name:"json"`
}

func (c *MealListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	meals, err := ctx.Store.GetAllMeals()
	if err != nil {
		return fmt.Errorf("failed to get meals: %w", err)
	}

	if d := strings.TrimSpace(c.DietType); d != "" {
		filtered := make([]models.Meal, 0, len(meals))
		for _, m := range meals {
			if strings.TrimSpace(m.Type) == d {
				filtered = append(filtered, m)
			}
		}
		meals = filtered
	}

	if c.JSON {
		if meals == nil {
			meals = []models.Meal{}
		}
		enc := json.NewEncoder(ctx.Stdout())
		enc.SetIndent("", "  ")
		return enc.Encode(meals)
	}

	ctx.Printf("%s", tui.RenderMeals(meals))
	return nil
}
