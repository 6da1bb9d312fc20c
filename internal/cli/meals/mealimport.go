package meals

import (
	"fmt"

	"github.com/julianstephens/mealplan/internal/catalog"
	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/logger"
)

type MealImportCmd struct {
	File    string `arg:"" help:"JSON or YAML file holding an array of meals." type:"existingfile"`
	Replace bool   `help:"Empty the catalog before importing."`
}

func (c *MealImportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Every record is validated before anything is written.
	meals, err := catalog.LoadFile(c.File)
	if err != nil {
		return err
	}

	if c.Replace {
		ctx.PerformAutomaticBackup()
		if err := ctx.Store.ReplaceMeals(meals); err != nil {
			return fmt.Errorf("failed to replace catalog: %w", err)
		}
		logger.Info("Replaced meal catalog", "file", c.File, "meals", len(meals))
		ctx.Printf("Replaced catalog with %d meals from %s\n", len(meals), c.File)
		return nil
	}

	existing, err := ctx.Store.GetAllMeals()
	if err != nil {
		return fmt.Errorf("failed to get meals: %w", err)
	}
	ids := make(map[string]bool, len(existing))
	for _, m := range existing {
		ids[m.ID] = true
	}
	for _, m := range meals {
		if ids[m.ID] {
			return fmt.Errorf("meal %q: id %s is already in the catalog (use --replace to start over)", m.Name, m.ID)
		}
	}

	// ReplaceMeals keeps the append atomic.
	if err := ctx.Store.ReplaceMeals(append(existing, meals...)); err != nil {
		return fmt.Errorf("failed to import meals: %w", err)
	}
	logger.Info("Imported meals", "file", c.File, "meals", len(meals))
	ctx.Printf("Imported %d meals from %s\n", len(meals), c.File)
	return nil
}
