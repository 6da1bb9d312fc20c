package meals

import (
	"fmt"
	"os"

	"github.com/julianstephens/mealplan/internal/catalog"
	"github.com/julianstephens/mealplan/internal/cli"
)

type MealExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout. The extension picks the format."`
	Format string `help:"Output format when writing to stdout." enum:"json,yaml" default:"json"`
}

func (c *MealExportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	meals, err := ctx.Store.GetAllMeals()
	if err != nil {
		return fmt.Errorf("failed to get meals: %w", err)
	}

	if c.Output == "" {
		return catalog.Write(ctx.Stdout(), meals, catalog.Format(c.Format))
	}

	format, err := catalog.FormatFromPath(c.Output)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := catalog.Write(f, meals, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	ctx.Printf("Exported %d meals to %s\n", len(meals), c.Output)
	return nil
}
