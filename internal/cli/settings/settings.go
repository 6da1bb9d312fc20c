package settings

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/validation"
)

type SettingsShowCmd struct {
	YAML bool `help:"Print settings as YAML." name:"yaml"`
}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	if c.YAML {
		enc := yaml.NewEncoder(ctx.Stdout())
		enc.SetIndent(2)
		if err := enc.Encode(settings); err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		return enc.Close()
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  Solve Timeout:         %d s\n", settings.SolveTimeoutSec)
	ctx.Printf("  Empty Candidates:      %s\n", settings.EmptyCandidates)
	ctx.Println("\nPlanning Defaults:")
	ctx.Printf("  Diet Type:             %s\n", settings.DefaultDietType)
	ctx.Printf("  Weight Loss:           %g kg/week\n", settings.DefaultWeightLossKg)
	ctx.Printf("  Meals Per Day:         %d\n", settings.DefaultMealsPerDay)
	return nil
}

type SettingsSetCmd struct {
	SolveTimeout    *int     `help:"Upper bound on solving time in seconds." name:"solve-timeout"`
	EmptyCandidates *string  `help:"Outcome when no meal matches: plan or infeasible." name:"empty-candidates"`
	DietType        *string  `help:"Default diet type tag." name:"diet-type"`
	WeightLoss      *float64 `help:"Default weekly weight loss goal in kg." name:"weight-loss"`
	MealsPerDay     *int     `help:"Default meals per day." name:"meals-per-day"`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	updated := false
	if c.SolveTimeout != nil {
		settings.SolveTimeoutSec = *c.SolveTimeout
		updated = true
	}
	if c.EmptyCandidates != nil {
		settings.EmptyCandidates = *c.EmptyCandidates
		updated = true
	}
	if c.DietType != nil {
		settings.DefaultDietType = *c.DietType
		updated = true
	}
	if c.WeightLoss != nil {
		settings.DefaultWeightLossKg = *c.WeightLoss
		updated = true
	}
	if c.MealsPerDay != nil {
		settings.DefaultMealsPerDay = *c.MealsPerDay
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'mealplan settings show' to view settings or flags to update them.")
		return nil
	}

	if err := validation.ValidateSettings(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if settings.DefaultDietType != "" && !validation.IsKnownDietType(settings.DefaultDietType) {
		ctx.Printf("Note: %q is not a known diet type; only meals tagged exactly %q will be planned.\n",
			settings.DefaultDietType, settings.DefaultDietType)
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
