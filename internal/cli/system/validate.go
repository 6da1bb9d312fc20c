package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	meals, err := ctx.Store.GetAllMeals()
	if err != nil {
		return fmt.Errorf("failed to get meals: %w", err)
	}

	result := validation.New().ValidateMeals(meals)
	ctx.Println(strings.TrimRight(result.FormatReport(), "\n"))
	if result.HasConflicts() {
		return errors.New("meal catalog has conflicts")
	}
	return nil
}
