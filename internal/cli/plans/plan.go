package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planner"
	"github.com/julianstephens/mealplan/internal/tui"
	"github.com/julianstephens/mealplan/internal/validation"
)

// runForm allows tests to answer the interactive form without a terminal.
var runForm = func(f *huh.Form) error { return f.Run() }

type PlanCmd struct {
	WeightLoss  *float64      `help:"Weekly weight loss goal in kg (default from settings)." name:"weight-loss"`
	DietType    string        `help:"Diet type tag, e.g. low-carb or low-fat (default from settings)." name:"diet-type"`
	Restriction []string      `help:"Dietary restriction: vegetarian or vegan. Repeatable." name:"restriction"`
	MealsPerDay int           `help:"Meals per day (informational, default from settings)." name:"meals-per-day"`
	Timeout     time.Duration `help:"Upper bound on solving time (default from settings)."`
	JSON        bool          `help:"Print the plan as JSON." name:"json"`
	Interactive bool          `help:"Answer the onboarding questions interactively." short:"i"`
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	input := c.buildInput(settings)
	if c.Interactive {
		if input, err = askInput(input); err != nil {
			return err
		}
	}

	opts := planner.OptionsFromSettings(settings)
	if c.Timeout > 0 {
		opts.SolveTimeout = c.Timeout
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := planner.New(ctx.Store, opts).GeneratePlan(runCtx, input)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(ctx.Stdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	ctx.Printf("%s", tui.RenderPlan(result))
	return nil
}

// buildInput fills unset flags from settings.
func (c *PlanCmd) buildInput(settings models.Settings) models.UserConstraintInput {
	input := models.UserConstraintInput{
		WeightLossPerWeekKg: settings.DefaultWeightLossKg,
		DietType:            settings.DefaultDietType,
		Restrictions:        c.Restriction,
		MealsPerDay:         settings.DefaultMealsPerDay,
	}
	if c.WeightLoss != nil {
		input.WeightLossPerWeekKg = *c.WeightLoss
	}
	if d := strings.TrimSpace(c.DietType); d != "" {
		input.DietType = d
	}
	if c.MealsPerDay != 0 {
		input.MealsPerDay = c.MealsPerDay
	}
	if input.Restrictions == nil {
		input.Restrictions = []string{}
	}
	return input
}

// planForm holds the raw answers of the onboarding form.
type planForm struct {
	weightLoss   string
	dietType     string
	restrictions []string
	mealsPerDay  string
}

func newPlanForm(input models.UserConstraintInput) *planForm {
	return &planForm{
		weightLoss:   strconv.FormatFloat(input.WeightLossPerWeekKg, 'f', -1, 64),
		dietType:     input.DietType,
		restrictions: input.Restrictions,
		mealsPerDay:  strconv.Itoa(input.MealsPerDay),
	}
}

func (f *planForm) form() *huh.Form {
	dietOptions := make([]huh.Option[string], 0, len(validation.KnownDietTypes))
	for _, d := range validation.KnownDietTypes {
		dietOptions = append(dietOptions, huh.NewOption(d, d))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Weekly weight loss goal (kg)").
				Value(&f.weightLoss).
				Validate(func(s string) error {
					_, err := parseWeightLoss(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Diet type").
				Options(dietOptions...).
				Value(&f.dietType),
			huh.NewMultiSelect[string]().
				Title("Dietary restrictions").
				Options(
					huh.NewOption("Vegetarian", constants.RestrictionVegetarian),
					huh.NewOption("Vegan", constants.RestrictionVegan),
				).
				Value(&f.restrictions),
			huh.NewInput().
				Title("Meals per day").
				Value(&f.mealsPerDay).
				Validate(func(s string) error {
					_, err := parseMealsPerDay(s)
					return err
				}),
		),
	)
}

func (f *planForm) input() (models.UserConstraintInput, error) {
	weight, err := parseWeightLoss(f.weightLoss)
	if err != nil {
		return models.UserConstraintInput{}, err
	}
	meals, err := parseMealsPerDay(f.mealsPerDay)
	if err != nil {
		return models.UserConstraintInput{}, err
	}
	restrictions := f.restrictions
	if restrictions == nil {
		restrictions = []string{}
	}
	return models.UserConstraintInput{
		WeightLossPerWeekKg: weight,
		DietType:            strings.TrimSpace(f.dietType),
		Restrictions:        restrictions,
		MealsPerDay:         meals,
	}, nil
}

func askInput(defaults models.UserConstraintInput) (models.UserConstraintInput, error) {
	f := newPlanForm(defaults)
	if err := runForm(f.form()); err != nil {
		return models.UserConstraintInput{}, fmt.Errorf("plan form cancelled: %w", err)
	}
	return f.input()
}

func parseWeightLoss(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, errors.New("weight loss cannot be negative")
	}
	return v, nil
}

func parseMealsPerDay(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return 0, errors.New("meals per day must be a positive whole number")
	}
	return v, nil
}
