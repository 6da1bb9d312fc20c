// Package planner selects a daily set of meals that maximises calories
// within a calorie ceiling, fat and carb maxima and a protein floor.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/solver"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/validation"
)

// Catalog opens per-request catalog sessions. storage.Provider satisfies it.
type Catalog interface {
	OpenCatalog(ctx context.Context) (storage.CatalogSession, error)
}

// Options tune planning behaviour.
type Options struct {
	// EmptyCandidates decides the outcome when no meal passes the filter:
	// constants.EmptyCandidatesPlan returns an empty plan,
	// constants.EmptyCandidatesInfeasible returns ErrInfeasibleModel.
	EmptyCandidates string
	// SolveTimeout bounds the solve step. Zero leaves only the caller's deadline.
	SolveTimeout time.Duration
}

// OptionsFromSettings builds Options from stored settings.
func OptionsFromSettings(s models.Settings) Options {
	models.ApplyDefaultSettings(&s)
	return Options{
		EmptyCandidates: s.EmptyCandidates,
		SolveTimeout:    time.Duration(s.SolveTimeoutSec) * time.Second,
	}
}

// Planner generates meal plans. It holds no per-request state and is safe
// for concurrent use.
type Planner struct {
	catalog Catalog
	solver  *solver.Solver
	opts    Options
}

// New creates a Planner reading meals from catalog.
func New(catalog Catalog, opts Options) *Planner {
	if opts.EmptyCandidates == "" {
		opts.EmptyCandidates = constants.DefaultEmptyCandidates
	}
	return &Planner{
		catalog: catalog,
		solver:  solver.New(),
		opts:    opts,
	}
}

// GeneratePlan runs a planning request end to end. Failures are reported as
// ErrInvalidInput, ErrDataUnavailable, ErrInfeasibleModel or ErrTimeout.
func (p *Planner) GeneratePlan(ctx context.Context, input models.UserConstraintInput) (models.MealPlanResult, error) {
	start := time.Now()

	if err := validation.ValidateInput(input); err != nil {
		return models.MealPlanResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	targets := BuildTargets(input)

	catalog, err := p.fetchCatalog(ctx)
	if err != nil {
		logger.Warn("Failed to read meal catalog", "error", err)
		return models.MealPlanResult{}, err
	}

	candidates := FilterCandidates(catalog, input.DietType, input.Restrictions)
	logger.Debug("Filtered meal catalog", "catalog", len(catalog), "candidates", len(candidates),
		"diet_type", input.DietType, "restrictions", input.Restrictions)

	if len(candidates) == 0 {
		if p.opts.EmptyCandidates == constants.EmptyCandidatesInfeasible {
			return models.MealPlanResult{}, fmt.Errorf("%w: no meals match the diet type and restrictions", ErrInfeasibleModel)
		}
		return models.MealPlanResult{
			SelectedMeals:     []models.Meal{},
			TargetCalories:    targets.DailyTargetCalories,
			WeightLossPerWeek: input.WeightLossPerWeekKg,
		}, nil
	}

	model := BuildModel(candidates, targets)

	solveCtx := ctx
	if p.opts.SolveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, p.opts.SolveTimeout)
		defer cancel()
	}

	assignment, err := Solve(solveCtx, p.solver, model)
	if err != nil {
		logger.Info("Meal plan not generated", "candidates", len(candidates), "error", err, "duration", time.Since(start))
		return models.MealPlanResult{}, err
	}

	result, err := ExtractResult(assignment, candidates, targets, input)
	if err != nil {
		return models.MealPlanResult{}, err
	}

	logger.Info("Meal plan generated",
		"candidates", len(candidates),
		"selected", len(result.SelectedMeals),
		"total_calories", result.TotalCalories,
		"target_calories", result.TargetCalories,
		"duration", time.Since(start),
	)
	return result, nil
}

// fetchCatalog reads the catalog through a fresh session and releases it
// before returning.
func (p *Planner) fetchCatalog(ctx context.Context) ([]models.Meal, error) {
	session, err := p.catalog.OpenCatalog(ctx)
	if err != nil {
		return nil, catalogError(ctx, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("Failed to release catalog session", "error", cerr)
		}
	}()

	meals, err := session.FetchAllMeals(ctx)
	if err != nil {
		return nil, catalogError(ctx, err)
	}
	return meals, nil
}

func catalogError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: reading meal catalog: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
}
