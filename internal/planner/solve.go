package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/mealplan/internal/solver"
)

// Assignment is the solved value of each decision variable, keyed by
// variable ID, plus the objective value reached.
type Assignment struct {
	Values    map[string]int
	Objective float64
}

// Solve runs the model through the binary solver. Infeasibility and expired
// deadlines are reported as ErrInfeasibleModel and ErrTimeout.
func Solve(ctx context.Context, s *solver.Solver, model OptimizationModel) (Assignment, error) {
	sol, err := s.Solve(ctx, model.Problem())
	if err != nil {
		switch {
		case errors.Is(err, solver.ErrInfeasible):
			return Assignment{}, fmt.Errorf("%w: %w", ErrInfeasibleModel, err)
		case errors.Is(err, solver.ErrTimeout):
			return Assignment{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		default:
			return Assignment{}, fmt.Errorf("solver failed: %w", err)
		}
	}

	values := make(map[string]int, len(model.Variables))
	for i, v := range model.Variables {
		values[v.ID] = sol.Values[i]
	}
	return Assignment{Values: values, Objective: sol.Objective}, nil
}
