// Package solver finds optimal 0/1 assignments for small linear programs.
//
// Problems are solved by depth-first branch-and-bound. Each node is bounded
// with the LP relaxation of the remaining free variables, solved with the
// simplex implementation from gonum.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Sense is the direction of a linear constraint.
type Sense int

const (
	LessOrEqual Sense = iota
	GreaterOrEqual
)

func (s Sense) String() string {
	switch s {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// Constraint is Σ Coeffs[j]·x[j] (Sense) Bound.
type Constraint struct {
	Name   string
	Coeffs []float64
	Sense  Sense
	Bound  float64
}

// Problem maximises Σ Objective[j]·x[j] over x ∈ {0,1}ⁿ.
type Problem struct {
	Objective   []float64
	Constraints []Constraint
}

// Solution is an optimal assignment. Values[j] is 0 or 1.
type Solution struct {
	Values    []int
	Objective float64
	Nodes     int
}

var (
	ErrInfeasible     = errors.New("no binary assignment satisfies the constraints")
	ErrTimeout        = errors.New("solve deadline exceeded")
	ErrInvalidProblem = errors.New("invalid problem")
)

const (
	defaultTolerance = 1e-9
	lpTolerance      = 1e-10
	integralityGap   = 1e-6
)

// Solver holds solve options. The zero value is not usable; call New.
type Solver struct {
	tol float64
}

// Option configures a Solver.
type Option func(*Solver)

// WithTolerance sets the feasibility and improvement tolerance.
func WithTolerance(tol float64) Option {
	return func(s *Solver) {
		if tol > 0 {
			s.tol = tol
		}
	}
}

// New creates a Solver.
func New(opts ...Option) *Solver {
	s := &Solver{tol: defaultTolerance}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve returns an assignment maximising the objective among all binary
// assignments satisfying every constraint. Ties are broken by search order,
// which is deterministic for a given problem.
//
// ErrInfeasible is returned when no assignment exists. If ctx is cancelled or
// its deadline passes before the search completes, the error wraps ErrTimeout
// (deadline) or ctx.Err() (cancellation).
func (s *Solver) Solve(ctx context.Context, p Problem) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, err
	}

	st := &search{
		p:        p,
		tol:      s.tol,
		integral: integralObjective(p.Objective),
	}
	state := make([]int8, len(p.Objective))
	for i := range state {
		state[i] = free
	}

	if err := st.visit(ctx, state); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Solution{}, fmt.Errorf("%w after %d nodes", ErrTimeout, st.nodes)
		}
		return Solution{}, err
	}
	if !st.found {
		return Solution{Nodes: st.nodes}, ErrInfeasible
	}

	return Solution{
		Values:    st.best,
		Objective: st.bestObj,
		Nodes:     st.nodes,
	}, nil
}

// Validate checks dimensions and that every coefficient is finite.
func (p Problem) Validate() error {
	n := len(p.Objective)
	for j, c := range p.Objective {
		if !finite(c) {
			return fmt.Errorf("%w: objective coefficient %d is not finite", ErrInvalidProblem, j)
		}
	}
	for _, c := range p.Constraints {
		if len(c.Coeffs) != n {
			return fmt.Errorf("%w: constraint %q has %d coefficients, want %d", ErrInvalidProblem, c.Name, len(c.Coeffs), n)
		}
		if c.Sense != LessOrEqual && c.Sense != GreaterOrEqual {
			return fmt.Errorf("%w: constraint %q has unknown sense %d", ErrInvalidProblem, c.Name, int(c.Sense))
		}
		if !finite(c.Bound) {
			return fmt.Errorf("%w: constraint %q bound is not finite", ErrInvalidProblem, c.Name)
		}
		for j, a := range c.Coeffs {
			if !finite(a) {
				return fmt.Errorf("%w: constraint %q coefficient %d is not finite", ErrInvalidProblem, c.Name, j)
			}
		}
	}
	return nil
}

// Evaluate returns the objective value of values and whether every
// constraint holds within tol.
func (p Problem) Evaluate(values []int, tol float64) (float64, bool) {
	obj := 0.0
	for j, v := range values {
		obj += p.Objective[j] * float64(v)
	}
	for _, c := range p.Constraints {
		sum := 0.0
		for j, v := range values {
			sum += c.Coeffs[j] * float64(v)
		}
		if !c.holds(sum, tol) {
			return obj, false
		}
	}
	return obj, true
}

func (c Constraint) holds(sum, tol float64) bool {
	if c.Sense == LessOrEqual {
		return sum <= c.Bound+tol
	}
	return sum >= c.Bound-tol
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func integralObjective(obj []float64) bool {
	for _, c := range obj {
		if c != math.Trunc(c) {
			return false
		}
	}
	return true
}
