package solver

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// relax solves the LP relaxation over the free variables, with every fixed
// variable folded into the right-hand side. It returns an upper bound on the
// objective reachable from this node and the relaxed values of the free
// variables (indexed like freeIdx). feasible is false only when the LP proves
// the node infeasible; any other LP failure falls back to an optimistic bound
// with a nil x.
//
// The relaxation is put in the standard form min cᵀz s.t. Az = b, z ≥ 0
// expected by lp.Simplex. Columns are laid out as
//
//	[ y (k free vars) | s (one slack per constraint) | u (k upper-bound slacks) ]
//
// with rows Σ a·y ± s = b' per constraint and y + u = 1 per free variable.
func (s *search) relax(state []int8, freeIdx []int, fixedObj float64) (bound float64, x []float64, feasible bool) {
	k := len(freeIdx)
	m := len(s.p.Constraints)
	rows, cols := m+k, 2*k+m

	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)

	for i, con := range s.p.Constraints {
		rhs := con.Bound
		for j, a := range con.Coeffs {
			if state[j] == one {
				rhs -= a
			}
		}
		slack := 1.0
		if con.Sense == GreaterOrEqual {
			slack = -1.0
		}
		sign := 1.0
		if rhs < 0 {
			sign = -1.0
		}
		for col, j := range freeIdx {
			A.Set(i, col, sign*con.Coeffs[j])
		}
		A.Set(i, k+i, sign*slack)
		b[i] = sign * rhs
	}

	for col, j := range freeIdx {
		row := m + col
		A.Set(row, col, 1)
		A.Set(row, k+m+col, 1)
		b[row] = 1
		c[col] = -s.p.Objective[j]
	}

	optF, optX, err := lp.Simplex(c, A, b, lpTolerance, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return 0, nil, false
		}
		return s.optimisticBound(freeIdx, fixedObj), nil, true
	}

	x = make([]float64, k)
	copy(x, optX[:k])
	return fixedObj - optF, x, true
}
