package solver

import (
	"context"
	"math"
)

// Variable states during the search.
const (
	free int8 = -1
	zero int8 = 0
	one  int8 = 1
)

type search struct {
	p        Problem
	tol      float64
	integral bool

	found   bool
	best    []int
	bestObj float64
	nodes   int
}

func (s *search) visit(ctx context.Context, state []int8) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.nodes++

	if !s.satisfiable(state) {
		return nil
	}

	freeIdx := freeIndices(state)
	fixedObj := s.fixedObjective(state)

	if len(freeIdx) == 0 {
		s.offer(assignment(state, nil, nil), fixedObj)
		return nil
	}

	bound, x, feasible := s.relax(state, freeIdx, fixedObj)
	if !feasible {
		return nil
	}
	if s.integral {
		bound = math.Floor(bound + integralityGap)
	}
	if s.found && bound <= s.bestObj+s.tol {
		return nil
	}

	branchOn := -1
	if x != nil {
		branchOn = mostFractional(x, freeIdx)
		if branchOn < 0 {
			// The relaxation is already integral. Confirm it exactly before
			// accepting, since the LP works to its own tolerance.
			values := assignment(state, freeIdx, x)
			if obj, ok := s.p.Evaluate(values, s.tol); ok {
				s.offer(values, obj)
				return nil
			}
		}
	}
	if branchOn < 0 {
		branchOn = freeIdx[0]
	}

	for _, v := range [...]int8{one, zero} {
		state[branchOn] = v
		err := s.visit(ctx, state)
		state[branchOn] = free
		if err != nil {
			return err
		}
	}
	return nil
}

// offer records values as the incumbent if it strictly improves on it.
func (s *search) offer(values []int, obj float64) {
	if s.found && obj <= s.bestObj+s.tol {
		return
	}
	s.found = true
	s.best = values
	s.bestObj = obj
}

// satisfiable reports whether every constraint can still hold given the fixed
// variables, using the most favourable setting of each free variable.
func (s *search) satisfiable(state []int8) bool {
	for _, c := range s.p.Constraints {
		lo, hi := 0.0, 0.0
		for j, a := range c.Coeffs {
			switch state[j] {
			case one:
				lo += a
				hi += a
			case free:
				if a < 0 {
					lo += a
				} else {
					hi += a
				}
			}
		}
		if c.Sense == LessOrEqual && lo > c.Bound+s.tol {
			return false
		}
		if c.Sense == GreaterOrEqual && hi < c.Bound-s.tol {
			return false
		}
	}
	return true
}

func (s *search) fixedObjective(state []int8) float64 {
	obj := 0.0
	for j, c := range s.p.Objective {
		if state[j] == one {
			obj += c
		}
	}
	return obj
}

// optimisticBound is used when the relaxation cannot be solved.
func (s *search) optimisticBound(freeIdx []int, fixedObj float64) float64 {
	bound := fixedObj
	for _, j := range freeIdx {
		if c := s.p.Objective[j]; c > 0 {
			bound += c
		}
	}
	return bound
}

func freeIndices(state []int8) []int {
	var idx []int
	for j, v := range state {
		if v == free {
			idx = append(idx, j)
		}
	}
	return idx
}

// mostFractional returns the free variable whose relaxed value is furthest
// from integral, or -1 if all are integral. x is indexed like freeIdx.
func mostFractional(x []float64, freeIdx []int) int {
	branchOn := -1
	bestFrac := integralityGap
	for k, j := range freeIdx {
		frac := math.Min(x[k]-math.Floor(x[k]), math.Ceil(x[k])-x[k])
		if frac > bestFrac {
			bestFrac = frac
			branchOn = j
		}
	}
	return branchOn
}

// assignment materialises state, rounding relaxed values for free variables.
func assignment(state []int8, freeIdx []int, x []float64) []int {
	values := make([]int, len(state))
	for j, v := range state {
		if v == one {
			values[j] = 1
		}
	}
	for k, j := range freeIdx {
		if math.Round(x[k]) >= 1 {
			values[j] = 1
		}
	}
	return values
}
