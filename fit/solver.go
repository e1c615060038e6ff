// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"gonum.org/v1/gonum/optimize"
)

// A Solver minimizes a scalar objective without derivatives. It must
// be reentrant: concurrent Minimize calls share no state, and any
// internal randomness is local to the call.
type Solver interface {
	Minimize(f func(x []float64) float64, x0 []float64, maxIter int, tol float64) (SolverResult, error)
}

// A SolverResult is the outcome of one minimization.
type SolverResult struct {
	// X is the best point found.
	X []float64

	// F is the objective value at X.
	F float64

	// Iterations is the number of major iterations performed.
	Iterations int

	// Converged reports whether the solver met its convergence
	// criterion rather than exhausting the iteration budget.
	Converged bool
}

// GonumSolver is the default Solver. It runs gonum's Nelder-Mead
// simplex method, constructing a fresh method value per call so that
// concurrent fits do not interfere.
type GonumSolver struct{}

func (GonumSolver) Minimize(f func(x []float64) float64, x0 []float64, maxIter int, tol float64) (SolverResult, error) {
	problem := optimize.Problem{Func: f}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   tol,
			Iterations: 20,
		},
	}
	res, err := optimize.Minimize(problem, append([]float64(nil), x0...), settings, &optimize.NelderMead{})
	if res == nil {
		return SolverResult{}, err
	}
	return SolverResult{
		X:          res.X,
		F:          res.F,
		Iterations: res.Stats.MajorIterations,
		Converged:  err == nil && res.Status != optimize.IterationLimit,
	}, nil
}
