// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fit estimates lifetime distribution parameters from life-data
// samples, by rank regression over non-parametric plotting positions
// and by censoring-aware maximum likelihood, and derives confidence
// bounds from the fits.
package fit // import "github.com/aclements/go-survival/fit"

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence indicates that an iterative fit stopped before
// meeting its convergence criterion. The best iterate is still
// returned alongside the error; callers decide whether to accept it
// or restart (for example with different EM seeds).
var ErrNoConvergence = errors.New("did not converge")

// A ConvergenceError reports the diagnostics of a fit that stopped
// without converging. It wraps ErrNoConvergence.
type ConvergenceError struct {
	// Op names the fit that failed, such as "ML" or "EM".
	Op string

	// Iterations is the number of iterations performed.
	Iterations int

	// Reason describes why the fit stopped: the iteration budget,
	// a singular information matrix, or a non-finite objective.
	Reason string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s %v after %d iterations: %s", e.Op, ErrNoConvergence, e.Iterations, e.Reason)
}

func (e *ConvergenceError) Unwrap() error { return ErrNoConvergence }

// goldenMax returns the argmax of f over [lo, hi] by golden-section
// search, assuming f is unimodal there. Evaluations returning NaN or
// -inf are treated as worse than any finite value.
func goldenMax(f func(float64) float64, lo, hi, tol float64) float64 {
	const invphi = 0.6180339887498949
	better := func(a, b float64) bool {
		if math.IsNaN(b) || math.IsInf(b, -1) {
			return true
		}
		if math.IsNaN(a) || math.IsInf(a, -1) {
			return false
		}
		return a > b
	}
	a, b := lo, hi
	c := b - invphi*(b-a)
	d := a + invphi*(b-a)
	fc, fd := f(c), f(d)
	for b-a > tol {
		if better(fc, fd) {
			b, d, fd = d, c, fc
			c = b - invphi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invphi*(b-a)
			fd = f(d)
		}
	}
	return (a + b) / 2
}
