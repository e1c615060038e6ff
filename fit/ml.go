// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aclements/go-survival/dist"
	"github.com/aclements/go-survival/lifedata"
)

// DefaultMaxIter is the iteration budget used by ML and EM fits when
// their MaxIter field is zero.
var DefaultMaxIter = 500

// DefaultTol is the convergence tolerance used by ML and EM fits
// when their Tol field is zero.
var DefaultTol = 1e-9

// ML represents options for fitting distribution parameters by
// maximum likelihood under right-censoring.
//
// The log-likelihood sums, over failed units, the log-density at the
// candidate parameters and, over censored units, the log of the
// survival function. Censored units thus contribute information
// without a known event time. The likelihood is maximized
// numerically over (μ, σ); σ is optimized in log space to keep it
// positive, and for three-parameter families the threshold γ is
// profiled over (0, min value), with Gamma > 0 fixing it instead.
//
// Weights, when non-nil, weight each observation's likelihood
// contribution. This generalization serves the EM algorithm's
// M-step, where the weights are subgroup responsibilities; nil means
// an unweighted fit.
//
// Start, when non-nil, seeds the optimization; otherwise the seed
// comes from a rank-regression fit on Johnson plotting positions of
// the same table.
//
// The zero value fits a two-parameter Weibull with the default
// solver and budgets.
type ML struct {
	Family  dist.Family
	Gamma   float64
	Weights []float64
	Start   *dist.Params
	Solver  Solver
	MaxIter int
	Tol     float64
}

// An MLResult is the outcome of a maximum-likelihood fit.
type MLResult struct {
	Params dist.Params

	// LogLik is the maximized log-likelihood.
	LogLik float64

	// Cov is the asymptotic covariance of (μ, σ), the inverse of
	// the observed information matrix. It is nil when the
	// information matrix is not positive definite at the
	// optimum; the fit then also reports a ConvergenceError.
	Cov *mat.SymDense

	// StdErrMu and StdErrSigma are the square roots of Cov's
	// diagonal, 0 when Cov is nil.
	StdErrMu, StdErrSigma float64

	// Iterations is the number of solver iterations of the final
	// (μ, σ) solve.
	Iterations int

	// Converged reports whether the solver met its tolerance and
	// the information matrix was positive definite.
	Converged bool
}

// Fit maximizes the censored likelihood of t. On a ConvergenceError
// the returned result is still non-nil and holds the best iterate
// and its diagnostics; other errors return a nil result.
func (ml ML) Fit(t *lifedata.SampleTable) (*MLResult, error) {
	if ml.Solver == nil {
		ml.Solver = GonumSolver{}
	}
	if ml.MaxIter == 0 {
		ml.MaxIter = DefaultMaxIter
	}
	if ml.Tol == 0 {
		ml.Tol = DefaultTol
	}
	if err := checkWeights(ml.Weights, t.N()); err != nil {
		return nil, err
	}
	if t.NumFailures() < 2 {
		return nil, fmt.Errorf("%w: maximum likelihood needs at least 2 failures, have %d", lifedata.ErrInsufficientData, t.NumFailures())
	}

	gamma := 0.0
	if ml.Family.HasThreshold() {
		if ml.Gamma > 0 {
			if ml.Gamma >= t.MinValue() {
				return nil, fmt.Errorf("%w: threshold %v must be below the minimum observed value %v", lifedata.ErrInvalidInput, ml.Gamma, t.MinValue())
			}
			gamma = ml.Gamma
		} else {
			// Profile the threshold: maximize the inner
			// two-parameter maximized log-likelihood over γ.
			minV := t.MinValue()
			score := func(g float64) float64 {
				res, _ := ml.fitAt(t, g)
				if res == nil {
					return math.Inf(-1)
				}
				return res.LogLik
			}
			gamma = goldenMax(score, minV*1e-9, minV*(1-1e-9), minV*1e-8)
		}
	}
	return ml.fitAt(t, gamma)
}

// fitAt runs the two-parameter solve at a fixed threshold.
func (ml ML) fitAt(t *lifedata.SampleTable, gamma float64) (*MLResult, error) {
	nll := func(mu, sigma float64) float64 {
		d := dist.Params{Family: ml.Family, Mu: mu, Sigma: sigma, Gamma: gamma}.Dist()
		ll := 0.0
		for i := 0; i < t.N(); i++ {
			o := t.At(i)
			w := 1.0
			if ml.Weights != nil {
				w = ml.Weights[i]
				if w == 0 {
					continue
				}
			}
			if o.Status == lifedata.Failed {
				ll += w * d.LogPDF(o.Value)
			} else {
				ll += w * math.Log(d.Survival(o.Value))
			}
		}
		return -ll
	}
	obj := func(theta []float64) float64 {
		return nll(theta[0], math.Exp(theta[1]))
	}

	mu0, sigma0 := ml.start(t, gamma)
	res, err := ml.Solver.Minimize(obj, []float64{mu0, math.Log(sigma0)}, ml.MaxIter, ml.Tol)
	if err != nil && res.X == nil {
		return nil, fmt.Errorf("ML solver: %w", err)
	}

	mu, sigma := res.X[0], math.Exp(res.X[1])
	out := &MLResult{
		Params:     dist.Params{Family: ml.Family, Mu: mu, Sigma: sigma, Gamma: gamma},
		LogLik:     -res.F,
		Iterations: res.Iterations,
	}
	if math.IsInf(res.F, 0) || math.IsNaN(res.F) {
		return out, &ConvergenceError{Op: "ML", Iterations: res.Iterations, Reason: "non-finite log-likelihood"}
	}
	if !res.Converged {
		out.covariance(nll)
		return out, &ConvergenceError{Op: "ML", Iterations: res.Iterations, Reason: "iteration budget exhausted"}
	}
	if !out.covariance(nll) {
		return out, &ConvergenceError{Op: "ML", Iterations: res.Iterations, Reason: "observed information matrix not positive definite"}
	}
	out.Converged = true
	return out, nil
}

// start picks the initial (μ, σ) for the solve.
func (ml ML) start(t *lifedata.SampleTable, gamma float64) (mu, sigma float64) {
	if ml.Start != nil {
		return ml.Start.Mu, ml.Start.Sigma
	}
	if points, err := lifedata.EstimateCDF(t, lifedata.Johnson); err == nil {
		rr := RankRegression{Family: ml.Family, Gamma: gamma}
		if !ml.Family.HasThreshold() {
			rr.Gamma = 0
		} else if gamma == 0 {
			// Avoid a nested threshold search; seed from the
			// unshifted base family instead.
			rr.Family = ml.Family.Base()
		}
		if res, err := rr.Fit(points); err == nil {
			return res.Params.Mu, res.Params.Sigma
		}
	}
	// Moment fallback over the failures' shifted log values.
	var sum, sum2, n float64
	for i := 0; i < t.N(); i++ {
		o := t.At(i)
		if o.Status != lifedata.Failed || o.Value <= gamma {
			continue
		}
		x := math.Log(o.Value - gamma)
		sum += x
		sum2 += x * x
		n++
	}
	mu = sum / n
	sigma = math.Sqrt(sum2/n - mu*mu)
	if !(sigma > 0) || math.IsNaN(sigma) {
		sigma = 0.5
	}
	return mu, sigma
}

// covariance fills Cov and the standard errors from the observed
// information matrix, the numerical Hessian of the negative
// log-likelihood at the optimum. It reports whether the matrix was
// positive definite.
func (r *MLResult) covariance(nll func(mu, sigma float64) float64) bool {
	mu, sigma := r.Params.Mu, r.Params.Sigma
	hm := 1e-4 * (1 + math.Abs(mu))
	hs := 1e-4 * sigma
	f := nll
	f0 := f(mu, sigma)
	h00 := (f(mu+hm, sigma) - 2*f0 + f(mu-hm, sigma)) / (hm * hm)
	h11 := (f(mu, sigma+hs) - 2*f0 + f(mu, sigma-hs)) / (hs * hs)
	h01 := (f(mu+hm, sigma+hs) - f(mu+hm, sigma-hs) - f(mu-hm, sigma+hs) + f(mu-hm, sigma-hs)) / (4 * hm * hs)

	info := mat.NewSymDense(2, []float64{h00, h01, h01, h11})
	var chol mat.Cholesky
	if !chol.Factorize(info) {
		return false
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return false
	}
	r.Cov = &cov
	r.StdErrMu = math.Sqrt(cov.At(0, 0))
	r.StdErrSigma = math.Sqrt(cov.At(1, 1))
	return true
}

func checkWeights(ws []float64, n int) error {
	if ws == nil {
		return nil
	}
	if len(ws) != n {
		return fmt.Errorf("%w: %d weights for %d observations", lifedata.ErrInvalidInput, len(ws), n)
	}
	sum := 0.0
	for i, w := range ws {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight %d is %v", lifedata.ErrInvalidInput, i, w)
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("%w: weights sum to zero", lifedata.ErrInvalidInput)
	}
	return nil
}
