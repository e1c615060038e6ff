// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixture

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/aclements/go-survival/dist"
	"github.com/aclements/go-survival/fit"
	"github.com/aclements/go-survival/lifedata"
)

// DefaultMaxIter bounds the EM iteration when MaxIter is zero.
var DefaultMaxIter = 200

// DefaultTol is the EM convergence tolerance on the change in
// observed-data log-likelihood when Tol is zero. It is looser than
// the inner solver's tolerance: each M-step re-solve lands within
// solver tolerance of its optimum, so demanding more of the outer
// loop would keep it iterating on solver noise.
var DefaultTol = 1e-6

// EM represents options for separating a sample into K failure-mode
// subgroups by the EM algorithm [1] over the censored mixture
// likelihood.
//
// Each observation carries a responsibility vector, its posterior
// probability of belonging to each subgroup. The E-step updates the
// responsibilities from the current subgroup weights and parameters,
// using the density for failed units and the survival function for
// censored ones, so censored units receive fractional membership
// rather than being excluded as in Segmented. The M-step re-fits
// each subgroup by responsibility-weighted maximum likelihood and
// sets its mixing weight to its mean responsibility.
//
// Initialization is deterministic given Seed: contiguous blocks of
// the sorted sample, jittered by a seeded PCG source. There is no
// global randomness; runs with the same options and sample yield the
// same model, and runs with different seeds may execute concurrently
// (see FitBest).
//
// With K = 1 the algorithm reduces to a plain maximum-likelihood
// fit.
//
// [1] Dempster, A. P., Laird, N. M., Rubin, D. B. (1977). "Maximum
// Likelihood from Incomplete Data via the EM Algorithm". JRSS B 39
// (1): 1–38.
type EM struct {
	Family  dist.Family
	K       int
	Seed    uint64
	MaxIter int
	Tol     float64
	Solver  fit.Solver
}

// Fit runs the EM iteration on t. On a ConvergenceError the returned
// model is still non-nil and holds the best iterate so far, flagged
// unconverged; restart policy (for example other seeds) is the
// caller's.
func (e EM) Fit(t *lifedata.SampleTable) (*Model, error) {
	if e.K < 1 {
		return nil, fmt.Errorf("%w: subgroup count %d must be at least 1", lifedata.ErrInvalidInput, e.K)
	}
	if e.MaxIter == 0 {
		e.MaxIter = DefaultMaxIter
	}
	if e.Tol == 0 {
		e.Tol = DefaultTol
	}
	n, k := t.N(), e.K

	resp := e.initResponsibilities(n)
	params := make([]*dist.Params, k)
	weights := make([]float64, k)
	col := make([]float64, n)

	var (
		bestModel *Model
		lastLL    = math.Inf(-1)
		converged bool
		iters     int
	)
	for iter := 1; iter <= e.MaxIter; iter++ {
		iters = iter

		// M-step: mixing weights and weighted parameter fits.
		for c := 0; c < k; c++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				col[i] = resp[i][c]
				sum += resp[i][c]
			}
			weights[c] = sum / float64(n)
			// The inner solves keep their own tighter
			// tolerance so M-step noise stays well below the
			// outer loop's convergence test.
			ml := fit.ML{
				Family:  e.Family,
				Weights: append([]float64(nil), col...),
				Start:   params[c],
				Solver:  e.Solver,
			}
			res, err := ml.Fit(t)
			if res == nil {
				return nil, fmt.Errorf("EM M-step, subgroup %d: %w", c, err)
			}
			p := res.Params
			params[c] = &p
		}

		// E-step: responsibilities and observed-data
		// log-likelihood, normalized in log space.
		dists := make([]dist.Dist, k)
		for c := 0; c < k; c++ {
			dists[c] = params[c].Dist()
		}
		ll := 0.0
		logp := make([]float64, k)
		for i := 0; i < n; i++ {
			o := t.At(i)
			for c := 0; c < k; c++ {
				var contrib float64
				if o.Status == lifedata.Failed {
					contrib = dists[c].LogPDF(o.Value)
				} else {
					contrib = math.Log(dists[c].Survival(o.Value))
				}
				logp[c] = math.Log(weights[c]) + contrib
			}
			lse := floats.LogSumExp(logp)
			ll += lse
			for c := 0; c < k; c++ {
				resp[i][c] = math.Exp(logp[c] - lse)
			}
		}

		if bestModel == nil || ll > bestModel.LogLik {
			bestModel = e.snapshot(params, weights, resp, ll)
		}
		if iter > 1 && math.Abs(ll-lastLL) < e.Tol {
			converged = true
			break
		}
		lastLL = ll
	}

	bestModel.Iterations = iters
	bestModel.Converged = converged
	if !converged {
		return bestModel, &fit.ConvergenceError{Op: "EM", Iterations: iters, Reason: "iteration budget exhausted"}
	}
	return bestModel, nil
}

// FitBest runs one EM fit per seed concurrently and returns the
// model with the largest final log-likelihood. Unconverged runs
// still compete; hard failures are tolerated unless every seed
// fails, in which case the last error is returned.
func (e EM) FitBest(ctx context.Context, t *lifedata.SampleTable, seeds []uint64) (*Model, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: no seeds", lifedata.ErrInvalidInput)
	}
	models := make([]*Model, len(seeds))
	errs := make([]error, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run := e
			run.Seed = seed
			models[i], errs[i] = run.Fit(t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var best *Model
	var lastErr error
	for i, m := range models {
		if m == nil {
			lastErr = errs[i]
			continue
		}
		if best == nil || m.LogLik > best.LogLik {
			best = m
		}
	}
	if best == nil {
		return nil, lastErr
	}
	return best, nil
}

// initResponsibilities assigns the sorted sample to contiguous
// blocks, softened and jittered by the seeded source so no subgroup
// starts empty and equal seeds reproduce equal runs.
func (e EM) initResponsibilities(n int) [][]float64 {
	rng := rand.New(rand.NewPCG(e.Seed, e.Seed^0x9e3779b97f4a7c15))
	resp := make([][]float64, n)
	for i := range resp {
		row := make([]float64, e.K)
		block := i * e.K / n
		sum := 0.0
		for c := range row {
			row[c] = 0.1 + 0.05*rng.Float64()
			if c == block {
				row[c] += 1
			}
			sum += row[c]
		}
		for c := range row {
			row[c] /= sum
		}
		resp[i] = row
	}
	return resp
}

func (e EM) snapshot(params []*dist.Params, weights []float64, resp [][]float64, ll float64) *Model {
	m := &Model{LogLik: ll}
	for c := 0; c < e.K; c++ {
		m.Subgroups = append(m.Subgroups, Subgroup{Params: *params[c], Weight: weights[c]})
	}
	m.Responsibilities = make([][]float64, len(resp))
	for i, row := range resp {
		m.Responsibilities[i] = append([]float64(nil), row...)
	}
	return m
}
