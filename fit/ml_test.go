// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/aclements/go-survival/dist"
	"github.com/aclements/go-survival/lifedata"
)

func TestGonumSolver(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-3)*(x[0]-3) + (x[1]+1)*(x[1]+1)
	}
	res, err := GonumSolver{}.Minimize(f, []float64{0, 0}, 500, 1e-12)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged {
		t.Error("quadratic minimization should converge")
	}
	if math.Abs(res.X[0]-3) > 1e-4 || math.Abs(res.X[1]+1) > 1e-4 {
		t.Errorf("want minimum near (3,-1), got %v", res.X)
	}
}

func TestMLRecoversWeibull(t *testing.T) {
	want := dist.FromShapeScale(dist.Weibull, 2, 100)
	relerr := func(n int) float64 {
		t.Helper()
		res, err := ML{Family: dist.Weibull}.Fit(quantileGrid(t, want, n))
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if !res.Converged {
			t.Errorf("n=%d: not converged", n)
		}
		return math.Max(
			math.Abs(res.Params.Shape()-2)/2,
			math.Abs(res.Params.Scale()-100)/100)
	}
	coarse, fine := relerr(50), relerr(400)
	if coarse > 0.10 {
		t.Errorf("n=50: relative error %v too large", coarse)
	}
	if fine > 0.02 {
		t.Errorf("n=400: relative error %v too large", fine)
	}
	if fine > coarse {
		t.Errorf("relative error should shrink with n: n=50 gives %v, n=400 gives %v", coarse, fine)
	}
}

func TestMLRecoversLognormal(t *testing.T) {
	want := dist.Params{Family: dist.Lognormal, Mu: 3.5, Sigma: 0.6}
	res, err := ML{Family: dist.Lognormal}.Fit(quantileGrid(t, want, 300))
	if err != nil {
		t.Fatal(err)
	}
	if !releq(3.5, res.Params.Mu, 0.02) || !releq(0.6, res.Params.Sigma, 0.05) {
		t.Errorf("want (3.5, 0.6), got (%v, %v)", res.Params.Mu, res.Params.Sigma)
	}
	if res.Cov == nil || res.StdErrMu <= 0 || res.StdErrSigma <= 0 {
		t.Errorf("want positive standard errors, got %v, %v", res.StdErrMu, res.StdErrSigma)
	}
}

// TestMLCensoringRaisesScale checks the defining behavior of the
// censored likelihood: marking the upper half of a sample censored
// (those units survive past their values) must not lower the scale
// estimate relative to calling those same values failures.
func TestMLCensoringRaisesScale(t *testing.T) {
	want := dist.FromShapeScale(dist.Weibull, 1.5, 200)
	n := 100
	tab := quantileGrid(t, want, n)
	values := tab.Values()
	statuses := make([]lifedata.Status, n)
	for i := range statuses {
		if i < n/2 {
			statuses[i] = lifedata.Failed
		} else {
			statuses[i] = lifedata.Censored
		}
	}
	censored, err := lifedata.FromValues(values, statuses)
	if err != nil {
		t.Fatal(err)
	}

	full, err := ML{Family: dist.Weibull}.Fit(tab)
	if err != nil {
		t.Fatal(err)
	}
	half, err := ML{Family: dist.Weibull}.Fit(censored)
	if err != nil {
		t.Fatal(err)
	}
	if half.Params.Scale() < full.Params.Scale() {
		t.Errorf("censoring lowered the scale estimate: %v < %v", half.Params.Scale(), full.Params.Scale())
	}
	// The censored fit should still recover the truth roughly.
	if !releq(200, half.Params.Scale(), 0.15) {
		t.Errorf("censored fit scale %v far from 200", half.Params.Scale())
	}
}

func TestMLWeightInvariance(t *testing.T) {
	want := dist.Params{Family: dist.Lognormal, Mu: 2, Sigma: 0.4}
	tab := quantileGrid(t, want, 60)
	plain, err := ML{Family: dist.Lognormal}.Fit(tab)
	if err != nil {
		t.Fatal(err)
	}
	ws := make([]float64, tab.N())
	for i := range ws {
		ws[i] = 2
	}
	doubled, err := ML{Family: dist.Lognormal, Weights: ws}.Fit(tab)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(plain.Params.Mu-doubled.Params.Mu) > 1e-3 ||
		math.Abs(plain.Params.Sigma-doubled.Params.Sigma) > 1e-3 {
		t.Errorf("uniform weights moved the fit: %+v vs %+v", plain.Params, doubled.Params)
	}
	if !releq(2*plain.LogLik, doubled.LogLik, 1e-3) {
		t.Errorf("doubling weights should double the log-likelihood: %v vs %v", plain.LogLik, doubled.LogLik)
	}
}

func TestMLFixedThreshold(t *testing.T) {
	want := dist.Params{Family: dist.Weibull3, Mu: math.Log(150), Sigma: 0.5, Gamma: 30}
	res, err := ML{Family: dist.Weibull3, Gamma: 30}.Fit(quantileGrid(t, want, 200))
	if err != nil {
		t.Fatal(err)
	}
	if res.Params.Gamma != 30 {
		t.Errorf("fixed threshold moved: %v", res.Params.Gamma)
	}
	if !releq(math.Log(150), res.Params.Mu, 0.02) || !releq(0.5, res.Params.Sigma, 0.05) {
		t.Errorf("want (%v, 0.5), got (%v, %v)", math.Log(150), res.Params.Mu, res.Params.Sigma)
	}
}

func TestMLThresholdProfile(t *testing.T) {
	want := dist.Params{Family: dist.Weibull3, Mu: math.Log(150), Sigma: 0.4, Gamma: 30}
	res, err := ML{Family: dist.Weibull3}.Fit(quantileGrid(t, want, 200))
	if err != nil {
		t.Fatal(err)
	}
	tab := quantileGrid(t, want, 200)
	if res.Params.Gamma <= 0 || res.Params.Gamma >= tab.MinValue() {
		t.Errorf("profiled threshold %v outside (0, %v)", res.Params.Gamma, tab.MinValue())
	}
	// The profiled fit must describe the data at least as well as
	// the true-threshold fit.
	fixed, err := ML{Family: dist.Weibull3, Gamma: 30}.Fit(quantileGrid(t, want, 200))
	if err != nil {
		t.Fatal(err)
	}
	if res.LogLik < fixed.LogLik-1e-3 {
		t.Errorf("profiling lost likelihood: %v < %v", res.LogLik, fixed.LogLik)
	}
}

func TestMLStart(t *testing.T) {
	want := dist.Params{Family: dist.Weibull, Mu: 4, Sigma: 0.3}
	start := dist.Params{Family: dist.Weibull, Mu: 3.5, Sigma: 0.5}
	res, err := ML{Family: dist.Weibull, Start: &start}.Fit(quantileGrid(t, want, 100))
	if err != nil {
		t.Fatal(err)
	}
	if !releq(4, res.Params.Mu, 0.02) || !releq(0.3, res.Params.Sigma, 0.05) {
		t.Errorf("warm start missed the optimum: %+v", res.Params)
	}
}

func TestMLConvergenceError(t *testing.T) {
	want := dist.Params{Family: dist.Weibull, Mu: 4, Sigma: 0.3}
	res, err := ML{Family: dist.Weibull, MaxIter: 1}.Fit(quantileGrid(t, want, 50))
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("want ErrNoConvergence, got %v", err)
	}
	var cerr *ConvergenceError
	if !errors.As(err, &cerr) {
		t.Fatalf("want *ConvergenceError, got %T", err)
	}
	if cerr.Op != "ML" {
		t.Errorf("want Op ML, got %q", cerr.Op)
	}
	if res == nil {
		t.Fatal("best iterate should still be returned")
	}
	if res.Converged {
		t.Error("result should be flagged unconverged")
	}
}

func TestMLInputErrors(t *testing.T) {
	tab, err := lifedata.FromValues(
		[]float64{10, 20, 30},
		[]lifedata.Status{lifedata.Failed, lifedata.Censored, lifedata.Censored})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (ML{Family: dist.Weibull}).Fit(tab); !errors.Is(err, lifedata.ErrInsufficientData) {
		t.Errorf("want ErrInsufficientData with 1 failure, got %v", err)
	}

	good := quantileGrid(t, dist.Params{Family: dist.Weibull, Mu: 4, Sigma: 0.5}, 10)
	if _, err := (ML{Family: dist.Weibull, Weights: []float64{1}}).Fit(good); !errors.Is(err, lifedata.ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput for short weights, got %v", err)
	}
	ws := make([]float64, good.N())
	if _, err := (ML{Family: dist.Weibull, Weights: ws}).Fit(good); !errors.Is(err, lifedata.ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput for zero weights, got %v", err)
	}
	ws[0] = -1
	if _, err := (ML{Family: dist.Weibull, Weights: ws}).Fit(good); !errors.Is(err, lifedata.ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput for negative weight, got %v", err)
	}
	if _, err := (ML{Family: dist.Weibull3, Gamma: 1e9}).Fit(good); !errors.Is(err, lifedata.ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput for threshold above the data, got %v", err)
	}
}
