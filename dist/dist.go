// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// dist defines the closed set of lifetime distribution families and
// their parameterizations, fitted value-space distributions, and the
// straight-line transforms used for probability plotting.
//
// All families are log-location-scale: after the transform
// x = log(value−γ), the CDF is a fixed standard distribution of
// z = (x−μ)/σ. The optional threshold γ shifts the support to
// (γ, ∞); families carrying it have the "3" suffix.
package dist // import "github.com/aclements/go-survival/dist"

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNumerical indicates an unrecoverable numeric condition, such as
// taking the log of a non-positive threshold-shifted value or
// linearizing a probability outside (0, 1). It is fatal and
// propagated to the caller.
var ErrNumerical = errors.New("numerical error")

// Family identifies a lifetime distribution family.
type Family int

//go:generate stringer -type=Family

const (
	// Weibull is the two-parameter Weibull distribution,
	// parameterized in log-location-scale form: μ = log η,
	// σ = 1/β for scale η and shape β.
	Weibull Family = iota

	// Weibull3 adds a threshold γ below which no failures occur.
	Weibull3

	// Lognormal is the two-parameter log-normal distribution with
	// log-mean μ and log-standard-deviation σ.
	Lognormal

	// Lognormal3 adds a threshold γ.
	Lognormal3

	// Loglogistic is the two-parameter log-logistic distribution:
	// log(value) follows a logistic distribution with location μ
	// and scale σ.
	Loglogistic

	// Loglogistic3 adds a threshold γ.
	Loglogistic3
)

// Base returns the two-parameter family underlying f, stripping the
// threshold variant.
func (f Family) Base() Family {
	switch f {
	case Weibull3:
		return Weibull
	case Lognormal3:
		return Lognormal
	case Loglogistic3:
		return Loglogistic
	}
	return f
}

// HasThreshold reports whether f carries a threshold parameter γ.
func (f Family) HasThreshold() bool {
	return f == Weibull3 || f == Lognormal3 || f == Loglogistic3
}

// Params are the fitted parameters of a lifetime distribution:
// location μ and scale σ > 0 in the log-transformed space, plus the
// threshold γ for the three-parameter families (γ is 0 and ignored
// otherwise). Params is an immutable result value; goodness-of-fit
// diagnostics live on the estimator results that produce it.
type Params struct {
	Family Family
	Mu     float64
	Sigma  float64
	Gamma  float64
}

// Shape returns the Weibull shape β = 1/σ. It is only meaningful for
// the Weibull families.
func (p Params) Shape() float64 { return 1 / p.Sigma }

// Scale returns the Weibull characteristic life η = exp(μ). It is
// only meaningful for the Weibull families.
func (p Params) Scale() float64 { return math.Exp(p.Mu) }

// FromShapeScale builds Params for a Weibull family from the
// conventional shape β and scale η.
func FromShapeScale(f Family, shape, scale float64) Params {
	return Params{Family: f, Mu: math.Log(scale), Sigma: 1 / shape}
}

// A Dist is a fitted value-space lifetime distribution.
type Dist interface {
	// CDF returns the probability that a unit has failed by
	// value v.
	CDF(v float64) float64

	// Survival returns 1 − CDF(v), the probability that a unit
	// survives past v. This is the likelihood contribution of a
	// right-censored unit.
	Survival(v float64) float64

	// LogPDF returns the log of the probability density at v.
	// This is the likelihood contribution of a failed unit.
	LogPDF(v float64) float64

	// Quantile returns the value by which a fraction p of the
	// population has failed. p must be in (0, 1).
	Quantile(p float64) float64
}

// Dist returns the fitted value-space distribution for p. Sigma must
// be positive.
func (p Params) Dist() Dist {
	var inner valueDist
	switch p.Family.Base() {
	case Weibull:
		inner = distuv.Weibull{K: 1 / p.Sigma, Lambda: math.Exp(p.Mu)}
	case Lognormal:
		inner = distuv.LogNormal{Mu: p.Mu, Sigma: p.Sigma}
	case Loglogistic:
		inner = logLogistic{mu: p.Mu, sigma: p.Sigma}
	default:
		panic("unknown family")
	}
	return shiftDist{inner: inner, gamma: p.Gamma}
}

// valueDist is the distuv-shaped surface shared by the gonum
// distributions and logLogistic.
type valueDist interface {
	CDF(x float64) float64
	Survival(x float64) float64
	LogProb(x float64) float64
	Quantile(p float64) float64
}

// shiftDist applies the threshold shift: the unshifted distribution
// describes value−γ.
type shiftDist struct {
	inner valueDist
	gamma float64
}

func (d shiftDist) CDF(v float64) float64 {
	if v <= d.gamma {
		return 0
	}
	return d.inner.CDF(v - d.gamma)
}

func (d shiftDist) Survival(v float64) float64 {
	if v <= d.gamma {
		return 1
	}
	return d.inner.Survival(v - d.gamma)
}

func (d shiftDist) LogPDF(v float64) float64 {
	if v <= d.gamma {
		return math.Inf(-1)
	}
	return d.inner.LogProb(v - d.gamma)
}

func (d shiftDist) Quantile(p float64) float64 {
	return d.gamma + d.inner.Quantile(p)
}

// logLogistic is the log-logistic distribution in log-location-scale
// form. gonum's distuv has no log-logistic, so it is spelled out
// here behind the same surface.
type logLogistic struct {
	mu, sigma float64
}

func (d logLogistic) z(x float64) float64 {
	return (math.Log(x) - d.mu) / d.sigma
}

func (d logLogistic) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return 1 / (1 + math.Exp(-d.z(x)))
}

func (d logLogistic) Survival(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return 1 / (1 + math.Exp(d.z(x)))
}

func (d logLogistic) LogProb(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	z := d.z(x)
	return z - 2*softplus(z) - math.Log(d.sigma) - math.Log(x)
}

func (d logLogistic) Quantile(p float64) float64 {
	return math.Exp(d.mu + d.sigma*math.Log(p/(1-p)))
}

// softplus computes log(1+exp(z)) without overflowing for large z.
func softplus(z float64) float64 {
	if z > 35 {
		return z
	}
	return math.Log1p(math.Exp(z))
}
