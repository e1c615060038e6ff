// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aclements/go-survival/dist"
	"github.com/aclements/go-survival/lifedata"
)

// A ProbBound is a pointwise confidence interval for the failure
// probability at one plotting position.
type ProbBound struct {
	Value  float64
	Lo, Hi float64
}

// BetaBinomialBounds computes pointwise confidence bounds for the
// failure probability at each plotting position, from the sampling
// distribution of order statistics: the probability at (adjusted)
// rank r in a sample of n follows Beta(r, n−r+1). level is the
// two-sided confidence level, such as 0.9.
//
// The points must carry ranks, so only the median-rank and Johnson
// methods qualify; product-limit points fail with an error wrapping
// lifedata.ErrInvalidInput.
func BetaBinomialBounds(points []lifedata.CDFPoint, n int, level float64) ([]ProbBound, error) {
	if !(level > 0 && level < 1) {
		return nil, fmt.Errorf("%w: confidence level %v outside (0,1)", lifedata.ErrInvalidInput, level)
	}
	bounds := make([]ProbBound, len(points))
	for i, p := range points {
		if p.Rank <= 0 {
			return nil, fmt.Errorf("%w: point %d (method %v) carries no rank; use MedianRank or Johnson positions", lifedata.ErrInvalidInput, i, p.Method)
		}
		beta := distuv.Beta{Alpha: p.Rank, Beta: float64(n) - p.Rank + 1}
		bounds[i] = ProbBound{
			Value: p.Value,
			Lo:    beta.Quantile((1 - level) / 2),
			Hi:    beta.Quantile((1 + level) / 2),
		}
	}
	return bounds, nil
}

// A QuantileBound is a confidence interval for one distribution
// quantile.
type QuantileBound struct {
	Prob   float64
	Value  float64
	Lo, Hi float64
}

// QuantileBounds computes confidence intervals for the distribution
// quantiles at each probability in probs, by the delta method on the
// fitted (μ, σ) covariance: the log quantile is μ + σ·z_p with z_p
// the family's standardized quantile, so its variance follows from
// Cov by linearization. level is the two-sided confidence level.
//
// It fails with an error wrapping ErrNoConvergence if the fit
// produced no covariance.
func (r *MLResult) QuantileBounds(probs []float64, level float64) ([]QuantileBound, error) {
	if !(level > 0 && level < 1) {
		return nil, fmt.Errorf("%w: confidence level %v outside (0,1)", lifedata.ErrInvalidInput, level)
	}
	if r.Cov == nil {
		return nil, fmt.Errorf("quantile bounds: no covariance available: %w", ErrNoConvergence)
	}
	l := dist.Linearizer{Family: r.Params.Family}
	c := distuv.UnitNormal.Quantile((1 + level) / 2)
	bounds := make([]QuantileBound, len(probs))
	for i, p := range probs {
		z, err := l.Y(p)
		if err != nil {
			return nil, err
		}
		x := r.Params.Mu + r.Params.Sigma*z
		v := r.Cov.At(0, 0) + z*z*r.Cov.At(1, 1) + 2*z*r.Cov.At(0, 1)
		if v < 0 {
			v = 0
		}
		hw := c * math.Sqrt(v)
		bounds[i] = QuantileBound{
			Prob:  p,
			Value: math.Exp(x) + r.Params.Gamma,
			Lo:    math.Exp(x-hw) + r.Params.Gamma,
			Hi:    math.Exp(x+hw) + r.Params.Gamma,
		}
	}
	return bounds, nil
}
