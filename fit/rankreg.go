// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/aclements/go-survival/dist"
	"github.com/aclements/go-survival/lifedata"
)

// RankRegression represents options for fitting distribution
// parameters by a straight line through linearized plotting
// positions.
//
// The fit regresses x on y: the value transform is the dependent
// variable of the probability transform, minimizing horizontal
// deviations on the probability plot. This is the convention of
// life-data analysis, where the plotting positions' ordinates are
// fixed by rank while the observed values scatter.
//
// For a three-parameter family, Gamma > 0 fixes the threshold and
// Gamma == 0 requests a one-dimensional search over (0, min value)
// maximizing the correlation coefficient of the fitted line.
//
// The zero value fits a two-parameter Weibull.
type RankRegression struct {
	Family dist.Family
	Gamma  float64
}

// A RankRegressionResult is the outcome of a rank-regression fit.
type RankRegressionResult struct {
	Params dist.Params

	// R is the linear correlation coefficient of the fitted line
	// through the linearized points, the fit's goodness-of-fit
	// diagnostic. R2 is its square.
	R, R2 float64

	// N is the number of plotting positions fitted.
	N int

	// Line is the fitted plot line over the points' value range.
	Line dist.LineDescriptor
}

// Fit fits a line through the linearized points and maps it to
// distribution parameters. The points must cover at least 2 distinct
// failure values; boundary probabilities (for example Kaplan-Meier's
// final point on a complete sample) are rejected with an error
// wrapping dist.ErrNumerical.
func (rr RankRegression) Fit(points []lifedata.CDFPoint) (*RankRegressionResult, error) {
	distinct := countDistinct(points)
	if distinct < 2 {
		return nil, fmt.Errorf("%w: rank regression needs at least 2 distinct failure values, have %d", lifedata.ErrInsufficientData, distinct)
	}
	minValue := points[0].Value
	for _, p := range points {
		if p.Value < minValue {
			minValue = p.Value
		}
	}

	gamma := 0.0
	if rr.Family.HasThreshold() {
		if rr.Gamma > 0 {
			gamma = rr.Gamma
		} else {
			// Score candidate thresholds by r². Errors
			// (degenerate transforms near the minimum
			// value) score as -inf.
			score := func(g float64) float64 {
				res, err := rr.fitAt(points, g)
				if err != nil {
					return -1
				}
				return res.R2
			}
			lo, hi := minValue*1e-9, minValue*(1-1e-9)
			gamma = goldenMax(score, lo, hi, minValue*1e-9)
		}
	}
	return rr.fitAt(points, gamma)
}

// fitAt fits the line at a fixed threshold.
func (rr RankRegression) fitAt(points []lifedata.CDFPoint, gamma float64) (*RankRegressionResult, error) {
	l := dist.Linearizer{Family: rr.Family, Gamma: gamma}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	minValue, maxValue := points[0].Value, points[0].Value
	for i, p := range points {
		x, y, err := l.Point(p.Value, p.Prob)
		if err != nil {
			return nil, err
		}
		xs[i], ys[i] = x, y
		if p.Value < minValue {
			minValue = p.Value
		}
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}

	// x on y: x = alpha + beta·y.
	alpha, beta := stat.LinearRegression(ys, xs, nil, false)
	if !(beta > 0) {
		return nil, fmt.Errorf("%w: non-positive slope %v (values do not increase with probability)", dist.ErrNumerical, beta)
	}
	r := stat.Correlation(xs, ys, nil)

	params := dist.Params{Family: rr.Family, Mu: alpha, Sigma: beta, Gamma: gamma}
	return &RankRegressionResult{
		Params: params,
		R:      r,
		R2:     r * r,
		N:      len(points),
		Line:   params.Line(minValue, maxValue),
	}, nil
}

func countDistinct(points []lifedata.CDFPoint) int {
	seen := make(map[float64]bool)
	for _, p := range points {
		seen[p.Value] = true
	}
	return len(seen)
}
