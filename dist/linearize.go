// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// A Linearizer maps (value, probability) pairs to the straight-line
// coordinates of its family's probability plot and back. On those
// axes a sample from the family falls on the line x = μ + σ·y.
//
// The y transform is the quantile of the family's standardized
// distribution: smallest extreme value for Weibull, standard normal
// for log-normal, standard logistic for log-logistic. The x
// transform is log(value−γ); Gamma must be strictly less than every
// value linearized.
//
// The zero value linearizes for the two-parameter Weibull family.
type Linearizer struct {
	Family Family
	Gamma  float64
}

// X returns the plotting abscissa log(value−γ). It fails with an
// error wrapping ErrNumerical if value−γ is not positive.
func (l Linearizer) X(value float64) (float64, error) {
	shifted := value - l.Gamma
	if shifted <= 0 {
		return 0, fmt.Errorf("%w: value %v does not exceed threshold %v", ErrNumerical, value, l.Gamma)
	}
	return math.Log(shifted), nil
}

// Y returns the plotting ordinate for failure probability p. It
// fails with an error wrapping ErrNumerical unless 0 < p < 1.
func (l Linearizer) Y(p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, fmt.Errorf("%w: probability %v outside (0,1)", ErrNumerical, p)
	}
	switch l.Family.Base() {
	case Weibull:
		return math.Log(-math.Log(1 - p)), nil
	case Lognormal:
		return distuv.UnitNormal.Quantile(p), nil
	case Loglogistic:
		return math.Log(p / (1 - p)), nil
	}
	return 0, fmt.Errorf("%w: unknown family %v", ErrNumerical, l.Family)
}

// Point linearizes one (value, probability) pair.
func (l Linearizer) Point(value, p float64) (x, y float64, err error) {
	if x, err = l.X(value); err != nil {
		return 0, 0, err
	}
	if y, err = l.Y(p); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// Value inverts X.
func (l Linearizer) Value(x float64) float64 {
	return math.Exp(x) + l.Gamma
}

// Prob inverts Y.
func (l Linearizer) Prob(y float64) float64 {
	switch l.Family.Base() {
	case Weibull:
		return 1 - math.Exp(-math.Exp(y))
	case Lognormal:
		return distuv.UnitNormal.CDF(y)
	case Loglogistic:
		return 1 / (1 + math.Exp(-y))
	}
	return math.NaN()
}

// A LineDescriptor describes a fitted straight line on a probability
// plot's transformed axes, x = Intercept + Slope·y, together with
// the value domain it was fitted over. It is the plot-ready form of
// a parameter fit; rendering is entirely the consumer's concern.
type LineDescriptor struct {
	Family    Family
	Gamma     float64
	Slope     float64
	Intercept float64
	MinValue  float64
	MaxValue  float64
}

// Line returns the plot line for p over the value domain
// [minValue, maxValue].
func (p Params) Line(minValue, maxValue float64) LineDescriptor {
	return LineDescriptor{
		Family:    p.Family,
		Gamma:     p.Gamma,
		Slope:     p.Sigma,
		Intercept: p.Mu,
		MinValue:  minValue,
		MaxValue:  maxValue,
	}
}
