// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifedata

import (
	"fmt"
	"math"
)

// Method selects a non-parametric CDF estimator.
type Method int

//go:generate stringer -type=Method

const (
	// MedianRank is Benard's median-rank approximation
	// F̂(tᵢ) = (i−0.3)/(n+0.4) over plain ascending ranks. It is
	// valid only for censoring-free samples; on a sample with
	// censored units it fails and Johnson must be used instead.
	//
	// Benard, A., Bos-Levenbach, E. C. (1953). "Het uitzetten van
	// waarnemingen op waarschijnlijkheidspapier". Statistica
	// Neerlandica 7: 163–173.
	MedianRank Method = iota

	// Johnson is the adjusted-rank method for samples with
	// multiple right-censoring. Each failure's plain rank is
	// replaced by an adjusted rank that accounts for the censored
	// units preceding it; Benard's approximation then applies to
	// the adjusted rank. With no censored units the adjusted
	// ranks equal the plain ranks, so Johnson reduces exactly to
	// MedianRank.
	//
	// Johnson, L. G. (1964). The Statistical Treatment of Fatigue
	// Experiments. Elsevier.
	Johnson

	// KaplanMeier is the product-limit estimator
	// F̂ = 1 − Π(1 − dⱼ/nⱼ) over distinct failure values.
	//
	// Kaplan, E. L., Meier, P. (1958). "Nonparametric Estimation
	// from Incomplete Observations". JASA 53 (282): 457–481.
	KaplanMeier

	// NelsonAalen estimates the cumulative hazard H = Σ dⱼ/nⱼ and
	// maps it to F̂ = 1 − exp(−H). Its estimates approach
	// KaplanMeier's as the hazard increments shrink.
	NelsonAalen
)

// A CDFPoint is a plotting position: a non-parametric estimate of
// the failure probability at one failed unit's value. Censored
// observations never receive a point; they influence the estimates
// of the failures around them instead.
//
// Rank is the (adjusted) rank behind the estimate for MedianRank and
// Johnson, and 0 for the product-limit methods, which do not assign
// ranks.
type CDFPoint struct {
	Value  float64
	Prob   float64
	Rank   float64
	Method Method
}

// EstimateCDF estimates the failure CDF of t at each failed unit
// using method m, returning one CDFPoint per failure in ascending
// value order. Failures tied at one value all receive the tie
// group's estimate.
func EstimateCDF(t *SampleTable, m Method) ([]CDFPoint, error) {
	if t.NumFailures() == 0 {
		return nil, fmt.Errorf("%w: need at least 1 failure, have 0", ErrInsufficientData)
	}
	switch m {
	case MedianRank:
		return medianRank(t)
	case Johnson:
		return johnson(t)
	case KaplanMeier, NelsonAalen:
		return productLimit(t, m)
	}
	return nil, fmt.Errorf("%w: unknown CDF method %d", ErrInvalidInput, int(m))
}

// benard is Benard's approximation of the median rank of order
// statistic r in a sample of n.
func benard(r float64, n int) float64 {
	return (r - 0.3) / (float64(n) + 0.4)
}

func medianRank(t *SampleTable) ([]CDFPoint, error) {
	if t.NumCensored() > 0 {
		return nil, fmt.Errorf("%w: median ranks require a censoring-free sample (%d censored units present); use Johnson", ErrInsufficientData, t.NumCensored())
	}
	n := t.N()
	points := make([]CDFPoint, 0, n)
	for i := 0; i < n; {
		// Tied failures share the tie group's final rank.
		v := t.At(i).Value
		j := i
		for j < n && t.At(j).Value == v {
			j++
		}
		rank := float64(j)
		for ; i < j; i++ {
			points = append(points, CDFPoint{Value: v, Prob: benard(rank, n), Rank: rank, Method: MedianRank})
		}
	}
	return points, nil
}

func johnson(t *SampleTable) ([]CDFPoint, error) {
	n := t.N()
	var points []CDFPoint
	j := 0.0 // adjusted rank of the previous failure group
	for i := 0; i < n; {
		o := t.At(i)
		if o.Status != Failed {
			i++
			continue
		}
		// The tie group: failures at this value. The table
		// orders failures before censorings, so the group is
		// contiguous from i.
		x := 0
		for k := i; k < n && t.At(k).Value == o.Value && t.At(k).Status == Failed; k++ {
			x++
		}
		// Units ordered strictly before this value. A
		// censoring tied with this failure value counts as
		// occurring just after it, so it is not included.
		ni := 0
		for ni < n && t.At(ni).Value < o.Value {
			ni++
		}
		inc := (float64(n+1) - j) / float64(1+n-ni)
		j += float64(x) * inc
		p := benard(j, n)
		for k := 0; k < x; k++ {
			points = append(points, CDFPoint{Value: o.Value, Prob: p, Rank: j, Method: Johnson})
		}
		i += x
	}
	return points, nil
}

func productLimit(t *SampleTable, m Method) ([]CDFPoint, error) {
	var points []CDFPoint
	s := 1.0 // Kaplan-Meier survival
	h := 0.0 // Nelson-Aalen cumulative hazard
	for _, c := range t.Counts() {
		frac := float64(c.D) / float64(c.AtRisk)
		var p float64
		switch m {
		case KaplanMeier:
			s *= 1 - frac
			p = 1 - s
		case NelsonAalen:
			h += frac
			p = 1 - math.Exp(-h)
		}
		for k := 0; k < c.D; k++ {
			points = append(points, CDFPoint{Value: c.Value, Prob: p, Method: m})
		}
	}
	return points, nil
}
