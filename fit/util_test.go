// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"math"
	"testing"

	"github.com/aclements/go-survival/dist"
	"github.com/aclements/go-survival/lifedata"
)

func aeq(expect, got float64) bool {
	return math.Abs(expect-got) < 0.00001
}

// releq reports whether got is within rel of expect, relatively.
func releq(expect, got, rel float64) bool {
	return math.Abs(got-expect) <= rel*math.Abs(expect)
}

// exactPoints builds plotting positions lying exactly on the line of
// params: median-rank probabilities paired with the distribution's
// own quantiles.
func exactPoints(t *testing.T, params dist.Params, n int) []lifedata.CDFPoint {
	t.Helper()
	d := params.Dist()
	points := make([]lifedata.CDFPoint, n)
	for i := range points {
		p := (float64(i+1) - 0.3) / (float64(n) + 0.4)
		points[i] = lifedata.CDFPoint{
			Value:  d.Quantile(p),
			Prob:   p,
			Rank:   float64(i + 1),
			Method: lifedata.MedianRank,
		}
	}
	return points
}

// quantileGrid builds a deterministic complete sample from params:
// the quantiles at probabilities (i−0.5)/n.
func quantileGrid(t *testing.T, params dist.Params, n int) *lifedata.SampleTable {
	t.Helper()
	d := params.Dist()
	values := make([]float64, n)
	statuses := make([]lifedata.Status, n)
	for i := range values {
		values[i] = d.Quantile((float64(i) + 0.5) / float64(n))
		statuses[i] = lifedata.Failed
	}
	tab, err := lifedata.FromValues(values, statuses)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}
