// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixture

import (
	"math"
	"testing"

	"github.com/aclements/go-survival/dist"
	"github.com/aclements/go-survival/lifedata"
)

func aeq(expect, got float64) bool {
	return math.Abs(expect-got) < 0.00001
}

func releq(expect, got, rel float64) bool {
	return math.Abs(got-expect) <= rel*math.Abs(expect)
}

// twoLinePoints builds plotting positions that follow line a for the
// first half of the ranks and line b for the second half, with a
// clean breakpoint in between. Both lines use the Weibull transform.
func twoLinePoints(t *testing.T, a, b dist.Params, n int) []lifedata.CDFPoint {
	t.Helper()
	l := dist.Linearizer{Family: dist.Weibull}
	points := make([]lifedata.CDFPoint, n)
	for i := range points {
		p := (float64(i+1) - 0.3) / (float64(n) + 0.4)
		y, err := l.Y(p)
		if err != nil {
			t.Fatal(err)
		}
		params := a
		if i >= n/2 {
			params = b
		}
		points[i] = lifedata.CDFPoint{
			Value:  l.Value(params.Mu + params.Sigma*y),
			Prob:   p,
			Rank:   float64(i + 1),
			Method: lifedata.MedianRank,
		}
	}
	for i := 1; i < n; i++ {
		if points[i].Value <= points[i-1].Value {
			t.Fatalf("synthetic points not ascending at %d: %v", i, points[i].Value)
		}
	}
	return points
}

// mixedTable pools deterministic quantile-grid samples from several
// component distributions into one table.
func mixedTable(t *testing.T, components []dist.Params, per int) *lifedata.SampleTable {
	t.Helper()
	var values []float64
	var statuses []lifedata.Status
	for _, c := range components {
		d := c.Dist()
		for i := 0; i < per; i++ {
			values = append(values, d.Quantile((float64(i)+0.5)/float64(per)))
			statuses = append(statuses, lifedata.Failed)
		}
	}
	tab, err := lifedata.FromValues(values, statuses)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}
