// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixture

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-survival/dist"
	"github.com/aclements/go-survival/fit"
	"github.com/aclements/go-survival/lifedata"
)

// DefaultMaxSubgroups bounds the automatic subgroup search of
// Segmented when KMax is zero.
var DefaultMaxSubgroups = 3

// Segmented represents options for separating plotting positions
// into failure-mode subgroups by breakpoint segmentation: it
// searches for the k−1 breakpoints along the ordered linearized
// coordinates that minimize the total rank-regression residual sum
// of squares of the k induced segments. The search is an exact
// dynamic program over segment prefixes.
//
// K > 0 fixes the subgroup count. K == 0 selects it automatically
// from 1..KMax by a BIC-style penalized criterion; the selection is
// known to overestimate the true count on noisy data, and automatic
// models carry a warning saying so.
//
// Each subgroup is a hard partition by value: every failure point
// belongs to exactly one segment, and censored units are not
// assigned at all. The EM algorithm is the alternative when censored
// units matter.
type Segmented struct {
	Family dist.Family
	K      int
	KMax   int
}

// Fit segments points and fits each segment by rank regression.
func (s Segmented) Fit(points []lifedata.CDFPoint) (*Model, error) {
	kMax := s.K
	if s.K == 0 {
		kMax = s.KMax
		if kMax == 0 {
			kMax = DefaultMaxSubgroups
		}
	}
	m := len(points)
	distinct := countDistinctValues(points)
	if s.K > 0 && distinct < s.K {
		return nil, fmt.Errorf("%w: %d subgroups need at least %d distinct failure values, have %d", lifedata.ErrInsufficientData, s.K, s.K, distinct)
	}

	pts := append([]lifedata.CDFPoint(nil), points...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Value < pts[j].Value })

	l := dist.Linearizer{Family: s.Family}
	xs := make([]float64, m)
	ys := make([]float64, m)
	for i, p := range pts {
		x, y, err := l.Point(p.Value, p.Prob)
		if err != nil {
			return nil, err
		}
		xs[i], ys[i] = x, y
	}

	dp, cuts := segmentDP(pts, xs, ys, kMax)

	k := s.K
	var warnings []string
	if k == 0 {
		k = selectK(dp, m, kMax)
		warnings = append(warnings,
			"automatic subgroup selection tends to overestimate the number of failure modes; inspect the per-segment fits before accepting k")
	}
	if math.IsInf(dp[k][m], 1) {
		return nil, fmt.Errorf("%w: %d subgroups need at least 2 distinct failure values per segment", lifedata.ErrInsufficientData, k)
	}

	// Recover the segment extents for the chosen k.
	ends := make([]int, 0, k)
	for sk, i := k, m; sk > 0; sk-- {
		ends = append(ends, i)
		i = cuts[sk][i]
	}
	for i, j := 0, len(ends)-1; i < j; i, j = i+1, j-1 {
		ends[i], ends[j] = ends[j], ends[i]
	}

	model := &Model{Converged: true, Warnings: warnings, SegmentIndex: make([]int, m)}
	start := 0
	for seg, end := range ends {
		res, err := (fit.RankRegression{Family: s.Family}).Fit(pts[start:end])
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", seg, err)
		}
		model.Subgroups = append(model.Subgroups, Subgroup{
			Params: res.Params,
			Weight: float64(end-start) / float64(m),
		})
		for i := start; i < end; i++ {
			model.SegmentIndex[i] = seg
		}
		if end < m {
			model.Boundaries = append(model.Boundaries, (pts[end-1].Value+pts[end].Value)/2)
		}
		start = end
	}
	return model, nil
}

// segmentDP fills the dynamic program: dp[s][i] is the minimal total
// RSS of splitting the first i points into s segments, and cuts[s][i]
// the start of the last segment in that optimum. Segments with fewer
// than 2 distinct values cost +inf.
func segmentDP(pts []lifedata.CDFPoint, xs, ys []float64, kMax int) (dp [][]float64, cuts [][]int) {
	m := len(pts)
	// Prefix sums for O(1) segment RSS of the x-on-y fit.
	px := make([]float64, m+1)
	py := make([]float64, m+1)
	pxx := make([]float64, m+1)
	pyy := make([]float64, m+1)
	pxy := make([]float64, m+1)
	for i := 0; i < m; i++ {
		px[i+1] = px[i] + xs[i]
		py[i+1] = py[i] + ys[i]
		pxx[i+1] = pxx[i] + xs[i]*xs[i]
		pyy[i+1] = pyy[i] + ys[i]*ys[i]
		pxy[i+1] = pxy[i] + xs[i]*ys[i]
	}
	rss := func(i, j int) float64 {
		if j-i < 2 || pts[i].Value == pts[j-1].Value {
			return math.Inf(1)
		}
		n := float64(j - i)
		cxx := pxx[j] - pxx[i] - (px[j]-px[i])*(px[j]-px[i])/n
		cyy := pyy[j] - pyy[i] - (py[j]-py[i])*(py[j]-py[i])/n
		cxy := pxy[j] - pxy[i] - (px[j]-px[i])*(py[j]-py[i])/n
		if cyy <= 0 {
			return math.Inf(1)
		}
		r := cxx - cxy*cxy/cyy
		if r < 0 {
			return 0
		}
		return r
	}

	dp = make([][]float64, kMax+1)
	cuts = make([][]int, kMax+1)
	for s := range dp {
		dp[s] = make([]float64, m+1)
		cuts[s] = make([]int, m+1)
		for i := range dp[s] {
			dp[s][i] = math.Inf(1)
		}
	}
	dp[0][0] = 0
	for s := 1; s <= kMax; s++ {
		for i := 2 * s; i <= m; i++ {
			for t := 2 * (s - 1); t <= i-2; t++ {
				if math.IsInf(dp[s-1][t], 1) {
					continue
				}
				if c := dp[s-1][t] + rss(t, i); c < dp[s][i] {
					dp[s][i] = c
					cuts[s][i] = t
				}
			}
		}
	}
	return dp, cuts
}

// selectK picks the subgroup count by a BIC-style criterion,
// m·ln(RSS/m) + p·ln(m) with p = 3k−1 parameters.
func selectK(dp [][]float64, m, kMax int) int {
	best, bestScore := 1, math.Inf(1)
	for k := 1; k <= kMax; k++ {
		rss := dp[k][m]
		if math.IsInf(rss, 1) {
			continue
		}
		if rss < 1e-12 {
			rss = 1e-12
		}
		p := float64(3*k - 1)
		score := float64(m)*math.Log(rss/float64(m)) + p*math.Log(float64(m))
		if score < bestScore {
			best, bestScore = k, score
		}
	}
	return best
}

func countDistinctValues(points []lifedata.CDFPoint) int {
	seen := make(map[float64]bool)
	for _, p := range points {
		seen[p.Value] = true
	}
	return len(seen)
}
