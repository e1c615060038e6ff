// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifedata

import (
	"errors"
	"math"
	"testing"
)

// scenario is the worked reference sample: six units, two of them
// censored, with censorings tied to failure values.
func scenario(t *testing.T) *SampleTable {
	t.Helper()
	tab, err := FromValues(
		[]float64{45, 60, 60, 75, 75, 90},
		[]Status{Failed, Censored, Failed, Failed, Censored, Failed})
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestMedianRank(t *testing.T) {
	tab, err := FromValues(
		[]float64{10, 20, 30, 40, 50},
		[]Status{Failed, Failed, Failed, Failed, Failed})
	if err != nil {
		t.Fatal(err)
	}
	points, err := EstimateCDF(tab, MedianRank)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range points {
		want := (float64(i+1) - 0.3) / 5.4
		if !aeq(want, p.Prob) {
			t.Errorf("point %d: want %v, got %v", i, want, p.Prob)
		}
		if p.Rank != float64(i+1) {
			t.Errorf("point %d: want rank %d, got %v", i, i+1, p.Rank)
		}
	}

	// Median ranks refuse censored samples.
	if _, err := EstimateCDF(scenario(t), MedianRank); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("want ErrInsufficientData on censored sample, got %v", err)
	}
}

func TestMedianRankTies(t *testing.T) {
	tab, err := FromValues(
		[]float64{10, 20, 20, 30},
		[]Status{Failed, Failed, Failed, Failed})
	if err != nil {
		t.Fatal(err)
	}
	points, err := EstimateCDF(tab, MedianRank)
	if err != nil {
		t.Fatal(err)
	}
	// The tied pair at 20 shares the group's final rank, 3.
	wantRanks := []float64{1, 3, 3, 4}
	for i, p := range points {
		if p.Rank != wantRanks[i] {
			t.Errorf("point %d: want rank %v, got %v", i, wantRanks[i], p.Rank)
		}
		if !aeq((wantRanks[i]-0.3)/4.4, p.Prob) {
			t.Errorf("point %d: want %v, got %v", i, (wantRanks[i]-0.3)/4.4, p.Prob)
		}
	}
}

func TestJohnsonScenario(t *testing.T) {
	points, err := EstimateCDF(scenario(t), Johnson)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 4 {
		t.Fatalf("want 4 points, got %v", points)
	}
	// Hand-computed adjusted ranks for the scenario sample.
	wantRanks := []float64{1, 2, 3.25, 5.125}
	for i, p := range points {
		if !aeq(wantRanks[i], p.Rank) {
			t.Errorf("failure %d: want adjusted rank %v, got %v", i, wantRanks[i], p.Rank)
		}
		if !aeq((wantRanks[i]-0.3)/6.4, p.Prob) {
			t.Errorf("failure %d: want prob %v, got %v", i, (wantRanks[i]-0.3)/6.4, p.Prob)
		}
	}
	for i := 1; i < len(points); i++ {
		if points[i].Prob <= points[i-1].Prob {
			t.Errorf("probabilities not strictly increasing at %d: %v", i, points)
		}
	}
	// The adjusted rank never falls below the failure's plain
	// rank, and exceeds it strictly once censoring has occurred
	// (the first censored unit here follows the second failure).
	for i, p := range points {
		plain := float64(i + 1)
		if i < 2 && !aeq(plain, p.Rank) {
			t.Errorf("failure %d precedes all censoring, want plain rank %v, got %v", i, plain, p.Rank)
		}
		if i >= 2 && p.Rank <= plain {
			t.Errorf("failure %d follows censoring, want rank > %v, got %v", i, plain, p.Rank)
		}
	}
}

func TestJohnsonReducesToMedianRank(t *testing.T) {
	tab, err := FromValues(
		[]float64{3, 7, 7, 12, 19, 19, 19, 25},
		[]Status{Failed, Failed, Failed, Failed, Failed, Failed, Failed, Failed})
	if err != nil {
		t.Fatal(err)
	}
	mr, err := EstimateCDF(tab, MedianRank)
	if err != nil {
		t.Fatal(err)
	}
	jo, err := EstimateCDF(tab, Johnson)
	if err != nil {
		t.Fatal(err)
	}
	if len(mr) != len(jo) {
		t.Fatalf("length mismatch: %d vs %d", len(mr), len(jo))
	}
	for i := range mr {
		if !aeq(mr[i].Rank, jo[i].Rank) || !aeq(mr[i].Prob, jo[i].Prob) {
			t.Errorf("point %d: median rank %v/%v, Johnson %v/%v",
				i, mr[i].Rank, mr[i].Prob, jo[i].Rank, jo[i].Prob)
		}
	}
}

func TestKaplanMeierScenario(t *testing.T) {
	points, err := EstimateCDF(scenario(t), KaplanMeier)
	if err != nil {
		t.Fatal(err)
	}
	// S steps through 5/6, 5/6·4/5, then ·2/3, then ·0.
	want := []float64{1.0 / 6, 1.0 / 3, 5.0 / 9, 1}
	for i, p := range points {
		if !aeq(want[i], p.Prob) {
			t.Errorf("point %d: want %v, got %v", i, want[i], p.Prob)
		}
	}
}

func TestNelsonAalenScenario(t *testing.T) {
	points, err := EstimateCDF(scenario(t), NelsonAalen)
	if err != nil {
		t.Fatal(err)
	}
	hs := []float64{1.0 / 6, 1.0/6 + 1.0/5, 1.0/6 + 1.0/5 + 1.0/3, 1.0/6 + 1.0/5 + 1.0/3 + 1}
	for i, p := range points {
		if !aeq(1-math.Exp(-hs[i]), p.Prob) {
			t.Errorf("point %d: want %v, got %v", i, 1-math.Exp(-hs[i]), p.Prob)
		}
	}
}

func TestProductLimitProperties(t *testing.T) {
	tab, err := FromValues(
		[]float64{5, 10, 15, 15, 20, 30, 35, 40, 40, 50},
		[]Status{Failed, Censored, Failed, Failed, Censored, Failed, Censored, Failed, Failed, Censored})
	if err != nil {
		t.Fatal(err)
	}
	km, err := EstimateCDF(tab, KaplanMeier)
	if err != nil {
		t.Fatal(err)
	}
	na, err := EstimateCDF(tab, NelsonAalen)
	if err != nil {
		t.Fatal(err)
	}
	for i := range km {
		if km[i].Prob < 0 || km[i].Prob > 1 {
			t.Errorf("Kaplan-Meier point %d out of [0,1]: %v", i, km[i].Prob)
		}
		if i > 0 && km[i].Prob < km[i-1].Prob {
			t.Errorf("Kaplan-Meier decreasing at %d: %v", i, km)
		}
		// 1−exp(−h) ≤ h bounds Nelson-Aalen below Kaplan-Meier.
		if na[i].Prob > km[i].Prob+1e-12 {
			t.Errorf("point %d: Nelson-Aalen %v above Kaplan-Meier %v", i, na[i].Prob, km[i].Prob)
		}
	}
}

// TestProductLimitConvergence checks that the Kaplan-Meier and
// Nelson-Aalen estimates approach each other as the per-step hazard
// increments shrink (many units, few failures per step).
func TestProductLimitConvergence(t *testing.T) {
	gap := func(n int) float64 {
		t.Helper()
		values := make([]float64, n)
		statuses := make([]Status, n)
		for i := range values {
			values[i] = float64(i + 1)
			statuses[i] = Failed
		}
		// Censor the back half so every failure keeps a large
		// at-risk set.
		for i := n / 2; i < n; i++ {
			statuses[i] = Censored
		}
		tab, err := FromValues(values, statuses)
		if err != nil {
			t.Fatal(err)
		}
		km, err := EstimateCDF(tab, KaplanMeier)
		if err != nil {
			t.Fatal(err)
		}
		na, err := EstimateCDF(tab, NelsonAalen)
		if err != nil {
			t.Fatal(err)
		}
		max := 0.0
		for i := range km {
			if d := math.Abs(km[i].Prob - na[i].Prob); d > max {
				max = d
			}
		}
		return max
	}
	coarse, fine := gap(20), gap(200)
	if fine >= coarse {
		t.Errorf("gap should shrink with n: n=20 gives %v, n=200 gives %v", coarse, fine)
	}
}

func TestEstimateCDFErrors(t *testing.T) {
	tab, err := FromValues([]float64{5, 10}, []Status{Censored, Censored})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EstimateCDF(tab, Johnson); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("want ErrInsufficientData with no failures, got %v", err)
	}
	tab2, err := FromValues([]float64{5}, []Status{Failed})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EstimateCDF(tab2, Method(42)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput for unknown method, got %v", err)
	}
}
