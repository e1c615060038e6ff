// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifedata

import (
	"fmt"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// Status is the outcome recorded for a single unit: either the unit
// failed at its observed value, or it was removed from observation
// intact (right-censored) at that value.
type Status int

//go:generate stringer -type=Status

const (
	// Censored marks a unit observed intact up to its value. Its
	// true failure time is unknown but at least that value.
	Censored Status = iota

	// Failed marks a unit that failed at its value.
	Failed
)

// An Observation is a single unit's outcome: a positive
// damage-equivalent value (operating time, distance, load cycles)
// and the unit's status at that value.
type Observation struct {
	Value  float64
	Status Status
}

// A SampleTable is a validated, ordered life-data sample. It is
// immutable once constructed: observations are sorted ascending by
// value, with failures ordered before censorings at equal value.
// This tie rule is a convention of the table, not an accident of the
// sort; the CDF estimators depend on it (a censoring coincident with
// a failure is treated as occurring immediately after it).
type SampleTable struct {
	obs         []Observation
	numFailures int
}

// New constructs a SampleTable from obs. It fails with an error
// wrapping ErrInvalidInput if obs is empty, any value is
// non-positive, or any status is not Failed or Censored. The input
// slice is copied; the caller may reuse it.
func New(obs []Observation) (*SampleTable, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: empty sample", ErrInvalidInput)
	}
	t := &SampleTable{obs: append([]Observation(nil), obs...)}
	for i, o := range t.obs {
		if !(o.Value > 0) {
			return nil, fmt.Errorf("%w: observation %d has non-positive value %v", ErrInvalidInput, i, o.Value)
		}
		switch o.Status {
		case Failed:
			t.numFailures++
		case Censored:
			// ok
		default:
			return nil, fmt.Errorf("%w: observation %d has unknown status %d", ErrInvalidInput, i, int(o.Status))
		}
	}
	sort.SliceStable(t.obs, func(i, j int) bool {
		a, b := t.obs[i], t.obs[j]
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		// Failures before censorings at equal value.
		return a.Status == Failed && b.Status == Censored
	})
	return t, nil
}

// FromValues constructs a SampleTable from parallel value and status
// slices. This is the boundary for data-ingestion hosts: any source
// that can produce the two slices can build a table, and the table
// re-validates the invariants itself regardless of the source.
func FromValues(values []float64, statuses []Status) (*SampleTable, error) {
	if len(values) != len(statuses) {
		return nil, fmt.Errorf("%w: %d values but %d statuses", ErrInvalidInput, len(values), len(statuses))
	}
	obs := make([]Observation, len(values))
	for i := range values {
		obs[i] = Observation{Value: values[i], Status: statuses[i]}
	}
	return New(obs)
}

// N returns the total number of units in the table.
func (t *SampleTable) N() int { return len(t.obs) }

// NumFailures returns the number of failed units.
func (t *SampleTable) NumFailures() int { return t.numFailures }

// NumCensored returns the number of right-censored units.
func (t *SampleTable) NumCensored() int { return len(t.obs) - t.numFailures }

// At returns the i'th observation in sorted order.
func (t *SampleTable) At(i int) Observation { return t.obs[i] }

// Observations returns a copy of the sorted observations.
func (t *SampleTable) Observations() []Observation {
	return append([]Observation(nil), t.obs...)
}

// Values returns the sorted values of all units.
func (t *SampleTable) Values() []float64 {
	vs := make([]float64, len(t.obs))
	for i, o := range t.obs {
		vs[i] = o.Value
	}
	return vs
}

// FailureValues returns the sorted values of the failed units only.
func (t *SampleTable) FailureValues() []float64 {
	vs := make([]float64, 0, t.numFailures)
	for _, o := range t.obs {
		if o.Status == Failed {
			vs = append(vs, o.Value)
		}
	}
	return vs
}

// MinValue returns the smallest observed value.
func (t *SampleTable) MinValue() float64 { return t.obs[0].Value }

// MaxValue returns the largest observed value.
func (t *SampleTable) MaxValue() float64 { return t.obs[len(t.obs)-1].Value }

// A Count describes one distinct failure value in a table: the number
// of failures d at that value and the number of units n still at risk
// just before it. A unit is at risk at value v if it has neither
// failed nor been censored at a value strictly less than v; a
// censoring tied with a failure value is still at risk there.
type Count struct {
	Value  float64
	D      int
	AtRisk int
}

// Counts returns one Count per distinct failure value, ascending.
// These counts drive the product-limit and cumulative-hazard
// estimators and Johnson's rank adjustment.
func (t *SampleTable) Counts() []Count {
	var counts []Count
	n := len(t.obs)
	for i := 0; i < n; {
		v := t.obs[i].Value
		d := 0
		for j := i; j < n && t.obs[j].Value == v; j++ {
			if t.obs[j].Status == Failed {
				d++
			}
		}
		if d > 0 {
			counts = append(counts, Count{Value: v, D: d, AtRisk: n - i})
		}
		for i < n && t.obs[i].Value == v {
			i++
		}
	}
	return counts
}

// A Summary holds descriptive statistics of the observed values
// (failures and censorings pooled). It is intended for host
// applications reporting on the raw sample; it says nothing about
// the failure distribution itself.
type Summary struct {
	N           int
	NumFailures int
	Mean        float64
	Median      float64
	StdDev      float64
	Q1, Q3      float64
	Min, Max    float64
}

// Summary computes descriptive statistics over all observed values.
func (t *SampleTable) Summary() Summary {
	vs := t.Values()
	data := mstats.Float64Data(vs)
	// The errors below can only trip on an empty slice, which New
	// rejects.
	mean, _ := mstats.Mean(data)
	median, _ := mstats.Median(data)
	sd, _ := mstats.StandardDeviation(data)
	q1, _ := mstats.Percentile(data, 25)
	q3, _ := mstats.Percentile(data, 75)
	return Summary{
		N:           t.N(),
		NumFailures: t.NumFailures(),
		Mean:        mean,
		Median:      median,
		StdDev:      sd,
		Q1:          q1,
		Q3:          q3,
		Min:         t.MinValue(),
		Max:         t.MaxValue(),
	}
}
