// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mixture separates life-data samples into latent failure-mode
// subpopulations, either by breakpoint segmentation of the plotting
// positions or by an EM algorithm over the censored likelihood.
package mixture // import "github.com/aclements/go-survival/mixture"

import (
	"github.com/aclements/go-survival/dist"
)

// A Subgroup is one component of a mixture model: its fitted
// distribution parameters and its mixing weight, the estimated
// fraction of the population it covers.
type Subgroup struct {
	Params dist.Params
	Weight float64
}

// A Model is the immutable result of a mixture separation. The
// membership record depends on the algorithm that produced it.
//
// Segmented produces a hard partition: SegmentIndex assigns each
// input plotting position to exactly one subgroup, Boundaries holds
// the k−1 value thresholds between adjacent segments, and
// Responsibilities is nil. Censored units are not assigned.
//
// EM produces soft membership: Responsibilities holds one row per
// observation of the fitted sample, each row summing to 1 across
// subgroups, and the partition fields are nil.
type Model struct {
	Subgroups []Subgroup

	SegmentIndex []int
	Boundaries   []float64

	Responsibilities [][]float64

	// LogLik is the final observed-data log-likelihood for EM
	// models and 0 for segmentations.
	LogLik float64

	// Iterations is the number of EM iterations performed.
	Iterations int

	// Converged reports whether the producing iteration met its
	// tolerance. Segmentations are exact and always converged.
	Converged bool

	// Warnings carries non-fatal diagnostics, such as the
	// tendency of automatic subgroup selection to overestimate k.
	Warnings []string
}

// K returns the number of subgroups.
func (m *Model) K() int { return len(m.Subgroups) }
