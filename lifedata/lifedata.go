// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lifedata provides validated life-data samples with right-censoring
// and non-parametric CDF estimation over them.
package lifedata // import "github.com/aclements/go-survival/lifedata"

import "errors"

var (
	// ErrInvalidInput indicates a malformed observation set: an
	// empty sample, a non-positive value, an unrecognized status
	// code, or a bad weight vector. Such errors are reported at
	// construction and never coerced.
	ErrInvalidInput = errors.New("invalid life data")

	// ErrInsufficientData indicates that a sample has too few
	// failures or too few distinct values for the requested
	// method. The error message names the minimum required.
	ErrInsufficientData = errors.New("insufficient data")
)
