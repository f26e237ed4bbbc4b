//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package stats summarizes matrix columns.
package stats

import (
	"fmt"
	"math"
	"sort"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/profile"

	"gonum.org/v1/gonum/stat"
)

// Trim returns the sorted non-NaN values of x after dropping
// floor(n*(1-confidence)/2) values at each end.
func Trim(x []float64, confidence float64) []float64 {
	clean := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	sort.Float64s(clean)
	// Tolerance keeps n*(1-c)/2 at its integer value, e.g. 20 values at 0.9
	cut := int(math.Floor(float64(len(clean))*(1-confidence)/2 + 1e-9))
	if 2*cut >= len(clean) {
		return nil
	}
	return clean[cut : len(clean)-cut]
}

// MeanSEM returns the mean and standard error of x, NaN when x is empty.
// The SEM of a single value is NaN.
func MeanSEM(x []float64) (float64, float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	mean, std := stat.MeanStdDev(x, nil)
	return mean, stat.StdErr(std, float64(len(x)))
}

// TrimmedMeanSEM returns the trimmed mean and SEM of every column of m.
func TrimmedMeanSEM(m *profile.Matrix, confidence float64) (means, sems []float64, err error) {
	if !(confidence > 0 && confidence <= 1) {
		return nil, nil, fmt.Errorf("Confidence must be in (0,1], got %g", confidence)
	}
	_, cols := m.Dims()
	means = make([]float64, cols)
	sems = make([]float64, cols)
	for j := 0; j < cols; j++ {
		means[j], sems[j] = MeanSEM(Trim(m.Col(j), confidence))
	}
	return means, sems, nil
}
