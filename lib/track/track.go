//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package track provides strand-resolved per-base signal (read density).
package track

import (
	"errors"
	"fmt"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
)

var (
	ErrUnknownChromosome = errors.New("Unknown chromosome")
	ErrInvalidStrand     = errors.New("Invalid strand")
)

// Track returns per-base signal over [start,end) of chrom, in genomic order.
// Positions without data are NaN. Implementations must be safe for
// concurrent use.
type Track interface {
	Values(chrom string, start, end int, strand feature.Strand) ([]float64, error)
}

// Signal is a single-strand per-base signal.
type Signal interface {
	Values(chrom string, start, end int) ([]float64, error)
}

// Stranded combines one signal per strand.
type Stranded struct {
	Pos, Neg Signal
}

func (s Stranded) Values(chrom string, start, end int, strand feature.Strand) ([]float64, error) {
	switch strand {
	case feature.Plus:
		return s.Pos.Values(chrom, start, end)
	case feature.Minus:
		return s.Neg.Values(chrom, start, end)
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidStrand, strand)
}

// NaNs returns a NaN-filled sequence of length n.
func NaNs(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = nan
	}
	return s
}
