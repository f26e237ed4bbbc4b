//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package window computes fixed-width signal windows around splice sites.
//
// A window straddles one boundary of an anchor interval: Inner bases are
// taken into the anchor and Outer bases away from it, toward a neighboring
// interval. Windows are read in transcript orientation. When the anchor is
// shorter than Inner, or the neighbor is closer than Outer, the window is
// clipped and the missing positions are reported as padding so that
// LeftPad+Length+RightPad always equals Inner+Outer.
package window

import (
	"errors"
	"fmt"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/cmapper"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
)

var ErrNegativeOffset = errors.New("Negative offset")

type Side int

const (
	FivePrime Side = iota
	ThreePrime
)

func (s Side) String() string {
	if s == FivePrime {
		return "5p"
	}
	return "3p"
}

// Window is the genomic range [Start,End) to sample and the padding needed
// on each side, in transcript orientation, to reach the full width.
type Window struct {
	Chrom    string
	Start    int
	End      int
	Strand   feature.Strand
	LeftPad  int
	RightPad int
}

// Length returns the number of sampled positions.
func (w Window) Length() int {
	return w.End - w.Start
}

// Width returns the padded width of the window.
func (w Window) Width() int {
	return w.LeftPad + w.Length() + w.RightPad
}

func checkOffsets(inner, outer int) error {
	if inner < 0 || outer < 0 {
		return fmt.Errorf("%w: inner %d, outer %d", ErrNegativeOffset, inner, outer)
	}
	return nil
}

// FivePrimeSite returns the window around the 5' boundary of iv, reading
// outer bases upstream (toward neighbor) then inner bases into iv.
func FivePrimeSite(neighbor, iv feature.Interval, inner, outer int) (Window, error) {
	if err := checkOffsets(inner, outer); err != nil {
		return Window{}, err
	}
	w := Window{Chrom: iv.Chrom, Strand: iv.Strand}
	var innerDef, outerDef int
	if iv.Strand == feature.Minus {
		b := iv.End
		// Inner: leftward into iv
		w.Start = b - inner
		if w.Start < iv.Start {
			innerDef = iv.Start - w.Start
			w.Start = iv.Start
		}
		// Outer: rightward, stopping at neighbor
		w.End = b + outer
		if neighbor.End > b {
			if limit := max(neighbor.Start, b); w.End > limit {
				outerDef = w.End - limit
				w.End = limit
			}
		}
	} else {
		b := iv.Start
		// Inner: rightward into iv
		w.End = b + inner
		if w.End > iv.End {
			innerDef = w.End - iv.End
			w.End = iv.End
		}
		// Outer: leftward, stopping at neighbor or chromosome start
		w.Start = b - outer
		if neighbor.Start < b {
			if limit := min(neighbor.End, b); w.Start < limit {
				outerDef = limit - w.Start
				w.Start = limit
			}
		}
		if w.Start < 0 {
			outerDef += -w.Start
			w.Start = 0
		}
	}
	// Transcript orientation: outer (upstream) on the left
	w.LeftPad, w.RightPad = outerDef, innerDef
	return w, nil
}

// ThreePrimeSite returns the window around the 3' boundary of iv, reading
// inner bases from within iv then outer bases downstream (toward neighbor).
func ThreePrimeSite(neighbor, iv feature.Interval, inner, outer int) (Window, error) {
	if err := checkOffsets(inner, outer); err != nil {
		return Window{}, err
	}
	w := Window{Chrom: iv.Chrom, Strand: iv.Strand}
	var innerDef, outerDef int
	if iv.Strand == feature.Minus {
		b := iv.Start
		// Inner: rightward into iv
		w.End = b + inner
		if w.End > iv.End {
			innerDef = w.End - iv.End
			w.End = iv.End
		}
		// Outer: leftward, stopping at neighbor or chromosome start
		w.Start = b - outer
		if neighbor.Start < b {
			if limit := min(neighbor.End, b); w.Start < limit {
				outerDef = limit - w.Start
				w.Start = limit
			}
		}
		if w.Start < 0 {
			outerDef += -w.Start
			w.Start = 0
		}
	} else {
		b := iv.End
		// Inner: leftward into iv
		w.Start = b - inner
		if w.Start < iv.Start {
			innerDef = iv.Start - w.Start
			w.Start = iv.Start
		}
		// Outer: rightward, stopping at neighbor
		w.End = b + outer
		if neighbor.End > b {
			if limit := max(neighbor.Start, b); w.End > limit {
				outerDef = w.End - limit
				w.End = limit
			}
		}
	}
	// Transcript orientation: inner on the left
	w.LeftPad, w.RightPad = innerDef, outerDef
	return w, nil
}

// Sampler returns per-base signal over [start,end) in genomic order.
type Sampler interface {
	Values(chrom string, start, end int, strand feature.Strand) ([]float64, error)
}

// Result holds sampled values in transcript orientation and the padding
// surrounding them.
type Result struct {
	LeftPad  int
	Values   []float64
	RightPad int
}

// Sample fetches the window values from s.
func (w Window) Sample(s Sampler) (Result, error) {
	r := Result{LeftPad: w.LeftPad, RightPad: w.RightPad, Values: make([]float64, w.Length())}
	if w.Length() == 0 {
		return r, nil
	}
	values, err := s.Values(w.Chrom, w.Start, w.End, w.Strand)
	if err != nil {
		return r, err
	}
	if len(values) != w.Length() {
		return r, fmt.Errorf("Track returned %d values for %s:%d-%d", len(values), w.Chrom, w.Start, w.End)
	}
	cmapper.New([][]int{{w.Start, w.End}}, int8(w.Strand)).Orient(r.Values, values)
	return r, nil
}

func min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}
