//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"fmt"
)

type Strand int8

const (
	Plus  Strand = 1
	Minus Strand = -1
)

// ParseStrand accepts "+", "1", "+1", "-" and "-1". Any other token is an error.
func ParseStrand(raw string) (Strand, error) {
	if raw == "+" || raw == "1" || raw == "+1" {
		return Plus, nil
	}
	if raw == "-" || raw == "-1" {
		return Minus, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStrand, raw)
}

func (s Strand) Valid() bool {
	return s == Plus || s == Minus
}

func (s Strand) String() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	}
	return "?"
}

// Interval is a 0-based half-open [Start,End) genomic range.
type Interval struct {
	Chrom  string
	Start  int
	End    int
	Strand Strand
}

// NewInterval checks Start <= End and the strand.
func NewInterval(chrom string, start, end int, strand Strand) (Interval, error) {
	if start > end {
		return Interval{}, fmt.Errorf("Start %d after end %d", start, end)
	}
	if start < 0 {
		return Interval{}, fmt.Errorf("Negative start %d", start)
	}
	if !strand.Valid() {
		return Interval{}, ErrInvalidStrand
	}
	return Interval{Chrom: chrom, Start: start, End: end, Strand: strand}, nil
}

// Length returns the length of interval
func (iv Interval) Length() int {
	return iv.End - iv.Start
}

// FivePrime returns the genomic coordinate of the 5' boundary: Start on the
// plus strand, End on the minus strand.
func (iv Interval) FivePrime() int {
	if iv.Strand == Minus {
		return iv.End
	}
	return iv.Start
}

// ThreePrime returns the genomic coordinate of the 3' boundary.
func (iv Interval) ThreePrime() int {
	if iv.Strand == Minus {
		return iv.Start
	}
	return iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d:%s", iv.Chrom, iv.Start, iv.End, iv.Strand)
}

// IsLonger reports whether a is strictly longer than b.
func IsLonger(a, b Interval) bool {
	return a.Length() > b.Length()
}

type EventType int

const (
	SkippedExonType EventType = iota
	Alt5pSiteType
	Alt3pSiteType
	RetainedIntronType
	MutuallyExclusiveExonType
)

// ParseEventType accepts the usual short names (se, a5ss, a3ss, ri, mxe).
func ParseEventType(raw string) (EventType, error) {
	switch raw {
	case "se", "SE", "skipped_exon":
		return SkippedExonType, nil
	case "a5ss", "A5SS":
		return Alt5pSiteType, nil
	case "a3ss", "A3SS":
		return Alt3pSiteType, nil
	case "ri", "RI", "retained_intron":
		return RetainedIntronType, nil
	case "mxe", "MXE":
		return MutuallyExclusiveExonType, nil
	}
	return 0, fmt.Errorf("Unknown event type %q", raw)
}

func (t EventType) String() string {
	switch t {
	case SkippedExonType:
		return "se"
	case Alt5pSiteType:
		return "a5ss"
	case Alt3pSiteType:
		return "a3ss"
	case RetainedIntronType:
		return "ri"
	case MutuallyExclusiveExonType:
		return "mxe"
	}
	return "unknown"
}

// NIntervals returns the number of intervals of an event of type t.
func (t EventType) NIntervals() int {
	switch t {
	case RetainedIntronType:
		return 2
	case MutuallyExclusiveExonType:
		return 4
	}
	return 3
}

// Event is one alternative-splicing occurrence. Intervals are returned in
// transcript order and share chromosome and strand.
type Event interface {
	Type() EventType
	Intervals() []Interval
}

type SkippedExon struct {
	Upstream, Cassette, Downstream Interval
}

func (e SkippedExon) Type() EventType { return SkippedExonType }
func (e SkippedExon) Intervals() []Interval {
	return []Interval{e.Upstream, e.Cassette, e.Downstream}
}

// Alt5pSite has two alternative donors: Splice1 is the longer exon.
type Alt5pSite struct {
	Splice1, Splice2, Downstream Interval
}

func (e Alt5pSite) Type() EventType { return Alt5pSiteType }
func (e Alt5pSite) Intervals() []Interval {
	return []Interval{e.Splice1, e.Splice2, e.Downstream}
}

// Alt3pSite has two alternative acceptors: Splice1 is the longer exon.
type Alt3pSite struct {
	Upstream, Splice1, Splice2 Interval
}

func (e Alt3pSite) Type() EventType { return Alt3pSiteType }
func (e Alt3pSite) Intervals() []Interval {
	return []Interval{e.Upstream, e.Splice1, e.Splice2}
}

type RetainedIntron struct {
	Upstream, Downstream Interval
}

func (e RetainedIntron) Type() EventType { return RetainedIntronType }
func (e RetainedIntron) Intervals() []Interval {
	return []Interval{e.Upstream, e.Downstream}
}

type MutuallyExclusiveExon struct {
	Upstream, MXE1, MXE2, Downstream Interval
}

func (e MutuallyExclusiveExon) Type() EventType { return MutuallyExclusiveExonType }
func (e MutuallyExclusiveExon) Intervals() []Interval {
	return []Interval{e.Upstream, e.MXE1, e.MXE2, e.Downstream}
}

// NewEvent assembles an event of type t from intervals in transcript order.
// For A5SS and A3SS the two alternative exons may be given in any order.
func NewEvent(t EventType, ivs []Interval) (Event, error) {
	if len(ivs) != t.NIntervals() {
		return nil, fmt.Errorf("%s event needs %d intervals, got %d", t, t.NIntervals(), len(ivs))
	}
	for _, iv := range ivs[1:] {
		if iv.Chrom != ivs[0].Chrom || iv.Strand != ivs[0].Strand {
			return nil, fmt.Errorf("Intervals %s and %s differ in chromosome or strand", ivs[0], iv)
		}
	}
	switch t {
	case SkippedExonType:
		return SkippedExon{Upstream: ivs[0], Cassette: ivs[1], Downstream: ivs[2]}, nil
	case Alt5pSiteType:
		long, short := longShort(ivs[0], ivs[1])
		return Alt5pSite{Splice1: long, Splice2: short, Downstream: ivs[2]}, nil
	case Alt3pSiteType:
		long, short := longShort(ivs[1], ivs[2])
		return Alt3pSite{Upstream: ivs[0], Splice1: long, Splice2: short}, nil
	case RetainedIntronType:
		return RetainedIntron{Upstream: ivs[0], Downstream: ivs[1]}, nil
	case MutuallyExclusiveExonType:
		return MutuallyExclusiveExon{Upstream: ivs[0], MXE1: ivs[1], MXE2: ivs[2], Downstream: ivs[3]}, nil
	}
	return nil, fmt.Errorf("Unknown event type %d", t)
}

func longShort(a, b Interval) (Interval, Interval) {
	if IsLonger(b, a) {
		return b, a
	}
	return a, b
}
