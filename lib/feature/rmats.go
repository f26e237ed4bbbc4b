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
	"strings"
)

const (
	rmatsColChrom  = 3
	rmatsColStrand = 4
	rmatsColCoords = 5
)

// Rmats parses rMATS output tables (ID, GeneID, geneSymbol, chr, strand,
// coordinates...). Coordinates are 0-based and, unlike MISO, listed in
// genomic order: upstream/downstream refer to the genome, not the transcript.
type Rmats struct {
	Type EventType
}

func (p Rmats) Format() Format { return FormatRmats }

func (p Rmats) EventType() EventType { return p.Type }

func (p Rmats) Header(line string) bool {
	return strings.HasPrefix(line, "ID\t") || strings.HasPrefix(line, "\"ID\"")
}

func (p Rmats) nCoords() int {
	if p.Type == MutuallyExclusiveExonType {
		return 8
	}
	return 6
}

func (p Rmats) Parse(line string) (Event, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < rmatsColCoords+p.nCoords() {
		return nil, malformed(FormatRmats, line, fmt.Errorf("Expected at least %d columns, got %d", rmatsColCoords+p.nCoords(), len(fields)))
	}
	strand, err := ParseStrand(fields[rmatsColStrand])
	if err != nil {
		return nil, malformed(FormatRmats, line, err)
	}
	coords := make([]int, p.nCoords())
	for i := range coords {
		if coords[i], err = atoi(fields[rmatsColCoords+i]); err != nil {
			return nil, malformed(FormatRmats, line, err)
		}
	}
	ivs, err := intervalsFromPairs(unquote(fields[rmatsColChrom]), strand, coords)
	if err != nil {
		return nil, malformed(FormatRmats, line, err)
	}
	// Reorder columns to transcript order
	var ordered []Interval
	switch p.Type {
	case SkippedExonType:
		// exon, upstream, downstream
		ordered = genomicToTranscript(strand, ivs[1], ivs[0], ivs[2])
	case RetainedIntronType:
		// riExon, upstream, downstream
		ordered = genomicToTranscript(strand, ivs[1], ivs[2])
	case MutuallyExclusiveExonType:
		// 1st, 2nd, upstream, downstream
		ordered = genomicToTranscript(strand, ivs[2], ivs[0], ivs[1], ivs[3])
	case Alt3pSiteType:
		// long, short, flanking
		ordered = []Interval{ivs[2], ivs[0], ivs[1]}
	case Alt5pSiteType:
		ordered = []Interval{ivs[0], ivs[1], ivs[2]}
	}
	ev, err := NewEvent(p.Type, ordered)
	if err != nil {
		return nil, malformed(FormatRmats, line, err)
	}
	return ev, nil
}

// genomicToTranscript reverses intervals given in genomic order when on the minus strand.
func genomicToTranscript(strand Strand, ivs ...Interval) []Interval {
	if strand == Minus {
		for i, j := 0, len(ivs)-1; i < j; i, j = i+1, j-1 {
			ivs[i], ivs[j] = ivs[j], ivs[i]
		}
	}
	return ivs
}

func unquote(s string) string {
	return strings.Trim(s, "\"")
}
