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

func bedHeader(line string) bool {
	return strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser")
}

// Bed parses BED6 lines whose name column is a MISO event ID. The chrom and
// strand columns must agree with the ID.
type Bed struct {
	Type EventType
}

func (p Bed) Format() Format { return FormatBed }

func (p Bed) EventType() EventType { return p.Type }

func (p Bed) Header(line string) bool { return bedHeader(line) }

func (p Bed) Parse(line string) (Event, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < 6 {
		return nil, malformed(FormatBed, line, fmt.Errorf("Expected 6 columns, got %d", len(fields)))
	}
	strand, err := ParseStrand(fields[5])
	if err != nil {
		return nil, malformed(FormatBed, line, err)
	}
	ev, err := ParseMisoID(fields[3], p.Type)
	if err != nil {
		return nil, malformed(FormatBed, line, err)
	}
	iv := ev.Intervals()[0]
	if iv.Chrom != fields[0] || iv.Strand != strand {
		return nil, malformed(FormatBed, line, fmt.Errorf("Name %s disagrees with %s:%s", fields[3], fields[0], strand))
	}
	return ev, nil
}

// Bed12 parses BED12 lines whose blocks are the event intervals.
type Bed12 struct {
	Type EventType
}

func (p Bed12) Format() Format { return FormatBed12 }

func (p Bed12) EventType() EventType { return p.Type }

func (p Bed12) Header(line string) bool { return bedHeader(line) }

func (p Bed12) Parse(line string) (Event, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < 12 {
		return nil, malformed(FormatBed12, line, fmt.Errorf("Expected 12 columns, got %d", len(fields)))
	}
	strand, err := ParseStrand(fields[5])
	if err != nil {
		return nil, malformed(FormatBed12, line, err)
	}
	chromStart, err := atoi(fields[1])
	if err != nil {
		return nil, malformed(FormatBed12, line, err)
	}
	nBlock, err := atoi(fields[9])
	if err != nil {
		return nil, malformed(FormatBed12, line, err)
	}
	if nBlock != p.Type.NIntervals() {
		return nil, malformed(FormatBed12, line, fmt.Errorf("%s event needs %d blocks, got %d", p.Type, p.Type.NIntervals(), nBlock))
	}
	sizes := strings.Split(strings.TrimRight(fields[10], ","), ",")
	starts := strings.Split(strings.TrimRight(fields[11], ","), ",")
	if len(sizes) != nBlock || len(starts) != nBlock {
		return nil, malformed(FormatBed12, line, fmt.Errorf("Block count %d does not match block lists", nBlock))
	}
	coords := make([]int, 2*nBlock)
	for i := 0; i < nBlock; i++ {
		size, err := atoi(sizes[i])
		if err != nil {
			return nil, malformed(FormatBed12, line, err)
		}
		start, err := atoi(starts[i])
		if err != nil {
			return nil, malformed(FormatBed12, line, err)
		}
		coords[2*i] = chromStart + start
		coords[2*i+1] = chromStart + start + size
	}
	ivs, err := intervalsFromPairs(fields[0], strand, coords)
	if err != nil {
		return nil, malformed(FormatBed12, line, err)
	}
	ev, err := NewEvent(p.Type, genomicToTranscript(strand, ivs...))
	if err != nil {
		return nil, malformed(FormatBed12, line, err)
	}
	return ev, nil
}
