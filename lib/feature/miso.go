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

// Miso parses MISO event IDs (first tab-separated field): chrom:start:end:strand
// parts joined by '@' in transcript order, with 1-based starts. The alternative
// part of A3SS/A5SS events carries two coordinates separated by '|'.
type Miso struct {
	Type EventType
}

func (p Miso) Format() Format { return FormatMiso }

func (p Miso) EventType() EventType { return p.Type }

func (p Miso) Header(line string) bool {
	return strings.HasPrefix(line, "event_name") || strings.HasPrefix(line, "event\t")
}

func (p Miso) Parse(line string) (Event, error) {
	id := strings.TrimSpace(strings.SplitN(line, "\t", 2)[0])
	ev, err := ParseMisoID(id, p.Type)
	if err != nil {
		return nil, malformed(FormatMiso, line, err)
	}
	return ev, nil
}

// ParseMisoID parses one MISO event ID.
func ParseMisoID(id string, t EventType) (Event, error) {
	parts := strings.Split(id, "@")
	var nParts, altPart int
	switch t {
	case SkippedExonType:
		nParts, altPart = 3, -1
	case RetainedIntronType:
		nParts, altPart = 2, -1
	case MutuallyExclusiveExonType:
		nParts, altPart = 4, -1
	case Alt5pSiteType:
		nParts, altPart = 2, 0
	case Alt3pSiteType:
		nParts, altPart = 2, 1
	default:
		return nil, fmt.Errorf("Unknown event type %d", t)
	}
	if len(parts) != nParts {
		return nil, fmt.Errorf("Expected %d '@'-separated parts, got %d", nParts, len(parts))
	}
	var ivs []Interval
	for ip, part := range parts {
		pivs, err := parseMisoPart(part, ip == altPart)
		if err != nil {
			return nil, err
		}
		ivs = append(ivs, pivs...)
	}
	return NewEvent(t, ivs)
}

// parseMisoPart returns one interval, or two when alt is set.
func parseMisoPart(part string, alt bool) ([]Interval, error) {
	fields := strings.Split(part, ":")
	if len(fields) != 4 {
		return nil, fmt.Errorf("Expected chrom:start:end:strand, got %q", part)
	}
	strand, err := ParseStrand(fields[3])
	if err != nil {
		return nil, err
	}
	xs, err := misoCoords(fields[1])
	if err != nil {
		return nil, err
	}
	ys, err := misoCoords(fields[2])
	if err != nil {
		return nil, err
	}
	nAlt := len(xs) * len(ys)
	if alt && nAlt != 2 {
		return nil, fmt.Errorf("Expected two alternative coordinates in %q", part)
	} else if !alt && nAlt != 1 {
		return nil, fmt.Errorf("Unexpected alternative coordinates in %q", part)
	}
	var ivs []Interval
	for _, x := range xs {
		for _, y := range ys {
			start, end := x, y
			if start > end {
				start, end = end, start
			}
			iv, err := NewInterval(fields[0], start-1, end, strand)
			if err != nil {
				return nil, err
			}
			ivs = append(ivs, iv)
		}
	}
	return ivs, nil
}

func misoCoords(raw string) ([]int, error) {
	var coords []int
	for _, c := range strings.Split(raw, "|") {
		i, err := atoi(c)
		if err != nil {
			return nil, err
		}
		coords = append(coords, i)
	}
	return coords, nil
}
