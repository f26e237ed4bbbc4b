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

// Eric parses exon lists: gene_id, gene_name, chrom:strand, then one
// start-end column per interval in transcript order (0-based).
type Eric struct {
	Type EventType
}

func (p Eric) Format() Format { return FormatEric }

func (p Eric) EventType() EventType { return p.Type }

func (p Eric) Header(line string) bool {
	return strings.HasPrefix(line, "gene_id") || strings.HasPrefix(line, "ensembl")
}

func (p Eric) Parse(line string) (Event, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	n := p.Type.NIntervals()
	if len(fields) < 3+n {
		return nil, malformed(FormatEric, line, fmt.Errorf("Expected %d columns, got %d", 3+n, len(fields)))
	}
	loc := strings.Split(fields[2], ":")
	if len(loc) != 2 {
		return nil, malformed(FormatEric, line, fmt.Errorf("Expected chrom:strand, got %q", fields[2]))
	}
	strand, err := ParseStrand(loc[1])
	if err != nil {
		return nil, malformed(FormatEric, line, err)
	}
	coords := make([]int, 0, 2*n)
	for _, f := range fields[3 : 3+n] {
		se := strings.Split(f, "-")
		if len(se) != 2 {
			return nil, malformed(FormatEric, line, fmt.Errorf("Expected start-end, got %q", f))
		}
		for _, c := range se {
			i, err := atoi(c)
			if err != nil {
				return nil, malformed(FormatEric, line, err)
			}
			coords = append(coords, i)
		}
	}
	ivs, err := intervalsFromPairs(loc[0], strand, coords)
	if err != nil {
		return nil, malformed(FormatEric, line, err)
	}
	ev, err := NewEvent(p.Type, ivs)
	if err != nil {
		return nil, malformed(FormatEric, line, err)
	}
	return ev, nil
}

// Xintao parses plain coordinate tables: chrom, strand, then start and end
// of every interval in transcript order (0-based).
type Xintao struct {
	Type EventType
}

func (p Xintao) Format() Format { return FormatXintao }

func (p Xintao) EventType() EventType { return p.Type }

func (p Xintao) Header(line string) bool {
	return strings.HasPrefix(line, "chrom\t") || strings.HasPrefix(line, "chr\tstrand")
}

func (p Xintao) Parse(line string) (Event, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	n := 2 * p.Type.NIntervals()
	if len(fields) < 2+n {
		return nil, malformed(FormatXintao, line, fmt.Errorf("Expected %d columns, got %d", 2+n, len(fields)))
	}
	strand, err := ParseStrand(fields[1])
	if err != nil {
		return nil, malformed(FormatXintao, line, err)
	}
	coords := make([]int, n)
	for i := range coords {
		if coords[i], err = atoi(fields[2+i]); err != nil {
			return nil, malformed(FormatXintao, line, err)
		}
	}
	ivs, err := intervalsFromPairs(fields[0], strand, coords)
	if err != nil {
		return nil, malformed(FormatXintao, line, err)
	}
	ev, err := NewEvent(p.Type, ivs)
	if err != nil {
		return nil, malformed(FormatXintao, line, err)
	}
	return ev, nil
}
