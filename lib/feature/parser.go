//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidStrand = errors.New("Invalid strand")
	ErrUnsupported   = errors.New("Unsupported event type for format")
)

// MalformedAnnotationError reports an annotation line that could not be
// turned into an event.
type MalformedAnnotationError struct {
	Line   string
	Format Format
	Err    error
}

func (e *MalformedAnnotationError) Error() string {
	return fmt.Sprintf("Malformed %s annotation %q: %v", e.Format, e.Line, e.Err)
}

func (e *MalformedAnnotationError) Unwrap() error { return e.Err }

type Format int

const (
	FormatMiso Format = iota
	FormatRmats
	FormatBed
	FormatBed12
	FormatEric
	FormatXintao
)

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(raw) {
	case "miso":
		return FormatMiso, nil
	case "rmats":
		return FormatRmats, nil
	case "bed", "bed6":
		return FormatBed, nil
	case "bed12":
		return FormatBed12, nil
	case "eric":
		return FormatEric, nil
	case "xintao":
		return FormatXintao, nil
	}
	return 0, fmt.Errorf("Unknown annotation format %q", raw)
}

func (f Format) String() string {
	switch f {
	case FormatMiso:
		return "miso"
	case FormatRmats:
		return "rmats"
	case FormatBed:
		return "bed"
	case FormatBed12:
		return "bed12"
	case FormatEric:
		return "eric"
	case FormatXintao:
		return "xintao"
	}
	return "unknown"
}

// Parser turns one annotation line into an event.
type Parser interface {
	Format() Format
	EventType() EventType
	// Header reports whether line is a column header to be skipped.
	Header(line string) bool
	Parse(line string) (Event, error)
}

// NewParser returns the parser of format f for events of type t.
func NewParser(f Format, t EventType) (Parser, error) {
	var p Parser
	switch f {
	case FormatMiso:
		p = Miso{Type: t}
	case FormatRmats:
		p = Rmats{Type: t}
	case FormatBed:
		p = Bed{Type: t}
	case FormatBed12:
		if t == Alt5pSiteType || t == Alt3pSiteType {
			return nil, fmt.Errorf("%w: %s %s", ErrUnsupported, f, t)
		}
		p = Bed12{Type: t}
	case FormatEric:
		if t != SkippedExonType && t != RetainedIntronType {
			return nil, fmt.Errorf("%w: %s %s", ErrUnsupported, f, t)
		}
		p = Eric{Type: t}
	case FormatXintao:
		if t == Alt5pSiteType || t == Alt3pSiteType {
			return nil, fmt.Errorf("%w: %s %s", ErrUnsupported, f, t)
		}
		p = Xintao{Type: t}
	default:
		return nil, fmt.Errorf("Unknown annotation format %d", f)
	}
	return p, nil
}

// Comment reports whether line is blank or starts with '#'.
func Comment(line string) bool {
	l := strings.TrimSpace(line)
	return len(l) == 0 || l[0] == '#'
}

func malformed(f Format, line string, err error) error {
	return &MalformedAnnotationError{Line: line, Format: f, Err: err}
}

func atoi(raw string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("Bad coordinate %q", raw)
	}
	return i, nil
}

// intervalsFromPairs builds intervals from 0-based coordinate pairs
// (start, end) listed in transcript order.
func intervalsFromPairs(chrom string, strand Strand, coords []int) ([]Interval, error) {
	if len(coords)%2 != 0 {
		return nil, fmt.Errorf("Odd number of coordinates")
	}
	ivs := make([]Interval, len(coords)/2)
	for i := 0; i < len(ivs); i++ {
		iv, err := NewInterval(chrom, coords[2*i], coords[2*i+1], strand)
		if err != nil {
			return nil, err
		}
		ivs[i] = iv
	}
	return ivs, nil
}
