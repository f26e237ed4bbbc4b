//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/norm"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/profile"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/stats"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/track"
)

// Condition is one annotation file.
type Condition struct {
	Name string
	Path string
}

type BamOptions struct {
	LibraryR1Strand   int8
	MinMappingQuality byte
	MinOverlap        int
}

// Track is an opened signal source and its pseudocount.
type Track struct {
	track.Track
	Pseudocount float64
	bam         *track.Bam
}

func (t *Track) Close() error {
	if t == nil || t.bam == nil {
		return nil
	}
	return t.bam.Close()
}

// OpenTrack opens either a pair of bedGraph files or an indexed BAM file.
// A zero pseudocount is taken from the BAM index.
func OpenTrack(name, pathPos, pathNeg, pathBam string, pseudocount float64, opts BamOptions) (*Track, error) {
	switch {
	case pathBam != "":
		b, err := track.OpenBam(pathBam, opts.LibraryR1Strand)
		if err != nil {
			return nil, err
		}
		b.MinMappingQuality = opts.MinMappingQuality
		b.MinOverlap = opts.MinOverlap
		if pseudocount == 0 {
			if pseudocount, err = b.Pseudocount(); err != nil {
				b.Close()
				return nil, fmt.Errorf("%s: %w", pathBam, err)
			}
		}
		// Reads per million
		b.Scale = pseudocount
		return &Track{Track: b, Pseudocount: pseudocount, bam: b}, nil
	case pathPos != "" && pathNeg != "":
		pos, err := track.OpenBedGraph(pathPos)
		if err != nil {
			return nil, err
		}
		neg, err := track.OpenBedGraph(pathNeg)
		if err != nil {
			return nil, err
		}
		return &Track{Track: track.Stranded{Pos: pos, Neg: neg}, Pseudocount: pseudocount}, nil
	}
	return nil, fmt.Errorf("No %s track: bedGraph pair or BAM required", name)
}

// Pipeline builds, normalizes and summarizes each condition.
type Pipeline struct {
	Parser       feature.Parser
	IP, Input    *Track
	Inner, Outer int
	Method       norm.Method
	Confidence   float64
	OutputDir    string
	MatrixFormat string
	Mapping      map[string]string
	WriteRaw     bool
	Append       bool
	Workers      int
	TimeStart    time.Time
}

// Run processes conditions in order. A failed condition is reported and
// the next one is processed.
func (p *Pipeline) Run(conditions []Condition) []ConditionReport {
	reports := make([]ConditionReport, 0, len(conditions))
	for _, c := range conditions {
		r, err := p.runCondition(c)
		if err != nil {
			log.WithField("condition", c.Name).Error(err)
			r.Error = err.Error()
		}
		reports = append(reports, r)
	}
	return reports
}

func (p *Pipeline) builder(t *Track, sample string, c Condition) *profile.Builder {
	return &profile.Builder{
		Parser:  p.Parser,
		Track:   t,
		Inner:   p.Inner,
		Outer:   p.Outer,
		Workers: p.Workers,
		Logger:  log.WithFields(log.Fields{"condition": c.Name, "sample": sample}),
	}
}

func (p *Pipeline) output(c Condition, suffix, ext string) string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s.%s.%s.%s", c.Name, p.Parser.EventType(), suffix, ext))
}

func (p *Pipeline) matrixExt() string {
	ext := strings.SplitN(p.MatrixFormat, "+", 2)
	if ext[0] == "binary" {
		ext[0] = "bin"
	}
	return strings.Join(ext, ".")
}

func (p *Pipeline) runCondition(c Condition) (ConditionReport, error) {
	r := ConditionReport{Name: c.Name, Path: c.Path, Normalization: p.Method.String()}

	// Raw matrices
	ipMatrix, ipStats, err := p.builder(p.IP, "ip", c).BuildFile(c.Path)
	if err != nil {
		return r, fmt.Errorf("IP matrix: %w", err)
	}
	r.IP = &ipStats
	log.Infof("%.1fmin - %s: IP matrix with %d rows", time.Since(p.TimeStart).Minutes(), c.Name, ipStats.Rows)
	var inputMatrix *profile.Matrix
	var inputPseudocount float64
	if p.Input != nil {
		var inputStats profile.Stats
		inputMatrix, inputStats, err = p.builder(p.Input, "input", c).BuildFile(c.Path)
		if err != nil {
			return r, fmt.Errorf("Input matrix: %w", err)
		}
		r.Input = &inputStats
		inputPseudocount = p.Input.Pseudocount
		log.Infof("%.1fmin - %s: input matrix with %d rows", time.Since(p.TimeStart).Minutes(), c.Name, inputStats.Rows)
	}
	if p.WriteRaw {
		if err := profile.WriteMatrix(ipMatrix, p.output(c, "ip", p.matrixExt()), p.MatrixFormat, p.Mapping, p.Append); err != nil {
			return r, err
		}
		if inputMatrix != nil {
			if err := profile.WriteMatrix(inputMatrix, p.output(c, "input", p.matrixExt()), p.MatrixFormat, p.Mapping, p.Append); err != nil {
				return r, err
			}
		}
	}

	// Normalization
	normalized, err := norm.Normalize(ipMatrix, inputMatrix, p.IP.Pseudocount, inputPseudocount, p.Method)
	if err != nil {
		return r, fmt.Errorf("Normalization %s: %w", p.Method, err)
	}
	r.Rows, _ = normalized.Dims()
	if err := profile.WriteMatrix(normalized, p.output(c, p.Method.String(), p.matrixExt()), p.MatrixFormat, p.Mapping, p.Append); err != nil {
		return r, err
	}

	// Summary
	means, sems, err := stats.TrimmedMeanSEM(normalized, p.Confidence)
	if err != nil {
		return r, err
	}
	if err := profile.WriteVector(p.output(c, p.Method.String()+".mean", "txt"), "txt", means, p.Append); err != nil {
		return r, err
	}
	if err := profile.WriteVector(p.output(c, p.Method.String()+".sem", "txt"), "txt", sems, p.Append); err != nil {
		return r, err
	}
	for _, reg := range normalized.Regions {
		r.Regions = append(r.Regions, reg.Name)
	}
	log.Infof("%.1fmin - %s: %s done", time.Since(p.TimeStart).Minutes(), c.Name, p.Method)
	return r, nil
}
