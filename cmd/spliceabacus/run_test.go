//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/norm"
)

func writeFile(c *qt.C, dir, name, content string) string {
	path := filepath.Join(dir, name)
	c.Assert(os.WriteFile(path, []byte(content), 0666), qt.IsNil)
	return path
}

func newPipeline(c *qt.C, method norm.Method) (*Pipeline, []Condition) {
	dir := c.TempDir()
	pos := writeFile(c, dir, "pos.bedgraph", "chr1\t0\t1000\t1\n")
	neg := writeFile(c, dir, "neg.bedgraph", "chr1\t0\t1000\t-2\n")
	annot := writeFile(c, dir, "cond1.miso", strings.Join([]string{
		"event_name\tpsi",
		"chr1:101:200:+@chr1:301:400:+@chr1:501:600:+\t0.5",
		"chr1:bad:coords",
		"chr1:501:600:-@chr1:301:400:-@chr1:101:200:-\t0.2",
	}, "\n"))
	parser, err := feature.NewParser(feature.FormatMiso, feature.SkippedExonType)
	c.Assert(err, qt.IsNil)
	ip, err := OpenTrack("IP", pos, neg, "", 1, BamOptions{})
	c.Assert(err, qt.IsNil)
	input, err := OpenTrack("input", pos, neg, "", 1, BamOptions{})
	c.Assert(err, qt.IsNil)
	p := &Pipeline{
		Parser:       parser,
		IP:           ip,
		Input:        input,
		Inner:        10,
		Outer:        20,
		Method:       method,
		Confidence:   1,
		OutputDir:    filepath.Join(dir, "out"),
		MatrixFormat: "csv",
		WriteRaw:     true,
		Workers:      2,
		TimeStart:    time.Now(),
	}
	c.Assert(os.MkdirAll(p.OutputDir, 0777), qt.IsNil)
	return p, []Condition{{Name: "cond1", Path: annot}, {Name: "missing", Path: filepath.Join(dir, "missing.miso")}}
}

func readVector(c *qt.C, path string) []float64 {
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	var values []float64
	for _, l := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		v, err := strconv.ParseFloat(l, 64)
		c.Assert(err, qt.IsNil)
		values = append(values, v)
	}
	return values
}

func TestPipelinePDF(t *testing.T) {
	c := qt.New(t)
	p, conditions := newPipeline(c, norm.PDF)
	reports := p.Run(conditions)
	c.Assert(reports, qt.HasLen, 2)
	c.Assert(reports[0].Error, qt.Equals, "")
	c.Assert(reports[0].Rows, qt.Equals, 2)
	c.Assert(reports[0].IP.Malformed, qt.Equals, 1)
	c.Assert(reports[0].IP.Headers, qt.Equals, 1)
	c.Assert(reports[0].Regions, qt.DeepEquals, []string{"upstream_3p", "cassette_5p", "cassette_3p", "downstream_5p"})
	c.Assert(reports[1].Error, qt.Not(qt.Equals), "")

	for _, name := range []string{"cond1.se.ip.csv", "cond1.se.input.csv", "cond1.se.pdf.csv"} {
		_, err := os.Stat(filepath.Join(p.OutputDir, name))
		c.Assert(err, qt.IsNil, qt.Commentf(name))
	}
	// Flat signal gives a flat distribution
	means := readVector(c, filepath.Join(p.OutputDir, "cond1.se.pdf.mean.txt"))
	c.Assert(means, qt.HasLen, 120)
	for _, m := range means {
		c.Assert(m > 0 && m < 1, qt.IsTrue)
	}

	path := filepath.Join(c.TempDir(), "report.json")
	c.Assert(WriteReport(path, reports), qt.IsNil)
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	var decoded []ConditionReport
	c.Assert(json.Unmarshal(data, &decoded), qt.IsNil)
	c.Assert(decoded[0].IP.Rows, qt.Equals, 2)
}

func TestPipelineSubtract(t *testing.T) {
	c := qt.New(t)
	p, conditions := newPipeline(c, norm.Subtract)
	reports := p.Run(conditions[:1])
	c.Assert(reports[0].Error, qt.Equals, "")
	c.Assert(reports[0].Rows, qt.Equals, 1)
	for _, m := range readVector(c, filepath.Join(p.OutputDir, "cond1.se.subtract.mean.txt")) {
		c.Assert(m, qt.Equals, 0.)
	}
}

func TestOpenTrackMissing(t *testing.T) {
	c := qt.New(t)
	_, err := OpenTrack("IP", "", "", "", 0, BamOptions{})
	c.Assert(err, qt.ErrorMatches, "No IP track.*")
}

func TestWriteReportError(t *testing.T) {
	c := qt.New(t)
	if _, err := os.Stat("/dev/full"); err != nil {
		c.Skip("no /dev/full")
	}
	reports := []ConditionReport{{Name: "cond1", Rows: 1}}
	c.Assert(WriteReport("/dev/full", reports), qt.Not(qt.IsNil))
	c.Assert(WriteReport(filepath.Join(c.TempDir(), "missing", "report.json"), reports), qt.Not(qt.IsNil))
}
