//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package track

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pierrec/lz4"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
)

const bedGraphPos = `track type=bedGraph
chr1	0	5	1.5
chr1	5	8	-2
chr1	10	12	3
chr2	0	0	0
`

func TestBedGraphValues(t *testing.T) {
	c := qt.New(t)
	bg, err := ReadBedGraph(strings.NewReader(bedGraphPos))
	c.Assert(err, qt.IsNil)
	c.Assert(bg.Chroms(), qt.Equals, 2)

	values, err := bg.Values("chr1", 3, 12)
	c.Assert(err, qt.IsNil)
	c.Assert(values, qt.HasLen, 9)
	c.Assert(values[:5], qt.DeepEquals, []float64{1.5, 1.5, -2, -2, -2})
	c.Assert(math.IsNaN(values[5]) && math.IsNaN(values[6]), qt.IsTrue)
	c.Assert(values[7:], qt.DeepEquals, []float64{3, 3})

	values, err = bg.Values("chr2", 0, 3)
	c.Assert(err, qt.IsNil)
	c.Assert(math.IsNaN(values[0]), qt.IsTrue)

	_, err = bg.Values("chrZ", 0, 3)
	c.Assert(errors.Is(err, ErrUnknownChromosome), qt.IsTrue)
}

func TestBedGraphMalformed(t *testing.T) {
	c := qt.New(t)
	_, err := ReadBedGraph(strings.NewReader("chr1\t0\tx\t1\n"))
	c.Assert(err, qt.ErrorMatches, `Line 1: .*`)
	_, err = ReadBedGraph(strings.NewReader("chr1\t5\t2\t1\n"))
	c.Assert(err, qt.ErrorMatches, `Line 1: end 2 before start 5`)
}

func TestOpenBedGraphLZ4(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "pos.bedgraph.lz4")
	f, err := os.Create(path)
	c.Assert(err, qt.IsNil)
	w := lz4.NewWriter(f)
	_, err = w.Write([]byte(bedGraphPos))
	c.Assert(err, qt.IsNil)
	c.Assert(w.Close(), qt.IsNil)
	c.Assert(f.Close(), qt.IsNil)

	bg, err := OpenBedGraph(path)
	c.Assert(err, qt.IsNil)
	values, err := bg.Values("chr1", 10, 12)
	c.Assert(err, qt.IsNil)
	c.Assert(values, qt.DeepEquals, []float64{3, 3})
}

func TestStranded(t *testing.T) {
	c := qt.New(t)
	pos, err := ReadBedGraph(strings.NewReader("chr1\t0\t4\t1\n"))
	c.Assert(err, qt.IsNil)
	neg, err := ReadBedGraph(strings.NewReader("chr1\t0\t4\t-7\n"))
	c.Assert(err, qt.IsNil)
	tr := Stranded{Pos: pos, Neg: neg}

	values, err := tr.Values("chr1", 0, 2, feature.Plus)
	c.Assert(err, qt.IsNil)
	c.Assert(values, qt.DeepEquals, []float64{1, 1})
	values, err = tr.Values("chr1", 0, 2, feature.Minus)
	c.Assert(err, qt.IsNil)
	c.Assert(values, qt.DeepEquals, []float64{-7, -7})
	_, err = tr.Values("chr1", 0, 2, feature.Strand(0))
	c.Assert(errors.Is(err, ErrInvalidStrand), qt.IsTrue)
}
