//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"testing"

	"github.com/biogo/hts/sam"
	qt "github.com/frankban/quicktest"
)

func record(c *qt.C, pos int, cigar string, flags sam.Flags) *sam.Record {
	co, err := sam.ParseCigar([]byte(cigar))
	c.Assert(err, qt.IsNil)
	return &sam.Record{Name: "r", Pos: pos, Cigar: co, Flags: flags}
}

func TestAlignedBlocks(t *testing.T) {
	c := qt.New(t)
	r := record(c, 100, "5S10M20N5M2D3M", 0)
	var blocks [][2]int
	AlignedBlocks(r, func(start, end int) { blocks = append(blocks, [2]int{start, end}) })
	c.Assert(blocks, qt.DeepEquals, [][2]int{{100, 110}, {130, 135}, {137, 140}})
	c.Assert(Overlap(r, 105, 132), qt.Equals, 7)
	c.Assert(Overlap(r, 110, 130), qt.Equals, 0)
}

func TestStrand(t *testing.T) {
	c := qt.New(t)
	fwd := record(c, 0, "10M", sam.Read1)
	rev := record(c, 0, "10M", sam.Read1|sam.Reverse)
	mate := record(c, 0, "10M", sam.Read2|sam.Reverse)
	c.Assert(Strand(fwd, 1), qt.Equals, int8(1))
	c.Assert(Strand(rev, 1), qt.Equals, int8(-1))
	c.Assert(Strand(rev, -1), qt.Equals, int8(1))
	c.Assert(Strand(mate, 1), qt.Equals, int8(1))
}
