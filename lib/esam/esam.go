//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"github.com/biogo/hts/sam"
)

// Overlap returns the length of the overlap between the alignment of the SAM record and the interval specified with start and end.
func Overlap(r *sam.Record, start, end int) int {
	var overlap int
	AlignedBlocks(r, func(bstart, bend int) {
		o := min(bend, end) - max(bstart, start)
		if o > 0 {
			overlap += o
		}
	})
	return overlap
}

// AlignedBlocks calls fn with the reference interval [start,end) of every
// aligned block (CIGAR operations consuming both query and reference).
// Deletions and skipped regions (introns) are not covered.
func AlignedBlocks(r *sam.Record, fn func(start, end int)) {
	pos := r.Pos
	for _, co := range r.Cigar {
		con := co.Type().Consumes()
		lr := co.Len() * con.Reference
		if con.Query == 1 && con.Reference == 1 {
			fn(pos, pos+lr)
		}
		pos += lr
	}
}

// Strand returns the strand of the sequenced fragment given the library
// read 1 strand (1 sense, -1 antisense). Read 2 is flipped.
func Strand(r *sam.Record, libraryR1Strand int8) int8 {
	strand := r.Strand() * libraryR1Strand
	if r.Flags&sam.Read2 != 0 {
		strand *= -1
	}
	return strand
}

func min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}
