//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//

package cmapper

// CoordMapper maps genomic coordinates of a set of sorted, non-overlapping
// genomic intervals to a contiguous 0-based coordinate read in transcript
// orientation (reversed on the minus strand).
type CoordMapper struct {
	CoordsGenome, CoordsTranscript [][]int
	Strand                         int8
	Length                         int
}

// New returns an initialized mapper.
func New(coords [][]int, strand int8) *CoordMapper {
	cm := &CoordMapper{CoordsGenome: coords, Strand: strand}
	cm.Init()
	return cm
}

// Init.
func (cm *CoordMapper) Init() {
	// CoordsTranscript
	cm.CoordsTranscript = cm.CoordsTranscript[:0]
	var tcoord int
	if cm.Strand == -1 {
		for i := len(cm.CoordsGenome) - 1; i >= 0; i-- {
			exonLength := cm.CoordsGenome[i][1] - cm.CoordsGenome[i][0]
			cm.CoordsTranscript = append(cm.CoordsTranscript, []int{tcoord, tcoord + exonLength})
			tcoord += exonLength
		}
	} else {
		for i := 0; i < len(cm.CoordsGenome); i++ {
			exonLength := cm.CoordsGenome[i][1] - cm.CoordsGenome[i][0]
			cm.CoordsTranscript = append(cm.CoordsTranscript, []int{tcoord, tcoord + exonLength})
			tcoord += exonLength
		}
	}
	// Length
	cm.Length = cm.GetLength()
}

// GetLength returns mapper length.
func (cm *CoordMapper) GetLength() (length int) {
	for _, iv := range cm.CoordsGenome {
		length += iv[1] - iv[0]
	}
	return
}

// Genome2Transcript translates a coordinate from the genome to the transcript system.
func (cm *CoordMapper) Genome2Transcript(coord int) (tcoord int, within bool) {
	exonIth := -1
	for i := 0; i < len(cm.CoordsGenome); i++ {
		if coord >= cm.CoordsGenome[i][0] && coord < cm.CoordsGenome[i][1] {
			exonIth = i
			break
		}
	}
	if exonIth != -1 {
		if cm.Strand == -1 {
			tcoord = cm.CoordsTranscript[len(cm.CoordsTranscript)-1-exonIth][1] - 1 - (coord - cm.CoordsGenome[exonIth][0])
		} else {
			tcoord = cm.CoordsTranscript[exonIth][0] + (coord - cm.CoordsGenome[exonIth][0])
		}
		within = true
	}
	return
}

// Orient copies values sampled in genomic order over the mapper intervals
// into dst in transcript order. dst must hold at least Length values.
func (cm *CoordMapper) Orient(dst, values []float64) {
	var i int
	for _, iv := range cm.CoordsGenome {
		for coord := iv[0]; coord < iv[1]; coord++ {
			if tcoord, ok := cm.Genome2Transcript(coord); ok {
				dst[tcoord] = values[i]
			}
			i++
		}
	}
}
