//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package track

import (
	"fmt"
	"os"
	"sync"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/esam"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
)

// Bam computes strand-resolved per-base coverage from an indexed BAM file.
// Each aligned base contributes Scale (1 by default; set it to the
// pseudocount to obtain reads-per-million density).
type Bam struct {
	// LibraryR1Strand is the strand of read 1 relative to the RNA: 1, -1 or
	// 0 for unstranded libraries.
	LibraryR1Strand   int8
	MinMappingQuality byte
	// MinOverlap is the minimum number of aligned bases inside the sampled
	// range for a read to count.
	MinOverlap int
	Scale      float64

	mu   sync.Mutex
	f    *os.File
	r    *bam.Reader
	idx  *bam.Index
	refs map[string]*sam.Reference
}

// OpenBam opens path and its index (path.bai).
func OpenBam(path string, libraryR1Strand int8) (*Bam, error) {
	fi, err := os.Open(path + ".bai")
	if err != nil {
		return nil, err
	}
	defer fi.Close()
	idx, err := bam.ReadIndex(fi)
	if err != nil {
		return nil, fmt.Errorf("%s.bai: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := bam.NewReader(f, 1)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b := &Bam{LibraryR1Strand: libraryR1Strand, Scale: 1, f: f, r: r, idx: idx, refs: make(map[string]*sam.Reference)}
	for _, ref := range r.Header().Refs() {
		b.refs[ref.Name()] = ref
	}
	return b, nil
}

// Mapped returns the number of mapped records from the index statistics.
func (b *Bam) Mapped() (uint64, error) {
	var mapped uint64
	for _, ref := range b.refs {
		stats, ok := b.idx.ReferenceStats(ref.ID())
		if !ok {
			continue
		}
		mapped += stats.Mapped
	}
	if mapped == 0 {
		return 0, fmt.Errorf("No mapped read statistics in index")
	}
	return mapped, nil
}

// Pseudocount returns the density contributed by one read: 1e6/mapped.
func (b *Bam) Pseudocount() (float64, error) {
	mapped, err := b.Mapped()
	if err != nil {
		return 0, err
	}
	return 1000000. / float64(mapped), nil
}

func (b *Bam) Values(chrom string, start, end int, strand feature.Strand) ([]float64, error) {
	if !strand.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStrand, strand)
	}
	ref, ok := b.refs[chrom]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChromosome, chrom)
	}
	if end < start {
		return nil, fmt.Errorf("Invalid range %s:%d-%d", chrom, start, end)
	}
	values := make([]float64, end-start)
	if end == start {
		return values, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	chunks, err := b.idx.Chunks(ref, start, end)
	if err != nil {
		// No indexed record on reference
		return values, nil
	}
	it, err := bam.NewIterator(b.r, chunks)
	if err != nil {
		return nil, err
	}
	for it.Next() {
		aread := it.Record()
		if aread.Flags&(sam.Unmapped|sam.Supplementary|sam.Secondary) != 0 {
			continue
		}
		if aread.MapQ < b.MinMappingQuality {
			continue
		}
		if b.LibraryR1Strand != 0 && esam.Strand(aread, b.LibraryR1Strand) != int8(strand) {
			continue
		}
		if b.MinOverlap > 0 && esam.Overlap(aread, start, end) < b.MinOverlap {
			continue
		}
		esam.AlignedBlocks(aread, func(bstart, bend int) {
			for p := max(bstart, start); p < min(bend, end); p++ {
				values[p-start] += b.Scale
			}
		})
	}
	if err = it.Close(); err != nil {
		return nil, err
	}
	return values, nil
}

func (b *Bam) Close() error {
	b.r.Close()
	return b.f.Close()
}
