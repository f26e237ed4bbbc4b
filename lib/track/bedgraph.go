//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package track

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
)

var nan = math.NaN()

// BedGraph is an in-memory single-strand signal indexed by interval trees.
// It is read-only once loaded.
type BedGraph struct {
	trees map[string]*interval.IntTree
}

// OpenBedGraph loads a (possibly compressed) bedGraph file.
func OpenBedGraph(path string) (*BedGraph, error) {
	f, err := feature.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	bg, err := ReadBedGraph(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bg, nil
}

// ReadBedGraph parses chrom, start, end, value lines. Track, browser and
// comment lines are skipped.
func ReadBedGraph(r io.Reader) (*BedGraph, error) {
	records := make(map[string][]IntInterval)
	scanner := bufio.NewScanner(r)
	var iline int
	for scanner.Scan() {
		iline++
		line := scanner.Text()
		if feature.Comment(line) || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("Line %d: expected 4 columns, got %d", iline, len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("Line %d: %w", iline, err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("Line %d: %w", iline, err)
		}
		if end < start {
			return nil, fmt.Errorf("Line %d: end %d before start %d", iline, end, start)
		}
		value, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("Line %d: %w", iline, err)
		}
		if end > start {
			records[fields[0]] = append(records[fields[0]], IntInterval{Start: start, End: end, Value: value})
		} else if _, ok := records[fields[0]]; !ok {
			records[fields[0]] = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	trees, err := buildTrees(records)
	if err != nil {
		return nil, err
	}
	return &BedGraph{trees: trees}, nil
}

// Chroms returns the number of chromosomes with data.
func (bg *BedGraph) Chroms() int {
	return len(bg.trees)
}

func (bg *BedGraph) Values(chrom string, start, end int) ([]float64, error) {
	tree, ok := bg.trees[chrom]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChromosome, chrom)
	}
	if end < start {
		return nil, fmt.Errorf("Invalid range %s:%d-%d", chrom, start, end)
	}
	values := NaNs(end - start)
	q := IntInterval{Start: start, End: end}
	for _, hit := range tree.Get(q) {
		iv := hit.(IntInterval)
		for p := max(iv.Start, start); p < min(iv.End, end); p++ {
			values[p-start] = iv.Value
		}
	}
	return values, nil
}
