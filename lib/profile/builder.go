//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/track"
	"git.sr.ht/~vejnar/SpliceAbacus/lib/window"

	log "github.com/sirupsen/logrus"

	"golang.org/x/sync/errgroup"

	"gopkg.in/fatih/set.v0"
)

const (
	batchLength   = 64
	maxLineLength = 16 * 1024 * 1024
)

// Stats counts annotation lines by outcome.
type Stats struct {
	Lines        int `json:"lines"`
	Comments     int `json:"comments"`
	Headers      int `json:"headers"`
	Rows         int `json:"rows"`
	Malformed    int `json:"malformed"`
	UnknownChrom int `json:"unknown_chromosome"`
	Duplicates   int `json:"duplicates"`
}

// Builder turns annotation lines into a matrix of windowed signal.
type Builder struct {
	Parser feature.Parser
	Track  track.Track
	// Inner and Outer are the window offsets inside and outside the anchor.
	Inner, Outer int
	// Workers is the number of rows sampled concurrently.
	Workers int
	Logger  log.FieldLogger
}

type line struct {
	index int
	text  string
}

type row struct {
	line
	values  []float64
	cells   []Cell
	unknown bool
	err     error
}

func (b *Builder) logger() log.FieldLogger {
	if b.Logger == nil {
		return log.StandardLogger()
	}
	return b.Logger
}

// Width returns the number of columns per row.
func (b *Builder) Width() int {
	return len(window.Regions(b.Parser.EventType())) * (b.Inner + b.Outer)
}

// Regions returns the column blocks of a row.
func (b *Builder) Regions() []Region {
	names := window.Regions(b.Parser.EventType())
	regions := make([]Region, len(names))
	for i, n := range names {
		regions[i] = Region{Name: n, Offset: i * (b.Inner + b.Outer), Width: b.Inner + b.Outer}
	}
	return regions
}

// BuildFile builds the matrix of the annotation at path.
func (b *Builder) BuildFile(path string) (*Matrix, Stats, error) {
	f, err := feature.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer f.Close()
	return b.Build(f)
}

// Build reads annotation lines from r and samples one row per event, in
// line order. Malformed lines and lines whose windows cannot be sampled
// are logged and skipped.
func (b *Builder) Build(r io.Reader) (*Matrix, Stats, error) {
	var stats Stats
	if b.Inner < 0 || b.Outer < 0 {
		return nil, stats, fmt.Errorf("%w: inner %d outer %d", window.ErrNegativeOffset, b.Inner, b.Outer)
	}
	width := b.Width()
	if width == 0 {
		return nil, stats, fmt.Errorf("Window offsets are both zero")
	}
	logger := b.logger()
	nWorker := b.Workers
	if nWorker < 1 {
		nWorker = 1
	}

	g, ctx := errgroup.WithContext(context.Background())
	batches := make(chan []line, nWorker)
	results := make(chan []row, nWorker)

	// Reader
	g.Go(func() error {
		defer close(batches)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), maxLineLength)
		batch := make([]line, 0, batchLength)
		var i int
		for scanner.Scan() {
			text := strings.TrimRight(scanner.Text(), "\r")
			stats.Lines++
			if feature.Comment(text) {
				stats.Comments++
				continue
			}
			if b.Parser.Header(text) {
				stats.Headers++
				continue
			}
			batch = append(batch, line{index: i, text: text})
			i++
			if len(batch) == batchLength {
				select {
				case batches <- batch:
				case <-ctx.Done():
					return ctx.Err()
				}
				batch = make([]line, 0, batchLength)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		if len(batch) > 0 {
			select {
			case batches <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Workers
	worker := func() error {
		for batch := range batches {
			rows := make([]row, len(batch))
			for i, l := range batch {
				rows[i] = b.row(l)
			}
			select {
			case results <- rows:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	var wg errgroup.Group
	for w := 0; w < nWorker; w++ {
		wg.Go(worker)
	}
	g.Go(func() error {
		defer close(results)
		return wg.Wait()
	})

	// Collector
	var rows []row
	for rs := range results {
		rows = append(rows, rs...)
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })

	keys := make([]string, 0, len(rows))
	values := make([]float64, 0, len(rows)*width)
	cells := make([]Cell, 0, len(rows)*width)
	seen := set.New(set.NonThreadSafe)
	for _, rw := range rows {
		if rw.err != nil {
			stats.Malformed++
			logger.WithField("line", rw.text).Warn(rw.err)
			continue
		}
		if seen.Has(rw.text) {
			stats.Duplicates++
			logger.WithField("line", rw.text).Warn("Duplicate annotation line skipped")
			continue
		}
		seen.Add(rw.text)
		if rw.unknown {
			stats.UnknownChrom++
			logger.WithField("line", rw.text).Warn("Chromosome not found in track")
		}
		keys = append(keys, rw.text)
		values = append(values, rw.values...)
		cells = append(cells, rw.cells...)
	}
	stats.Rows = len(keys)

	m, err := NewMatrix(keys, width, values, cells, b.Regions())
	return m, stats, err
}

// Row samples the windows of ev into one matrix row. Unknown chromosomes
// give a row of NotApplicable cells and a nil error with unknown set.
func (b *Builder) Row(ev feature.Event) (values []float64, cells []Cell, unknown bool, err error) {
	reqs, err := window.Requests(ev, b.Inner, b.Outer)
	if err != nil {
		return nil, nil, false, err
	}
	values = make([]float64, 0, b.Width())
	cells = make([]Cell, 0, b.Width())
	for _, req := range reqs {
		w, err := req.Window()
		if err != nil {
			return nil, nil, false, fmt.Errorf("%s: %w", req.Region, err)
		}
		res, err := w.Sample(b.Track)
		if err != nil {
			if errors.Is(err, track.ErrUnknownChromosome) {
				return track.NaNs(b.Width()), notApplicable(b.Width()), true, nil
			}
			return nil, nil, false, fmt.Errorf("%s: %w", req.Region, err)
		}
		values, cells = pad(values, cells, res.LeftPad)
		for _, v := range res.Values {
			if math.IsNaN(v) {
				values = append(values, 0)
				cells = append(cells, ZeroGap)
			} else {
				values = append(values, math.Abs(v))
				cells = append(cells, Measured)
			}
		}
		values, cells = pad(values, cells, res.RightPad)
	}
	if len(values) != b.Width() {
		return nil, nil, false, fmt.Errorf("Row has %d values, expected %d", len(values), b.Width())
	}
	return values, cells, false, nil
}

func (b *Builder) row(l line) row {
	rw := row{line: l}
	ev, err := b.Parser.Parse(l.text)
	if err != nil {
		rw.err = err
		return rw
	}
	if ev.Type() != b.Parser.EventType() {
		rw.err = fmt.Errorf("Event type %s, expected %s", ev.Type(), b.Parser.EventType())
		return rw
	}
	rw.values, rw.cells, rw.unknown, rw.err = b.Row(ev)
	return rw
}

func pad(values []float64, cells []Cell, n int) ([]float64, []Cell) {
	for i := 0; i < n; i++ {
		values = append(values, math.NaN())
		cells = append(cells, NotApplicable)
	}
	return values, cells
}

func notApplicable(n int) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = NotApplicable
	}
	return cells
}
