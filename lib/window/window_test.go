//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package window

import (
	"errors"
	"math/rand"
	"testing"

	qt "github.com/frankban/quicktest"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
)

func iv(start, end int, strand feature.Strand) feature.Interval {
	return feature.Interval{Chrom: "chr3", Start: start, End: end, Strand: strand}
}

func TestFivePrimeSiteNoPadding(t *testing.T) {
	c := qt.New(t)
	w, err := FivePrimeSite(iv(100, 200, feature.Plus), iv(600, 700, feature.Plus), 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, Window{Chrom: "chr3", Start: 300, End: 650, Strand: feature.Plus})
	c.Assert(w.Width(), qt.Equals, 350)
}

func TestFivePrimeSiteNeighborClip(t *testing.T) {
	c := qt.New(t)
	// Upstream exon ends 1 base before the cassette
	w, err := FivePrimeSite(iv(290, 299, feature.Plus), iv(300, 400, feature.Plus), 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Start, qt.Equals, 299)
	c.Assert(w.End, qt.Equals, 350)
	c.Assert(w.LeftPad, qt.Equals, 299)
	c.Assert(w.RightPad, qt.Equals, 0)
	c.Assert(w.Width(), qt.Equals, 350)

	// Upstream exon ends 100 bases before the cassette
	w, err = FivePrimeSite(iv(100, 200, feature.Plus), iv(300, 400, feature.Plus), 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Start, qt.Equals, 200)
	c.Assert(w.LeftPad, qt.Equals, 200)
}

func TestFivePrimeSiteShortExon(t *testing.T) {
	c := qt.New(t)
	w, err := FivePrimeSite(iv(0, 10, feature.Plus), iv(1000, 1020, feature.Plus), 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, Window{Chrom: "chr3", Start: 700, End: 1020, Strand: feature.Plus, RightPad: 30})
}

func TestFivePrimeSiteMinus(t *testing.T) {
	c := qt.New(t)
	// Upstream (in transcript) lies at higher coordinates on the minus strand
	w, err := FivePrimeSite(iv(500, 600, feature.Minus), iv(300, 400, feature.Minus), 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, Window{Chrom: "chr3", Start: 350, End: 500, Strand: feature.Minus, LeftPad: 200})
}

func TestThreePrimeSite(t *testing.T) {
	c := qt.New(t)
	w, err := ThreePrimeSite(iv(500, 600, feature.Plus), iv(300, 400, feature.Plus), 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, Window{Chrom: "chr3", Start: 350, End: 500, Strand: feature.Plus, RightPad: 200})

	w, err = ThreePrimeSite(iv(100, 200, feature.Minus), iv(300, 320, feature.Minus), 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, Window{Chrom: "chr3", Start: 200, End: 320, Strand: feature.Minus, LeftPad: 30, RightPad: 200})
}

func TestChromosomeStart(t *testing.T) {
	c := qt.New(t)
	w, err := FivePrimeSite(iv(2000, 2100, feature.Plus), iv(100, 200, feature.Plus), 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Start, qt.Equals, 0)
	c.Assert(w.LeftPad, qt.Equals, 200)
	c.Assert(w.Width(), qt.Equals, 350)
}

func TestNegativeOffset(t *testing.T) {
	c := qt.New(t)
	_, err := ThreePrimeSite(iv(0, 10, feature.Plus), iv(20, 30, feature.Plus), -1, 10)
	c.Assert(errors.Is(err, ErrNegativeOffset), qt.IsTrue)
}

func TestWidthInvariant(t *testing.T) {
	c := qt.New(t)
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		strand := feature.Plus
		if rnd.Intn(2) == 0 {
			strand = feature.Minus
		}
		s := rnd.Intn(2000)
		a := iv(s, s+rnd.Intn(400), strand)
		s = rnd.Intn(2000)
		n := iv(s, s+rnd.Intn(400), strand)
		inner, outer := rnd.Intn(500), rnd.Intn(500)
		for _, side := range []Side{FivePrime, ThreePrime} {
			w, err := Request{Anchor: a, Neighbor: n, Side: side, Inner: inner, Outer: outer}.Window()
			c.Assert(err, qt.IsNil)
			c.Assert(w.Width(), qt.Equals, inner+outer, qt.Commentf("%v %v %v %d %d", a, n, side, inner, outer))
			c.Assert(w.Length() >= 0, qt.IsTrue)
			c.Assert(w.LeftPad >= 0 && w.RightPad >= 0, qt.IsTrue)
		}
	}
}

type seqSampler []float64

func (s seqSampler) Values(chrom string, start, end int, strand feature.Strand) ([]float64, error) {
	return append([]float64(nil), s[start:end]...), nil
}

func TestSample(t *testing.T) {
	c := qt.New(t)
	track := seqSampler{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	r, err := Window{Chrom: "chr3", Start: 2, End: 5, Strand: feature.Plus, LeftPad: 1}.Sample(track)
	c.Assert(err, qt.IsNil)
	c.Assert(r, qt.DeepEquals, Result{LeftPad: 1, Values: []float64{2, 3, 4}})
	r, err = Window{Chrom: "chr3", Start: 2, End: 5, Strand: feature.Minus, RightPad: 2}.Sample(track)
	c.Assert(err, qt.IsNil)
	c.Assert(r, qt.DeepEquals, Result{Values: []float64{4, 3, 2}, RightPad: 2})
}

func TestRequests(t *testing.T) {
	c := qt.New(t)
	ev, err := feature.Miso{Type: feature.SkippedExonType}.Parse("chr3:101:200:+@chr3:301:400:+@chr3:501:600:+")
	c.Assert(err, qt.IsNil)
	reqs, err := Requests(ev, 50, 300)
	c.Assert(err, qt.IsNil)
	c.Assert(reqs, qt.HasLen, 4)
	c.Assert(reqs[1], qt.DeepEquals, Request{Region: "cassette_5p", Anchor: iv(300, 400, feature.Plus), Neighbor: iv(100, 200, feature.Plus), Side: FivePrime, Inner: 50, Outer: 300})
	c.Assert(Regions(feature.MutuallyExclusiveExonType), qt.HasLen, 6)
	c.Assert(Regions(feature.RetainedIntronType), qt.DeepEquals, []string{"upstream_3p", "downstream_5p"})
}
