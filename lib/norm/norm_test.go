//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package norm

import (
	"errors"
	"math"
	"testing"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/profile"

	qt "github.com/frankban/quicktest"
)

var nan = math.NaN()

func newMatrix(c *qt.C, keys []string, cols int, values ...float64) *profile.Matrix {
	m, err := profile.NewMatrix(keys, cols, values, nil, nil)
	c.Assert(err, qt.IsNil)
	return m
}

func sameFloats(c *qt.C, got, want []float64) {
	c.Assert(got, qt.HasLen, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			c.Assert(math.IsNaN(got[i]), qt.IsTrue, qt.Commentf("index %d", i))
		} else {
			c.Assert(math.Abs(got[i]-want[i]) < 1e-12, qt.IsTrue, qt.Commentf("index %d: %g != %g", i, got[i], want[i]))
		}
	}
}

func TestParseMethod(t *testing.T) {
	c := qt.New(t)
	for _, m := range []Method{Density, Input, PDF, Subtract, PerRegionSubtract, Entropy} {
		p, err := ParseMethod(m.String())
		c.Assert(err, qt.IsNil)
		c.Assert(p, qt.Equals, m)
	}
	_, err := ParseMethod("zscore")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestDensityIdempotent(t *testing.T) {
	c := qt.New(t)
	ip := newMatrix(c, []string{"a", "b"}, 3, 1, nan, 0, 2, 3, 4)
	d1, err := Normalize(ip, nil, 1, 1, Density)
	c.Assert(err, qt.IsNil)
	d2, err := Normalize(d1, nil, 1, 1, Density)
	c.Assert(err, qt.IsNil)
	sameFloats(c, d2.Values(), d1.Values())
	sameFloats(c, d1.Values(), ip.Values())
	c.Assert(d2.Keys, qt.DeepEquals, ip.Keys)
}

func TestInput(t *testing.T) {
	c := qt.New(t)
	input := newMatrix(c, []string{"a"}, 2, 5, 6)
	m, err := Normalize(nil, input, 1, 1, Input)
	c.Assert(err, qt.IsNil)
	sameFloats(c, m.Values(), []float64{5, 6})
}

func TestPDF(t *testing.T) {
	c := qt.New(t)
	ip := newMatrix(c, []string{"a", "b", "c"}, 4,
		0, 1, 2, nan,
		0.5, 0, 0, 0,
		nan, nan, nan, nan)
	m, err := Normalize(ip, nil, 1, 1, PDF)
	c.Assert(err, qt.IsNil)
	for i := 0; i < 2; i++ {
		var sum float64
		for _, v := range m.Row(i) {
			if !math.IsNaN(v) {
				c.Assert(v >= 0, qt.IsTrue)
				sum += v
			}
		}
		c.Assert(math.Abs(sum-1) < 1e-12, qt.IsTrue)
	}
	// Pseudocount is 0.5
	sameFloats(c, m.Row(0), []float64{0.5 / 4.5, 1.5 / 4.5, 2.5 / 4.5, nan})
	sameFloats(c, m.Row(2), []float64{nan, nan, nan, nan})
	c.Assert(m.Cell(0, 3), qt.Equals, profile.NotApplicable)
}

func TestPDFDegenerate(t *testing.T) {
	c := qt.New(t)
	ip := newMatrix(c, []string{"a"}, 3, 0, nan, 0)
	_, err := Normalize(ip, nil, 1, 1, PDF)
	c.Assert(errors.Is(err, ErrDegenerateMatrix), qt.IsTrue)
	ip = newMatrix(c, []string{"a"}, 2, 1, 1)
	input := newMatrix(c, []string{"a"}, 2, 0, 0)
	_, err = Normalize(ip, input, 1, 1, Subtract)
	c.Assert(errors.Is(err, ErrDegenerateMatrix), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "Input: .*")
}

func TestEmpty(t *testing.T) {
	c := qt.New(t)
	empty, err := profile.NewMatrix(nil, 3, nil, nil, nil)
	c.Assert(err, qt.IsNil)
	for _, m := range []Method{Density, PDF, Subtract, PerRegionSubtract, Entropy} {
		_, err := Normalize(empty, empty, 1, 1, m)
		c.Assert(errors.Is(err, ErrEmptyMatrix), qt.IsTrue, qt.Commentf("%s", m))
	}
	_, err = Normalize(nil, nil, 1, 1, Input)
	c.Assert(errors.Is(err, ErrEmptyMatrix), qt.IsTrue)
}

func TestSubtract(t *testing.T) {
	c := qt.New(t)
	ip := newMatrix(c, []string{"a", "b"}, 2, 1, 1, 3, 1)
	input := newMatrix(c, []string{"a"}, 2, 1, 1)
	m, err := Normalize(ip, input, 1, 1, Subtract)
	c.Assert(err, qt.IsNil)
	rows, cols := m.Dims()
	c.Assert(rows, qt.Equals, 1)
	c.Assert(cols, qt.Equals, 2)
	// pdf(ip) rows: (2/4, 2/4) and (4/6, 2/6)
	mean0 := (0.5 + 4./6) / 2
	sameFloats(c, m.Row(0), []float64{mean0 - 0.5, (1 - mean0) - 0.5})
}

func TestPerRegionSubtract(t *testing.T) {
	c := qt.New(t)
	ip := newMatrix(c, []string{"a", "b", "u"}, 2, 1, 3, 1, 1, nan, nan)
	input := newMatrix(c, []string{"a", "c", "u"}, 2, 1, 1, 2, 2, nan, nan)
	m, err := Normalize(ip, input, 1, 1, PerRegionSubtract)
	c.Assert(err, qt.IsNil)
	c.Assert(m.Keys, qt.DeepEquals, []string{"a", "b", "u", "c"})
	sameFloats(c, m.Row(0), []float64{1./3 - 0.5, 2./3 - 0.5})
	sameFloats(c, m.Row(1), []float64{0, 0})
	sameFloats(c, m.Row(2), []float64{nan, nan})
	sameFloats(c, m.Row(3), []float64{0, 0})
	_, err = Normalize(ip, newMatrix(c, []string{"a"}, 1, 1), 1, 1, PerRegionSubtract)
	c.Assert(err, qt.ErrorMatches, "IP has 2 columns, input 1")
}

func TestEntropy(t *testing.T) {
	c := qt.New(t)
	ip := newMatrix(c, []string{"a", "b"}, 2, 0, 1, nan, 2)
	input := newMatrix(c, []string{"a"}, 2, 0, 0.5)
	m, err := Normalize(ip, input, 0.5, 0.25, Entropy)
	c.Assert(err, qt.IsNil)
	pIP := (0/0.5 + 1) / (1e6 / 0.5)
	pIn := (0/0.25 + 1) / (1e6 / 0.25)
	want0 := pIP * math.Log2(pIP/pIn)
	pIP = (1/0.5 + 1) / (1e6 / 0.5)
	pIn = (0.5/0.25 + 1) / (1e6 / 0.25)
	want1 := pIP * math.Log2(pIP/pIn)
	sameFloats(c, m.Row(0), []float64{want0, want1})
	// Missing input row
	sameFloats(c, m.Row(1), []float64{nan, nan})
	_, err = Normalize(ip, input, 0, 1, Entropy)
	c.Assert(err, qt.Not(qt.IsNil))
}
