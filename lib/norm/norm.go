//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package norm normalizes IP matrices against input matrices.
package norm

import (
	"errors"
	"fmt"
	"math"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/profile"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gopkg.in/fatih/set.v0"
)

var (
	// ErrDegenerateMatrix is returned when a matrix has no positive value.
	ErrDegenerateMatrix = errors.New("Degenerate matrix")
	// ErrEmptyMatrix is returned when a matrix has no row.
	ErrEmptyMatrix = errors.New("Empty matrix")
)

type Method int

const (
	Density Method = iota
	Input
	PDF
	Subtract
	PerRegionSubtract
	Entropy
)

var methodNames = []string{"density", "input", "pdf", "subtract", "per_region_subtract", "entropy"}

func ParseMethod(raw string) (Method, error) {
	for i, n := range methodNames {
		if n == raw {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("Unknown normalization %q", raw)
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Normalize applies method to ip and input. Pseudocounts are the per-read
// contributions of each density track and are only used by Entropy.
func Normalize(ip, input *profile.Matrix, ipPseudocount, inputPseudocount float64, method Method) (*profile.Matrix, error) {
	switch method {
	case Density:
		return density(ip)
	case Input:
		return density(input)
	case PDF:
		return PDFMatrix(ip)
	case Subtract:
		return subtract(ip, input)
	case PerRegionSubtract:
		return perRegionSubtract(ip, input)
	case Entropy:
		return entropy(ip, input, ipPseudocount, inputPseudocount)
	}
	return nil, fmt.Errorf("Unknown normalization %s", method)
}

func checkMatrix(name string, m *profile.Matrix) error {
	if m == nil {
		return fmt.Errorf("%w: %s missing", ErrEmptyMatrix, name)
	}
	if rows, _ := m.Dims(); rows == 0 {
		return fmt.Errorf("%w: %s has no row", ErrEmptyMatrix, name)
	}
	return nil
}

func checkColumns(ip, input *profile.Matrix) error {
	_, c1 := ip.Dims()
	_, c2 := input.Dims()
	if c1 != c2 {
		return fmt.Errorf("IP has %d columns, input %d", c1, c2)
	}
	return nil
}

// density copies m, padding stays NaN.
func density(m *profile.Matrix) (*profile.Matrix, error) {
	if err := checkMatrix("matrix", m); err != nil {
		return nil, err
	}
	_, cols := m.Dims()
	values := m.Values()
	cells := m.Cells()
	for i, c := range cells {
		if c == profile.NotApplicable {
			values[i] = math.NaN()
		}
	}
	return profile.NewMatrix(m.Keys, cols, values, cells, m.Regions)
}

// MinPositive returns the smallest strictly positive value of m.
func MinPositive(m *profile.Matrix) (float64, error) {
	min := math.Inf(1)
	for _, v := range m.Values() {
		if v > 0 && v < min {
			min = v
		}
	}
	if math.IsInf(min, 1) {
		return 0, ErrDegenerateMatrix
	}
	return min, nil
}

// PDFMatrix adds the smallest positive value of m to every applicable cell
// and scales each row to sum to 1. Rows without applicable cell stay NaN.
func PDFMatrix(m *profile.Matrix) (*profile.Matrix, error) {
	if err := checkMatrix("matrix", m); err != nil {
		return nil, err
	}
	pseudo, err := MinPositive(m)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Dims()
	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		row := m.Row(i)
		for j, c := range m.RowCells(i) {
			if c == profile.NotApplicable {
				row[j] = math.NaN()
			}
		}
		floats.AddConst(pseudo, row)
		if sum := nanSum(row); sum > 0 {
			floats.Scale(1/sum, row)
		}
		values = append(values, row...)
	}
	return profile.NewMatrix(m.Keys, cols, values, m.Cells(), m.Regions)
}

// subtract returns one row, the column means of pdf(ip) minus the column
// means of pdf(input).
func subtract(ip, input *profile.Matrix) (*profile.Matrix, error) {
	pip, pin, err := pdfPair(ip, input)
	if err != nil {
		return nil, err
	}
	_, cols := pip.Dims()
	diff := make([]float64, cols)
	for j := range diff {
		diff[j] = nanMean(pip.Col(j)) - nanMean(pin.Col(j))
	}
	return profile.NewMatrix([]string{Subtract.String()}, cols, diff, nil, ip.Regions)
}

// perRegionSubtract subtracts pdf(input) from pdf(ip) row by row. Rows are
// matched by key; a row missing on one side is taken from the other side.
func perRegionSubtract(ip, input *profile.Matrix) (*profile.Matrix, error) {
	pip, pin, err := pdfPair(ip, input)
	if err != nil {
		return nil, err
	}
	keys := unionKeys(pip, pin)
	_, cols := pip.Dims()
	values := make([]float64, 0, len(keys)*cols)
	for _, k := range keys {
		rip, okIP := pip.Index(k)
		rin, okIn := pin.Index(k)
		var a, b []float64
		switch {
		case okIP && okIn:
			a, b = pip.Row(rip), pin.Row(rin)
		case okIP:
			a = pip.Row(rip)
			b = a
		default:
			b = pin.Row(rin)
			a = b
		}
		row := make([]float64, cols)
		floats.SubTo(row, a, b)
		values = append(values, row...)
	}
	return profile.NewMatrix(keys, cols, values, nil, ip.Regions)
}

// entropy returns p_ip*log2(p_ip/p_input) per cell, with p the read count
// plus one over the total read count estimated from the pseudocount.
func entropy(ip, input *profile.Matrix, ipPseudocount, inputPseudocount float64) (*profile.Matrix, error) {
	if err := checkMatrix("IP", ip); err != nil {
		return nil, err
	}
	if err := checkMatrix("input", input); err != nil {
		return nil, err
	}
	if err := checkColumns(ip, input); err != nil {
		return nil, err
	}
	if ipPseudocount <= 0 || inputPseudocount <= 0 {
		return nil, fmt.Errorf("Pseudocounts must be positive, got %g and %g", ipPseudocount, inputPseudocount)
	}
	rows, cols := ip.Dims()
	values := make([]float64, 0, rows*cols)
	for i, k := range ip.Keys {
		pip := probabilities(ip, i, ipPseudocount)
		var pin []float64
		if r, ok := input.Index(k); ok {
			pin = probabilities(input, r, inputPseudocount)
		} else {
			pin = make([]float64, cols)
			floats.AddConst(math.NaN(), pin)
		}
		for j := range pip {
			values = append(values, pip[j]*math.Log2(pip[j]/pin[j]))
		}
	}
	return profile.NewMatrix(ip.Keys, cols, values, nil, ip.Regions)
}

func probabilities(m *profile.Matrix, i int, pseudocount float64) []float64 {
	row := m.Row(i)
	total := 1e6 / pseudocount
	for j, c := range m.RowCells(i) {
		if c == profile.NotApplicable {
			row[j] = math.NaN()
			continue
		}
		row[j] = (row[j]/pseudocount + 1) / total
	}
	return row
}

func pdfPair(ip, input *profile.Matrix) (*profile.Matrix, *profile.Matrix, error) {
	if err := checkMatrix("IP", ip); err != nil {
		return nil, nil, err
	}
	if err := checkMatrix("input", input); err != nil {
		return nil, nil, err
	}
	if err := checkColumns(ip, input); err != nil {
		return nil, nil, err
	}
	pip, err := PDFMatrix(ip)
	if err != nil {
		return nil, nil, fmt.Errorf("IP: %w", err)
	}
	pin, err := PDFMatrix(input)
	if err != nil {
		return nil, nil, fmt.Errorf("Input: %w", err)
	}
	return pip, pin, nil
}

// unionKeys returns the keys of a then the keys only in b.
func unionKeys(a, b *profile.Matrix) []string {
	seen := set.New(set.NonThreadSafe)
	keys := make([]string, 0, len(a.Keys))
	for _, m := range []*profile.Matrix{a, b} {
		for _, k := range m.Keys {
			if !seen.Has(k) {
				seen.Add(k)
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func nanSum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

func nanMean(values []float64) float64 {
	clean := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	return stat.Mean(clean, nil)
}
