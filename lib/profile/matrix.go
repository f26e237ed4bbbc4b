//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Cell is the state of one matrix value.
type Cell uint8

const (
	// Measured cells hold signal.
	Measured Cell = iota
	// ZeroGap cells had no data inside the sampled region; their value is 0.
	ZeroGap
	// NotApplicable cells are padding or unknown chromosomes; their value is NaN.
	NotApplicable
)

func (c Cell) String() string {
	switch c {
	case Measured:
		return "measured"
	case ZeroGap:
		return "gap"
	case NotApplicable:
		return "na"
	}
	return "unknown"
}

// Region is a named block of columns.
type Region struct {
	Name   string
	Offset int
	Width  int
}

// Matrix is an event-by-position table keyed by row (annotation line).
// It is not modified once built.
type Matrix struct {
	Keys    []string
	Regions []Region

	rows, cols int
	values     *mat.Dense
	cells      []Cell
	index      map[string]int
}

// NewMatrix builds a matrix from row-major values and cell states. A nil
// cells slice marks NaN values NotApplicable and others Measured. Regions
// default to one region spanning all columns.
func NewMatrix(keys []string, cols int, values []float64, cells []Cell, regions []Region) (*Matrix, error) {
	rows := len(keys)
	if cols <= 0 {
		return nil, fmt.Errorf("Matrix needs at least one column")
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("Matrix %dx%d needs %d values, got %d", rows, cols, rows*cols, len(values))
	}
	if cells == nil {
		cells = make([]Cell, len(values))
		for i, v := range values {
			if math.IsNaN(v) {
				cells[i] = NotApplicable
			}
		}
	} else if len(cells) != len(values) {
		return nil, fmt.Errorf("Matrix %dx%d needs %d cells, got %d", rows, cols, rows*cols, len(cells))
	}
	if regions == nil {
		regions = []Region{{Name: "all", Offset: 0, Width: cols}}
	}
	var width int
	for _, r := range regions {
		if r.Offset != width {
			return nil, fmt.Errorf("Region %s starts at %d, expected %d", r.Name, r.Offset, width)
		}
		width += r.Width
	}
	if width != cols {
		return nil, fmt.Errorf("Regions span %d columns, expected %d", width, cols)
	}
	m := &Matrix{Keys: keys, Regions: regions, rows: rows, cols: cols, cells: cells, index: make(map[string]int, rows)}
	for i, k := range keys {
		if _, ok := m.index[k]; ok {
			return nil, fmt.Errorf("Duplicate row key %q", k)
		}
		m.index[k] = i
	}
	if rows > 0 {
		m.values = mat.NewDense(rows, cols, values)
	}
	return m, nil
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (int, int) {
	return m.rows, m.cols
}

func (m *Matrix) At(i, j int) float64 {
	return m.values.At(i, j)
}

func (m *Matrix) Cell(i, j int) Cell {
	return m.cells[i*m.cols+j]
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.values)
}

// RowCells returns the cell states of row i. The slice must not be modified.
func (m *Matrix) RowCells(i int) []Cell {
	return m.cells[i*m.cols : (i+1)*m.cols]
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	if m.rows == 0 {
		return nil
	}
	return mat.Col(nil, j, m.values)
}

// Index returns the row of key.
func (m *Matrix) Index(key string) (int, bool) {
	i, ok := m.index[key]
	return i, ok
}

// Dense returns the underlying values, nil for a matrix without rows.
func (m *Matrix) Dense() *mat.Dense {
	return m.values
}

// Region returns the sub-matrix of columns belonging to region name.
func (m *Matrix) Region(name string) (*Matrix, error) {
	for _, r := range m.Regions {
		if r.Name != name {
			continue
		}
		values := make([]float64, 0, m.rows*r.Width)
		cells := make([]Cell, 0, m.rows*r.Width)
		for i := 0; i < m.rows; i++ {
			values = append(values, m.values.RawRowView(i)[r.Offset:r.Offset+r.Width]...)
			cells = append(cells, m.RowCells(i)[r.Offset:r.Offset+r.Width]...)
		}
		return NewMatrix(m.Keys, r.Width, values, cells, []Region{{Name: r.Name, Width: r.Width}})
	}
	return nil, fmt.Errorf("Unknown region %q", name)
}

// Values returns a row-major copy of all values.
func (m *Matrix) Values() []float64 {
	values := make([]float64, 0, m.rows*m.cols)
	for i := 0; i < m.rows; i++ {
		values = append(values, m.values.RawRowView(i)...)
	}
	return values
}

// Cells returns a copy of all cell states.
func (m *Matrix) Cells() []Cell {
	return append([]Cell(nil), m.cells...)
}
