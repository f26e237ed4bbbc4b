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
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"io"
	"os"
	"strconv"
	"strings"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"

	"github.com/pierrec/lz4"
)

const binaryVersion uint8 = 1

type genericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing with the compression named after "+"
// in format, and returns the base format.
func openOutput(path, format string, appendOutput bool) (f *os.File, w genericWriter, base string, err error) {
	var zip string
	base = format
	if strings.Contains(format, "+") {
		doubleFormat := strings.SplitN(format, "+", 2)
		base, zip = doubleFormat[0], doubleFormat[1]
	}
	// Append or Create flag
	var fg int
	if appendOutput {
		fg = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	} else {
		fg = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	if f, err = os.OpenFile(path, fg, 0666); err != nil {
		return nil, nil, "", err
	}
	switch zip {
	case "lz4":
		w = lz4.NewWriter(f)
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		w = lzWriter
	case "":
		w = nopCloser{f}
	default:
		f.Close()
		return nil, nil, "", fmt.Errorf("Unknown compression %s", zip)
	}
	return f, w, base, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteMatrix writes m to path in format csv or binary, optionally followed
// by +lz4 or +lz4hc. Row keys are renamed with mapping when not empty.
func WriteMatrix(m *Matrix, path, format string, mapping map[string]string, appendOutput bool) error {
	f, writer, base, err := openOutput(path, format, appendOutput)
	if err != nil {
		return err
	}
	switch base {
	case "csv":
		err = writeCSV(writer, m, mapping)
	case "binary":
		err = writeBinary(writer, m)
	default:
		err = fmt.Errorf("Unknown matrix format %s", base)
	}
	if cerr := writer.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeCSV(w io.Writer, m *Matrix, mapping map[string]string) error {
	bw := bufio.NewWriter(w)
	rows, cols := m.Dims()
	// Header
	bw.WriteString("\"name\",\"length\"")
	for _, r := range m.Regions {
		for j := 0; j < r.Width; j++ {
			fmt.Fprintf(bw, ",\"%s_%d\"", r.Name, j)
		}
	}
	bw.WriteString("\n")
	for i := 0; i < rows; i++ {
		name := m.Keys[i]
		if len(mapping) > 0 {
			name = feature.MapName(name, mapping)
		}
		bw.WriteString(strconv.Quote(name))
		fmt.Fprintf(bw, ",%d", cols)
		for _, v := range m.values.RawRowView(i) {
			bw.WriteString(",")
			bw.WriteString(formatFloat(v))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// writeBinary writes version, rows, cols, the adler32 checksum of the row
// keys and the values as little-endian float32.
func writeBinary(w io.Writer, m *Matrix) error {
	rows, cols := m.Dims()
	if err := binary.Write(w, binary.LittleEndian, binaryVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, [2]uint32{uint32(rows), uint32(cols)}); err != nil {
		return err
	}
	bufChecksum := new(bytes.Buffer)
	for _, k := range m.Keys {
		bufChecksum.WriteString(k)
		bufChecksum.WriteByte('\n')
	}
	if err := binary.Write(w, binary.LittleEndian, adler32.Checksum(bufChecksum.Bytes())); err != nil {
		return err
	}
	profile := make([]float32, cols)
	for i := 0; i < rows; i++ {
		for j, v := range m.values.RawRowView(i) {
			profile[j] = float32(v)
		}
		if err := binary.Write(w, binary.LittleEndian, profile); err != nil {
			return err
		}
	}
	return nil
}

// WriteVector writes one value per line, as used for mean and SEM vectors.
func WriteVector(path, format string, values []float64, appendOutput bool) error {
	f, writer, base, err := openOutput(path, format, appendOutput)
	if err != nil {
		return err
	}
	if base != "txt" {
		err = fmt.Errorf("Unknown vector format %s", base)
	} else {
		bw := bufio.NewWriter(writer)
		for _, v := range values {
			bw.WriteString(formatFloat(v))
			bw.WriteString("\n")
		}
		err = bw.Flush()
	}
	if cerr := writer.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
