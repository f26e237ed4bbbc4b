//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() (err error) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if e := r.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// Open opens path for reading, decompressing according to its extension
// (.gz, .bgz, .zst or .lz4).
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc := &readCloser{Reader: f, closers: []io.Closer{f}}
	switch {
	case strings.HasSuffix(path, ".bgz"):
		br, err := bgzf.NewReader(f, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc.Reader = br
		rc.closers = append(rc.closers, br)
	case strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc.Reader = gr
		rc.closers = append(rc.closers, gr)
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc.Reader = zr
		rc.closers = append(rc.closers, closerFunc(zr.Close))
	case strings.HasSuffix(path, ".lz4"):
		rc.Reader = lz4.NewReader(f)
	}
	return rc, nil
}
