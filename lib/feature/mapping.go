//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"bufio"
	"fmt"
	"strings"
)

// OpenMapping reads a two column tabulated file mapping event keys (first
// column) to output names (second column).
func OpenMapping(mpath string) (map[string]string, error) {
	m := make(map[string]string)

	mfos, err := Open(mpath)
	if err != nil {
		return m, err
	}
	defer mfos.Close()

	tscanner := bufio.NewScanner(mfos)
	iline := 0
	for tscanner.Scan() {
		iline++
		if Comment(tscanner.Text()) {
			continue
		}
		fields := strings.Split(tscanner.Text(), "\t")
		if len(fields) < 2 {
			return m, fmt.Errorf("Mapping %s line %d: expected 2 columns", mpath, iline)
		}
		m[fields[0]] = fields[1]
	}
	if err := tscanner.Err(); err != nil {
		return m, err
	}
	return m, nil
}

// MapName returns the mapped name of name, trying the whole name then its
// first tab-separated field (event ID of MISO and rMATS lines).
func MapName(name string, m map[string]string) string {
	if nn, ok := m[name]; ok {
		return nn
	}
	if i := strings.IndexByte(name, '\t'); i > 0 {
		if nn, ok := m[name[:i]]; ok {
			return nn
		}
	}
	return name
}
