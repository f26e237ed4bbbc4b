//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/profile"
)

type ConditionReport struct {
	Name          string         `json:"name"`
	Path          string         `json:"path"`
	Normalization string         `json:"normalization"`
	IP            *profile.Stats `json:"ip,omitempty"`
	Input         *profile.Stats `json:"input,omitempty"`
	Rows          int            `json:"rows"`
	Regions       []string       `json:"regions,omitempty"`
	Error         string         `json:"error,omitempty"`
}

func WriteReport(pathReport string, reports []ConditionReport) (err error) {
	report, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			if _, err := f.Write(report); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}
	} else {
		fmt.Println(string(report))
	}
	return nil
}
