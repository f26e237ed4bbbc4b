//
// Copyright (C) 2026 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package window

import (
	"fmt"

	"git.sr.ht/~vejnar/SpliceAbacus/lib/feature"
)

// Request describes one window of an event.
type Request struct {
	Region   string
	Anchor   feature.Interval
	Neighbor feature.Interval
	Side     Side
	Inner    int
	Outer    int
}

// Window computes the window of the request.
func (r Request) Window() (Window, error) {
	if r.Side == FivePrime {
		return FivePrimeSite(r.Neighbor, r.Anchor, r.Inner, r.Outer)
	}
	return ThreePrimeSite(r.Neighbor, r.Anchor, r.Inner, r.Outer)
}

type site struct {
	region           string
	anchor, neighbor int
	side             Side
}

// Sites per event type, indexing Event.Intervals().
var layouts = map[feature.EventType][]site{
	feature.SkippedExonType: {
		{"upstream_3p", 0, 1, ThreePrime},
		{"cassette_5p", 1, 0, FivePrime},
		{"cassette_3p", 1, 2, ThreePrime},
		{"downstream_5p", 2, 1, FivePrime},
	},
	feature.Alt3pSiteType: {
		{"upstream_3p", 0, 1, ThreePrime},
		{"splice1_5p", 1, 0, FivePrime},
		{"splice2_5p", 2, 0, FivePrime},
	},
	feature.Alt5pSiteType: {
		{"splice1_3p", 0, 2, ThreePrime},
		{"splice2_3p", 1, 2, ThreePrime},
		{"downstream_5p", 2, 0, FivePrime},
	},
	feature.RetainedIntronType: {
		{"upstream_3p", 0, 1, ThreePrime},
		{"downstream_5p", 1, 0, FivePrime},
	},
	feature.MutuallyExclusiveExonType: {
		{"upstream_3p", 0, 1, ThreePrime},
		{"mxe1_5p", 1, 0, FivePrime},
		{"mxe1_3p", 1, 2, ThreePrime},
		{"mxe2_5p", 2, 1, FivePrime},
		{"mxe2_3p", 2, 3, ThreePrime},
		{"downstream_5p", 3, 2, FivePrime},
	},
}

// Regions returns the region names of event type t, in row order.
func Regions(t feature.EventType) []string {
	var names []string
	for _, s := range layouts[t] {
		names = append(names, s.region)
	}
	return names
}

// Requests returns the window requests of ev, in row order.
func Requests(ev feature.Event, inner, outer int) ([]Request, error) {
	sites, ok := layouts[ev.Type()]
	if !ok {
		return nil, fmt.Errorf("Unknown event type %s", ev.Type())
	}
	ivs := ev.Intervals()
	reqs := make([]Request, len(sites))
	for i, s := range sites {
		reqs[i] = Request{Region: s.region, Anchor: ivs[s.anchor], Neighbor: ivs[s.neighbor], Side: s.side, Inner: inner, Outer: outer}
	}
	return reqs, nil
}
