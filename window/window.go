//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// Package window maps display and fit requests onto concrete snapshot
// queries against the ring store, and decimates oversized results for
// rendering. Fit inputs are never decimated; every retained point in
// the requested interval participates in a fit.
package window

import (
	"github.com/cyanic-selkie/rt-plot/datastruct"
)

// Request selects a window either by a closed time interval or by the
// last N points. The zero Request selects nothing; use Range or LastN.
type Request struct {
	byCount bool
	t0, t1  int64
	n       int
}

// Range selects all points with t0 <= t <= t1.
func Range(t0, t1 int64) Request {
	return Request{t0: t0, t1: t1}
}

// LastN selects the newest n points, the live-scrolling case.
func LastN(n int) Request {
	return Request{byCount: true, n: n}
}

// Snapshot resolves the request against the store for one channel.
func (r Request) Snapshot(s *datastruct.RingStore, channel int) ([]datastruct.Point, error) {
	if r.byCount {
		return s.Latest(channel, r.n)
	}
	return s.Snapshot(channel, r.t0, r.t1)
}

// Decimate reduces pts to at most budget points by stride selection,
// keeping every k-th point. It returns pts untouched when it already
// fits the budget; the result always retains the first point of the
// window so a shrinking budget never makes the trace's origin jump.
// Display-only: never feed the output of Decimate to a fit.
func Decimate(pts []datastruct.Point, budget int) []datastruct.Point {
	if budget <= 0 || len(pts) <= budget {
		return pts
	}
	stride := (len(pts) + budget - 1) / budget
	out := make([]datastruct.Point, 0, budget)
	for i := 0; i < len(pts); i += stride {
		out = append(out, pts[i])
	}
	return out
}
