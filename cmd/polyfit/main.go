//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// polyfit fits a polynomial to one channel of a recorded session file
// (the same line protocol rt-plot ingests live) and prints the
// coefficients with their standard errors.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cyanic-selkie/rt-plot/datastruct"
	"github.com/cyanic-selkie/rt-plot/fit"
	"github.com/cyanic-selkie/rt-plot/stream"
	"github.com/cyanic-selkie/rt-plot/window"
)

var (
	file      *string = flag.String("file", "", "the recorded session file to fit")
	channel   *int    = flag.Int("channel", 0, "the channel to fit")
	degree    *int    = flag.Int("degree", 1, "polynomial degree: 0, 1 or 2")
	t0        *int64  = flag.Int64("t0", 0, "window start (default: full range)")
	t1        *int64  = flag.Int64("t1", 0, "window end (default: full range)")
	lastN     *int    = flag.Int("lastN", 0, "fit the newest N points instead of a time window")
	canonical *bool   = flag.Bool("canonical", false, "also print raw-axis coefficients")
)

func main() {
	flag.Parse()
	if *file == "" {
		log.Fatalf("no input file given")
	}
	if *degree < 0 || *degree > 2 {
		log.Fatalf("unsupported degree: %d", *degree)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("could not open input: %v", err)
	}
	defer f.Close()

	session := stream.NewSession(nil)
	if err := session.Run(f); err != nil {
		log.Fatalf("could not ingest %s: %v", *file, err)
	}
	store := session.Store()
	if store == nil {
		log.Fatalf("%s holds no parseable samples", *file)
	}
	if n := session.ParseErrors(); n > 0 {
		log.Printf("%d lines rejected", n)
	}

	req := fullRange(store)
	if *lastN > 0 {
		req = window.LastN(*lastN)
	} else if *t0 != 0 || *t1 != 0 {
		req = window.Range(*t0, *t1)
	}

	pts, err := req.Snapshot(store, *channel)
	if err != nil {
		log.Fatalf("could not select window: %v", err)
	}

	r, err := fit.Fit(pts, fit.Degree(*degree))
	if err != nil {
		log.Fatalf("fit failed: %v", err)
	}

	fmt.Printf("%s fit of %d points, t centered on %g (scale %g)\n", r.Degree, r.N, r.Mean, r.Scale)
	for k := range r.Coeffs {
		fmt.Printf("  c%d = %s\n", k, fit.FormatMeasurement(r.Coeffs[k], r.Errors[k]))
	}
	fmt.Printf("  %s\n", r.Label())

	if *canonical {
		coeffs, errs := r.Canonical()
		fmt.Printf("canonical (raw t axis):\n")
		for k := range coeffs {
			fmt.Printf("  b%d = %s\n", k, fit.FormatMeasurement(coeffs[k], errs[k]))
		}
	}
}

func fullRange(store *datastruct.RingStore) window.Request {
	lo, hi, ok := store.Span()
	if !ok {
		return window.Range(0, 0)
	}
	return window.Range(lo, hi)
}
