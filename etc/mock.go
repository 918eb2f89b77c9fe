//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// Package etc provides a synthetic input source for demos and tests:
// a reader that produces the rt-plot line protocol without a device on
// the other end.
package etc

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"
)

// NewMockSource returns a reader that emits one line every period: a
// millisecond timestamp and, per channel, a slow parabola with a sine
// ripple and a little noise, so both the scope trace and all three fit
// degrees have something meaningful to chew on. Closing the reader
// stops the generator.
func NewMockSource(channels int, period time.Duration) io.ReadCloser {
	if channels < 1 || period <= 0 {
		panic("bad mock source parameters")
	}

	pr, pw := io.Pipe()
	go func() {
		start := time.Now()
		for n := 0; ; n++ {
			t := time.Duration(n) * period
			line := fmt.Sprintf("%d", t.Milliseconds())
			for c := 0; c < channels; c++ {
				s := t.Seconds() + float64(c)
				v := 100*s + 2*s*s + 40*math.Sin(2*math.Pi*s/5) + 4*rand.NormFloat64()
				line += fmt.Sprintf(" %d", int64(v))
			}
			if _, err := fmt.Fprintln(pw, line); err != nil {
				return
			}
			time.Sleep(time.Until(start.Add(time.Duration(n+1) * period)))
		}
	}()
	return pr
}

// MockLines renders n deterministic protocol lines of a pure quadratic
// y = a t² (one shared value across channels), for tests that need a
// known curve rather than a live stream.
func MockLines(channels, n int, a float64) string {
	out := ""
	for i := 0; i < n; i++ {
		out += fmt.Sprintf("%d", i)
		for c := 0; c < channels; c++ {
			out += fmt.Sprintf(" %d", int64(a*float64(i*i)))
		}
		out += "\n"
	}
	return out
}
