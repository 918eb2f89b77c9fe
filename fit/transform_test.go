//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package fit

import (
	"math"
	"testing"

	"github.com/cyanic-selkie/rt-plot/datastruct"
)

func TestCanonical__Linear(t *testing.T) {
	// y = 2t over t in [0, 2]: canonical intercept 0, slope 2
	pts := pointsOf([]int64{0, 1, 2}, []float64{0, 2, 4})
	r, err := Fit(pts, Linear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	coeffs, errs := r.Canonical()
	if !approx(coeffs[0], 0, tolerance) || !approx(coeffs[1], 2, tolerance) {
		t.Errorf("wrong canonical coefficients: %v", coeffs)
	}
	if !approx(errs[0], 0, tolerance) || !approx(errs[1], 0, tolerance) {
		t.Errorf("wrong canonical errors: %v", errs)
	}
}

func TestCanonical__EvalAgrees(t *testing.T) {
	// the canonical polynomial and the centered one are the same curve
	pts := pointsOf([]int64{10, 11, 13, 14, 17}, []float64{3, 1, 4, 1, 5})
	for _, degree := range []Degree{Constant, Linear, Quadratic} {
		r, err := Fit(pts, degree)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", degree, err)
		}
		coeffs, _ := r.Canonical()
		for _, p := range pts {
			raw := 0.0
			for k := len(coeffs) - 1; k >= 0; k-- {
				raw = raw*float64(p.T) + coeffs[k]
			}
			if !approx(raw, r.Eval(float64(p.T)), 1e-6) {
				t.Errorf("%s: canonical disagrees at t=%d: %v vs %v", degree, p.T, raw, r.Eval(float64(p.T)))
			}
		}
	}
}

func TestDerived__Linear(t *testing.T) {
	// y = 2t - 4: root at t = 2, slope 2
	pts := pointsOf([]int64{0, 1, 2, 3}, []float64{-4, -2, 0, 2})
	r, err := Fit(pts, Linear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals, errs := r.Derived()
	if !approx(vals[0], 2, tolerance) || !approx(vals[1], 2, tolerance) {
		t.Errorf("wrong derived values: %v", vals)
	}
	if !approx(errs[1], 0, tolerance) {
		t.Errorf("wrong derived errors: %v", errs)
	}
}

func TestDerived__QuadraticVertex(t *testing.T) {
	// y = (t - 3)^2 + 1: vertex value 1, b/(2a) = -3, curvature 2
	var ts []int64
	var ys []float64
	for i := int64(0); i <= 6; i++ {
		ts = append(ts, i)
		ys = append(ys, float64((i-3)*(i-3)+1))
	}
	r, err := Fit(pointsOf(ts, ys), Quadratic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals, _ := r.Derived()
	if !approx(vals[0], 1, 1e-6) {
		t.Errorf("wrong vertex value: %v", vals[0])
	}
	if !approx(vals[1], -3, 1e-6) {
		t.Errorf("wrong vertex term: %v", vals[1])
	}
	if !approx(vals[2], 2, 1e-6) {
		t.Errorf("wrong curvature: %v", vals[2])
	}
}

func TestFormatMeasurement__Digits(t *testing.T) {
	cases := []struct {
		value, err float64
		want       string
	}{
		{1.23456, 0.0123, "1.235 ± 0.012"},
		{12.3, 5, "12.3 ± 5.0"},
		{-0.5, 0.004, "-0.500 ± 0.004"},
	}
	for _, c := range cases {
		if got := FormatMeasurement(c.value, c.err); got != c.want {
			t.Errorf("FormatMeasurement(%v, %v) = %q, want %q", c.value, c.err, got, c.want)
		}
	}
}

func TestFormatMeasurement__ZeroError(t *testing.T) {
	got := FormatMeasurement(2, 0)
	if got != "2 ± 0" {
		t.Errorf("unexpected rendering: %q", got)
	}
	if s := FormatMeasurement(2, math.NaN()); s == "" {
		t.Errorf("NaN error should still render")
	}
}

func TestLabel__PerDegree(t *testing.T) {
	pts := []datastruct.Point{{T: 0, Y: 0}, {T: 1, Y: 2}, {T: 2, Y: 4}, {T: 3, Y: 6}}
	for _, degree := range []Degree{Constant, Linear, Quadratic} {
		r, err := Fit(pts, degree)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", degree, err)
		}
		if r.Label() == "" {
			t.Errorf("%s: empty label", degree)
		}
	}
}
