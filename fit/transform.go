//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package fit

import (
	"fmt"
	"math"
)

// ----------------------------------------------------------------- //
// Coefficient transforms
// ----------------------------------------------------------------- //

// Canonical re-expresses the fit on the raw time axis, returning
// coefficients b with y ≈ Σ b_k t^k and their standard errors.
//
// Substituting u = (t - m)/s into the centered polynomial gives
//
//	b2 = c2/s²
//	b1 = c1/s - 2 c2 m/s²
//	b0 = c0 - c1 m/s + c2 m²/s²
//
// Errors are propagated term-wise from the centered standard errors;
// coefficient covariances are ignored, matching how the display layer
// has always reported them. Canonical coefficients of high-magnitude
// timestamps involve cancellations the centered form avoids, which is
// why the centered form is the default everywhere else.
func (r *Result) Canonical() (coeffs, errs []float64) {
	var (
		m = r.Mean
		s = r.Scale
	)

	switch r.Degree {
	case Constant:
		return []float64{r.Coeffs[0]}, []float64{r.Errors[0]}

	case Linear:
		c0, c1 := r.Coeffs[0], r.Coeffs[1]
		e0, e1 := r.Errors[0], r.Errors[1]
		coeffs = []float64{c0 - c1*m/s, c1 / s}
		errs = []float64{
			math.Hypot(e0, m/s*e1),
			e1 / s,
		}
		return coeffs, errs

	case Quadratic:
		c0, c1, c2 := r.Coeffs[0], r.Coeffs[1], r.Coeffs[2]
		e0, e1, e2 := r.Errors[0], r.Errors[1], r.Errors[2]
		coeffs = []float64{
			c0 - c1*m/s + c2*m*m/(s*s),
			c1/s - 2*c2*m/(s*s),
			c2 / (s * s),
		}
		errs = []float64{
			math.Sqrt(e0*e0 + pow2(m/s*e1) + pow2(m*m/(s*s)*e2)),
			math.Hypot(e1/s, 2*m/(s*s)*e2),
			e2 / (s * s),
		}
		return coeffs, errs
	}

	panic(fmt.Sprintf("unsupported degree: %d", int(r.Degree)))
}

// Derived reports the fit in the root/vertex parametrization the
// on-screen labels use, computed from the canonical coefficients:
//
//	constant:  y = a                 -> {a}
//	linear:    k = slope, t0 = root  -> {t0, k}
//	quadratic: vertex form           -> {y_v, t_v', 2a}
//
// where the quadratic entries follow the classic completed square
// y_v = c - b²/(4a), t_v' = b/(2a) and the curvature 2a. Errors are
// again propagated term-wise. A zero leading coefficient yields
// infinities, as the algebra says it must; callers render those as-is.
func (r *Result) Derived() (vals, errs []float64) {
	coeffs, cerrs := r.Canonical()

	switch r.Degree {
	case Constant:
		return coeffs, cerrs

	case Linear:
		b, a := coeffs[0], coeffs[1]
		eb, ea := cerrs[0], cerrs[1]
		return []float64{-b / a, a}, []float64{math.Abs(eb / a), math.Abs(ea)}

	case Quadratic:
		c, b, a := coeffs[0], coeffs[1], coeffs[2]
		ec, eb, ea := cerrs[0], cerrs[1], cerrs[2]
		vals = []float64{
			c - b*b/(4*a),
			b / (2 * a),
			2 * a,
		}
		errs = []float64{
			math.Sqrt(pow2(pow2(b/a))/16*ea*ea + pow2(b/a)/4*eb*eb + ec*ec),
			math.Sqrt(pow2(b/a)/(4*a*a)*ea*ea + eb*eb/(4*a*a)),
			2 * ea,
		}
		return vals, errs
	}

	panic(fmt.Sprintf("unsupported degree: %d", int(r.Degree)))
}

func pow2(x float64) float64 {
	return x * x
}
