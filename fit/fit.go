//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// Package fit computes least-squares polynomial fits of degree 0, 1 or
// 2 over a window of (t, y) points, together with standard-error
// estimates for every coefficient.
//
// All fitting happens in a centered time basis: the window's mean
// timestamp is subtracted, and for quadratic fits the centered axis is
// additionally divided by its sample standard deviation. Raw timestamps
// are typically large (milliseconds since an arbitrary epoch) with tiny
// relative variation across a window, and a Vandermonde design matrix
// in raw t is catastrophically ill-conditioned at degree 2. Centering
// and scaling keep the design columns at comparable magnitude.
//
// Coefficients are therefore reported in the centered basis. This is
// deliberate and load-bearing: the constant term is the fitted value at
// the window's mean time, which is the numerically meaningful quantity,
// and the display layer depends on this parametrization. Use
// Result.Canonical for coefficients on the raw time axis.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cyanic-selkie/rt-plot/datastruct"
)

// ----------------------------------------------------------------- //
// Types
// ----------------------------------------------------------------- //

// Degree selects the polynomial degree of a fit.
type Degree int

const (
	Constant Degree = iota
	Linear
	Quadratic
)

func (d Degree) String() string {
	switch d {
	case Constant:
		return "constant"
	case Linear:
		return "linear"
	case Quadratic:
		return "quadratic"
	}
	return fmt.Sprintf("degree(%d)", int(d))
}

// Terms returns the number of fitted coefficients, d+1.
func (d Degree) Terms() int {
	return int(d) + 1
}

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrDegenerateWindow   = errors.New("degenerate window")
)

// Result is an immutable fit outcome.
//
// Coeffs[k] is the coefficient of u^k where u = (t - Mean) / Scale, and
// Errors[k] is its standard error. Scale is 1 except for quadratic
// fits, where it is the sample standard deviation of the centered
// timestamps.
type Result struct {
	Degree Degree
	Coeffs []float64
	Errors []float64
	Mean   float64
	Scale  float64
	N      int
	RSS    float64
}

// ----------------------------------------------------------------- //
// Fitting
// ----------------------------------------------------------------- //

// Fit computes the ordinary least-squares polynomial of the requested
// degree over the window. It fails with ErrInsufficientPoints when the
// window holds fewer than degree+1 points and with ErrDegenerateWindow
// when the timestamps carry no spread at degree >= 1 (or the design is
// otherwise rank-deficient).
//
// Exactly degree+1 points interpolate the data: RSS is zero and every
// standard error is exactly zero, never a division-by-zero fault.
//
// Constant and linear fits use the closed forms, which the centered
// basis makes exact (the centered normal equations are diagonal).
// Quadratic fits go through a QR factorization of the design matrix;
// forming the normal equations explicitly would square the condition
// number.
func Fit(points []datastruct.Point, degree Degree) (*Result, error) {
	n := len(points)
	if n < degree.Terms() {
		return nil, fmt.Errorf("%w: %d points for a %s fit", ErrInsufficientPoints, n, degree)
	}

	ts := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		ts[i] = float64(p.T)
		ys[i] = p.Y
	}

	mean := 0.0
	for _, t := range ts {
		mean += t
	}
	mean /= float64(n)

	switch degree {
	case Constant:
		return fitConstant(ys, mean)
	case Linear:
		return fitLinear(ts, ys, mean)
	case Quadratic:
		return fitQuadratic(ts, ys, mean)
	}
	return nil, fmt.Errorf("unsupported degree: %d", int(degree))
}

// Eval evaluates the fitted polynomial at a raw timestamp.
func (r *Result) Eval(t float64) float64 {
	u := (t - r.Mean) / r.Scale
	y := 0.0
	for k := len(r.Coeffs) - 1; k >= 0; k-- {
		y = y*u + r.Coeffs[k]
	}
	return y
}

// sigma2 estimates the residual variance. A window of exactly
// degree+1 points interpolates the data, so zero degrees of freedom
// means zero residual variance by definition.
func sigma2(rss float64, dof int) float64 {
	if dof <= 0 {
		return 0
	}
	return rss / float64(dof)
}

func fitConstant(ys []float64, mean float64) (*Result, error) {
	n := len(ys)

	c0 := 0.0
	for _, y := range ys {
		c0 += y
	}
	c0 /= float64(n)

	rss := 0.0
	for _, y := range ys {
		d := y - c0
		rss += d * d
	}

	// diag((AᵀA)⁻¹) for a column of ones is 1/n
	s2 := sigma2(rss, n-1)
	return &Result{
		Degree: Constant,
		Coeffs: []float64{c0},
		Errors: []float64{math.Sqrt(s2 / float64(n))},
		Mean:   mean,
		Scale:  1,
		N:      n,
		RSS:    rss,
	}, nil
}

func fitLinear(ts, ys []float64, mean float64) (*Result, error) {
	n := len(ts)

	// with u = t - mean the design columns are orthogonal and the
	// normal equations are diagonal
	var suu, suy, sy float64
	for i := range ts {
		u := ts[i] - mean
		suu += u * u
		suy += u * ys[i]
		sy += ys[i]
	}
	if suu == 0 {
		return nil, fmt.Errorf("%w: all timestamps identical", ErrDegenerateWindow)
	}

	c0 := sy / float64(n)
	c1 := suy / suu

	rss := 0.0
	for i := range ts {
		d := ys[i] - c0 - c1*(ts[i]-mean)
		rss += d * d
	}

	s2 := sigma2(rss, n-2)
	return &Result{
		Degree: Linear,
		Coeffs: []float64{c0, c1},
		Errors: []float64{math.Sqrt(s2 / float64(n)), math.Sqrt(s2 / suu)},
		Mean:   mean,
		Scale:  1,
		N:      n,
		RSS:    rss,
	}, nil
}

func fitQuadratic(ts, ys []float64, mean float64) (*Result, error) {
	n := len(ts)

	// sample standard deviation of the centered timestamps
	var suu float64
	for _, t := range ts {
		u := t - mean
		suu += u * u
	}
	scale := math.Sqrt(suu / float64(n-1))
	if scale == 0 {
		return nil, fmt.Errorf("%w: all timestamps identical", ErrDegenerateWindow)
	}

	// design matrix in the centered, scaled variable
	a := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i := range ts {
		u := (ts[i] - mean) / scale
		a.Set(i, 0, 1)
		a.Set(i, 1, u)
		a.Set(i, 2, u*u)
		y.SetVec(i, ys[i])
	}

	var qr mat.QR
	qr.Factorize(a)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		if _, conditioned := err.(mat.Condition); !conditioned {
			return nil, fmt.Errorf("%w: %v", ErrDegenerateWindow, err)
		}
	}
	coeffs := []float64{beta.AtVec(0), beta.AtVec(1), beta.AtVec(2)}

	var r mat.Dense
	qr.RTo(&r)
	diag, err := crossDiag(&r, 3)
	if err != nil {
		return nil, err
	}

	rss := 0.0
	for i := range ts {
		u := (ts[i] - mean) / scale
		d := ys[i] - (coeffs[0] + u*(coeffs[1]+u*coeffs[2]))
		rss += d * d
	}

	s2 := sigma2(rss, n-3)
	errs := make([]float64, 3)
	for k := range errs {
		errs[k] = math.Sqrt(s2 * diag[k])
	}

	return &Result{
		Degree: Quadratic,
		Coeffs: coeffs,
		Errors: errs,
		Mean:   mean,
		Scale:  scale,
		N:      n,
		RSS:    rss,
	}, nil
}

// crossDiag computes diag((AᵀA)⁻¹) from the triangular factor R of
// A = QR. Since AᵀA = RᵀR, the k-th diagonal entry equals |R⁻ᵀ e_k|²,
// obtained by forward substitution against Rᵀ; R is never inverted and
// AᵀA never formed.
func crossDiag(r *mat.Dense, p int) ([]float64, error) {
	const tiny = 1e-300

	diag := make([]float64, p)
	z := make([]float64, p)
	for k := 0; k < p; k++ {
		for i := 0; i < p; i++ {
			rhs := 0.0
			if i == k {
				rhs = 1
			}
			for j := 0; j < i; j++ {
				rhs -= r.At(j, i) * z[j]
			}
			rii := r.At(i, i)
			if math.Abs(rii) < tiny {
				return nil, fmt.Errorf("%w: rank-deficient design", ErrDegenerateWindow)
			}
			z[i] = rhs / rii
		}
		for i := k; i < p; i++ {
			diag[k] += z[i] * z[i]
		}
	}
	return diag, nil
}
