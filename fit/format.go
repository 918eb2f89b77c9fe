//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package fit

import (
	"fmt"
	"math"
)

// FormatMeasurement renders "value ± error" with the number of decimal
// places chosen from the error's magnitude, so the error dictates the
// significant digits shown. A zero or non-finite error falls back to a
// plain rendering.
func FormatMeasurement(value, err float64) string {
	if err <= 0 || math.IsInf(err, 0) || math.IsNaN(err) {
		return fmt.Sprintf("%.6g ± %g", value, err)
	}
	lambda := int64(math.Round(math.Log10(err)))
	nd := 1
	if lambda < 0 {
		nd = int(-lambda) + 1
	}
	return fmt.Sprintf("%.*f ± %.*f", nd, value, nd, err)
}

// Label renders the whole fit the way the plot header does: the
// derived parametrization of each degree with per-coefficient errors.
func (r *Result) Label() string {
	vals, errs := r.Derived()
	switch r.Degree {
	case Constant:
		return fmt.Sprintf("y = %s", FormatMeasurement(vals[0], errs[0]))
	case Linear:
		return fmt.Sprintf("k = %s   t0 = %s",
			FormatMeasurement(vals[1], errs[1]),
			FormatMeasurement(vals[0], errs[0]))
	case Quadratic:
		return fmt.Sprintf("a = %s   t0 = %s   y0 = %s",
			FormatMeasurement(vals[2], errs[2]),
			FormatMeasurement(vals[1], errs[1]),
			FormatMeasurement(vals[0], errs[0]))
	}
	return ""
}
