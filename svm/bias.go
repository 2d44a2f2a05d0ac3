package svm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/pkg/errors"
)

// DefaultMarginTolerance decides when a dual variable counts as strictly
// inside the box (0, C) for bias recovery. It is deliberately independent of
// the support-selection threshold: one locates an exact-margin point, the
// other sparsifies the stored model.
const DefaultMarginTolerance = 1e-5

// EstimateBias recovers the decision-function intercept θ from the solved
// dual variables. It scans for the first index m whose α lies strictly
// inside (0, C), a margin support vector rather than a bound one, and
// computes
//
//	θ = y[m] − Σⱼ αⱼ·y[j]·K[m,j].
//
// The lowest qualifying index wins, so the result is deterministic across
// solvers that order equally valid interior points differently. When every
// α sits within tol of a bound there is no margin support vector to anchor
// the bias and a NoMarginSupportVectorError is returned; defaulting to an
// arbitrary index would silently produce a wrong intercept.
func EstimateBias(K mat.Matrix, y, alpha *mat.VecDense, c, tol float64) (float64, error) {
	n := alpha.Len()
	if y.Len() != n {
		return 0, errors.NewDimensionError("svm.EstimateBias", n, y.Len(), 0)
	}
	kr, kc := K.Dims()
	if kr != n || kc != n {
		return 0, errors.NewDimensionError("svm.EstimateBias", n, kr, 0)
	}

	m := -1
	for i := 0; i < n; i++ {
		a := alpha.AtVec(i)
		if a > tol && a < c-tol {
			m = i
			break
		}
	}
	if m < 0 {
		return 0, errors.NewNoMarginSupportVectorError(c, tol, n)
	}

	theta := y.AtVec(m)
	for j := 0; j < n; j++ {
		theta -= alpha.AtVec(j) * y.AtVec(j) * K.At(m, j)
	}
	if err := errors.CheckScalar("bias", theta, 0); err != nil {
		return 0, err
	}
	return theta, nil
}
