package svm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/pkg/errors"
	"github.com/YuminosukeSato/gosvm/qp"
)

// Formulate maps the soft-margin SVM dual
//
//	maximize Σαᵢ − ½ ΣΣ αᵢαⱼyᵢyⱼK(xᵢ,xⱼ)
//	subject to 0 ≤ αᵢ ≤ C and Σαᵢyᵢ = 0
//
// onto the canonical QP minimization consumed by generic solvers:
// P = outer(y,y)⊙K, q = −1 (the negated objective), G = [−I; I] with
// h = [0; C·1] encoding the box, and A = yᵀ with b = 0 encoding the
// equality. P is symmetric positive semi-definite whenever K is a valid
// kernel matrix.
//
// K must be the n×n training self-kernel and y the matching ±1 label
// vector. Returns a ValidationError for C ≤ 0 and a DimensionError for
// shape mismatches.
func Formulate(K mat.Matrix, y *mat.VecDense, c float64) (*qp.Problem, error) {
	if c <= 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return nil, errors.NewValidationError("c", "must be a positive finite value", c)
	}
	n := y.Len()
	if n <= 0 {
		return nil, errors.NewModelError("svm.Formulate", "empty data", errors.ErrEmptyData)
	}
	kr, kc := K.Dims()
	if kr != n {
		return nil, errors.NewDimensionError("svm.Formulate", n, kr, 0)
	}
	if kc != n {
		return nil, errors.NewDimensionError("svm.Formulate", n, kc, 1)
	}

	p := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p.Set(i, j, y.AtVec(i)*y.AtVec(j)*K.At(i, j))
		}
	}

	q := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		q.SetVec(i, -1)
	}

	// Rows 0..n-1 encode -αᵢ ≤ 0, rows n..2n-1 encode αᵢ ≤ C.
	g := mat.NewDense(2*n, n, nil)
	h := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		g.Set(i, i, -1)
		g.Set(n+i, i, 1)
		h.SetVec(n+i, c)
	}

	a := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		a.Set(0, i, y.AtVec(i))
	}
	b := mat.NewVecDense(1, nil)

	return &qp.Problem{P: p, Q: q, G: g, H: h, A: a, B: b}, nil
}
