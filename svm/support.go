package svm

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/pkg/errors"
)

// DefaultSupportThreshold is the relative cut below which a dual weight is
// treated as numerical noise: a row survives when α exceeds
// threshold × mean(α).
const DefaultSupportThreshold = 1e-6

// SelectSupport returns the indices of the training rows retained as
// support vectors: those whose dual weight exceeds rel × mean(α). Numerical
// solvers leave tiny positive residue on non-support rows; the relative
// threshold discards it without clipping genuinely small support weights on
// well-scaled problems.
//
// An empty result means the solution carries no usable support set and is
// reported as a DegenerateFitError rather than a silent empty model.
func SelectSupport(alpha *mat.VecDense, rel float64) ([]int, error) {
	n := alpha.Len()
	if n == 0 {
		return nil, errors.NewModelError("svm.SelectSupport", "empty data", errors.ErrEmptyData)
	}

	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		raw[i] = alpha.AtVec(i)
	}
	threshold := rel * floats.Sum(raw) / float64(n)

	var idx []int
	for i, a := range raw {
		if a > threshold {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, errors.NewDegenerateFitError(threshold, n)
	}
	return idx, nil
}
