package svm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	gosvmErrors "github.com/YuminosukeSato/gosvm/pkg/errors"
)

func TestSelectSupport_DiscardsNumericalResidue(t *testing.T) {
	// Typical solver output: two real support weights plus tiny residue on
	// the remaining rows.
	alpha := mat.NewVecDense(5, []float64{0.8, 1e-14, 0.5, 1e-13, 0})

	idx, err := SelectSupport(alpha, DefaultSupportThreshold)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, idx)
}

func TestSelectSupport_ThresholdIsRelativeToMean(t *testing.T) {
	// mean(α) = 0.25, so with rel = 0.5 the cut is 0.125 and only the two
	// larger weights survive.
	alpha := mat.NewVecDense(4, []float64{0.4, 0.1, 0.45, 0.05})

	idx, err := SelectSupport(alpha, 0.5)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, idx)
}

func TestSelectSupport_DominantWeightScalesCut(t *testing.T) {
	// One huge weight drags the mean up; small-but-real weights on other rows
	// still survive the default cut because it stays six orders below the mean.
	alpha := mat.NewVecDense(3, []float64{1e6, 3.0, 1e-12})

	idx, err := SelectSupport(alpha, DefaultSupportThreshold)
	require.NoError(t, err)

	assert.Contains(t, idx, 0)
	assert.Contains(t, idx, 1)
	assert.NotContains(t, idx, 2)
}

func TestSelectSupport_AllZeroIsDegenerate(t *testing.T) {
	alpha := mat.NewVecDense(3, []float64{0, 0, 0})

	_, err := SelectSupport(alpha, DefaultSupportThreshold)
	require.Error(t, err)
	var degErr *gosvmErrors.DegenerateFitError
	assert.ErrorAs(t, err, &degErr)
}

func TestSelectSupport_EmptyInput(t *testing.T) {
	_, err := SelectSupport(&mat.VecDense{}, DefaultSupportThreshold)
	require.Error(t, err)
	assert.ErrorIs(t, err, gosvmErrors.ErrEmptyData)
}
