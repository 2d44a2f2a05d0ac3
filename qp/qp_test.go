package qp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Optimal", StatusOptimal.String())
	assert.Equal(t, "Infeasible", StatusInfeasible.String())
	assert.Equal(t, "Unbounded", StatusUnbounded.String())
	assert.Equal(t, "NumericalIssue", StatusNumericalIssue.String())
	assert.Equal(t, "Unknown", Status(99).String())
}

func TestProblemValidate(t *testing.T) {
	valid := func() *Problem {
		return &Problem{
			P: mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
			Q: mat.NewVecDense(2, []float64{-1, -1}),
			G: mat.NewDense(4, 2, []float64{-1, 0, 0, -1, 1, 0, 0, 1}),
			H: mat.NewVecDense(4, []float64{0, 0, 1, 1}),
			A: mat.NewDense(1, 2, []float64{1, -1}),
			B: mat.NewVecDense(1, []float64{0}),
		}
	}

	t.Run("valid problem passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing P", func(t *testing.T) {
		p := valid()
		p.P = nil
		assert.Error(t, p.Validate())
	})

	t.Run("q length mismatch", func(t *testing.T) {
		p := valid()
		p.Q = mat.NewVecDense(3, nil)
		assert.Error(t, p.Validate())
	})

	t.Run("G column mismatch", func(t *testing.T) {
		p := valid()
		p.G = mat.NewDense(4, 3, nil)
		assert.Error(t, p.Validate())
	})

	t.Run("h missing for G", func(t *testing.T) {
		p := valid()
		p.H = nil
		assert.Error(t, p.Validate())
	})

	t.Run("b length mismatch", func(t *testing.T) {
		p := valid()
		p.B = mat.NewVecDense(2, nil)
		assert.Error(t, p.Validate())
	})

	t.Run("inequality-only problem passes", func(t *testing.T) {
		p := valid()
		p.A, p.B = nil, nil
		assert.NoError(t, p.Validate())
	})
}
