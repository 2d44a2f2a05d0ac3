package svm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/kernel"
	gosvmErrors "github.com/YuminosukeSato/gosvm/pkg/errors"
	"github.com/YuminosukeSato/gosvm/qp"
)

// separableData returns 20 points in two features, class decided by the sign
// of the first feature with a clear gap around zero. The negative class
// mirrors the positive one across x1 = 0, so the exact decision boundary is
// the x2 axis and the intercept of the exact dual optimum is zero; far
// points on either side then classify by the kernel term alone.
func separableData() (*mat.Dense, *mat.Dense) {
	pos := []float64{
		0.5, 0.2,
		1.0, -0.4,
		1.5, 1.1,
		2.0, 0.0,
		2.5, -1.2,
		0.8, 0.9,
		1.3, -0.7,
		1.9, 0.3,
		2.2, 1.5,
		0.6, -0.1,
	}
	X := mat.NewDense(20, 2, nil)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, pos[2*i])
		X.Set(i, 1, pos[2*i+1])
		y.Set(i, 0, 1)

		X.Set(10+i, 0, -pos[2*i])
		X.Set(10+i, 1, pos[2*i+1])
		y.Set(10+i, 0, -1)
	}
	return X, y
}

func TestSVC_FitPredictSeparable(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(svcTestOpts(t, WithC(100))...)

	require.NoError(t, clf.Fit(X, y))
	assert.True(t, clf.IsFitted())
	assert.Greater(t, clf.NSupport(), 0)
	assert.LessOrEqual(t, clf.NSupport(), 20)

	// Training accuracy must be perfect on cleanly separable data.
	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	// The mirrored classes put the exact optimum's intercept at zero; the
	// solved one must land near it, otherwise far points inherit its sign.
	assert.InDelta(t, 0.0, clf.Intercept(), 0.02)

	// Far points on either side of the boundary.
	far := mat.NewDense(2, 2, []float64{5, 0, -5, 0})
	pred, err := clf.Predict(far)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred.At(0, 0))
	assert.Equal(t, -1.0, pred.At(1, 0))
}

// svcTestOpts prepends the RBF used across the end-to-end tests.
func svcTestOpts(t *testing.T, extra ...SVCOption) []SVCOption {
	t.Helper()
	rbf, err := kernel.NewRBF(1.0)
	require.NoError(t, err)
	return append([]SVCOption{WithKernel(rbf)}, extra...)
}

func TestSVC_DecisionFunctionMatchesPredict(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(svcTestOpts(t, WithC(10))...)
	require.NoError(t, clf.Fit(X, y))

	scores, err := clf.DecisionFunction(X)
	require.NoError(t, err)
	pred, err := clf.Predict(X)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		if scores.AtVec(i) >= 0 {
			assert.Equal(t, 1.0, pred.At(i, 0), "row %d", i)
		} else {
			assert.Equal(t, -1.0, pred.At(i, 0), "row %d", i)
		}
	}
}

func TestSVC_PredictBeforeFit(t *testing.T) {
	clf := NewSVC()
	X := mat.NewDense(1, 2, []float64{0, 0})

	_, err := clf.Predict(X)
	require.Error(t, err)
	var nfErr *gosvmErrors.NotFittedError
	assert.ErrorAs(t, err, &nfErr)

	_, err = clf.DecisionFunction(X)
	assert.Error(t, err)

	_, err = clf.Score(X, mat.NewDense(1, 1, []float64{1}))
	assert.Error(t, err)
}

func TestSVC_FitValidation(t *testing.T) {
	X, y := separableData()

	t.Run("labels outside ±1", func(t *testing.T) {
		bad := mat.NewDense(20, 1, nil)
		for i := 0; i < 20; i++ {
			bad.Set(i, 0, float64(i%2)) // 0/1 encoding is rejected, not remapped
		}
		err := NewSVC().Fit(X, bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "labels must be -1 or +1")
	})

	t.Run("single class", func(t *testing.T) {
		ones := mat.NewDense(20, 1, nil)
		for i := 0; i < 20; i++ {
			ones.Set(i, 0, 1)
		}
		err := NewSVC().Fit(X, ones)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both classes")
	})

	t.Run("row count mismatch", func(t *testing.T) {
		err := NewSVC().Fit(X, mat.NewDense(19, 1, nil))
		require.Error(t, err)
		var dimErr *gosvmErrors.DimensionError
		assert.ErrorAs(t, err, &dimErr)
	})

	t.Run("y not a column", func(t *testing.T) {
		err := NewSVC().Fit(X, mat.NewDense(20, 2, nil))
		assert.Error(t, err)
	})

	t.Run("nonpositive C", func(t *testing.T) {
		err := NewSVC(WithC(-1)).Fit(X, y)
		require.Error(t, err)
		var valErr *gosvmErrors.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("empty data", func(t *testing.T) {
		err := NewSVC().Fit(&mat.Dense{}, &mat.Dense{})
		assert.Error(t, err)
	})
}

func TestSVC_PredictDimensionMismatch(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(svcTestOpts(t)...)
	require.NoError(t, clf.Fit(X, y))

	_, err := clf.Predict(mat.NewDense(3, 5, nil))
	require.Error(t, err)
	var dimErr *gosvmErrors.DimensionError
	assert.ErrorAs(t, err, &dimErr)
}

func TestSVC_RefitReplacesSupportSet(t *testing.T) {
	X1, y1 := separableData()
	clf := NewSVC(svcTestOpts(t, WithC(10))...)
	require.NoError(t, clf.Fit(X1, y1))
	firstIntercept := clf.Intercept()

	// Second dataset lives far from the first, so any surviving stale support
	// vector would be detectable in the stored rows.
	X2 := mat.NewDense(8, 2, []float64{
		100.5, 0, 101.0, 1, 101.5, -1, 102.0, 0.5,
		97.5, 0, 98.0, -1, 98.5, 1, 99.0, -0.5,
	})
	y2 := mat.NewDense(8, 1, []float64{1, 1, 1, 1, -1, -1, -1, -1})
	require.NoError(t, clf.Fit(X2, y2))

	sv := clf.SupportVectors()
	require.NotNil(t, sv)
	r, _ := sv.Dims()
	assert.Equal(t, clf.NSupport(), r)
	for i := 0; i < r; i++ {
		assert.Greater(t, sv.At(i, 0), 90.0, "stale support vector at row %d", i)
	}

	acc, err := clf.Score(X2, y2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
	assert.NotEqual(t, firstIntercept, clf.Intercept())
}

func TestSVC_FailedRefitKeepsPreviousFit(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(svcTestOpts(t, WithC(10))...)
	require.NoError(t, clf.Fit(X, y))
	nsv := clf.NSupport()
	theta := clf.Intercept()

	// Invalid labels make the refit fail during validation.
	bad := mat.NewDense(20, 1, nil)
	require.Error(t, clf.Fit(X, bad))

	assert.True(t, clf.IsFitted())
	assert.Equal(t, nsv, clf.NSupport())
	assert.Equal(t, theta, clf.Intercept())

	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

// stubSolver returns a canned solution, for exercising the status contract.
type stubSolver struct {
	status qp.Status
}

func (s *stubSolver) Solve(p *qp.Problem) (*qp.Solution, error) {
	return &qp.Solution{
		X:          mat.NewVecDense(p.N(), nil),
		Status:     s.status,
		Iterations: 7,
	}, nil
}

func TestSVC_NonOptimalSolverStatus(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(WithSolver(&stubSolver{status: qp.StatusNumericalIssue}))

	err := clf.Fit(X, y)
	require.Error(t, err)
	var solErr *gosvmErrors.SolverError
	require.ErrorAs(t, err, &solErr)
	assert.Equal(t, "NumericalIssue", solErr.Status)
	assert.Equal(t, 7, solErr.Iterations)
	assert.False(t, clf.IsFitted())
}

func TestSVC_AccessorsBeforeFit(t *testing.T) {
	clf := NewSVC()
	assert.False(t, clf.IsFitted())
	assert.Equal(t, 0, clf.NSupport())
	assert.Equal(t, 0.0, clf.Intercept())
	assert.Nil(t, clf.SupportVectors())
	assert.Nil(t, clf.DualCoef())
	assert.Equal(t, 1.0, clf.C())
	assert.Equal(t, "rbf", clf.Kernel().Name())
}

func TestSVC_ReturnedBuffersAreCopies(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(svcTestOpts(t)...)
	require.NoError(t, clf.Fit(X, y))

	sv := clf.SupportVectors()
	coef := clf.DualCoef()
	before, err := clf.DecisionFunction(X)
	require.NoError(t, err)

	sv.Set(0, 0, 1e9)
	coef[0] = 1e9

	after, err := clf.DecisionFunction(X)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.Equal(t, before.AtVec(i), after.AtVec(i))
	}
}

func TestSVC_SaveLoadRoundTrip(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(svcTestOpts(t, WithC(10))...)
	require.NoError(t, clf.Fit(X, y))

	var buf bytes.Buffer
	require.NoError(t, clf.SaveToWriter(&buf))

	restored := NewSVC()
	require.NoError(t, restored.LoadFromReader(&buf))

	assert.True(t, restored.IsFitted())
	assert.Equal(t, clf.NSupport(), restored.NSupport())
	assert.Equal(t, clf.Intercept(), restored.Intercept())
	assert.Equal(t, clf.C(), restored.C())

	want, err := clf.DecisionFunction(X)
	require.NoError(t, err)
	got, err := restored.DecisionFunction(X)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.Equal(t, want.AtVec(i), got.AtVec(i), "row %d", i)
	}
}

func TestSVC_SaveLoadFile(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(svcTestOpts(t)...)
	require.NoError(t, clf.Fit(X, y))

	path := t.TempDir() + "/svc.gob"
	require.NoError(t, clf.Save(path))

	restored := NewSVC()
	require.NoError(t, restored.Load(path))
	assert.Equal(t, clf.NSupport(), restored.NSupport())

	acc, err := restored.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestSVC_ExportStateBeforeFit(t *testing.T) {
	_, err := NewSVC().ExportState()
	require.Error(t, err)
	var nfErr *gosvmErrors.NotFittedError
	assert.ErrorAs(t, err, &nfErr)
}

func TestSVC_ImportStateValidation(t *testing.T) {
	t.Run("no support vectors", func(t *testing.T) {
		err := NewSVC().ImportState(&SVCState{KernelName: "rbf", Sigma: 1})
		assert.Error(t, err)
	})

	t.Run("length mismatch", func(t *testing.T) {
		st := &SVCState{
			KernelName: "rbf", Sigma: 1, C: 1,
			NSupport: 2, NFeatures: 2,
			SupportX: make([]float64, 4),
			SupportY: make([]float64, 2),
			Alpha:    make([]float64, 3),
		}
		err := NewSVC().ImportState(st)
		require.Error(t, err)
		var dimErr *gosvmErrors.DimensionError
		assert.ErrorAs(t, err, &dimErr)
	})

	t.Run("unknown kernel", func(t *testing.T) {
		st := &SVCState{
			KernelName: "polynomial", C: 1,
			NSupport: 1, NFeatures: 1,
			SupportX: []float64{1},
			SupportY: []float64{1},
			Alpha:    []float64{1},
		}
		err := NewSVC().ImportState(st)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown kernel")
	})
}

func TestSVC_LinearKernelSeparable(t *testing.T) {
	X, y := separableData()
	clf := NewSVC(WithKernel(kernel.NewLinear()), WithC(10))

	require.NoError(t, clf.Fit(X, y))
	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}
