// Package modelselection provides the train/test evaluation harness around
// the SVC estimator: seeded shuffle splits and hyperparameter grid sweeps.
package modelselection

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/pkg/errors"
)

// TrainTestSplit shuffles the rows of X and y with the given seed and
// partitions them so that testSize of the samples (rounded, at least one,
// never all) land in the test split. The same seed always produces the same
// partition.
func TrainTestSplit(X, y mat.Matrix, testSize float64, seed int64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return nil, nil, nil, nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", r, ry, 0)
	}
	if cy != 1 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "y must be a column vector")
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("testSize", "must be in (0, 1)", testSize)
	}
	if r < 2 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "at least two samples are required")
	}

	nTest := int(float64(r)*testSize + 0.5)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= r {
		nTest = r - 1
	}
	nTrain := r - nTest

	perm := rand.New(rand.NewSource(seed)).Perm(r)

	gather := func(indices []int) (*mat.Dense, *mat.Dense) {
		xs := mat.NewDense(len(indices), c, nil)
		ys := mat.NewDense(len(indices), 1, nil)
		for out, i := range indices {
			for j := 0; j < c; j++ {
				xs.Set(out, j, X.At(i, j))
			}
			ys.Set(out, 0, y.At(i, 0))
		}
		return xs, ys
	}

	XTrain, yTrain = gather(perm[:nTrain])
	XTest, yTest = gather(perm[nTrain:])
	return XTrain, XTest, yTrain, yTest, nil
}
