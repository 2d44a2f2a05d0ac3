package modelselection

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/kernel"
	"github.com/YuminosukeSato/gosvm/pkg/errors"
	"github.com/YuminosukeSato/gosvm/pkg/log"
	"github.com/YuminosukeSato/gosvm/svm"
)

// GridResult is one cell of a (C, σ) hyperparameter sweep.
type GridResult struct {
	C        float64
	Sigma    float64
	Accuracy float64 // NaN when the cell failed to fit
	NSupport int
	Err      error // non-nil when the cell failed
}

// GridSearchSVC fits one Gaussian-kernel SVC per (C, σ) pair on the train
// split and scores it on the test split. A cell that fails to fit (for
// example a degenerate support set at an extreme σ) is recorded with its
// error and NaN accuracy instead of aborting the sweep; the sweep is the
// caller's survey tool, not a single fit.
func GridSearchSVC(cs, sigmas []float64, XTrain, yTrain, XTest, yTest mat.Matrix) ([]GridResult, error) {
	if len(cs) == 0 || len(sigmas) == 0 {
		return nil, errors.NewValueError("GridSearchSVC", "parameter grid must not be empty")
	}

	logger := log.GetLoggerWithName("modelselection.gridsearch")

	results := make([]GridResult, 0, len(cs)*len(sigmas))
	for _, c := range cs {
		for _, sigma := range sigmas {
			res := GridResult{C: c, Sigma: sigma, Accuracy: math.NaN()}

			rbf, err := kernel.NewRBF(sigma)
			if err != nil {
				res.Err = err
				results = append(results, res)
				continue
			}

			clf := svm.NewSVC(svm.WithC(c), svm.WithKernel(rbf))
			if err := clf.Fit(XTrain, yTrain); err != nil {
				logger.Warn("grid cell failed to fit",
					log.CKey, c,
					"sigma", sigma,
					log.ErrAttrKey, err.Error(),
				)
				res.Err = err
				results = append(results, res)
				continue
			}

			acc, err := clf.Score(XTest, yTest)
			if err != nil {
				res.Err = err
				results = append(results, res)
				continue
			}
			res.Accuracy = acc
			res.NSupport = clf.NSupport()
			results = append(results, res)
		}
	}
	return results, nil
}

// Best returns the result with the highest accuracy; ties go to the earlier
// cell so sweeps stay deterministic. The boolean is false when every cell
// failed.
func Best(results []GridResult) (GridResult, bool) {
	best := GridResult{Accuracy: math.NaN()}
	found := false
	for _, r := range results {
		if r.Err != nil || math.IsNaN(r.Accuracy) {
			continue
		}
		if !found || r.Accuracy > best.Accuracy {
			best = r
			found = true
		}
	}
	return best, found
}

// FormatResults writes the sweep as an aligned accuracy table.
func FormatResults(w io.Writer, results []GridResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "C\tsigma\taccuracy\tsupport\t")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%g\t%g\tfailed: %v\t-\t\n", r.C, r.Sigma, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%g\t%g\t%.4f\t%d\t\n", r.C, r.Sigma, r.Accuracy, r.NSupport)
	}
	return tw.Flush()
}
