// Package svm implements a kernelized support vector classifier trained via
// its dual quadratic program.
//
// The fit pipeline is sequential: kernel matrix → canonical QP formulation →
// external QP solve → bias recovery → support-vector selection. Prediction
// re-evaluates the kernel against the stored support set only. A fitted SVC
// may serve concurrent Predict calls, but Fit must be serialized against
// every other call on the same instance.
package svm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/core/model"
	"github.com/YuminosukeSato/gosvm/kernel"
	"github.com/YuminosukeSato/gosvm/metrics"
	"github.com/YuminosukeSato/gosvm/pkg/errors"
	"github.com/YuminosukeSato/gosvm/pkg/log"
	"github.com/YuminosukeSato/gosvm/qp"
)

// Interface conformance.
var (
	_ model.Classifier  = (*SVC)(nil)
	_ model.KernelModel = (*SVC)(nil)
)

// SVC is a binary support vector classifier over ±1 labels.
// Compatible in spirit with scikit-learn's SVC.
type SVC struct {
	state *model.StateManager

	// Hyperparameters
	c          float64       // Box constraint (regularization bound)
	kernel     kernel.Kernel // Pairwise similarity, Gaussian by default
	solver     qp.Solver     // Dual QP solver collaborator
	supportRel float64       // Relative support-selection threshold
	marginTol  float64       // Interior-alpha tolerance for bias recovery

	// Fitted state, replaced wholesale by each successful Fit
	supportX  *mat.Dense
	supportY  *mat.VecDense
	alpha     *mat.VecDense
	intercept float64
	nFeatures int

	logger log.Logger
}

// SVCOption is a functional option for SVC.
type SVCOption func(*SVC)

// WithC sets the box constraint C. Validation happens at Fit time so a bad
// value surfaces as an error instead of a constructor panic.
func WithC(c float64) SVCOption {
	return func(s *SVC) { s.c = c }
}

// WithKernel substitutes the pairwise-similarity function. The dual
// formulation, bias recovery and support selection are kernel-agnostic.
func WithKernel(k kernel.Kernel) SVCOption {
	return func(s *SVC) { s.kernel = k }
}

// WithSolver substitutes the QP solver collaborator.
func WithSolver(solver qp.Solver) SVCOption {
	return func(s *SVC) { s.solver = solver }
}

// WithSupportThreshold overrides the relative threshold used to discard
// negligible dual weights.
func WithSupportThreshold(rel float64) SVCOption {
	return func(s *SVC) { s.supportRel = rel }
}

// WithMarginTolerance overrides the tolerance that decides when a dual
// variable counts as strictly interior during bias recovery.
func WithMarginTolerance(tol float64) SVCOption {
	return func(s *SVC) { s.marginTol = tol }
}

// NewSVC creates a classifier with a Gaussian kernel (σ = 1), C = 1 and the
// built-in SMO solver.
func NewSVC(opts ...SVCOption) *SVC {
	s := &SVC{
		state:      model.NewStateManager(),
		c:          1.0,
		kernel:     &kernel.RBF{Sigma: 1.0},
		solver:     qp.NewSMOSolver(),
		supportRel: DefaultSupportThreshold,
		marginTol:  DefaultMarginTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("svm.svc")
	}
	return s
}

// validateTraining checks the Fit input contract and converts y into a
// ±1 label vector.
func (s *SVC) validateTraining(X, y mat.Matrix) (*mat.VecDense, error) {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return nil, errors.NewModelError("SVC.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return nil, errors.NewDimensionError("SVC.Fit", r, ry, 0)
	}
	if cy != 1 {
		return nil, errors.NewValueError("SVC.Fit", "y must be a column vector")
	}
	if r < 2 {
		return nil, errors.NewValueError("SVC.Fit", "at least two samples are required")
	}
	if s.c <= 0 {
		return nil, errors.NewValidationError("c", "must be a positive finite value", s.c)
	}

	labels := mat.NewVecDense(r, nil)
	var pos, neg int
	for i := 0; i < r; i++ {
		v := y.At(i, 0)
		switch v {
		case 1:
			pos++
		case -1:
			neg++
		default:
			return nil, errors.NewValueError("SVC.Fit",
				fmt.Sprintf("labels must be -1 or +1, got %v at row %d", v, i))
		}
		labels.SetVec(i, v)
	}
	if pos == 0 || neg == 0 {
		return nil, errors.NewValueError("SVC.Fit", "training data must contain both classes")
	}
	return labels, nil
}

// Fit trains the classifier on X (n×d) and y (n×1, entries in {-1, +1}).
//
// Fit is atomic: every stage runs into locals and the model state is
// replaced only after the whole pipeline succeeds, so a failed refit leaves
// the previous fit usable. Each successful Fit fully discards the prior
// support set.
func (s *SVC) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "SVC.Fit")

	labels, err := s.validateTraining(X, y)
	if err != nil {
		return err
	}
	r, c := X.Dims()

	s.logger.Info("fit started",
		log.ModelNameKey, "SVC",
		log.OperationKey, "fit",
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.CKey, s.c,
	)

	k, err := s.kernel.Pairwise(X, X)
	if err != nil {
		return err
	}
	if err := errors.CheckMatrix("kernel_matrix", k, r, r, 0); err != nil {
		return err
	}

	prob, err := Formulate(k, labels, s.c)
	if err != nil {
		return err
	}

	sol, err := s.solver.Solve(prob)
	if err != nil {
		return err
	}
	if sol.Status != qp.StatusOptimal {
		return errors.NewSolverError(fmt.Sprintf("%T", s.solver), sol.Status.String(), sol.Iterations)
	}

	theta, err := EstimateBias(k, labels, sol.X, s.c, s.marginTol)
	if err != nil {
		return err
	}

	idx, err := SelectSupport(sol.X, s.supportRel)
	if err != nil {
		return err
	}

	supportX := mat.NewDense(len(idx), c, nil)
	supportY := mat.NewVecDense(len(idx), nil)
	alpha := mat.NewVecDense(len(idx), nil)
	for out, i := range idx {
		for j := 0; j < c; j++ {
			supportX.Set(out, j, X.At(i, j))
		}
		supportY.SetVec(out, labels.AtVec(i))
		alpha.SetVec(out, sol.X.AtVec(i))
	}

	// Commit only after the whole pipeline succeeded.
	s.supportX = supportX
	s.supportY = supportY
	s.alpha = alpha
	s.intercept = theta
	s.nFeatures = c
	s.state.SetDimensions(c, r)
	s.state.SetFitted()

	s.logger.Info("fit finished",
		log.ModelNameKey, "SVC",
		log.SupportVectorsKey, len(idx),
		log.InterceptKey, theta,
		log.IterationsKey, sol.Iterations,
	)
	return nil
}

// decisionScores evaluates the decision function against the stored support
// set; method names the public caller for error reporting.
func (s *SVC) decisionScores(X mat.Matrix, method string) (*mat.VecDense, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("SVC", method)
	}
	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, errors.NewDimensionError("SVC."+method, s.nFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError("SVC."+method, "empty data", errors.ErrEmptyData)
	}

	k, err := s.kernel.Pairwise(X, s.supportX)
	if err != nil {
		return nil, err
	}

	// coef = α ⊙ y over the support set, so scores = k·coef + θ.
	nsv := s.alpha.Len()
	coef := mat.NewVecDense(nsv, nil)
	for i := 0; i < nsv; i++ {
		coef.SetVec(i, s.alpha.AtVec(i)*s.supportY.AtVec(i))
	}

	scores := mat.NewVecDense(r, nil)
	scores.MulVec(k, coef)
	for i := 0; i < r; i++ {
		scores.SetVec(i, scores.AtVec(i)+s.intercept)
	}
	return scores, nil
}

// DecisionFunction returns the raw margin Σᵢ αᵢ·yᵢ·k(x, svᵢ) + θ per row.
// Predict is its sign.
func (s *SVC) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	return s.decisionScores(X, "DecisionFunction")
}

// Predict classifies each row of X as −1 or +1. A decision value of exactly
// zero maps to +1; the boundary is measure-zero in practice but the
// convention keeps predictions deterministic.
// Fails with NotFittedError before a successful Fit.
func (s *SVC) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "SVC.Predict")

	scores, err := s.decisionScores(X, "Predict")
	if err != nil {
		return nil, err
	}

	r := scores.Len()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		if scores.AtVec(i) >= 0 {
			out.Set(i, 0, 1)
		} else {
			out.Set(i, 0, -1)
		}
	}
	return out, nil
}

// Score returns the classification accuracy of Predict(X) against y.
func (s *SVC) Score(X, y mat.Matrix) (float64, error) {
	if !s.state.IsFitted() {
		return 0, errors.NewNotFittedError("SVC", "Score")
	}
	pred, err := s.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScoreMatrix(y, pred)
}

// IsFitted reports whether a successful Fit has completed.
func (s *SVC) IsFitted() bool {
	return s.state.IsFitted()
}

// NSupport returns the number of stored support vectors.
func (s *SVC) NSupport() int {
	if !s.state.IsFitted() {
		return 0
	}
	return s.alpha.Len()
}

// Intercept returns the recovered bias term θ.
func (s *SVC) Intercept() float64 {
	if !s.state.IsFitted() {
		return 0
	}
	return s.intercept
}

// C returns the box constraint used at fit time.
func (s *SVC) C() float64 { return s.c }

// Kernel returns the configured kernel.
func (s *SVC) Kernel() kernel.Kernel { return s.kernel }

// SupportVectors returns a copy of the stored support rows.
func (s *SVC) SupportVectors() *mat.Dense {
	if !s.state.IsFitted() {
		return nil
	}
	out := mat.NewDense(s.supportX.RawMatrix().Rows, s.supportX.RawMatrix().Cols, nil)
	out.Copy(s.supportX)
	return out
}

// DualCoef returns a copy of the dual weights α over the support set.
func (s *SVC) DualCoef() []float64 {
	if !s.state.IsFitted() {
		return nil
	}
	out := make([]float64, s.alpha.Len())
	for i := range out {
		out[i] = s.alpha.AtVec(i)
	}
	return out
}
