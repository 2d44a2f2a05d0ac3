package qp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/pkg/errors"
	"github.com/YuminosukeSato/gosvm/pkg/log"
)

// SMOSolver solves quadratic programs whose constraints are a box
// 0 ⪯ x ⪯ c plus a single ±1 equality Σ yᵢxᵢ = 0 and whose linear term is
// the constant −1 vector, which is exactly the canonical form of the
// soft-margin SVM dual. It uses sequential minimal optimization: repeatedly picking a
// pair of variables that violates the KKT conditions and solving the
// two-variable subproblem analytically.
//
// Pair selection is deterministic: the first variable is the lowest-index
// KKT violator in sweep order, the second maximizes the error gap |Eᵢ−Eⱼ|
// with a full scan as fallback. Solving the same problem twice yields the
// same iterate sequence.
//
// Problems outside the recognized structure are rejected with a
// ValidationError; the solver never returns a wrong answer for them.
type SMOSolver struct {
	maxSweeps int
	maxStall  int
	tol       float64
	eps       float64
	verbose   bool
	logger    log.Logger
}

// SMOOption configures an SMOSolver.
type SMOOption func(*SMOSolver)

// WithMaxSweeps caps the number of full passes over the variables.
func WithMaxSweeps(n int) SMOOption {
	return func(s *SMOSolver) { s.maxSweeps = n }
}

// WithMaxStall sets how many consecutive sweeps without a successful pair
// update are tolerated before the solver stops sweeping.
func WithMaxStall(n int) SMOOption {
	return func(s *SMOSolver) { s.maxStall = n }
}

// WithTol sets the KKT violation tolerance.
func WithTol(tol float64) SMOOption {
	return func(s *SMOSolver) { s.tol = tol }
}

// WithVerbose enables per-sweep progress logging. Progress output is a
// solver configuration parameter; the default is silent.
func WithVerbose(v bool) SMOOption {
	return func(s *SMOSolver) { s.verbose = v }
}

// WithLogger redirects solver logging, mainly for tests.
func WithLogger(l log.Logger) SMOOption {
	return func(s *SMOSolver) { s.logger = l }
}

// NewSMOSolver creates a solver with conventional defaults
// (tolerance 1e-3, up to 10000 sweeps).
func NewSMOSolver(opts ...SMOOption) *SMOSolver {
	s := &SMOSolver{
		maxSweeps: 10000,
		maxStall:  10,
		tol:       1e-3,
		eps:       1e-8,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("qp.smo")
	}
	return s
}

// svmStructure recovers the box bounds c and equality signs y from the
// constraint matrices, and the kernel matrix K from P = yyᵀ⊙K. It rejects
// any problem that does not have the SVM-dual shape.
func svmStructure(p *Problem) (y, c []float64, K *mat.Dense, err error) {
	n := p.N()

	if p.G == nil || p.A == nil {
		return nil, nil, nil, errors.NewValidationError("problem", "SMO requires box and equality constraints", nil)
	}
	gr, _ := p.G.Dims()
	ar, _ := p.A.Dims()
	if gr != 2*n || ar != 1 {
		return nil, nil, nil, errors.NewValidationError("problem",
			"SMO requires G of shape (2n, n) and a single equality row", gr)
	}
	if p.B.AtVec(0) != 0 {
		return nil, nil, nil, errors.NewValidationError("b", "SMO requires a zero equality target", p.B.AtVec(0))
	}

	// q must be the constant −1 vector: SMO's KKT conditions assume unit
	// dual margins.
	for i := 0; i < n; i++ {
		if p.Q.AtVec(i) != -1 {
			return nil, nil, nil, errors.NewValidationError("q", "SMO requires q = -1 vector", p.Q.AtVec(i))
		}
	}

	// G must stack −I over I, h must stack zeros over positive bounds.
	c = make([]float64, n)
	for i := 0; i < 2*n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = -1.0
			} else if i == n+j {
				want = 1.0
			}
			if p.G.At(i, j) != want {
				return nil, nil, nil, errors.NewValidationError("G", "SMO requires G = [-I; I]", p.G.At(i, j))
			}
		}
	}
	for i := 0; i < n; i++ {
		if p.H.AtVec(i) != 0 {
			return nil, nil, nil, errors.NewValidationError("h", "SMO requires zero lower bounds", p.H.AtVec(i))
		}
		ci := p.H.AtVec(n + i)
		if ci <= 0 || math.IsInf(ci, 0) || math.IsNaN(ci) {
			return nil, nil, nil, errors.NewValidationError("h", "SMO requires positive finite upper bounds", ci)
		}
		c[i] = ci
	}

	y = make([]float64, n)
	for i := 0; i < n; i++ {
		v := p.A.At(0, i)
		if v != 1 && v != -1 {
			return nil, nil, nil, errors.NewValidationError("A", "SMO requires equality coefficients in {-1, +1}", v)
		}
		y[i] = v
	}

	// P = yyᵀ⊙K, so K recovers as P with the label signs stripped.
	K = mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			K.Set(i, j, p.P.At(i, j)*y[i]*y[j])
		}
	}
	if err := errors.CheckMatrix("smo_kernel", K, n, n, 0); err != nil {
		return nil, nil, nil, err
	}
	return y, c, K, nil
}

// smoState carries the mutable iterate between sweeps.
type smoState struct {
	alpha []float64
	f     []float64 // f[i] = Σⱼ αⱼ yⱼ K[i,j], bias excluded
	bias  float64
	y     []float64
	c     []float64
	k     *mat.Dense
}

func (st *smoState) errorAt(i int) float64 {
	return st.f[i] + st.bias - st.y[i]
}

// Solve implements Solver.
func (s *SMOSolver) Solve(p *Problem) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	y, c, K, err := svmStructure(p)
	if err != nil {
		return nil, err
	}
	n := len(y)

	st := &smoState{
		alpha: make([]float64, n),
		f:     make([]float64, n),
		y:     y,
		c:     c,
		k:     K,
	}

	sweeps := 0
	stall := 0
	for stall < s.maxStall && sweeps < s.maxSweeps {
		changed := 0
		for i := 0; i < n; i++ {
			if s.examine(st, i) {
				changed++
			}
		}
		sweeps++
		if changed == 0 {
			stall++
		} else {
			stall = 0
		}
		if s.verbose {
			s.logger.Debug("smo sweep finished",
				"sweep", sweeps,
				"pairs_updated", changed,
			)
		}
	}

	if err := errors.CheckNumericalStability("dual_solution", st.alpha, sweeps); err != nil {
		return nil, err
	}

	status := StatusNumericalIssue
	if s.certifyOptimal(st) {
		status = StatusOptimal
	} else {
		errors.Warn(errors.NewConvergenceWarning("SMO", sweeps, "no optimality certificate at termination"))
	}

	if s.verbose {
		s.logger.Info("smo finished",
			log.IterationsKey, sweeps,
			log.StatusKey, status.String(),
		)
	}

	return &Solution{
		X:          mat.NewVecDense(n, st.alpha),
		Status:     status,
		Iterations: sweeps,
	}, nil
}

// examine checks variable i against the KKT conditions and, if it violates
// them, attempts a pair step with a deterministically chosen partner.
func (s *SMOSolver) examine(st *smoState, i int) bool {
	ei := st.errorAt(i)
	ri := st.y[i] * ei

	violates := (ri < -s.tol && st.alpha[i] < st.c[i]) || (ri > s.tol && st.alpha[i] > 0)
	if !violates {
		return false
	}

	// Second-choice heuristic: the partner with the largest error gap gives
	// the largest analytic step.
	best, bestGap := -1, 0.0
	for j := range st.alpha {
		if j == i {
			continue
		}
		gap := math.Abs(ei - st.errorAt(j))
		if gap > bestGap {
			best, bestGap = j, gap
		}
	}
	if best >= 0 && s.step(st, i, best) {
		return true
	}
	// Fallback: scan every partner in index order.
	for j := range st.alpha {
		if j == i || j == best {
			continue
		}
		if s.step(st, i, j) {
			return true
		}
	}
	return false
}

// step solves the two-variable subproblem for (i, j) analytically.
// It returns false when the pair cannot make progress.
func (s *SMOSolver) step(st *smoState, i, j int) bool {
	ai, aj := st.alpha[i], st.alpha[j]
	yi, yj := st.y[i], st.y[j]

	// Feasible segment for alpha[j] under the box and the equality.
	var lo, hi float64
	if yi != yj {
		lo = math.Max(0, aj-ai)
		hi = math.Min(st.c[j], st.c[i]+aj-ai)
	} else {
		lo = math.Max(0, ai+aj-st.c[i])
		hi = math.Min(st.c[j], ai+aj)
	}
	if hi-lo < 1e-12 {
		return false
	}

	eta := st.k.At(i, i) + st.k.At(j, j) - 2*st.k.At(i, j)
	if eta <= 0 {
		// Flat or concave along the pair direction; skip rather than guess.
		return false
	}

	ei, ej := st.errorAt(i), st.errorAt(j)
	ajNew := errors.ClipValue(aj+yj*(ei-ej)/eta, lo, hi)
	if math.Abs(ajNew-aj) < s.eps*(ajNew+aj+s.eps) {
		return false
	}
	aiNew := ai + yi*yj*(aj-ajNew)

	// Standard bias update: prefer the estimate anchored at an interior
	// variable, average when both land on a bound.
	b1 := st.bias - ei - yi*(aiNew-ai)*st.k.At(i, i) - yj*(ajNew-aj)*st.k.At(i, j)
	b2 := st.bias - ej - yi*(aiNew-ai)*st.k.At(i, j) - yj*(ajNew-aj)*st.k.At(j, j)
	switch {
	case aiNew > 0 && aiNew < st.c[i]:
		st.bias = b1
	case ajNew > 0 && ajNew < st.c[j]:
		st.bias = b2
	default:
		st.bias = (b1 + b2) / 2
	}

	// Incremental update of the cached decision values.
	di, dj := yi*(aiNew-ai), yj*(ajNew-aj)
	for k := range st.f {
		st.f[k] += di*st.k.At(i, k) + dj*st.k.At(j, k)
	}
	st.alpha[i], st.alpha[j] = aiNew, ajNew
	return true
}

// certifyOptimal checks the KKT conditions independently of the bias the
// solver carried: optimality holds iff some bias value is simultaneously
// compatible with every variable's bound status. For a variable exactly on
// its margin the compatible bias is gᵢ = yᵢ − fᵢ; bound variables turn gᵢ
// into a one-sided limit.
func (s *SMOSolver) certifyOptimal(st *smoState) bool {
	const boundTol = 1e-10

	lo := math.Inf(-1)
	hi := math.Inf(1)
	for i := range st.alpha {
		g := st.y[i] - st.f[i]
		atLower := st.alpha[i] <= boundTol
		atUpper := st.alpha[i] >= st.c[i]-boundTol

		switch {
		case !atLower && !atUpper:
			lo = math.Max(lo, g)
			hi = math.Min(hi, g)
		case atLower && st.y[i] > 0, atUpper && st.y[i] < 0:
			lo = math.Max(lo, g)
		default:
			hi = math.Min(hi, g)
		}
	}
	return lo <= hi+2*s.tol
}
