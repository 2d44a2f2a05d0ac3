// Package qp defines the canonical convex quadratic program
//
//	minimize   ½ xᵀPx + qᵀx
//	subject to Gx ⪯ h
//	           Ax = b
//
// as consumed by generic QP solvers, together with a default solver for the
// box-plus-single-equality structure that SVM duals produce. The matrix
// shapes are the interoperability contract: P is n×n, q has length n, G is
// k×n with h of length k, and A is p×n with b of length p.
package qp

import (
	"github.com/YuminosukeSato/gosvm/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Status describes how a solver terminated.
type Status int

const (
	// StatusOptimal means the returned point satisfies the optimality
	// conditions within the solver's tolerance.
	StatusOptimal Status = iota
	// StatusInfeasible means no point satisfies the constraints.
	StatusInfeasible
	// StatusUnbounded means the objective decreases without bound over the
	// feasible set.
	StatusUnbounded
	// StatusNumericalIssue means the solver stopped without an optimality
	// certificate, typically after hitting its iteration cap.
	StatusNumericalIssue
)

// String returns the status name used in logs and error messages.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	case StatusNumericalIssue:
		return "NumericalIssue"
	default:
		return "Unknown"
	}
}

// Problem is a quadratic program in canonical form.
type Problem struct {
	P *mat.Dense    // n×n quadratic term, symmetric positive semi-definite
	Q *mat.VecDense // n linear term
	G *mat.Dense    // k×n inequality matrix, Gx ⪯ h
	H *mat.VecDense // k inequality bounds
	A *mat.Dense    // p×n equality matrix, Ax = b
	B *mat.VecDense // p equality targets
}

// N returns the number of decision variables.
func (p *Problem) N() int {
	if p.P == nil {
		return 0
	}
	n, _ := p.P.Dims()
	return n
}

// Validate checks the shape coherence of the problem matrices.
func (p *Problem) Validate() error {
	if p.P == nil || p.Q == nil {
		return errors.NewValueError("qp.Problem.Validate", "P and q are required")
	}
	n, c := p.P.Dims()
	if n == 0 || n != c {
		return errors.NewDimensionError("qp.Problem.Validate", n, c, 1)
	}
	if p.Q.Len() != n {
		return errors.NewDimensionError("qp.Problem.Validate", n, p.Q.Len(), 0)
	}
	if p.G != nil {
		gr, gc := p.G.Dims()
		if gc != n {
			return errors.NewDimensionError("qp.Problem.Validate", n, gc, 1)
		}
		if p.H == nil || p.H.Len() != gr {
			got := -1
			if p.H != nil {
				got = p.H.Len()
			}
			return errors.NewDimensionError("qp.Problem.Validate", gr, got, 0)
		}
	}
	if p.A != nil {
		ar, ac := p.A.Dims()
		if ac != n {
			return errors.NewDimensionError("qp.Problem.Validate", n, ac, 1)
		}
		if p.B == nil || p.B.Len() != ar {
			got := -1
			if p.B != nil {
				got = p.B.Len()
			}
			return errors.NewDimensionError("qp.Problem.Validate", ar, got, 0)
		}
	}
	return nil
}

// Solution is the result of a Solve call.
type Solution struct {
	// X is the primal solution vector of length n.
	X *mat.VecDense
	// Status reports how the solver terminated. Callers must treat any
	// status other than StatusOptimal as a failure.
	Status Status
	// Iterations is the number of iterations the solver performed; its
	// granularity is solver-defined.
	Iterations int
}

// Solver solves canonical quadratic programs. Implementations may be
// specialized to a constraint structure and must reject problems outside it
// with an error rather than returning a wrong answer.
type Solver interface {
	Solve(p *Problem) (*Solution, error)
}
