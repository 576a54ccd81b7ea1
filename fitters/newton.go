package fitters

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/silky/ml-tools/linalg"
)

var ErrNotConverged = errors.New("fitters: optimizer did not converge")

// Solver solves h x = g for the Newton step x.
type Solver func(h mat.Symmetric, g mat.Vector) (*mat.VecDense, error)

// SolveCholesky solves through a Cholesky factorization, falling back to LU
// when h is not positive definite.
func SolveCholesky(h mat.Symmetric, g mat.Vector) (*mat.VecDense, error) {
	var x mat.VecDense
	var chol mat.Cholesky
	if chol.Factorize(h) {
		if err := chol.SolveVecTo(&x, g); err == nil {
			return &x, nil
		}
	}
	if err := x.SolveVec(h, g); err != nil {
		return nil, fmt.Errorf("%w: %v", linalg.ErrSingular, err)
	}
	return &x, nil
}

// NewtonResult is the outcome of NewtonOptimize.
type NewtonResult struct {
	X          []float64
	Iterations int
	// Difference is the norm of the last step.
	Difference float64
	Converged  bool
}

// NewtonOptimize iterates x ← x - H(x)⁻¹ ∇f(x) from start until the step
// norm drops to the tolerance. A nil gradient or Hessian is approximated by
// finite differences of problem.Func. When the iteration limit is reached the
// last iterate is returned together with ErrNotConverged.
func NewtonOptimize(problem optimize.Problem, start []float64, opts ...Option) (*NewtonResult, error) {
	o := newOptions(opts)
	p, err := complete(problem)
	if err != nil {
		return nil, err
	}

	n := len(start)
	x := append([]float64(nil), start...)
	grad := make([]float64, n)
	hess := mat.NewSymDense(n, nil)

	res := &NewtonResult{X: x, Difference: math.Inf(1)}
	for res.Difference > o.tolerance {
		if res.Iterations >= o.maxIter {
			return res, fmt.Errorf("%w after %d iterations (step norm %g)",
				ErrNotConverged, res.Iterations, res.Difference)
		}
		p.Grad(grad, x)
		p.Hess(hess, x)
		step, err := o.solver(hess, mat.NewVecDense(n, grad))
		if err != nil {
			return res, fmt.Errorf("newton step %d: %w", res.Iterations+1, err)
		}
		floats.Sub(x, step.RawVector().Data)
		res.Difference = mat.Norm(step, 2)
		res.Iterations++

		if o.logger != nil {
			attrs := []any{
				"iteration", res.Iterations,
				"step_norm", res.Difference,
				"condition", conditionNumber(hess),
			}
			if p.Func != nil {
				attrs = append(attrs, "objective", p.Func(x))
			}
			o.logger.Debug("newton iteration", attrs...)
		}
		if math.IsNaN(res.Difference) {
			return res, fmt.Errorf("%w: step is NaN", ErrNotConverged)
		}
	}
	res.Converged = true
	return res, nil
}

// conditionNumber is the ratio of the extreme eigenvalues of h.
func conditionNumber(h mat.Symmetric) float64 {
	var eig mat.EigenSym
	if ok := eig.Factorize(h, false); !ok {
		return math.NaN()
	}
	vals := eig.Values(nil)
	return floats.Max(vals) / floats.Min(vals)
}
