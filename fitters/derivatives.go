package fitters

import (
	"errors"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

var ErrNoObjective = errors.New("fitters: problem has neither an objective nor the required derivatives")

// complete fills in a missing gradient or Hessian with central finite
// differences of the objective.
func complete(p optimize.Problem) (optimize.Problem, error) {
	if p.Grad == nil {
		if p.Func == nil {
			return p, ErrNoObjective
		}
		f := p.Func
		p.Grad = func(grad, x []float64) {
			fd.Gradient(grad, f, x, &fd.Settings{Formula: fd.Central})
		}
	}
	if p.Hess == nil {
		if p.Func == nil {
			return p, ErrNoObjective
		}
		f := p.Func
		p.Hess = func(hess *mat.SymDense, x []float64) {
			fd.Hessian(hess, f, x, nil)
		}
	}
	return p, nil
}

// ForwardGradVector differentiates a matrix-valued function along every
// coordinate direction of x. The i-th returned matrix holds ∂f/∂x_i, so the
// result is the Jacobian stacked along a trailing axis.
func ForwardGradVector(f func(x []float64) *mat.Dense, x []float64) []*mat.Dense {
	r, c := f(x).Dims()
	flat := func(y, x []float64) {
		out := f(x)
		for i := 0; i < r; i++ {
			copy(y[i*c:(i+1)*c], out.RawRowView(i))
		}
	}
	jac := mat.NewDense(r*c, len(x), nil)
	fd.Jacobian(jac, flat, x, &fd.JacobianSettings{Formula: fd.Central})

	out := make([]*mat.Dense, len(x))
	for k := range out {
		d := mat.NewDense(r, c, nil)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				d.Set(i, j, jac.At(i*c+j, k))
			}
		}
		out[k] = d
	}
	return out
}
