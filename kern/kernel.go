package kern

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultJitter is added to the diagonal of kernel matrices.
	DefaultJitter = 1e-5

	eps = 1e-12
)

var (
	ErrInputDims    = errors.New("kern: inputs have different numbers of columns")
	ErrLengthscales = errors.New("kern: lengthscales do not match input dimension")
	ErrAlphas       = errors.New("kern: additive alphas do not match input dimension")
)

// Kernel is a covariance function evaluated on inputs stored row-wise
// (one point per row).
type Kernel interface {
	// Covariance between every row of x1 and every row of x2, N1×N2.
	Matrix(x1, x2 mat.Matrix) *mat.Dense

	// Covariance between row i of x1 and row i of x2, for i < min(N1, N2).
	Diag(x1, x2 mat.Matrix) *mat.VecDense
}

// stationary evaluates alpha² f(r²) on the weighted squared distances.
type stationary struct {
	lengthscales []float64
	alpha        float64
	jitter       float64
	profile      func(rSq float64) float64
}

func (k stationary) Matrix(x1, x2 mat.Matrix) *mat.Dense {
	out := WeightedSquareDistances(x1, x2, k.lengthscales)
	a2 := k.alpha * k.alpha
	out.Apply(func(_, _ int, rSq float64) float64 {
		return a2 * k.profile(rSq)
	}, out)
	return AddJitter(out, k.jitter)
}

func (k stationary) Diag(x1, x2 mat.Matrix) *mat.VecDense {
	out := DiagWeightedSquareDistances(x1, x2, k.lengthscales)
	a2 := k.alpha * k.alpha
	for i := 0; i < out.Len(); i++ {
		out.SetVec(i, a2*k.profile(out.AtVec(i)))
	}
	return addJitterVec(out, k.jitter)
}
