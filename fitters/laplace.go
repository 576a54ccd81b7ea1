package fitters

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/silky/ml-tools/linalg"
)

// Laplace is a Gaussian approximation to a posterior, centred at its mode
// with covariance equal to the inverse Hessian of the negative log posterior.
type Laplace struct {
	Mean    []float64
	Cov     *mat.SymDense
	Success bool
	Status  optimize.Status
}

// FitLaplaceApproximation finds the mode of the negative log posterior in
// problem starting from start, then inverts the Hessian there. Success
// reports whether the optimizer converged; a failed optimization still
// returns the approximation at the last location, including when the
// iteration limit stops it early. An error is returned when
// the Hessian at that location is not positive definite.
func FitLaplaceApproximation(problem optimize.Problem, start []float64, opts ...Option) (*Laplace, error) {
	o := newOptions(opts)
	p, err := complete(problem)
	if err != nil {
		return nil, err
	}
	if p.Func == nil {
		return nil, ErrNoObjective
	}

	method := o.method
	if method == nil {
		method = &optimize.Newton{}
	}
	settings := &optimize.Settings{
		MajorIterations: o.maxIter,
	}
	if o.toleranceSet {
		settings.GradientThreshold = o.tolerance
	}

	result, optErr := optimize.Minimize(p, start, settings, method)
	if result == nil {
		return nil, fmt.Errorf("laplace: %w", optErr)
	}
	if o.logger != nil {
		o.logger.Debug("laplace mode found",
			"status", result.Status.String(),
			"major_iterations", result.Stats.MajorIterations,
			"func_evaluations", result.Stats.FuncEvaluations,
			"objective", result.F,
		)
	}

	mode := append([]float64(nil), result.X...)
	hess := mat.NewSymDense(len(mode), nil)
	p.Hess(hess, mode)

	out := &Laplace{
		Mean:    mode,
		Success: optErr == nil && !result.Status.Early(),
		Status:  result.Status,
	}
	cov, err := linalg.CholeskyInverse(hess)
	if err != nil {
		return out, fmt.Errorf("laplace: hessian at mode: %w", err)
	}
	out.Cov = cov
	return out, nil
}
