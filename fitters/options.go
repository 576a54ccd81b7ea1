package fitters

import (
	"log/slog"

	"gonum.org/v1/gonum/optimize"
)

const (
	DefaultTolerance = 1e-5
	DefaultMaxIter   = 100
)

type options struct {
	tolerance    float64
	toleranceSet bool
	maxIter      int
	solver       Solver
	logger       *slog.Logger
	method       optimize.Method
}

func newOptions(opts []Option) *options {
	o := &options{
		tolerance: DefaultTolerance,
		maxIter:   DefaultMaxIter,
		solver:    SolveCholesky,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures NewtonOptimize and FitLaplaceApproximation.
type Option func(*options)

// WithTolerance sets the convergence threshold. For NewtonOptimize it bounds
// the norm of the step; for FitLaplaceApproximation, the gradient norm.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
		o.toleranceSet = true
	}
}

// WithMaxIter bounds the number of iterations.
func WithMaxIter(n int) Option {
	return func(o *options) {
		o.maxIter = n
	}
}

// WithSolver replaces the linear solver used for Newton steps.
func WithSolver(s Solver) Option {
	return func(o *options) {
		o.solver = s
	}
}

// WithLogger enables debug logging of every iteration.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMethod selects the optimizer used to locate the mode in
// FitLaplaceApproximation. The default is Newton's method.
func WithMethod(m optimize.Method) Option {
	return func(o *options) {
		o.method = m
	}
}
