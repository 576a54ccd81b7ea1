package fitters

import (
	"gonum.org/v1/gonum/mat"

	"github.com/silky/ml-tools/normal"
)

// Recursive is a Bayesian linear regression fitted one observation at a
// time. Each sample y ~ N(h·θ, noise) is folded into the running Gaussian
// posterior over θ with a Kalman update, and the negative log marginal
// likelihood of the data seen so far is accumulated in Energy.
//
// A Recursive is not safe for concurrent use.
type Recursive struct {
	mean   *mat.VecDense
	cov    *mat.SymDense
	Energy float64
	Hs     [][]float64 // Samples' measurement vectors.
	Ys     []float64   // Samples' observed values.
	Ns     []float64   // Samples' noise variances.
	Ms     []float64   // One-step predictive means.
	Vs     []float64   // One-step predictive variances.
}

func NewRecursive(priorMean mat.Vector, priorCov mat.Symmetric) *Recursive {
	n := priorMean.Len()
	if priorCov.SymmetricDim() != n {
		panic(normal.ErrShape)
	}
	cov := mat.NewSymDense(n, nil)
	cov.CopySym(priorCov)
	return &Recursive{
		mean: mat.VecDenseCopyOf(priorMean),
		cov:  cov,
		Hs:   make([][]float64, 0, 10),
		Ys:   make([]float64, 0, 10),
		Ns:   make([]float64, 0, 10),
		Ms:   make([]float64, 0, 10),
		Vs:   make([]float64, 0, 10),
	}
}

// AddSample updates the posterior with the observation y of h·θ under
// Gaussian noise of the given variance.
func (f *Recursive) AddSample(h []float64, y, noise float64) error {
	if len(h) != f.mean.Len() {
		panic(normal.ErrShape)
	}
	m, v := f.Predict(h)
	up, err := normal.LinearRegressionOnlineUpdate(f.mean, f.cov, mat.NewVecDense(len(h), h), y, noise)
	if err != nil {
		return err
	}
	f.mean, f.cov = up.Mean, up.Cov
	f.Energy += up.Energy
	f.Hs = append(f.Hs, append([]float64(nil), h...))
	f.Ys = append(f.Ys, y)
	f.Ns = append(f.Ns, noise)
	f.Ms = append(f.Ms, m)
	f.Vs = append(f.Vs, v)
	return nil
}

// Predict returns the mean and variance of h·θ under the current posterior,
// without observation noise.
func (f *Recursive) Predict(h []float64) (mean, variance float64) {
	if len(h) != f.mean.Len() {
		panic(normal.ErrShape)
	}
	hv := mat.NewVecDense(len(h), h)
	var ph mat.VecDense
	ph.MulVec(f.cov, hv)
	return mat.Dot(hv, f.mean), mat.Dot(hv, &ph)
}

// Mean returns a copy of the posterior mean.
func (f *Recursive) Mean() *mat.VecDense {
	return mat.VecDenseCopyOf(f.mean)
}

// Cov returns a copy of the posterior covariance.
func (f *Recursive) Cov() *mat.SymDense {
	out := mat.NewSymDense(f.cov.SymmetricDim(), nil)
	out.CopySym(f.cov)
	return out
}
