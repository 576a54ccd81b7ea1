package normal

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/silky/ml-tools/linalg"
)

// CovarToCorr turns a covariance matrix into a correlation matrix.
func CovarToCorr(cov mat.Symmetric) *mat.SymDense {
	n := cov.SymmetricDim()
	sd := make([]float64, n)
	for i := range sd {
		sd[i] = math.Sqrt(cov.At(i, i))
	}
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, cov.At(i, j)/(sd[i]*sd[j]))
		}
	}
	return out
}

// Conditional is the distribution of x given y.
type Conditional struct {
	Mean *mat.VecDense
	Cov  *mat.SymDense
}

// ConditionalMeanAndCov conditions the joint Gaussian
//
//	[x, y] ~ N([muX, muY], [[A, C], [Cᵀ, B]])
//
// on an observed y, following the appendix of Quiñonero-Candela and
// Rasmussen (2005):
//
//	mean = muX + C B⁻¹ (y - muY)
//	cov  = A - C B⁻¹ Cᵀ
func ConditionalMeanAndCov(muX, muY, y mat.Vector, a mat.Symmetric, c mat.Matrix, b mat.Symmetric) (
	*Conditional, error) {
	nx, ny := muX.Len(), muY.Len()
	cr, cc := c.Dims()
	if y.Len() != ny || a.SymmetricDim() != nx || b.SymmetricDim() != ny || cr != nx || cc != ny {
		panic(ErrShape)
	}

	chol, err := linalg.Cholesky(b)
	if err != nil {
		return nil, err
	}

	var diff, sol mat.VecDense
	diff.SubVec(y, muY)
	if err := chol.SolveVecTo(&sol, &diff); err != nil {
		return nil, err
	}
	mean := mat.VecDenseCopyOf(muX)
	var shift mat.VecDense
	shift.MulVec(c, &sol)
	mean.AddVec(mean, &shift)

	var bInvCt, reduction mat.Dense
	if err := chol.SolveTo(&bInvCt, c.T()); err != nil {
		return nil, err
	}
	reduction.Mul(c, &bInvCt)
	var cov mat.Dense
	cov.Sub(a, &reduction)

	return &Conditional{Mean: mean, Cov: linalg.Symmetrize(&cov)}, nil
}

// ConjugateUpdateUnivariate returns the posterior of θ for
//
//	θ ~ N(priorMu, priorVar),  y | θ ~ N(likMu, likVar).
func ConjugateUpdateUnivariate(priorMu, priorVar, likMu, likVar float64) (mean, variance float64) {
	priorPrec := 1 / priorVar
	likPrec := 1 / likVar
	prec := priorPrec + likPrec
	variance = 1 / prec
	mean = variance * (priorMu*priorPrec + likMu*likPrec)
	return mean, variance
}

// OnlineUpdate is the result of one Kalman-style update of a linear model.
type OnlineUpdate struct {
	Mean *mat.VecDense
	Cov  *mat.SymDense
	// Energy is this observation's contribution to the negative log
	// marginal likelihood: ½ log(2πS) + ½ v²/S.
	Energy float64
}

// LinearRegressionOnlineUpdate folds the scalar observation
//
//	y ~ N(h·θ, varObs)
//
// into the prior θ ~ N(mean, cov):
//
//	S = hᵀ P h + varObs,  K = P h / S
//	m' = m + K (y - h·m),  P' = P - S K Kᵀ
func LinearRegressionOnlineUpdate(mean mat.Vector, cov mat.Symmetric, h mat.Vector, y, varObs float64) (
	*OnlineUpdate, error) {
	n := mean.Len()
	if cov.SymmetricDim() != n || h.Len() != n {
		panic(ErrShape)
	}

	var ph mat.VecDense
	ph.MulVec(cov, h)
	s := mat.Dot(h, &ph) + varObs
	if !(s > 0) {
		return nil, linalg.ErrNotPositiveDefinite
	}
	v := y - mat.Dot(h, mean)

	var gain mat.VecDense
	gain.ScaleVec(1/s, &ph)

	m := mat.VecDenseCopyOf(mean)
	m.AddScaledVec(m, v, &gain)

	p := mat.NewSymDense(n, nil)
	p.CopySym(cov)
	p.SymRankOne(p, -s, &gain)

	energy := 0.5*math.Log(2*math.Pi*s) + 0.5*v*v/s
	return &OnlineUpdate{Mean: m, Cov: p, Energy: energy}, nil
}
