package fitters

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/silky/ml-tools/linalg"
)

var ErrLabels = errors.New("fitters: labels must be -1 or +1")

// Series and rational-approximation coefficients for log Φ near zero and
// far in the lower tail (Rasmussen & Williams, GPML logphi).
var (
	logPhiSeries = []float64{
		0.00048204, -0.00142906, 0.0013200243174, 0.0009461589032,
		-0.0045563339802, 0.00556964649138, 0.00125993961762116,
		-0.01621575378835404, 0.02629651521057465, -0.001829764677455021,
		-0.09439510239319526, 0.28613578213673563, 1.0, 1.0}
	logPhiTailNum = []float64{
		1.2753666447299659525, 5.019049726784267463450, 6.1602098531096305441,
		7.409740605964741794425, 2.9788656263939928886}
	logPhiTailDen = []float64{
		2.260528520767326969592, 9.3960340162350541504,
		12.048951927855129036034, 17.081440747466004316,
		9.608965327192787870698, 3.3690752069827527677}
)

const invSqrt2Pi = 1 / (math.Sqrt2 * math.SqrtPi)

// LogPhi returns log Φ(z) and its derivative φ(z)/Φ(z), where Φ and φ are
// the standard normal CDF and density. It stays finite for very negative z.
func LogPhi(z float64) (logCDF, ratio float64) {
	switch {
	case z*z < 0.0492:
		coef := -z * invSqrt2Pi
		val := 0.0
		for _, c := range logPhiSeries {
			val = coef * (c + val)
		}
		logCDF = -2*val - math.Ln2
		ratio = math.Exp(-z*z/2-logCDF) * invSqrt2Pi
	case z < -11.3137:
		num := 0.5641895835477550741
		for _, r := range logPhiTailNum {
			num = -z*num/math.Sqrt2 + r
		}
		den := 1.0
		for _, q := range logPhiTailDen {
			den = -z*den/math.Sqrt2 + q
		}
		logCDF = math.Log(num/(2*den)) - z*z/2
		ratio = math.Abs(den/num) * math.Sqrt(2/math.Pi)
	default:
		logCDF = math.Log(distuv.UnitNormal.CDF(z))
		ratio = math.Exp(-z*z/2-logCDF) * invSqrt2Pi
	}
	return logCDF, ratio
}

// ProbitClassification is the negative log posterior of latent values f
// under the prior N(0, k) and the likelihood Π Φ(yᵢ fᵢ) with labels
// yᵢ ∈ {-1, +1}. Gradient and Hessian are exact, so the problem can be
// handed to FitLaplaceApproximation directly.
func ProbitClassification(k mat.Symmetric, labels []float64) (optimize.Problem, error) {
	n := k.SymmetricDim()
	if len(labels) != n {
		panic(linalg.ErrShape)
	}
	for _, y := range labels {
		if y != 1 && y != -1 {
			return optimize.Problem{}, ErrLabels
		}
	}
	kinv, err := linalg.CholeskyInverse(k)
	if err != nil {
		return optimize.Problem{}, err
	}
	ys := append([]float64(nil), labels...)

	prior := func(f []float64) *mat.VecDense {
		var kf mat.VecDense
		kf.MulVec(kinv, mat.NewVecDense(n, f))
		return &kf
	}

	return optimize.Problem{
		Func: func(f []float64) float64 {
			total := 0.5 * mat.Dot(mat.NewVecDense(n, f), prior(f))
			for i, y := range ys {
				lp, _ := LogPhi(y * f[i])
				total -= lp
			}
			return total
		},
		Grad: func(grad, f []float64) {
			copy(grad, prior(f).RawVector().Data)
			for i, y := range ys {
				_, r := LogPhi(y * f[i])
				grad[i] -= y * r
			}
		},
		Hess: func(hess *mat.SymDense, f []float64) {
			hess.CopySym(kinv)
			for i, y := range ys {
				z := y * f[i]
				_, r := LogPhi(z)
				hess.SetSym(i, i, hess.At(i, i)+r*(z+r))
			}
		},
	}, nil
}
