package normal

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/silky/ml-tools/linalg"
)

// LogPDFZeroMeanFromPrecision is the log density of N(0, P⁻¹) at x.
func LogPDFZeroMeanFromPrecision(x mat.Vector, precision mat.Symmetric) (float64, error) {
	n := precision.SymmetricDim()
	if x.Len() != n {
		panic(ErrShape)
	}
	logdet, err := linalg.LogdetViaCholesky(precision)
	if err != nil {
		return math.NaN(), err
	}
	var px mat.VecDense
	px.MulVec(precision, x)
	return 0.5*(logdet-float64(n)*math.Log(2*math.Pi)) - 0.5*mat.Dot(x, &px), nil
}

// LogPDF is the log density of N(0, cov) at x.
func LogPDF(x []float64, cov mat.Symmetric) (float64, error) {
	n := cov.SymmetricDim()
	if len(x) != n {
		panic(ErrShape)
	}
	dist, ok := distmv.NewNormal(make([]float64, n), cov, nil)
	if !ok {
		return math.NaN(), linalg.ErrNotPositiveDefinite
	}
	return dist.LogProb(x), nil
}
