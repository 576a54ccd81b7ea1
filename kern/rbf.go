package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ardRBF *ARDRBF
	_      Kernel = ardRBF // Check that ARDRBF respects the Kernel interface.
)

// RBF1D evaluates alpha² exp(-(x1_i - x2_j)² / (2 rho²)) on scalar inputs.
// No jitter is added.
func RBF1D(x1, x2 []float64, alpha, rho float64) *mat.Dense {
	out := mat.NewDense(len(x1), len(x2), nil)
	a2 := alpha * alpha
	for i, a := range x1 {
		for j, b := range x2 {
			d := a - b
			out.Set(i, j, a2*math.Exp(-d*d/(2*rho*rho)))
		}
	}
	return out
}

// ARDRBF is the squared-exponential kernel with one lengthscale per input
// dimension.
type ARDRBF struct {
	stationary
}

func NewARDRBF(lengthscales []float64, alpha, jitter float64) *ARDRBF {
	return &ARDRBF{
		stationary: stationary{
			lengthscales: lengthscales,
			alpha:        alpha,
			jitter:       jitter,
			profile:      rbfProfile,
		},
	}
}

func rbfProfile(rSq float64) float64 {
	return math.Exp(-0.5 * rSq)
}

// ARDRBFWithGrads evaluates the ARD RBF kernel together with its gradients.
// dLengthscales[d][i,j] is the derivative of K[i,j] with respect to
// lengthscales[d]; dAlpha is the derivative with respect to alpha. Jitter is
// added to K only.
func ARDRBFWithGrads(x1, x2 mat.Matrix, lengthscales []float64, alpha, jitter float64) (
	k *mat.Dense, dLengthscales []*mat.Dense, dAlpha *mat.Dense) {
	checkInputs(x1, x2)
	n1, d := x1.Dims()
	n2, _ := x2.Dims()
	if len(lengthscales) != d {
		panic(ErrLengthscales)
	}

	k = mat.NewDense(n1, n2, nil)
	dAlpha = mat.NewDense(n1, n2, nil)
	dLengthscales = make([]*mat.Dense, d)
	for l := range dLengthscales {
		dLengthscales[l] = mat.NewDense(n1, n2, nil)
	}

	a2 := alpha * alpha
	sqDiff := make([]float64, d)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			exponent := 0.0
			for l := 0; l < d; l++ {
				diff := x1.At(i, l) - x2.At(j, l)
				sqDiff[l] = diff * diff
				exponent += sqDiff[l] / (lengthscales[l] * lengthscales[l])
			}
			e := math.Exp(-0.5 * exponent)
			k.Set(i, j, a2*e)
			dAlpha.Set(i, j, 2*alpha*e)
			for l := 0; l < d; l++ {
				ls := lengthscales[l]
				dLengthscales[l].Set(i, j, a2*e*sqDiff[l]/(ls*ls*ls))
			}
		}
	}
	AddJitter(k, jitter)
	return k, dLengthscales, dAlpha
}
