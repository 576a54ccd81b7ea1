package kern

import (
	"math"
)

var (
	matern32 *Matern32
	_        Kernel = matern32 // Check that Matern32 respects the Kernel interface.
)

// Matern32 is alpha² (1 + √3 r) exp(-√3 r). A small constant is added under
// the square root so that the kernel stays differentiable at r = 0.
type Matern32 struct {
	stationary
}

func NewMatern32(lengthscales []float64, alpha, jitter float64) *Matern32 {
	return &Matern32{
		stationary: stationary{
			lengthscales: lengthscales,
			alpha:        alpha,
			jitter:       jitter,
			profile: func(rSq float64) float64 {
				r := math.Sqrt(3 * (rSq + eps))
				return (1 + r) * math.Exp(-r)
			},
		},
	}
}
