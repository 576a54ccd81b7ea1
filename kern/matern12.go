package kern

import (
	"math"
)

var (
	matern12 *Matern12
	_        Kernel = matern12 // Check that Matern12 respects the Kernel interface.
)

// Matern12 is the exponential kernel alpha² exp(-r).
type Matern12 struct {
	stationary
}

func NewMatern12(lengthscales []float64, alpha, jitter float64) *Matern12 {
	return &Matern12{
		stationary: stationary{
			lengthscales: lengthscales,
			alpha:        alpha,
			jitter:       jitter,
			profile: func(rSq float64) float64 {
				return math.Exp(-math.Sqrt(rSq))
			},
		},
	}
}
