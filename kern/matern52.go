package kern

import (
	"math"
)

var (
	matern52 *Matern52
	_        Kernel = matern52 // Check that Matern52 respects the Kernel interface.
)

// Matern52 is alpha² (1 + √5 r + 5r²/3) exp(-√5 r).
type Matern52 struct {
	stationary
}

func NewMatern52(lengthscales []float64, alpha, jitter float64) *Matern52 {
	return &Matern52{
		stationary: stationary{
			lengthscales: lengthscales,
			alpha:        alpha,
			jitter:       jitter,
			profile: func(rSq float64) float64 {
				r := math.Sqrt(5 * rSq)
				return (1 + r + r*r/3) * math.Exp(-r)
			},
		},
	}
}
