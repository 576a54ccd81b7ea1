package normal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DiagonalNormal is a Gaussian with independent components.
type DiagonalNormal struct {
	Mean []float64
	Var  []float64
}

func NewDiagonalNormal(mean, variance []float64) *DiagonalNormal {
	if len(mean) != len(variance) {
		panic(ErrShape)
	}
	return &DiagonalNormal{
		Mean: mean,
		Var:  variance,
	}
}

func (d *DiagonalNormal) combine(mean, variance []float64, sign float64) *DiagonalNormal {
	if len(mean) != len(d.Mean) || len(variance) != len(d.Var) {
		panic(ErrShape)
	}
	m := make([]float64, len(mean))
	v := make([]float64, len(mean))
	for i := range m {
		v[i] = 1 / (1/d.Var[i] + sign/variance[i])
		m[i] = v[i] * (d.Mean[i]/d.Var[i] + sign*mean[i]/variance[i])
	}
	return &DiagonalNormal{Mean: m, Var: v}
}

// Multiply returns the renormalized product of d with N(mean, diag(variance)).
func (d *DiagonalNormal) Multiply(mean, variance []float64) *DiagonalNormal {
	return d.combine(mean, variance, 1)
}

// Divide returns the renormalized quotient of d by N(mean, diag(variance)).
func (d *DiagonalNormal) Divide(mean, variance []float64) *DiagonalNormal {
	return d.combine(mean, variance, -1)
}

func (d *DiagonalNormal) String() string {
	return fmt.Sprintf("Normal distribution with mean %v and variance %v.", d.Mean, d.Var)
}

// Curve is a marginal density evaluated on a grid.
type Curve struct {
	X       []float64
	Density []float64
}

// Marginals evaluates every marginal density on points equally spaced
// points covering mean ± 4 sd.
func (d *DiagonalNormal) Marginals(points int) []Curve {
	if points < 2 {
		points = 2
	}
	out := make([]Curve, len(d.Mean))
	for i := range d.Mean {
		sd := math.Sqrt(d.Var[i])
		dist := distuv.Normal{Mu: d.Mean[i], Sigma: sd}
		lower, upper := d.Mean[i]-4*sd, d.Mean[i]+4*sd
		c := Curve{X: make([]float64, points), Density: make([]float64, points)}
		step := (upper - lower) / float64(points-1)
		for j := range c.X {
			c.X[j] = lower + float64(j)*step
			c.Density[j] = dist.Prob(c.X[j])
		}
		out[i] = c
	}
	return out
}
