package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	bias *Bias
	_    Kernel = bias // Check that Bias respects the Kernel interface.
)

// Bias is the constant kernel sd², independent of the inputs.
type Bias struct {
	variance float64
	jitter   float64
}

func NewBias(sd, jitter float64) *Bias {
	return &Bias{
		variance: sd * sd,
		jitter:   jitter,
	}
}

func (k *Bias) Matrix(x1, x2 mat.Matrix) *mat.Dense {
	n1, _ := x1.Dims()
	n2, _ := x2.Dims()
	data := make([]float64, n1*n2)
	for i := range data {
		data[i] = k.variance
	}
	return AddJitter(mat.NewDense(n1, n2, data), k.jitter)
}

func (k *Bias) Diag(x1, x2 mat.Matrix) *mat.VecDense {
	n1, _ := x1.Dims()
	n2, _ := x2.Dims()
	n := min(n1, n2)
	if n == 0 {
		return &mat.VecDense{}
	}
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, k.variance+k.jitter)
	}
	return out
}
