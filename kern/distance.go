package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// scaleInputs divides every column of x by its lengthscale.
func scaleInputs(x mat.Matrix, lengthscales []float64) *mat.Dense {
	n, d := x.Dims()
	if d != len(lengthscales) {
		panic(ErrLengthscales)
	}
	z := mat.NewDense(n, d, nil)
	z.Apply(func(_, j int, v float64) float64 {
		return v / lengthscales[j]
	}, x)
	return z
}

func rowSquaredNorms(z *mat.Dense) []float64 {
	n, _ := z.Dims()
	out := make([]float64, n)
	for i := range out {
		row := z.RawRowView(i)
		for _, v := range row {
			out[i] += v * v
		}
	}
	return out
}

func checkInputs(x1, x2 mat.Matrix) {
	_, d1 := x1.Dims()
	_, d2 := x2.Dims()
	if d1 != d2 {
		panic(ErrInputDims)
	}
}

// WeightedSquareDistances returns the N1×N2 matrix of squared distances
// between the rows of x1 and x2 after dividing each input dimension by its
// lengthscale. Round-off can push the expanded form below zero, so entries
// are clamped at 0.
func WeightedSquareDistances(x1, x2 mat.Matrix, lengthscales []float64) *mat.Dense {
	checkInputs(x1, x2)
	z1 := scaleInputs(x1, lengthscales)
	z2 := scaleInputs(x2, lengthscales)
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()

	// r² = |z1|² - 2 z1·z2 + |z2|²
	out := mat.NewDense(n1, n2, nil)
	out.Mul(z1, z2.T())
	sq1 := rowSquaredNorms(z1)
	sq2 := rowSquaredNorms(z2)
	out.Apply(func(i, j int, v float64) float64 {
		return math.Max(sq1[i]-2*v+sq2[j], 0)
	}, out)
	return out
}

// DiagWeightedSquareDistances returns the weighted squared distance between
// row i of x1 and row i of x2 for i < min(N1, N2).
func DiagWeightedSquareDistances(x1, x2 mat.Matrix, lengthscales []float64) *mat.VecDense {
	checkInputs(x1, x2)
	z1 := scaleInputs(x1, lengthscales)
	z2 := scaleInputs(x2, lengthscales)
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()
	n := min(n1, n2)
	if n == 0 {
		return &mat.VecDense{}
	}
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		a, b := z1.RawRowView(i), z2.RawRowView(i)
		var norms, cross float64
		for d := range a {
			norms += a[d]*a[d] + b[d]*b[d]
			cross += a[d] * b[d]
		}
		out.SetVec(i, math.Max(norms-2*cross, 0))
	}
	return out
}

// AddJitter adds jitter to the first min(N1, N2) diagonal entries of k in
// place and returns k.
func AddJitter(k *mat.Dense, jitter float64) *mat.Dense {
	if jitter == 0 {
		return k
	}
	r, c := k.Dims()
	for i := 0; i < min(r, c); i++ {
		k.Set(i, i, k.At(i, i)+jitter)
	}
	return k
}

func addJitterVec(v *mat.VecDense, jitter float64) *mat.VecDense {
	if jitter == 0 {
		return v
	}
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, v.AtVec(i)+jitter)
	}
	return v
}
