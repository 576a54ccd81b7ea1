package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	additive *Additive
	_        Kernel = additive // Check that Additive respects the Kernel interface.
)

// BaseFunc builds a one-dimensional base kernel for the additive kernel.
// NewARDRBF, NewMatern12, NewMatern32 and NewMatern52 all qualify.
type BaseFunc[K Kernel] func(lengthscales []float64, alpha, jitter float64) K

// Additive is the additive kernel of Duvenaud et al. (2011): a base kernel
// is evaluated on every input dimension separately and the D results are
// combined into the elementary symmetric polynomials of orders 1..N, which
// are then weighted by the additive alphas.
type Additive struct {
	lengthscales   []float64
	additiveAlphas []float64
	kernelAlphas   []float64
	jitter         float64
	base           func(lengthscale, alpha, jitter float64) Kernel
}

func NewAdditive[K Kernel](base BaseFunc[K], lengthscales, additiveAlphas, kernelAlphas []float64,
	jitter float64) *Additive {
	if len(kernelAlphas) != len(lengthscales) {
		panic(ErrLengthscales)
	}
	if len(additiveAlphas) == 0 {
		panic(ErrAlphas)
	}
	return &Additive{
		lengthscales:   lengthscales,
		additiveAlphas: additiveAlphas,
		kernelAlphas:   kernelAlphas,
		jitter:         jitter,
		base: func(lengthscale, alpha, jitter float64) Kernel {
			return base([]float64{lengthscale}, alpha, jitter)
		},
	}
}

func (k *Additive) check(x1, x2 mat.Matrix) {
	checkInputs(x1, x2)
	if _, d := x1.Dims(); d != len(k.lengthscales) {
		panic(ErrLengthscales)
	}
}

func column(x mat.Matrix, j int) *mat.Dense {
	n, _ := x.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, x.At(i, j))
	}
	return out
}

func (k *Additive) Matrix(x1, x2 mat.Matrix) *mat.Dense {
	k.check(x1, x2)
	parts := make([]*mat.Dense, len(k.lengthscales))
	for d := range parts {
		base := k.base(k.lengthscales[d], k.kernelAlphas[d], k.jitter)
		parts[d] = base.Matrix(column(x1, d), column(x2, d))
	}
	orders := NewtonGirard(parts, len(k.additiveAlphas))
	r, c := orders[0].Dims()
	out := mat.NewDense(r, c, nil)
	var scaled mat.Dense
	for n, e := range orders {
		scaled.Scale(k.additiveAlphas[n], e)
		out.Add(out, &scaled)
	}
	return out
}

func (k *Additive) Diag(x1, x2 mat.Matrix) *mat.VecDense {
	k.check(x1, x2)
	parts := make([][]float64, len(k.lengthscales))
	for d := range parts {
		base := k.base(k.lengthscales[d], k.kernelAlphas[d], k.jitter)
		parts[d] = base.Diag(column(x1, d), column(x2, d)).RawVector().Data
	}
	if len(parts[0]) == 0 {
		return &mat.VecDense{}
	}
	orders := newtonGirard(parts, len(k.additiveAlphas))
	out := make([]float64, len(parts[0]))
	for n, e := range orders {
		for i := range out {
			out[i] += k.additiveAlphas[n] * e[i]
		}
	}
	return mat.NewVecDense(len(out), out)
}

// NewtonGirard returns the elementary symmetric polynomials e_1..e_n of the
// given matrices, evaluated elementwise. All parts must have the same shape.
func NewtonGirard(parts []*mat.Dense, n int) []*mat.Dense {
	if len(parts) == 0 {
		panic(ErrInputDims)
	}
	r, c := parts[0].Dims()
	raw := make([][]float64, len(parts))
	for d, p := range parts {
		pr, pc := p.Dims()
		if pr != r || pc != c {
			panic(ErrInputDims)
		}
		raw[d] = mat.DenseCopyOf(p).RawMatrix().Data
	}
	polys := newtonGirard(raw, n)
	out := make([]*mat.Dense, n)
	for i, e := range polys {
		out[i] = mat.NewDense(r, c, e)
	}
	return out
}

// newtonGirard uses the identity
//
//	e_n = (1/n) Σ_{k=1..n} (-1)^(k-1) e_{n-k} p_k
//
// with power sums p_k = Σ_d x_d^k and e_0 = 1.
func newtonGirard(parts [][]float64, n int) [][]float64 {
	size := len(parts[0])
	power := make([][]float64, n+1)
	cur := make([][]float64, len(parts))
	for d := range parts {
		cur[d] = make([]float64, size)
		for i := range cur[d] {
			cur[d][i] = 1
		}
	}
	for k := 1; k <= n; k++ {
		power[k] = make([]float64, size)
		for d := range parts {
			for i := range cur[d] {
				cur[d][i] *= parts[d][i]
				power[k][i] += cur[d][i]
			}
		}
	}

	e := make([][]float64, n+1)
	e[0] = make([]float64, size)
	for i := range e[0] {
		e[0][i] = 1
	}
	for m := 1; m <= n; m++ {
		e[m] = make([]float64, size)
		sign := 1.0
		for k := 1; k <= m; k++ {
			for i := range e[m] {
				e[m][i] += sign * e[m-k][i] * power[k][i]
			}
			sign = -sign
		}
		for i := range e[m] {
			e[m][i] /= float64(m)
		}
	}
	return e[1:]
}
