package kern

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/silky/ml-tools/linalg"
)

const tol = 1e-10

var (
	xa = mat.NewDense(4, 2, []float64{
		0.0, 1.0,
		0.5, -0.2,
		1.3, 0.4,
		-0.7, 2.0,
	})
	xb = mat.NewDense(3, 2, []float64{
		0.1, 0.9,
		1.0, 1.0,
		-2.0, 0.3,
	})
	ls = []float64{0.8, 1.7}
)

func assertMatEqual(t *testing.T, want, got mat.Matrix, delta float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, wr, gr, "rows")
	require.Equal(t, wc, gc, "cols")
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), delta, "element [%d,%d]", i, j)
		}
	}
}

func bruteSqDist(x1, x2 mat.Matrix, i, j int, lengthscales []float64) float64 {
	total := 0.0
	for d, l := range lengthscales {
		diff := (x1.At(i, d) - x2.At(j, d)) / l
		total += diff * diff
	}
	return total
}

func TestWeightedSquareDistances(t *testing.T) {
	got := WeightedSquareDistances(xa, xb, ls)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, bruteSqDist(xa, xb, i, j, ls), got.At(i, j), tol)
		}
	}
	self := WeightedSquareDistances(xa, xa, ls)
	for i := 0; i < 4; i++ {
		assert.GreaterOrEqual(t, self.At(i, i), 0.0)
		assert.InDelta(t, 0, self.At(i, i), tol)
	}
}

func TestDiagWeightedSquareDistances(t *testing.T) {
	got := DiagWeightedSquareDistances(xa, xb, ls)
	require.Equal(t, 3, got.Len())
	for i := 0; i < 3; i++ {
		assert.InDelta(t, bruteSqDist(xa, xb, i, i, ls), got.AtVec(i), tol)
	}
}

func TestMismatchedInputsPanic(t *testing.T) {
	assert.PanicsWithValue(t, ErrInputDims, func() {
		WeightedSquareDistances(xa, mat.NewDense(2, 3, nil), ls)
	})
	assert.PanicsWithValue(t, ErrLengthscales, func() {
		WeightedSquareDistances(xa, xb, []float64{1})
	})
	assert.PanicsWithValue(t, ErrLengthscales, func() {
		ARDRBFWithGrads(xa, xb, []float64{1, 2, 3}, 1, 0)
	})
}

func TestRBF1D(t *testing.T) {
	x1 := []float64{0, 1, 2.5}
	x2 := []float64{0.5, -1}
	const alpha, rho = 1.3, 0.7
	got := RBF1D(x1, x2, alpha, rho)
	for i, a := range x1 {
		for j, b := range x2 {
			want := alpha * alpha * math.Exp(-(a-b)*(a-b)/(2*rho*rho))
			assert.InDelta(t, want, got.At(i, j), tol)
		}
	}

	// Agrees with the ARD kernel in one dimension.
	ard := NewARDRBF([]float64{rho}, alpha, 0).Matrix(
		mat.NewDense(3, 1, x1), mat.NewDense(2, 1, x2))
	assertMatEqual(t, got, ard, tol)
}

func TestStationaryKernels(t *testing.T) {
	const alpha = 1.4
	sqrt3, sqrt5 := math.Sqrt(3), math.Sqrt(5)
	for _, tc := range []struct {
		name    string
		kernel  Kernel
		profile func(r float64) float64
	}{
		{"rbf", NewARDRBF(ls, alpha, 0), func(r float64) float64 {
			return math.Exp(-0.5 * r * r)
		}},
		{"matern12", NewMatern12(ls, alpha, 0), func(r float64) float64 {
			return math.Exp(-r)
		}},
		{"matern32", NewMatern32(ls, alpha, 0), func(r float64) float64 {
			return (1 + sqrt3*r) * math.Exp(-sqrt3*r)
		}},
		{"matern52", NewMatern52(ls, alpha, 0), func(r float64) float64 {
			return (1 + sqrt5*r + 5*r*r/3) * math.Exp(-sqrt5*r)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.kernel.Matrix(xa, xb)
			for i := 0; i < 4; i++ {
				for j := 0; j < 3; j++ {
					r := math.Sqrt(bruteSqDist(xa, xb, i, j, ls))
					assert.InDelta(t, alpha*alpha*tc.profile(r), got.At(i, j), 1e-6)
				}
			}
		})
	}
}

func TestStationaryKernelsAtZeroDistance(t *testing.T) {
	// Integer inputs keep the expanded distance form exact.
	x := mat.NewDense(2, 2, []float64{0, 1, 2, 3})
	for name, k := range map[string]Kernel{
		"matern12": NewMatern12([]float64{1, 1}, 2, 0),
		"matern52": NewMatern52([]float64{1, 1}, 2, 0),
	} {
		assert.Equal(t, 4.0, k.Matrix(x, x).At(1, 1), name)
		assert.Equal(t, 4.0, k.Diag(x, x).AtVec(0), name)
	}

	for name, k := range map[string]Kernel{
		"rbf":      NewARDRBF(ls, 2, 0),
		"matern12": NewMatern12(ls, 2, 0),
		"matern52": NewMatern52(ls, 2, 0),
	} {
		t.Run(name, func(t *testing.T) {
			m := k.Matrix(xa, xa)
			for i := 0; i < 4; i++ {
				assert.InDelta(t, 4.0, m.At(i, i), 1e-6)
			}
		})
	}
}

func TestKernelsSymmetricAndPositiveDefinite(t *testing.T) {
	for name, k := range map[string]Kernel{
		"rbf":      NewARDRBF(ls, 1, DefaultJitter),
		"matern12": NewMatern12(ls, 1, DefaultJitter),
		"matern32": NewMatern32(ls, 1, DefaultJitter),
		"matern52": NewMatern52(ls, 1, DefaultJitter),
		"bias":     NewBias(0.5, DefaultJitter),
		"sum":      NewSum(NewARDRBF(ls, 1, DefaultJitter), NewBias(0.3, 0)),
		"additive": NewAdditive(NewARDRBF, ls, []float64{0.6, 0.4}, []float64{1, 1}, DefaultJitter),
	} {
		t.Run(name, func(t *testing.T) {
			m := k.Matrix(xa, xa)
			n, _ := m.Dims()
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					assert.InDelta(t, m.At(i, j), m.At(j, i), tol)
				}
			}
			_, err := linalg.Cholesky(m)
			require.NoError(t, err)
		})
	}
}

func TestDiagMatchesMatrix(t *testing.T) {
	for name, k := range map[string]Kernel{
		"rbf":      NewARDRBF(ls, 1.2, DefaultJitter),
		"matern32": NewMatern32(ls, 0.9, DefaultJitter),
		"bias":     NewBias(2, DefaultJitter),
		"sum":      NewSum(NewMatern12(ls, 1, 0), NewBias(1, DefaultJitter)),
		"additive": NewAdditive(NewMatern32, ls, []float64{0.5, 0.5}, []float64{1.1, 0.7}, 0),
	} {
		t.Run(name, func(t *testing.T) {
			m := k.Matrix(xa, xb)
			d := k.Diag(xa, xb)
			require.Equal(t, 3, d.Len())
			for i := 0; i < d.Len(); i++ {
				assert.InDelta(t, m.At(i, i), d.AtVec(i), 1e-9)
			}
		})
	}
}

func TestAddJitter(t *testing.T) {
	k := mat.NewDense(2, 3, nil)
	AddJitter(k, 0.5)
	want := mat.NewDense(2, 3, []float64{
		0.5, 0, 0,
		0, 0.5, 0,
	})
	assertMatEqual(t, want, k, 0)
}

func TestARDRBFWithGrads(t *testing.T) {
	const alpha, h = 1.1, 1e-6
	k, dls, dAlpha := ARDRBFWithGrads(xa, xb, ls, alpha, 0)
	assertMatEqual(t, NewARDRBF(ls, alpha, 0).Matrix(xa, xb), k, tol)

	var fd mat.Dense
	up := NewARDRBF(ls, alpha+h, 0).Matrix(xa, xb)
	down := NewARDRBF(ls, alpha-h, 0).Matrix(xa, xb)
	fd.Sub(up, down)
	fd.Scale(1/(2*h), &fd)
	assertMatEqual(t, &fd, dAlpha, 1e-6)

	require.Len(t, dls, len(ls))
	for d := range ls {
		lsUp := append([]float64(nil), ls...)
		lsDown := append([]float64(nil), ls...)
		lsUp[d] += h
		lsDown[d] -= h
		fd.Sub(NewARDRBF(lsUp, alpha, 0).Matrix(xa, xb), NewARDRBF(lsDown, alpha, 0).Matrix(xa, xb))
		fd.Scale(1/(2*h), &fd)
		assertMatEqual(t, &fd, dls[d], 1e-6)
	}
}

func TestARDRBFWithGradsJitterOnlyOnKernel(t *testing.T) {
	k, _, dAlpha := ARDRBFWithGrads(xa, xa, ls, 1, 0.1)
	assert.InDelta(t, 1.1, k.At(0, 0), tol)
	assert.InDelta(t, 2.0, dAlpha.At(0, 0), tol)
}

func TestBias(t *testing.T) {
	k := NewBias(3, 0.25)
	m := k.Matrix(xa, xb)
	want := mat.NewDense(4, 3, []float64{
		9.25, 9, 9,
		9, 9.25, 9,
		9, 9, 9.25,
		9, 9, 9,
	})
	assertMatEqual(t, want, m, 0)
}

func TestSumFlattens(t *testing.T) {
	a := NewARDRBF(ls, 1, 0)
	b := NewBias(1, 0)
	c := NewMatern32(ls, 1, 0)
	s := NewSum(NewSum(a, b), c)
	require.Len(t, s.Parts(), 3)

	var want mat.Dense
	want.Add(a.Matrix(xa, xb), b.Matrix(xa, xb))
	want.Add(&want, c.Matrix(xa, xb))
	assertMatEqual(t, &want, s.Matrix(xa, xb), tol)
}

func TestNewtonGirard(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{2, 1})
	b := mat.NewDense(1, 2, []float64{3, 4})
	c := mat.NewDense(1, 2, []float64{5, -1})
	e := NewtonGirard([]*mat.Dense{a, b, c}, 4)
	require.Len(t, e, 4)

	// e1 = a+b+c, e2 = ab+ac+bc, e3 = abc, e4 = 0
	assertMatEqual(t, mat.NewDense(1, 2, []float64{10, 4}), e[0], tol)
	assertMatEqual(t, mat.NewDense(1, 2, []float64{31, -1}), e[1], tol)
	assertMatEqual(t, mat.NewDense(1, 2, []float64{30, -4}), e[2], tol)
	assertMatEqual(t, mat.NewDense(1, 2, []float64{0, 0}), e[3], tol)
}

func TestAdditiveFirstOrderIsSumOfBaseKernels(t *testing.T) {
	kernelAlphas := []float64{1.2, 0.6}
	k := NewAdditive(NewARDRBF, ls, []float64{0.7}, kernelAlphas, 0)
	got := k.Matrix(xa, xb)

	var want mat.Dense
	for d := range ls {
		part := NewARDRBF([]float64{ls[d]}, kernelAlphas[d], 0).Matrix(column(xa, d), column(xb, d))
		part.Scale(0.7, part)
		if d == 0 {
			want.CloneFrom(part)
			continue
		}
		want.Add(&want, part)
	}
	assertMatEqual(t, &want, got, tol)
}

func TestAdditiveSecondOrderIsProduct(t *testing.T) {
	k := NewAdditive(NewMatern52, ls, []float64{0, 1}, []float64{1, 1}, 0)
	got := k.Matrix(xa, xb)

	var want mat.Dense
	want.MulElem(
		NewMatern52(ls[:1], 1, 0).Matrix(column(xa, 0), column(xb, 0)),
		NewMatern52(ls[1:], 1, 0).Matrix(column(xa, 1), column(xb, 1)),
	)
	assertMatEqual(t, &want, got, tol)
}
