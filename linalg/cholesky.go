package linalg

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// AsSymmetric returns a as a mat.Symmetric. Matrices that do not already
// implement the interface are symmetrized from both triangles.
func AsSymmetric(a mat.Matrix) mat.Symmetric {
	if s, ok := a.(mat.Symmetric); ok {
		return s
	}
	return Symmetrize(a)
}

// Cholesky factorizes a, returning an error wrapping ErrNotPositiveDefinite
// when the factorization fails.
func Cholesky(a mat.Matrix) (*mat.Cholesky, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(AsSymmetric(a)); !ok {
		return nil, ErrNotPositiveDefinite
	}
	return &chol, nil
}

// CholeskyLower returns the lower-triangular Cholesky factor L of a, with
// a = L Lᵀ.
func CholeskyLower(a mat.Matrix) (*mat.TriDense, error) {
	chol, err := Cholesky(a)
	if err != nil {
		return nil, err
	}
	var l mat.TriDense
	chol.LTo(&l)
	return &l, nil
}

// CholeskyInverse inverts a symmetric positive-definite matrix through its
// Cholesky factorization.
func CholeskyInverse(a mat.Matrix) (*mat.SymDense, error) {
	chol, err := Cholesky(a)
	if err != nil {
		return nil, err
	}
	var inv mat.SymDense
	if err := singular(chol.InverseTo(&inv)); err != nil {
		return nil, fmt.Errorf("cholesky inverse: %w", err)
	}
	return &inv, nil
}

// LUInverse inverts a square matrix through an LU decomposition with partial
// pivoting. It is the dense counterpart of a sparse LU solve against the
// identity.
func LUInverse(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		panic(ErrNotSquare)
	}
	var lu mat.LU
	lu.Factorize(a)
	var inv mat.Dense
	if err := singular(lu.SolveTo(&inv, false, Eye(r))); err != nil {
		return nil, fmt.Errorf("lu inverse: %w", err)
	}
	return &inv, nil
}

// singular maps a gonum solve error to ErrSingular. A finite mat.Condition
// only warns that the matrix is ill-conditioned; the result is still
// computed and is kept.
func singular(err error) error {
	if err == nil {
		return nil
	}
	var cond mat.Condition
	if errors.As(err, &cond) && !math.IsInf(float64(cond), 1) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrSingular, err)
}

// SolveViaCholesky solves (L Lᵀ) b = y for b given the lower-triangular
// Cholesky factor L. Only the lower triangle of l is read.
func SolveViaCholesky(l mat.Matrix, y mat.Matrix) (*mat.Dense, error) {
	n, c := l.Dims()
	if n != c {
		panic(ErrNotSquare)
	}
	yr, _ := y.Dims()
	if yr != n {
		panic(ErrShape)
	}
	tri := mat.NewTriDense(n, mat.Lower, nil)
	for i := 0; i < n; i++ {
		if l.At(i, i) == 0 {
			return nil, ErrSingular
		}
		for j := 0; j <= i; j++ {
			tri.SetTri(i, j, l.At(i, j))
		}
	}
	b := mat.DenseCopyOf(y)
	// Solve L s = y, then Lᵀ b = s.
	blas64.Trsm(blas.Left, blas.NoTrans, 1.0, tri.RawTriangular(), b.RawMatrix())
	blas64.Trsm(blas.Left, blas.Trans, 1.0, tri.RawTriangular(), b.RawMatrix())
	return b, nil
}

// LogdetViaCholesky returns log|a| computed as 2 Σ log L_ii.
func LogdetViaCholesky(a mat.Matrix) (float64, error) {
	chol, err := Cholesky(a)
	if err != nil {
		return math.NaN(), err
	}
	return chol.LogDet(), nil
}

// NumTriangularElts is the number of elements in the lower triangle of an
// n×n matrix.
func NumTriangularElts(n int, includeDiagonal bool) int {
	if includeDiagonal {
		return n * (n + 1) / 2
	}
	return n * (n - 1) / 2
}

// LowerTriFromElements fills an n×n lower-triangular matrix row by row from
// the packed elements: (0,0), (1,0), (1,1), (2,0), ...
func LowerTriFromElements(elts []float64, n int) *mat.TriDense {
	if len(elts) != NumTriangularElts(n, true) {
		panic(ErrShape)
	}
	l := mat.NewTriDense(n, mat.Lower, nil)
	k := 0
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			l.SetTri(i, j, elts[k])
			k++
		}
	}
	return l
}

// PosDefMatFromVector maps an unconstrained vector of length n(n+1)/2 onto
// a positive semi-definite matrix L Lᵀ + jitter·I.
func PosDefMatFromVector(vec []float64, n int, jitter float64) *mat.SymDense {
	l := LowerTriFromElements(vec, n)
	out := mat.NewSymDense(n, nil)
	out.SymOuterK(1, l)
	for i := 0; i < n; i++ {
		out.SetSym(i, i, out.At(i, i)+jitter)
	}
	return out
}

// VectorFromPosDefMat inverts PosDefMatFromVector: it removes the jitter,
// factorizes and packs the lower Cholesky factor. a is not modified.
func VectorFromPosDefMat(a mat.Matrix, jitter float64) ([]float64, error) {
	n, c := a.Dims()
	if n != c {
		panic(ErrNotSquare)
	}
	shifted := mat.NewSymDense(n, nil)
	shifted.CopySym(AsSymmetric(a))
	for i := 0; i < n; i++ {
		shifted.SetSym(i, i, shifted.At(i, i)-jitter)
	}
	l, err := CholeskyLower(shifted)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, NumTriangularElts(n, true))
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			out = append(out, l.At(i, j))
		}
	}
	return out, nil
}

// GenerateRandomPosDef draws an n×n matrix E with standard normal entries
// and returns E Eᵀ + jitter·I. A nil rnd uses the global source.
func GenerateRandomPosDef(n int, jitter float64, rnd *rand.Rand) *mat.SymDense {
	norm := rand.NormFloat64
	if rnd != nil {
		norm = rnd.NormFloat64
	}
	data := make([]float64, n*n)
	for i := range data {
		data[i] = norm()
	}
	out := mat.NewSymDense(n, nil)
	out.SymOuterK(1, mat.NewDense(n, n, data))
	for i := 0; i < n; i++ {
		out.SetSym(i, i, out.At(i, i)+jitter)
	}
	return out
}
