package linalg

import (
	"gonum.org/v1/gonum/mat"
)

// Concatenate multiple vectors.
func ConcatVecs(vecs ...mat.Vector) *mat.VecDense {
	size := 0
	for _, vec := range vecs {
		size += vec.Len()
	}
	if size == 0 {
		return &mat.VecDense{}
	}
	out := mat.NewVecDense(size, nil)
	offset := 0
	for _, vec := range vecs {
		n := vec.Len()
		if n == 0 {
			continue
		}
		out.SliceVec(offset, offset+n).(*mat.VecDense).CopyVec(vec)
		offset += n
	}
	return out
}

// Make a block diagonal matrix.
func BlockDiag(mats ...mat.Matrix) *mat.Dense {
	rows, cols := 0, 0
	for _, m := range mats {
		r, c := m.Dims()
		rows += r
		cols += c
	}
	out := mat.NewDense(rows, cols, nil)
	ro, co := 0, 0
	for _, m := range mats {
		r, c := m.Dims()
		if r == 0 || c == 0 {
			continue
		}
		out.Slice(ro, ro+r, co, co+c).(*mat.Dense).Copy(m)
		ro += r
		co += c
	}
	return out
}

// Identity Matrix.
func Eye(n int) *mat.Dense {
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}

// RepVector stacks n copies of v as the rows of an n×len(v) matrix.
// For example RepVector([1 2 3], 2) is [[1 2 3] [1 2 3]].
func RepVector(v []float64, n int) *mat.Dense {
	if n <= 0 || len(v) == 0 {
		panic(ErrShape)
	}
	out := mat.NewDense(n, len(v), nil)
	for i := 0; i < n; i++ {
		out.SetRow(i, v)
	}
	return out
}

// RepMatrix returns n independent copies of m.
func RepMatrix(m mat.Matrix, n int) []*mat.Dense {
	if n <= 0 {
		panic(ErrShape)
	}
	out := make([]*mat.Dense, n)
	for i := range out {
		out[i] = mat.DenseCopyOf(m)
	}
	return out
}

// Symmetrize returns (a + aᵀ)/2 as a SymDense. a must be square.
func Symmetrize(a mat.Matrix) *mat.SymDense {
	r, c := a.Dims()
	if r != c {
		panic(ErrNotSquare)
	}
	out := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			out.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return out
}
