package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	sum *Sum
	_   Kernel = sum // Check that Sum respects the Kernel interface.
)

// Sum adds the covariances of its parts. Nested sums are flattened.
type Sum struct {
	parts []Kernel
}

func NewSum(kernels ...Kernel) *Sum {
	parts := make([]Kernel, 0, len(kernels))
	for _, k := range kernels {
		switch k := k.(type) {
		case *Sum:
			parts = append(parts, k.parts...)
		default:
			parts = append(parts, k)
		}
	}
	return &Sum{
		parts: parts,
	}
}

// Parts returns the flattened list of summed kernels.
func (k *Sum) Parts() []Kernel {
	return k.parts
}

func (k *Sum) Matrix(x1, x2 mat.Matrix) *mat.Dense {
	var out *mat.Dense
	for _, part := range k.parts {
		m := part.Matrix(x1, x2)
		if out == nil {
			out = m
			continue
		}
		out.Add(out, m)
	}
	return out
}

func (k *Sum) Diag(x1, x2 mat.Matrix) *mat.VecDense {
	var out *mat.VecDense
	for _, part := range k.parts {
		v := part.Diag(x1, x2)
		if out == nil {
			out = v
			continue
		}
		out.AddVec(out, v)
	}
	return out
}
