// Package flatten packs named arrays into a single vector, as needed by
// optimizers that work on []float64, and unpacks them again.
package flatten

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrShape        = errors.New("flatten: data does not match shape")
	ErrLength       = errors.New("flatten: flat vector length does not match summaries")
	ErrDuplicateKey = errors.New("flatten: duplicate array name")
)

// Array is a dense row-major array of arbitrary rank. A scalar has an empty
// shape and one element.
type Array struct {
	Shape []int
	Data  []float64
}

// NewArray checks that data holds exactly the number of elements implied by
// shape.
func NewArray(shape []int, data []float64) Array {
	if size(shape) != len(data) {
		panic(ErrShape)
	}
	return Array{Shape: shape, Data: data}
}

func Scalar(v float64) Array {
	return Array{Shape: []int{}, Data: []float64{v}}
}

func FromVec(v mat.Vector) Array {
	n := v.Len()
	data := make([]float64, n)
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return Array{Shape: []int{n}, Data: data}
}

func FromDense(m mat.Matrix) Array {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return Array{Shape: []int{r, c}, Data: data}
}

// Dense views a rank-2 array as a matrix sharing its data. Rank-1 arrays are
// returned as column vectors.
func (a Array) Dense() *mat.Dense {
	switch len(a.Shape) {
	case 1:
		return mat.NewDense(a.Shape[0], 1, a.Data)
	case 2:
		return mat.NewDense(a.Shape[0], a.Shape[1], a.Data)
	default:
		panic(ErrShape)
	}
}

func (a Array) Size() int {
	return size(a.Shape)
}

func size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Named pairs an array with the name it is reconstructed under.
type Named struct {
	Name  string
	Array Array
}

// Info records the shape of one flattened array.
type Info struct {
	Name  string
	Shape []int
}

// Summaries lists the flattened arrays in the order they appear in the flat
// vector.
type Summaries []Info

// Size is the total number of elements described by s.
func (s Summaries) Size() int {
	n := 0
	for _, info := range s {
		n += size(info.Shape)
	}
	return n
}

// FlattenAndSummarise concatenates the arrays in argument order and returns
// the shape metadata needed by Reconstruct.
func FlattenAndSummarise(arrays ...Named) ([]float64, Summaries) {
	seen := make(map[string]struct{}, len(arrays))
	summaries := make(Summaries, 0, len(arrays))
	total := 0
	for _, a := range arrays {
		if _, ok := seen[a.Name]; ok {
			panic(fmt.Errorf("%w: %q", ErrDuplicateKey, a.Name))
		}
		seen[a.Name] = struct{}{}
		if a.Array.Size() != len(a.Array.Data) {
			panic(ErrShape)
		}
		shape := slices.Clone(a.Array.Shape)
		summaries = append(summaries, Info{Name: a.Name, Shape: shape})
		total += len(a.Array.Data)
	}
	flat := make([]float64, 0, total)
	for _, a := range arrays {
		flat = append(flat, a.Array.Data...)
	}
	return flat, summaries
}

// Reconstruct splits flat back into named arrays. The returned arrays own
// their data.
func Reconstruct(flat []float64, summaries Summaries) (map[string]Array, error) {
	if len(flat) != summaries.Size() {
		return nil, fmt.Errorf("%w: got %d elements, want %d", ErrLength, len(flat), summaries.Size())
	}
	out := make(map[string]Array, len(summaries))
	offset := 0
	for _, info := range summaries {
		n := size(info.Shape)
		data := make([]float64, n)
		copy(data, flat[offset:offset+n])
		out[info.Name] = Array{
			Shape: slices.Clone(info.Shape),
			Data:  data,
		}
		offset += n
	}
	return out, nil
}
