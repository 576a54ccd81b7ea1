package config

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/silky/ml-tools/kern"
)

// Problem is a Gaussian-process regression problem: a kernel, observation
// noise, training data and optional test inputs.
type Problem struct {
	Kernel kern.Kernel
	// Cross is Kernel without jitter, for covariances between distinct
	// sets of inputs.
	Cross  kern.Kernel
	Noise  float64
	TrainX *mat.Dense
	TrainY *mat.VecDense
	TestX  *mat.Dense // nil when no test inputs are given.
}

func MapProblem(path string, yp YAMLProblem) (Problem, error) {
	if yp.Noise < 0 {
		return Problem{}, invalidField(path, "noise", "must be non-negative")
	}
	trainX, err := mapInputs(path, "train.x", yp.Train.X)
	if err != nil {
		return Problem{}, err
	}
	if trainX == nil {
		return Problem{}, invalidField(path, "train.x", "at least one training input is required")
	}
	n, d := trainX.Dims()
	if len(yp.Train.Y) != n {
		return Problem{}, invalidField(path, "train.y",
			fmt.Sprintf("expected %d values, got %d", n, len(yp.Train.Y)))
	}

	testX, err := mapInputs(path, "test.x", yp.Test.X)
	if err != nil {
		return Problem{}, err
	}
	if testX != nil {
		if _, td := testX.Dims(); td != d {
			return Problem{}, invalidField(path, "test.x",
				fmt.Sprintf("expected %d columns, got %d", d, td))
		}
	}

	k, err := mapKernel(path, "kernel", yp.Kernel, d, true)
	if err != nil {
		return Problem{}, err
	}
	cross, err := mapKernel(path, "kernel", yp.Kernel, d, false)
	if err != nil {
		return Problem{}, err
	}

	return Problem{
		Kernel: k,
		Cross:  cross,
		Noise:  yp.Noise,
		TrainX: trainX,
		TrainY: mat.NewVecDense(n, append([]float64(nil), yp.Train.Y...)),
		TestX:  testX,
	}, nil
}

func mapInputs(path, field string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	d := len(rows[0])
	if d == 0 {
		return nil, invalidField(path, field+"[0]", "inputs must have at least one column")
	}
	out := mat.NewDense(len(rows), d, nil)
	for i, row := range rows {
		if len(row) != d {
			return nil, invalidField(path, fmt.Sprintf("%s[%d]", field, i),
				fmt.Sprintf("expected %d columns, got %d", d, len(row)))
		}
		out.SetRow(i, row)
	}
	return out, nil
}

type stationaryFunc func(lengthscales []float64, alpha, jitter float64) kern.Kernel

var stationary = map[string]stationaryFunc{
	"rbf":      func(l []float64, a, j float64) kern.Kernel { return kern.NewARDRBF(l, a, j) },
	"matern12": func(l []float64, a, j float64) kern.Kernel { return kern.NewMatern12(l, a, j) },
	"matern32": func(l []float64, a, j float64) kern.Kernel { return kern.NewMatern32(l, a, j) },
	"matern52": func(l []float64, a, j float64) kern.Kernel { return kern.NewMatern52(l, a, j) },
}

func mapKernel(path, field string, yk YAMLKernel, dim int, withJitter bool) (kern.Kernel, error) {
	alpha := 1.0
	if yk.Alpha != nil {
		alpha = *yk.Alpha
	}
	jitter := kern.DefaultJitter
	if yk.Jitter != nil {
		jitter = *yk.Jitter
	}
	if !withJitter {
		jitter = 0
	}
	kind := strings.ToLower(strings.TrimSpace(yk.Type))

	switch kind {
	case "bias":
		return kern.NewBias(alpha, jitter), nil

	case "sum":
		if len(yk.Parts) == 0 {
			return nil, invalidField(path, field+".parts", "sum kernel needs at least one part")
		}
		parts := make([]kern.Kernel, len(yk.Parts))
		for i, p := range yk.Parts {
			k, err := mapKernel(path, fmt.Sprintf("%s.parts[%d]", field, i), p, dim, withJitter)
			if err != nil {
				return nil, err
			}
			parts[i] = k
		}
		return kern.NewSum(parts...), nil

	case "additive":
		base, ok := stationary[strings.ToLower(strings.TrimSpace(yk.Base))]
		if !ok {
			return nil, invalidField(path, field+".base", fmt.Sprintf("unknown base kernel %q", yk.Base))
		}
		if err := checkLengthscales(path, field, yk.Lengthscales, dim); err != nil {
			return nil, err
		}
		kernelAlphas := yk.KernelAlphas
		if len(kernelAlphas) == 0 {
			kernelAlphas = make([]float64, dim)
			for i := range kernelAlphas {
				kernelAlphas[i] = 1
			}
		}
		if len(kernelAlphas) != dim {
			return nil, invalidField(path, field+".kernel_alphas",
				fmt.Sprintf("expected %d values, got %d", dim, len(kernelAlphas)))
		}
		if len(yk.AdditiveAlphas) == 0 {
			return nil, invalidField(path, field+".additive_alphas", "at least one order is required")
		}
		return kern.NewAdditive(kern.BaseFunc[kern.Kernel](base), yk.Lengthscales, yk.AdditiveAlphas,
			kernelAlphas, jitter), nil
	}

	newKernel, ok := stationary[kind]
	if !ok {
		return nil, invalidField(path, field+".type", fmt.Sprintf("unknown kernel type %q", yk.Type))
	}
	if err := checkLengthscales(path, field, yk.Lengthscales, dim); err != nil {
		return nil, err
	}
	return newKernel(yk.Lengthscales, alpha, jitter), nil
}

func checkLengthscales(path, field string, lengthscales []float64, dim int) error {
	if len(lengthscales) != dim {
		return invalidField(path, field+".lengthscales",
			fmt.Sprintf("expected %d values, got %d", dim, len(lengthscales)))
	}
	for i, l := range lengthscales {
		if !(l > 0) {
			return invalidField(path, fmt.Sprintf("%s.lengthscales[%d]", field, i), "must be positive")
		}
	}
	return nil
}
