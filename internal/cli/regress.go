package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/silky/ml-tools/fitters"
	"github.com/silky/ml-tools/internal/config"
	"github.com/silky/ml-tools/internal/logger"
	"github.com/silky/ml-tools/normal"
)

// regress fits y = w₀ + xᵀw one sample at a time under the prior
// N(0, priorVar·I) on the weights.
func regress(p config.Problem, priorVar float64) (*fitters.Recursive, error) {
	n, d := p.TrainX.Dims()
	cov := mat.NewSymDense(d+1, nil)
	for i := 0; i <= d; i++ {
		cov.SetSym(i, i, priorVar)
	}
	f := fitters.NewRecursive(mat.NewVecDense(d+1, nil), cov)

	h := make([]float64, d+1)
	for i := 0; i < n; i++ {
		h[0] = 1
		mat.Row(h[1:], i, p.TrainX)
		if err := f.AddSample(h, p.TrainY.AtVec(i), p.Noise); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return f, nil
}

func regressCmd() *cobra.Command {
	var file string
	var priorVar float64

	c := &cobra.Command{
		Use:   "regress",
		Short: "Fit a Bayesian linear regression to the training data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if priorVar <= 0 {
				return errVariance
			}
			p, err := config.LoadProblem(file)
			if err != nil {
				return err
			}
			if p.Noise <= 0 {
				return fmt.Errorf("%s: regression needs a positive noise variance", file)
			}

			f, err := regress(p, priorVar)
			if err != nil {
				return fmt.Errorf("regress %s: %w", file, err)
			}

			mean, cov := f.Mean(), f.Cov()
			summaries := make([]normal.Summary, mean.Len())
			for i := range summaries {
				summaries[i] = normal.NewSummary(mean.AtVec(i), math.Sqrt(cov.At(i, i)))
			}
			logger.L().Debug("regress.done", "path", file, "samples", len(f.Ys), "energy", f.Energy)

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "energy=%g\n", f.Energy); err != nil {
				return err
			}
			return normal.WriteSummaries(out, summaries)
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Problem YAML file (required)")
	c.Flags().Float64Var(&priorVar, "prior-var", 1, "Prior variance of every weight")

	_ = c.MarkFlagRequired("file")
	return c
}
