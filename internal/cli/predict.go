package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/silky/ml-tools/internal/config"
	"github.com/silky/ml-tools/internal/logger"
	"github.com/silky/ml-tools/linalg"
	"github.com/silky/ml-tools/normal"
)

// posterior returns the zero-mean GP posterior at the test inputs given
// the noisy training observations. The cross-covariance carries no jitter.
func posterior(p config.Problem) (*normal.Conditional, error) {
	n, _ := p.TrainX.Dims()
	m, _ := p.TestX.Dims()

	b := p.Kernel.Matrix(p.TrainX, p.TrainX)
	for i := 0; i < n; i++ {
		b.Set(i, i, b.At(i, i)+p.Noise)
	}
	a := p.Kernel.Matrix(p.TestX, p.TestX)
	c := p.Cross.Matrix(p.TestX, p.TrainX)

	return normal.ConditionalMeanAndCov(
		mat.NewVecDense(m, nil), mat.NewVecDense(n, nil), p.TrainY,
		linalg.Symmetrize(a), c, linalg.Symmetrize(b),
	)
}

func predictCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "predict",
		Short: "Print the GP posterior at the test inputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.LoadProblem(file)
			if err != nil {
				return err
			}
			if p.TestX == nil {
				return fmt.Errorf("%s: no test inputs", file)
			}

			post, err := posterior(p)
			if err != nil {
				return fmt.Errorf("predict %s: %w", file, err)
			}

			n := post.Mean.Len()
			summaries := make([]normal.Summary, n)
			for i := 0; i < n; i++ {
				summaries[i] = normal.NewSummary(post.Mean.AtVec(i), math.Sqrt(math.Max(post.Cov.At(i, i), 0)))
			}
			logger.L().Debug("predict.done", "path", file, "points", n)

			return normal.WriteSummaries(cmd.OutOrStdout(), summaries)
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Problem YAML file (required)")

	_ = c.MarkFlagRequired("file")
	return c
}
